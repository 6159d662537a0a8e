package handler

import (
	"net/http"
	"strconv"

	"FilmDB/internal/service"

	"github.com/gin-gonic/gin"
)

type TMDBHandler struct {
	svc *service.TMDBService
}

func NewTMDBHandler(svc *service.TMDBService) *TMDBHandler {
	return &TMDBHandler{svc: svc}
}

func (h *TMDBHandler) Search(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	result, err := h.svc.Search(c.Request.Context(), c.Query("query"), page)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, result)
}

func (h *TMDBHandler) Details(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("tmdbId"), 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, "invalid tmdbId")
		return
	}
	title, err := h.svc.Details(c.Request.Context(), c.Param("mediaType"), id)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, title)
}
