package handler

import (
	"net/http"

	"FilmDB/internal/service"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	svc *service.RatingService
}

func NewRatingHandler(svc *service.RatingService) *RatingHandler {
	return &RatingHandler{svc: svc}
}

type RatingReq struct {
	Rating int `json:"rating"`
}

// Upsert serves both POST and PATCH; range checks live in the service.
func (h *RatingHandler) Upsert(c *gin.Context) {
	mediaID, ok := uintParam(c, "mediaId")
	if !ok {
		return
	}
	var req RatingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "rating must be a number")
		return
	}
	m, err := h.svc.UpsertRating(c.Request.Context(), c.Param("community"), mediaID, userID(c), req.Rating)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, m)
}

func (h *RatingHandler) List(c *gin.Context) {
	mediaID, ok := uintParam(c, "mediaId")
	if !ok {
		return
	}
	list, err := h.svc.ListRatings(c.Request.Context(), c.Param("community"), mediaID, userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, list)
}

func (h *RatingHandler) Delete(c *gin.Context) {
	mediaID, ok := uintParam(c, "mediaId")
	if !ok {
		return
	}
	m, err := h.svc.DeleteRating(c.Request.Context(), c.Param("community"), mediaID, userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, m)
}
