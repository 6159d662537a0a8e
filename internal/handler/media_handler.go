package handler

import (
	"net/http"

	"FilmDB/internal/model"
	"FilmDB/internal/service"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	svc *service.MediaService
}

func NewMediaHandler(svc *service.MediaService) *MediaHandler {
	return &MediaHandler{svc: svc}
}

type MediaReq struct {
	Title        string `json:"title" binding:"required"`
	MediaType    string `json:"mediaType" binding:"required,oneof=movie tv"`
	TmdbID       int64  `json:"tmdbId" binding:"required,gt=0"`
	PosterPath   string `json:"posterPath"`
	BackdropPath string `json:"backdropPath"`
	Watched      bool   `json:"watched"`
}

// MediaTransitionReq must name the target state; an absent field is rejected.
type MediaTransitionReq struct {
	Watched *bool `json:"watched" binding:"required"`
}

func transitionOf(watched bool) service.Transition {
	if watched {
		return service.SetWatched
	}
	return service.SetQueued
}

func (h *MediaHandler) List(c *gin.Context) {
	list, err := h.svc.ListMedia(c.Request.Context(), c.Param("community"), userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, list)
}

// CreateOrUpdate upserts a title into the watch list.
func (h *MediaHandler) CreateOrUpdate(c *gin.Context) {
	var req MediaReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "title, mediaType and tmdbId are required")
		return
	}
	m, err := h.svc.CreateOrUpdateMedia(c.Request.Context(), c.Param("community"), userID(c), service.MediaInput{
		Title:        req.Title,
		MediaType:    model.MediaType(req.MediaType),
		TmdbID:       req.TmdbID,
		PosterPath:   req.PosterPath,
		BackdropPath: req.BackdropPath,
		Transition:   transitionOf(req.Watched),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, m)
}

func (h *MediaHandler) Reorder(c *gin.Context) {
	var positions []model.QueuePosition
	if err := c.ShouldBindJSON(&positions); err != nil {
		fail(c, http.StatusBadRequest, "expected a list of {id, queue}")
		return
	}
	list, err := h.svc.ReorderQueue(c.Request.Context(), c.Param("community"), userID(c), positions)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, list)
}

func (h *MediaHandler) Get(c *gin.Context) {
	mediaID, ok := uintParam(c, "mediaId")
	if !ok {
		return
	}
	m, err := h.svc.GetMedia(c.Request.Context(), c.Param("community"), mediaID, userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, m)
}

// Update moves one item between queue and watched.
func (h *MediaHandler) Update(c *gin.Context) {
	mediaID, ok := uintParam(c, "mediaId")
	if !ok {
		return
	}
	var req MediaTransitionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "watched is required")
		return
	}
	m, err := h.svc.UpdateMedia(c.Request.Context(), c.Param("community"), mediaID, userID(c), transitionOf(*req.Watched))
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, m)
}

func (h *MediaHandler) Delete(c *gin.Context) {
	mediaID, ok := uintParam(c, "mediaId")
	if !ok {
		return
	}
	if err := h.svc.DeleteMedia(c.Request.Context(), c.Param("community"), mediaID, userID(c)); err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, nil)
}
