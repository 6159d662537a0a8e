package handler

import (
	"net/http"
	"strconv"

	"FilmDB/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	svc   *service.CommentService
	likes *service.CommentLikeService
}

func NewCommentHandler(svc *service.CommentService, likes *service.CommentLikeService) *CommentHandler {
	return &CommentHandler{svc: svc, likes: likes}
}

type CommentCreateReq struct {
	Body     string  `json:"body"`
	ParentID *uint64 `json:"parentId"`
}

type CommentUpdateReq struct {
	Body string `json:"body"`
}

type CommentPage struct {
	Items      any    `json:"items"`
	NextCursor uint64 `json:"nextCursor,omitempty"`
}

// List returns the whole thread level unless limit is given, in which case
// the response is a cursor page.
func (h *CommentHandler) List(c *gin.Context) {
	mediaID, ok := uintParam(c, "mediaId")
	if !ok {
		return
	}

	var parentID *uint64
	if raw := c.Query("parentId"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid parentId")
			return
		}
		parentID = &v
	}
	var limit int
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			fail(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = v
	}
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)

	items, next, err := h.svc.ListComments(c.Request.Context(), c.Param("community"), mediaID, userID(c), parentID, cursor, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	if limit == 0 {
		success(c, http.StatusOK, items)
		return
	}
	success(c, http.StatusOK, CommentPage{Items: items, NextCursor: next})
}

func (h *CommentHandler) Create(c *gin.Context) {
	mediaID, ok := uintParam(c, "mediaId")
	if !ok {
		return
	}
	var req CommentCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "comment body is required")
		return
	}
	view, err := h.svc.CreateComment(c.Request.Context(), c.Param("community"), mediaID, userID(c), req.Body, req.ParentID)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusCreated, view)
}

func (h *CommentHandler) Update(c *gin.Context) {
	mediaID, ok := uintParam(c, "mediaId")
	if !ok {
		return
	}
	commentID, ok := uintParam(c, "commentId")
	if !ok {
		return
	}
	var req CommentUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "comment body is required")
		return
	}
	cm, err := h.svc.UpdateComment(c.Request.Context(), c.Param("community"), mediaID, commentID, userID(c), req.Body)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, cm)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	mediaID, ok := uintParam(c, "mediaId")
	if !ok {
		return
	}
	commentID, ok := uintParam(c, "commentId")
	if !ok {
		return
	}
	cm, err := h.svc.DeleteComment(c.Request.Context(), c.Param("community"), mediaID, commentID, userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, cm)
}

func (h *CommentHandler) Like(c *gin.Context) {
	h.toggleLike(c, true)
}

func (h *CommentHandler) Unlike(c *gin.Context) {
	h.toggleLike(c, false)
}

func (h *CommentHandler) toggleLike(c *gin.Context, like bool) {
	mediaID, ok := uintParam(c, "mediaId")
	if !ok {
		return
	}
	commentID, ok := uintParam(c, "commentId")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	var (
		changed bool
		err     error
	)
	if like {
		changed, err = h.likes.Like(ctx, c.Param("community"), mediaID, commentID, userID(c))
	} else {
		changed, err = h.likes.Unlike(ctx, c.Param("community"), mediaID, commentID, userID(c))
	}
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{"changed": changed})
}

func (h *CommentHandler) LikeStatus(c *gin.Context) {
	mediaID, ok := uintParam(c, "mediaId")
	if !ok {
		return
	}
	commentID, ok := uintParam(c, "commentId")
	if !ok {
		return
	}
	status, err := h.likes.Status(c.Request.Context(), c.Param("community"), mediaID, commentID, userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, status)
}
