package handler

import (
	"net/http"

	"FilmDB/internal/service"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	svc *service.CommunityService
}

func NewCommunityHandler(svc *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{svc: svc}
}

type CommunityCreateReq struct {
	Name        string  `json:"name" binding:"required,max=64"`
	Description *string `json:"description"`
}

type CommunityUpdateReq struct {
	Name        *string `json:"name" binding:"omitempty,max=64"`
	Description *string `json:"description"`
}

type InviteReq struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *CommunityHandler) List(c *gin.Context) {
	list, err := h.svc.ListCommunities(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, list)
}

func (h *CommunityHandler) Create(c *gin.Context) {
	var req CommunityCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "community name is required")
		return
	}
	community, err := h.svc.CreateCommunity(c.Request.Context(), userID(c), service.CreateCommunityInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusCreated, community)
}

func (h *CommunityHandler) Get(c *gin.Context) {
	detail, err := h.svc.FindCommunityBySlugOrID(c.Request.Context(), c.Param("community"), userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, detail)
}

func (h *CommunityHandler) Update(c *gin.Context) {
	var req CommunityUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid params")
		return
	}
	community, err := h.svc.UpdateCommunity(c.Request.Context(), c.Param("community"), userID(c), service.UpdateCommunityInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, community)
}

// Join expects the invite code in the code query parameter.
func (h *CommunityHandler) Join(c *gin.Context) {
	community, err := h.svc.AddUserToCommunity(c.Request.Context(), c.Query("code"), userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, community)
}

func (h *CommunityHandler) Leave(c *gin.Context) {
	if err := h.svc.RemoveUserFromCommunity(c.Request.Context(), c.Param("community"), userID(c)); err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, nil)
}

func (h *CommunityHandler) Invite(c *gin.Context) {
	var req InviteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "a valid email is required")
		return
	}
	if err := h.svc.SendInvite(c.Request.Context(), c.Param("community"), userID(c), req.Email); err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{"sent": true})
}
