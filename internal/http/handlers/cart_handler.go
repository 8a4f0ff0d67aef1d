package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quickbite/internal/modules/cart"
	"quickbite/internal/types"
)

type CartHandler struct {
	svc *cart.Service
}

func NewCartHandler(svc *cart.Service) *CartHandler {
	return &CartHandler{svc: svc}
}

type cartItemRequest struct {
	FoodID   string `json:"food_id"`
	Quantity int    `json:"quantity"`
}

func (h *CartHandler) Add(c *gin.Context) {
	if !requireRole(c, "customer") {
		return
	}
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	err := h.svc.Add(c.Request.Context(), requester(c).ID, types.ID(req.FoodID), req.Quantity)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"added": req.FoodID})
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	if !requireRole(c, "customer") {
		return
	}
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	err := h.svc.UpdateQuantity(c.Request.Context(), requester(c).ID, types.ID(c.Param("foodId")), req.Quantity)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"updated": c.Param("foodId")})
}

func (h *CartHandler) Remove(c *gin.Context) {
	if !requireRole(c, "customer") {
		return
	}
	err := h.svc.Remove(c.Request.Context(), requester(c).ID, types.ID(c.Param("foodId")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"removed": c.Param("foodId")})
}

func (h *CartHandler) Items(c *gin.Context) {
	if !requireRole(c, "customer") {
		return
	}
	items, err := h.svc.Items(c.Request.Context(), requester(c).ID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"items": items})
}

func (h *CartHandler) Clear(c *gin.Context) {
	if !requireRole(c, "customer") {
		return
	}
	if err := h.svc.Clear(c.Request.Context(), requester(c).ID); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"cleared": true})
}
