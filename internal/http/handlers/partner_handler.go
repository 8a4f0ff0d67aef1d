package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quickbite/internal/modules/partner"
	"quickbite/internal/types"
)

type PartnerHandler struct {
	svc *partner.Service
}

func NewPartnerHandler(svc *partner.Service) *PartnerHandler {
	return &PartnerHandler{svc: svc}
}

type registerPartnerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	VehicleType string `json:"vehicle_type"`
	Address     string `json:"address"`
}

func (h *PartnerHandler) Register(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}
	var req registerPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := h.svc.Register(c.Request.Context(), partner.RegisterCommand{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		VehicleType: req.VehicleType,
		Address:     req.Address,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, p)
}

func (h *PartnerHandler) Get(c *gin.Context) {
	if !requireRole(c, "partner") {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), h.targetID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}

type locationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (h *PartnerHandler) UpdateLocation(c *gin.Context) {
	if !requireRole(c, "partner") {
		return
	}
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := h.svc.UpdateLocation(c.Request.Context(), h.targetID(c), types.Point{Lat: req.Lat, Lng: req.Lng})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}

type availabilityRequest struct {
	Available bool `json:"available"`
}

func (h *PartnerHandler) SetAvailability(c *gin.Context) {
	if !requireRole(c, "partner") {
		return
	}
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := h.svc.SetAvailability(c.Request.Context(), h.targetID(c), req.Available)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}

// targetID lets admins act on any partner via the :id param; partners
// always act on themselves.
func (h *PartnerHandler) targetID(c *gin.Context) types.ID {
	req := requester(c)
	if req.IsAdmin {
		if id := c.Param("id"); id != "" {
			return types.ID(id)
		}
	}
	return req.ID
}
