package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quickbite/internal/modules/order"
	"quickbite/internal/types"
)

type OrderHandler struct {
	svc *order.Service
}

func NewOrderHandler(svc *order.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type placeOrderRequest struct {
	Address       string  `json:"address"`
	Mobile        string  `json:"mobile"`
	PaymentMethod string  `json:"payment_method"`
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
}

func (h *OrderHandler) Place(c *gin.Context) {
	if !requireRole(c, "customer") {
		return
	}
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	o, err := h.svc.Place(c.Request.Context(), order.PlaceCommand{
		CustomerID:    requester(c).ID,
		Address:       req.Address,
		Mobile:        req.Mobile,
		PaymentMethod: order.PaymentMethod(req.PaymentMethod),
		Location:      types.Point{Lat: req.Lat, Lng: req.Lng},
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, o)
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.svc.Get(c.Request.Context(), types.ID(c.Param("id")), requester(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, o)
}

func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.svc.List(c.Request.Context(), requester(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"orders": orders})
}

type decisionRequest struct {
	Confirm bool `json:"confirm"`
}

func (h *OrderHandler) RestaurantDecision(c *gin.Context) {
	if !requireRole(c, "restaurant") {
		return
	}
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	o, err := h.svc.RestaurantDecision(c.Request.Context(), order.DecideCommand{
		OrderID: types.ID(c.Param("id")),
		Confirm: req.Confirm,
		Actor:   requester(c),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, o)
}

type deliveryStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) ProgressDelivery(c *gin.Context) {
	if !requireRole(c, "partner") {
		return
	}
	var req deliveryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	o, err := h.svc.ProgressDelivery(c.Request.Context(), order.ProgressCommand{
		OrderID:   types.ID(c.Param("id")),
		PartnerID: requester(c).ID,
		Target:    order.DeliveryStatus(req.Status),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, o)
}

func (h *OrderHandler) MarkPaymentReceived(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}
	o, err := h.svc.MarkPaymentReceived(c.Request.Context(), types.ID(c.Param("id")), requester(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, o)
}

func (h *OrderHandler) RetryAssignment(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}
	o, err := h.svc.RetryAssignment(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, o)
}

func (h *OrderHandler) Delete(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), types.ID(c.Param("id"))); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"deleted": c.Param("id")})
}
