package handlers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"quickbite/internal/modules/order"
	"quickbite/internal/modules/payment"
	"quickbite/internal/types"
)

type PaymentHandler struct {
	payments *payment.Service
	orders   *order.Service
}

func NewPaymentHandler(payments *payment.Service, orders *order.Service) *PaymentHandler {
	return &PaymentHandler{payments: payments, orders: orders}
}

type createPaymentRequest struct {
	OrderID string `json:"order_id"`
}

// CreateGatewayOrder opens a gateway order for an online payment. The
// amount comes from the stored order, never from the client.
func (h *PaymentHandler) CreateGatewayOrder(c *gin.Context) {
	if !requireRole(c, "customer") {
		return
	}
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	o, err := h.orders.Get(c.Request.Context(), types.ID(req.OrderID), requester(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if o.PaymentStatus != order.PaymentPending {
		writeError(c, http.StatusConflict, "payment already received")
		return
	}
	amountMinor := int64(math.Round(o.TotalPrice * 100))
	gw, err := h.payments.CreateGatewayOrder(c.Request.Context(), amountMinor, "INR", string(o.ID))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gw)
}

type verifyPaymentRequest struct {
	OrderID        string `json:"order_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	PaymentID      string `json:"payment_id"`
	Signature      string `json:"signature"`
}

// VerifyPayment checks the gateway signature and, on success, flips the
// order's payment axis to received.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	if !requireRole(c, "customer") {
		return
	}
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.payments.VerifySignature(req.GatewayOrderID, req.PaymentID, req.Signature); err != nil {
		writeDomainError(c, err)
		return
	}
	// Scoped read first so a customer can only settle their own order.
	if _, err := h.orders.Get(c.Request.Context(), types.ID(req.OrderID), requester(c)); err != nil {
		writeDomainError(c, err)
		return
	}
	o, err := h.orders.MarkPaymentReceived(c.Request.Context(), types.ID(req.OrderID), requester(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, o)
}
