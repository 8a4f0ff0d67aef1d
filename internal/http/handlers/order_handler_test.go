// README: Authorization tests for the order handler role checks.
package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"quickbite/internal/http/handlers"
	httpmiddleware "quickbite/internal/http/middleware"
	"quickbite/internal/infra"
	"quickbite/internal/modules/order"
)

// stubVerifier is a test double for infra.TokenVerifier.
type stubVerifier struct {
	token *infra.AuthToken
	err   error
}

func (s *stubVerifier) Verify(string) (*infra.AuthToken, error) {
	return s.token, s.err
}

func verifierFor(uid, role string, admin bool) *stubVerifier {
	return &stubVerifier{token: &infra.AuthToken{Subject: uid, Role: role, IsAdmin: admin}}
}

// buildTestRouter wires a minimal engine with the auth middleware and the
// order handler. The service carries nil collaborators; every test here
// must be rejected by the role check before any service call.
func buildTestRouter(verifier infra.TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := order.NewService(nil, nil, nil, nil, log)
	r := gin.New()
	r.Use(httpmiddleware.Auth(verifier))
	h := handlers.NewOrderHandler(svc)
	r.POST("/api/orders", h.Place)
	r.PATCH("/api/orders/:id/restaurant-decision", h.RestaurantDecision)
	r.PATCH("/api/orders/:id/delivery-status", h.ProgressDelivery)
	r.PATCH("/api/orders/:id/payment-status", h.MarkPaymentReceived)
	r.POST("/api/orders/:id/retry-assignment", h.RetryAssignment)
	r.DELETE("/api/orders/:id", h.Delete)
	return r
}

func doRequest(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPlaceRejectsNonCustomers(t *testing.T) {
	for _, role := range []string{"restaurant", "partner"} {
		r := buildTestRouter(verifierFor("u1", role, false))
		w := doRequest(r, http.MethodPost, "/api/orders", gin.H{})
		assert.Equal(t, http.StatusForbidden, w.Code, "role %s", role)
	}
}

func TestPlaceRejectsMissingToken(t *testing.T) {
	r := buildTestRouter(&stubVerifier{err: infra.ErrInvalidToken})
	w := doRequest(r, http.MethodPost, "/api/orders", gin.H{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRestaurantDecisionRejectsCustomer(t *testing.T) {
	r := buildTestRouter(verifierFor("u1", "customer", false))
	w := doRequest(r, http.MethodPatch, "/api/orders/o1/restaurant-decision", gin.H{"confirm": true})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeliveryStatusRejectsNonPartners(t *testing.T) {
	for _, role := range []string{"customer", "restaurant"} {
		r := buildTestRouter(verifierFor("u1", role, false))
		w := doRequest(r, http.MethodPatch, "/api/orders/o1/delivery-status", gin.H{"status": "picked"})
		assert.Equal(t, http.StatusForbidden, w.Code, "role %s", role)
	}
}

func TestAdminOnlyEndpointsRejectOtherRoles(t *testing.T) {
	endpoints := []struct{ method, path string }{
		{http.MethodPatch, "/api/orders/o1/payment-status"},
		{http.MethodPost, "/api/orders/o1/retry-assignment"},
		{http.MethodDelete, "/api/orders/o1"},
	}
	for _, role := range []string{"customer", "restaurant", "partner"} {
		r := buildTestRouter(verifierFor("u1", role, false))
		for _, ep := range endpoints {
			w := doRequest(r, ep.method, ep.path, gin.H{})
			assert.Equal(t, http.StatusForbidden, w.Code, "%s %s as %s", ep.method, ep.path, role)
		}
	}
}

func TestPlaceInvalidBody(t *testing.T) {
	r := buildTestRouter(verifierFor("u1", "customer", false))
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer test-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
