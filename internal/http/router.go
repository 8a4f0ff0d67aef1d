// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"quickbite/internal/http/handlers"
	"quickbite/internal/http/middleware"
	"quickbite/internal/infra"
	"quickbite/internal/modules/cart"
	"quickbite/internal/modules/catalog"
	"quickbite/internal/modules/order"
	"quickbite/internal/modules/partner"
	"quickbite/internal/modules/payment"
	"quickbite/internal/notify"
)

type RouterDeps struct {
	Order    *order.Service
	Cart     *cart.Service
	Partner  *partner.Service
	Catalog  *catalog.Service
	Payment  *payment.Service
	Hub      *notify.Hub
	Verifier infra.TokenVerifier
	Log      *logrus.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(deps.Log), middleware.Logging(deps.Log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	orderHandler := handlers.NewOrderHandler(deps.Order)
	cartHandler := handlers.NewCartHandler(deps.Cart)
	partnerHandler := handlers.NewPartnerHandler(deps.Partner)
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog)
	paymentHandler := handlers.NewPaymentHandler(deps.Payment, deps.Order)
	wsHandler := handlers.NewWSHandler(deps.Hub, deps.Log)

	api := r.Group("/api", middleware.Auth(deps.Verifier))

	api.POST("/orders", orderHandler.Place)
	api.GET("/orders", orderHandler.List)
	api.GET("/orders/:id", orderHandler.Get)
	api.DELETE("/orders/:id", orderHandler.Delete)
	api.PATCH("/orders/:id/restaurant-decision", orderHandler.RestaurantDecision)
	api.PATCH("/orders/:id/delivery-status", orderHandler.ProgressDelivery)
	api.PATCH("/orders/:id/payment-status", orderHandler.MarkPaymentReceived)
	api.POST("/orders/:id/retry-assignment", orderHandler.RetryAssignment)

	api.GET("/cart", cartHandler.Items)
	api.POST("/cart", cartHandler.Add)
	api.PATCH("/cart/:foodId", cartHandler.UpdateQuantity)
	api.DELETE("/cart/:foodId", cartHandler.Remove)
	api.DELETE("/cart", cartHandler.Clear)

	api.POST("/partners", partnerHandler.Register)
	api.GET("/partners/me", partnerHandler.Get)
	api.GET("/partners/:id", partnerHandler.Get)
	api.PUT("/partners/me/location", partnerHandler.UpdateLocation)
	api.PUT("/partners/me/availability", partnerHandler.SetAvailability)

	api.POST("/restaurants", catalogHandler.AddRestaurant)
	api.GET("/restaurants/nearby", catalogHandler.NearbyRestaurants)
	api.GET("/restaurants/:id", catalogHandler.GetRestaurant)
	api.PATCH("/restaurants/:id/block", catalogHandler.SetRestaurantBlocked)
	api.POST("/restaurants/:id/foods", catalogHandler.AddFood)
	api.GET("/foods", catalogHandler.ListFoods)
	api.GET("/foods/:id", catalogHandler.GetFood)

	api.POST("/payments", paymentHandler.CreateGatewayOrder)
	api.POST("/payments/verify", paymentHandler.VerifyPayment)

	r.GET("/ws/admin", middleware.Auth(deps.Verifier), wsHandler.AdminSocket)

	return r
}
