// README: Entry point; loads config, wires services, starts HTTP server and background monitors.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"quickbite/internal/config"
	httptransport "quickbite/internal/http"
	"quickbite/internal/infra"
	"quickbite/internal/modules/assignment"
	"quickbite/internal/modules/cart"
	"quickbite/internal/modules/catalog"
	"quickbite/internal/modules/order"
	"quickbite/internal/modules/partner"
	"quickbite/internal/modules/payment"
	"quickbite/internal/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("QUICKBITE_JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := infra.NewLogger()
	verifier := infra.NewJWTVerifier(cfg.Auth.JWTSecret)

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	catalogStore := catalog.NewPgStore(dbPool, redisClient)
	catalogSvc := catalog.NewService(catalogStore)

	cartStore := cart.NewPgStore(dbPool)
	cartSvc := cart.NewService(cartStore, catalogSvc)

	geoIndex := assignment.NewRedisGeoIndex(redisClient)
	claimStore := assignment.NewPgClaimStore(dbPool)
	engine := assignment.NewEngine(geoIndex, claimStore, cfg.Assignment, logger)

	hub := notify.NewHub(logger)
	mailer := notify.NewSMTPMailer(cfg.SMTP)
	notifier := notify.NewOrderNotifier(hub, mailer, catalogSvc, nil, logger)

	orderStore := order.NewPgStore(dbPool)
	orderSvc := order.NewService(orderStore, catalogSvc, engine, notifier, logger)

	geocoder, err := partner.NewMapsGeocoder(cfg.Maps.APIKey)
	if err != nil {
		log.Fatalf("geocoder init: %v", err)
	}
	partnerStore := partner.NewPgStore(dbPool)
	partnerSvc := partner.NewService(partnerStore, geocoder, geoIndex, logger)

	gateway := payment.NewRestGateway(cfg.Payment.GatewayBaseURL, cfg.Payment.GatewayKey, cfg.Payment.GatewaySecret)
	paymentSvc := payment.NewService(gateway, cfg.Payment.GatewayKey, cfg.Payment.GatewaySecret)

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Order:    orderSvc,
		Cart:     cartSvc,
		Partner:  partnerSvc,
		Catalog:  catalogSvc,
		Payment:  paymentSvc,
		Hub:      hub,
		Verifier: verifier,
		Log:      logger,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go orderSvc.RunTimeoutMonitor(ctx)

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	logger.WithField("addr", cfg.HTTP.Addr).Info("quickbite api listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
