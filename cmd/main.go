package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
	_ "time/tzdata"

	"github.com/skyetechdotio/Club-Key-sub001/internal/app"
	"github.com/skyetechdotio/Club-Key-sub001/internal/config"
	"github.com/skyetechdotio/Club-Key-sub001/internal/constants"
	"github.com/skyetechdotio/Club-Key-sub001/internal/controllers"
	"github.com/skyetechdotio/Club-Key-sub001/internal/middleware"
	"github.com/skyetechdotio/Club-Key-sub001/internal/repositories"
	"github.com/skyetechdotio/Club-Key-sub001/internal/routes"
	"github.com/skyetechdotio/Club-Key-sub001/internal/services"
	"github.com/skyetechdotio/Club-Key-sub001/internal/utils"
)

const corsLowSecurityAllowedOriginLocalhost = "http://localhost:3000"

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize booking-service:", err)
	}
	defer application.Close()

	// Repositories
	profileRepo := repositories.NewProfileRepository(application.DB)
	clubRepo := repositories.NewClubRepository(application.DB)
	listingRepo := repositories.NewListingRepository(application.DB)
	bookingRepo := repositories.NewBookingRepository(application.DB)
	webhookEventRepo := repositories.NewWebhookEventRepository(application.DB)

	if cfg.LDFlag_SeedDbWithTestData {
		if err := app.SeedAllTestData(context.Background(), profileRepo, clubRepo, listingRepo); err != nil {
			utils.Logger.Fatal("Failed to seed test data:", err)
		}
	}

	// Services
	gateway := services.NewStripeGateway(cfg.StripeSecretKey)
	notificationService := services.NewNotificationService(cfg)
	connectService := services.NewConnectService(cfg, profileRepo)
	paymentIntentService := services.NewPaymentIntentService(cfg, listingRepo, bookingRepo, gateway)
	bookingService := services.NewBookingService(bookingRepo, listingRepo)
	listingService := services.NewListingService(listingRepo, bookingRepo, clubRepo)
	webhookService := services.NewWebhookService(
		bookingRepo, listingRepo, webhookEventRepo, profileRepo, clubRepo, notificationService,
	)
	reconciliationService := services.NewReconciliationService(listingRepo, bookingRepo, gateway)

	// Start dynamic webhook manager
	if err := connectService.Start(context.Background()); err != nil {
		utils.Logger.WithError(err).Fatal("Failed to start ConnectService (dynamic webhooks)")
	}
	defer func() {
		if err := connectService.Stop(context.Background()); err != nil {
			utils.Logger.WithError(err).Error("Error stopping ConnectService")
		}
	}()

	// Controllers
	healthController := controllers.NewHealthController(application)
	bookingController := controllers.NewBookingController(paymentIntentService, bookingService)
	listingController := controllers.NewListingController(listingService)
	hostStripeController := controllers.NewHostStripeController(cfg, connectService)
	stripeWebhookController := controllers.NewStripeWebhookController(connectService, webhookService)

	// Router setup
	router := mux.NewRouter()

	// Public routes
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.BookingsStripeWebhook, stripeWebhookController.WebhookHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.HostStripeFlowReturn, hostStripeController.FlowReturnHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.HostStripeFlowRefresh, hostStripeController.FlowRefreshHandler).Methods(http.MethodGet)

	// Secured routes
	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))
	secured.HandleFunc(routes.BookingsPaymentIntent, bookingController.CreatePaymentIntentHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.BookingByID, bookingController.GetBookingHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.BookingComplete, bookingController.CompleteBookingHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.Listings, listingController.CreateListingHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ListingCancel, listingController.CancelListingHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.HostStripeOnboardingURL, hostStripeController.GetOnboardingURLHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.HostStripeStatus, hostStripeController.GetFlowStatusHandler).Methods(http.MethodGet)

	// Cron job setup
	c := cron.New(cron.WithLocation(time.UTC))
	_, err = c.AddFunc(constants.ReconciliationCronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.ReconciliationJobTimeout)
		defer cancel()
		utils.Logger.Info("Starting listing reconciliation cron job...")
		if err := reconciliationService.Run(ctx); err != nil {
			utils.Logger.WithError(err).Error("Failed to reconcile listings")
		}
	})
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to schedule reconciliation cron")
	}
	c.Start()
	utils.Logger.Info("Scheduled reconciliation cron job")

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, corsLowSecurityAllowedOriginLocalhost)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Stripe-Signature"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("booking-service failed to start:", err)
	}
}
