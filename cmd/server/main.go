// @title Microsite Builder API
// @version 1.0
// @description Event microsite builder: template catalog, drafting, publishing workflow, purchases, and public sites.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"micrositebuilder/config"
	_ "micrositebuilder/docs"
	"micrositebuilder/internal/adapters/auth"
	"micrositebuilder/internal/adapters/email"
	"micrositebuilder/internal/adapters/media"
	"micrositebuilder/internal/adapters/payment"
	"micrositebuilder/internal/catalog"
	delivery "micrositebuilder/internal/delivery/http"
	"micrositebuilder/internal/delivery/http/controllers"
	"micrositebuilder/internal/delivery/http/middleware"
	"micrositebuilder/internal/render"
	"micrositebuilder/internal/repository/postgres"
	"micrositebuilder/internal/services"
)

const (
	serviceTimeout  = 5 * time.Second
	ownershipTTL    = 5 * time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to reach database", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	templateRepo := postgres.NewTemplateRepository(db)
	purchaseRepo := postgres.NewPurchaseRepository(db)

	// Adapters
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	tokenIssuer := auth.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := auth.NewJWTVerifier(cfg.JWTSecret)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "error", err)
		os.Exit(1)
	}
	paymentProvider := payment.NewPaystackClient(nil, "", cfg.PaymentSecretKey, cfg.PaymentCallbackURL)
	uploader := media.NewHTTPUploader(nil, cfg.MediaBaseURL, cfg.MediaAPIKey)

	// Services
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	userService := services.NewUserService(userRepo, hasher, tokenIssuer, cfg.TokenExpiry, emailService, logger, serviceTimeout)
	templateService := services.NewTemplateService(templateRepo, serviceTimeout)
	eventService := services.NewEventService(eventRepo, templateRepo, serviceTimeout)
	accessService := services.NewAccessService(purchaseRepo, services.NewOwnershipCache(ownershipTTL), serviceTimeout)
	purchaseService := services.NewPurchaseService(purchaseRepo, templateRepo, userRepo, paymentProvider, accessService, emailService, logger, serviceTimeout)
	publishService := services.NewPublishService(eventService, eventRepo, templateRepo, userRepo, accessService, purchaseService, uploader, emailService, logger, cfg.SiteBaseURL, serviceTimeout)
	compositor := render.NewCompositor(render.DefaultRegistry(), logger)
	siteService := services.NewSiteService(eventRepo, templateRepo, compositor, serviceTimeout)

	// Seed the authored template catalog. Upserts keyed on slug, so a
	// restart with an unchanged file is a no-op.
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	if err := catalog.Seed(seedCtx, cfg.CatalogPath, templateRepo, logger); err != nil {
		cancelSeed()
		logger.Error("failed to seed template catalog", "error", err)
		os.Exit(1)
	}
	cancelSeed()

	mux := delivery.NewRouter(delivery.Controllers{
		Auth:     controllers.NewAuthController(logger, userService),
		Template: controllers.NewTemplateController(logger, templateService),
		Event:    controllers.NewEventController(logger, eventService),
		Publish:  controllers.NewPublishController(logger, publishService),
		Purchase: controllers.NewPurchaseController(logger, purchaseService),
		Site:     controllers.NewSiteController(logger, siteService),
	}, tokenVerifier, logger)

	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
