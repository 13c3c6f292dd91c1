package config

import (
	"Go-Voting-Backend/internal/api/handlers"
	"Go-Voting-Backend/internal/api/routes"
	"Go-Voting-Backend/internal/metrics"
	"Go-Voting-Backend/internal/middleware"
	"Go-Voting-Backend/internal/utils"
	"Go-Voting-Backend/internal/utils/mailing"
	"Go-Voting-Backend/internal/utils/storage"
	"Go-Voting-Backend/pkg/duitku"
	"Go-Voting-Backend/pkg/event"
	"Go-Voting-Backend/pkg/jwt"
	"Go-Voting-Backend/pkg/points"
	"Go-Voting-Backend/pkg/purchase"
	"Go-Voting-Backend/pkg/vote"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const callbackPath = "/api/v1/payment/callback"

// Dependencies are the collaborators NewApp does not build from config
// itself. Nil Notifier and Archiver disable those side effects.
type Dependencies struct {
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
	Notifier   purchase.Notifier
	Archiver   purchase.Archiver
	HTTPClient *http.Client
	LogOutput  io.Writer
}

// NewDependencies builds the optional SMTP notifier and S3 archiver from cfg
// and registers metrics on a fresh registry.
func NewDependencies(ctx context.Context, cfg *utils.Config) Dependencies {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	deps := Dependencies{
		Metrics:  metrics.New(registry),
		Gatherer: registry,
	}

	if cfg.SMTPHost != "" {
		mailer, err := mailing.NewMailer(mailing.LoadMailConfig(cfg))
		if err != nil {
			log.Warnw("purchase receipts disabled", "error", err)
		} else {
			deps.Notifier = mailer
		}
	}

	if cfg.AWSS3Bucket != "" {
		s3, err := storage.NewAwsS3(ctx, cfg)
		if err != nil {
			log.Warnw("callback archive disabled", "error", err)
		} else {
			deps.Archiver = s3
		}
	}

	return deps
}

func NewApp(db *gorm.DB, cfg *utils.Config, deps Dependencies) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware(cfg.AppURL)
	validator := utils.Validate

	// setting up logging and limiter
	output := deps.LogOutput
	if output == nil {
		if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
			return nil, fmt.Errorf("error creating logs directory: %w", err)
		}
		file, err := os.OpenFile(
			"./logs/app.log",
			os.O_RDWR|os.O_CREATE|os.O_APPEND,
			0666,
		)
		if err != nil {
			return nil, fmt.Errorf("error opening log file: %w", err)
		}
		output = file
	}
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Output:     output,
	}))

	// The gateway retries on its own schedule and must not be throttled
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: 1 * time.Second,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == callbackPath
		},
	}))

	// Clients
	duitkuService := duitku.NewDuitkuService(duitku.Config{
		MerchantCode: cfg.DuitkuMerchantCode,
		APIKey:       cfg.DuitkuAPIKey,
		BaseURL:      cfg.DuitkuBaseURL,
		CallbackURL:  cfg.DuitkuCallbackURL,
		ReturnURL:    cfg.DuitkuReturnURL,
		ExpiryPeriod: cfg.DuitkuExpiryPeriod,
		Timeout:      cfg.DuitkuTimeout,
	}, deps.HTTPClient)

	// Repository
	purchaseRepository := purchase.NewPurchaseRepository(db)
	eventRepository := event.NewEventRepository(db)
	voteRepository := vote.NewVoteRepository(db)
	pointsRepository := points.NewPointsRepository(db)

	// Service
	jwtService := jwt.NewJWTService(cfg.JWTSecret)
	eventService := event.NewEventService(eventRepository)
	purchaseService := purchase.NewPurchaseService(purchaseRepository, duitkuService, deps.Metrics, purchase.PurchaseConfig{
		MinAmount: cfg.MinPurchaseAmount,
		MinPoints: cfg.MinPurchasePoints,
	})
	callbackService := purchase.NewCallbackService(purchaseRepository, duitkuService, deps.Notifier, deps.Archiver, deps.Metrics, purchase.CallbackConfig{
		DefaultValidityDays: cfg.DefaultValidityDays,
	})
	voteService := vote.NewVoteService(voteRepository, eventService, deps.Metrics)
	pointsService := points.NewPointsService(pointsRepository, deps.Metrics)

	// Handler
	purchaseHandler := handlers.NewPurchaseHandler(purchaseService, validator)
	callbackHandler := handlers.NewCallbackHandler(callbackService, validator)
	voteHandler := handlers.NewVoteHandler(voteService, validator)
	pointsHandler := handlers.NewPointsHandler(pointsService)
	eventHandler := handlers.NewEventHandler(eventService)

	// routes
	routesConfig := routes.Config{
		App:             app,
		PurchaseHandler: purchaseHandler,
		CallbackHandler: callbackHandler,
		VoteHandler:     voteHandler,
		PointsHandler:   pointsHandler,
		EventHandler:    eventHandler,
		Middleware:      middlewares,
		JWTService:      jwtService,
		Gatherer:        deps.Gatherer,
	}
	routesConfig.Setup()
	return app, nil
}
