package main

import (
	"Go-Voting-Backend/cmd/config"
	"Go-Voting-Backend/internal/utils"
	"Go-Voting-Backend/pkg/points"
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const (
	expirySweepInterval = time.Hour
	shutdownTimeout     = 10 * time.Second
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg *utils.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		return err
	}

	deps := config.NewDependencies(ctx, cfg)
	app, err := config.NewApp(db, cfg, deps)
	if err != nil {
		return err
	}

	go sweepExpiredHistories(ctx, db, deps)

	errCh := make(chan error, 1)
	go func() {
		log.Infow("starting server", "component", programName, "port", cfg.Port)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Infow("shutting down server", "component", programName)
	return app.ShutdownWithTimeout(shutdownTimeout)
}

// sweepExpiredHistories flips stored package history flags once their
// validity has lapsed. Reads compute the flag live, so a missed run only
// leaves the column stale.
func sweepExpiredHistories(ctx context.Context, db *gorm.DB, deps config.Dependencies) {
	pointsService := points.NewPointsService(points.NewPointsRepository(db), deps.Metrics)
	ticker := time.NewTicker(expirySweepInterval)
	defer ticker.Stop()

	for {
		if n, err := pointsService.ExpirePackageHistories(ctx); err != nil {
			log.Errorw("package history sweep failed", "error", err)
		} else if n > 0 {
			log.Infow("expired package histories", "count", n)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
