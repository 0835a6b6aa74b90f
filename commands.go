package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/annazecevic/music-service/domain"
	"github.com/annazecevic/music-service/handler"
	"github.com/annazecevic/music-service/logger"
	"github.com/annazecevic/music-service/middleware"
	"github.com/annazecevic/music-service/service"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	var noSweep bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, noSweep)
		},
	}
	cmd.Flags().BoolVar(&noSweep, "no-sweep", false, "Do not run the subscription expiry sweep in this process")
	return cmd
}

func serve(ctx context.Context, noSweep bool) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}

	logger.Info(logger.EventServiceStartup, "Music service starting", logger.Fields(
		"port", cfg.ServerPort,
		"environment", cfg.Environment,
		"follow_store", cfg.FollowStore,
	))

	a, err := newApp(ctx, cfg, true)
	if err != nil {
		logger.Error(logger.EventDBError, "Startup failed", logger.Fields("error", err.Error()))
		return err
	}
	defer a.Close()

	if !noSweep && cfg.SweepSchedule != "" {
		sweeper := service.NewExpirySweeper(a.subs, cfg.SweepSchedule)
		if err := sweeper.Start(); err != nil {
			return err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			sweeper.Stop(stopCtx)
		}()
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	defer limiter.Stop()

	router := handler.NewRouter(handler.NewGuards(cfg.JWTSecret, a.users), limiter,
		handler.NewSubscriptionHandler(a.subs, a.users),
		handler.NewUserHandler(a.users, a.social),
		handler.NewReviewHandler(a.reviews),
		handler.NewFeedHandler(a.feed),
		handler.NewContentHandler(a.content),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(logger.EventServiceStartup, "Server starting", logger.Fields("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error(logger.EventGeneral, "Failed to start server", logger.Fields("error", err.Error()))
			return err
		}
	case <-ctx.Done():
	}

	logger.Info(logger.EventServiceShutdown, "Shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create default subscription plans and the bootstrap admin account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(true)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.subs.SeedPlans(cmd.Context()); err != nil {
				return err
			}

			if cfg.SeedAdminPassword == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "plans seeded; SEED_ADMIN_PASSWORD not set, admin account skipped")
				return nil
			}
			admin, created, err := a.users.EnsureUser(cmd.Context(), cfg.SeedAdminUsername, cfg.SeedAdminPassword, domain.RoleAdmin)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "plans seeded; admin %s (id %s, created=%t)\n", admin.Username, admin.ID, created)
			return nil
		},
	}
}

func newSweepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Deactivate expired subscriptions once and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(true)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := service.NewExpirySweeper(a.subs, cfg.SweepSchedule).RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deactivated %d expired subscriptions\n", n)
			return nil
		},
	}
}
