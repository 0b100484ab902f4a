package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinichq/clinic-api/internal/config"
	"github.com/clinichq/clinic-api/internal/domain/lookup"
	"github.com/clinichq/clinic-api/internal/domain/referral"
	"github.com/clinichq/clinic-api/internal/domain/scheduling"
	"github.com/clinichq/clinic-api/internal/platform/analytics"
	"github.com/clinichq/clinic-api/internal/platform/auth"
	"github.com/clinichq/clinic-api/internal/platform/cache"
	"github.com/clinichq/clinic-api/internal/platform/db"
	"github.com/clinichq/clinic-api/internal/platform/middleware"
	"github.com/clinichq/clinic-api/internal/platform/notification"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Clinic scheduling API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.MigrationsDir
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.MigrationsDir
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				applied := "-"
				if s.AppliedAt != nil {
					applied = s.AppliedAt.Format(time.RFC3339)
				}
				state := "pending"
				if s.Applied {
					state = "applied"
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, state, applied)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Optional Redis-backed calendar cache.
	var calendarCache scheduling.Cache
	if cfg.CacheEnabled() {
		rdb, err := cache.NewClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		calendarCache = cache.New(rdb, "clinic", cfg.CacheTTL)
		logger.Info().Msg("connected to redis")
	}

	// Notifications
	notifMgr := notification.NewManager(
		notification.NewLogEmailSender(logger),
		notification.NewLogSMSSender(logger),
		notification.NewTemplateEngine(),
	)

	// Scheduling core
	apptRepo := scheduling.NewRepoPG(pool)
	coord := scheduling.NewCoordinator(apptRepo, logger)
	if err := coord.Refresh(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial appointment load failed")
	}
	schedSvc := scheduling.NewService(coord, apptRepo, calendarCache,
		notification.NewAppointmentNotifier(notifMgr, logger), logger)
	schedHandler := scheduling.NewHandler(schedSvc)

	// Referrals
	refSvc := referral.NewService(referral.NewRepoPG(pool),
		notification.NewReferralNotifier(notifMgr, logger), logger)
	refHandler := referral.NewHandler(refSvc, logger)

	// Lookups
	lookupSvc := lookup.NewService(
		lookup.NewRoomRepoPG(pool),
		lookup.NewPhysicianRepoPG(pool),
		lookup.NewAppointmentTypeRepoPG(pool),
		logger,
	)
	lookupHandler := lookup.NewHandler(lookupSvc, logger)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	usage := analytics.NewUsageTracker(1000)

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(usage.Middleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	if cfg.IsDev() && cfg.JWTSecret == "" {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.JWTIssuer,
			Audience:   cfg.JWTAudience,
			SigningKey: []byte(cfg.JWTSecret),
		}))
	}

	e.GET("/health", db.HealthHandler(pool))

	apiV1 := e.Group("/api/v1")
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	schedHandler.RegisterRoutes(apiV1)
	refHandler.RegisterRoutes(apiV1)
	lookupHandler.RegisterRoutes(apiV1)

	analyticsGroup := apiV1.Group("/analytics", auth.RequireRole("direction"))
	analyticsGroup.GET("/usage", usage.UsageHandler)
	analyticsGroup.GET("/appointments", analytics.AppointmentStatsHandler(apptRepo))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
	logger.Info().Msg("server stopped")
	return nil
}
