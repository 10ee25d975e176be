package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/config"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/db"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/logger"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/realtime"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/repository"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/routes"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/services/account"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/services/chat"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/services/marketplace"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/services/notification"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/validation"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.AppEnv, cfg.LogLevel)

	gdb, err := db.Connect(cfg.DBDSN, cfg.AppEnv == "development")
	if err != nil {
		fatal(log, "database connect failed", err)
	}

	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "migrate":
		if err := db.Migrate(gdb); err != nil {
			fatal(log, "migration failed", err)
		}
		log.Info("migration complete")
		return
	case "seed":
		if err := db.Migrate(gdb); err != nil {
			fatal(log, "migration failed", err)
		}
		store := repository.NewGormStore(gdb)
		accounts := account.NewService(store, accountConfig(cfg), validation.New(), log)
		if err := accounts.Seed(context.Background()); err != nil {
			fatal(log, "seed failed", err)
		}
		log.Info("seed complete")
		return
	case "", "serve":
	default:
		fatal(log, "unknown command", errors.New(cmd))
	}

	if err := db.Migrate(gdb); err != nil {
		fatal(log, "migration failed", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, gdb, log); err != nil {
		fatal(log, "server stopped", err)
	}
}

func serve(ctx context.Context, cfg config.Config, gdb *gorm.DB, log *slog.Logger) error {
	rdb := realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := rdb.Ping(pingCtx).Err()
	cancel()
	if err != nil {
		// single instance mode: notifications go straight to the local hub
		log.Warn("redis unavailable, realtime fan-out is local only", slog.String("addr", cfg.RedisAddr), slog.Any("error", err))
		_ = rdb.Close()
		rdb = nil
	} else {
		log.Info("redis connected", slog.String("addr", cfg.RedisAddr))
		defer rdb.Close()
	}

	hub := realtime.NewHub(log)
	go hub.Run(ctx)
	if rdb != nil {
		go hub.Subscribe(ctx, rdb)
	}

	store := repository.NewGormStore(gdb)
	v := validation.New()
	notifier := realtime.NewNotifier(store.Notifications(), rdb, hub, log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	checks := map[string]func(ctx context.Context) error{
		"database": sqlDB.PingContext,
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	app := routes.NewApp(routes.Deps{
		Config:        cfg,
		Accounts:      account.NewService(store, accountConfig(cfg), v, log),
		Market:        marketplace.NewService(store, notifier, log, marketplace.Options{StrictTransitions: cfg.StrictProposalTransitions}),
		Notifications: notification.NewService(store),
		Chat:          chat.NewService(store, notifier, log),
		Hub:           hub,
		Validator:     v,
		Log:           log,
		Registry:      reg,
		HealthChecks:  checks,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", slog.String("port", cfg.AppPort))
		errCh <- app.Listen(":" + cfg.AppPort)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func accountConfig(cfg config.Config) account.Config {
	return account.Config{
		JWTSecret:        cfg.JWTSecret,
		ExpiresMin:       cfg.JWTExpiresMin,
		AllowAdminSignup: cfg.AllowAdminSignup,
	}
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, slog.Any("error", err))
	os.Exit(1)
}
