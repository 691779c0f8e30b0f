package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"

	"github.com/openpool/poold/internal/bank"
	"github.com/openpool/poold/internal/config"
	"github.com/openpool/poold/internal/handler"
	"github.com/openpool/poold/internal/logging"
	"github.com/openpool/poold/internal/pool"
	"github.com/openpool/poold/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	app := fiber.New()
	logger := logging.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	assets, err := pool.NewAssetSet(cfg.Assets)
	if err != nil {
		return fmt.Errorf("failed to build asset set: %w", err)
	}

	custody := bank.New()
	pause := service.NewPauseSwitch()
	emitter := service.NewLogEmitter(logger)

	p, err := pool.New(assets, custody, cfg.FeeRateBps, pause, emitter)
	if err != nil {
		return fmt.Errorf("failed to construct pool: %w", err)
	}

	access := service.NewSingleAdmin(cfg.Admin, cfg.HasAdmin)
	poolService := service.NewPoolService(logger, p, custody, access, pause)
	poolHandler := handler.NewPoolHandler(logger, poolService)
	poolHandler.Register(app)

	logger.Info("pool configured",
		"assets", len(cfg.Assets),
		"fee_rate_bps", cfg.FeeRateBps,
		"admin", cfg.HasAdmin,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			_ = app.Shutdown()
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_ = app.Shutdown()

	<-shutdownCtx.Done()
	return nil
}
