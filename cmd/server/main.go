package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/xtding233/wishsim/internal/api"
	"github.com/xtding233/wishsim/internal/preset"
)

func main() {
	_ = godotenv.Load()

	log := newLogger()
	defer func() { _ = log.Sync() }()

	addr := envOr("WISHSIM_ADDR", ":8080")
	cfgDir := envOr("WISHSIM_CONFIG_DIR", "configs")

	presets := preset.NewLoader(cfgDir)
	watcher := preset.NewDirWatcher(filepath.Join(cfgDir, "presets"), 5*time.Second, func(path string) {
		log.Info("preset changed, reloading", zap.String("path", path))
		presets.Invalidate()
	})
	watcher.Start()
	defer watcher.Stop()

	srv := api.NewServer(addr, log, presets)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal("server failed", zap.Error(err))
		}
	case sig := <-sigCh:
		log.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}
}

func newLogger() *zap.Logger {
	if os.Getenv("WISHSIM_ENV") == "dev" {
		l, _ := zap.NewDevelopment()
		return l
	}
	l, _ := zap.NewProduction()
	return l
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
