// Package main is the entry point for the API server
//
//	@title			Hello Users API
//	@version		1.0
//	@description	Greeting endpoint and a stateless user-creation echo.
//
//	@host		127.0.0.1:3000
//	@BasePath	/
//
//	@schemes	http
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"hello-users-api/internal/config"
	"hello-users-api/internal/httpx"
	"hello-users-api/internal/logx"
	"hello-users-api/internal/redisx"
	"hello-users-api/internal/server"
)

const shutdownTimeout = 10 * time.Second

func logOptions(cfg *config.Config) []logx.Option {
	if cfg.Log.File == "" {
		return nil
	}
	return []logx.Option{logx.WithFile(cfg.Log.File)}
}

func main() {
	// Load .env if present
	_ = godotenv.Load()

	cfg, store, apClose, err := config.Load()
	if err != nil {
		panic(err)
	}
	if apClose != nil {
		defer apClose()
	}

	logx.Init(cfg.Log.Level, cfg.Log.Format, logOptions(cfg)...)
	mainLogger := logx.GetScope("main")
	defer func() { _ = logx.Global().Close() }()

	mainLogger.Info("config loaded",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.Server.Addr),
		zap.String("log.level", cfg.Log.Level),
		zap.String("log.format", cfg.Log.Format),
	)

	store.Watch(func(newCfg *config.Config, changed map[string]bool) {
		if changed["log.level"] || changed["log.format"] {
			logx.Init(newCfg.Log.Level, newCfg.Log.Format, logOptions(newCfg)...)
			mainLogger.Info("logger reconfigured",
				zap.String("level", newCfg.Log.Level),
				zap.String("format", newCfg.Log.Format),
			)
		}
		if changed["app.env"] {
			mainLogger.Info("app env changed", zap.String("env", newCfg.AppEnv))
		}
	})

	// Redis only backs the optional rate limiter.
	var rdb *redisx.Client
	if cfg.RateLimit.Max > 0 {
		client, closeRedis, err := redisx.Open(cfg)
		if err != nil {
			mainLogger.Warn("redis init failed; using in-memory rate limiter", zap.Error(err))
		} else {
			rdb = client
			defer closeRedis()
		}
	}

	app := httpx.NewApp()
	httpx.RegisterCommonMiddlewares(app, cfg, rdb)
	httpx.Register(app)

	ln, err := server.GetListener(cfg.Server.Addr)
	if err != nil {
		mainLogger.Error("listener error", zap.Error(err))
		os.Exit(1)
	}

	go func() {
		if err := app.Listener(ln); err != nil {
			mainLogger.Sugar().Infof("fiber exit: %v", err)
		}
	}()
	mainLogger.Info("listening", zap.String("addr", ln.Addr().String()))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	mainLogger.Info("shutting down...")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		mainLogger.Error("shutdown error", zap.Error(err))
	}
}
