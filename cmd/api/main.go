package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"multicalc/internal/app"
	"multicalc/internal/calculator"
	"multicalc/internal/config"
	"multicalc/internal/observability"
	"multicalc/internal/server"
	"multicalc/internal/storage"

	"go.uber.org/zap"
)

func main() {

	ctx := context.Background()

	if err := config.LoadDotEnv(); err != nil {
		panic(err)
	}

	cfg, err := config.Load(os.LookupEnv)
	if err != nil {
		panic(err)
	}

	// Logger
	err = observability.InitLogger(cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Telemetry
	shutdown, err := initTelemetry(ctx, cfg)
	if err != nil {
		panic(err)
	}
	defer shutdown(ctx)

	// Session
	store, err := storage.Open(cfg.DataDir)
	if err != nil {
		panic(err)
	}
	loader := newLoader(cfg)
	state := app.New(store, loader, calculator.DefaultCatalog(),
		app.WithLogger(observability.Logger),
		app.WithDefaultLanguage(cfg.DefaultLang),
	)
	if err := state.Start(ctx); err != nil {
		panic(err)
	}

	reg, err := observability.NewRegistry(state.Collectors()...)
	if err != nil {
		panic(err)
	}

	// Router
	router := server.NewRouter(state, loader, reg)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		observability.Logger.Info("server started", zap.String("addr", cfg.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()

	waitForShutdown(srv)
}

func waitForShutdown(srv *http.Server) {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		observability.Logger.Warn("shutdown incomplete", zap.Error(err))
	}
}
