package main

import (
	"context"
	"errors"

	"multicalc/internal/calculator"
	"multicalc/internal/config"
	"multicalc/internal/i18n"
	"multicalc/internal/observability"
)

// initTelemetry starts the tracer, meter and log providers plus the
// calculator's metric instruments. With telemetry disabled only the
// instruments are created, against the global no-op meter.
func initTelemetry(ctx context.Context, cfg config.Config) (func(context.Context) error, error) {
	if !cfg.Telemetry {
		return func(context.Context) error { return nil }, calculator.InitMetrics()
	}

	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	for _, start := range []func(context.Context) (func(context.Context) error, error){
		observability.InitTracing,
		observability.InitMetrics,
		observability.InitLogging,
	} {
		stop, err := start(ctx)
		if err != nil {
			_ = shutdown(ctx)
			return nil, err
		}
		shutdowns = append(shutdowns, stop)
	}

	if err := calculator.InitMetrics(); err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	return shutdown, nil
}

// newLoader reads language documents from CALC_LOCALES_DIR, or from the
// copies built into the binary.
func newLoader(cfg config.Config) *i18n.Loader {
	if cfg.LocalesDir != "" {
		return i18n.DirLoader(cfg.LocalesDir)
	}
	return i18n.EmbeddedLoader()
}
