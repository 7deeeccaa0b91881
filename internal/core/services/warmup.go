package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/alexuwunya/pravo-bot/internal/core/ports/driving"
	"github.com/alexuwunya/pravo-bot/internal/logger"
)

// warmUpParallelism bounds how many engines build at once. Every build
// shares one embedding model.
const warmUpParallelism = 4

// WarmUpAll initialises engines in parallel. A failing engine never stops
// the others. Returns the failures keyed by document id.
func WarmUpAll(ctx context.Context, engines []driving.RAGEngine) map[string]error {
	var g errgroup.Group
	g.SetLimit(warmUpParallelism)
	errs := make([]error, len(engines))

	for i, engine := range engines {
		g.Go(func() error {
			errs[i] = engine.WarmUp(ctx)
			return nil
		})
	}
	g.Wait() //nolint:errcheck // failures are collected per engine in errs

	failed := make(map[string]error)
	for i, err := range errs {
		if err == nil {
			continue
		}
		id := engines[i].Document().ID
		logger.Warn("warm-up of %s failed: %v", id, err)
		failed[id] = err
	}
	return failed
}
