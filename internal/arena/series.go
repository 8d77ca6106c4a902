package arena

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-arena/internal/randutil"
)

// SeriesResult aggregates a batch of tournaments.
type SeriesResult struct {
	Tournaments int
	// Championships counts tournament wins by agent name.
	Championships map[string]int
	// HandsPlayed totals completed hands across the batch.
	HandsPlayed int
}

// RunSeries plays count tournaments of the same config with seeds
// derived from the config seed, at most parallelism at a time. One
// failed tournament cancels the rest.
func RunSeries(ctx context.Context, cfg *Config, count, parallelism int, logger *log.Logger) (*SeriesResult, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	result := &SeriesResult{Championships: make(map[string]int)}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i := range count {
		g.Go(func() error {
			runCfg := *cfg
			runCfg.Seed = randutil.Derive(cfg.Seed, i+1)

			t, err := NewTournament(&runCfg,
				WithLogger(logger.With("tournament", i+1)))
			if err != nil {
				return err
			}
			res, err := t.Run(ctx)
			if err != nil {
				return err
			}

			mu.Lock()
			result.Tournaments++
			result.Championships[res.Champion]++
			result.HandsPlayed += res.HandsPlayed
			mu.Unlock()

			logger.Info("tournament complete",
				"tournament", i+1, "hands", res.HandsPlayed, "champion", res.Champion)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
