// Command autobattle plays scripted matches without a window and logs the
// results. It is used to balance the catalog and to profile the simulation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"time"

	"monsterlane/internal/config"
	"monsterlane/internal/game"
	"monsterlane/internal/monitoring"
	"monsterlane/internal/monster"
	"monsterlane/internal/scores"
	"monsterlane/internal/session"
	"monsterlane/internal/theme"

	"golang.org/x/sync/errgroup"
)

func main() {
	var (
		configPath  = flag.String("config", "config.yaml", "config file; the embedded config is used when missing")
		catalogPath = flag.String("monsters", "", "monster catalog file; empty uses the embedded catalog")
		matches     = flag.Int("matches", 10, "number of matches to play")
		parallel    = flag.Int("parallel", 4, "matches played at once")
		seed        = flag.Int64("seed", 1, "seed of the first match; match i uses seed+i")
		themeID     = flag.String("theme", "", "theme id; empty uses today's theme")
		submit      = flag.Bool("submit", false, "submit results to the configured score store")
		verbose     = flag.Bool("v", false, "log match events at debug level")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(logger, runConfig{
		configPath:  *configPath,
		catalogPath: *catalogPath,
		matches:     *matches,
		parallel:    *parallel,
		seed:        *seed,
		themeID:     *themeID,
		submit:      *submit,
	}); err != nil {
		logger.Error("autobattle failed", "error", err)
		os.Exit(1)
	}
}

type runConfig struct {
	configPath  string
	catalogPath string
	matches     int
	parallel    int
	seed        int64
	themeID     string
	submit      bool
}

// summary aggregates results across matches.
type summary struct {
	mu       sync.Mutex
	outcomes map[game.Outcome]int
	total    int
	best     int
}

func (s *summary) add(r *session.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes[r.Outcome]++
	s.total += r.Score
	s.best = max(s.best, r.Score)
}

func run(logger *slog.Logger, rc runConfig) error {
	cfg, err := config.LoadOrDefault(rc.configPath)
	if err != nil {
		return err
	}
	catalog := monster.DefaultCatalog()
	if rc.catalogPath != "" {
		if catalog, err = monster.LoadCatalog(rc.catalogPath); err != nil {
			return err
		}
	}

	th := theme.ForDate(time.Now())
	if rc.themeID != "" {
		var ok bool
		if th, ok = theme.ByID(rc.themeID); !ok {
			return fmt.Errorf("unknown theme %q", rc.themeID)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var store scores.Store
	if rc.submit {
		if store, err = scores.Open(ctx, cfg.Scores); err != nil {
			return err
		}
		defer store.Close()
	}

	monitor := monitoring.NewPerformanceMonitor(cfg.GetFrameDelta())
	sum := &summary{outcomes: make(map[game.Outcome]int)}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, rc.parallel))
	for i := 0; i < rc.matches; i++ {
		seed := rc.seed + int64(i)
		g.Go(func() error {
			res, err := playMatch(ctx, session.Options{
				Config:     cfg,
				Catalog:    catalog,
				Theme:      th,
				Store:      store,
				Rand:       game.NewRand(seed),
				Observer:   monitor,
				Logger:     logger.With("seed", seed),
				PlayerName: fmt.Sprintf("autobattle-%d", seed),
			}, cfg.GetFrameDelta())
			if err != nil {
				return fmt.Errorf("match with seed %d: %w", seed, err)
			}
			sum.add(res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("autobattle finished",
		"theme", th.ID,
		"matches", rc.matches,
		"victories", sum.outcomes[game.OutcomeVictory],
		"defeats", sum.outcomes[game.OutcomeDefeat],
		"expired", sum.outcomes[game.OutcomeTimeExpired],
		"best_score", sum.best,
		"avg_score", float64(sum.total)/float64(max(1, rc.matches)))

	stats := monitor.GetDetailedStats()
	attrs := make([]any, 0, len(stats)*2)
	for k, v := range stats {
		attrs = append(attrs, k, v)
	}
	logger.Info("simulation performance", attrs...)
	for _, alert := range monitor.CheckPerformanceAlerts() {
		logger.Warn("performance alert", "type", alert.Type, "message", alert.Message, "value", alert.Value)
	}
	return nil
}
