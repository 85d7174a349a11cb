package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vburojevic/errlens/internal/analyze"
	"github.com/vburojevic/errlens/internal/forecast"
	"github.com/vburojevic/errlens/internal/normalize"
	"github.com/vburojevic/errlens/internal/report"
	"github.com/vburojevic/errlens/internal/source"
	"github.com/vburojevic/errlens/internal/source/jsonfile"
	"github.com/vburojevic/errlens/internal/store/postgres"
	"github.com/vburojevic/errlens/internal/store/redisstore"
)

// AnalyzeCmd runs the full pipeline: fetch, normalize, combine, report.
type AnalyzeCmd struct {
	DataDir string   `short:"d" help:"Directory holding <source>.json document batches" placeholder:"DIR"`
	Sources []string `short:"s" help:"Source types to analyze (default: all found)"`
	Limit   int      `help:"Max documents per source (0 = all)"`
	Horizon int      `help:"Forecast horizon in days (default from config)"`
	Store   bool     `help:"Persist the combined table to configured stores"`
}

// Run executes the analysis pipeline.
func (c *AnalyzeCmd) Run(globals *Globals) error {
	ctx := context.Background()
	agg, err := c.aggregate(ctx, globals)
	if err != nil {
		return err
	}

	horizon := c.Horizon
	if horizon <= 0 {
		horizon = globals.Config.Defaults.HorizonDays
	}
	fc := forecast.PredictFutureErrors(agg.Combined(), horizon, globals.Logger)

	rep := report.NewBuilder().Build(
		agg.SummaryStatistics(),
		agg.ErrorTypeFrequency(),
		agg.FrequencyByCollection(),
		fc,
	)

	if c.Store {
		if err := c.persist(ctx, globals, agg); err != nil {
			return err
		}
	}

	if globals.Format == "json" {
		return rep.WriteJSON(globals.Stdout)
	}
	return rep.WriteText(globals.Stdout, report.Styled(globals.Stdout))
}

// aggregate fetches and normalizes every requested source, concurrently
// per source, and combines the results in request order. The engine
// itself is synchronous; only independent per-source calls overlap.
func (c *AnalyzeCmd) aggregate(ctx context.Context, globals *Globals) (*analyze.Aggregator, error) {
	dataDir := c.DataDir
	if dataDir == "" {
		dataDir = globals.Config.Defaults.DataDir
	}
	connector := jsonfile.New(dataDir)

	sources := c.Sources
	if len(sources) == 0 {
		sources = globals.Config.Defaults.Sources
	}
	if len(sources) == 0 {
		var err error
		sources, err = connector.SourceTypes(ctx)
		if err != nil {
			return nil, err
		}
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources found in %q", dataDir)
	}

	limit := c.Limit
	if limit <= 0 {
		limit = globals.Config.Defaults.Limit
	}

	normalizer := normalize.New(globals.Registry, globals.Logger)
	tables := make([]analyze.SourceTable, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, sourceType := range sources {
		g.Go(func() error {
			docs, err := connector.Fetch(gctx, sourceType, source.FetchOptions{Limit: limit})
			if err != nil {
				return err
			}
			tables[i] = analyze.SourceTable{
				Source: sourceType,
				Table:  normalizer.Normalize(sourceType, docs),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return analyze.Combine(tables, globals.Logger), nil
}

// persist writes the combined table to whichever stores are configured.
func (c *AnalyzeCmd) persist(ctx context.Context, globals *Globals, agg *analyze.Aggregator) error {
	storage := globals.Config.Storage
	if storage.PostgresDSN == "" && storage.RedisAddr == "" {
		return fmt.Errorf("--store given but no storage configured")
	}

	if storage.PostgresDSN != "" {
		db, err := sql.Open("postgres", storage.PostgresDSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()

		pg := postgres.New(db, globals.Logger)
		if err := pg.Init(ctx); err != nil {
			return err
		}
		if err := pg.SaveTable(ctx, agg.Combined()); err != nil {
			return err
		}
	}

	if storage.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: storage.RedisAddr})
		defer client.Close()

		sim := redisstore.New(client, globals.Logger)
		n, err := sim.IndexTable(ctx, agg.Combined())
		if err != nil {
			return err
		}
		globals.Logger.Info("indexed combined table in redis", zap.Int("records", n))
	}
	return nil
}
