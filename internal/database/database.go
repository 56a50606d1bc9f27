package database

import (
	"context"
	"fmt"

	pgxzerolog "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/multitracer"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"

	"github.com/workcal/workcal/internal/config"
)

// NewPool opens a pgx pool for cfg and checks it with a ping. Queries are
// logged through zerolog and, when withNewRelic is set, traced as datastore segments.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger, withNewRelic bool) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	pcfg.MaxConns = int32(cfg.MaxOpenConns)
	pcfg.MinConns = int32(cfg.MaxIdleConns)
	pcfg.MaxConnLifetime = cfg.ConnMaxLifetime
	pcfg.MaxConnIdleTime = cfg.ConnMaxIdleTime

	tracers := []pgx.QueryTracer{&tracelog.TraceLog{
		Logger:   pgxzerolog.NewLogger(log.With().Str("component", "pgx").Logger()),
		LogLevel: queryLogLevel(log.GetLevel()),
	}}
	if withNewRelic {
		tracers = append(tracers, nrpgx5.NewTracer())
	}
	pcfg.ConnConfig.Tracer = multitracer.New(tracers...)

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info().Str("host", cfg.Host).Str("database", cfg.Name).Int32("max_conns", pcfg.MaxConns).Msg("database pool ready")
	return pool, nil
}

func queryLogLevel(l zerolog.Level) tracelog.LogLevel {
	switch {
	case l <= zerolog.TraceLevel:
		return tracelog.LogLevelTrace
	case l == zerolog.DebugLevel:
		return tracelog.LogLevelDebug
	default:
		return tracelog.LogLevelWarn
	}
}
