package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pscheid92/moodpulse/internal/adapter/metrics"
)

// ConnectOption adjusts the pool configuration before the pool is created.
type ConnectOption func(*pgxpool.Config)

// WithQueryMetrics records duration and failures of every query on m.
func WithQueryMetrics(m *metrics.DBMetrics) ConnectOption {
	return func(cfg *pgxpool.Config) {
		cfg.ConnConfig.Tracer = &metricsTracer{m: m}
	}
}

type metricsTracer struct {
	m *metrics.DBMetrics
}

var _ pgx.QueryTracer = (*metricsTracer)(nil)

type queryStartKey struct{}

type queryStart struct {
	at   time.Time
	verb string
}

func (t *metricsTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{at: time.Now(), verb: statementVerb(data.SQL)})
}

func (t *metricsTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}

	t.m.QueryDuration.WithLabelValues(start.verb).Observe(time.Since(start.at).Seconds())
	if data.Err != nil && !errors.Is(data.Err, pgx.ErrNoRows) {
		t.m.ErrorsTotal.WithLabelValues(start.verb).Inc()
	}
}

// statementVerb keeps label cardinality low: "SELECT", "INSERT", ...
func statementVerb(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "unknown"
	}
	verb := strings.ToUpper(fields[0])
	if len(verb) > 20 {
		verb = verb[:20]
	}
	return verb
}
