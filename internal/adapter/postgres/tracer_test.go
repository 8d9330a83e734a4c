package postgres

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/pscheid92/moodpulse/internal/adapter/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatementVerb(t *testing.T) {
	tests := []struct {
		sql  string
		want string
	}{
		{"SELECT 1", "SELECT"},
		{"\n\tinsert into users VALUES ($1)", "INSERT"},
		{"", "unknown"},
		{"   ", "unknown"},
		{"averyveryverylongstatementverbwithoutspaces", "AVERYVERYVERYLONGSTA"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statementVerb(tt.sql), "sql %q", tt.sql)
	}
}

func TestConnect_WithQueryMetrics(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	m := metrics.NewDBMetrics(prometheus.NewRegistry())
	pool, err := Connect(ctx, testDatabaseURL, WithQueryMetrics(m))
	require.NoError(t, err)
	defer pool.Close()

	_, err = NewUserRepo(pool).Get(ctx, "nobody")
	require.Error(t, err)
	_, err = pool.Exec(ctx, "UPDATE no_such_table SET x = 1")
	require.Error(t, err)

	assert.Equal(t, 2, testutil.CollectAndCount(m.QueryDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ErrorsTotal), "a missing row is not a failure")
	assert.InDelta(t, 1, testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("UPDATE")), 0.01)
}
