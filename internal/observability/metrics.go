package observability

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "webblogger_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// LikeToggles counts like toggles by target kind and resulting state.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webblogger_like_toggles_total",
		Help: "Total number of like toggles by target kind and outcome",
	}, []string{"kind", "outcome"})

	// LikeConflicts counts concurrent-insert conflicts resolved by the toggle engine.
	LikeConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webblogger_like_conflicts_total",
		Help: "Total number of like uniqueness conflicts converged to unliked",
	}, []string{"kind"})

	// CacheLookups counts cache lookups by key family and result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webblogger_cache_lookups_total",
		Help: "Total number of cache lookups by key family and result",
	}, []string{"family", "result"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webblogger_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)

const queryStartKey = "webblogger:query_start"

// DatabaseMetrics records query latency for every GORM statement.
type DatabaseMetrics struct{}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics() *DatabaseMetrics {
	return &DatabaseMetrics{}
}

// Name implements gorm.Plugin.
func (*DatabaseMetrics) Name() string {
	return "webblogger:metrics"
}

// Initialize implements gorm.Plugin by registering before/after callbacks.
func (m *DatabaseMetrics) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	registrations := []struct {
		name string
		fn   func(string, func(*gorm.DB)) error
	}{
		{"before_create", cb.Create().Before("*").Register},
		{"after_create", cb.Create().After("*").Register},
		{"before_query", cb.Query().Before("*").Register},
		{"after_query", cb.Query().After("*").Register},
		{"before_update", cb.Update().Before("*").Register},
		{"after_update", cb.Update().After("*").Register},
		{"before_delete", cb.Delete().Before("*").Register},
		{"after_delete", cb.Delete().After("*").Register},
		{"before_row", cb.Row().Before("*").Register},
		{"after_row", cb.Row().After("*").Register},
		{"before_raw", cb.Raw().Before("*").Register},
		{"after_raw", cb.Raw().After("*").Register},
	}
	for _, r := range registrations {
		handler := m.start
		if strings.HasPrefix(r.name, "after_") {
			operation := strings.TrimPrefix(r.name, "after_")
			handler = func(tx *gorm.DB) { m.observe(tx, operation) }
		}
		if err := r.fn("metrics:"+r.name, handler); err != nil {
			return err
		}
	}
	return nil
}

func (*DatabaseMetrics) start(tx *gorm.DB) {
	tx.InstanceSet(queryStartKey, time.Now())
}

func (m *DatabaseMetrics) observe(tx *gorm.DB, operation string) {
	v, ok := tx.InstanceGet(queryStartKey)
	if !ok {
		return
	}
	start, ok := v.(time.Time)
	if !ok {
		return
	}
	table := ""
	if tx.Statement != nil {
		table = tx.Statement.Table
	}
	m.ObserveQuery(operation, table, start)
}

// ObserveQuery records the latency of a database query.
func (*DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}
