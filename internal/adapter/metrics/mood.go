package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/moodpulse/internal/domain"
)

// MoodMetrics counts authentication decisions, posted moods and streak updates.
// It implements app.Recorder.
type MoodMetrics struct {
	AuthOutcomes  *prometheus.CounterVec
	MoodsPosted   *prometheus.CounterVec
	LatestMood    prometheus.Gauge
	StreakUpdates *prometheus.CounterVec
}

// NewMoodMetrics creates and registers mood metrics on the given registry.
func NewMoodMetrics(reg prometheus.Registerer) *MoodMetrics {
	m := &MoodMetrics{
		AuthOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "outcomes_total",
			Help:      "Total number of authentication decisions, by outcome.",
		}, []string{"outcome"}),
		MoodsPosted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moods_posted_total",
			Help:      "Total number of posted moods, by principal kind.",
		}, []string{"principal"}),
		LatestMood: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "latest_mood",
			Help:      "Most recently posted mood value.",
		}),
		StreakUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streak_updates_total",
			Help:      "Total number of streak evaluations, by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(m.AuthOutcomes, m.MoodsPosted, m.LatestMood, m.StreakUpdates)
	return m
}

func (m *MoodMetrics) AuthOutcome(outcome string) {
	m.AuthOutcomes.WithLabelValues(outcome).Inc()
}

func (m *MoodMetrics) MoodPosted(anonymous bool, mood int) {
	principal := "user"
	if anonymous {
		principal = "anonymous"
	}
	m.MoodsPosted.WithLabelValues(principal).Inc()
	m.LatestMood.Set(float64(mood))
}

func (m *MoodMetrics) StreakUpdated(outcome domain.StreakOutcome) {
	m.StreakUpdates.WithLabelValues(outcome.String()).Inc()
}
