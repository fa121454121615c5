package jobs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// LogSink writes outcomes to a zerolog logger; failures log at error level.
type LogSink struct {
	Logger zerolog.Logger
}

func (s LogSink) Record(o Outcome) {
	var ev *zerolog.Event
	switch o.Status {
	case StatusOK:
		ev = s.Logger.Info()
	case StatusDegraded:
		ev = s.Logger.Warn()
	default:
		ev = s.Logger.Error()
	}
	ev.Stringer("run_id", o.RunID).
		Str("job", o.Job).
		Str("status", string(o.Status)).
		Int("items", o.Items).
		Dur("duration", o.Duration()).
		Str("detail", o.Detail).
		Msg("job finished")
}

// MetricsSink exports outcomes as Prometheus metrics.
type MetricsSink struct {
	// RunsTotal counts runs by job and status.
	RunsTotal *prometheus.CounterVec
	// DurationSeconds measures run duration by job.
	DurationSeconds *prometheus.HistogramVec
	// LastSuccess is the unix time of the last ok run by job.
	LastSuccess *prometheus.GaugeVec
	// ItemsTotal counts products restocked and reminders logged by job.
	ItemsTotal *prometheus.CounterVec
}

func NewMetricsSink(reg prometheus.Registerer) *MetricsSink {
	factory := promauto.With(reg)
	return &MetricsSink{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crm",
			Subsystem: "job",
			Name:      "runs_total",
			Help:      "Total number of maintenance job runs by job and status",
		}, []string{"job", "status"}),
		DurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "crm",
			Subsystem: "job",
			Name:      "duration_seconds",
			Help:      "Maintenance job run duration",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"job"}),
		LastSuccess: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "crm",
			Subsystem: "job",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run by job",
		}, []string{"job"}),
		ItemsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crm",
			Subsystem: "job",
			Name:      "items_total",
			Help:      "Items processed by maintenance jobs",
		}, []string{"job"}),
	}
}

func (s *MetricsSink) Record(o Outcome) {
	s.RunsTotal.WithLabelValues(o.Job, string(o.Status)).Inc()
	s.DurationSeconds.WithLabelValues(o.Job).Observe(o.Duration().Seconds())
	s.ItemsTotal.WithLabelValues(o.Job).Add(float64(o.Items))
	if o.Status == StatusOK {
		s.LastSuccess.WithLabelValues(o.Job).Set(float64(o.FinishedAt.Unix()))
	}
}
