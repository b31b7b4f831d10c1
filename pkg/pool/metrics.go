package pool

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors shared by every pool registered with it.
// Each series is labelled with the pool name.
type Metrics struct {
	JobsSubmitted *prometheus.CounterVec
	JobsRejected  *prometheus.CounterVec
	JobsCompleted *prometheus.CounterVec
	JobsPanicked  *prometheus.CounterVec
	JobDuration   *prometheus.HistogramVec
	QueueDepth    *prometheus.GaugeVec
	WorkersBusy   *prometheus.GaugeVec
	WorkersAlive  *prometheus.GaugeVec
}

// NewMetrics creates the pool collectors and registers them with registerer.
// It panics if registration fails, like promauto.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	f := promauto.With(registerer)
	labels := []string{"pool"}

	return &Metrics{
		JobsSubmitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "workpool_jobs_submitted_total",
			Help: "Total number of jobs accepted by the pool",
		}, labels),
		JobsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "workpool_jobs_rejected_total",
			Help: "Total number of submissions refused because the pool was closed",
		}, labels),
		JobsCompleted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "workpool_jobs_completed_total",
			Help: "Total number of jobs that returned normally",
		}, labels),
		JobsPanicked: f.NewCounterVec(prometheus.CounterOpts{
			Name: "workpool_jobs_panicked_total",
			Help: "Total number of jobs that panicked or exited their goroutine",
		}, labels),
		JobDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "workpool_job_duration_seconds",
			Help:    "Job execution time",
			Buckets: prometheus.DefBuckets,
		}, labels),
		QueueDepth: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "workpool_queue_depth",
			Help: "Messages waiting in the dispatch queue",
		}, labels),
		WorkersBusy: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "workpool_workers_busy",
			Help: "Workers currently running a job",
		}, labels),
		WorkersAlive: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "workpool_workers_alive",
			Help: "Worker goroutines that have not been joined yet",
		}, labels),
	}
}

// poolMetrics binds Metrics to one pool label. All methods are no-ops on a nil receiver.
type poolMetrics struct {
	submitted prometheus.Counter
	rejected  prometheus.Counter
	completed prometheus.Counter
	panicked  prometheus.Counter
	duration  prometheus.Observer
	depth     prometheus.Gauge
	busy      prometheus.Gauge
	alive     prometheus.Gauge
}

func (m *Metrics) forPool(name string) *poolMetrics {
	if m == nil {
		return nil
	}
	return &poolMetrics{
		submitted: m.JobsSubmitted.WithLabelValues(name),
		rejected:  m.JobsRejected.WithLabelValues(name),
		completed: m.JobsCompleted.WithLabelValues(name),
		panicked:  m.JobsPanicked.WithLabelValues(name),
		duration:  m.JobDuration.WithLabelValues(name),
		depth:     m.QueueDepth.WithLabelValues(name),
		busy:      m.WorkersBusy.WithLabelValues(name),
		alive:     m.WorkersAlive.WithLabelValues(name),
	}
}

func (m *poolMetrics) jobSubmitted(depth int) {
	if m == nil {
		return
	}
	m.submitted.Inc()
	m.depth.Set(float64(depth))
}

func (m *poolMetrics) jobRejected() {
	if m == nil {
		return
	}
	m.rejected.Inc()
}

func (m *poolMetrics) jobStarted(depth int) {
	if m == nil {
		return
	}
	m.busy.Inc()
	m.depth.Set(float64(depth))
}

func (m *poolMetrics) jobFinished(elapsed time.Duration, failed bool) {
	if m == nil {
		return
	}
	m.busy.Dec()
	m.duration.Observe(elapsed.Seconds())
	if failed {
		m.panicked.Inc()
		return
	}
	m.completed.Inc()
}

func (m *poolMetrics) workerStarted() {
	if m == nil {
		return
	}
	m.alive.Inc()
}

func (m *poolMetrics) workerStopped() {
	if m == nil {
		return
	}
	m.alive.Dec()
}
