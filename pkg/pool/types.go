package pool

import "go.uber.org/zap"

// Job is a unit of deferred work. A submitted job is invoked at most once, on
// exactly one worker goroutine.
type Job func()

type Option func(*Pool)

// WithName sets the name used in logs, errors and metric labels.
func WithName(name string) Option {
	return func(p *Pool) {
		p.name = name
	}
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(p *Pool) {
		p.log = log
	}
}

// WithMetrics records pool activity on m. A nil m disables metrics.
func WithMetrics(m *Metrics) Option {
	return func(p *Pool) {
		p.metrics = m
	}
}
