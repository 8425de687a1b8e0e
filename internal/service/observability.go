package service

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// UseCaseEvent captures lightweight execution telemetry for a service use case.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger zerolog.Logger
}

// NewLogUseCaseObserver writes one service_use_case event per call.
func NewLogUseCaseObserver(logger zerolog.Logger) UseCaseObserver {
	return &logUseCaseObserver{logger: logger}
}

func (o *logUseCaseObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	ev := o.logger.Info()
	if event.Err != nil {
		ev = o.logger.Error().Err(event.Err)
	}
	ev = ev.Str("use_case", event.Name).
		Int64("duration_ms", event.Duration.Milliseconds()).
		Bool("success", event.Success)
	for k, v := range event.Fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg("service_use_case")
}

// PromUseCaseObserver records use-case runs as Prometheus metrics.
type PromUseCaseObserver struct {
	runs       *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	shortfalls prometheus.Gauge
	feasible   prometheus.Gauge
}

// NewPromUseCaseObserver registers the metrics on reg. A nil registerer
// defaults to the global Prometheus registerer; metrics already registered
// by an earlier observer are reused.
func NewPromUseCaseObserver(reg prometheus.Registerer) (*PromUseCaseObserver, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "laststart_use_case_runs_total",
		Help: "Service use-case executions by outcome",
	}, []string{"use_case", "success"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "laststart_use_case_duration_seconds",
		Help:    "Service use-case execution time",
		Buckets: prometheus.DefBuckets,
	}, []string{"use_case"})
	shortfalls := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "laststart_plan_shortfall_items",
		Help: "Items that did not receive all their effort in the last plan",
	})
	feasible := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "laststart_plan_feasible",
		Help: "1 when the last plan can still be started on time, 0 otherwise",
	})

	var err error
	if runs, err = registerOrReuse(reg, runs); err != nil {
		return nil, err
	}
	if duration, err = registerOrReuse(reg, duration); err != nil {
		return nil, err
	}
	if shortfalls, err = registerOrReuse(reg, shortfalls); err != nil {
		return nil, err
	}
	if feasible, err = registerOrReuse(reg, feasible); err != nil {
		return nil, err
	}
	return &PromUseCaseObserver{runs: runs, duration: duration, shortfalls: shortfalls, feasible: feasible}, nil
}

func registerOrReuse[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (o *PromUseCaseObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	success := "false"
	if event.Success {
		success = "true"
	}
	o.runs.WithLabelValues(event.Name, success).Inc()
	o.duration.WithLabelValues(event.Name).Observe(event.Duration.Seconds())

	if event.Name != useCaseLatestStart || !event.Success {
		return
	}
	if n, ok := event.Fields["shortfalls"].(int); ok {
		o.shortfalls.Set(float64(n))
	}
	if f, ok := event.Fields["feasible"].(bool); ok {
		if f {
			o.feasible.Set(1)
		} else {
			o.feasible.Set(0)
		}
	}
}

type multiUseCaseObserver []UseCaseObserver

// MultiUseCaseObserver fans events out to every non-nil observer.
func MultiUseCaseObserver(observers ...UseCaseObserver) UseCaseObserver {
	var m multiUseCaseObserver
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	switch len(m) {
	case 0:
		return NoopUseCaseObserver{}
	case 1:
		return m[0]
	}
	return m
}

func (m multiUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	for _, o := range m {
		o.ObserveUseCase(ctx, event)
	}
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	return MultiUseCaseObserver(observers...)
}
