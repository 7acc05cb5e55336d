package image

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "silo_generation_results_total",
		Help: "Image generation outcomes by provider and result kind.",
	}, []string{"provider", "kind"})

	generationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "silo_generation_duration_seconds",
		Help:    "Latency of image provider calls.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 90, 120},
	}, []string{"provider"})
)

// Instrumented records outcome and latency of every call to the wrapped generator.
type Instrumented struct {
	next     Generator
	provider string
}

func Instrument(next Generator) *Instrumented {
	name := "unknown"
	if s, ok := next.(fmt.Stringer); ok {
		name = s.String()
	}
	return &Instrumented{next: next, provider: name}
}

func (i *Instrumented) String() string {
	return i.provider
}

func (i *Instrumented) Generate(ctx context.Context, req Request) Result {
	start := time.Now()
	res := i.next.Generate(ctx, req)
	generationDuration.WithLabelValues(i.provider).Observe(time.Since(start).Seconds())
	generationResults.WithLabelValues(i.provider, string(res.Kind)).Inc()
	return res
}

var _ Generator = (*Instrumented)(nil)
