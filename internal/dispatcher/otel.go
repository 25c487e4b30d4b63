package dispatcher

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/spreadingweeds/extension/internal/dispatcher"

type instruments struct {
	processed metric.Int64Counter
	failed    metric.Int64Counter
	duration  metric.Float64Histogram
}

func newInstruments() (*instruments, error) {
	m := otel.Meter(instrumentationName)
	var (
		inst instruments
		err  error
	)
	if inst.processed, err = m.Int64Counter("dispatcher.events.processed",
		metric.WithDescription("Events handled")); err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}
	if inst.failed, err = m.Int64Counter("dispatcher.events.failed",
		metric.WithDescription("Events whose handler returned an error or panicked")); err != nil {
		return nil, fmt.Errorf("creating failed counter: %w", err)
	}
	if inst.duration, err = m.Float64Histogram("dispatcher.event.duration",
		metric.WithDescription("Handler run time"), metric.WithUnit("ms")); err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}
	return &inst, nil
}

// wrap records the outcome of every call, panics included when the caller
// adds recovery outside it.
func (in *instruments) wrap(command string, next HandlerFunc) HandlerFunc {
	attrs := metric.WithAttributes(attribute.String("command", command))
	return func(e Event) (any, error) {
		ctx := context.Background()
		start := time.Now()
		failed := true
		defer func() {
			in.processed.Add(ctx, 1, attrs)
			in.duration.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)
			if failed {
				in.failed.Add(ctx, 1, attrs)
			}
		}()
		result, err := next(e)
		failed = err != nil
		return result, err
	}
}
