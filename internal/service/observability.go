package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
)

// UseCaseEvent is reported once per service call.
type UseCaseEvent struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
}

// Rejected reports whether the call failed on a domain rule rather than on
// storage. A rejected call leaves the project unchanged.
func (e UseCaseEvent) Rejected() bool {
	return e.Err != nil && isDomainError(e.Err)
}

func isDomainError(err error) bool {
	for _, target := range []error{
		domain.ErrNotFound,
		domain.ErrInvalidRange,
		domain.ErrCyclicDependency,
		domain.ErrUnrestorableRevision,
		domain.ErrInvalidTask,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

// NewLogUseCaseObserver logs events as slog text records to w.
func NewLogUseCaseObserver(w io.Writer, level slog.Level) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return NewSlogUseCaseObserver(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// NewSlogUseCaseObserver logs events through logger. Successful calls are
// logged at INFO, rejected ones at WARN and storage failures at ERROR.
func NewSlogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return slogObserver{logger: logger}
}

type slogObserver struct {
	logger *slog.Logger
}

func (o slogObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := []slog.Attr{
		slog.String("use_case", event.Name),
		slog.Int64("duration_ms", event.Duration.Milliseconds()),
		slog.Bool("success", event.Success),
	}
	for k, v := range event.Fields {
		attrs = append(attrs, slog.Any(k, v))
	}

	level := slog.LevelInfo
	if event.Err != nil {
		attrs = append(attrs, slog.String("error", event.Err.Error()))
		level = slog.LevelError
		if event.Rejected() {
			level = slog.LevelWarn
		}
	}
	o.logger.LogAttrs(ctx, level, "service_use_case", attrs...)
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}

// track times a use case. Defer the returned func with the address of the
// named error result:
//
//	defer track(ctx, s.observer, "delete-task", fields)(&err)
//
// fields may be filled in after track returns; they are read at report time.
func track(ctx context.Context, obs UseCaseObserver, name string, fields map[string]any) func(*error) {
	started := time.Now().UTC()
	return func(errp *error) {
		event := UseCaseEvent{Name: name, StartedAt: started, Duration: time.Since(started), Fields: fields}
		if errp != nil {
			event.Err = *errp
		}
		event.Success = event.Err == nil
		obs.ObserveUseCase(ctx, event)
	}
}
