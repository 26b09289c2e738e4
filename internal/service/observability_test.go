package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingObserver) last() UseCaseEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func TestUseCaseObserverOrNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop([]UseCaseObserver{nil}))

	rec := &recordingObserver{}
	assert.Same(t, rec, useCaseObserverOrNoop([]UseCaseObserver{nil, rec}))
}

func TestLogUseCaseObserver_WritesEvents(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf, slog.LevelInfo)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:    "reschedule",
		Success: true,
		Fields:  map[string]any{"task": "t1"},
	})
	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name: "restore-revision",
		Err:  errors.New("boom"),
	})

	out := buf.String()
	assert.Contains(t, out, "use_case=reschedule")
	assert.Contains(t, out, "task=t1")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "error=boom")

	buf.Reset()
	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name: "add-predecessor",
		Err:  fmt.Errorf("linking: %w", domain.ErrCyclicDependency),
	})
	assert.Contains(t, buf.String(), "level=WARN", "domain rejections are warnings")

	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil, slog.LevelInfo))
}

func TestServices_ReportUseCases(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	rec := &recordingObserver{}
	tasks := NewTaskService(env.projRepo, env.taskRepo, env.uow, env.cache, rec)
	p := env.project(t)

	task := &domain.Task{ProjectID: p.ID, Name: "Observed"}
	require.NoError(t, tasks.Create(ctx, task, 2))
	ev := rec.last()
	assert.Equal(t, "create-task", ev.Name)
	assert.True(t, ev.Success)

	_, err := tasks.Reschedule(ctx, p.ID, task.ID, task.EndDate, task.StartDate)
	require.Error(t, err)
	ev = rec.last()
	assert.Equal(t, "reschedule-task", ev.Name)
	assert.False(t, ev.Success)
	assert.ErrorIs(t, ev.Err, domain.ErrInvalidRange)
	assert.True(t, ev.Rejected())
}

func TestUseCaseEvent_Rejected(t *testing.T) {
	assert.False(t, UseCaseEvent{}.Rejected())
	assert.False(t, UseCaseEvent{Err: errors.New("disk I/O error")}.Rejected())
	assert.True(t, UseCaseEvent{Err: fmt.Errorf("task: %w", domain.ErrNotFound)}.Rejected())
	assert.True(t, UseCaseEvent{Err: domain.ErrUnrestorableRevision}.Rejected())
}
