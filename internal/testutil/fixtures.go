package testutil

import (
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/google/uuid"
)

// Project options
type ProjectOption func(*domain.Project)

func WithBudget(b float64) ProjectOption {
	return func(p *domain.Project) {
		p.Budget = b
	}
}

func WithCurrency(c string) ProjectOption {
	return func(p *domain.Project) {
		p.Currency = c
	}
}

func WithOwner(id string) ProjectOption {
	return func(p *domain.Project) {
		p.OwnerID = id
	}
}

func WithResources(names ...string) ProjectOption {
	return func(p *domain.Project) {
		p.Resources = append(p.Resources, names...)
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		Currency:  domain.DefaultCurrency,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

// WithDates sets start and end from YYYY-MM-DD strings.
func WithDates(start, end string) TaskOption {
	return func(t *domain.Task) {
		t.StartDate = calendar.MustParse(start)
		t.EndDate = calendar.MustParse(end)
	}
}

func WithParentID(id string) TaskOption {
	return func(t *domain.Task) {
		t.ParentID = &id
	}
}

func WithOrderIndex(i int) TaskOption {
	return func(t *domain.Task) {
		t.OrderIndex = i
	}
}

func WithProgress(pct float64) TaskOption {
	return func(t *domain.Task) {
		t.ProgressPct = pct
	}
}

func WithAssignee(name string) TaskOption {
	return func(t *domain.Task) {
		t.Assignee = name
	}
}

func WithCost(c float64) TaskOption {
	return func(t *domain.Task) {
		t.Cost = c
	}
}

func WithStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithPredecessor(taskID string, typ domain.DependencyType) TaskOption {
	return func(t *domain.Task) {
		t.Predecessors = append(t.Predecessors, domain.Predecessor{TaskID: taskID, Type: typ})
	}
}

func WithBaseline(start, end string) TaskOption {
	return func(t *domain.Task) {
		s, e := calendar.MustParse(start), calendar.MustParse(end)
		t.BaselineStart = &s
		t.BaselineEnd = &e
	}
}

// NewTestTask returns a five-day task starting 2025-01-01 unless options
// say otherwise.
func NewTestTask(projectID, name string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	t := &domain.Task{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		StartDate: calendar.MustParse("2025-01-01"),
		EndDate:   calendar.MustParse("2025-01-05"),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
