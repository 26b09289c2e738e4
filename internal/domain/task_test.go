package domain

import (
	"errors"
	"testing"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(start, end string) *Task {
	return &Task{
		ID:        "t1",
		Name:      "Design",
		StartDate: calendar.MustParse(start),
		EndDate:   calendar.MustParse(end),
	}
}

func TestTask_Duration(t *testing.T) {
	task := newTask("2025-01-01", "2025-01-05")
	assert.Equal(t, 5, task.Duration())
}

func TestTask_Validate_InvalidRange(t *testing.T) {
	task := newTask("2025-01-05", "2025-01-01")
	err := task.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRange))
}

func TestTask_Validate_SingleDayIsValid(t *testing.T) {
	task := newTask("2025-01-05", "2025-01-05")
	assert.NoError(t, task.Validate())
}

func TestTask_Validate_Fields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Task)
	}{
		{"empty name", func(t *Task) { t.Name = "" }},
		{"negative cost", func(t *Task) { t.Cost = -1 }},
		{"progress above 100", func(t *Task) { t.ProgressPct = 101 }},
		{"unknown status", func(t *Task) { t.Status = "blocked" }},
		{"unknown dependency type", func(t *Task) { t.Predecessors = []Predecessor{{TaskID: "x", Type: "FF"}} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := newTask("2025-01-01", "2025-01-02")
			tc.mutate(task)
			err := task.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTask))
		})
	}
}

func TestTask_Validate_SelfDependency(t *testing.T) {
	task := newTask("2025-01-01", "2025-01-02")
	task.Predecessors = []Predecessor{{TaskID: task.ID, Type: FinishToStart}}
	assert.True(t, errors.Is(task.Validate(), ErrCyclicDependency))
}

func TestTask_Normalize_ClampsProgress(t *testing.T) {
	task := newTask("2025-01-01", "2025-01-02")
	task.ProgressPct = 140
	task.Normalize()
	assert.Equal(t, 100.0, task.ProgressPct)

	task.ProgressPct = -3
	task.Normalize()
	assert.Equal(t, 0.0, task.ProgressPct)
}

func TestTask_EffectiveStatus(t *testing.T) {
	task := newTask("2025-01-01", "2025-01-02")
	assert.Equal(t, TaskNotStarted, task.EffectiveStatus())

	task.ProgressPct = 40
	assert.Equal(t, TaskInProgress, task.EffectiveStatus())

	task.ProgressPct = 100
	assert.Equal(t, TaskComplete, task.EffectiveStatus())
	assert.True(t, task.IsComplete())

	task.Status = TaskInProgress
	assert.Equal(t, TaskInProgress, task.EffectiveStatus(), "assigned status wins")
}

func TestTask_HasVariance(t *testing.T) {
	task := newTask("2025-01-01", "2025-01-05")
	assert.False(t, task.HasVariance(), "no baseline means no variance")

	task.SetBaseline()
	assert.False(t, task.HasVariance())

	task.StartDate = calendar.AddDays(task.StartDate, 2)
	task.EndDate = calendar.AddDays(task.EndDate, 2)
	assert.True(t, task.HasVariance())

	task.SetBaseline()
	assert.False(t, task.HasVariance(), "setting baseline again overwrites")
}

func TestTask_HasVariance_EndOnly(t *testing.T) {
	task := newTask("2025-01-01", "2025-01-05")
	task.SetBaseline()
	task.EndDate = calendar.AddDays(task.EndDate, 1)
	assert.True(t, task.HasVariance())
}

func TestTask_Clone_IsDeep(t *testing.T) {
	parent := "p1"
	task := newTask("2025-01-01", "2025-01-05")
	task.ParentID = &parent
	task.Predecessors = []Predecessor{{TaskID: "a", Type: FinishToStart}}
	task.SetBaseline()

	c := task.Clone()
	*c.ParentID = "other"
	c.Predecessors[0].TaskID = "b"
	*c.BaselineStart = calendar.MustParse("2030-01-01")

	assert.Equal(t, "p1", *task.ParentID)
	assert.Equal(t, "a", task.Predecessors[0].TaskID)
	assert.Equal(t, "2025-01-01", calendar.Format(*task.BaselineStart))
}

func TestProject_Validate(t *testing.T) {
	p := &Project{Name: "Bridge", Currency: "EUR", Budget: 1000}
	require.NoError(t, p.Validate())

	p.Currency = "eur"
	assert.Error(t, p.Validate())

	p.Currency = "EUR"
	p.Budget = -5
	assert.Error(t, p.Validate())

	p.Budget = 0
	p.Name = ""
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestProject_HasResource(t *testing.T) {
	p := &Project{Resources: []string{"Ana", "Bo"}}
	assert.True(t, p.HasResource("Bo"))
	assert.False(t, p.HasResource("Cy"))
}

func TestRevision_Restorable(t *testing.T) {
	assert.False(t, (&Revision{Note: "kickoff"}).Restorable())
	assert.True(t, (&Revision{Snapshot: &Snapshot{}}).Restorable())
}

func TestCoalesce(t *testing.T) {
	zero, five := 0.0, 5.0
	assert.Equal(t, 7.0, Coalesce(7.0))
	assert.Equal(t, 7.0, Coalesce(7.0, nil))
	assert.Equal(t, 0.0, Coalesce(7.0, nil, &zero, &five), "explicit zero wins over the fallback")
	assert.Equal(t, "x", Coalesce("x", (*string)(nil)))
}
