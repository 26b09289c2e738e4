package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/alexanderramin/gantt/internal/schedule"
)

// loadTasks returns the project's flat task table, served from cache when
// possible.
func loadTasks(ctx context.Context, repo repository.TaskRepo, cache *TaskCache, projectID string) ([]*domain.Task, error) {
	if tasks, ok := cache.Get(projectID); ok {
		return tasks, nil
	}
	tasks, err := repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	cache.Put(projectID, tasks)
	return tasks, nil
}

// ProjectStats is the per-project aggregate shown in summaries and exports.
type ProjectStats struct {
	ProjectID       string  `json:"project_id" yaml:"project_id"`
	TaskCount       int     `json:"task_count" yaml:"task_count"`
	CompletedCount  int     `json:"completed_count" yaml:"completed_count"`
	AverageProgress float64 `json:"average_progress" yaml:"average_progress"`
	Budget          float64 `json:"budget" yaml:"budget"`
	CommittedCost   float64 `json:"committed_cost" yaml:"committed_cost"`
	RemainingBudget float64 `json:"remaining_budget" yaml:"remaining_budget"`
	Currency        string  `json:"currency" yaml:"currency"`
}

// ComputeStats aggregates over every task in the tree, phases included.
func ComputeStats(p *domain.Project, tasks []*domain.Task) ProjectStats {
	st := ProjectStats{
		ProjectID: p.ID,
		TaskCount: len(tasks),
		Budget:    p.Budget,
		Currency:  p.Currency,
	}
	var progress float64
	for _, t := range tasks {
		if t.IsComplete() {
			st.CompletedCount++
		}
		progress += t.ProgressPct
		st.CommittedCost += t.Cost
	}
	if len(tasks) > 0 {
		st.AverageProgress = progress / float64(len(tasks))
	}
	st.RemainingBudget = st.Budget - st.CommittedCost
	return st
}

// parentFirst orders tasks so that every parent precedes its children.
func parentFirst(tasks []*domain.Task) []*domain.Task {
	ordered := schedule.NewTable(tasks).Tasks()
	if len(ordered) == len(tasks) {
		return ordered
	}
	seen := make(map[string]bool, len(ordered))
	for _, t := range ordered {
		seen[t.ID] = true
	}
	for _, t := range tasks {
		if !seen[t.ID] {
			ordered = append(ordered, t)
		}
	}
	return ordered
}
