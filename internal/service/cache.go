package service

import (
	"fmt"

	"github.com/alexanderramin/gantt/internal/domain"
	lru "github.com/hashicorp/golang-lru/v2"
)

// TaskCache keeps recently loaded task tables keyed by project ID. Entries
// are deep-copied on the way in and out so callers may mutate what they get.
// A nil *TaskCache is valid and caches nothing.
type TaskCache struct {
	entries *lru.Cache[string, []*domain.Task]
}

// NewTaskCache creates a cache holding up to size projects.
func NewTaskCache(size int) (*TaskCache, error) {
	entries, err := lru.New[string, []*domain.Task](size)
	if err != nil {
		return nil, fmt.Errorf("creating task cache: %w", err)
	}
	return &TaskCache{entries: entries}, nil
}

func (c *TaskCache) Get(projectID string) ([]*domain.Task, bool) {
	if c == nil {
		return nil, false
	}
	tasks, ok := c.entries.Get(projectID)
	if !ok {
		return nil, false
	}
	return domain.CloneTasks(tasks), true
}

func (c *TaskCache) Put(projectID string, tasks []*domain.Task) {
	if c == nil {
		return
	}
	c.entries.Add(projectID, domain.CloneTasks(tasks))
}

// Invalidate drops the project's entry. Every mutator calls it.
func (c *TaskCache) Invalidate(projectID string) {
	if c == nil {
		return
	}
	c.entries.Remove(projectID)
}

func (c *TaskCache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}
