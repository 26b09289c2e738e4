// Package schedule materializes the ordered, visible row list of a project
// from its flat task table. Tasks are stored flat and keyed by ID with a
// parent back-reference; the hierarchy only exists as an index built here.
package schedule

import (
	"cmp"
	"slices"
	"strings"

	"github.com/alexanderramin/gantt/internal/domain"
)

// Table indexes a flat task list by ID and by parent.
type Table struct {
	byID     map[string]*domain.Task
	children map[string][]*domain.Task
	roots    []*domain.Task
}

// NewTable indexes tasks. A task whose parent is missing is treated as a root.
// Siblings are ordered by OrderIndex, then creation time, then ID.
func NewTable(tasks []*domain.Task) *Table {
	t := &Table{
		byID:     make(map[string]*domain.Task, len(tasks)),
		children: make(map[string][]*domain.Task),
	}
	for _, task := range tasks {
		t.byID[task.ID] = task
	}
	for _, task := range tasks {
		if task.ParentID != nil {
			if _, ok := t.byID[*task.ParentID]; ok && *task.ParentID != task.ID {
				t.children[*task.ParentID] = append(t.children[*task.ParentID], task)
				continue
			}
		}
		t.roots = append(t.roots, task)
	}
	slices.SortStableFunc(t.roots, compareSiblings)
	for id := range t.children {
		slices.SortStableFunc(t.children[id], compareSiblings)
	}
	return t
}

func compareSiblings(a, b *domain.Task) int {
	return cmp.Or(
		cmp.Compare(a.OrderIndex, b.OrderIndex),
		a.CreatedAt.Compare(b.CreatedAt),
		cmp.Compare(a.ID, b.ID),
	)
}

// Len returns the number of tasks in the table.
func (t *Table) Len() int { return len(t.byID) }

// Get looks up a task by ID.
func (t *Table) Get(id string) (*domain.Task, bool) {
	task, ok := t.byID[id]
	return task, ok
}

// Roots returns the top-level tasks in order.
func (t *Table) Roots() []*domain.Task { return t.roots }

// Children returns the direct children of id in order.
func (t *Table) Children(id string) []*domain.Task { return t.children[id] }

// IsPhase reports whether the task has children.
func (t *Table) IsPhase(id string) bool { return len(t.children[id]) > 0 }

// Tasks returns every task in tree (pre-)order.
func (t *Table) Tasks() []*domain.Task {
	out := make([]*domain.Task, 0, len(t.byID))
	t.walk(t.roots, 0, func(task *domain.Task, _ int) bool {
		out = append(out, task)
		return true
	})
	return out
}

// walk visits tasks depth-first; returning false from fn skips the subtree.
// The visited set guards against parent cycles in corrupt data.
func (t *Table) walk(level []*domain.Task, depth int, fn func(*domain.Task, int) bool) {
	visited := make(map[string]bool, len(t.byID))
	var visit func([]*domain.Task, int)
	visit = func(level []*domain.Task, depth int) {
		for _, task := range level {
			if visited[task.ID] {
				continue
			}
			visited[task.ID] = true
			if fn(task, depth) {
				visit(t.children[task.ID], depth+1)
			}
		}
	}
	visit(level, depth)
}

// IsDescendant reports whether candidate sits anywhere below ancestorID.
func (t *Table) IsDescendant(ancestorID, candidate string) bool {
	found := false
	t.walk(t.children[ancestorID], 0, func(task *domain.Task, _ int) bool {
		if task.ID == candidate {
			found = true
		}
		return !found
	})
	return found
}

// Subtree returns id and the IDs of all of its descendants.
func (t *Table) Subtree(id string) []string {
	if _, ok := t.byID[id]; !ok {
		return nil
	}
	ids := []string{id}
	t.walk(t.children[id], 0, func(task *domain.Task, _ int) bool {
		ids = append(ids, task.ID)
		return true
	})
	return ids
}

// NextOrderIndex returns the order index to append a new child under
// parentID ("" for the top level).
func (t *Table) NextOrderIndex(parentID string) int {
	siblings := t.roots
	if parentID != "" {
		siblings = t.children[parentID]
	}
	next := 0
	for _, s := range siblings {
		if s.OrderIndex >= next {
			next = s.OrderIndex + 1
		}
	}
	return next
}

// ViewOptions selects which rows are visible.
type ViewOptions struct {
	// Collapsed phases hide their descendants.
	Collapsed map[string]bool
	Assignee  string
	Status    domain.TaskStatus
	// Query matches task names case-insensitively.
	Query string
}

func (o ViewOptions) filtering() bool {
	return o.Assignee != "" || o.Status != "" || o.Query != ""
}

func (o ViewOptions) matches(task *domain.Task) bool {
	if o.Assignee != "" && !strings.EqualFold(task.Assignee, o.Assignee) {
		return false
	}
	if o.Status != "" && task.EffectiveStatus() != o.Status {
		return false
	}
	if o.Query != "" && !strings.Contains(strings.ToLower(task.Name), strings.ToLower(o.Query)) {
		return false
	}
	return true
}

// Row is one visible line of the chart.
type Row struct {
	Index      int
	Task       *domain.Task
	Depth      int
	IsPhase    bool
	Collapsed  bool
	ChildCount int
}

// Rows materializes the visible rows in display order. When a filter is set,
// a task is shown if it or any of its descendants matches, so matches keep
// their phase context.
func (t *Table) Rows(opts ViewOptions) []Row {
	var keep map[string]bool
	if opts.filtering() {
		keep = make(map[string]bool)
		var mark func(task *domain.Task) bool
		mark = func(task *domain.Task) bool {
			matched := opts.matches(task)
			for _, c := range t.children[task.ID] {
				if keep[c.ID] {
					continue
				}
				if mark(c) {
					matched = true
				}
			}
			if matched {
				keep[task.ID] = true
			}
			return matched
		}
		for _, r := range t.roots {
			mark(r)
		}
	}

	var rows []Row
	t.walk(t.roots, 0, func(task *domain.Task, depth int) bool {
		if keep != nil && !keep[task.ID] {
			return false
		}
		collapsed := opts.Collapsed[task.ID]
		rows = append(rows, Row{
			Index:      len(rows),
			Task:       task,
			Depth:      depth,
			IsPhase:    t.IsPhase(task.ID),
			Collapsed:  collapsed && t.IsPhase(task.ID),
			ChildCount: len(t.children[task.ID]),
		})
		return !collapsed
	})
	return rows
}
