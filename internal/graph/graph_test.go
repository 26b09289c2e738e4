package graph

import (
	"testing"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/stretchr/testify/assert"
)

func withPreds(id string, preds ...string) *domain.Task {
	t := &domain.Task{ID: id, Name: id}
	for _, p := range preds {
		t.Predecessors = append(t.Predecessors, domain.Predecessor{TaskID: p, Type: domain.FinishToStart})
	}
	return t
}

func TestWouldCycle(t *testing.T) {
	// a -> b -> c (b depends on a, c depends on b)
	g := FromTasks([]*domain.Task{withPreds("a"), withPreds("b", "a"), withPreds("c", "b"), withPreds("d")})

	assert.True(t, g.WouldCycle("a", "c"), "a after c closes a -> b -> c -> a")
	assert.True(t, g.WouldCycle("a", "b"))
	assert.True(t, g.WouldCycle("a", "a"), "self link")
	assert.False(t, g.WouldCycle("c", "a"), "redundant forward link is fine")
	assert.False(t, g.WouldCycle("d", "c"))
	assert.False(t, g.WouldCycle("a", "d"))
}

func TestWouldCycle_Diamond(t *testing.T) {
	g := FromTasks([]*domain.Task{
		withPreds("a"),
		withPreds("b", "a"),
		withPreds("c", "a"),
		withPreds("d", "b", "c"),
	})
	assert.True(t, g.WouldCycle("a", "d"))
	assert.True(t, g.WouldCycle("b", "d"))
	assert.False(t, g.WouldCycle("c", "b"))
}

func TestHasCycle(t *testing.T) {
	assert.False(t, FromTasks([]*domain.Task{withPreds("a"), withPreds("b", "a")}).HasCycle())
	assert.True(t, FromTasks([]*domain.Task{withPreds("a", "b"), withPreds("b", "a")}).HasCycle())
}

func TestDangling(t *testing.T) {
	g := FromTasks([]*domain.Task{withPreds("b", "a", "gone")})
	assert.Equal(t, []Link{
		{Predecessor: "a", Successor: "b", Type: domain.FinishToStart},
		{Predecessor: "gone", Successor: "b", Type: domain.FinishToStart},
	}, g.Dangling())
	assert.Len(t, g.Links(), 2)
}

func TestFindCycle(t *testing.T) {
	edges := map[string][]string{
		"x": {"y"},
		"y": {"z"},
		"z": {"x"},
		"w": {"x"},
	}
	cycle := FindCycle(edges)
	assert.ElementsMatch(t, []string{"x", "y", "z"}, cycle)

	assert.Nil(t, FindCycle(map[string][]string{"a": {"b"}, "b": {"c"}}))
}
