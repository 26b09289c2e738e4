package graph

import (
	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/geometry"
	"github.com/alexanderramin/gantt/internal/schedule"
)

// Point is a pixel coordinate in the chart's row space.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Arrow is an orthogonal path from a predecessor edge to a successor start.
type Arrow struct {
	From   string
	To     string
	Type   domain.DependencyType
	Points []Point
}

// RouteResult carries the drawable arrows plus the links that were skipped.
type RouteResult struct {
	Arrows []Arrow
	// Dangling links reference a predecessor that does not exist.
	Dangling []Link
	// Hidden links reference a predecessor that exists but is not visible.
	Hidden []Link
}

// Route computes one arrow per visible dependency. exists reports whether a
// task ID is present in the project at all, so that collapsed or filtered
// predecessors are told apart from deleted ones. Route never fails; links it
// cannot draw are reported instead.
func Route(rows []schedule.Row, exists func(id string) bool, m geometry.Mapper, l geometry.Layout) RouteResult {
	index := make(map[string]int, len(rows))
	for _, r := range rows {
		index[r.Task.ID] = r.Index
	}

	var res RouteResult
	for _, r := range rows {
		for _, p := range r.Task.Predecessors {
			link := Link{Predecessor: p.TaskID, Successor: r.Task.ID, Type: p.Type}
			predRow, ok := index[p.TaskID]
			if !ok {
				if exists != nil && exists(p.TaskID) {
					res.Hidden = append(res.Hidden, link)
				} else {
					res.Dangling = append(res.Dangling, link)
				}
				continue
			}
			if predRow == r.Index {
				continue
			}
			pred := rows[predRow].Task
			res.Arrows = append(res.Arrows, Arrow{
				From:   p.TaskID,
				To:     r.Task.ID,
				Type:   p.Type,
				Points: elbow(sourceX(pred, p.Type, m), l.RowCenter(predRow), m.DateToOffset(r.Task.StartDate), l.RowCenter(r.Index), l),
			})
		}
	}
	return res
}

// sourceX is the predecessor edge an arrow leaves from: the right edge of
// the last day for FS, the left edge of the first day for SS.
func sourceX(pred *domain.Task, typ domain.DependencyType, m geometry.Mapper) int {
	if typ == domain.StartToStart {
		return m.DateToOffset(pred.StartDate)
	}
	return m.DateToOffset(calendar.AddDays(pred.EndDate, 1))
}

// elbow builds the path from (x1,y1) to (x2,y2). When there is room for a
// stub on both sides the arrow turns once in the predecessor's lane.
// Otherwise it drops into the row gap next to the successor, runs back to
// the left of the successor start, then turns into it. Y never reverses.
func elbow(x1, y1, x2, y2 int, l geometry.Layout) []Point {
	stub := l.Stub
	if stub < 1 {
		stub = 1
	}
	var pts []Point
	if x2-x1 >= 2*stub {
		turn := x1 + stub
		pts = []Point{{x1, y1}, {turn, y1}, {turn, y2}, {x2, y2}}
	} else {
		gap := y2 - l.RowHeight/2
		if y2 < y1 {
			gap = y2 + l.RowHeight/2
		}
		out, in := x1+stub, x2-stub
		pts = []Point{{x1, y1}, {out, y1}, {out, gap}, {in, gap}, {in, y2}, {x2, y2}}
	}
	return compact(pts)
}

// compact drops consecutive duplicates and merges collinear runs so the path
// has no zero-length segments.
func compact(pts []Point) []Point {
	out := make([]Point, 0, len(pts))
	for _, p := range pts {
		if n := len(out); n > 0 && out[n-1] == p {
			continue
		}
		if n := len(out); n >= 2 {
			a, b := out[n-2], out[n-1]
			if (a.X == b.X && b.X == p.X) || (a.Y == b.Y && b.Y == p.Y) {
				out[n-1] = p
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
