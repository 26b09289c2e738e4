// Package export serializes a laid-out chart into a renderer-neutral
// document: bars, baselines and arrow paths in pixel space plus the
// project summary.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/graph"
	"github.com/alexanderramin/gantt/internal/service"
	"gopkg.in/yaml.v3"
)

// Bar colors by effective status. Phases and variance use their own.
const (
	ColorNotStarted = "#9CA3AF"
	ColorInProgress = "#3B82F6"
	ColorComplete   = "#10B981"
	ColorPhase      = "#374151"
	ColorVariance   = "#EF4444"
	ColorBaseline   = "#D1D5DB"
)

type Document struct {
	Project  Project              `json:"project" yaml:"project"`
	Window   Window               `json:"window" yaml:"window"`
	Geometry Geometry             `json:"geometry" yaml:"geometry"`
	Rows     []Row                `json:"rows" yaml:"rows"`
	Arrows   []Arrow              `json:"arrows" yaml:"arrows"`
	Dangling []Link               `json:"dangling,omitempty" yaml:"dangling,omitempty"`
	Stats    service.ProjectStats `json:"stats" yaml:"stats"`
}

type Project struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Currency  string   `json:"currency" yaml:"currency"`
	Resources []string `json:"resources,omitempty" yaml:"resources,omitempty"`
}

type Window struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
	Days  int    `json:"days" yaml:"days"`
}

type Geometry struct {
	ColumnWidth int `json:"column_width" yaml:"column_width"`
	RowHeight   int `json:"row_height" yaml:"row_height"`
	BarHeight   int `json:"bar_height" yaml:"bar_height"`
	Width       int `json:"width" yaml:"width"`
	Height      int `json:"height" yaml:"height"`
}

// Rect is a bar in pixel space.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

type Row struct {
	Index     int     `json:"index" yaml:"index"`
	TaskID    string  `json:"task_id" yaml:"task_id"`
	ParentID  string  `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Name      string  `json:"name" yaml:"name"`
	Depth     int     `json:"depth" yaml:"depth"`
	Start     string  `json:"start" yaml:"start"`
	End       string  `json:"end" yaml:"end"`
	Duration  int     `json:"duration" yaml:"duration"`
	Progress  float64 `json:"progress" yaml:"progress"`
	Status    string  `json:"status" yaml:"status"`
	Assignee  string  `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Cost      float64 `json:"cost,omitempty" yaml:"cost,omitempty"`
	Phase     bool    `json:"phase" yaml:"phase"`
	Collapsed bool    `json:"collapsed,omitempty" yaml:"collapsed,omitempty"`
	Variance  bool    `json:"variance" yaml:"variance"`
	Color     string  `json:"color" yaml:"color"`
	Bar       Rect    `json:"bar" yaml:"bar"`
	// ProgressWidth is the filled part of Bar.
	ProgressWidth int   `json:"progress_width" yaml:"progress_width"`
	Baseline      *Rect `json:"baseline,omitempty" yaml:"baseline,omitempty"`
}

type Arrow struct {
	From   string        `json:"from" yaml:"from"`
	To     string        `json:"to" yaml:"to"`
	Type   string        `json:"type" yaml:"type"`
	Points []graph.Point `json:"points" yaml:"points"`
}

type Link struct {
	Predecessor string `json:"predecessor" yaml:"predecessor"`
	Successor   string `json:"successor" yaml:"successor"`
	Type        string `json:"type" yaml:"type"`
}

// Build flattens a chart into a Document. Rows keep the chart's visible
// order; hidden links are left out, dangling links are listed.
func Build(chart *service.Chart, stats service.ProjectStats) Document {
	m, l := chart.Mapper, chart.Layout
	doc := Document{
		Project: Project{
			ID:        chart.Project.ID,
			Name:      chart.Project.Name,
			Currency:  chart.Project.Currency,
			Resources: chart.Project.Resources,
		},
		Window: Window{
			Start: calendar.Format(m.Window.Start),
			End:   calendar.Format(m.Window.End),
			Days:  m.Columns(),
		},
		Geometry: Geometry{
			ColumnWidth: m.ColumnWidth,
			RowHeight:   l.RowHeight,
			BarHeight:   l.BarHeight,
			Width:       m.Width(),
			Height:      len(chart.Rows) * l.RowHeight,
		},
		Rows:   make([]Row, 0, len(chart.Rows)),
		Arrows: make([]Arrow, 0, len(chart.Arrows)),
		Stats:  stats,
	}

	for _, r := range chart.Rows {
		t := r.Task
		x, w := m.Span(t.StartDate, t.EndDate)
		row := Row{
			Index:     r.Index,
			TaskID:    t.ID,
			Name:      t.Name,
			Depth:     r.Depth,
			Start:     calendar.Format(t.StartDate),
			End:       calendar.Format(t.EndDate),
			Duration:  t.Duration(),
			Progress:  t.ProgressPct,
			Status:    string(t.EffectiveStatus()),
			Assignee:  t.Assignee,
			Cost:      t.Cost,
			Phase:     r.IsPhase,
			Collapsed: r.Collapsed,
			Variance:  t.HasVariance(),
			Color:     barColor(t, r.IsPhase),
			Bar:       Rect{X: x, Y: l.BarTop(r.Index), Width: w, Height: l.BarHeight},
		}
		row.ProgressWidth = int(float64(w) * t.ProgressPct / 100)
		if t.ParentID != nil {
			row.ParentID = *t.ParentID
		}
		if t.HasBaseline() {
			bx, bw := m.Span(*t.BaselineStart, *t.BaselineEnd)
			row.Baseline = &Rect{X: bx, Y: l.BarTop(r.Index) + l.BarHeight, Width: bw, Height: baselineHeight(l.RowHeight, l.BarHeight)}
		}
		doc.Rows = append(doc.Rows, row)
	}

	for _, a := range chart.Arrows {
		doc.Arrows = append(doc.Arrows, Arrow{From: a.From, To: a.To, Type: string(a.Type), Points: a.Points})
	}
	for _, d := range chart.Dangling {
		doc.Dangling = append(doc.Dangling, Link{Predecessor: d.Predecessor, Successor: d.Successor, Type: string(d.Type)})
	}
	return doc
}

func barColor(t *domain.Task, phase bool) string {
	switch {
	case phase:
		return ColorPhase
	case t.HasVariance():
		return ColorVariance
	}
	switch t.EffectiveStatus() {
	case domain.TaskComplete:
		return ColorComplete
	case domain.TaskInProgress:
		return ColorInProgress
	default:
		return ColorNotStarted
	}
}

// baselineHeight fits the baseline strip into the space under the bar.
func baselineHeight(rowHeight, barHeight int) int {
	h := (rowHeight - barHeight) / 2
	if h < 1 {
		return 1
	}
	return h
}

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown export format %q (expected json or yaml)", s)
	}
}

// Encode writes doc in the given format.
func Encode(w io.Writer, doc Document, format Format) error {
	return EncodeValue(w, doc, format)
}

// EncodeValue writes any tagged value as indented JSON or YAML.
func EncodeValue(w io.Writer, v any, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}
