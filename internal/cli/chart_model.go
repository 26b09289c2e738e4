package cli

import (
	"context"
	"maps"
	"strings"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/geometry"
	"github.com/alexanderramin/gantt/internal/interaction"
	"github.com/alexanderramin/gantt/internal/schedule"
	"github.com/alexanderramin/gantt/internal/service"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type chartKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Earlier  key.Binding
	Later    key.Binding
	Shorter  key.Binding
	Longer   key.Binding
	Baseline key.Binding
	Cancel   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultChartKeys() chartKeyMap {
	return chartKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "fold phase")),
		Earlier:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "move -1d")),
		Later:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "move +1d")),
		Shorter:  key.NewBinding(key.WithKeys("<", ","), key.WithHelp("<", "end -1d")),
		Longer:   key.NewBinding(key.WithKeys(">", "."), key.WithHelp(">", "end +1d")),
		Baseline: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "baseline")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k chartKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Earlier, k.Later, k.Help, k.Quit}
}

func (k chartKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.Earlier, k.Later, k.Shorter, k.Longer},
		{k.Baseline, k.Cancel, k.Help, k.Quit},
	}
}

type chartLoadedMsg struct {
	chart *service.Chart
	err   error
}

// chartModel is the interactive chart. Pointer and key gestures go through
// an interaction.Machine that shares the mapper the bars are drawn with.
type chartModel struct {
	ctx       context.Context
	app       *App
	projectID string
	opts      schedule.ViewOptions

	chart   *service.Chart
	mapper  geometry.Mapper
	machine *interaction.Machine

	keys     chartKeyMap
	help     help.Model
	cursor   int
	pressX   int
	baseline bool
	status   string
	err      error
}

func newChartModel(ctx context.Context, app *App, projectID string, opts schedule.ViewOptions) *chartModel {
	if opts.Collapsed == nil {
		opts.Collapsed = make(map[string]bool)
	}
	return &chartModel{
		ctx:       ctx,
		app:       app,
		projectID: projectID,
		opts:      opts,
		machine:   interaction.NewMachine(geometry.Mapper{}, app.Tasks),
		keys:      defaultChartKeys(),
		help:      help.New(),
	}
}

func (m *chartModel) Init() tea.Cmd {
	return m.load()
}

func (m *chartModel) load() tea.Cmd {
	ctx, charts, projectID := m.ctx, m.app.Charts, m.projectID
	opts := m.opts
	opts.Collapsed = maps.Clone(m.opts.Collapsed)
	return func() tea.Msg {
		chart, err := charts.Layout(ctx, projectID, opts)
		return chartLoadedMsg{chart: chart, err: err}
	}
}

func (m *chartModel) labelWidth() int {
	return max(m.app.Settings.LabelWidth, formatter.MinLabelWidth)
}

// topLines is the number of screen lines above the first row.
func (m *chartModel) topLines() int {
	return 1 + formatter.GanttHeaderLines
}

func (m *chartModel) selected() (schedule.Row, bool) {
	if m.chart == nil || m.cursor < 0 || m.cursor >= len(m.chart.Rows) {
		return schedule.Row{}, false
	}
	return m.chart.Rows[m.cursor], true
}

func (m *chartModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case chartLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.chart = msg.chart
		m.mapper = textMapper(msg.chart, m.app.Settings)
		m.machine.SetMapper(m.mapper)
		m.cursor = min(max(m.cursor, 0), max(len(msg.chart.Rows)-1, 0))
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	}
	return m, nil
}

func (m *chartModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		if m.machine.State() == interaction.Dragging {
			m.machine.Cancel()
			m.status = "drag cancelled"
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Baseline):
		m.baseline = !m.baseline
	case m.machine.State() == interaction.Dragging:
		// Keys other than esc do not interrupt a mouse gesture.
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.chart != nil && m.cursor < len(m.chart.Rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		row, ok := m.selected()
		if !ok || !row.IsPhase {
			return m, nil
		}
		if m.opts.Collapsed[row.Task.ID] {
			delete(m.opts.Collapsed, row.Task.ID)
		} else {
			m.opts.Collapsed[row.Task.ID] = true
		}
		return m, m.load()
	case key.Matches(msg, m.keys.Earlier):
		return m, m.nudge(interaction.ModeMove, -1)
	case key.Matches(msg, m.keys.Later):
		return m, m.nudge(interaction.ModeMove, 1)
	case key.Matches(msg, m.keys.Shorter):
		return m, m.nudge(interaction.ModeResizeEnd, -1)
	case key.Matches(msg, m.keys.Longer):
		return m, m.nudge(interaction.ModeResizeEnd, 1)
	}
	return m, nil
}

// nudge replays a one-gesture drag of the selected bar by whole days.
func (m *chartModel) nudge(mode interaction.Mode, days int) tea.Cmd {
	row, ok := m.selected()
	if !ok {
		return nil
	}
	if err := m.machine.PointerDown(m.projectID, row.Task, mode); err != nil {
		m.status = err.Error()
		return nil
	}
	m.machine.PointerMove(days * m.mapper.ColumnWidth)
	return m.release()
}

func (m *chartModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || m.chart == nil {
			return nil
		}
		idx := msg.Y - m.topLines()
		if idx < 0 || idx >= len(m.chart.Rows) {
			return nil
		}
		m.cursor = idx
		task := m.chart.Rows[idx].Task
		var mode interaction.Mode
		switch formatter.HitTest(m.mapper, task, msg.X-m.labelWidth()) {
		case formatter.HitStartEdge:
			mode = interaction.ModeResizeStart
		case formatter.HitEndEdge:
			mode = interaction.ModeResizeEnd
		case formatter.HitBody:
			mode = interaction.ModeMove
		default:
			return nil
		}
		if err := m.machine.PointerDown(m.projectID, task, mode); err != nil {
			m.status = err.Error()
			return nil
		}
		m.pressX = msg.X
		m.status = ""
	case tea.MouseActionMotion:
		m.machine.PointerMove(msg.X - m.pressX)
	case tea.MouseActionRelease:
		if m.machine.State() != interaction.Dragging {
			return nil
		}
		m.machine.PointerMove(msg.X - m.pressX)
		return m.release()
	}
	return nil
}

// release commits the gesture and reloads the chart when dates changed.
func (m *chartModel) release() tea.Cmd {
	d, _ := m.machine.Dragging()
	outcome, err := m.machine.PointerUp(m.ctx)
	switch outcome {
	case interaction.OutcomeCommitted:
		m.status = "saved " + string(d.Mode)
		return m.load()
	case interaction.OutcomeRejected:
		m.status = "rejected: " + err.Error()
	default:
		m.status = ""
	}
	return nil
}

func (m *chartModel) View() string {
	if m.err != nil {
		return formatter.StyleRed.Render("error: "+m.err.Error()) + "\n"
	}
	if m.chart == nil {
		return formatter.Dim("loading…") + "\n"
	}

	var preview *formatter.Preview
	if d, ok := m.machine.Dragging(); ok {
		start, end, _ := m.machine.Preview()
		preview = &formatter.Preview{TaskID: d.TaskID, Start: start, End: end}
	}

	var b strings.Builder
	b.WriteString(chartTitle(m.chart) + "\n")
	b.WriteString(formatter.RenderGantt(m.chart.Rows, formatter.GanttOptions{
		Mapper:       m.mapper,
		LabelWidth:   m.labelWidth(),
		Selected:     m.cursor,
		Preview:      preview,
		Today:        calendar.Today(),
		ShowBaseline: m.baseline,
	}))
	if len(m.chart.Rows) == 0 {
		b.WriteString(formatter.Dim("No tasks found.") + "\n")
	}
	b.WriteString(m.statusLine() + "\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *chartModel) statusLine() string {
	if preview := m.previewStatus(); preview != "" {
		return preview
	}
	if row, ok := m.selected(); ok && m.status == "" {
		t := row.Task
		return formatter.Dim(t.Name + "  " + formatter.DateRange(t.StartDate, t.EndDate))
	}
	if strings.HasPrefix(m.status, "rejected") {
		return formatter.StyleRed.Render(m.status)
	}
	return formatter.StyleGreen.Render(m.status)
}

func (m *chartModel) previewStatus() string {
	d, ok := m.machine.Dragging()
	if !ok {
		return ""
	}
	start, end, _ := m.machine.Preview()
	return formatter.StyleYellowBold.Render(string(d.Mode)+" → "+formatter.DateRange(start, end)) +
		formatter.Dim("  (esc to cancel)")
}
