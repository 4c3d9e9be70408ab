package sim

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"membership-sim/internal/config"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// progressMsg reports completed iterations.
type progressMsg struct{ done, total int }

// rowsMsg carries curve rows for the results table.
type rowsMsg struct{ rows []CurveRow }

// finishedMsg marks the end of the run.
type finishedMsg struct{}

const (
	maxProgressWidth = 60
	tableHeight      = 16
)

// TUIWriter renders run progress and the resulting curves in a bubbletea TUI.
// It doubles as the driver Observer.
type TUIWriter struct {
	program teaProgram
	done    chan struct{}
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(cfg *config.Experiment) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	p := tea.NewProgram(newTUIModel(cfg))
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
	}()
	return w
}

// IterationDone implements Observer.
func (w *TUIWriter) IterationDone(done, total int) {
	w.program.Send(progressMsg{done: done, total: total})
}

// Write implements CurveWriter.
func (w *TUIWriter) Write(row CurveRow) error {
	w.program.Send(rowsMsg{rows: []CurveRow{row}})
	return nil
}

// WriteBatch sends all rows in one message.
func (w *TUIWriter) WriteBatch(rows []CurveRow) error {
	cp := make([]CurveRow, len(rows))
	copy(cp, rows)
	w.program.Send(rowsMsg{rows: cp})
	return nil
}

// Finish tells the UI the run is complete and blocks until the user quits.
func (w *TUIWriter) Finish() {
	w.program.Send(finishedMsg{})
	if w.done != nil {
		<-w.done
	}
}

// Close stops the program without waiting for the user.
func (w *TUIWriter) Close() {
	w.program.Send(tea.QuitMsg{})
	if w.done != nil {
		<-w.done
	}
}

type tuiModel struct {
	title    string
	overview string
	bar      progress.Model
	table    table.Model
	rows     []table.Row
	done     int
	total    int
	finished bool
	width    int
}

func newTUIModel(cfg *config.Experiment) tuiModel {
	cols := []table.Column{
		{Title: "scheme", Width: 8},
		{Title: "disruption", Width: 12},
		{Title: "k", Width: 5},
		{Title: "energy", Width: 12},
		{Title: "communication", Width: 14},
		{Title: "flagged", Width: 8},
	}
	t := table.New(table.WithColumns(cols), table.WithHeight(tableHeight), table.WithFocused(true))
	m := tuiModel{
		title: "membership-sim",
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxProgressWidth)),
		table: t,
		width: 80,
	}
	if cfg != nil {
		m.title = "membership-sim · " + cfg.Name
		m.overview = fmt.Sprintf("%d devices (%d gateways), degree %d..%d, group size %d, %d iterations, k %d..%d, schemes %s, counting %s",
			cfg.Network.TotalDevices, cfg.Network.GatewayCount,
			cfg.Network.MinNeighbors, cfg.Network.MaxNeighbors, cfg.Network.GatewayGroupSize,
			cfg.Simulation.Iterations, cfg.Simulation.MinAffected, cfg.Simulation.MaxAffected,
			strings.Join(cfg.Schemes, "/"), cfg.Simulation.Counting)
	}
	return m
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(maxProgressWidth, max(10, msg.Width-20))
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case progressMsg:
		m.done, m.total = msg.done, msg.total
		return m, nil
	case rowsMsg:
		for _, r := range msg.rows {
			m.rows = append(m.rows, table.Row{
				r.Scheme,
				r.Disruption,
				fmt.Sprintf("%d", r.Affected),
				fmt.Sprintf("%.6f", r.Energy),
				fmt.Sprintf("%.2f", r.Communication),
				fmt.Sprintf("%.1f", r.Flagged),
			})
		}
		m.table.SetRows(m.rows)
		return m, nil
	case finishedMsg:
		m.finished = true
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m tuiModel) percent() float64 {
	if m.total <= 0 {
		return 0
	}
	return float64(m.done) / float64(m.total)
}

func (m tuiModel) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.title))
	b.WriteString("\n")
	if m.overview != "" {
		b.WriteString(dimStyle.Render(wordwrap.String(m.overview, max(20, m.width-2))))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(m.percent()))
	fmt.Fprintf(&b, "  %d/%d iterations\n\n", m.done, m.total)
	if len(m.rows) > 0 {
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}
	if m.finished {
		b.WriteString(dimStyle.Render("run complete · ↑/↓ scroll · q quit"))
	} else {
		b.WriteString(dimStyle.Render("running · q quit"))
	}
	b.WriteString("\n")
	return b.String()
}
