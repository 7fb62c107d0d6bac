package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// tickMsg is sent by Bubble Tea on every tick interval, triggering a
// periodic data refresh.
type tickMsg time.Time

// snapshotMsg carries a fetched station snapshot. nil means the fetch
// failed; the previous snapshot stays on screen.
type snapshotMsg *Snapshot

// tickCmd returns a command that sends a tickMsg after 2 seconds.
func tickCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchCmd returns a tea.Cmd that reads a fresh snapshot from the stores.
func fetchCmd(src *dataSource) tea.Cmd {
	return func() tea.Msg {
		snap, _ := src.Fetch()
		return snapshotMsg(snap)
	}
}

// Model is the Bubble Tea model for the station dashboard.
type Model struct {
	src   *dataSource
	snap  *Snapshot
	table table.Model
	theme Theme

	width  int
	height int
	status string // transient line after an accept/dismiss
}

// newModel creates a Model with an empty suggestion table.
func newModel(src *dataSource) Model {
	columns := []table.Column{
		{Title: "Pri", Width: 4},
		{Title: "Type", Width: 14},
		{Title: "Status", Width: 9},
		{Title: "Title", Width: 48},
	}
	tbl := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	return Model{src: src, table: tbl, theme: DefaultTheme()}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(fetchCmd(m.src), tickCmd(), watchStationDir(m.src.dbDir))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tickMsg:
		return m, tea.Batch(fetchCmd(m.src), tickCmd())

	case fsChangeMsg:
		// Database changed under us; refetch and keep watching.
		return m, tea.Batch(fetchCmd(m.src), watchStationDir(m.src.dbDir))

	case snapshotMsg:
		if msg != nil {
			m.snap = msg
			m.table.SetRows(suggestionRows(msg))
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "a":
			return m.resolveSelected(true)
		case "d":
			return m.resolveSelected(false)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// resolveSelected accepts or dismisses the highlighted suggestion.
func (m Model) resolveSelected(accept bool) (tea.Model, tea.Cmd) {
	id := m.selectedID()
	if id == "" {
		return m, nil
	}
	var err error
	if accept {
		err = m.src.Accept(id)
		m.status = "accepted " + id
	} else {
		err = m.src.Dismiss(id)
		m.status = "dismissed " + id
	}
	if err != nil {
		m.status = err.Error()
	}
	return m, fetchCmd(m.src)
}

// selectedID maps the highlighted table row back to a suggestion id.
func (m Model) selectedID() string {
	if m.snap == nil {
		return ""
	}
	i := m.table.Cursor()
	if i < 0 || i >= len(m.snap.Suggestions) {
		return ""
	}
	return m.snap.Suggestions[i].ID
}

// suggestionRows converts the snapshot's suggestions into table rows.
func suggestionRows(snap *Snapshot) []table.Row {
	rows := make([]table.Row, 0, len(snap.Suggestions))
	for _, s := range snap.Suggestions {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", s.Priority),
			string(s.Type),
			string(s.Status),
			s.Title,
		})
	}
	return rows
}

// View implements tea.Model.
func (m Model) View() string {
	if m.snap == nil {
		return "loading station state..."
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Primary).
		Render(fmt.Sprintf("%s — %s", m.snap.Module, m.snap.MachineID))
	weight := lipgloss.NewStyle().Foreground(weightColor(m.theme, m.snap.WeightSum)).
		Render(fmt.Sprintf("weight %+.1f", m.snap.WeightSum))

	out := header + "  " + weight + "\n\n"
	out += lipgloss.NewStyle().Foreground(m.theme.Secondary).Render("Suggestions") + "\n"
	out += m.table.View() + "\n\n"
	out += lipgloss.NewStyle().Foreground(m.theme.Secondary).Render("Recent learnings") + "\n"
	out += m.learningLines()

	if m.status != "" {
		out += "\n" + lipgloss.NewStyle().Foreground(m.theme.Muted).Render(m.status)
	}
	out += "\n" + lipgloss.NewStyle().Foreground(m.theme.Muted).
		Render("a accept · d dismiss · q quit")
	return out
}

// learningLines renders the recent learning entries, color-coded by type.
func (m Model) learningLines() string {
	if len(m.snap.Learnings) == 0 {
		return lipgloss.NewStyle().Foreground(m.theme.Muted).Render("  none yet")
	}
	out := ""
	for _, r := range m.snap.Learnings {
		color := m.theme.Success
		if r.Entry.WeightAdjustment < 0 {
			color = m.theme.Warning
		}
		line := fmt.Sprintf("  %s  %s", r.CreatedAt.Format("15:04:05"), r.Entry.Describe())
		out += lipgloss.NewStyle().Foreground(color).Render(line) + "\n"
	}
	return out
}

// weightColor picks the theme color for the accumulated weight signal.
func weightColor(t Theme, w float64) lipgloss.Color {
	if w < 0 {
		return t.Warning
	}
	return t.Success
}
