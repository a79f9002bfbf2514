package tui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Summary is what the user is asked to confirm before anything is published.
type Summary struct {
	Server       string
	PlanKey      string
	PlanName     string
	Deployment   string
	Environments []string
	Developers   []string
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			Width(14)
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#777777"))
)

// ConfirmModel asks once whether to publish. y or enter confirms; n, q, esc and
// ctrl+c abort.
type ConfirmModel struct {
	summary   Summary
	decided   bool
	confirmed bool
}

// NewConfirmModel creates the confirmation screen.
func NewConfirmModel(s Summary) ConfirmModel {
	return ConfirmModel{summary: s}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.decided {
		return m, nil
	}
	switch key.String() {
	case "y", "Y", "enter":
		m.decided, m.confirmed = true, true
		return m, tea.Quit
	case "n", "N", "q", "esc", "ctrl+c":
		m.decided = true
		return m, tea.Quit
	}
	return m, nil
}

// Confirmed reports whether the user accepted.
func (m ConfirmModel) Confirmed() bool {
	return m.confirmed
}

// Decided reports whether the user answered at all.
func (m ConfirmModel) Decided() bool {
	return m.decided
}

func (m ConfirmModel) View() string {
	if m.decided {
		return ""
	}
	s := m.summary
	developers := "none"
	if len(s.Developers) > 0 {
		developers = strings.Join(s.Developers, "\n"+strings.Repeat(" ", 14))
	}
	rows := []string{
		titleStyle.Render("Publish harvester build configuration"),
		"",
		row("server", s.Server),
		row("plan", fmt.Sprintf("%s (%s)", s.PlanKey, s.PlanName)),
		row("deployment", s.Deployment),
		row("environments", strings.Join(s.Environments, " → ")),
		row("developers", developers),
	}
	return boxStyle.Render(strings.Join(rows, "\n")) + "\n" +
		hintStyle.Render("y/enter: publish • n/q/esc: abort") + "\n"
}

func row(label, value string) string {
	return labelStyle.Render(label) + value
}

// Confirm shows the confirmation screen and blocks until the user answers on in.
func Confirm(s Summary, in io.Reader, out io.Writer) (bool, error) {
	final, err := tea.NewProgram(NewConfirmModel(s), tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return false, fmt.Errorf("running confirmation: %w", err)
	}
	return final.(ConfirmModel).Confirmed(), nil
}
