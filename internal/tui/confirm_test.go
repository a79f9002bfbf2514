package tui_test

import (
	"io"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerdiproject/harvester-specs/internal/tui"
)

func summary() tui.Summary {
	return tui.Summary{
		Server:       "https://ci.gerdi-project.de",
		PlanKey:      "CA-FSHAR",
		PlanName:     "FaoStat-Harvester Static Analysis",
		Deployment:   "FaoStat-Harvester",
		Environments: []string{"Test", "Stage", "Production"},
		Developers:   []string{"a@gerdi.org", "b@gerdi.org"},
	}
}

func press(m tea.Model, key tea.KeyMsg) (tui.ConfirmModel, tea.Cmd) {
	updated, cmd := m.Update(key)
	return updated.(tui.ConfirmModel), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestConfirm_ViewShowsSummary(t *testing.T) {
	view := tui.NewConfirmModel(summary()).View()

	for _, want := range []string{"CA-FSHAR", "FaoStat-Harvester Static Analysis", "Production", "b@gerdi.org", "ci.gerdi-project.de"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view, got:\n%s", want, view)
		}
	}
}

func TestConfirm_ViewWithoutDevelopers(t *testing.T) {
	s := summary()
	s.Developers = nil
	view := tui.NewConfirmModel(s).View()

	if !strings.Contains(view, "none") {
		t.Errorf("expected 'none' for missing developers, got:\n%s", view)
	}
}

func TestConfirm_AcceptKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{runes("y"), runes("Y"), {Type: tea.KeyEnter}} {
		m, cmd := press(tui.NewConfirmModel(summary()), key)
		if !m.Decided() || !m.Confirmed() {
			t.Errorf("%s: expected confirmation", key)
		}
		if cmd == nil {
			t.Errorf("%s: expected quit command", key)
		}
		if m.View() != "" {
			t.Errorf("%s: expected empty view after answer", key)
		}
	}
}

func TestConfirm_AbortKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{runes("n"), runes("q"), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		m, cmd := press(tui.NewConfirmModel(summary()), key)
		if !m.Decided() || m.Confirmed() {
			t.Errorf("%s: expected abort", key)
		}
		if cmd == nil {
			t.Errorf("%s: expected quit command", key)
		}
	}
}

func TestConfirm_IgnoresOtherKeys(t *testing.T) {
	m, cmd := press(tui.NewConfirmModel(summary()), runes("x"))
	if m.Decided() {
		t.Error("expected no decision on unrelated key")
	}
	if cmd != nil {
		t.Error("expected no command on unrelated key")
	}
}

func TestConfirm_FirstAnswerSticks(t *testing.T) {
	m, _ := press(tui.NewConfirmModel(summary()), runes("n"))
	m, _ = press(m, runes("y"))
	if m.Confirmed() {
		t.Error("expected the first answer to stick")
	}
}

func TestInteractive_RegularFileIsNotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if tui.Interactive(f) {
		t.Error("expected a regular file not to be interactive")
	}
}

func TestConfirm_ReadsAnswerFromGivenInput(t *testing.T) {
	ok, err := tui.Confirm(summary(), strings.NewReader("y"), io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("expected y on the given input to confirm")
	}
}

func TestConfirm_AbortFromGivenInput(t *testing.T) {
	ok, err := tui.Confirm(summary(), strings.NewReader("n"), io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected n on the given input to abort")
	}
}
