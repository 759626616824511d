package tui

import (
	"strings"
	"testing"

	"valentine/internal/dropdown"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/google/go-cmp/cmp"
	"github.com/muesli/termenv"
)

func testPick(t *testing.T, value string) pickModel {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
	m := newPickModel(PickOptions{
		Label:  "Country",
		Config: dropdown.Config{ID: "country", MinChars: 1, ListRows: 5},
		Options: []dropdown.Option{
			{Value: "de", Label: "Germany"},
			{Value: "nl", Label: "Netherlands"},
			{Value: "uk", Label: "United Kingdom"},
			{Value: "us", Label: "United States"},
		},
		Value: value,
	})
	mm, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 12})
	return mm.(pickModel)
}

func pickUpdate(t *testing.T, m pickModel, msg tea.Msg) (pickModel, tea.Cmd) {
	t.Helper()
	mm, cmd := m.Update(msg)
	return mm.(pickModel), cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestPick_OpensFocusedAndRendersList(t *testing.T) {
	m := testPick(t, "")
	if !m.dd.Focused() || !m.dd.Dropdown().IsOpen() {
		t.Fatalf("expected focused input with open list")
	}
	out := xansi.Strip(m.View())
	for _, want := range []string{"Country", "Germany", "United States"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view, got=\n%s", want, out)
		}
	}
}

func TestPick_TypingSingleMatchCommits(t *testing.T) {
	m := testPick(t, "")
	m, _ = pickUpdate(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Neth")})
	if v, ok := m.dd.Dropdown().Value(); !ok || v != "nl" {
		t.Fatalf("value=%q ok=%v want nl", v, ok)
	}

	m, cmd := pickUpdate(t, m, dropdown.ChangedMsg{ID: "country", Value: "nl"})
	if !isQuit(cmd) {
		t.Fatalf("a commit should end the pick")
	}
	want := PickResult{
		Value:   "nl",
		Label:   "Netherlands",
		Changes: []dropdown.Change{{ContainerID: "country", Value: "nl"}},
	}
	if diff := cmp.Diff(want, m.result()); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	if !m.dd.Dropdown().TornDown() {
		t.Fatalf("dropdown should be torn down")
	}
}

func TestPick_EscClosesThenCancels(t *testing.T) {
	m := testPick(t, "uk")
	m, cmd := pickUpdate(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if isQuit(cmd) || m.dd.Dropdown().IsOpen() {
		t.Fatalf("first esc should only close the list")
	}
	m, cmd = pickUpdate(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !isQuit(cmd) {
		t.Fatalf("second esc should quit")
	}
	res := m.result()
	if !res.Canceled || res.Value != "uk" || len(res.Changes) != 0 {
		t.Fatalf("result=%#v", res)
	}
}

func TestPick_EnterOnClosedListAccepts(t *testing.T) {
	m := testPick(t, "de")
	m, _ = pickUpdate(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, cmd := pickUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !isQuit(cmd) {
		t.Fatalf("enter on a closed list should quit")
	}
	if res := m.result(); res.Canceled || res.Value != "de" || res.Label != "Germany" {
		t.Fatalf("result=%#v", res)
	}
}
