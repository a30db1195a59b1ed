package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/waterfall/pkg/waterfall"
)

func testSteps() []waterfall.Step {
	return []waterfall.Step{
		{Category: "Jan", Value: 23, Start: 0, End: 23, Kind: waterfall.Positive},
		{Category: "Feb", Value: -14, Start: 23, End: 9, Kind: waterfall.Negative},
		{Category: "Mar", Value: 8, Start: 9, End: 17, Kind: waterfall.Positive},
		{Category: waterfall.TotalCategory, Value: 17, Start: 0, End: 17, Kind: waterfall.Total},
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m StepListModel, keys ...string) StepListModel {
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(StepListModel)
	}
	return m
}

func TestStepListModelNavigation(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want int
	}{
		{"starts at top", nil, 0},
		{"down", []string{"down"}, 1},
		{"j", []string{"j", "j"}, 2},
		{"clamped at end", []string{"j", "j", "j", "j", "j"}, 3},
		{"up clamped at top", []string{"up", "k"}, 0},
		{"last", []string{"G"}, 3},
		{"first", []string{"G", "g"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(NewStepListModel("Earnings", testSteps()), tt.keys...)
			if m.Cursor != tt.want {
				t.Errorf("Cursor = %d, want %d", m.Cursor, tt.want)
			}
		})
	}
}

func TestStepListModelScrolls(t *testing.T) {
	m := NewStepListModel("Earnings", testSteps())
	m.Height = 2

	m = press(m, "j", "j", "j")
	if m.Offset != 2 {
		t.Errorf("Offset = %d, want 2", m.Offset)
	}
	m = press(m, "g")
	if m.Offset != 0 {
		t.Errorf("Offset after g = %d, want 0", m.Offset)
	}
}

func TestStepListModelWindowSize(t *testing.T) {
	m := NewStepListModel("Earnings", testSteps())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	if got := next.(StepListModel).Height; got != minListHeight {
		t.Errorf("Height = %d, want %d", got, minListHeight)
	}
	next, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	if got := next.(StepListModel).Height; got != 40-listChrome {
		t.Errorf("Height = %d, want %d", got, 40-listChrome)
	}
}

func TestStepListModelQuit(t *testing.T) {
	_, cmd := NewStepListModel("", testSteps()).Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestStepListModelEmpty(t *testing.T) {
	m := press(NewStepListModel("", nil), "j", "G")
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0", m.Cursor)
	}
	if !strings.Contains(m.View(), "Steps") {
		t.Error("empty model should fall back to the default title")
	}
}

func TestStepListModelView(t *testing.T) {
	m := press(NewStepListModel("Earnings", testSteps()), "j")
	view := m.View()
	for _, want := range []string{"Earnings", "Jan", "Feb", "Total", "[2/4]", "-14"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestStepsTable(t *testing.T) {
	out := stepsTable(testSteps(), 1, 2, -1)
	if strings.Contains(out, "Jan") || strings.Contains(out, "Total") {
		t.Error("rows outside the window should not render")
	}
	for _, want := range []string{"Feb", "Mar", "+8", "negative"} {
		if !strings.Contains(out, want) {
			t.Errorf("stepsTable missing %q", want)
		}
	}
}

func TestSigned(t *testing.T) {
	if got := signed(5); !strings.HasPrefix(got, "+") {
		t.Errorf("signed(5) = %q, want leading +", got)
	}
	if got := signed(-5); !strings.HasPrefix(got, "-") {
		t.Errorf("signed(-5) = %q, want leading -", got)
	}
	if got := signed(0); strings.HasPrefix(got, "+") {
		t.Errorf("signed(0) = %q, want no sign", got)
	}
}
