package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/waterfall/pkg/render/styles"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

func TestStatusLines(t *testing.T) {
	tests := []struct {
		name  string
		print func(s status)
		want  []string
	}{
		{"success", func(s status) { s.success("Cleared %d entries", 3) }, []string{iconSuccess, "Cleared 3 entries"}},
		{"warning", func(s status) { s.warning("empty") }, []string{iconWarning, "empty"}},
		{"info", func(s status) { s.info("Serving on %s", ":8080") }, []string{iconInfo, "Serving on :8080"}},
		{"detail", func(s status) { s.detail("Location: %s", "/tmp") }, []string{"Location: /tmp"}},
		{"file", func(s status) { s.file("out.svg") }, []string{iconArrow, "out.svg"}},
		{"key value", func(s status) { s.keyValue("Total", "17") }, []string{"Total", "17"}},
		{"next step", func(s status) { s.nextStep("Try", "curl") }, []string{"Try:", "curl"}},
		{"fresh stats", func(s status) { s.stats(3, 4, false) }, []string{"3 points", "4 steps", "fresh"}},
		{"cached stats", func(s status) { s.stats(3, 4, true) }, []string{"cached"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(status{w: &buf})
			got := buf.String()
			if strings.Count(got, "\n") != 1 {
				t.Errorf("want exactly one line, got %q", got)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output %q missing %q", got, w)
				}
			}
		})
	}
}

func TestCLIStatusWriter(t *testing.T) {
	var buf bytes.Buffer
	c := newTestCLI(t)
	c.Status = &buf
	c.status().success("done")
	if !strings.Contains(buf.String(), "done") {
		t.Errorf("status line not written to CLI.Status: %q", buf.String())
	}
}

func TestKindStyleFollowsTheme(t *testing.T) {
	theme := styles.DefaultTheme()
	tests := []struct {
		kind waterfall.Kind
		want string
	}{
		{waterfall.Positive, theme.Positive},
		{waterfall.Negative, theme.Negative},
		{waterfall.Total, theme.Total},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			got := kindStyle(tt.kind).GetForeground()
			if got != lipgloss.Color(tt.want) {
				t.Errorf("foreground = %v, want %s", got, tt.want)
			}
		})
	}
	if !kindStyle(waterfall.Total).GetBold() {
		t.Error("total steps should be bold")
	}
}
