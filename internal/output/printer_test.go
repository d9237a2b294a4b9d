package output

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/dolabb/dolabbctl/internal/domain"
	"github.com/dolabb/dolabbctl/internal/view"
)

// forceColor enables ANSI output for the duration of the test; fatih/color
// turns it off when stdout is not a terminal.
func forceColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = prev })
}

func colorPrinter(t *testing.T) (*Printer, *bytes.Buffer) {
	t.Helper()
	forceColor(t)
	var out, errOut bytes.Buffer
	return NewPrinterTo(&out, &errOut, PrinterOptions{ColorMode: ColorAlways}), &out
}

func TestParseColorMode(t *testing.T) {
	for in, want := range map[string]ColorMode{"auto": ColorAuto, "always": ColorAlways, "never": ColorNever} {
		got, err := ParseColorMode(in)
		if err != nil {
			t.Fatalf("ParseColorMode(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseColorMode(%q) = %d, want %d", in, got, want)
		}
	}
	if _, err := ParseColorMode("sometimes"); err == nil {
		t.Error("expected an error for an unknown mode")
	}
}

func TestResolveColors(t *testing.T) {
	t.Run("always wins over NO_COLOR", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		if !ResolveColors(ColorAlways, false) {
			t.Error("want colors")
		}
	})
	t.Run("never wins over config", func(t *testing.T) {
		if ResolveColors(ColorNever, true) {
			t.Error("want no colors")
		}
	})
	t.Run("auto honours NO_COLOR", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		if ResolveColors(ColorAuto, true) {
			t.Error("want no colors")
		}
	})
	t.Run("auto follows config", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		os.Unsetenv("NO_COLOR")
		t.Setenv("TERM", "xterm-256color")
		if !ResolveColors(ColorAuto, true) || ResolveColors(ColorAuto, false) {
			t.Error("auto should follow output.colors")
		}
		t.Setenv("TERM", "dumb")
		if ResolveColors(ColorAuto, true) {
			t.Error("TERM=dumb should disable colors")
		}
	})
}

func TestQuietPrinter(t *testing.T) {
	p, out, errOut := newTestPrinter(true)

	p.Info("loading users")
	p.Success("User suspended successfully")
	p.Warning("Some statistics are unavailable")
	p.Header("Users")
	p.Print("Page 1 of 1")
	p.Notice(view.Notice{Level: view.LevelSuccess, Message: "Listing approved successfully"})

	if out.Len() != 0 || errOut.Len() != 0 {
		t.Errorf("quiet printer wrote stdout=%q stderr=%q", out.String(), errOut.String())
	}

	p.Notice(view.Notice{Level: view.LevelError, Message: "Failed to approve listing"})
	if !strings.Contains(errOut.String(), "[ERROR] Failed to approve listing") {
		t.Errorf("errors must survive quiet mode, got %q", errOut.String())
	}
}

func TestStatusBadge_Colors(t *testing.T) {
	p, _ := colorPrinter(t)

	tests := []struct {
		status string
		code   string
	}{
		{"active", "\x1b[32m"},
		{"Approved", "\x1b[32m"},
		{"suspended", "\x1b[31m"},
		{"Rejected", "\x1b[31m"},
		{"pending_review", "\x1b[33m"},
		{"Pending Review", "\x1b[33m"},
	}
	for _, tt := range tests {
		got := p.StatusBadge(tt.status)
		if !strings.HasPrefix(got, tt.code) {
			t.Errorf("StatusBadge(%q) = %q, want color %q", tt.status, got, tt.code)
		}
		if !strings.Contains(got, view.Badge(tt.status)) {
			t.Errorf("StatusBadge(%q) = %q, want label %q", tt.status, got, view.Badge(tt.status))
		}
	}

	if got := p.StatusBadge("buyer"); got != "Buyer" {
		t.Errorf("unknown statuses stay plain, got %q", got)
	}
}

func TestRenderTable_ColorsStatusColumns(t *testing.T) {
	p, out := colorPrinter(t)
	p.RenderTable(view.Table{
		Resource: "users",
		Title:    "Users",
		Columns:  []string{"Name", "Status"},
		Badges:   []int{1},
		Rows: []view.Row{
			{ID: "u1", Cells: []string{"Active Amal", "Active"}, Actions: []domain.ActionKind{domain.ActionSuspend}},
			{ID: "u2", Cells: []string{"Badr", "Suspended"}},
		},
		Page: view.PageInfo{Current: 1, Total: 1, Items: 2},
	})

	got := out.String()
	if !strings.Contains(got, color.GreenString("Active")) {
		t.Errorf("active status should be green:\n%q", got)
	}
	if !strings.Contains(got, color.RedString("Suspended")) {
		t.Errorf("suspended status should be red:\n%q", got)
	}
	if strings.Contains(got, color.GreenString("Active Amal")) {
		t.Errorf("non-status columns must not be colored:\n%q", got)
	}
}
