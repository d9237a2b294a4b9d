package output

import (
	"fmt"
	"strings"
)

// CommandHints maps command names to related commands users might want to run next
var CommandHints = map[string][]string{
	"login":                   {"whoami", "dashboard"},
	"logout":                  {"login"},
	"dashboard":               {"users list", "disputes list --status open", "cashouts list --status pending"},
	"users list":              {"users show <id>", "users suspend <id>"},
	"listings list":           {"listings show <id>", "listings approve <id>"},
	"transactions list":       {"transactions show <id>", "transactions refund <id>"},
	"cashouts list":           {"cashouts approve <id>", "cashouts reject <id>"},
	"disputes list":           {"disputes show <id>", "disputes comment <id>"},
	"affiliates list":         {"affiliates show <id>", "payouts list"},
	"payouts list":            {"payouts approve <id>", "payouts reject <id>"},
	"notifications list":      {"notifications templates", "notifications create"},
	"notifications templates": {"notifications create --template <key>"},
	"hero show":               {"hero update"},
	"fees show":               {"fees update", "fees calculate <amount>"},
	"config":                  {"login", "serve"},
}

// PrintHints prints "See also" hints for a command. No-op in quiet mode or if command has no hints.
func (p *Printer) PrintHints(command string) {
	if p.quiet {
		return
	}
	hints, ok := CommandHints[command]
	if !ok || len(hints) == 0 {
		return
	}

	cmds := make([]string, len(hints))
	for i, h := range hints {
		cmds[i] = "dolabbctl " + h
	}
	fmt.Fprintf(p.out, "\nSee also: %s\n", strings.Join(cmds, ", "))
}
