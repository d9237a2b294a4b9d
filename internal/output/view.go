package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dolabb/dolabbctl/internal/domain"
	"github.com/dolabb/dolabbctl/internal/view"
)

// RenderTable prints a projected list view: error banner, rows and pager
func (p *Printer) RenderTable(t view.Table) {
	if t.Error != "" {
		p.Error("%s", t.Error)
	}
	if p.quiet {
		return
	}
	p.Header(t.Title)

	if t.Empty() {
		p.Print("No %s found", t.Resource)
	} else {
		headers := make([]string, 0, len(t.Columns)+2)
		headers = append(headers, "ID")
		headers = append(headers, t.Columns...)
		headers = append(headers, "Actions")

		tbl := NewTableWithWriter(p.out, headers)
		for _, row := range t.Rows {
			cells := make([]string, 0, len(headers))
			cells = append(cells, row.ID)
			for i, cell := range row.Cells {
				if t.IsBadge(i) {
					cell = p.StatusBadge(cell)
				}
				cells = append(cells, cell)
			}
			cells = append(cells, actionList(row))
			tbl.AddRow(cells)
		}
		tbl.Render()
	}

	p.Print("")
	p.Print("%s", p.Dim(pager(t.Page)))
}

// RenderDetail prints one record's detail layout and its allowed actions
func (p *Printer) RenderDetail(title string, lines []view.DetailLine, actions []domain.ActionKind) {
	if p.quiet {
		return
	}
	p.Header(title)

	width := 0
	for _, l := range lines {
		width = max(width, len(l.Label))
	}
	for _, l := range lines {
		p.Print("%-*s  %s", width, l.Label, l.Value)
	}
	if len(actions) > 0 {
		p.Print("")
		p.Print("Actions: %s", joinActions(actions))
	}
}

// JSON writes v as indented JSON to stdout, even in quiet mode
func (p *Printer) JSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

func pager(pg view.PageInfo) string {
	s := fmt.Sprintf("Page %d of %d (%d total)", pg.Current, pg.Total, pg.Items)
	if pg.Local {
		s = fmt.Sprintf("Page %d of %d (%d matching on this page)", pg.Current, pg.Total, pg.Items)
	}
	var nav []string
	if pg.HasPrev {
		nav = append(nav, fmt.Sprintf("--page %d for previous", pg.Current-1))
	}
	if pg.HasNext {
		nav = append(nav, fmt.Sprintf("--page %d for next", pg.Current+1))
	}
	if len(nav) > 0 {
		s += " - " + strings.Join(nav, ", ")
	}
	return s
}

func actionList(row view.Row) string {
	if row.Busy {
		return "(busy)"
	}
	if len(row.Actions) == 0 {
		return "-"
	}
	return joinActions(row.Actions)
}

func joinActions(kinds []domain.ActionKind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
