package repl

import (
	"fmt"
	"io"
	"strings"

	"backoffice/internal/app"
	"backoffice/internal/records"
)

func printWhoami(out io.Writer, m *app.MenuResult) {
	if m.User == nil {
		fmt.Fprintln(out, "Not signed in.")
		return
	}
	fmt.Fprintf(out, "%s (id: %s)\n", m.User.DisplayName(), m.User.Username)
}

func printMenu(out io.Writer, m *app.MenuResult) {
	fmt.Fprintln(out)
	for _, e := range m.Entries {
		marker := "  "
		if e.Highlighted {
			marker = "* "
		}
		indent := ""
		if e.Sub {
			indent = "    "
		}
		label := e.Label
		if e.Arrow != "" {
			label += " " + e.Arrow
		}
		fmt.Fprintf(out, "%s%s%-24s (%s)\n", marker, indent, label, e.Key)
	}
}

// printView draws a list the way the console does: stat cards, the table,
// then the pager line.
func printView(out io.Writer, v records.View) {
	width := 90
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", width))
	fmt.Fprintf(out, "  %s\n", v.Title)
	if f := describeFilter(v); f != "" {
		fmt.Fprintf(out, "  %s\n", f)
	}
	fmt.Fprintln(out, strings.Repeat("=", width))

	for _, s := range v.Stats {
		fmt.Fprintf(out, "  %-20s %s%s%s\n", s.Title, s.Prefix, s.Value, s.Suffix)
	}
	if len(v.Stats) > 0 {
		fmt.Fprintln(out, strings.Repeat("-", width))
	}

	if len(v.Rows) == 0 {
		fmt.Fprintln(out, "  No data.")
	} else {
		titles := make([]string, len(v.Headers))
		for i, h := range v.Headers {
			titles[i] = h.Title
		}
		fmt.Fprintf(out, "  %s\n", strings.Join(titles, " | "))
		fmt.Fprintln(out, strings.Repeat("-", width))
		for _, row := range v.Rows {
			fmt.Fprintf(out, "  %s\n", strings.Join(row.Cells, " | "))
		}
	}
	fmt.Fprintln(out, strings.Repeat("-", width))
	fmt.Fprintf(out, "  %s   page %d/%d   %d per page\n",
		v.RangeLabel, v.Window.Current, max(v.Window.Pages(), 1), v.Window.PageSize)
	fmt.Fprintln(out, strings.Repeat("=", width))
}

func describeFilter(v records.View) string {
	var parts []string
	if v.Filter.Search != "" {
		parts = append(parts, fmt.Sprintf("search: %q", v.Filter.Search))
	}
	if v.DateRange && v.Filter.StartDate != "" && v.Filter.EndDate != "" {
		parts = append(parts, fmt.Sprintf("range: %s ~ %s", v.Filter.StartDate, v.Filter.EndDate))
	}
	return strings.Join(parts, "   ")
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "BACK OFFICE COMMANDS")
	fmt.Fprintln(out, strings.Repeat("=", 62))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  SESSION")
	fmt.Fprintln(out, "  /login [user]                  Sign in (prompts for the password)")
	fmt.Fprintln(out, "  /logout                        Sign out, keeps the remembered username")
	fmt.Fprintln(out, "  /whoami                        Show the signed-in user")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  NAVIGATION")
	fmt.Fprintln(out, "  /menu [key]                    Show the menu or click an entry")
	fmt.Fprintln(out, "                                 keys: dashboard, settlements, dispatch,")
	fmt.Fprintln(out, "                                       recruitment, taxinvoice")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  LISTS (act on the open list)")
	fmt.Fprintln(out, "  /show                          Redraw without reloading")
	fmt.Fprintln(out, "  /search [text]                 Search from page 1 (empty clears)")
	fmt.Fprintln(out, "  /range [start end]             Date range, settlements only")
	fmt.Fprintln(out, "  /page <n> [size]               Go to page n, size 10/20/50/100")
	fmt.Fprintln(out, "  /refresh                       Reload the current page")
	fmt.Fprintln(out, "  /upload <file.csv>             Replace data from a CSV file")
	fmt.Fprintln(out, "  /export <file.csv>             Save the current page as CSV")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  /help                          Show this help")
	fmt.Fprintln(out, "  /exit                          Exit")
	fmt.Fprintln(out, strings.Repeat("=", 62))
}
