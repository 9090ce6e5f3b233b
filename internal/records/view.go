package records

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"backoffice/internal/apiclient"
)

// Header is a rendered column header.
type Header struct {
	Key      string
	Title    string
	Width    int
	Bold     bool
	Ellipsis bool
}

// Row is one rendered record.
type Row struct {
	ID    string
	Cells []string
}

// Stat is one rendered stat card.
type Stat struct {
	Title  string
	Value  string
	Prefix string
	Suffix string
}

// View is a rendered snapshot of a list, ready for any surface.
type View struct {
	Key               string
	Title             string
	PrintTitle        string
	SearchPlaceholder string
	DateRange         bool
	Loaded            bool
	Headers           []Header
	Rows              []Row
	Stats             []Stat
	Window            PageWindow
	Filter            Filter
	TotalLabel        string // "N건"
	RangeLabel        string // "from-to of total items"
}

// Lister is the variant-independent surface of a List.
type Lister interface {
	Key() string
	Title() string
	SupportsDateRange() bool
	Window() PageWindow
	Filter() Filter
	Load(ctx context.Context, page, size int, f Filter) error
	Mount(ctx context.Context) error
	Search(ctx context.Context, text string) error
	SetDateRange(ctx context.Context, start, end string) error
	ChangePage(ctx context.Context, page, size int) error
	Refresh(ctx context.Context) error
	Reset()
	Upload(ctx context.Context, f apiclient.File) error
	View(viewer string) View
	WriteCSV(w io.Writer, viewer string) error
}

var (
	_ Lister = (*List[Settlement])(nil)
	_ Lister = (*List[Recruitment])(nil)
	_ Lister = (*List[TaxInvoice])(nil)
)

// View renders the rows currently held. viewer is the signed-in user's
// display name, used by stat titles that mention it.
func (l *List[T]) View(viewer string) View {
	l.mu.Lock()
	rows := l.records
	w := l.window
	f := l.filter
	loaded := l.loaded
	l.mu.Unlock()

	v := View{
		Key:               l.variant.Key,
		Title:             l.variant.Title,
		PrintTitle:        l.variant.PrintTitle,
		SearchPlaceholder: l.variant.SearchPlaceholder,
		DateRange:         l.variant.DateRange,
		Loaded:            loaded,
		Window:            w,
		Filter:            f,
		TotalLabel:        FormatCount(int64(w.Total), true) + "건",
	}
	from, to := w.Range()
	v.RangeLabel = fmt.Sprintf("%d-%d of %d items", from, to, w.Total)

	for _, c := range l.variant.Columns {
		v.Headers = append(v.Headers, Header{Key: c.Key, Title: c.Title, Width: c.Width, Bold: c.Bold, Ellipsis: c.Ellipsis})
	}
	v.Rows = make([]Row, 0, len(rows))
	for _, r := range rows {
		cells := make([]string, len(l.variant.Columns))
		for i, c := range l.variant.Columns {
			cells[i] = c.Render(r, l.opts.Location)
		}
		v.Rows = append(v.Rows, Row{ID: strconv.FormatInt(l.variant.ID(r), 10), Cells: cells})
	}
	for _, s := range l.variant.Stats {
		v.Stats = append(v.Stats, renderStat(s, rows, w, viewer))
	}
	return v
}

func renderStat[T any](s StatDef[T], rows []T, w PageWindow, viewer string) Stat {
	out := Stat{Title: s.Title, Prefix: s.Prefix, Suffix: s.Suffix}
	if s.AppendViewer {
		out.Title += viewer
	}
	switch s.Kind {
	case StatTotal:
		out.Value = FormatCount(int64(w.Total), true)
	case StatSum:
		out.Value = FormatNumber(Sum(rows, s.Field))
	case StatText:
		out.Value = s.Text
	}
	return out
}

// WriteCSV exports the current page as rendered, with a header row of column titles.
func (l *List[T]) WriteCSV(w io.Writer, viewer string) error {
	v := l.View(viewer)
	cw := csv.NewWriter(w)
	header := make([]string, len(v.Headers))
	for i, h := range v.Headers {
		header[i] = h.Title
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export %s: %w", v.Key, err)
	}
	for _, r := range v.Rows {
		if err := cw.Write(r.Cells); err != nil {
			return fmt.Errorf("export %s: %w", v.Key, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export %s: %w", v.Key, err)
	}
	return nil
}
