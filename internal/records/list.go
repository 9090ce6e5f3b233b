package records

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"backoffice/internal/apiclient"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// PageSizes are the sizes offered by the page size changer.
var PageSizes = []int{10, 20, 50, 100}

// API is the part of the API client a list needs.
type API interface {
	Get(ctx context.Context, path string, params url.Values, out any) error
	Upload(ctx context.Context, path string, f apiclient.File) error
}

// Filter is the server-side filter of a list.
type Filter struct {
	Search    string
	StartDate string // YYYY-MM-DD, sent only together with EndDate
	EndDate   string
}

// PageWindow describes the displayed slice. The server is authoritative;
// Current is not clamped.
type PageWindow struct {
	Current  int
	PageSize int
	Total    int
}

// Range returns the 1-based positions of the first and last displayed item.
func (w PageWindow) Range() (from, to int) {
	if w.Total == 0 || w.PageSize <= 0 {
		return 0, 0
	}
	from = (w.Current-1)*w.PageSize + 1
	to = min(w.Current*w.PageSize, w.Total)
	return from, to
}

// Pages is ceil(Total / PageSize), at least 1.
func (w PageWindow) Pages() int {
	if w.PageSize <= 0 || w.Total == 0 {
		return 1
	}
	return (w.Total + w.PageSize - 1) / w.PageSize
}

// Outcome labels reported to the observer.
const (
	OutcomeApplied    = "applied"
	OutcomeFailed     = "failed"
	OutcomeSuperseded = "superseded"
	OutcomeRejected   = "rejected"
	OutcomeUploaded   = "uploaded"
)

// Options configures a list.
type Options struct {
	// Location is the display time zone for timestamps. Nil means UTC.
	Location *time.Location
	// Observe is called after each load or upload with the variant key,
	// the operation ("load" or "upload") and its outcome.
	Observe func(variant, op, outcome string)
}

// List is one paginated, searchable, CSV-replaceable record list.
// Safe for concurrent use.
type List[T any] struct {
	variant Variant[T]
	api     API
	opts    Options

	mu      sync.Mutex
	seq     uint64
	records []T
	window  PageWindow
	filter  Filter
	loaded  bool
}

// New builds an empty list at the initial window.
func New[T any](v Variant[T], api API, opts Options) *List[T] {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &List[T]{
		variant: v,
		api:     api,
		opts:    opts,
		window:  PageWindow{Current: DefaultPage, PageSize: DefaultPageSize},
	}
}

func (l *List[T]) Key() string             { return l.variant.Key }
func (l *List[T]) Title() string           { return l.variant.Title }
func (l *List[T]) SupportsDateRange() bool { return l.variant.DateRange }

// Records returns a copy of the rows currently held.
func (l *List[T]) Records() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]T(nil), l.records...)
}

func (l *List[T]) Window() PageWindow {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.window
}

func (l *List[T]) Filter() Filter {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filter
}

func (l *List[T]) params(page, size int, f Filter) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(size))
	if s := strings.TrimSpace(f.Search); s != "" {
		q.Set("search", s)
	}
	if l.variant.DateRange && f.StartDate != "" && f.EndDate != "" {
		q.Set("startDate", f.StartDate)
		q.Set("endDate", f.EndDate)
	}
	return q
}

// Load fetches one page. On success rows, window and filter are replaced;
// on failure nothing changes. A response overtaken by a newer Load is
// dropped with ErrSuperseded.
func (l *List[T]) Load(ctx context.Context, page, size int, f Filter) error {
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultPageSize
	}

	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.mu.Unlock()

	var env Envelope[T]
	err := l.api.Get(ctx, l.variant.Endpoint, l.params(page, size, f), &env)

	l.mu.Lock()
	defer l.mu.Unlock()
	if seq != l.seq {
		l.observe("load", OutcomeSuperseded)
		return fmt.Errorf("%s page %d: %w", l.variant.Key, page, ErrSuperseded)
	}
	if err != nil {
		l.observe("load", OutcomeFailed)
		return classify(ErrFetch, err)
	}

	w := PageWindow{Current: env.Page, PageSize: env.Limit, Total: max(env.Total, 0)}
	if w.Current < 1 {
		w.Current = page
	}
	if w.PageSize < 1 {
		w.PageSize = size
	}
	l.records = env.Data
	if l.records == nil {
		l.records = []T{}
	}
	l.window = w
	l.filter = f
	l.loaded = true
	l.observe("load", OutcomeApplied)
	return nil
}

// Reset drops the held rows and returns to the initial window with no
// filter. Loads still in flight are discarded as superseded.
func (l *List[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	l.records = nil
	l.window = PageWindow{Current: DefaultPage, PageSize: DefaultPageSize}
	l.filter = Filter{}
	l.loaded = false
}

// Mount resets to the initial window with no filter and loads it.
func (l *List[T]) Mount(ctx context.Context) error {
	return l.Load(ctx, DefaultPage, DefaultPageSize, Filter{})
}

// Search loads page 1 with the current page size and the given text,
// keeping any date range.
func (l *List[T]) Search(ctx context.Context, text string) error {
	w, f := l.Window(), l.Filter()
	f.Search = text
	return l.Load(ctx, DefaultPage, w.PageSize, f)
}

// SetDateRange loads page 1 restricted to [start, end]. Empty values clear the range.
func (l *List[T]) SetDateRange(ctx context.Context, start, end string) error {
	w, f := l.Window(), l.Filter()
	f.StartDate, f.EndDate = start, end
	return l.Load(ctx, DefaultPage, w.PageSize, f)
}

// ChangePage loads another page with the current filter.
func (l *List[T]) ChangePage(ctx context.Context, page, size int) error {
	return l.Load(ctx, page, size, l.Filter())
}

// Refresh re-issues the current window and filter.
func (l *List[T]) Refresh(ctx context.Context) error {
	w := l.Window()
	return l.Load(ctx, w.Current, w.PageSize, l.Filter())
}

// Upload sends a CSV file to the variant's upload endpoint and, when the
// server accepts it, refreshes once. Non-CSV files never reach the network.
// A refresh failure after a successful upload is returned as an ErrFetch error.
func (l *List[T]) Upload(ctx context.Context, f apiclient.File) error {
	if !CSVGuard.Allows(f.Name, f.ContentType) {
		l.observe("upload", OutcomeRejected)
		return fmt.Errorf("%s: %w", f.Name, ErrWrongFileType)
	}
	if err := l.api.Upload(ctx, l.variant.UploadEndpoint, f); err != nil {
		l.observe("upload", OutcomeFailed)
		return classify(ErrUpload, err)
	}
	l.observe("upload", OutcomeUploaded)
	return l.Refresh(ctx)
}

func (l *List[T]) observe(op, outcome string) {
	if l.opts.Observe != nil {
		l.opts.Observe(l.variant.Key, op, outcome)
	}
}
