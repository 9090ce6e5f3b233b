package records

import (
	"time"

	"github.com/shopspring/decimal"
)

// Column describes one table column and how a row renders into it.
type Column[T any] struct {
	Key      string
	Title    string
	Width    int
	Bold     bool
	Ellipsis bool
	Render   func(row T, loc *time.Location) string
}

// StatKind selects how a stat card is computed.
type StatKind int

const (
	// StatTotal shows the server-side total from the page window.
	StatTotal StatKind = iota
	// StatSum sums a money field over the rows currently held.
	StatSum
	// StatText shows a fixed value.
	StatText
)

// StatDef is one stat card of a variant.
type StatDef[T any] struct {
	Title string
	// AppendViewer adds the signed-in user's display name to the title.
	AppendViewer bool
	Kind         StatKind
	Field        func(T) decimal.NullDecimal
	Prefix       string
	Suffix       string
	Text         string
}

// Variant is everything that differs between list instantiations.
type Variant[T any] struct {
	Key               string
	Title             string
	Endpoint          string
	UploadEndpoint    string
	SearchPlaceholder string
	PrintTitle        string
	// DateRange enables the startDate/endDate filter.
	DateRange bool
	ID        func(T) int64
	Columns   []Column[T]
	Stats     []StatDef[T]
}

func textColumn[T any](key, title string, width int, get func(T) string) Column[T] {
	return Column[T]{Key: key, Title: title, Width: width, Render: func(r T, _ *time.Location) string {
		return get(r)
	}}
}

func noteColumn[T any](key, title, placeholder string, get func(T) *string) Column[T] {
	return Column[T]{Key: key, Title: title, Ellipsis: true, Render: func(r T, _ *time.Location) string {
		if v := get(r); v != nil && *v != "" {
			return *v
		}
		return placeholder
	}}
}

func countColumn[T any](key, title string, width int, group bool, get func(T) int64) Column[T] {
	return Column[T]{Key: key, Title: title, Width: width, Render: func(r T, _ *time.Location) string {
		return FormatCount(get(r), group)
	}}
}

func moneyColumn[T any](key, title string, width int, p MoneyPolicy, get func(T) decimal.NullDecimal) Column[T] {
	return Column[T]{Key: key, Title: title, Width: width, Render: func(r T, _ *time.Location) string {
		return p.Format(get(r))
	}}
}

func dateColumn[T any](key, title string, width int, p DatePolicy, get func(T) Date) Column[T] {
	return Column[T]{Key: key, Title: title, Width: width, Render: func(r T, loc *time.Location) string {
		return p.Format(get(r), loc)
	}}
}

// Sum adds field over rows; missing values count as zero.
func Sum[T any](rows []T, field func(T) decimal.NullDecimal) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		if v := field(r); v.Valid {
			total = total.Add(v.Decimal)
		}
	}
	return total
}
