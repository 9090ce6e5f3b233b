package records

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// DatePolicy renders nullable dates.
type DatePolicy struct {
	Layout      string // Go layout, e.g. time.DateOnly or "1/2/06"
	Placeholder string
}

func (p DatePolicy) Format(d Date, loc *time.Location) string {
	if !d.Valid {
		return p.Placeholder
	}
	return d.In(loc).Format(p.Layout)
}

// MoneyPolicy renders nullable amounts with thousands separators.
type MoneyPolicy struct {
	Prefix      string
	Placeholder string
	// BlankZero renders zero like a missing value.
	BlankZero bool
}

func (p MoneyPolicy) Format(v decimal.NullDecimal) string {
	if !v.Valid || (p.BlankZero && v.Decimal.IsZero()) {
		return p.Placeholder
	}
	return p.Prefix + FormatNumber(v.Decimal)
}

// FormatNumber groups thousands and keeps at most three fraction digits.
func FormatNumber(d decimal.Decimal) string {
	if d.IsInteger() && d.Abs().LessThan(decimal.New(1, 18)) {
		return humanize.Comma(d.IntPart())
	}
	f, _ := d.Round(3).Float64()
	return humanize.CommafWithDigits(f, 3)
}

// FormatCount renders an integer count, grouped when group is set.
func FormatCount(n int64, group bool) string {
	if group {
		return humanize.Comma(n)
	}
	return strconv.FormatInt(n, 10)
}

var (
	isoDates   = DatePolicy{Layout: time.DateOnly, Placeholder: "-"}
	shortDates = DatePolicy{Layout: "1/2/06", Placeholder: ""}
	wonMoney   = MoneyPolicy{Prefix: "₩", Placeholder: "-"}
	bareMoney  = MoneyPolicy{Placeholder: "", BlankZero: true}
)
