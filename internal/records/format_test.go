package records

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"999", "999"},
		{"1000", "1,000"},
		{"-1234567", "-1,234,567"},
		{"1234.5", "1,234.5"},
		{"0.1239", "0.124"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestMoneyPolicies(t *testing.T) {
	null := decimal.NullDecimal{}
	zero := decimal.NewNullDecimal(decimal.Zero)
	big := decimal.NewNullDecimal(decimal.NewFromInt(1500000))

	assert.Equal(t, "-", wonMoney.Format(null))
	assert.Equal(t, "₩0", wonMoney.Format(zero))
	assert.Equal(t, "₩1,500,000", wonMoney.Format(big))

	assert.Equal(t, "", bareMoney.Format(null))
	assert.Equal(t, "", bareMoney.Format(zero))
	assert.Equal(t, "1,500,000", bareMoney.Format(big))
}

func TestDatePolicies(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-01-31T20:00:00Z"`), &d))
	// 20:00 UTC is already the next day in Seoul
	assert.Equal(t, "2024-02-01", isoDates.Format(d, seoul))
	assert.Equal(t, "2/1/24", shortDates.Format(d, seoul))

	dateOnly := NewDate(2024, time.March, 5)
	assert.Equal(t, "2024-03-05", isoDates.Format(dateOnly, seoul))
	assert.Equal(t, "3/5/24", shortDates.Format(dateOnly, seoul))

	assert.Equal(t, "-", isoDates.Format(Date{}, seoul))
	assert.Equal(t, "", shortDates.Format(Date{}, seoul))
}

func TestDateJSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.False(t, d.Valid)
	require.NoError(t, json.Unmarshal([]byte(`""`), &d))
	assert.False(t, d.Valid)
	require.NoError(t, json.Unmarshal([]byte(`"2024-07-01"`), &d))
	assert.True(t, d.Valid)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-07-01"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20240701`), &d))
}

func TestCSVGuard(t *testing.T) {
	tests := []struct {
		name, contentType string
		want              bool
	}{
		{"data.csv", "", true},
		{"data.csv", "application/octet-stream", true},
		{"export", "text/csv", true},
		{"export", "text/csv; charset=utf-8", true},
		{"data.txt", "text/plain", false},
		{"data.txt", "", false},
		{"data.csv.txt", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name+"|"+tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, CSVGuard.Allows(tt.name, tt.contentType))
		})
	}
}

func TestPageWindow(t *testing.T) {
	w := PageWindow{Current: 3, PageSize: 10, Total: 25}
	from, to := w.Range()
	assert.Equal(t, 21, from)
	assert.Equal(t, 25, to)
	assert.Equal(t, 3, w.Pages())

	assert.Equal(t, 1, PageWindow{Current: 1, PageSize: 10}.Pages())
}
