package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPriceRecord(t *testing.T) {
	rec := NewPriceRecord(Day(2026, time.January, 14), 10, 12, 9, 11, 100)

	assert.Equal(t, 1100.0, rec.Amount)
	assert.Equal(t, 1.0, rec.Variation)
	assert.True(t, rec.VariationPct.Equal(10))

	zero := NewPriceRecord(Day(2026, time.January, 14), 0, 1, 0, 1, 5)
	assert.False(t, zero.VariationPct.Defined())
}

func TestTruncateDay(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	late := time.Date(2026, time.January, 16, 23, 30, 0, 0, paris)
	assert.Equal(t, Day(2026, time.January, 16), TruncateDay(late))
}

func TestPriceSeries_Accessors(t *testing.T) {
	var empty PriceSeries
	_, ok := empty.First()
	assert.False(t, ok)
	_, ok = empty.Last()
	assert.False(t, ok)
	_, ok = empty.Span()
	assert.False(t, ok)

	s := PriceSeries{
		NewPriceRecord(Day(2026, time.January, 14), 10, 12, 9, 11, 100),
		NewPriceRecord(Day(2026, time.January, 15), 11, 13, 8, 9, 200),
	}
	first, _ := s.First()
	last, _ := s.Last()
	span, ok := s.Span()
	require.True(t, ok)
	assert.Equal(t, 11.0, first.Close)
	assert.Equal(t, 9.0, last.Close)
	assert.Equal(t, "2026-01-14..2026-01-15", span.String())
}

func TestPriceSeries_Equal(t *testing.T) {
	a := PriceSeries{NewPriceRecord(Day(2026, time.January, 14), 0, 1, 0, 1, 5)}
	b := PriceSeries{NewPriceRecord(Day(2026, time.January, 14), 0, 1, 0, 1, 5)}
	assert.True(t, a.Equal(b), "NaN percentages compare equal")

	c := PriceSeries{NewPriceRecord(Day(2026, time.January, 14), 0, 1, 0, 1, 6)}
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestDateRange(t *testing.T) {
	r := DateRange{From: Day(2026, time.January, 1), To: Day(2026, time.January, 16)}

	assert.True(t, r.Contains(Day(2026, time.January, 1)))
	assert.True(t, r.Contains(Day(2026, time.January, 16)))
	assert.False(t, r.Contains(Day(2026, time.January, 17)))
	assert.NoError(t, r.Validate())

	inverted := DateRange{From: r.To, To: r.From}
	assert.ErrorIs(t, inverted.Validate(), ErrInvalidRange)

	single := SingleDay(Day(2026, time.January, 5))
	assert.NoError(t, single.Validate())
	assert.True(t, single.Contains(Day(2026, time.January, 5)))

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"from":"2026-01-01","to":"2026-01-16"}`, string(out))
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name     string
		from, to float64
		str      string
		signed   string
		json     string
	}{
		{"rise", 8, 10, "25.00%", "+25.00%", "25"},
		{"fall", 8, 6, "-25.00%", "-25.00%", "-25"},
		{"flat", 5, 5, "0.00%", "+0.00%", "0"},
		{"zero base", 0, 3, "n/a", "n/a", "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PercentChange(tt.from, tt.to)
			assert.Equal(t, tt.str, p.String())
			assert.Equal(t, tt.signed, p.SignedString())

			out, err := json.Marshal(p)
			require.NoError(t, err)
			assert.Equal(t, tt.json, string(out))

			var back Percent
			require.NoError(t, json.Unmarshal(out, &back))
			assert.True(t, p.Same(back))
		})
	}
}

func TestPercent_Equal(t *testing.T) {
	nan := Percent(math.NaN())
	assert.True(t, nan.Equal(nan))
	assert.False(t, nan.Equal(0))
	assert.True(t, Percent(1.00001).Equal(1))
	assert.False(t, Percent(1.01).Equal(1))
}

func TestPeriodSummary_JSON(t *testing.T) {
	s := PeriodSummary{
		Range:    SingleDay(Day(2026, time.January, 16)),
		Count:    1,
		DeltaPct: Percent(math.NaN()),
	}
	out, err := json.Marshal(s)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Nil(t, m["delta_pct"])
	assert.Equal(t, map[string]any{"from": "2026-01-16", "to": "2026-01-16"}, m["range"])
}
