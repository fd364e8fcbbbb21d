package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// DateFormat is the ISO 8601 calendar date layout used on every output surface
// (JSON, CSV export, query parameters).
const DateFormat = "2006-01-02"

// PriceRecord is one trading day of a price history file.
//
// The base fields come straight from the source file. Amount, Variation and
// VariationPct are derived once, when the record is built by NewPriceRecord,
// and are never re-derived per view.
//
// Usage:
//
//	rec := domain.NewPriceRecord(domain.Day(2026, time.January, 14), 10, 12, 9, 11, 100)
//	rec.Amount    // 1100
//	rec.Variation // 1
type PriceRecord struct {
	// Date is the trading day at midnight UTC. Unique within a series.
	Date time.Time `json:"date" csv:"date"`

	// Open, High, Low and Close are the session prices. Non-negative.
	// Low <= Open, Close <= High is expected but not enforced.
	Open  float64 `json:"open" csv:"Open"`
	High  float64 `json:"high" csv:"High"`
	Low   float64 `json:"low" csv:"Low"`
	Close float64 `json:"close" csv:"Close"`

	// Volume is the number of shares traded.
	Volume int64 `json:"volume" csv:"Volume"`

	// Amount approximates the monetary turnover: Volume x Close.
	Amount float64 `json:"amount" csv:"Amount"`

	// Variation is the intraday move: Close - Open.
	Variation float64 `json:"variation" csv:"Variation"`

	// VariationPct is Variation relative to Open, in percent.
	// NaN when Open is zero.
	VariationPct Percent `json:"variation_pct" csv:"VariationPct"`
}

// NewPriceRecord builds a record and computes its derived columns.
func NewPriceRecord(date time.Time, open, high, low, close float64, volume int64) PriceRecord {
	return PriceRecord{
		Date:         date,
		Open:         open,
		High:         high,
		Low:          low,
		Close:        close,
		Volume:       volume,
		Amount:       float64(volume) * close,
		Variation:    close - open,
		VariationPct: PercentChange(open, close),
	}
}

// Day returns the calendar day y-m-d at midnight UTC.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// TruncateDay drops the time-of-day part of t and moves it to UTC, keeping
// the calendar date as seen in t's own location.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return Day(y, m, d)
}

// PriceSeries is a price history strictly ascending by date.
// A loaded series is shared across requests and must not be mutated.
type PriceSeries []PriceRecord

// Len returns the number of records.
func (s PriceSeries) Len() int { return len(s) }

// First returns the oldest record.
func (s PriceSeries) First() (PriceRecord, bool) {
	if len(s) == 0 {
		return PriceRecord{}, false
	}
	return s[0], true
}

// Last returns the most recent record.
func (s PriceSeries) Last() (PriceRecord, bool) {
	if len(s) == 0 {
		return PriceRecord{}, false
	}
	return s[len(s)-1], true
}

// Span returns the range covered by the series. ok is false for an empty series.
func (s PriceSeries) Span() (r DateRange, ok bool) {
	if len(s) == 0 {
		return DateRange{}, false
	}
	return DateRange{From: s[0].Date, To: s[len(s)-1].Date}, true
}

// Equal reports whether two series hold the same records. Derived percentages
// that are both NaN compare equal.
func (s PriceSeries) Equal(o PriceSeries) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		a, b := s[i], o[i]
		if !a.Date.Equal(b.Date) || a.Open != b.Open || a.High != b.High || a.Low != b.Low ||
			a.Close != b.Close || a.Volume != b.Volume || a.Amount != b.Amount ||
			a.Variation != b.Variation || !a.VariationPct.Same(b.VariationPct) {
			return false
		}
	}
	return true
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// SingleDay returns the range [d, d].
func SingleDay(d time.Time) DateRange {
	d = TruncateDay(d)
	return DateRange{From: d, To: d}
}

// Contains reports whether d falls in the range, boundaries included.
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.From) && !d.After(r.To)
}

// Validate rejects ranges whose start is after their end.
func (r DateRange) Validate() error {
	if r.From.After(r.To) {
		return fmt.Errorf("%w: %s is after %s", ErrInvalidRange, r.From.Format(DateFormat), r.To.Format(DateFormat))
	}
	return nil
}

// String formats the range as "from..to".
func (r DateRange) String() string {
	return r.From.Format(DateFormat) + ".." + r.To.Format(DateFormat)
}

// MarshalJSON writes both ends as plain calendar dates.
func (r DateRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		From string `json:"from"`
		To   string `json:"to"`
	}{r.From.Format(DateFormat), r.To.Format(DateFormat)})
}

// Percent is a percentage value. NaN and infinities mark an undefined ratio
// (zero denominator); they serialize to JSON null.
type Percent float64

// PercentChange returns (to - from) / from x 100, or NaN when from is zero.
func PercentChange(from, to float64) Percent {
	if from == 0 {
		return Percent(math.NaN())
	}
	return Percent((to - from) / from * 100)
}

// Defined reports whether the percentage is a finite number.
func (p Percent) Defined() bool {
	f := float64(p)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Same is equality where two undefined values are equal.
func (p Percent) Same(q Percent) bool {
	if !p.Defined() || !q.Defined() {
		return !p.Defined() && !q.Defined()
	}
	return p == q
}

// Equal compares with a precision suitable for display values.
func (p Percent) Equal(q Percent) bool {
	if !p.Defined() || !q.Defined() {
		return p.Same(q)
	}
	const precision = 0.0001
	return math.Abs(float64(p-q)) < precision
}

func (p Percent) String() string {
	if !p.Defined() {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", float64(p))
}

// SignedString formats with an explicit sign, e.g. "+1.25%".
func (p Percent) SignedString() string {
	if !p.Defined() {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", float64(p))
}

// MarshalJSON writes null for undefined values.
func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.Defined() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(p))
}

// UnmarshalJSON reads null back as NaN.
func (p *Percent) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = Percent(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*p = Percent(f)
	return nil
}
