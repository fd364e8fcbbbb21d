package domain

import "errors"

// ErrInvalidRange is returned when a requested period starts after it ends.
var ErrInvalidRange = errors.New("invalid date range")

// PeriodSummary holds the KPI figures of one period. It is recomputed for each
// requested range and discarded after rendering.
//
// An empty period (no record inside the range) is reported with Empty set and
// every metric at zero; consumers render an empty state instead of KPIs.
type PeriodSummary struct {
	Range DateRange `json:"range"`
	Count int       `json:"count"`
	Empty bool      `json:"empty"`

	// LastClose is the close of the last record in the period.
	LastClose float64 `json:"last_close"`

	// PreviousClose is the close of the second-to-last record, or LastClose
	// when the period holds a single record.
	PreviousClose float64 `json:"previous_close"`

	DeltaAbs float64 `json:"delta_abs"`

	// DeltaPct is NaN when PreviousClose is zero.
	DeltaPct Percent `json:"delta_pct"`

	VolumeSum  int64   `json:"volume_sum"`
	AmountSum  float64 `json:"amount_sum"`
	PeriodHigh float64 `json:"period_high"`
}

// Rising reports whether the last move is flat or upward. Undefined moves
// count as not rising.
func (s PeriodSummary) Rising() bool {
	return s.DeltaPct.Defined() && s.DeltaPct >= 0
}
