package dataprocessing

import (
	"time"

	"github.com/shopspring/decimal"

	"pricedash/pkg/contracts/domain"
)

// ResolveRange turns optional user bounds into a concrete period. A missing
// start defaults to the first date of the series and a missing end to the
// last one, so picking a single date selects everything from that day on.
// Only a user-supplied start after a user-supplied end fails with
// domain.ErrInvalidRange. When a lone bound falls outside the data, the
// missing one collapses onto it and the period simply holds no records.
//
// For an empty series with no bounds both ends stay at the zero time.
func ResolveRange(series domain.PriceSeries, start, end *time.Time) (domain.DateRange, error) {
	span, ok := series.Span()

	switch {
	case start != nil && end != nil:
		r := domain.DateRange{From: domain.TruncateDay(*start), To: domain.TruncateDay(*end)}
		if err := r.Validate(); err != nil {
			return domain.DateRange{}, err
		}
		return r, nil
	case start != nil:
		from := domain.TruncateDay(*start)
		if !ok || from.After(span.To) {
			return domain.DateRange{From: from, To: from}, nil
		}
		return domain.DateRange{From: from, To: span.To}, nil
	case end != nil:
		to := domain.TruncateDay(*end)
		if !ok || to.Before(span.From) {
			return domain.DateRange{From: to, To: to}, nil
		}
		return domain.DateRange{From: span.From, To: to}, nil
	default:
		return span, nil
	}
}

// Summarize filters series to the inclusive range r and computes the period
// figures. The returned slice shares no memory with series.
//
//	period, sum := dataprocessing.Summarize(series, r)
//	if sum.Empty {
//	    // nothing traded in r
//	}
func Summarize(series domain.PriceSeries, r domain.DateRange) (domain.PriceSeries, domain.PeriodSummary) {
	period := Filter(series, r)
	summary := domain.PeriodSummary{Range: r, Count: len(period)}

	if len(period) == 0 {
		summary.Empty = true
		return period, summary
	}

	last := period[len(period)-1]
	summary.LastClose = last.Close
	summary.PreviousClose = last.Close
	if len(period) > 1 {
		summary.PreviousClose = period[len(period)-2].Close
	}
	summary.DeltaAbs = summary.LastClose - summary.PreviousClose
	summary.DeltaPct = domain.PercentChange(summary.PreviousClose, summary.LastClose)

	amount := decimal.Zero
	high := period[0].High
	for _, rec := range period {
		summary.VolumeSum += rec.Volume
		amount = amount.Add(decimal.NewFromFloat(rec.Amount))
		if rec.High > high {
			high = rec.High
		}
	}
	summary.AmountSum = amount.InexactFloat64()
	summary.PeriodHigh = high

	return period, summary
}

// Filter returns the records of series whose date falls inside r, in order.
func Filter(series domain.PriceSeries, r domain.DateRange) domain.PriceSeries {
	out := make(domain.PriceSeries, 0, len(series))
	for _, rec := range series {
		if r.Contains(rec.Date) {
			out = append(out, rec)
		}
	}
	return out
}
