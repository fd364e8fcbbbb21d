// Package api contains the JSON contracts of the /api/data endpoints.
// Version v1 represents the current stable API version.
//
// Range queries take optional start and end parameters. Both accept ISO
// dates (2026-01-16) and day-first dates (16/01/2026); a missing bound
// falls back to the matching end of the price history.
package api

// Response statuses.
const (
	StatusSuccess = "success"
)

// Response is the envelope of every successful JSON answer.
type Response[T any] struct {
	Status string `json:"status"`
	Data   T      `json:"data"`
	// Count is the number of price records in Data.
	Count int `json:"count"`
}

// NewResponse wraps data in a success envelope.
func NewResponse[T any](data T, count int) Response[T] {
	return Response[T]{Status: StatusSuccess, Data: data, Count: count}
}
