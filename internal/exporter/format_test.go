package exporter

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"pricedash/pkg/contracts/domain"
)

func TestFormatFloat(t *testing.T) {
	// Summed at run time so the constant is not folded to an exact 0.3.
	a, b := 0.1, 0.2
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "0"},
		{13.4, "13.4"},
		{25.92, "25.92"},
		{1100, "1100"},
		{-2, "-2"},
		{a + b, "0.30000000000000004"},
		{1234567.891, "1234567.891"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			got := formatFloat(tt.input)
			assert.Equal(t, tt.expected, got)

			back, err := strconv.ParseFloat(got, 64)
			assert.NoError(t, err)
			assert.Equal(t, tt.input, back)
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "", formatPercent(domain.Percent(math.NaN())))
	assert.Equal(t, "", formatPercent(domain.Percent(math.Inf(1))))
	assert.Equal(t, "12.5", formatPercent(12.5))
}

func TestFormatInt(t *testing.T) {
	assert.Equal(t, "0", formatInt(0))
	assert.Equal(t, "9223372036854775807", formatInt(math.MaxInt64))
}
