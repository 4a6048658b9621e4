package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSplitAmount(t *testing.T) {
	cases := []struct {
		total      string
		artisan    string
		commission string
	}{
		{"150.00", "127.50", "22.50"},
		{"100.00", "85.00", "15.00"},
		{"500.00", "425.00", "75.00"},
		{"33.33", "28.33", "5.00"},
		{"0.01", "0.01", "0.00"},
		{"10.00", "8.50", "1.50"},
	}

	for _, tc := range cases {
		total := decimal.RequireFromString(tc.total)
		artisan, commission := SplitAmount(total)

		assert.True(t, artisan.Equal(decimal.RequireFromString(tc.artisan)),
			"total %s: artisan share %s, want %s", tc.total, artisan, tc.artisan)
		assert.True(t, commission.Equal(decimal.RequireFromString(tc.commission)),
			"total %s: commission %s, want %s", tc.total, commission, tc.commission)
	}
}

func TestSplitAmount_SharesReconstructTotal(t *testing.T) {
	// The commission is the remainder after rounding the artisan share,
	// so the two parts must always sum back exactly.
	for _, raw := range []string{"0.01", "0.03", "1.99", "33.33", "66.67", "149.99", "500.00", "12345.67"} {
		total := decimal.RequireFromString(raw)
		artisan, commission := SplitAmount(total)

		assert.True(t, artisan.Add(commission).Equal(total),
			"total %s: %s + %s does not reconstruct it", raw, artisan, commission)
	}
}
