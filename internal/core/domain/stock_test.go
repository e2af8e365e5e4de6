package domain

import "testing"

func TestStockStatusFor(t *testing.T) {
	cases := []struct {
		quantity int
		want     string
	}{
		{-1, StockStatusOut},
		{0, StockStatusOut},
		{1, StockStatusLow},
		{20, StockStatusLow},
		{21, StockStatusIn},
		{500, StockStatusIn},
	}

	for _, tc := range cases {
		if got := StockStatusFor(tc.quantity); got != tc.want {
			t.Errorf("StockStatusFor(%d) = %q, want %q", tc.quantity, got, tc.want)
		}
	}
}
