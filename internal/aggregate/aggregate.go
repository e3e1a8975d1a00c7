// Package aggregate contains the pure price computations used by the advisor:
// averages, extrema, the windowed average and the extreme forecast.
package aggregate

import (
	"slices"
	"strings"

	"github.com/rxtech-lab/argo-advisor/internal/types"
	"github.com/rxtech-lab/argo-advisor/pkg/errors"
	"github.com/shopspring/decimal"
)

// Average returns the arithmetic mean price of items, or zero when items is empty.
func Average[T types.Priced](items []T) decimal.Decimal {
	if len(items) == 0 {
		return decimal.Zero
	}

	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.GetPrice())
	}

	return sum.Div(decimal.NewFromInt(int64(len(items))))
}

// MinPrice returns the lowest price in entries.
func MinPrice(entries []types.Entry) (decimal.Decimal, error) {
	if len(entries) == 0 {
		return decimal.Zero, errors.New(errors.ErrCodeEmptyInput, "no orders to take the minimum of")
	}

	low := entries[0].Price
	for _, e := range entries[1:] {
		if e.Price.LessThan(low) {
			low = e.Price
		}
	}

	return low, nil
}

// MaxPrice returns the highest price in entries.
func MaxPrice(entries []types.Entry) (decimal.Decimal, error) {
	if len(entries) == 0 {
		return decimal.Zero, errors.New(errors.ErrCodeEmptyInput, "no orders to take the maximum of")
	}

	high := entries[0].Price
	for _, e := range entries[1:] {
		if e.Price.GreaterThan(high) {
			high = e.Price
		}
	}

	return high, nil
}

// ExtremePrice returns the minimum or maximum price depending on kind.
func ExtremePrice(kind types.Extreme, entries []types.Entry) (decimal.Decimal, error) {
	switch kind {
	case types.ExtremeMin:
		return MinPrice(entries)
	case types.ExtremeMax:
		return MaxPrice(entries)
	default:
		return decimal.Zero, errors.Newf(errors.ErrCodeInvalidParameter, "invalid extreme %q", kind)
	}
}

// WindowBounds computes the [skip, back) slice of the time sorted orders used
// by WindowedAverage. back is also the effective window reported to callers.
//
// When the requested window reaches further back than the current step, the
// window is clamped to max(step, 1) and starts at the front of the list.
func WindowBounds(requested, step int) (skip, back int) {
	if requested < 1 {
		requested = 1
	}

	if requested > step {
		return 0, max(step, 1)
	}

	return max(step-requested, 0), requested
}

// WindowedAverage averages entries[skip:back] of entries sorted ascending by
// timestamp and returns the effective window size alongside the average.
func WindowedAverage(sortedByTime []types.Entry, requested, step int) (decimal.Decimal, int) {
	skip, back := WindowBounds(requested, step)

	lo := min(skip, len(sortedByTime))
	hi := min(back, len(sortedByTime))
	if lo >= hi {
		return decimal.Zero, back
	}

	return Average(sortedByTime[lo:hi]), back
}

// ForecastNextExtreme takes the requested extreme of each non-empty group and
// returns the mean of those extremes. Empty groups are skipped; if every group
// is empty the result is zero.
func ForecastNextExtreme(groups [][]types.Entry, kind types.Extreme) (decimal.Decimal, error) {
	if kind != types.ExtremeMin && kind != types.ExtremeMax {
		return decimal.Zero, errors.Newf(errors.ErrCodeInvalidParameter, "invalid extreme %q", kind)
	}

	extremes := make([]types.Price, 0, len(groups))

	for _, group := range groups {
		if len(group) == 0 {
			continue
		}

		price, err := ExtremePrice(kind, group)
		if err != nil {
			return decimal.Zero, err
		}

		extremes = append(extremes, types.Price(price))
	}

	return Average(extremes), nil
}

// SortByTimestamp returns a copy of entries stably sorted by ascending timestamp.
func SortByTimestamp(entries []types.Entry) []types.Entry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b types.Entry) int {
		return strings.Compare(a.Timestamp, b.Timestamp)
	})

	return sorted
}
