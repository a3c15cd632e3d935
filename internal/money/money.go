// Package money provides exact arithmetic for currency amounts.
//
// Amounts are int64 values in the smallest currency unit (one Rupiah, one
// cent). All splitting goes through Distribute, which never loses or invents
// a unit no matter how uneven the weights are. Errors from this package
// indicate caller bugs, not user-facing conditions.
package money

import (
	"errors"
	"math"
)

var (
	// ErrInvalidAmount is returned when an operation receives a negative amount.
	ErrInvalidAmount = errors.New("money: amount must not be negative")
	// ErrInvalidWeights is returned when a distribution is requested with no
	// positive weight, which would make the split ambiguous.
	ErrInvalidWeights = errors.New("money: weights must contain at least one positive entry")
)

// MultiplyRate applies a fractional rate to an amount, rounding half-up to
// the nearest smallest unit. The rate is expected in [0, 1] but any
// non-negative rate works (e.g. 1.1 for a 110% markup).
func MultiplyRate(amount int64, rate float64) (int64, error) {
	if amount < 0 {
		return 0, ErrInvalidAmount
	}
	if rate < 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, ErrInvalidAmount
	}
	return int64(math.Floor(float64(amount)*rate + 0.5)), nil
}

// Distribute splits amount into len(weights) parts proportional to the
// weights, guaranteeing the parts sum to amount exactly. Each part starts at
// its floored proportional share; the leftover units are then handed out one
// at a time to the earliest positive-weight parts, so the result is
// deterministic in input order. Zero-weight entries always receive zero.
func Distribute(amount int64, weights []int64) ([]int64, error) {
	if amount < 0 {
		return nil, ErrInvalidAmount
	}

	var total int64
	for _, w := range weights {
		if w < 0 {
			return nil, ErrInvalidWeights
		}
		total += w
	}
	if total == 0 {
		return nil, ErrInvalidWeights
	}

	parts := make([]int64, len(weights))
	var assigned int64
	for i, w := range weights {
		parts[i] = amount * w / total
		assigned += parts[i]
	}

	remainder := amount - assigned
	for i := 0; remainder > 0 && i < len(weights); i++ {
		if weights[i] == 0 {
			continue
		}
		parts[i]++
		remainder--
	}

	return parts, nil
}

// DistributeEqually splits amount into n equal parts with the same exactness
// guarantee as Distribute.
func DistributeEqually(amount int64, n int) ([]int64, error) {
	if n <= 0 {
		return nil, ErrInvalidWeights
	}
	weights := make([]int64, n)
	for i := range weights {
		weights[i] = 1
	}
	return Distribute(amount, weights)
}
