package future

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrHedgeRatioUnavailable marks a hedge ratio that cannot be estimated
	// from the given series. It is recoverable: callers report the ratio as
	// unavailable and carry on.
	ErrHedgeRatioUnavailable = errors.New("hedge ratio unavailable")

	ErrIncompatibleSeriesLength = fmt.Errorf("%w: incompatible series length", ErrHedgeRatioUnavailable)
	ErrDegenerateSeries         = fmt.Errorf("%w: degenerate series", ErrHedgeRatioUnavailable)
)

// pinvRcond is the relative cutoff below which singular values of the
// design matrix count as zero.
const pinvRcond = 1e-15

// HedgeRatio regresses the future's returns on the market's returns (OLS
// with intercept) and returns the slope. With a single return or flat market
// returns the design matrix is rank deficient and the minimum-norm
// least-squares slope is returned.
func HedgeRatio(marketPrices, futurePrices []float64) (float64, error) {
	if marketPrices == nil || futurePrices == nil {
		return 0, fmt.Errorf("%w: missing series", ErrIncompatibleSeriesLength)
	}
	if len(marketPrices) != len(futurePrices) {
		return 0, fmt.Errorf("%w: %d market prices, %d future prices", ErrIncompatibleSeriesLength, len(marketPrices), len(futurePrices))
	}
	if len(marketPrices) < 2 {
		return 0, fmt.Errorf("%w: need at least 2 prices, got %d", ErrIncompatibleSeriesLength, len(marketPrices))
	}

	x := PctChange(marketPrices)
	y := PctChange(futurePrices)
	if !finite(x) || !finite(y) {
		return 0, fmt.Errorf("%w: non-finite returns", ErrDegenerateSeries)
	}
	if len(x) < 2 || stat.Variance(x, nil) == 0 {
		return minNormSlope(x, y)
	}

	_, beta := stat.LinearRegression(x, y, nil, false)
	return beta, nil
}

// minNormSlope solves y = a + b·x through the pseudo-inverse of [1 x].
func minNormSlope(x, y []float64) (float64, error) {
	design := mat.NewDense(len(x), 2, nil)
	for i, xi := range x {
		design.Set(i, 0, 1)
		design.Set(i, 1, xi)
	}

	var svd mat.SVD
	if !svd.Factorize(design, mat.SVDThin) {
		return 0, fmt.Errorf("%w: factorization failed", ErrDegenerateSeries)
	}
	rank := svd.Rank(pinvRcond)
	if rank == 0 {
		return 0, fmt.Errorf("%w: zero design matrix", ErrDegenerateSeries)
	}

	var coef mat.Dense
	svd.SolveTo(&coef, mat.NewVecDense(len(y), y), rank)
	return coef.At(1, 0), nil
}

// PctChange returns the period-over-period relative change of prices.
func PctChange(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		out[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
	}
	return out
}

func finite(xs []float64) bool {
	if floats.HasNaN(xs) {
		return false
	}
	for _, x := range xs {
		if math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
