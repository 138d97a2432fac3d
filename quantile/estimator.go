package quantile

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/quantileboost/core/backend"
	qerrors "github.com/YuminosukeSato/quantileboost/pkg/errors"
)

// Estimate returns the empirical alpha-quantile of values, weighted when a
// weight slice is supplied. It is the single-level convenience form of
// EstimateAll.
func Estimate(alpha float64, values, weights []float64) (float64, error) {
	out, err := EstimateAll(backend.NewContext(), []float64{alpha}, values, weights)
	if err != nil {
		return 0, err
	}
	return out[0], nil
}

// EstimateAll computes the empirical quantile of values at every level in
// alphas, returning one scalar per level. The input is sorted once and all
// levels are read off that order in a single segmented pass, scheduled on
// whichever device ctx selects. Inputs are not mutated.
//
// Without weights the estimate interpolates linearly between adjacent order
// statistics. With weights each value's contribution to cumulative
// probability mass is proportional to its weight, and the estimate is the
// first value whose cumulative mass reaches alpha times the total mass.
func EstimateAll(ctx *backend.Context, alphas, values, weights []float64) ([]float64, error) {
	const op = "EstimateAll"
	if len(alphas) == 0 {
		return nil, qerrors.NewConfigurationError(op, "quantile_alpha must not be empty", nil)
	}
	n := len(values)
	if n == 0 {
		return nil, qerrors.NewEmptyInputError(op)
	}
	if weights != nil && len(weights) != n {
		return nil, qerrors.NewShapeMismatchError(op, "weight length", n, len(weights))
	}
	for _, a := range alphas {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return nil, qerrors.NewConfigurationError(op, "quantile_alpha must be finite", a)
		}
	}
	if ctx == nil {
		ctx = backend.NewContext()
	}

	// One argsort shared by every level; values stays untouched.
	sortedIdx := make([]int, n)
	for i := range sortedIdx {
		sortedIdx[i] = i
	}
	sort.Slice(sortedIdx, func(a, b int) bool {
		return values[sortedIdx[a]] < values[sortedIdx[b]]
	})

	out := make([]float64, len(alphas))
	if weights == nil {
		ctx.Grid1D(len(alphas), func(j int) {
			out[j] = quantileSorted(alphas[j], values, sortedIdx)
		})
		return out, nil
	}

	// Cumulative weight mass in value order. The mass partition sums to the
	// total weight by construction.
	cdf := make([]float64, n)
	for i, idx := range sortedIdx {
		cdf[i] = weights[idx]
	}
	floats.CumSum(cdf, cdf)

	ctx.Grid1D(len(alphas), func(j int) {
		out[j] = weightedQuantileSorted(alphas[j], values, sortedIdx, cdf)
	})
	return out, nil
}

// quantileSorted interpolates between the two order statistics bracketing
// alpha*(n-1). Levels at or below 0 and at or above 1 collapse to the
// extremes.
func quantileSorted(alpha float64, values []float64, sortedIdx []int) float64 {
	n := len(sortedIdx)
	x := alpha * float64(n-1)
	k := int(math.Floor(x))
	if k < 0 {
		return values[sortedIdx[0]]
	}
	if k >= n-1 {
		return values[sortedIdx[n-1]]
	}
	d := x - float64(k)
	v0 := values[sortedIdx[k]]
	v1 := values[sortedIdx[k+1]]
	return v0 + d*(v1-v0)
}

// weightedQuantileSorted returns the first value whose cumulative weight
// mass reaches alpha times the total mass.
func weightedQuantileSorted(alpha float64, values []float64, sortedIdx []int, cdf []float64) float64 {
	n := len(cdf)
	thresh := alpha * cdf[n-1]
	ind := sort.SearchFloat64s(cdf, thresh)
	if ind >= n {
		ind = n - 1
	}
	return values[sortedIdx[ind]]
}
