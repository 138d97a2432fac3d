package quantile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/quantileboost/core/backend"
	qerrors "github.com/YuminosukeSato/quantileboost/pkg/errors"
)

func TestEstimateUnweighted(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	testCases := []struct {
		name  string
		alpha float64
		want  float64
	}{
		{name: "median", alpha: 0.5, want: 3.0},
		{name: "first quartile", alpha: 0.25, want: 2.0},
		{name: "interpolated", alpha: 0.6, want: 3.4},
		{name: "minimum", alpha: 0.0, want: 1.0},
		{name: "maximum", alpha: 1.0, want: 5.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Estimate(tc.alpha, values, nil)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-12)
		})
	}

	t.Run("input order does not matter", func(t *testing.T) {
		shuffled := []float64{4, 1, 5, 3, 2}
		got, err := Estimate(0.5, shuffled, nil)
		require.NoError(t, err)
		assert.InDelta(t, 3.0, got, 1e-12)
		// Input untouched by the argsort.
		assert.Equal(t, []float64{4, 1, 5, 3, 2}, shuffled)
	})
}

func TestEstimateWeighted(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	t.Run("uniform weights match unweighted median", func(t *testing.T) {
		got, err := Estimate(0.5, values, []float64{1, 1, 1, 1, 1})
		require.NoError(t, err)
		assert.InDelta(t, 3.0, got, 1e-12)
	})

	t.Run("upweighting a sample pulls the estimate toward it", func(t *testing.T) {
		base, err := Estimate(0.5, values, []float64{1, 1, 1, 1, 1})
		require.NoError(t, err)

		pulled, err := Estimate(0.5, values, []float64{1, 1, 1, 1, 10})
		require.NoError(t, err)

		assert.Greater(t, pulled, base)
		assert.LessOrEqual(t, pulled, 5.0)
	})

	t.Run("dominant weight wins the median", func(t *testing.T) {
		got, err := Estimate(0.5, values, []float64{1, 100, 1, 1, 1})
		require.NoError(t, err)
		assert.InDelta(t, 2.0, got, 1e-12)
	})

	t.Run("cumulative mass partition sums to total weight", func(t *testing.T) {
		weights := []float64{0.5, 2.0, 1.5, 3.0, 1.0}
		cdf := make([]float64, len(weights))
		floats.CumSum(cdf, weights)
		assert.InDelta(t, floats.Sum(weights), cdf[len(cdf)-1], 1e-12)
	})
}

func TestEstimateAllSegmented(t *testing.T) {
	values := []float64{9, 1, 7, 3, 5, 2, 8, 4, 6, 10}
	alphas := []float64{0.1, 0.25, 0.5, 0.75, 0.9}

	t.Run("batch equals one-at-a-time", func(t *testing.T) {
		batch, err := EstimateAll(backend.NewContext(), alphas, values, nil)
		require.NoError(t, err)
		require.Len(t, batch, len(alphas))

		for j, a := range alphas {
			single, err := Estimate(a, values, nil)
			require.NoError(t, err)
			assert.InDelta(t, single, batch[j], 1e-12, "level %v", a)
		}
	})

	t.Run("kernel device agrees with host", func(t *testing.T) {
		weights := []float64{1, 2, 1, 3, 1, 2, 1, 4, 1, 2}

		host, err := EstimateAll(backend.NewContext(), alphas, values, weights)
		require.NoError(t, err)
		kernel, err := EstimateAll(backend.NewKernelContext(), alphas, values, weights)
		require.NoError(t, err)

		assert.Equal(t, host, kernel)
	})

	t.Run("levels are monotone in alpha", func(t *testing.T) {
		out, err := EstimateAll(backend.NewContext(), alphas, values, []float64{2, 1, 1, 1, 3, 1, 1, 2, 1, 1})
		require.NoError(t, err)
		for j := 1; j < len(out); j++ {
			assert.GreaterOrEqual(t, out[j], out[j-1])
		}
	})
}

func TestEstimateErrors(t *testing.T) {
	t.Run("empty shard", func(t *testing.T) {
		_, err := Estimate(0.5, nil, nil)

		var emptyErr *qerrors.EmptyInputError
		assert.True(t, qerrors.As(err, &emptyErr))
	})

	t.Run("no levels", func(t *testing.T) {
		_, err := EstimateAll(backend.NewContext(), nil, []float64{1, 2}, nil)

		var cfgErr *qerrors.ConfigurationError
		assert.True(t, qerrors.As(err, &cfgErr))
	})

	t.Run("weight length mismatch", func(t *testing.T) {
		_, err := Estimate(0.5, []float64{1, 2, 3}, []float64{1})

		var mismatchErr *qerrors.ShapeMismatchError
		assert.True(t, qerrors.As(err, &mismatchErr))
	})

	t.Run("single sample", func(t *testing.T) {
		got, err := Estimate(0.9, []float64{42}, nil)
		require.NoError(t, err)
		assert.InDelta(t, 42.0, got, 1e-12)
	})
}
