// Package metrics provides the evaluation metric paired with the quantile
// objective.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	qerrors "github.com/YuminosukeSato/quantileboost/pkg/errors"
)

// MeanPinballLoss computes the average pinball loss of one prediction column
// against the labels at level alpha:
//
//	loss(y, p) = alpha*(y-p)        if y >= p
//	           = (1-alpha)*(p-y)    otherwise
func MeanPinballLoss(yTrue, yPred *mat.VecDense, alpha float64) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, qerrors.NewEmptyInputError("MeanPinballLoss")
	}
	if yPred.Len() != n {
		return 0, qerrors.NewShapeMismatchError("MeanPinballLoss", "prediction length", n, yPred.Len())
	}
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return 0, qerrors.NewConfigurationError("MeanPinballLoss", "quantile_alpha must be finite", alpha)
	}

	var sum float64
	for i := 0; i < n; i++ {
		d := yTrue.AtVec(i) - yPred.AtVec(i)
		if d >= 0 {
			sum += alpha * d
		} else {
			sum += (alpha - 1) * d
		}
	}
	return sum / float64(n), nil
}

// MeanPinballLossMulti averages the pinball loss over every quantile level,
// column j of preds scored at alphas[j]. This is the "quantile" metric the
// evaluation framework pairs with the objective by default.
func MeanPinballLossMulti(yTrue *mat.VecDense, preds *mat.Dense, alphas []float64) (float64, error) {
	const op = "MeanPinballLossMulti"
	if len(alphas) == 0 {
		return 0, qerrors.NewConfigurationError(op, "quantile_alpha must not be empty", nil)
	}
	n := yTrue.Len()
	if n == 0 {
		return 0, qerrors.NewEmptyInputError(op)
	}
	rows, cols := preds.Dims()
	if cols != len(alphas) {
		return 0, qerrors.NewShapeMismatchError(op, "prediction columns", len(alphas), cols)
	}
	if rows != n {
		return 0, qerrors.NewShapeMismatchError(op, "prediction rows", n, rows)
	}

	var total float64
	for j, a := range alphas {
		col := mat.NewVecDense(n, mat.Col(nil, j, preds))
		loss, err := MeanPinballLoss(yTrue, col, a)
		if err != nil {
			return 0, err
		}
		total += loss
	}
	return total / float64(len(alphas)), nil
}
