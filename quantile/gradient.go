package quantile

import (
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/quantileboost/core/backend"
	qerrors "github.com/YuminosukeSato/quantileboost/pkg/errors"
	"github.com/YuminosukeSato/quantileboost/pkg/log"
)

// GradientPair is the first- and second-order gradient of one
// (sample, quantile) cell.
type GradientPair struct {
	Grad float64
	Hess float64
}

// GradientBuffer is a row-major (sample, quantile) grid of gradient pairs.
// It is exclusively owned by the caller between calls and overwritten by the
// next GetGradient.
type GradientBuffer struct {
	pairs []GradientPair
	rows  int
	cols  int
}

// Dims returns the (samples, quantiles) shape of the buffer.
func (b *GradientBuffer) Dims() (rows, cols int) { return b.rows, b.cols }

// At returns the pair for sample i, quantile index j.
func (b *GradientBuffer) At(i, j int) GradientPair { return b.pairs[i*b.cols+j] }

// Pairs exposes the raw row-major grid for the boosting loop to consume.
func (b *GradientBuffer) Pairs() []GradientPair { return b.pairs }

// pinballGradient is the subgradient of the pinball loss at one cell. It is
// the single definition both devices execute. Ties at d == 0 take the
// over-prediction branch.
func pinballGradient(pred, label, weight, alpha float64) GradientPair {
	d := pred - label
	if d >= 0 {
		return GradientPair{Grad: (1 - alpha) * weight, Hess: weight}
	}
	return GradientPair{Grad: -alpha * weight, Hess: weight}
}

// GetGradient produces one gradient/hessian pair per (sample, quantile) cell
// for the current boosting iteration. preds must have one column per
// configured level and one row per label. Cells are independent, so the grid
// is executed by whichever device ctx selects; results are identical on both.
func (o *Objective) GetGradient(ctx *backend.Context, preds *mat.Dense, labels LabelInfo, iteration int) (*GradientBuffer, error) {
	const op = "GetGradient"
	if !o.configured() {
		return nil, qerrors.NewConfigurationError(op, "objective is not configured", nil)
	}
	if cols := labels.columns(); cols > 1 {
		return nil, qerrors.NewUnsupportedShapeError(op, cols)
	}
	n := labels.NumSamples()
	if n == 0 {
		return nil, qerrors.NewEmptyInputError(op)
	}

	predRows, predCols := preds.Dims()
	if predCols != len(o.alphas) {
		return nil, qerrors.NewShapeMismatchError(op, "prediction columns", len(o.alphas), predCols)
	}
	if predRows != n {
		return nil, qerrors.NewShapeMismatchError(op, "prediction rows", n, predRows)
	}
	if labels.Weights != nil && len(labels.Weights) != n {
		return nil, qerrors.NewShapeMismatchError(op, "weight length", n, len(labels.Weights))
	}
	if ctx == nil {
		ctx = backend.NewContext()
	}

	buf := &GradientBuffer{
		pairs: make([]GradientPair, n*predCols),
		rows:  n,
		cols:  predCols,
	}
	alphas := o.alphas
	ctx.Grid2D(n, predCols, func(i, j int) {
		buf.pairs[i*predCols+j] = pinballGradient(
			preds.At(i, j),
			labels.Labels.At(i, 0),
			labels.weight(i),
			alphas[j],
		)
	})

	slog.Debug("computed pinball gradients",
		slog.String(log.OperationKey, "get_gradient"),
		slog.Int(log.IterationKey, iteration),
		slog.String(log.DeviceKey, ctx.Device.String()),
		slog.Int(log.SamplesKey, n),
		slog.Int(log.QuantilesKey, predCols),
		slog.Bool(log.WeightedKey, labels.Weights != nil),
	)
	return buf, nil
}
