// Package quantile implements the quantile ("pinball") regression objective
// for gradient-boosted tree training.
//
// The objective turns current predictions and labels into per-sample
// gradient/hessian pairs each boosting round, seeds the trainer's initial
// prediction from the (optionally weighted) label quantiles, and agrees on
// that initial value across distributed workers through a global-sum
// reduction. One prediction column exists per configured quantile level;
// multi-target labels are rejected.
package quantile

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/quantileboost/core/backend"
	"github.com/YuminosukeSato/quantileboost/distributed"
	qerrors "github.com/YuminosukeSato/quantileboost/pkg/errors"
	"github.com/YuminosukeSato/quantileboost/pkg/log"
)

// rtEps keeps the aggregated base-score divisor away from zero.
const rtEps = 1e-6

// Objective is the pinball-loss objective. The zero value is unconfigured;
// call Configure (or New) before use. After configuration the level set is
// immutable and the Objective is safe for concurrent gradient calls.
type Objective struct {
	alphas  []float64
	reducer distributed.Allreducer
	updater LeafUpdater
}

// New returns an Objective configured with the given quantile levels.
func New(alphas ...float64) (*Objective, error) {
	o := &Objective{}
	if err := o.Configure(alphas); err != nil {
		return nil, err
	}
	return o, nil
}

// Configure validates and installs the quantile level list. Order is
// significant: level j owns prediction column j.
func (o *Objective) Configure(alphas []float64) error {
	p := Param{QuantileAlpha: alphas}
	if err := p.Validate(); err != nil {
		return err
	}
	o.alphas = make([]float64, len(alphas))
	copy(o.alphas, alphas)
	return nil
}

// Alphas returns a copy of the configured level list.
func (o *Objective) Alphas() []float64 {
	out := make([]float64, len(o.alphas))
	copy(out, o.alphas)
	return out
}

// Name returns the objective identifier used in serialized documents.
func (o *Objective) Name() string { return ObjectiveName }

// SetAllreducer installs the collective used by InitEstimation. The default
// is the single-worker group.
func (o *Objective) SetAllreducer(r distributed.Allreducer) { o.reducer = r }

// SetLeafUpdater installs the external leaf-value refinement routine invoked
// by UpdateTreeLeaf. Without one, UpdateTreeLeaf is a no-op.
func (o *Objective) SetLeafUpdater(u LeafUpdater) { o.updater = u }

func (o *Objective) configured() bool { return len(o.alphas) > 0 }

func (o *Objective) allreducer() distributed.Allreducer {
	if o.reducer == nil {
		return distributed.SingleWorker{}
	}
	return o.reducer
}

// Targets returns the number of output slots the trainer must size its
// prediction buffer for: one per quantile level. Labels with more than one
// column are rejected.
func (o *Objective) Targets(labels LabelInfo) (int, error) {
	if !o.configured() {
		return 0, qerrors.NewConfigurationError("Targets", "objective is not configured", nil)
	}
	cols := labels.columns()
	if cols > 1 {
		return 0, qerrors.NewUnsupportedShapeError("Targets", cols)
	}
	if cols < 1 {
		cols = 1
	}
	return len(o.alphas) * cols, nil
}

// InitEstimation computes the trainer's initial prediction from this shard's
// label distribution and agrees on it with every cooperating worker.
//
// Locally it estimates each configured quantile of the label column, then
// collapses them to their arithmetic mean. The collective sums the 2-vector
// [mean * Σw, Σw] across workers and the combined base score is the ratio of
// the two sums. The single scalar is replicated into one slot per level.
// That collapse loses per-quantile resolution on purpose: downstream
// consumers expect one base score.
//
// The reduction is a barrier; a collective failure is fatal and propagates.
func (o *Objective) InitEstimation(ctx *backend.Context, labels LabelInfo) ([]float64, error) {
	const op = "InitEstimation"
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
	if labels.Weights != nil && len(labels.Weights) != n {
		return nil, qerrors.NewShapeMismatchError(op, "weight length", n, len(labels.Weights))
	}
	if ctx == nil {
		ctx = backend.NewContext()
	}

	column := mat.Col(nil, 0, labels.Labels)
	quants, err := EstimateAll(ctx, o.alphas, column, labels.Weights)
	if err != nil {
		return nil, err
	}
	localMean := stat.Mean(quants, nil)

	sumWeight := float64(n)
	if labels.Weights != nil {
		sumWeight = floats.Sum(labels.Weights)
	}

	red := o.allreducer()
	global, err := red.AllreduceSum([]float64{localMean * sumWeight, sumWeight})
	if err != nil {
		var commErr *qerrors.DistributedCommError
		if qerrors.As(err, &commErr) {
			return nil, err
		}
		return nil, qerrors.NewDistributedCommError(op, red.Rank(), red.Size(), err)
	}

	base := global[0] / (global[1] + rtEps)
	slog.Debug("seeded base score",
		slog.String(log.OperationKey, "init_estimation"),
		slog.Int(log.SamplesKey, n),
		slog.Int(log.QuantilesKey, len(o.alphas)),
		slog.Int(log.RankKey, red.Rank()),
		slog.Int(log.SizeKey, red.Size()),
		slog.Float64("base_score", base),
	)

	out := make([]float64, len(o.alphas))
	for i := range out {
		out[i] = base
	}
	return out, nil
}

// Tree is the minimal view of a grown tree the leaf updater needs.
type Tree interface {
	NumLeaves() int
	SetLeafValue(leaf int, value float64)
}

// LeafUpdater refines a tree's leaf values after its structure is fixed.
// Implementations receive the quantile level of the active output group and
// mutate the tree in place.
type LeafUpdater interface {
	UpdateTreeLeaf(positions []int, labels LabelInfo, learningRate float64, preds *mat.Dense, alpha float64, tree Tree) error
}

// UpdateTreeLeaf selects the quantile level that owns output group and
// forwards everything unchanged to the configured leaf updater.
func (o *Objective) UpdateTreeLeaf(positions []int, labels LabelInfo, learningRate float64, preds *mat.Dense, group int, tree Tree) error {
	const op = "UpdateTreeLeaf"
	if !o.configured() {
		return qerrors.NewConfigurationError(op, "objective is not configured", nil)
	}
	if group < 0 || group >= len(o.alphas) {
		return qerrors.NewShapeMismatchError(op, "output group", len(o.alphas), group)
	}
	if o.updater == nil {
		return nil
	}
	return o.updater.UpdateTreeLeaf(positions, labels, learningRate, preds, o.alphas[group], tree)
}
