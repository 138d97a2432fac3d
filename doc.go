// Package quantileboost provides the quantile ("pinball") regression
// objective for gradient-boosted tree trainers in Go.
//
// The objective converts current predictions and ground-truth labels into
// per-sample gradient/hessian pairs that drive the next boosting round,
// estimates a statistically sound initial prediction from the label
// distribution, and coordinates that estimation across cooperating workers
// training on disjoint data shards.
//
// # Packages
//
//   - quantile: the objective itself (configuration, gradients, quantile
//     estimation, base-score initialization, leaf-update delegation)
//   - core/backend: host/kernel execution contexts for the data-parallel
//     gradient and estimation grids
//   - distributed: the blocking global-sum reduction contract plus
//     in-process worker groups
//   - metrics: the mean pinball loss paired with the objective
//   - pkg/errors, pkg/log: error taxonomy and structured logging
//
// # Quick Start
//
//	obj, err := quantile.New(0.1, 0.5, 0.9)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	base, err := obj.InitEstimation(backend.NewContext(), labels)
//	// seed predictions with base, then each round:
//	grads, err := obj.GetGradient(backend.NewContext(), preds, labels, round)
//
// See examples/quantile_regression for a runnable end-to-end demo.
package quantileboost
