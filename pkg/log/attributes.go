// Standard attribute keys for objective operations. Using these keys keeps
// log lines filterable across the gradient, estimation, and aggregation
// paths. The keys follow a hierarchical naming convention ("data.samples",
// "dist.rank") for structured log analysis.

package log

// Operation context.
const (
	// OperationKey specifies the objective operation being performed.
	// Standard values: "configure", "get_gradient", "init_estimation",
	// "update_tree_leaf".
	OperationKey = "ml.operation"

	// IterationKey is the boosting iteration the operation belongs to.
	IterationKey = "ml.iteration"

	// DeviceKey is the execution device of the call ("host", "kernel").
	DeviceKey = "ml.device"
)

// Data shape.
const (
	// SamplesKey is the number of samples (rows) on this worker's shard.
	SamplesKey = "data.samples"

	// QuantilesKey is the number of configured quantile levels.
	QuantilesKey = "data.quantiles"

	// TargetsKey is the number of output slots the trainer must size
	// its prediction buffer for.
	TargetsKey = "data.targets"

	// WeightedKey reports whether per-sample weights are present.
	WeightedKey = "data.weighted"
)

// Distributed context.
const (
	// RankKey is this worker's rank in the collective.
	RankKey = "dist.rank"

	// SizeKey is the number of cooperating workers.
	SizeKey = "dist.size"
)

// Performance.
const (
	// DurationMsKey records the execution time of an operation in
	// milliseconds.
	DurationMsKey = "perf.duration_ms"
)
