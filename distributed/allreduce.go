// Package distributed provides the collective-reduction contract the
// objective consumes during base-score initialization.
//
// The objective only needs a blocking global sum: every worker contributes a
// small vector, the call returns the elementwise sum across all workers, and
// no worker proceeds until the result is available. The call is therefore
// also a barrier. There is no cancellation or timeout at this layer; a
// failed reduction is fatal to the whole job.
package distributed

// Allreducer applies a blocking global-sum reduction to vectors distributed
// across cooperating workers.
//
// AllreduceSum must be called by every worker in the group with a vector of
// the same length; it blocks until all workers have contributed and returns
// the elementwise sum to each of them. The input slice is not mutated and
// the returned slice is owned by the caller.
type Allreducer interface {
	AllreduceSum(data []float64) ([]float64, error)

	// Rank is this worker's index in the group, in [0, Size).
	Rank() int

	// Size is the number of cooperating workers.
	Size() int
}

// SingleWorker is the degenerate one-process group: the global sum of a
// single contribution is the contribution itself.
type SingleWorker struct{}

// AllreduceSum returns a copy of data.
func (SingleWorker) AllreduceSum(data []float64) ([]float64, error) {
	out := make([]float64, len(data))
	copy(out, data)
	return out, nil
}

// Rank implements Allreducer.
func (SingleWorker) Rank() int { return 0 }

// Size implements Allreducer.
func (SingleWorker) Size() int { return 1 }
