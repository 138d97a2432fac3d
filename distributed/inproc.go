package distributed

import (
	"sync"

	"gonum.org/v1/gonum/floats"

	qerrors "github.com/YuminosukeSato/quantileboost/pkg/errors"
)

// InProc is one worker's handle on an in-process reduction group. Workers
// run as goroutines inside one process, which covers multi-shard training in
// a single binary and gives tests real barrier semantics without a network.
type InProc struct {
	rank int
	hub  *hub
}

// hub holds the shared accumulation state of one group. A round completes
// when all workers have contributed; its wait channel is then closed and
// every waiter reads the same summed vector.
type hub struct {
	size int

	mu      sync.Mutex
	arrived int
	acc     []float64
	result  []float64
	waitCh  chan struct{}
	err     error
}

// NewInProcGroup creates a reduction group of the given size and returns one
// handle per worker rank. Size must be at least 1.
func NewInProcGroup(size int) []*InProc {
	if size < 1 {
		panic("distributed: group size must be at least 1")
	}
	h := &hub{size: size}
	workers := make([]*InProc, size)
	for rank := range workers {
		workers[rank] = &InProc{rank: rank, hub: h}
	}
	return workers
}

// AllreduceSum implements Allreducer. It blocks until every worker in the
// group has contributed a vector of the same length.
func (w *InProc) AllreduceSum(data []float64) ([]float64, error) {
	h := w.hub

	h.mu.Lock()
	if h.err != nil {
		defer h.mu.Unlock()
		return nil, qerrors.NewDistributedCommError("AllreduceSum", w.rank, h.size, h.err)
	}

	if h.acc == nil {
		h.acc = make([]float64, len(data))
		h.waitCh = make(chan struct{})
	}
	if len(data) != len(h.acc) {
		err := qerrors.Newf("vector length %d does not match group round length %d", len(data), len(h.acc))
		h.failLocked(err)
		defer h.mu.Unlock()
		return nil, qerrors.NewDistributedCommError("AllreduceSum", w.rank, h.size, err)
	}

	floats.Add(h.acc, data)
	h.arrived++

	ch := h.waitCh
	if h.arrived == h.size {
		h.result = h.acc
		h.acc = nil
		h.arrived = 0
		close(ch)
	}
	h.mu.Unlock()

	<-ch

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return nil, qerrors.NewDistributedCommError("AllreduceSum", w.rank, h.size, h.err)
	}
	out := make([]float64, len(h.result))
	copy(out, h.result)
	return out, nil
}

// Rank implements Allreducer.
func (w *InProc) Rank() int { return w.rank }

// Size implements Allreducer.
func (w *InProc) Size() int { return w.hub.size }

// Abort marks the group as failed and releases any workers blocked in a
// reduction. Every in-flight and subsequent call returns a
// DistributedCommError wrapping cause.
func (w *InProc) Abort(cause error) {
	h := w.hub
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failLocked(cause)
}

func (h *hub) failLocked(cause error) {
	if h.err != nil {
		return
	}
	h.err = cause
	if h.waitCh != nil && h.acc != nil {
		// A round is in flight; wake its waiters so they observe the error.
		close(h.waitCh)
		h.acc = nil
		h.arrived = 0
	}
}
