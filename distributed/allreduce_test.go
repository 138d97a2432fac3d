package distributed

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qerrors "github.com/YuminosukeSato/quantileboost/pkg/errors"
)

func TestSingleWorker(t *testing.T) {
	var w SingleWorker

	out, err := w.AllreduceSum([]float64{1.5, -2.0})
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, -2.0}, out)
	assert.Equal(t, 0, w.Rank())
	assert.Equal(t, 1, w.Size())
}

func TestInProcGroupSumsAcrossWorkers(t *testing.T) {
	workers := NewInProcGroup(3)
	contributions := [][]float64{
		{1.0, 10.0},
		{2.0, 20.0},
		{3.0, 30.0},
	}

	results := make([][]float64, len(workers))
	errs := make([]error, len(workers))
	var wg sync.WaitGroup
	for i, w := range workers {
		wg.Add(1)
		go func(i int, w *InProc) {
			defer wg.Done()
			results[i], errs[i] = w.AllreduceSum(contributions[i])
		}(i, w)
	}
	wg.Wait()

	for i := range workers {
		require.NoError(t, errs[i])
		assert.InDeltaSlice(t, []float64{6.0, 60.0}, results[i], 1e-12,
			"worker %d saw a different global sum", i)
	}
}

func TestInProcGroupRepeatedRounds(t *testing.T) {
	workers := NewInProcGroup(2)

	for round := 0; round < 3; round++ {
		var wg sync.WaitGroup
		results := make([][]float64, 2)
		errs := make([]error, 2)
		for i, w := range workers {
			wg.Add(1)
			go func(i int, w *InProc) {
				defer wg.Done()
				results[i], errs[i] = w.AllreduceSum([]float64{float64(round + i)})
			}(i, w)
		}
		wg.Wait()
		require.NoError(t, errs[0])
		require.NoError(t, errs[1])

		want := float64(2*round + 1)
		assert.InDelta(t, want, results[0][0], 1e-12)
		assert.InDelta(t, want, results[1][0], 1e-12)
	}
}

func TestInProcAbortReleasesBlockedWorkers(t *testing.T) {
	workers := NewInProcGroup(2)

	errCh := make(chan error, 1)
	go func() {
		_, err := workers[0].AllreduceSum([]float64{1.0})
		errCh <- err
	}()

	// Worker 1 never contributes; abort instead.
	workers[1].Abort(qerrors.New("peer lost"))

	err := <-errCh
	require.Error(t, err)
	var commErr *qerrors.DistributedCommError
	assert.True(t, qerrors.As(err, &commErr))

	// Subsequent rounds fail immediately as well.
	_, err = workers[1].AllreduceSum([]float64{2.0})
	assert.Error(t, err)
}

func TestInProcLengthMismatchFailsGroup(t *testing.T) {
	workers := NewInProcGroup(2)

	errCh := make(chan error, 2)
	go func() {
		_, err := workers[0].AllreduceSum([]float64{1.0, 2.0})
		errCh <- err
	}()
	go func() {
		_, err := workers[1].AllreduceSum([]float64{1.0})
		errCh <- err
	}()

	err1 := <-errCh
	err2 := <-errCh
	assert.Error(t, err1)
	assert.Error(t, err2)
}

func TestNewInProcGroupRejectsZeroSize(t *testing.T) {
	assert.Panics(t, func() { NewInProcGroup(0) })
}
