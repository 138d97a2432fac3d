// Package backend selects how data-parallel grids are executed.
//
// The objective's kernels are elementwise over a (sample, quantile) grid with
// no dependency between cells, so the same formula can run on either device.
// The device choice is carried by an explicit Context value passed into every
// operation; there is no ambient or global execution state.
//
// Two devices exist: Host, a chunked goroutine loop sized to the CPU, and
// Kernel, a block-shaped launch over the flattened index space mirroring how
// an accelerator would schedule the same grid. Both execute the identical
// cell function, so results differ only by floating-point summation order in
// reductions the caller performs afterwards (the kernels themselves have
// none).
package backend

import "fmt"

// Device identifies an execution backend.
type Device int

const (
	// Host runs grids as a data-parallel loop on CPU worker goroutines.
	Host Device = iota
	// Kernel runs grids as fixed-size blocks over the flat index space,
	// one launch per block.
	Kernel
)

func (d Device) String() string {
	switch d {
	case Host:
		return "host"
	case Kernel:
		return "kernel"
	default:
		return fmt.Sprintf("Device(%d)", int(d))
	}
}

// Context carries the execution mode for one call. It is immutable from the
// callee's point of view and safe to share across concurrent calls.
type Context struct {
	// Device selects the execution strategy.
	Device Device

	// NumThreads caps Host worker goroutines. Zero or negative means one
	// per available CPU.
	NumThreads int

	// BlockSize is the Kernel launch block size. Zero or negative means
	// DefaultBlockSize.
	BlockSize int
}

// DefaultBlockSize is the flat-index block width of a Kernel launch.
const DefaultBlockSize = 256

// NewContext returns a Context targeting the Host device with default
// parallelism.
func NewContext() *Context {
	return &Context{Device: Host}
}

// NewKernelContext returns a Context targeting the Kernel device.
func NewKernelContext() *Context {
	return &Context{Device: Kernel}
}

// Grid2D executes fn for every cell of an rows×cols grid. Cells must be
// independent: fn runs concurrently and must not share mutable state across
// cells. Grid2D returns after every cell has run.
func (c *Context) Grid2D(rows, cols int, fn func(i, j int)) {
	items := rows * cols
	if items == 0 {
		return
	}
	cell := func(idx int) {
		fn(idx/cols, idx%cols)
	}
	switch c.Device {
	case Kernel:
		c.launchBlocks(items, cell)
	default:
		c.parallelFor(items, cell)
	}
}

// Grid1D executes fn for every index in [0, items). Same independence
// contract as Grid2D.
func (c *Context) Grid1D(items int, fn func(i int)) {
	if items == 0 {
		return
	}
	switch c.Device {
	case Kernel:
		c.launchBlocks(items, fn)
	default:
		c.parallelFor(items, fn)
	}
}
