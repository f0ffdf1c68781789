// Package rasterize turns geometric shapes into the axis-aligned
// cell-index ranges a caller's WriteOp wants written, under the
// midpoint rule: a cell is covered iff its center lies inside the
// (dilated) shape, except that a shape smaller than one cell still
// draws its single enclosing cell so it never vanishes.
//
// The original C++ implementation parametrizes its rasterizer on a
// write-operator template argument for speed; Go has no equivalent
// compile-time specialization; the WriteOp interface here is the same
// idea expressed as ordinary interface dispatch.
package rasterize

// WriteOp receives the cell-index ranges a rasterization pass
// produces. A range [Z0,Z1]x[Y0,Y1]x[X0,X1] is inclusive on all
// bounds. Implementations decide what "writing" a range means: stamp
// flags, adjust a keep-out counter, count cells, or record the range
// verbatim.
type WriteOp interface {
	WriteRangeZYX(z0, z1, y0, y1, x0, x1 int)
}

// WriteRangeZX writes a single row (fixed Y) across a Z and X range.
func WriteRangeZX(op WriteOp, z0, z1, y, x0, x1 int) {
	op.WriteRangeZYX(z0, z1, y, y, x0, x1)
}

// WriteRangeZY writes a single column (fixed X) across a Z and Y range.
func WriteRangeZY(op WriteOp, z0, z1, y0, y1, x int) {
	op.WriteRangeZYX(z0, z1, y0, y1, x, x)
}

// WriteRangeYX writes a single layer (fixed Z) across a Y and X range.
func WriteRangeYX(op WriteOp, z, y0, y1, x0, x1 int) {
	op.WriteRangeZYX(z, z, y0, y1, x0, x1)
}

// WriteRangeY writes a single cell-column (fixed Z and X) across a Y
// range.
func WriteRangeY(op WriteOp, z, y0, y1, x int) {
	op.WriteRangeZYX(z, z, y0, y1, x, x)
}

// WriteRangeX writes a single cell-row (fixed Z and Y) across an X
// range.
func WriteRangeX(op WriteOp, z, y, x0, x1 int) {
	op.WriteRangeZYX(z, z, y, y, x0, x1)
}

// CountOp is a WriteOp that counts the total number of cells written
// across every range, for the "SegmentToPoint computes a temporary
// violation area" use case.
type CountOp struct {
	Count int
}

func (c *CountOp) WriteRangeZYX(z0, z1, y0, y1, x0, x1 int) {
	c.Count += (z1 - z0 + 1) * (y1 - y0 + 1) * (x1 - x0 + 1)
}

// IndexRange is a recorded axis-aligned cell-index range, used by
// RecordOp.
type IndexRange struct {
	Z0, Z1, Y0, Y1, X0, X1 int
}

// NumCells returns the number of cells covered by r.
func (r IndexRange) NumCells() int {
	return (r.Z1 - r.Z0 + 1) * (r.Y1 - r.Y0 + 1) * (r.X1 - r.X0 + 1)
}

// RecordOp is a WriteOp that records every range it is given,
// verbatim, for later linear-index iteration (NavGrid's keep-out
// write ops consume these instead of re-deriving ranges from shapes).
type RecordOp struct {
	Ranges []IndexRange
}

func (r *RecordOp) WriteRangeZYX(z0, z1, y0, y1, x0, x1 int) {
	r.Ranges = append(r.Ranges, IndexRange{z0, z1, y0, y1, x0, x1})
}
