package model

import "fmt"

// GridCellIndex addresses one cell in a row/column grid. Row 0 is the top
// row, column 0 the leftmost column. Value equality makes it usable as a
// map key.
type GridCellIndex struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (i GridCellIndex) String() string {
	return fmt.Sprintf("(%d,%d)", i.Row, i.Col)
}

// NeighborSet records which of the four grid neighbors exist for a cell.
type NeighborSet struct {
	Left  bool `json:"left"`
	Right bool `json:"right"`
	Up    bool `json:"up"`
	Down  bool `json:"down"`
}

// GridInferenceResult maps source regions to grid cells. On success the
// mapping is dense: every index in [0,Rows)x[0,Cols) has exactly one region.
type GridInferenceResult struct {
	// Cells maps region ID to its inferred cell index.
	Cells map[string]GridCellIndex `json:"cells"`
	// Adjacency records, per cell, which neighbors are present. For a dense
	// grid this is fully determined by Rows and Cols but is kept explicit so
	// consumers never re-derive it.
	Adjacency map[GridCellIndex]NeighborSet `json:"-"`
	Rows      int                           `json:"rows"`
	Cols      int                           `json:"cols"`

	// ColStep and RowStep are the accepted spacing estimates along the grid's
	// right and down axes, for diagnostics and reporting.
	ColStep float64 `json:"col_step"`
	RowStep float64 `json:"row_step"`
}

// CellPlacement is one tiled cell: its index, the single translation from
// the seed, and an optional caller-supplied label. The seed cell (0,0) has
// a zero offset.
type CellPlacement struct {
	Index  GridCellIndex `json:"index"`
	Offset Vec3          `json:"offset"`
	Label  string        `json:"label,omitempty"`
}

// GuideLineSegment is one internal seam reference line, already clipped to
// the grid's true outer boundary and extended by the requested padding.
type GuideLineSegment struct {
	Start Vec3 `json:"start"`
	End   Vec3 `json:"end"`
}

// Length returns the segment length.
func (g GuideLineSegment) Length() float64 { return g.Start.Distance(g.End) }
