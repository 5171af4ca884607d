package engine

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/piwi3910/PanelGrid/internal/model"
)

// InferGrid recovers the row/column topology of an unordered selection of
// rectangles. The regions may be rotated as a whole relative to their frame,
// jittered by construction tolerance, and overlapping; inference works in
// the first region's own axes, so a rotated grid is handled the same as an
// axis-aligned one.
//
// Fitting is tolerant (adaptive tolerances, outlier trimming, nearest-index
// rounding) but acceptance is strict: a selection that does not form a dense
// rows x cols rectangle fails with a NonRectangularError, never a patched
// grid. The pairwise sampling step is O(n^2), which is fine for the tens of
// cells seen in practice but a known limit for large selections.
func InferGrid(regions []model.OrientedRect, cfg model.EngineConfig) (model.GridInferenceResult, error) {
	if len(regions) == 0 {
		return model.GridInferenceResult{}, fmt.Errorf("%w: no regions to infer a grid from", ErrEmptyInput)
	}

	// The grid basis comes from the first region's own axes, not the
	// frame's, so inference survives arbitrary global rotation.
	basisRight := regions[0].DirRight
	basisDown := regions[0].DirDown

	// Scalar coordinates of every center along the two grid axes. Rows grow
	// along basisDown, so row 0 ends up at the top, matching the tiler.
	rs := make([]float64, len(regions))
	ds := make([]float64, len(regions))
	for i, reg := range regions {
		rs[i] = reg.Center.Dot(basisRight)
		ds[i] = reg.Center.Dot(basisDown)
	}

	spanR := floatsSpan(rs)
	spanD := floatsSpan(ds)
	tol := math.Max(cfg.SpacingTolFrac*math.Max(spanR, spanD), cfg.SpacingTolFloor)

	// Pairwise spacing samples: two centers in the same row (|dD| within
	// tolerance) contribute their in-row distance as a column-spacing
	// sample, and symmetrically for columns. Diagonal pairs fail both
	// gates and contribute nothing.
	var colSamples, rowSamples []float64
	for i := 0; i < len(regions); i++ {
		for j := i + 1; j < len(regions); j++ {
			dR := math.Abs(rs[i] - rs[j])
			dD := math.Abs(ds[i] - ds[j])
			if dD <= tol && dR > tol {
				colSamples = append(colSamples, dR)
			}
			if dR <= tol && dD > tol {
				rowSamples = append(rowSamples, dD)
			}
		}
	}
	if len(colSamples) == 0 {
		return model.GridInferenceResult{}, fmt.Errorf("%w: no column spacing samples (need at least two cells per row)", ErrDegenerateSpacing)
	}
	if len(rowSamples) == 0 {
		return model.GridInferenceResult{}, fmt.Errorf("%w: no row spacing samples (need at least two cells per column)", ErrDegenerateSpacing)
	}

	colStep := robustStep(colSamples)
	rowStep := robustStep(rowSamples)
	if colStep <= geomTol || rowStep <= geomTol {
		return model.GridInferenceResult{}, fmt.Errorf("%w: spacing estimate collapsed to zero", ErrDegenerateSpacing)
	}

	// Quantize each center to the nearest integer index. Rounding never
	// rejects a point; the density check below is where bad selections
	// fail.
	cols := make([]int, len(regions))
	rows := make([]int, len(regions))
	for i := range regions {
		cols[i] = int(math.Round(rs[i] / colStep))
		rows[i] = int(math.Round(ds[i] / rowStep))
		if cfg.StrictIndexCheck {
			devR := math.Abs(rs[i] - float64(cols[i])*colStep)
			devD := math.Abs(ds[i] - float64(rows[i])*rowStep)
			if devR > cfg.IndexDeviationFrac*colStep || devD > cfg.IndexDeviationFrac*rowStep {
				return model.GridInferenceResult{}, fmt.Errorf("%w: region %q center deviates from its grid position beyond the allowed fraction",
					ErrDegenerateSpacing, regions[i].ID)
			}
		}
	}
	normalizeToZero(rows)
	normalizeToZero(cols)

	byIndex, rowCount, colCount, dense := collectIndices(regions, rows, cols)
	if !dense {
		// One-shot sparse compaction: a selection whose indices quantized
		// with gaps (e.g. every other column of a wider grid) is still a
		// valid grid once each axis's distinct values are packed.
		compact(rows)
		compact(cols)
		byIndex, rowCount, colCount, dense = collectIndices(regions, rows, cols)
		if !dense {
			return model.GridInferenceResult{}, &NonRectangularError{
				Rows:   rowCount,
				Cols:   colCount,
				Actual: len(regions),
			}
		}
	}

	result := model.GridInferenceResult{
		Cells:     make(map[string]model.GridCellIndex, len(regions)),
		Adjacency: make(map[model.GridCellIndex]model.NeighborSet, len(regions)),
		Rows:      rowCount,
		Cols:      colCount,
		ColStep:   colStep,
		RowStep:   rowStep,
	}
	for i, reg := range regions {
		result.Cells[reg.ID] = model.GridCellIndex{Row: rows[i], Col: cols[i]}
	}
	for idx := range byIndex {
		_, left := byIndex[model.GridCellIndex{Row: idx.Row, Col: idx.Col - 1}]
		_, right := byIndex[model.GridCellIndex{Row: idx.Row, Col: idx.Col + 1}]
		_, up := byIndex[model.GridCellIndex{Row: idx.Row - 1, Col: idx.Col}]
		_, down := byIndex[model.GridCellIndex{Row: idx.Row + 1, Col: idx.Col}]
		result.Adjacency[idx] = model.NeighborSet{Left: left, Right: right, Up: up, Down: down}
	}
	return result, nil
}

// robustStep estimates the fundamental grid spacing from pairwise distance
// samples. The samples mix unit spacings with their multiples (cells two or
// more columns apart), so after the median trim discards accidental
// diagonal-scale outliers, the estimate is taken from the cluster around the
// smallest surviving sample rather than the overall median, which would land
// on a multiple for wide grids.
func robustStep(samples []float64) float64 {
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	raw := stat.Quantile(0.5, stat.Empirical, sorted, nil)

	trimmed := sorted[:0]
	for _, s := range sorted {
		if s <= 3*raw {
			trimmed = append(trimmed, s)
		}
	}
	if len(trimmed) == 0 {
		return 0
	}

	smallest := trimmed[0]
	unit := trimmed[:0]
	for _, s := range trimmed {
		if s <= 1.5*smallest {
			unit = append(unit, s)
		}
	}
	return stat.Quantile(0.5, stat.Empirical, unit, nil)
}

// collectIndices builds the index map and reports whether the indices form a
// dense rowCount x colCount rectangle with no duplicates.
func collectIndices(regions []model.OrientedRect, rows, cols []int) (map[model.GridCellIndex]int, int, int, bool) {
	byIndex := make(map[model.GridCellIndex]int, len(regions))
	rowCount, colCount := 0, 0
	dense := true
	for i := range regions {
		idx := model.GridCellIndex{Row: rows[i], Col: cols[i]}
		if _, dup := byIndex[idx]; dup {
			dense = false
			continue
		}
		byIndex[idx] = i
		if idx.Row+1 > rowCount {
			rowCount = idx.Row + 1
		}
		if idx.Col+1 > colCount {
			colCount = idx.Col + 1
		}
	}
	if rowCount*colCount != len(regions) {
		dense = false
	}
	return byIndex, rowCount, colCount, dense
}

// normalizeToZero shifts indices so the smallest becomes zero.
func normalizeToZero(idx []int) {
	if len(idx) == 0 {
		return
	}
	min := idx[0]
	for _, v := range idx[1:] {
		if v < min {
			min = v
		}
	}
	for i := range idx {
		idx[i] -= min
	}
}

// compact remaps each distinct index value to consecutive integers,
// preserving order.
func compact(idx []int) {
	distinct := make(map[int]bool, len(idx))
	for _, v := range idx {
		distinct[v] = true
	}
	values := make([]int, 0, len(distinct))
	for v := range distinct {
		values = append(values, v)
	}
	sort.Ints(values)
	remap := make(map[int]int, len(values))
	for i, v := range values {
		remap[v] = i
	}
	for i := range idx {
		idx[i] = remap[idx[i]]
	}
}

// floatsSpan returns max minus min.
func floatsSpan(vals []float64) float64 {
	min, max := vals[0], vals[0]
	for _, v := range vals[1:] {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	return max - min
}
