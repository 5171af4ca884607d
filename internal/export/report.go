package export

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/PanelGrid/internal/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names used in the exported workbook.
const (
	sheetCells     = "Cells"
	sheetAdjacency = "Adjacency"
)

// ExportReport writes an Excel workbook describing the inferred grid. The
// Cells sheet lists every cell row-major with its position and size, the
// Adjacency sheet which neighbors each cell has.
func ExportReport(path string, cells []model.OrientedRect, res model.GridInferenceResult, frame model.PlaneFrame) error {
	if len(cells) == 0 {
		return fmt.Errorf("no cells to export")
	}

	ordered := make([]model.OrientedRect, 0, len(cells))
	for _, c := range cells {
		if _, ok := res.Cells[c.ID]; ok {
			ordered = append(ordered, c)
		}
	}
	if len(ordered) == 0 {
		return fmt.Errorf("no cells with grid indices to export")
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := res.Cells[ordered[i].ID], res.Cells[ordered[j].ID]
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	})

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetCells); err != nil {
		return fmt.Errorf("failed to name %s sheet: %w", sheetCells, err)
	}

	if err := writeRow(f, sheetCells, 1,
		"Row", "Col", "Label", "ID", "R (mm)", "U (mm)", "Width (mm)", "Height (mm)", "Angle (deg)"); err != nil {
		return err
	}
	for i, cell := range ordered {
		idx := res.Cells[cell.ID]
		center := frame.Project(cell.Center)
		if err := writeRow(f, sheetCells, i+2,
			idx.Row, idx.Col, cell.Label, cell.ID,
			center.R, center.U, cell.Width, cell.Height,
			cell.AngleToFrameRight*180/math.Pi); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(sheetAdjacency); err != nil {
		return fmt.Errorf("failed to add %s sheet: %w", sheetAdjacency, err)
	}
	if err := writeRow(f, sheetAdjacency, 1,
		"Cell", "Left", "Right", "Up", "Down"); err != nil {
		return err
	}
	for i, cell := range ordered {
		idx := res.Cells[cell.ID]
		n := res.Adjacency[idx]
		if err := writeRow(f, sheetAdjacency, i+2,
			idx.String(), n.Left, n.Right, n.Up, n.Down); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeRow sets one worksheet row starting at column A.
func writeRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	for j, v := range values {
		cellRef, err := excelize.CoordinatesToCellName(j+1, row)
		if err != nil {
			return fmt.Errorf("failed to create cell reference: %w", err)
		}
		if err := f.SetCellValue(sheet, cellRef, v); err != nil {
			return fmt.Errorf("failed to set cell value: %w", err)
		}
	}
	return nil
}
