package export

import (
	"fmt"

	"github.com/piwi3910/PanelGrid/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/table"
)

// Layer names used in exported DXF drawings.
const (
	layerCells  = "CELLS"
	layerGuides = "GUIDES"
)

// ExportDXF writes the grid layout to a DXF file. Cell outlines go on the
// CELLS layer and guide lines on the GUIDES layer, both in world
// coordinates so downstream CAD tools see the geometry where it actually
// sits.
func ExportDXF(path string, cells []model.OrientedRect, guides []model.GuideLineSegment) error {
	if len(cells) == 0 {
		return fmt.Errorf("no cells to export")
	}

	drawing := dxf.NewDrawing()

	if _, err := drawing.AddLayer(layerCells, color.Green, table.LT_CONTINUOUS, true); err != nil {
		return fmt.Errorf("failed to add %s layer: %w", layerCells, err)
	}
	for _, cell := range cells {
		corners := cell.Corners()
		for i := range corners {
			a := corners[i]
			b := corners[(i+1)%len(corners)]
			if _, err := drawing.Line(a.X, a.Y, a.Z, b.X, b.Y, b.Z); err != nil {
				return fmt.Errorf("failed to draw cell %q: %w", cell.Label, err)
			}
		}
	}

	if len(guides) > 0 {
		if _, err := drawing.AddLayer(layerGuides, color.Red, table.LT_CONTINUOUS, true); err != nil {
			return fmt.Errorf("failed to add %s layer: %w", layerGuides, err)
		}
		for i, g := range guides {
			if _, err := drawing.Line(g.Start.X, g.Start.Y, g.Start.Z, g.End.X, g.End.Y, g.End.Z); err != nil {
				return fmt.Errorf("failed to draw guide %d: %w", i, err)
			}
		}
	}

	if err := drawing.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}
