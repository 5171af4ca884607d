package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/PanelGrid/internal/engine"
	"github.com/piwi3910/PanelGrid/internal/model"
	"github.com/xuri/excelize/v2"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// cellAt builds an axis-aligned 10x6 cell for grid position (row, col),
// rows growing downward from the origin.
func cellAt(row, col int) model.OrientedRect {
	const w, h = 10.0, 6.0
	x := float64(col) * w
	y := -float64(row) * h

	return model.OrientedRect{
		ID:    "cell-" + string(rune('0'+row)) + "-" + string(rune('0'+col)),
		Label: "Cell " + model.GridCellIndex{Row: row, Col: col}.String(),

		Center: model.Vec3{X: x + w/2, Y: y - h/2},

		CornerTopLeft:     model.Vec3{X: x, Y: y},
		CornerTopRight:    model.Vec3{X: x + w, Y: y},
		CornerBottomLeft:  model.Vec3{X: x, Y: y - h},
		CornerBottomRight: model.Vec3{X: x + w, Y: y - h},

		MidTop:    model.Vec3{X: x + w/2, Y: y},
		MidRight:  model.Vec3{X: x + w, Y: y - h/2},
		MidBottom: model.Vec3{X: x + w/2, Y: y - h},
		MidLeft:   model.Vec3{X: x, Y: y - h/2},

		DirRight: model.Vec3{X: 1},
		DirDown:  model.Vec3{Y: -1},

		Width:  w,
		Height: h,
		Frame:  model.XYFrame(),
	}
}

// gridFixture builds a dense rows x cols layout with a matching inference
// result and guide lines.
func gridFixture(t *testing.T, rows, cols int) ([]model.OrientedRect, model.GridInferenceResult, []model.GuideLineSegment) {
	t.Helper()

	var cells []model.OrientedRect
	grid := make([][]model.OrientedRect, rows)
	res := model.GridInferenceResult{
		Cells:     map[string]model.GridCellIndex{},
		Adjacency: map[model.GridCellIndex]model.NeighborSet{},
		Rows:      rows,
		Cols:      cols,
		ColStep:   10,
		RowStep:   6,
	}

	for r := 0; r < rows; r++ {
		grid[r] = make([]model.OrientedRect, cols)
		for c := 0; c < cols; c++ {
			cell := cellAt(r, c)
			cells = append(cells, cell)
			grid[r][c] = cell
			idx := model.GridCellIndex{Row: r, Col: c}
			res.Cells[cell.ID] = idx
			res.Adjacency[idx] = model.NeighborSet{
				Left:  c > 0,
				Right: c < cols-1,
				Up:    r > 0,
				Down:  r < rows-1,
			}
		}
	}

	guides, err := engine.BuildGuides(grid, model.XYFrame(), 2)
	if err != nil {
		t.Fatalf("BuildGuides failed: %v", err)
	}
	return cells, res, guides
}

func requireFile(t *testing.T, path string, minSize int64) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file was not created: %v", err)
	}
	if info.Size() < minSize {
		t.Errorf("file seems too small: %d bytes", info.Size())
	}
}

func TestExportDXF_CreatesFile(t *testing.T) {
	cells, _, guides := gridFixture(t, 2, 2)
	path := filepath.Join(t.TempDir(), "layout.dxf")

	if err := ExportDXF(path, cells, guides); err != nil {
		t.Fatalf("ExportDXF returned error: %v", err)
	}
	requireFile(t, path, 1)

	// Reparse: 4 cells of 4 edges plus 2 guides
	drawing, err := dxf.Open(path)
	if err != nil {
		t.Fatalf("cannot reopen exported DXF: %v", err)
	}
	lines := 0
	for _, e := range drawing.Entities() {
		if _, ok := e.(*entity.Line); ok {
			lines++
		}
	}
	if lines != 18 {
		t.Errorf("expected 18 lines, got %d", lines)
	}
}

func TestExportDXF_NoCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.dxf")
	if err := ExportDXF(path, nil, nil); err == nil {
		t.Fatal("expected error for empty layout, got nil")
	}
}

func TestExportPDF_CreatesFile(t *testing.T) {
	cells, _, guides := gridFixture(t, 2, 3)
	path := filepath.Join(t.TempDir(), "layout.pdf")

	if err := ExportPDF(path, "Test Layout", cells, guides, model.XYFrame()); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	requireFile(t, path, 500)
}

func TestExportPDF_NoCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	if err := ExportPDF(path, "Empty", nil, nil, model.XYFrame()); err == nil {
		t.Fatal("expected error for empty layout, got nil")
	}
}

func TestExportLabels_CreatesFile(t *testing.T) {
	cells, res, _ := gridFixture(t, 2, 2)
	path := filepath.Join(t.TempDir(), "labels.pdf")

	if err := ExportLabels(path, cells, res, model.XYFrame()); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
	requireFile(t, path, 500)
}

func TestExportLabels_NoCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	res := model.GridInferenceResult{Cells: map[string]model.GridCellIndex{}}
	if err := ExportLabels(path, nil, res, model.XYFrame()); err == nil {
		t.Fatal("expected error for empty layout, got nil")
	}
}

func TestExportLabels_ManyCells(t *testing.T) {
	// 5x7 exercises multi-page label generation
	cells, res, _ := gridFixture(t, 5, 7)
	path := filepath.Join(t.TempDir(), "many.pdf")

	if err := ExportLabels(path, cells, res, model.XYFrame()); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
	requireFile(t, path, 500)
}

func TestCollectLabelInfos(t *testing.T) {
	cells, res, _ := gridFixture(t, 2, 2)

	// Cells without a grid index are skipped
	stray := cellAt(0, 0)
	stray.ID = "stray"
	cells = append(cells, stray)

	labels := CollectLabelInfos(cells, res, model.XYFrame())
	if len(labels) != 4 {
		t.Fatalf("expected 4 labels, got %d", len(labels))
	}

	// Row-major ordering
	want := []model.GridCellIndex{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 0}, {Row: 1, Col: 1}}
	for i, w := range want {
		if labels[i].Row != w.Row || labels[i].Col != w.Col {
			t.Errorf("label %d: got (%d,%d), want %s", i, labels[i].Row, labels[i].Col, w)
		}
	}

	if labels[0].Width != 10 || labels[0].Height != 6 {
		t.Errorf("wrong dimensions: got %.0fx%.0f, want 10x6", labels[0].Width, labels[0].Height)
	}
	if labels[1].R != 15 || labels[1].U != -3 {
		t.Errorf("wrong center for (0,1): got (%.0f, %.0f), want (15, -3)", labels[1].R, labels[1].U)
	}
}

func TestExportReport_CreatesFile(t *testing.T) {
	cells, res, _ := gridFixture(t, 2, 2)
	path := filepath.Join(t.TempDir(), "report.xlsx")

	if err := ExportReport(path, cells, res, model.XYFrame()); err != nil {
		t.Fatalf("ExportReport returned error: %v", err)
	}
	requireFile(t, path, 1)

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("cannot reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Cells" || sheets[1] != "Adjacency" {
		t.Fatalf("unexpected sheets: %v", sheets)
	}

	rows, err := f.GetRows("Cells")
	if err != nil {
		t.Fatalf("cannot read Cells sheet: %v", err)
	}
	// header plus 4 cells
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	if rows[0][0] != "Row" || rows[0][6] != "Width (mm)" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
	// first data row is cell (0,0)
	if rows[1][0] != "0" || rows[1][1] != "0" {
		t.Errorf("expected cell (0,0) first, got row %v", rows[1])
	}

	adjRows, err := f.GetRows("Adjacency")
	if err != nil {
		t.Fatalf("cannot read Adjacency sheet: %v", err)
	}
	if len(adjRows) != 5 {
		t.Fatalf("expected 5 adjacency rows, got %d", len(adjRows))
	}
	if adjRows[1][0] != "(0,0)" {
		t.Errorf("expected first adjacency row for (0,0), got %v", adjRows[1])
	}
}

func TestExportReport_NoCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	res := model.GridInferenceResult{Cells: map[string]model.GridCellIndex{}}
	if err := ExportReport(path, nil, res, model.XYFrame()); err == nil {
		t.Fatal("expected error for empty layout, got nil")
	}
}
