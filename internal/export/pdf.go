// Package export writes grid layouts to DXF drawings, PDF diagrams, Excel
// reports, and QR-coded cell label sheets.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/PanelGrid/internal/model"
)

// cellColor represents an RGB fill color for a drawn cell.
type cellColor struct {
	R, G, B int
}

var cellColors = []cellColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF renders the grid layout as a PDF. The first page holds a
// scale-to-fit diagram of the cells and guide lines projected into the
// frame plane, the second a table of every cell.
func ExportPDF(path, title string, cells []model.OrientedRect, guides []model.GuideLineSegment, frame model.PlaneFrame) error {
	if len(cells) == 0 {
		return fmt.Errorf("no cells to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderLayoutPage(pdf, title, cells, guides, frame)

	pdf.AddPage()
	renderCellTable(pdf, cells)

	return pdf.OutputFileAndClose(path)
}

// planeBounds returns the frame-plane bounding box of all cell corners and
// guide endpoints.
func planeBounds(cells []model.OrientedRect, guides []model.GuideLineSegment, frame model.PlaneFrame) (minP, maxP model.Point2D) {
	minP = model.Point2D{R: math.Inf(1), U: math.Inf(1)}
	maxP = model.Point2D{R: math.Inf(-1), U: math.Inf(-1)}
	grow := func(p model.Point2D) {
		minP.R = math.Min(minP.R, p.R)
		minP.U = math.Min(minP.U, p.U)
		maxP.R = math.Max(maxP.R, p.R)
		maxP.U = math.Max(maxP.U, p.U)
	}
	for _, c := range cells {
		for _, v := range c.Corners() {
			grow(frame.Project(v))
		}
	}
	for _, g := range guides {
		grow(frame.Project(g.Start))
		grow(frame.Project(g.End))
	}
	return minP, maxP
}

// renderLayoutPage draws the scale-to-fit grid diagram on the current page.
func renderLayoutPage(pdf *fpdf.Fpdf, title string, cells []model.OrientedRect, guides []model.GuideLineSegment, frame model.PlaneFrame) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	minP, maxP := planeBounds(cells, guides, frame)
	spanR := maxP.R - minP.R
	spanU := maxP.U - minP.U

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Cells: %d | Guides: %d | Extent: %.1f x %.1f mm",
		len(cells), len(guides), spanR, spanU)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - 10

	scale := 1.0
	if spanR > 0 && spanU > 0 {
		scale = math.Min(drawWidth/spanR, drawHeight/spanU)
	}

	canvasW := spanR * scale
	canvasH := spanU * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Frame U grows up, PDF Y grows down
	toPage := func(p model.Point2D) (float64, float64) {
		return offsetX + (p.R-minP.R)*scale, offsetY + (maxP.U-p.U)*scale
	}

	for i, cell := range cells {
		col := cellColors[i%len(cellColors)]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)

		pts := make([]fpdf.PointType, 0, 4)
		for _, v := range cell.Corners() {
			x, y := toPage(frame.Project(v))
			pts = append(pts, fpdf.PointType{X: x, Y: y})
		}
		pdf.Polygon(pts, "FD")

		pw := cell.Width * scale
		ph := cell.Height * scale
		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			label := cell.Label
			if label == "" {
				label = cell.ID
			}
			cx, cy := toPage(frame.Project(cell.Center))
			labelW := pdf.GetStringWidth(label)
			if labelW < pw-2 {
				pdf.SetXY(cx-labelW/2, cy-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}

			dims := fmt.Sprintf("%.0fx%.0f", cell.Width, cell.Height)
			dimsW := pdf.GetStringWidth(dims)
			if ph > 14 && dimsW < pw-2 {
				pdf.SetXY(cx-dimsW/2, cy)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.4)
	for _, g := range guides {
		x1, y1 := toPage(frame.Project(g.Start))
		x2, y2 := toPage(frame.Project(g.End))
		pdf.Line(x1, y1, x2, y2)
	}

	drawExtentAnnotations(pdf, spanR, spanU, offsetX, offsetY, canvasW, canvasH)
}

// drawExtentAnnotations adds overall width and height labels outside the
// diagram.
func drawExtentAnnotations(pdf *fpdf.Fpdf, spanR, spanU, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.1f mm", spanR)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%.1f mm", spanU)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// renderCellTable draws the per-cell breakdown table.
func renderCellTable(pdf *fpdf.Fpdf, cells []model.OrientedRect) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cell Breakdown", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	colWidths := []float64{15, 60, 35, 35, 35, 35}
	headers := []string{"#", "Label", "Width", "Height", "Angle", "ID"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, cell := range cells {
		if y > pageHeight-marginBottom-6 {
			pdf.AddPage()
			y = marginTop
		}

		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			cell.Label,
			fmt.Sprintf("%.1f mm", cell.Width),
			fmt.Sprintf("%.1f mm", cell.Height),
			fmt.Sprintf("%.1f\xb0", cell.AngleToFrameRight*180/math.Pi),
			cell.ID,
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cellText := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cellText, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}
}

// labelFontSize returns an appropriate font size based on the rectangle
// dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
