package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/PanelGrid/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each cell label's QR code.
type LabelInfo struct {
	CellLabel string  `json:"label"`
	CellID    string  `json:"id"`
	Row       int     `json:"row"`
	Col       int     `json:"col"`
	Width     float64 `json:"width_mm"`
	Height    float64 `json:"height_mm"`
	R         float64 `json:"r_mm"`
	U         float64 `json:"u_mm"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10
// rows per page). Each label cell is approximately 66.7mm x 25.4mm on US
// Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels for all grid cells. Each
// label carries the cell name, size, grid position, and a QR code encoding
// the cell metadata as JSON. Labels are laid out on a standard label sheet
// format (Avery 5160 / 3 columns x 10 rows on US Letter).
func ExportLabels(path string, cells []model.OrientedRect, res model.GridInferenceResult, frame model.PlaneFrame) error {
	labels := CollectLabelInfos(cells, res, frame)
	if len(labels) == 0 {
		return fmt.Errorf("no cells to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.CellLabel, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s_%d_%d", info.CellID, info.Row, info.Col)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	// QR code on the right side of the label
	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	cellLabel := info.CellLabel
	if cellLabel == "" {
		cellLabel = info.CellID
	}
	if pdf.GetStringWidth(cellLabel) > textW {
		for len(cellLabel) > 0 && pdf.GetStringWidth(cellLabel+"...") > textW {
			cellLabel = cellLabel[:len(cellLabel)-1]
		}
		cellLabel += "..."
	}
	pdf.CellFormat(textW, 4.5, cellLabel, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%.0f x %.0f mm", info.Width, info.Height)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	gridInfo := fmt.Sprintf("Cell [%d,%d] @ (%.0f, %.0f)", info.Row, info.Col, info.R, info.U)
	pdf.CellFormat(textW, 3, gridInfo, "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)

	return nil
}

// CollectLabelInfos extracts label information for every cell that has a
// grid index, ordered row-major.
func CollectLabelInfos(cells []model.OrientedRect, res model.GridInferenceResult, frame model.PlaneFrame) []LabelInfo {
	var labels []LabelInfo
	for _, cell := range cells {
		idx, ok := res.Cells[cell.ID]
		if !ok {
			continue
		}
		center := frame.Project(cell.Center)
		labels = append(labels, LabelInfo{
			CellLabel: cell.Label,
			CellID:    cell.ID,
			Row:       idx.Row,
			Col:       idx.Col,
			Width:     cell.Width,
			Height:    cell.Height,
			R:         center.R,
			U:         center.U,
		})
	}

	sort.Slice(labels, func(i, j int) bool {
		if labels[i].Row != labels[j].Row {
			return labels[i].Row < labels[j].Row
		}
		return labels[i].Col < labels[j].Col
	})

	return labels
}
