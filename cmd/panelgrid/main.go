// Command panelgrid detects rectangular regions in a DXF or project file,
// tiles or infers their grid arrangement, and exports layouts, guide
// lines, reports, and labels.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/PanelGrid/internal/engine"
	"github.com/piwi3910/PanelGrid/internal/export"
	"github.com/piwi3910/PanelGrid/internal/importer"
	"github.com/piwi3910/PanelGrid/internal/model"
	"github.com/piwi3910/PanelGrid/internal/project"
)

func main() {
	inPath := flag.String("in", "", "Input DXF file with region outlines")
	projPath := flag.String("project", "", "Input project file (JSON)")
	savePath := flag.String("save-project", "", "Write the loaded regions and config to a project file")
	name := flag.String("name", "layout", "Project name used when saving")
	configPath := flag.String("config", "", "Engine config path (default ~/.panelgrid/config.json)")

	infer := flag.Bool("infer", false, "Infer grid indices from region positions")
	strict := flag.Bool("strict", false, "Reject grids whose spacing deviates too far from uniform")
	tile := flag.String("tile", "", "Tile the first region into a RxC grid, e.g. 3x4")
	overlapX := flag.Float64("overlap-x", 0, "Horizontal cell overlap in mm (negative for a gap)")
	overlapY := flag.Float64("overlap-y", 0, "Vertical cell overlap in mm (negative for a gap)")
	padding := flag.Float64("padding", -1, "Guide line padding beyond the grid boundary in mm (default from config)")

	outDXF := flag.String("dxf", "", "Write the layout to a DXF file")
	outPDF := flag.String("pdf", "", "Write a layout diagram PDF")
	outReport := flag.String("report", "", "Write a grid report workbook (.xlsx)")
	outLabels := flag.String("labels", "", "Write a QR label sheet PDF")
	flag.Parse()

	if *inPath == "" && *projPath == "" {
		fmt.Println("Usage: panelgrid -in <file.dxf> | -project <file.json> [-infer | -tile RxC] [outputs]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfgFile := *configPath
	if cfgFile == "" {
		cfgFile = project.DefaultConfigPath()
	}
	cfg, err := project.LoadEngineConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *strict {
		cfg.StrictIndexCheck = true
	}
	if *padding < 0 {
		*padding = cfg.GuidePadding
	}

	regions := loadRegions(*inPath, *projPath)
	fmt.Printf("Loaded %d regions\n", len(regions))

	frame := model.XYFrame()
	rects, err := engine.InspectAll(regions, frame)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Region inspection failed: %v\n", err)
		os.Exit(1)
	}

	cells := rects
	var res model.GridInferenceResult

	switch {
	case *tile != "":
		rows, cols, err := parseTile(*tile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid -tile value: %v\n", err)
			os.Exit(1)
		}
		cells, res, err = tileSeed(rects[0], rows, cols, *overlapX, *overlapY, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Tiling failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Tiled %q into a %dx%d grid\n", rects[0].Label, rows, cols)

	case *infer:
		res, err = engine.InferGrid(rects, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Grid inference failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Inferred a %dx%d grid (col step %.2f mm, row step %.2f mm)\n",
			res.Rows, res.Cols, res.ColStep, res.RowStep)
	}

	var guides []model.GuideLineSegment
	if len(res.Cells) > 0 {
		grid, err := engine.ArrangeGrid(cells, res)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to arrange grid: %v\n", err)
			os.Exit(1)
		}
		guides, err = engine.BuildGuides(grid, frame, *padding)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to build guides: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Built %d guide lines\n", len(guides))
	}

	if *outDXF != "" {
		if err := export.ExportDXF(*outDXF, cells, guides); err != nil {
			fmt.Fprintf(os.Stderr, "DXF export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *outDXF)
	}
	if *outPDF != "" {
		if err := export.ExportPDF(*outPDF, *name, cells, guides, frame); err != nil {
			fmt.Fprintf(os.Stderr, "PDF export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *outPDF)
	}
	if *outReport != "" {
		requireGrid(res, "-report")
		if err := export.ExportReport(*outReport, cells, res, frame); err != nil {
			fmt.Fprintf(os.Stderr, "Report export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *outReport)
	}
	if *outLabels != "" {
		requireGrid(res, "-labels")
		if err := export.ExportLabels(*outLabels, cells, res, frame); err != nil {
			fmt.Fprintf(os.Stderr, "Label export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *outLabels)
	}

	if *savePath != "" {
		if err := project.SaveProject(*savePath, *name, regions, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save project: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved project to %s\n", *savePath)
	}
}

// loadRegions reads regions from a project file or a DXF drawing.
func loadRegions(inPath, projPath string) []model.Region {
	if projPath != "" {
		p, err := project.LoadProject(projPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load project: %v\n", err)
			os.Exit(1)
		}
		if len(p.Regions) == 0 {
			fmt.Fprintln(os.Stderr, "Project contains no regions")
			os.Exit(1)
		}
		return p.Regions
	}

	result := importer.ImportDXF(inPath)
	for _, w := range result.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "Error: %s\n", e)
		}
		os.Exit(1)
	}
	return result.Regions
}

// parseTile parses a RxC grid size like "3x4".
func parseTile(s string) (rows, cols int, err error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected RxC, got %q", s)
	}
	rows, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid row count %q", parts[0])
	}
	cols, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid column count %q", parts[1])
	}
	return rows, cols, nil
}

// tileSeed tiles the seed rectangle and assembles the matching grid result.
func tileSeed(seed model.OrientedRect, rows, cols int, overlapX, overlapY float64, cfg model.EngineConfig) ([]model.OrientedRect, model.GridInferenceResult, error) {
	placements, err := engine.BuildGrid(seed, rows, cols, overlapX, overlapY, engine.TileOptions{
		Nudge: cfg.Nudge,
		Label: func(r, c int) string { return fmt.Sprintf("%s R%dC%d", seed.Label, r, c) },
	})
	if err != nil {
		return nil, model.GridInferenceResult{}, err
	}
	cells := engine.PlaceGrid(seed, placements)

	res := model.GridInferenceResult{
		Cells:     make(map[string]model.GridCellIndex, len(cells)),
		Adjacency: make(map[model.GridCellIndex]model.NeighborSet, len(cells)),
		Rows:      rows,
		Cols:      cols,
	}
	for i, p := range placements {
		res.Cells[cells[i].ID] = p.Index
		res.Adjacency[p.Index] = model.NeighborSet{
			Left:  p.Index.Col > 0,
			Right: p.Index.Col < cols-1,
			Up:    p.Index.Row > 0,
			Down:  p.Index.Row < rows-1,
		}
	}
	if cols > 1 {
		res.ColStep = placements[1].Offset.Length()
	}
	if rows > 1 {
		res.RowStep = placements[cols].Offset.Length()
	}
	return cells, res, nil
}

// requireGrid exits when an output that needs grid indices was requested
// without -infer or -tile.
func requireGrid(res model.GridInferenceResult, flagName string) {
	if len(res.Cells) == 0 {
		fmt.Fprintf(os.Stderr, "%s requires -infer or -tile\n", flagName)
		os.Exit(1)
	}
}
