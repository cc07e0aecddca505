// Package export renders measured locations as spreadsheets.
package export

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/room-measurements/internal/entity"
)

// RoomsSheet is the sheet every workbook writes its rows to.
const RoomsSheet = "Rooms"

// Input is one processed source, e.g. one file of a batch run.
type Input struct {
	Source    string
	Locations []entity.Location
	Degraded  bool
}

// Service produces XLSX bytes for measurement results.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// LocationsXLSX returns a workbook with one row per room.
func LocationsXLSX(locs []entity.Location) ([]byte, error) {
	return NewService(nil).ExportXLSX([]Input{{Locations: locs}})
}

var headers = []string{
	"Source",
	"Location",
	"Room",
	"Height (ft)",
	"Wall Area (sqft)",
	"Ceiling Area (sqft)",
	"Floor Area (sqft)",
	"Walls & Ceiling (sqft)",
	"Flooring (sy)",
	"Ceiling Perimeter (lf)",
	"Floor Perimeter (lf)",
	"Openings",
	"Confidence",
	"Fallback",
	"Notes",
}

// ExportXLSX writes the rooms of every input to the Rooms sheet, in input order.
func (s *Service) ExportXLSX(inputs []Input) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	// replace the default Sheet1 so the workbook opens on Rooms
	if err := f.SetSheetName(f.GetSheetName(0), RoomsSheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	f.SetActiveSheet(0)

	for i, h := range headers {
		s.setCell(f, i+1, 1, h)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		err = f.SetCellStyle(RoomsSheet, "A1", last, style)
	}
	s.layout("header_style", err)

	row := 2
	for _, in := range inputs {
		for _, loc := range in.Locations {
			for _, r := range loc.Rooms {
				write := func(col int, v any) { s.setCell(f, col, row, v) }
				m := r.Measurements
				write(1, in.Source)
				write(2, loc.Location)
				write(3, r.Name)
				if m.HeightLabel != "" {
					write(4, fmt.Sprintf("%v (%s)", m.Height, m.HeightLabel))
				} else {
					write(4, m.Height)
				}
				write(5, m.WallAreaSqft)
				write(6, m.CeilingAreaSqft)
				write(7, m.FloorAreaSqft)
				write(8, m.WallsAndCeilingAreaSqft)
				write(9, m.FlooringAreaSy)
				write(10, m.CeilingPerimeterLf)
				write(11, m.FloorPerimeterLf)
				write(12, truncate(openingsSummary(m.Openings), 200))

				notes := []string{}
				if in.Degraded {
					notes = append(notes, "degraded run")
				}
				if p := r.Provenance; p != nil {
					write(13, p.Confidence)
					write(14, p.Fallback)
					if p.EstimatedOpenings {
						notes = append(notes, "openings estimated")
					}
					notes = append(notes, p.Warnings...)
				}
				write(15, truncate(strings.Join(notes, "; "), 200))
				row++
			}
		}
	}

	s.layout("col_width", f.SetColWidth(RoomsSheet, "A", "A", 40)) // source
	s.layout("col_width", f.SetColWidth(RoomsSheet, "B", "C", 22)) // location, room
	s.layout("col_width", f.SetColWidth(RoomsSheet, "D", "K", 14)) // figures
	s.layout("col_width", f.SetColWidth(RoomsSheet, "L", "L", 60)) // openings
	s.layout("col_width", f.SetColWidth(RoomsSheet, "O", "O", 48)) // notes
	s.layout("panes", f.SetPanes(RoomsSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}))

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"inputs", len(inputs),
		"rows", row-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// setCell writes v at (col, row) of the Rooms sheet. A failed cell is logged
// and left empty rather than failing the whole workbook.
func (s *Service) setCell(f *excelize.File, col, row int, v any) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err == nil {
		err = f.SetCellValue(RoomsSheet, cell, v)
	}
	if err != nil {
		s.logger.Warn("export.xlsx.cell_failed", "col", col, "row", row, "err", err)
	}
}

// layout logs styling errors; the data is still usable without them.
func (s *Service) layout(step string, err error) {
	if err != nil {
		s.logger.Warn("export.xlsx.layout_failed", "step", step, "err", err)
	}
}

// SortBySource orders inputs by source for a stable workbook when they were
// collected from concurrent workers.
func SortBySource(inputs []Input) []Input {
	sort.SliceStable(inputs, func(i, j int) bool { return inputs[i].Source < inputs[j].Source })
	return inputs
}

func openingsSummary(ops []entity.OpeningSize) string {
	parts := make([]string, 0, len(ops))
	for _, op := range ops {
		s := op.Type + " " + op.Size
		if op.OpensInto != "" {
			s += " into " + op.OpensInto
		}
		if op.IsExternal {
			s += " (ext)"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
