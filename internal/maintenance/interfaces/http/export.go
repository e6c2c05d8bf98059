package http

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	maintenance "station-console/internal/maintenance/domain"
)

var exportHeader = []string{"malfunction_id", "report_id", "state", "station", "description"}

func exportRow(view maintenance.MalfunctionView) []string {
	return []string{
		strconv.FormatInt(view.ID, 10),
		strconv.FormatInt(view.ReportID, 10),
		string(view.State),
		view.StationLabel(),
		view.Description,
	}
}

// BuildMalfunctionsCSV renders the list view as CSV.
func BuildMalfunctionsCSV(rows []maintenance.MalfunctionView) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := writer.Write(exportRow(row)); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildMalfunctionsXLSX renders the list view as a single-sheet workbook.
func BuildMalfunctionsXLSX(rows []maintenance.MalfunctionView) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "malfunctions"
	f.SetSheetName("Sheet1", sheet)
	for i, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(sheet, cell, title)
	}
	for i, row := range rows {
		line := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", line), row.ID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", line), row.ReportID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", line), row.State.Label())
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", line), row.StationLabel())
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", line), row.Description)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildMalfunctionsPDF renders the list view as a landscape table.
func BuildMalfunctionsPDF(rows []maintenance.MalfunctionView, generated time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Reported Malfunctions")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", generated.UTC().Format(time.RFC3339)))
	pdf.Ln(8)

	widths := []float64{20, 20, 30, 70, 137}
	titles := []string{"ID", "Report", "Status", "Station", "Description"}
	pdf.SetFont("Arial", "B", 10)
	for i, title := range titles {
		pdf.CellFormat(widths[i], 6, title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 9)
	for _, row := range rows {
		pdf.CellFormat(widths[0], 6, strconv.FormatInt(row.ID, 10), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[1], 6, strconv.FormatInt(row.ReportID, 10), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6, row.State.Label(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, tr(truncate(row.StationLabel(), 40)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 6, tr(truncate(row.Description, 80)), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
