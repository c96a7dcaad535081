// Package xlsx renders assessment history as a spreadsheet.
package xlsx

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

const (
	SheetName   = "Assessments"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var header = []any{
	"Assessed at", "Notice", "Eligibility", "Fail reason", "Traffic light", "Relevance",
	"Estimated score", "Matching keywords", "Summary", "Mode", "Engine",
}

// Exporter serves assessment history as an .xlsx download.
type Exporter struct{}

func (Exporter) ContentType() string { return ContentType }

func (Exporter) FileName() string { return "assessments.xlsx" }

func (Exporter) Export(w io.Writer, items []domain.Assessment) error {
	return WriteAssessments(w, items)
}

// WriteAssessments writes one row per assessment in the order given.
func WriteAssessments(w io.Writer, items []domain.Assessment) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, a := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			a.CreatedAt.UTC().Format("2006-01-02 15:04"),
			a.NoticeTitle,
			string(a.Result.EligibilityCheck.Status),
			a.Result.EligibilityCheck.FailReason,
			string(a.Result.FinalVerdict.TrafficLight),
			a.Result.QualitativeFit.RelevanceScore,
			a.Result.QuantitativePrediction.EstimatedScore,
			strings.Join(a.Result.QualitativeFit.MatchingKeywords, ", "),
			a.Result.FinalVerdict.Summary,
			string(a.Mode),
			a.Engine,
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 18); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "B", "B", 40); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "I", "I", 60); err != nil {
		return err
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
