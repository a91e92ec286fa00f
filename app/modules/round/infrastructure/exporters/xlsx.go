package exporters

import (
	"bytes"
	"fmt"

	roundservice "github.com/Black-And-White-Club/weighin-league/app/modules/round/application"
	"github.com/xuri/excelize/v2"
)

// ================ XLSX Exporter ================

type XLSXExporter struct{}

func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

func (e *XLSXExporter) Extension() string { return "xlsx" }

func (e *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *XLSXExporter) Export(round roundservice.RoundView, rows []roundservice.ResultRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Results"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetCellValue(sheet, "A1", round.Title); err != nil {
		return nil, fmt.Errorf("failed to write title: %w", err)
	}
	period := fmt.Sprintf("%s - %s", round.StartAt.Format("2006-01-02 15:04"), round.EndAt.Format("2006-01-02 15:04"))
	if err := f.SetCellValue(sheet, "A2", period); err != nil {
		return nil, fmt.Errorf("failed to write period: %w", err)
	}

	if err := writeRow(f, sheet, 4, header); err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := writeRow(f, sheet, 5+i, record(row)); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(sheet, "B", "B", 24); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write XLSX: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to resolve row %d: %w", rowNum, err)
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}
