package exporters

import (
	"bytes"
	"encoding/csv"
	"fmt"

	roundservice "github.com/Black-And-White-Club/weighin-league/app/modules/round/application"
)

// ================ CSV Exporter ================

type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

func (e *CSVExporter) Extension() string { return "csv" }

func (e *CSVExporter) ContentType() string { return "text/csv" }

func (e *CSVExporter) Export(_ roundservice.RoundView, rows []roundservice.ResultRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(record(row)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}
