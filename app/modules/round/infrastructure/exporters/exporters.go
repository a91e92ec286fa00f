// Package exporters renders settled round results into downloadable files.
package exporters

import (
	"strconv"

	roundservice "github.com/Black-And-White-Club/weighin-league/app/modules/round/application"
)

var header = []string{"Rank", "User", "Start kg", "End kg", "Loss %", "Capped %", "Points", "Suspicious"}

// record flattens a row into the column order of header.
func record(row roundservice.ResultRow) []string {
	pct := ""
	if row.PercentReal != nil {
		pct = row.PercentReal.StringFixed(3)
	}
	return []string{
		strconv.Itoa(row.Rank),
		row.UserID,
		row.StartWeightKg.StringFixed(3),
		row.EndWeightKg.StringFixed(3),
		pct,
		row.PercentCapped.StringFixed(3),
		strconv.Itoa(row.PointsAwarded),
		strconv.FormatBool(row.Suspicious),
	}
}

// All returns every supported exporter.
func All() []roundservice.Exporter {
	return []roundservice.Exporter{NewXLSXExporter(), NewCSVExporter()}
}
