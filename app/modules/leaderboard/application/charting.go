package leaderboardservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	gamedb "github.com/Black-And-White-Club/weighin-league/app/modules/game/infrastructure/repositories"
	weighindb "github.com/Black-And-White-Club/weighin-league/app/modules/weighin/infrastructure/repositories"
	"github.com/Black-And-White-Club/weighin-league/app/shared/operation"
	"github.com/google/uuid"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette holds the colors of rendered charts.
type ChartPalette struct {
	Background  drawing.Color
	PrimaryLine drawing.Color
	AccentLine  drawing.Color
	TextColor   drawing.Color
}

var DefaultPalette = ChartPalette{
	Background:  drawing.ColorFromHex("0f1a14"),
	PrimaryLine: drawing.ColorFromHex("3fa46a"),
	AccentLine:  drawing.ColorFromHex("e0b341"),
	TextColor:   drawing.ColorFromHex("e8efe9"),
}

// RenderWeightChart only ever draws the viewer's own weigh-ins.
func (s *LeaderboardService) RenderWeightChart(ctx context.Context, gameID uuid.UUID, viewerID string) (ChartResult, error) {
	return operation.WithTelemetry(s.runner, ctx, "RenderWeightChart", gameID.String(), func(ctx context.Context) (ChartResult, error) {
		if _, err := s.members.GetMember(ctx, nil, gameID, viewerID); err != nil {
			if errors.Is(err, gamedb.ErrNotFound) {
				return results.FailureResult[*ChartView, error](ErrNotMember), nil
			}
			return ChartResult{}, err
		}

		weighIns, err := s.weighIns.ListByGameUser(ctx, nil, gameID, viewerID)
		if err != nil {
			return ChartResult{}, err
		}

		png, err := GenerateWeightChart(weighIns, s.palette)
		if err != nil {
			return ChartResult{}, fmt.Errorf("failed to render weight chart: %w", err)
		}
		return results.SuccessResult[*ChartView, error](&ChartView{
			FileName:    fmt.Sprintf("weight-%s.png", gameID),
			ContentType: "image/png",
			Data:        png,
		}), nil
	})
}

// GenerateWeightChart produces a PNG line chart of weigh-ins ordered by time.
func GenerateWeightChart(weighIns []weighindb.WeighIn, palette ChartPalette) ([]byte, error) {
	// go-chart needs at least two points to draw a line.
	if len(weighIns) < 2 {
		return renderNoDataPlaceholder(palette)
	}

	xValues := make([]time.Time, len(weighIns))
	yValues := make([]float64, len(weighIns))
	for i, w := range weighIns {
		xValues[i] = w.TakenAt
		yValues[i] = w.WeightKg.InexactFloat64()
	}

	mainSeries := chart.TimeSeries{
		Name:    "Weight",
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: palette.PrimaryLine,
			StrokeWidth: 2,
			DotWidth:    4,
			DotColor:    palette.AccentLine,
		},
	}

	graph := chart.Chart{
		Width:  800,
		Height: 400,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
		},
		YAxis: chart.YAxis{
			Name: "Weight (kg)",
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
		},
		Series: []chart.Series{mainSeries},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// renderNoDataPlaceholder draws directly on a renderer because chart.Chart refuses
// to render without a visible series.
func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "Not enough weigh-ins yet"
	)

	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}

	chart.Draw.Box(r, chart.Box{Top: 0, Left: 0, Right: width, Bottom: height}, chart.Style{
		FillColor:   palette.Background,
		StrokeColor: palette.Background,
		StrokeWidth: 1,
	})

	r.SetFont(font)
	r.SetFontColor(palette.TextColor)
	r.SetFontSize(12.0)
	tb := r.MeasureText(msg)
	r.Text(msg, (width-tb.Width())/2, (height+tb.Height())/2)

	buffer := bytes.NewBuffer([]byte{})
	if err := r.Save(buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
