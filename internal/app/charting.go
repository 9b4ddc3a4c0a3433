package app

import (
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"kanaan-quiz-service/internal/domain"
)

// RenderLeaderboardChart draws rows as a PNG bar chart. The y axis spans at least
// maxScore so an all-zero table still renders. rows must not be empty.
func RenderLeaderboardChart(w io.Writer, rows []domain.LeaderboardRow, maxScore int) error {
	top := float64(maxScore)
	bars := make([]chart.Value, 0, len(rows))
	for _, row := range rows {
		if float64(row.Score) > top {
			top = float64(row.Score)
		}
		bars = append(bars, chart.Value{
			Label: row.Name,
			Value: float64(row.Score),
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex("c8963e"),
				StrokeColor: drawing.ColorFromHex("8a5a1c"),
				StrokeWidth: 1,
			},
		})
	}
	if top <= 0 {
		top = 1
	}

	graph := chart.BarChart{
		Title:      "Van Egypte naar Kanaän",
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Width:      800,
		Height:     400,
		BarWidth:   50,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top},
		},
		Bars: bars,
	}
	return graph.Render(chart.PNG, w)
}
