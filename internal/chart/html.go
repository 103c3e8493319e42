package chart

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// HTMLConfig holds the options of the interactive chart page
type HTMLConfig struct {
	Title  string // Card name shown as the chart title
	Width  string // e.g. "900px"
	Height string // e.g. "450px"
	Theme  string
}

// DefaultHTMLConfig returns default interactive chart options
func DefaultHTMLConfig() HTMLConfig {
	return HTMLConfig{
		Title:  "Price trend",
		Width:  "900px",
		Height: "450px",
		Theme:  "light",
	}
}

// HTML renders series as a standalone interactive line chart page.
// Points are labelled by approximate age in days, assuming a 30-day month.
func HTML(w io.Writer, series []float64, months int, config HTMLConfig) error {
	line := charts.NewLine()

	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: SyntheticNotice,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithColorsOpts(opts.Colors{
			TrendColor(series),
		}),
	)

	labels := ageLabels(len(series), months)

	yData := make([]opts.LineData, len(series))
	for i, v := range series {
		yData[i] = opts.LineData{Value: math.Round(v*100) / 100}
	}

	line.SetXAxis(labels).
		AddSeries("Price (USD)", yData).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{
				Smooth: opts.Bool(false),
			}),
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func ageLabels(n, months int) []string {
	labels := make([]string, n)
	if n == 0 {
		return labels
	}
	daysPerPoint := 0.0
	if n > 1 {
		daysPerPoint = float64(months*30) / float64(n)
	}
	for i := range labels {
		age := int(math.Round(float64(n-1-i) * daysPerPoint))
		if age == 0 {
			labels[i] = "now"
		} else {
			labels[i] = fmt.Sprintf("-%dd", age)
		}
	}
	return labels
}
