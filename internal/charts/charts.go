// Package charts renders catalogue statistics as interactive HTML charts.
package charts

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ramonehamilton/grimorio/internal/catalog"
)

// ChartConfig holds presentation options.
type ChartConfig struct {
	Title      string
	Subtitle   string
	SeriesName string
	Width      string // e.g. "900px"
	Height     string
	Theme      string
	Color      string
}

// DefaultChartConfig returns the configuration used by the school chart.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Title:      "Spells per school",
		SeriesName: "Spells",
		Width:      "900px",
		Height:     "500px",
		Theme:      "light",
		Color:      "#9A60B4",
	}
}

// DataPoint is one labelled bar.
type DataPoint struct {
	Label string
	Value float64
}

// SchoolPoints converts school counts into chart data, keeping their order.
func SchoolPoints(counts []catalog.SchoolCount) []DataPoint {
	points := make([]DataPoint, len(counts))
	for i, c := range counts {
		points[i] = DataPoint{Label: c.School, Value: float64(c.Count)}
	}
	return points
}

// NewBarChart builds a bar chart of data.
func NewBarChart(data []DataPoint, config ChartConfig) *charts.Bar {
	bar := charts.NewBar()

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: config.Title,
			Width:     config.Width,
			Height:    config.Height,
			Theme:     config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithColorsOpts(opts.Colors{config.Color}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: 30, Interval: "0"},
		}),
	)

	xLabels := make([]string, len(data))
	yData := make([]opts.BarData, len(data))
	for i, point := range data {
		xLabels[i] = point.Label
		yData[i] = opts.BarData{Value: point.Value}
	}

	bar.SetXAxis(xLabels).
		AddSeries(config.SeriesName, yData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:     opts.Bool(true),
				Position: "top",
			}),
		)

	return bar
}

// RenderBarChart writes a bar chart page to w.
func RenderBarChart(w io.Writer, data []DataPoint, config ChartConfig) error {
	if len(data) == 0 {
		return errors.New("no data to chart")
	}
	if err := NewBarChart(data, config).Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// RenderBarChartFile writes a bar chart page to outputPath.
func RenderBarChartFile(data []DataPoint, config ChartConfig, outputPath string) (err error) {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return RenderBarChart(f, data, config)
}

// OpenInBrowser opens the given file path in the default web browser.
func OpenInBrowser(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", absPath)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", absPath)
	case "linux":
		cmd = exec.Command("xdg-open", absPath)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
