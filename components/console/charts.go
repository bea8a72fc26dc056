package console

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "360px"

var sharedChartCache = NewChartCache(5 * time.Minute)

// ChartRenderer turns overview aggregates into embeddable chart markup.
type ChartRenderer struct {
	cache RenderCache
	theme string
}

// ChartRendererOption customizes renderer behavior.
type ChartRendererOption func(*ChartRenderer)

// WithChartCache injects a render cache.
func WithChartCache(cache RenderCache) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets a static theme (defaults to Westeros).
func WithChartTheme(theme string) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.theme = theme
	}
}

// NewChartRenderer builds a renderer with the shared TTL cache.
func NewChartRenderer(options ...ChartRendererOption) *ChartRenderer {
	r := &ChartRenderer{
		cache: sharedChartCache,
		theme: types.ThemeWesteros,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// RatingDistribution renders the star distribution bar chart.
func (r *ChartRenderer) RatingDistribution(report OverviewReport) (string, error) {
	key := chartKey("ratings", report)
	return r.cache.GetOrRender(key, func() (string, error) {
		labels := make([]string, 0, len(report.Distribution))
		data := make([]opts.BarData, 0, len(report.Distribution))
		for _, bucket := range report.Distribution {
			labels = append(labels, fmt.Sprintf("%d★", bucket.Star))
			data = append(data, opts.BarData{Value: bucket.Count})
		}
		bar := charts.NewBar()
		bar.SetGlobalOptions(r.globalChartOptions("Feedback Distribution by Star")...)
		bar.SetXAxis(labels)
		bar.AddSeries("Feedback Count", data)
		return renderChart(bar)
	})
}

// UserGrowth renders the trailing six-month signup line chart.
func (r *ChartRenderer) UserGrowth(report OverviewReport) (string, error) {
	key := chartKey("growth", report)
	return r.cache.GetOrRender(key, func() (string, error) {
		return r.monthLine("User Growth (Last 6 Months)", "New Users", report.UserGrowth)
	})
}

// ActiveUsers renders the trailing six-month active-user line chart.
func (r *ChartRenderer) ActiveUsers(report OverviewReport) (string, error) {
	key := chartKey("active", report)
	return r.cache.GetOrRender(key, func() (string, error) {
		return r.monthLine("Monthly Active Users (Last 6 Months)", "Active", report.ActiveByMonth)
	})
}

func (r *ChartRenderer) monthLine(title, series string, points []MonthPoint) (string, error) {
	labels := make([]string, 0, len(points))
	data := make([]opts.LineData, 0, len(points))
	for _, point := range points {
		labels = append(labels, point.Month)
		data = append(data, opts.LineData{Value: point.Count})
	}
	line := charts.NewLine()
	line.SetGlobalOptions(r.globalChartOptions(title)...)
	line.SetXAxis(labels)
	line.AddSeries(series, data)
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return renderChart(line)
}

func (r *ChartRenderer) globalChartOptions(title string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  r.theme,
			Width:  "100%",
			Height: defaultChartHeight,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func chartKey(kind string, report OverviewReport) string {
	return kind + ":" + string(report.Preset) + ":" + reportHash(report)
}
