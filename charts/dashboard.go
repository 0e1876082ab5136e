package charts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"mcc-sewer-dashboard/analytics"
	"mcc-sewer-dashboard/services"
)

func countBar(title, series string, counts []analytics.Count) *charts.Bar {
	labels := make([]string, len(counts))
	data := make([]opts.BarData, len(counts))
	for i, c := range counts {
		labels[i] = c.Label
		data[i] = opts.BarData{Value: c.Count}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))
	bar.SetXAxis(labels).AddSeries(series, data)
	return bar
}

func countPie(title string, counts []analytics.Count) *charts.Pie {
	data := make([]opts.PieData, 0, len(counts))
	for _, c := range counts {
		if c.Count > 0 {
			data = append(data, opts.PieData{Name: c.Label, Value: c.Count})
		}
	}
	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))
	pie.AddSeries(title, data)
	return pie
}

func histogramBar(title string, bins []analytics.Bin) *charts.Bar {
	labels := make([]string, len(bins))
	data := make([]opts.BarData, len(bins))
	for i, b := range bins {
		labels[i] = fmt.Sprintf("%.1f-%.1f", b.Lower, b.Upper)
		data[i] = opts.BarData{Value: b.Count}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))
	bar.SetXAxis(labels).AddSeries("Frequency", data)
	return bar
}

func lengthBar(title string, stats []services.LengthStats) *charts.Bar {
	labels := make([]string, len(stats))
	data := make([]opts.BarData, len(stats))
	for i, s := range stats {
		labels[i] = s.Label
		data[i] = opts.BarData{Value: s.Total}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))
	bar.SetXAxis(labels).AddSeries("Total Length (m)", data)
	return bar
}

// Dashboard renders the overview charts of the summary, material and pipe
// views as one HTML page.
func Dashboard(w io.Writer, summary services.SummaryView, materials services.MaterialView, pipes services.PipeView) error {
	page := components.NewPage()
	page.AddCharts(
		countBar("Manhole Condition Distribution", "Count", summary.Conditions),
		countBar("Material Composition", "Count", summary.Materials),
		countPie("Condition Ratio", summary.Conditions),
		histogramBar("Connection Distribution", summary.ConnectionHistogram),
		countPie("Cover Type Distribution", summary.CoverTypes),
		countBar("Cover Types", "Count", materials.CoverTypes),
		lengthBar("Length by Material", pipes.MaterialLengths),
		histogramBar("Pipe Length Distribution", pipes.LengthHistogram),
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return nil
}
