// Package render turns derived views into chart snippets and map data.
package render

import (
	"html/template"
	"strconv"
	"sync/atomic"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/render"

	"lcgrants/internal/core"
	"lcgrants/internal/views"
)

// Chart element id prefixes. The id also names a JS variable in the
// snippet, so it must be a valid identifier.
const (
	YearlyChartID   = "chart_yearly"
	TotalsChartID   = "chart_totals"
	CategoryChartID = "chart_categories"
	OrgChartID      = "chart_organisations"
)

var chartSeq atomic.Uint64

// chartID suffixes base so a chart swapped in again by HTMX never redeclares
// the previous snippet's variable.
func chartID(base string) string {
	return base + "_" + strconv.FormatUint(chartSeq.Add(1), 36)
}

// SourceColours colour the data sources in canonical order.
var SourceColours = []string{"#005344", "#78c2ad", "#DE4712"}

const (
	chartWidth  = "100%"
	chartHeight = "450px"
)

type snippetRenderer interface {
	RenderSnippet() render.ChartSnippet
}

func snippet(c snippetRenderer) template.HTML {
	s := c.RenderSnippet()
	return template.HTML(s.Element + "\n" + s.Script)
}

func yearLabels(years []int) []string {
	out := make([]string, len(years))
	for i, y := range years {
		out[i] = strconv.Itoa(y)
	}
	return out
}

// YearlyChart renders the number of grants per year as horizontal bars
// stacked by data source, with one axis tick per year.
func YearlyChart(s views.Series) template.HTML {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight, ChartID: chartID(YearlyChartID)}),
		charts.WithTitleOpts(opts.Title{Title: "Number of grants awarded per year"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithColorsOpts(opts.Colors(SourceColours)),
		charts.WithXAxisOpts(opts.XAxis{Name: "Number of grants", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Year awarded", Type: "category"}),
	)
	bar.SetXAxis(yearLabels(s.Years))
	for i, src := range s.Sources {
		data := make([]opts.BarData, len(s.Years))
		for j := range s.Years {
			data[j] = opts.BarData{Value: s.Counts[i][j]}
		}
		bar.AddSeries(src.Label(), data,
			charts.WithBarChartOpts(opts.BarChart{Stack: "sources", BarGap: "20%", BarCategoryGap: "20%"}))
	}
	bar.XYReversal()
	return snippet(bar)
}

// TotalsChart renders the amount awarded per year.
func TotalsChart(t views.Totals) template.HTML {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight, ChartID: chartID(TotalsChartID)}),
		charts.WithTitleOpts(opts.Title{Title: "Sum (GBP) of grants awarded per year"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithColorsOpts(opts.Colors{SourceColours[0]}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Year awarded"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "GBP"}),
	)
	data := make([]opts.BarData, len(t.Sums))
	for i, sum := range t.Sums {
		f, _ := sum.Round(2).Float64()
		data[i] = opts.BarData{Value: f}
	}
	bar.SetXAxis(yearLabels(t.Years)).AddSeries("Sum (GBP)", data)
	return snippet(bar)
}

// CategoryChart renders amounts per grant type as horizontal bars, with the
// grant count in the tooltip label.
func CategoryChart(b views.Breakdown) template.HTML {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight, ChartID: chartID(CategoryChartID)}),
		charts.WithTitleOpts(opts.Title{Title: "Grant types"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "GBP", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category"}),
	)
	labels := make([]string, len(b.Categories))
	data := make([]opts.BarData, len(b.Categories))
	// Largest category on top: ECharts draws category axes bottom-up.
	for i, c := range b.Categories {
		j := len(b.Categories) - 1 - i
		f, _ := c.Sum.Round(2).Float64()
		labels[j] = c.Label
		data[j] = opts.BarData{
			Name:      c.Label + " (" + core.FormatCount(c.Count) + " grants)",
			Value:     f,
			ItemStyle: &opts.ItemStyle{Color: core.MarkerColour(c.Label)},
		}
	}
	bar.SetXAxis(labels).AddSeries("Sum (GBP)", data)
	bar.XYReversal()
	return snippet(bar)
}

// IncomeColours colour the income groups of the organisation chart.
var IncomeColours = []string{"#005344", "#78c2ad", "#DE4712", "#f3bb2b", "#6a4c93", "#8d99ae"}

// OrgChart renders grants per organisation age group stacked by latest
// income group.
func OrgChart(p views.OrgProfile) template.HTML {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight, ChartID: chartID(OrgChartID)}),
		charts.WithTitleOpts(opts.Title{Title: "Grants awarded by organisation age & latest income"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithColorsOpts(opts.Colors(IncomeColours)),
		charts.WithXAxisOpts(opts.XAxis{Name: "Organisation age"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Number of grants"}),
	)
	bar.SetXAxis(p.AgeGroups)
	for i, income := range p.IncomeGroups {
		data := make([]opts.BarData, len(p.AgeGroups))
		for a := range p.AgeGroups {
			data[a] = opts.BarData{Value: p.Counts[i][a]}
		}
		bar.AddSeries(income, data, charts.WithBarChartOpts(opts.BarChart{Stack: "income"}))
	}
	return snippet(bar)
}
