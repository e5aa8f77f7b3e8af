package export

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spacesedan/brandvoice/internal/models"
)

// missingBar is how echarts marks an absent data point.
const missingBar = "-"

func percent(f float64) float64 {
	return math.Round(f*10000) / 100
}

func sovChart(sov []models.BrandShare) *charts.Bar {
	brandNames := make([]string, 0, len(sov))
	items := make([]opts.BarData, 0, len(sov))
	for _, s := range sov {
		brandNames = append(brandNames, s.Brand)
		items = append(items, opts.BarData{Value: percent(s.Share)})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Top Brands by Share of Voice"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Share of Voice (%)"}),
	)
	bar.SetXAxis(brandNames).AddSeries("SoV", items)
	return bar
}

func spvChart(spv []models.BrandSentimentShare) *charts.Bar {
	brandNames := make([]string, 0, len(spv))
	items := make([]opts.BarData, 0, len(spv))
	for _, s := range spv {
		brandNames = append(brandNames, s.Brand)
		if !s.SPV.Valid {
			items = append(items, opts.BarData{Value: missingBar})
			continue
		}
		items = append(items, opts.BarData{Value: percent(s.SPV.Value)})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Share of Positive Voice by Brand"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Share of Positive Voice (%)"}),
	)
	bar.SetXAxis(brandNames).AddSeries("SPV", items,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "green"}))
	return bar
}

// RenderCharts writes one HTML page holding the SoV and SPV bar charts.
func RenderCharts(w io.Writer, sov []models.BrandShare, spv []models.BrandSentimentShare) error {
	page := components.NewPage()
	page.PageTitle = "Brand Voice Charts"
	page.AddCharts(sovChart(sov), spvChart(spv))

	if err := page.Render(w); err != nil {
		return fmt.Errorf("[Export] failed to render charts: %w", err)
	}
	return nil
}

func WriteCharts(path string, sov []models.BrandShare, spv []models.BrandSentimentShare) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("[Export] failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := RenderCharts(f, sov, spv); err != nil {
		return err
	}
	return f.Close()
}
