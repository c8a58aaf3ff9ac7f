// Package report renders an HTML summary of extracted feature tables so a
// dataset can be eyeballed before classifier training.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/jfcrenshaw/icetop-muons/internal/shower"
)

// RenderHTML writes a one-page report to w: a scatter of the muon signal
// against the band-selected charge per primary class, and a bar chart of
// the per-run mean charge. Both inputs are optional; an empty slice simply
// produces an empty chart.
func RenderHTML(w io.Writer, perShower, perRun []shower.FeatureRow) error {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Shower Features", Width: "900px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Muon signal vs band charge",
			Subtitle: fmt.Sprintf("showers=%d", len(perShower)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "charge_sum (VEM)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "muon_vem_sum", NameLocation: "middle", NameGap: 30}),
	)

	for _, label := range []string{shower.LabelProton, shower.LabelIron} {
		var data []opts.ScatterData
		for _, r := range perShower {
			if r.PrimaryType != label {
				continue
			}
			data = append(data, opts.ScatterData{Value: []float64{r.ChargeSum, r.MuonVEMSum}})
		}
		scatter.AddSeries(label, data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}))
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Per-run mean charge",
			Subtitle: fmt.Sprintf("runs=%d", len(perRun)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	x := make([]string, len(perRun))
	y := make([]opts.BarData, len(perRun))
	for i, r := range perRun {
		x[i] = strconv.FormatInt(r.Run, 10)
		y[i] = opts.BarData{Value: r.ChargeSum}
	}
	bar.SetXAxis(x).AddSeries("charge_sum", y)

	page := components.NewPage()
	page.AddCharts(scatter, bar)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
