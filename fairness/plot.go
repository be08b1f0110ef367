package fairness

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/fairgo-ml/fairgo/pkg/errors"
)

// PlotGroupRates renders the per-group true-positive rates of an audit as a
// bar chart annotated with the DEO, saved to path. The format follows the
// file extension (.png, .svg, .pdf).
func PlotGroupRates(report *AuditReport, path string) error {
	if report == nil {
		return errors.NewValueError("fairness.PlotGroupRates", "nil report")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Equal opportunity by group (DEO = %.4f)", report.DEO)
	p.Y.Label.Text = "true-positive rate"
	p.Y.Min, p.Y.Max = 0, 1

	bars, err := plotter.NewBarChart(plotter.Values{report.A.TPR, report.B.TPR}, vg.Points(40))
	if err != nil {
		return errors.Wrap(err, "fairness.PlotGroupRates")
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = color.RGBA{R: 70, G: 130, B: 180, A: 255}

	p.Add(bars)
	p.NominalX("group A", "group B")

	if err := p.Save(4*vg.Inch, 3*vg.Inch, path); err != nil {
		return errors.Wrap(err, "fairness.PlotGroupRates")
	}
	return nil
}

// PlotDEOComparison renders the per-group true-positive rates before and
// after correction side by side, saved to path.
func PlotDEOComparison(before, after *AuditReport, path string) error {
	if before == nil || after == nil {
		return errors.NewValueError("fairness.PlotDEOComparison", "nil report")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("DEO %.4f -> %.4f", before.DEO, after.DEO)
	p.Y.Label.Text = "true-positive rate"
	p.Y.Min, p.Y.Max = 0, 1

	w := vg.Points(25)

	barsBefore, err := plotter.NewBarChart(plotter.Values{before.A.TPR, before.B.TPR}, w)
	if err != nil {
		return errors.Wrap(err, "fairness.PlotDEOComparison")
	}
	barsBefore.LineStyle.Width = vg.Length(0)
	barsBefore.Color = color.RGBA{R: 178, G: 34, B: 34, A: 255}
	barsBefore.Offset = -w / 2

	barsAfter, err := plotter.NewBarChart(plotter.Values{after.A.TPR, after.B.TPR}, w)
	if err != nil {
		return errors.Wrap(err, "fairness.PlotDEOComparison")
	}
	barsAfter.LineStyle.Width = vg.Length(0)
	barsAfter.Color = color.RGBA{R: 34, G: 139, B: 34, A: 255}
	barsAfter.Offset = w / 2

	p.Add(barsBefore, barsAfter)
	p.Legend.Add("before", barsBefore)
	p.Legend.Add("after", barsAfter)
	p.Legend.Top = true
	p.NominalX("group A", "group B")

	if err := p.Save(5*vg.Inch, 3*vg.Inch, path); err != nil {
		return errors.Wrap(err, "fairness.PlotDEOComparison")
	}
	return nil
}
