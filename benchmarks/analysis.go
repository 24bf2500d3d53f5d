package benchmarks

import (
	"os"
	"path"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PlotCurves writes a line plot of one or more named series to
// <plotPath>/<name>.png. The x axis is the series index.
func PlotCurves(plotPath, name, xLabel, yLabel string,
	seriesNames []string, series [][]float64) error {
	if _, err := os.Stat(plotPath); err != nil {
		os.MkdirAll(plotPath, os.ModePerm)
	}
	p := plot.New()
	p.Title.Text = name
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	for i := 0; i < len(seriesNames); i++ {
		values := series[i]
		points := make(plotter.XYs, len(values))
		for j, v := range values {
			points[j] = plotter.XY{
				X: float64(j + 1),
				Y: v,
			}
		}
		line, err := plotter.NewLine(points)
		if err != nil {
			continue
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(seriesNames[i], line)
	}
	return p.Save(8*vg.Inch, 8*vg.Inch, path.Join(plotPath, name+".png"))
}
