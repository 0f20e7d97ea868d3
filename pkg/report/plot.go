package report

import (
	"fmt"
	"image/color"
	"io"
	"sort"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	_ "gonum.org/v1/plot/vg/vgimg" // png backend
)

// ChartFile is the name the class distribution chart is saved under.
const ChartFile = "class_distribution.png"

// PlotClassDistribution renders a grouped bar chart of class counts in the
// train and test partitions as PNG into w.
func PlotClassDistribution(w io.Writer, target string, train, test map[int]int) error {
	classes := make([]int, 0, len(train))
	for c := range train {
		classes = append(classes, c)
	}
	for c := range test {
		if _, ok := train[c]; !ok {
			classes = append(classes, c)
		}
	}
	sort.Ints(classes)

	trainVals := make(plotter.Values, len(classes))
	testVals := make(plotter.Values, len(classes))
	names := make([]string, len(classes))
	for i, c := range classes {
		trainVals[i] = float64(train[c])
		testVals[i] = float64(test[c])
		names[i] = strconv.Itoa(c)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s distribution", target)
	p.Y.Label.Text = "rows"

	width := vg.Points(20)
	trainBars, err := plotter.NewBarChart(trainVals, width)
	if err != nil {
		return err
	}
	trainBars.Color = color.RGBA{R: 66, G: 133, B: 244, A: 255}
	trainBars.Offset = -width / 2

	testBars, err := plotter.NewBarChart(testVals, width)
	if err != nil {
		return err
	}
	testBars.Color = color.RGBA{R: 219, G: 68, B: 55, A: 255}
	testBars.Offset = width / 2

	p.Add(trainBars, testBars)
	p.Legend.Add("train", trainBars)
	p.Legend.Add("test", testBars)
	p.Legend.Top = true
	p.NominalX(names...)

	wt, err := p.WriterTo(4*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
