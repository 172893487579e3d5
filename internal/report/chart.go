package report

import "github.com/me/procviz/pkg/model"

// Chart is a pixel layout of a timeline: one row per process in order of
// first appearance, one bar per segment.
type Chart struct {
	Width, Height int
	LabelWidth    int
	RowHeight     int
	AxisY         int
	Makespan      int
	Rows          []ChartRow
	Bars          []ChartBar
	Ticks         []ChartTick
}

// ChartRow is one category of the chart.
type ChartRow struct {
	Label string
	Y     int
}

// ChartBar is one segment drawn in its process's row.
type ChartBar struct {
	ProcessID  string
	Label      string
	Start, End int
	X, Y       float64
	Width      float64
	Color      string
}

// ChartTick is an axis label.
type ChartTick struct {
	Time int
	X    float64
}

const (
	chartLabelWidth = 56
	chartRowHeight  = 32
	chartAxisHeight = 24
	maxTicks        = 20
)

var palette = []string{
	"#6366f1", "#10b981", "#f59e0b", "#ef4444", "#0ea5e9",
	"#a855f7", "#14b8a6", "#f97316", "#84cc16", "#ec4899",
}

// Layout positions a run's timeline in a chart of the given total width.
func Layout(run *model.Run, width int) Chart {
	c := Chart{Width: width, LabelWidth: chartLabelWidth, RowHeight: chartRowHeight}
	if run == nil || len(run.Timeline) == 0 {
		c.Height = chartAxisHeight
		return c
	}
	c.Makespan = run.Summary.Makespan
	if c.Makespan == 0 {
		c.Makespan = run.Timeline[len(run.Timeline)-1].End
	}

	rowOf := map[string]int{}
	for _, seg := range run.Timeline {
		if _, ok := rowOf[seg.ProcessID]; !ok {
			rowOf[seg.ProcessID] = len(c.Rows)
			c.Rows = append(c.Rows, ChartRow{
				Label: "P" + seg.ProcessID,
				Y:     len(c.Rows) * chartRowHeight,
			})
		}
	}
	c.AxisY = len(c.Rows) * chartRowHeight
	c.Height = c.AxisY + chartAxisHeight

	plot := float64(width - chartLabelWidth)
	scale := plot / float64(c.Makespan)
	for _, seg := range run.Timeline {
		row := rowOf[seg.ProcessID]
		c.Bars = append(c.Bars, ChartBar{
			ProcessID: seg.ProcessID,
			Label:     "P" + seg.ProcessID,
			Start:     seg.Start,
			End:       seg.End,
			X:         float64(chartLabelWidth) + float64(seg.Start)*scale,
			Y:         float64(row*chartRowHeight) + 4,
			Width:     float64(seg.Duration()) * scale,
			Color:     palette[row%len(palette)],
		})
	}

	step := 1
	for c.Makespan/step > maxTicks {
		step *= 2
	}
	for t := 0; t <= c.Makespan; t += step {
		c.Ticks = append(c.Ticks, ChartTick{Time: t, X: float64(chartLabelWidth) + float64(t)*scale})
		if c.Makespan-t < step {
			break
		}
	}
	return c
}
