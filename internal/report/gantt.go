package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/me/procviz/pkg/model"
)

// cellWidth is the minimum width of one Gantt cell, borders excluded.
const cellWidth = 6

// Gantt prints the timeline as a row of labelled cells with boundary
// times beneath. Idle gaps are shown as "idle" cells.
//
//	|  P1  |  P2  | idle |  P3  |
//	0      5      8      10     18
func Gantt(w io.Writer, timeline []model.Segment) {
	fmt.Fprintln(w, "Gantt schedule")
	if len(timeline) == 0 {
		fmt.Fprintln(w, "(empty)")
		return
	}

	type cell struct {
		label      string
		start, end int
	}
	var cells []cell
	clock := timeline[0].Start
	if clock > 0 {
		cells = append(cells, cell{"idle", 0, clock})
	}
	for _, seg := range timeline {
		if seg.Start > clock {
			cells = append(cells, cell{"idle", clock, seg.Start})
		}
		cells = append(cells, cell{"P" + seg.ProcessID, seg.Start, seg.End})
		clock = seg.End
	}

	var bar, axis strings.Builder
	bar.WriteString("|")
	for _, c := range cells {
		width := max(cellWidth, len(c.label)+2)
		pad := width - len(c.label)
		bar.WriteString(strings.Repeat(" ", pad/2) + c.label + strings.Repeat(" ", pad-pad/2) + "|")

		tick := strconv.Itoa(c.start)
		axis.WriteString(tick + strings.Repeat(" ", max(1, width+1-len(tick))))
	}
	axis.WriteString(strconv.Itoa(cells[len(cells)-1].end))

	fmt.Fprintln(w, bar.String())
	fmt.Fprintln(w, axis.String())
}
