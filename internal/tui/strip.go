package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/cisim/internal/sim"
)

type cellKind uint8

const (
	cellBlank cellKind = iota
	cellPopulation
	cellCaptured
	cellMissed
	cellMean
)

var cellStyles = map[cellKind]lipgloss.Style{
	cellPopulation: red,
	cellCaptured:   blue,
	cellMissed:     red,
	cellMean:       white,
}

// strip is a character grid where each cell remembers what drew it so rows
// can be colored in runs.
type strip struct {
	w, h  int
	runes [][]rune
	kinds [][]cellKind
}

func newStrip(w, h int) *strip {
	s := &strip{w: w, h: h, runes: make([][]rune, h), kinds: make([][]cellKind, h)}
	for y := range s.runes {
		s.runes[y] = make([]rune, w)
		s.kinds[y] = make([]cellKind, w)
		for x := range s.runes[y] {
			s.runes[y][x] = ' '
		}
	}
	return s
}

func (s *strip) set(x, y int, c rune, k cellKind) {
	if x >= 0 && x < s.w && y >= 0 && y < s.h {
		s.runes[y][x] = c
		s.kinds[y][x] = k
	}
}

func (s *strip) drawLine(x1, y1, x2, y2 int, c rune, k cellKind) {
	dx := intAbs(x2 - x1)
	dy := intAbs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		s.set(x1, y1, c, k)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func (s *strip) rowString(y int) string {
	var b strings.Builder
	row, kinds := s.runes[y], s.kinds[y]
	for x := 0; x < s.w; {
		end := x
		for end < s.w && kinds[end] == kinds[x] {
			end++
		}
		chunk := string(row[x:end])
		if st, ok := cellStyles[kinds[x]]; ok {
			chunk = st.Render(chunk)
		}
		b.WriteString(chunk)
		x = end
	}
	return b.String()
}

func intAbs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// yRange spans every interval and the population mean.
func yRange(out *sim.Outcome) (lo, hi float64) {
	lo, hi = out.Params.PopulationMean, out.Params.PopulationMean
	for _, r := range out.Results {
		lo = math.Min(lo, r.Lower)
		hi = math.Max(hi, r.Upper)
	}
	if hi-lo < 1e-9 {
		lo, hi = lo-1, hi+1
	}
	return lo, hi
}

// renderStrip draws one vertical bar per simulation. With more simulations
// than columns several trials share a column and a miss wins.
func renderStrip(out *sim.Outcome, w, h int) string {
	if out == nil || len(out.Results) == 0 || w < 1 || h < 2 {
		return ""
	}
	s := newStrip(w, h)
	lo, hi := yRange(out)
	row := func(v float64) int {
		return int(math.Round((hi - v) / (hi - lo) * float64(h-1)))
	}
	n := len(out.Results)
	col := func(i int) int {
		if n <= w {
			return i*w/n + w/(2*n)
		}
		return i * w / n
	}

	popRow := row(out.Params.PopulationMean)
	s.drawLine(0, popRow, w-1, popRow, '┄', cellPopulation)

	for _, pass := range []bool{true, false} {
		for i, r := range out.Results {
			if r.Captured != pass {
				continue
			}
			k := cellMissed
			if r.Captured {
				k = cellCaptured
			}
			s.drawLine(col(i), row(r.Upper), col(i), row(r.Lower), '│', k)
		}
	}
	if n <= w {
		for i, r := range out.Results {
			s.set(col(i), row(r.SampleMean), '•', cellMean)
		}
	}

	labels := make([]string, h)
	labels[0] = fmt.Sprintf("%7.1f", hi)
	labels[h-1] = fmt.Sprintf("%7.1f", lo)
	if popRow > 0 && popRow < h-1 {
		labels[popRow] = fmt.Sprintf("%7.1f", out.Params.PopulationMean)
	}

	var b strings.Builder
	for y := 0; y < h; y++ {
		label := labels[y]
		if label == "" {
			label = strings.Repeat(" ", 7)
		}
		b.WriteString(dim.Render(label) + dimmer.Render(" ┤") + s.rowString(y) + "\n")
	}
	return b.String()
}
