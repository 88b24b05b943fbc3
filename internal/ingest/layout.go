package ingest

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

// LayoutOptions tune layout mode.
type LayoutOptions struct {
	// SpaceVertically inserts blank lines for large vertical gaps.
	SpaceVertically bool
	// ScaleWeight multiplies the estimated character width; larger values
	// compress horizontal spacing.
	ScaleWeight float64
	// StripRotated drops text that is not upright.
	StripRotated bool
}

const (
	wordGapRatio   = 0.15
	lineSpacing    = 1.2
	sameLineRatio  = 0.3
	minLineTolUnit = 1.0

	// padding caps; coordinates come from the document and are not trusted
	maxColumnGap  = 120
	maxBlankLines = 8
)

// readingAxes maps a run into its own reading frame: u grows along the
// text direction, v grows upward from the baseline.
func readingAxes(r textRun) (u, v float64) {
	switch r.Orientation {
	case 90:
		return r.Y, -r.X
	case 180:
		return -r.X, -r.Y
	case 270:
		return -r.Y, r.X
	default:
		return r.X, r.Y
	}
}

func wantOrientation(orientations []int, o int) bool {
	if len(orientations) == 0 {
		return true
	}
	for _, want := range orientations {
		if ((want%360)+360)%360 == o {
			return true
		}
	}
	return false
}

// composePlain joins runs in content order, breaking lines when the
// baseline moves and adding a space for visible gaps.
func composePlain(runs []textRun, orientations []int) string {
	var b strings.Builder
	var prev *textRun
	for i := range runs {
		r := runs[i]
		if !wantOrientation(orientations, r.Orientation) {
			continue
		}
		if prev != nil {
			pu, pv := readingAxes(*prev)
			u, v := readingAxes(r)
			size := math.Max(prev.Size, r.Size)
			switch {
			case prev.Orientation != r.Orientation || math.Abs(v-pv) > size*0.5:
				b.WriteByte('\n')
			case u-(pu+prev.Width) > size*wordGapRatio && !endsWithSpace(prev.Text) && !startsWithSpace(r.Text):
				b.WriteByte(' ')
			}
		}
		b.WriteString(r.Text)
		prev = &runs[i]
	}
	return b.String()
}

type layoutLine struct {
	y    float64
	size float64
	runs []textRun
}

// composeLayout rebuilds rows and columns from run positions on a fixed
// character grid.
func composeLayout(runs []textRun, opts LayoutOptions) string {
	kept := make([]textRun, 0, len(runs))
	for _, r := range runs {
		if opts.StripRotated && r.Orientation != 0 {
			continue
		}
		if strings.TrimSpace(r.Text) == "" && r.Width <= 0 {
			continue
		}
		kept = append(kept, r)
	}
	if len(kept) == 0 {
		return ""
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Y != kept[j].Y {
			return kept[i].Y > kept[j].Y
		}
		return kept[i].X < kept[j].X
	})

	var lines []*layoutLine
	for _, r := range kept {
		if n := len(lines); n > 0 {
			cur := lines[n-1]
			tol := math.Max(sameLineRatio*math.Max(cur.size, r.Size), minLineTolUnit)
			if math.Abs(cur.y-r.Y) <= tol {
				cur.runs = append(cur.runs, r)
				cur.size = math.Max(cur.size, r.Size)
				continue
			}
		}
		lines = append(lines, &layoutLine{y: r.Y, size: r.Size, runs: []textRun{r}})
	}

	charWidth := estimateCharWidth(kept)
	weight := opts.ScaleWeight
	if weight <= 0 {
		weight = 1
	}
	charWidth *= weight

	minX := kept[0].X
	for _, r := range kept {
		minX = math.Min(minX, r.X)
	}

	var out strings.Builder
	for i, line := range lines {
		if i > 0 {
			out.WriteByte('\n')
			if opts.SpaceVertically {
				prev := lines[i-1]
				height := math.Max(prev.size, line.size) * lineSpacing
				if height > 0 {
					blanks := min(int(math.Round((prev.y-line.y)/height))-1, maxBlankLines)
					for ; blanks > 0; blanks-- {
						out.WriteByte('\n')
					}
				}
			}
		}
		out.WriteString(renderLine(line.runs, minX, charWidth))
	}
	return strings.TrimRight(out.String(), "\n ")
}

func renderLine(runs []textRun, minX, charWidth float64) string {
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].X < runs[j].X })

	var b strings.Builder
	col := 0
	for i, r := range runs {
		target := col + maxColumnGap
		if offset := (r.X - minX) / charWidth; offset < float64(target) {
			target = int(math.Round(offset))
		}
		switch {
		case target > col:
			b.WriteString(strings.Repeat(" ", target-col))
			col = target
		case i > 0:
			prev := runs[i-1]
			gap := r.X - (prev.X + prev.Width)
			if gap > math.Max(prev.Size, r.Size)*wordGapRatio && !endsWithSpace(prev.Text) && !startsWithSpace(r.Text) {
				b.WriteByte(' ')
				col++
			}
		}
		b.WriteString(r.Text)
		col += utf8.RuneCountInString(r.Text)
	}
	return strings.TrimRight(b.String(), " ")
}

// estimateCharWidth averages advance per character over all runs.
func estimateCharWidth(runs []textRun) float64 {
	var width float64
	var chars int
	var sizes []float64
	for _, r := range runs {
		if n := utf8.RuneCountInString(r.Text); n > 0 && r.Width > 0 {
			width += r.Width
			chars += n
		}
		if r.Size > 0 {
			sizes = append(sizes, r.Size)
		}
	}
	if chars > 0 && width > 0 {
		return width / float64(chars)
	}
	if len(sizes) > 0 {
		sort.Float64s(sizes)
		return sizes[len(sizes)/2] * defaultGlyphWidth / 1000
	}
	return 5
}

func endsWithSpace(s string) bool {
	return strings.HasSuffix(s, " ")
}

func startsWithSpace(s string) bool {
	return strings.HasPrefix(s, " ")
}
