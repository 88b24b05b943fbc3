package ingest

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// glyph advance used when a font carries no width table, in 1/1000 em
const defaultGlyphWidth = 500.0

// textRun is one shown string placed in device space.
type textRun struct {
	Text        string
	X, Y        float64
	Width       float64
	Size        float64
	Orientation int
}

// matrix is a PDF affine transform [a b c d e f].
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

// mul returns m×n in PDF's row-vector convention.
func (m matrix) mul(n matrix) matrix {
	return matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

func translate(tx, ty float64) matrix {
	return matrix{1, 0, 0, 1, tx, ty}
}

type fontState struct {
	enc       pdf.TextEncoding
	first     int
	widths    []float64
	hasWidths bool
}

func (f *fontState) width(code int) float64 {
	if !f.hasWidths {
		return defaultGlyphWidth
	}
	i := code - f.first
	if i < 0 || i >= len(f.widths) || f.widths[i] == 0 {
		return defaultGlyphWidth
	}
	return f.widths[i]
}

type textState struct {
	ctm    matrix
	tm     matrix
	tlm    matrix
	font   *fontState
	size   float64
	charSp float64
	wordSp float64
	scale  float64
	lead   float64
	rise   float64
}

// pageRuns walks every content stream of the page and returns the shown
// strings in content order.
func pageRuns(p pdf.Page) (runs []textRun, err error) {
	defer func() {
		if r := recover(); r != nil {
			runs = nil
			err = fmt.Errorf("content stream: %v", r)
		}
	}()

	fonts := make(map[string]*fontState)
	loadFont := func(name string) *fontState {
		if f, ok := fonts[name]; ok {
			return f
		}
		font := p.Font(name)
		f := &fontState{enc: font.Encoder()}
		if w := font.Widths(); len(w) > 0 {
			f.first = font.FirstChar()
			f.widths = w
			f.hasWidths = true
		}
		fonts[name] = f
		return f
	}

	st := textState{ctm: identity, tm: identity, tlm: identity, scale: 1}
	var saved []matrix

	nextLine := func(tx, ty float64) {
		st.tlm = translate(tx, ty).mul(st.tlm)
		st.tm = st.tlm
	}

	show := func(raw string) {
		if raw == "" {
			return
		}
		text := raw
		if st.font != nil && st.font.enc != nil {
			text = st.font.enc.Decode(raw)
		}

		var advance float64
		singleByte := utf8.RuneCountInString(text) == len(raw)
		if singleByte && st.font != nil {
			for i := 0; i < len(raw); i++ {
				w := st.font.width(int(raw[i])) / 1000 * st.size
				advance += (w + st.charSp) * st.scale
				if raw[i] == ' ' {
					advance += st.wordSp * st.scale
				}
			}
		} else {
			for range text {
				advance += (defaultGlyphWidth/1000*st.size + st.charSp) * st.scale
			}
		}

		trm := matrix{st.size * st.scale, 0, 0, st.size, 0, st.rise}.mul(st.tm).mul(st.ctm)
		device := st.tm.mul(st.ctm)
		if text != "" {
			runs = append(runs, textRun{
				Text:        text,
				X:           trm[4],
				Y:           trm[5],
				Width:       advance * math.Hypot(device[0], device[1]),
				Size:        math.Hypot(trm[2], trm[3]),
				Orientation: orientationOf(trm),
			})
		}
		st.tm = translate(advance, 0).mul(st.tm)
	}

	do := func(stk *pdf.Stack, op string) {
		n := stk.Len()
		args := make([]pdf.Value, n)
		for i := n - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}
		num := func(i int) float64 {
			if i < len(args) {
				return args[i].Float64()
			}
			return 0
		}

		switch op {
		case "q":
			saved = append(saved, st.ctm)
		case "Q":
			if len(saved) > 0 {
				st.ctm = saved[len(saved)-1]
				saved = saved[:len(saved)-1]
			}
		case "cm":
			if n == 6 {
				st.ctm = matrix{num(0), num(1), num(2), num(3), num(4), num(5)}.mul(st.ctm)
			}
		case "BT":
			st.tm, st.tlm = identity, identity
		case "Tf":
			if n == 2 {
				st.font = loadFont(args[0].Name())
				st.size = num(1)
			}
		case "Tc":
			st.charSp = num(0)
		case "Tw":
			st.wordSp = num(0)
		case "Tz":
			st.scale = num(0) / 100
		case "TL":
			st.lead = num(0)
		case "Ts":
			st.rise = num(0)
		case "Td":
			nextLine(num(0), num(1))
		case "TD":
			st.lead = -num(1)
			nextLine(num(0), num(1))
		case "Tm":
			if n == 6 {
				st.tm = matrix{num(0), num(1), num(2), num(3), num(4), num(5)}
				st.tlm = st.tm
			}
		case "T*":
			nextLine(0, -st.lead)
		case "Tj":
			if n == 1 {
				show(args[0].RawString())
			}
		case "'":
			nextLine(0, -st.lead)
			if n == 1 {
				show(args[0].RawString())
			}
		case "\"":
			if n == 3 {
				st.wordSp = num(0)
				st.charSp = num(1)
				nextLine(0, -st.lead)
				show(args[2].RawString())
			}
		case "TJ":
			if n != 1 {
				return
			}
			arr := args[0]
			for i := 0; i < arr.Len(); i++ {
				v := arr.Index(i)
				if v.Kind() == pdf.String {
					show(v.RawString())
					continue
				}
				st.tm = translate(-v.Float64()/1000*st.size*st.scale, 0).mul(st.tm)
			}
		}
	}

	contents := p.V.Key("Contents")
	switch contents.Kind() {
	case pdf.Array:
		for i := 0; i < contents.Len(); i++ {
			pdf.Interpret(contents.Index(i), do)
		}
	case pdf.Stream:
		pdf.Interpret(contents, do)
	}
	return runs, nil
}

// orientationOf snaps the text direction of trm to 0, 90, 180 or 270 degrees.
func orientationOf(trm matrix) int {
	deg := math.Atan2(trm[1], trm[0]) * 180 / math.Pi
	snapped := int(math.Round(deg/90)) * 90
	return ((snapped % 360) + 360) % 360
}
