package word

import "strings"

// FontDescriptor identifies the font metrics a surface renders with.
// Implementations of Measurer interpret it; the extractor only passes
// it through.
type FontDescriptor struct {
	Family        string
	Size          float64
	LetterSpacing float64
	LineHeight    float64
}

// Measurer computes the rendered width of a string in a given font.
// Any text-shaping backend may sit behind this interface.
type Measurer interface {
	Measure(text string, font FontDescriptor) float64
}

// Point is a position in viewport coordinates.
type Point struct {
	X float64
	Y float64
}

// Geometry describes where a surface's text content sits in the viewport.
type Geometry struct {
	// ContentX/ContentY is the viewport position of the first rune.
	ContentX float64
	ContentY float64

	// ScrollX/ScrollY are the surface's internal scroll offsets.
	ScrollX float64
	ScrollY float64

	Font FontDescriptor
}

// CaretPosition returns the viewport position of the caret at the given
// rune offset. Multi-line text is handled by counting newlines before the
// caret; the X coordinate measures only the current line's prefix.
func CaretPosition(m Measurer, g Geometry, text string, caret int) Point {
	caret = ClampCaret(text, caret)
	runes := []rune(text)

	line := 0
	lineStart := 0
	for i := 0; i < caret; i++ {
		if runes[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}

	lineHeight := g.Font.LineHeight
	if lineHeight <= 0 {
		lineHeight = g.Font.Size
	}

	prefix := string(runes[lineStart:caret])
	return Point{
		X: g.ContentX + m.Measure(prefix, g.Font) - g.ScrollX,
		Y: g.ContentY + float64(line)*lineHeight - g.ScrollY,
	}
}

// MonoMeasurer measures text assuming a fixed advance per rune. It is the
// reference backend for tests and terminal hosts, where every cell is one
// unit wide.
type MonoMeasurer struct {
	// Advance is the width of one rune. Zero means 1.0.
	Advance float64
}

// Measure implements Measurer.
func (m MonoMeasurer) Measure(text string, font FontDescriptor) float64 {
	advance := m.Advance
	if advance == 0 {
		advance = 1.0
	}
	n := len([]rune(text))
	w := float64(n) * advance
	if font.LetterSpacing != 0 && n > 0 {
		w += float64(n-1) * font.LetterSpacing
	}
	// Tabs advance to the next stop of 8.
	if strings.ContainsRune(text, '\t') {
		col := 0.0
		for _, r := range text {
			if r == '\t' {
				col += 8 - float64(int(col)%8)
				continue
			}
			col += advance
		}
		w = col
	}
	return w
}
