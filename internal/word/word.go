// Package word provides word-boundary and caret-position computation for
// text surfaces. All functions are pure and operate on rune offsets.
package word

import "unicode"

// Span describes the word surrounding a caret position.
// Offsets are rune offsets into the source text.
type Span struct {
	// Prefix is the text from WordStart up to the caret (but never past
	// WordEnd). This is what gets sent to the completion engine.
	Prefix string

	// WordStart is the offset of the first rune of the word.
	WordStart int

	// WordEnd is the offset one past the last rune of the word.
	WordEnd int
}

// IsEmpty returns true if the span contains no word.
func (s Span) IsEmpty() bool {
	return s.WordStart == s.WordEnd
}

// Len returns the length of the word in runes.
func (s Span) Len() int {
	return s.WordEnd - s.WordStart
}

// Separator reports whether a rune terminates a word.
// By default any unicode whitespace separates words.
type Separator func(r rune) bool

// Whitespace is the default separator class.
func Whitespace(r rune) bool {
	return unicode.IsSpace(r)
}

// At computes the word span surrounding caret in text using the default
// whitespace separator class.
func At(text string, caret int) Span {
	return AtFunc(text, caret, Whitespace)
}

// AtFunc computes the word span surrounding caret using a custom separator
// class. The caret is clamped to [0, len(text)] in runes. At a boundary
// (start of text, or between two separators) the returned span is empty
// with WordStart == WordEnd == caret.
func AtFunc(text string, caret int, sep Separator) Span {
	if sep == nil {
		sep = Whitespace
	}

	runes := []rune(text)
	if caret < 0 {
		caret = 0
	}
	if caret > len(runes) {
		caret = len(runes)
	}

	start := caret
	for start > 0 && !sep(runes[start-1]) {
		start--
	}

	end := caret
	for end < len(runes) && !sep(runes[end]) {
		end++
	}

	prefixEnd := caret
	if prefixEnd > end {
		prefixEnd = end
	}

	return Span{
		Prefix:    string(runes[start:prefixEnd]),
		WordStart: start,
		WordEnd:   end,
	}
}

// ClampCaret clamps a caret offset to the valid range for text.
func ClampCaret(text string, caret int) int {
	if caret < 0 {
		return 0
	}
	if n := len([]rune(text)); caret > n {
		return n
	}
	return caret
}
