// Package textwrap breaks node labels into lines that fit a pixel width.
//
// Widths are approximated with a fixed per-character advance instead of real
// font metrics, so results are identical in every host (SVG, Graphviz,
// terminal). Wrapping is greedy: words are packed onto a line until the next
// one would overflow. A word that is wider than the whole line on its own is
// hard-split into chunks that fit.
//
// Wrapping only positions text; it never feeds back into node geometry.
package textwrap

import (
	"strings"
	"unicode/utf8"
)

// DefaultCharWidth is the approximate advance of one character, in pixels.
const DefaultCharWidth = 8.0

// NavigationMaxLines caps labels in the navigation diagram so text never
// spills out of its node.
const NavigationMaxLines = 3

// Options controls wrapping.
type Options struct {
	// CharWidth is the per-character advance. Zero means DefaultCharWidth.
	CharWidth float64

	// MaxLines truncates the result. Zero or negative means unbounded.
	MaxLines int
}

// Navigation returns the options used by the navigation diagram.
func Navigation() Options {
	return Options{CharWidth: DefaultCharWidth, MaxLines: NavigationMaxLines}
}

// Summary returns the options used by the summary diagram (no line cap).
func Summary() Options {
	return Options{CharWidth: DefaultCharWidth}
}

func (o Options) charWidth() float64 {
	if o.CharWidth <= 0 {
		return DefaultCharWidth
	}
	return o.CharWidth
}

// Width returns the approximate rendered width of s.
func (o Options) Width(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * o.charWidth()
}

// Wrap splits text into lines no wider than maxWidth.
//
// Whitespace runs collapse to single spaces. Every chunk of a hard-split word
// gets its own line. If maxWidth is narrower than one character, chunks hold a
// single character and overflow.
func Wrap(text string, maxWidth float64, opts Options) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	cw := opts.charWidth()
	perLine := max(1, int(maxWidth/cw))

	var lines []string
	var cur strings.Builder
	curLen := 0

	flush := func() {
		if curLen > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, w := range words {
		n := utf8.RuneCountInString(w)

		if n > perLine {
			flush()
			lines = append(lines, split(w, perLine)...)
			continue
		}

		if curLen > 0 && curLen+1+n > perLine {
			flush()
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(w)
		curLen += n
	}
	flush()

	if opts.MaxLines > 0 && len(lines) > opts.MaxLines {
		lines = lines[:opts.MaxLines]
	}
	return lines
}

// split cuts w into chunks of at most n runes.
func split(w string, n int) []string {
	var chunks []string
	runes := []rune(w)
	for len(runes) > n {
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return append(chunks, string(runes))
}
