package textwrap

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth float64
		opts     Options
		want     []string
	}{
		{"empty", "", 100, Summary(), nil},
		{"whitespace only", "   \t ", 100, Summary(), nil},
		{"fits", "HTTP Basics", 180, Summary(), []string{"HTTP Basics"}},
		{"greedy", "Introduction to Distributed Systems Design", 180, Summary(),
			[]string{"Introduction to", "Distributed Systems", "Design"}},
		{"exact fit", "abcd efgh", 72, Summary(), []string{"abcd efgh"}},
		{"one over", "abcd efgh", 71, Summary(), []string{"abcd", "efgh"}},
		{"collapses spaces", "a   b", 100, Summary(), []string{"a b"}},
		{"hard split", "Supercalifragilistic", 80, Summary(), []string{"Supercalif", "ragilistic"}},
		{"hard split remainder", "abcdefghijkl is long", 40, Summary(),
			[]string{"abcde", "fghij", "kl", "is", "long"}},
		{"narrower than a char", "ab", 4, Summary(), []string{"a", "b"}},
		{"line cap", "a b c d e f", 8, Navigation(), []string{"a", "b", "c"}},
		{"unbounded", "a b c d e f", 8, Summary(), []string{"a", "b", "c", "d", "e", "f"}},
		{"custom char width", "abc def", 30, Options{CharWidth: 10}, []string{"abc", "def"}},
		{"runes not bytes", "çalışma alanı", 7 * 8, Summary(), []string{"çalışma", "alanı"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.text, tt.maxWidth, tt.opts)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Wrap(%q, %v) = %q, want %q", tt.text, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestWrapNeverOverflows(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	letters := []rune("abcdefghijklmnopqrstuvwxyzçğış")

	for i := 0; i < 500; i++ {
		var words []string
		for j := rng.Intn(12); j >= 0; j-- {
			w := make([]rune, 1+rng.Intn(30))
			for k := range w {
				w[k] = letters[rng.Intn(len(letters))]
			}
			words = append(words, string(w))
		}
		text := strings.Join(words, " ")
		maxWidth := float64(8 + rng.Intn(300))
		opts := Summary()

		lines := Wrap(text, maxWidth, opts)
		for _, l := range lines {
			if opts.Width(l) > maxWidth {
				t.Fatalf("Wrap(%q, %v): line %q is %v wide", text, maxWidth, l, opts.Width(l))
			}
		}

		// Without hard splits, wrapping only re-flows whitespace.
		perLine := int(maxWidth / DefaultCharWidth)
		split := false
		for _, w := range words {
			if utf8.RuneCountInString(w) > perLine {
				split = true
			}
		}
		if !split && strings.Join(lines, " ") != text {
			t.Fatalf("Wrap(%q, %v) lost words: %q", text, maxWidth, lines)
		}
	}
}

func TestWrapLineCap(t *testing.T) {
	text := strings.Repeat("word ", 40)
	for _, maxLines := range []int{1, 2, 3, 7} {
		got := Wrap(text, 100, Options{MaxLines: maxLines})
		if len(got) != maxLines {
			t.Errorf("MaxLines=%d: got %d lines", maxLines, len(got))
		}
	}
}

func TestPlace(t *testing.T) {
	got := Place([]string{"a", "b", "c"}, 50, 100, 16)
	want := []Line{
		{Text: "a", X: 50, Y: 84},
		{Text: "b", X: 50, Y: 100},
		{Text: "c", X: 50, Y: 116},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Place() = %+v, want %+v", got, want)
	}

	single := Place([]string{"x"}, 0, 25, 14)
	if single[0].Y != 25 {
		t.Errorf("single line Y = %v, want 25", single[0].Y)
	}

	if Place(nil, 0, 0, 10) != nil {
		t.Error("Place(nil) should be nil")
	}
}
