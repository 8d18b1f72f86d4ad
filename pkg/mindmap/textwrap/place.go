package textwrap

// Line is one wrapped line positioned at its centre point. Hosts draw it
// centred horizontally and vertically on (X, Y).
type Line struct {
	Text string  `json:"text" msgpack:"t"`
	X    float64 `json:"x" msgpack:"x"`
	Y    float64 `json:"y" msgpack:"y"`
}

// Place stacks lines so the block is vertically centred on (cx, cy).
func Place(lines []string, cx, cy, lineHeight float64) []Line {
	if len(lines) == 0 {
		return nil
	}
	total := float64(len(lines)) * lineHeight
	startY := cy - total/2 + lineHeight/2

	out := make([]Line, len(lines))
	for i, s := range lines {
		out[i] = Line{Text: s, X: cx, Y: startY + float64(i)*lineHeight}
	}
	return out
}
