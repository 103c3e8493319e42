package chart

import (
	"bytes"
	"fmt"
)

// SyntheticNotice is embedded in every export so the chart is never mistaken
// for real market history.
const SyntheticNotice = "Illustrative price trend: synthetic random walk, not market history"

// SVG serializes the path as the overlay's chart markup.
func SVG(p Path, c Canvas) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`,
		formatCoord(c.Width), formatCoord(c.Height), formatCoord(c.Width), formatCoord(c.Height))
	fmt.Fprintf(&b, `<title>%s</title>`, SyntheticNotice)

	if len(p.Commands) > 0 {
		fmt.Fprintf(&b, `<path d="%s" stroke="%s" stroke-width="2" fill="none"/>`, p.D(), p.Color)
	}
	fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"/>`,
		formatCoord(p.Baseline.X1), formatCoord(p.Baseline.Y1),
		formatCoord(p.Baseline.X2), formatCoord(p.Baseline.Y2), BaselineColor)

	b.WriteString(`</svg>`)
	return b.Bytes()
}
