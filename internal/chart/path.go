// Package chart turns a price series into the vector path drawn in the
// overlay's chart region, and exports it as SVG, PNG or interactive HTML.
package chart

import (
	"strconv"
	"strings"
)

// Panel canvas defaults, matching the overlay's 300x150 viewBox
const (
	DefaultWidth   = 300
	DefaultHeight  = 150
	DefaultPadding = 10
)

// Stroke colors
const (
	UpColor       = "#2ecc71"
	DownColor     = "#e74c3c"
	BaselineColor = "#ddd"
)

// Canvas describes the drawing surface in user units
type Canvas struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding float64 `json:"padding"`
}

// DefaultCanvas returns the overlay's chart surface
func DefaultCanvas() Canvas {
	return Canvas{Width: DefaultWidth, Height: DefaultHeight, Padding: DefaultPadding}
}

// Op is a path drawing operation
type Op string

const (
	MoveTo Op = "M"
	LineTo Op = "L"
)

// Command is a single path step
type Command struct {
	Op Op      `json:"op"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Line is a straight segment
type Line struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Path is the full chart: the price polyline, its stroke color and the baseline.
type Path struct {
	Commands []Command `json:"commands"`
	Color    string    `json:"color"`
	Baseline Line      `json:"baseline"`
}

// D renders the polyline as SVG path data ("M x y L x y ...")
func (p Path) D() string {
	var b strings.Builder
	for i, c := range p.Commands {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(string(c.Op))
		b.WriteByte(' ')
		b.WriteString(formatCoord(c.X))
		b.WriteByte(' ')
		b.WriteString(formatCoord(c.Y))
	}
	return b.String()
}

// TrendColor picks the up color when the series ends at or above its start
func TrendColor(series []float64) string {
	if len(series) == 0 || series[len(series)-1] >= series[0] {
		return UpColor
	}
	return DownColor
}

// RenderPath maps series onto the canvas with a linear scale over the
// series' own min and max. It keeps no state; the same input always gives
// the same path.
func RenderPath(series []float64, canvas Canvas) Path {
	w, h, pad := canvas.Width, canvas.Height, canvas.Padding

	path := Path{
		Color:    TrendColor(series),
		Baseline: Line{X1: pad, Y1: h - pad, X2: w - pad, Y2: h - pad},
	}
	if len(series) == 0 {
		return path
	}

	minVal, maxVal := series[0], series[0]
	for _, v := range series[1:] {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	valueRange := maxVal - minVal
	if valueRange == 0 {
		valueRange = 1
	}

	n := len(series)
	x := func(i int) float64 {
		if n == 1 {
			return pad
		}
		return pad + float64(i)/float64(n-1)*(w-2*pad)
	}
	y := func(v float64) float64 {
		return h - pad - (v-minVal)/valueRange*(h-2*pad)
	}

	path.Commands = make([]Command, n)
	for i, v := range series {
		op := LineTo
		if i == 0 {
			op = MoveTo
		}
		path.Commands[i] = Command{Op: op, X: x(i), Y: y(v)}
	}
	return path
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
