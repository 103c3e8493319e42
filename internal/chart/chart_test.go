package chart

import (
	"bytes"
	"image/png"
	"math"
	"reflect"
	"strings"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTrendColor(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		want   string
	}{
		{"rising", []float64{1, 2, 3}, UpColor},
		{"flat counts as up", []float64{5, 1, 5}, UpColor},
		{"falling", []float64{3, 4, 2.99}, DownColor},
		{"single point", []float64{7}, UpColor},
		{"empty", nil, UpColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrendColor(tt.series); got != tt.want {
				t.Errorf("TrendColor(%v) = %s, want %s", tt.series, got, tt.want)
			}
			if got := RenderPath(tt.series, DefaultCanvas()).Color; got != tt.want {
				t.Errorf("RenderPath(%v).Color = %s, want %s", tt.series, got, tt.want)
			}
		})
	}
}

func TestRenderPath_Coordinates(t *testing.T) {
	series := []float64{10, 20, 15}
	p := RenderPath(series, Canvas{Width: 300, Height: 150, Padding: 10})

	want := []Command{
		{Op: MoveTo, X: 10, Y: 140},
		{Op: LineTo, X: 150, Y: 10},
		{Op: LineTo, X: 290, Y: 75},
	}
	if len(p.Commands) != len(want) {
		t.Fatalf("got %d commands, want %d", len(p.Commands), len(want))
	}
	for i, c := range p.Commands {
		if c.Op != want[i].Op || !almostEqual(c.X, want[i].X) || !almostEqual(c.Y, want[i].Y) {
			t.Errorf("command %d = %+v, want %+v", i, c, want[i])
		}
	}

	wantBaseline := Line{X1: 10, Y1: 140, X2: 290, Y2: 140}
	if p.Baseline != wantBaseline {
		t.Errorf("baseline = %+v, want %+v", p.Baseline, wantBaseline)
	}

	if got := p.D(); got != "M 10 140 L 150 10 L 290 75" {
		t.Errorf("D() = %q", got)
	}
}

func TestRenderPath_FlatSeries(t *testing.T) {
	p := RenderPath([]float64{4, 4, 4, 4}, DefaultCanvas())
	for i, c := range p.Commands {
		if math.IsNaN(c.Y) || math.IsInf(c.Y, 0) {
			t.Fatalf("command %d has non-finite y: %v", i, c.Y)
		}
		if !almostEqual(c.Y, DefaultHeight-DefaultPadding) {
			t.Errorf("flat series should sit on the baseline, command %d y = %v", i, c.Y)
		}
	}
}

func TestRenderPath_EdgeCases(t *testing.T) {
	empty := RenderPath(nil, DefaultCanvas())
	if len(empty.Commands) != 0 {
		t.Errorf("empty series produced %d commands", len(empty.Commands))
	}

	single := RenderPath([]float64{3}, DefaultCanvas())
	if len(single.Commands) != 1 || single.Commands[0].Op != MoveTo || single.Commands[0].X != DefaultPadding {
		t.Errorf("single point path = %+v", single.Commands)
	}
}

func TestRenderPath_Pure(t *testing.T) {
	series := []float64{12.5, 11.9, 13.1, 12.2, 14.8}
	a := RenderPath(series, DefaultCanvas())
	b := RenderPath(series, DefaultCanvas())

	if !reflect.DeepEqual(a, b) {
		t.Error("rendering the same series twice produced different paths")
	}
	if series[0] != 12.5 || series[4] != 14.8 {
		t.Error("RenderPath mutated its input")
	}
}

func TestSVG(t *testing.T) {
	p := RenderPath([]float64{3, 2, 1}, DefaultCanvas())
	svg := string(SVG(p, DefaultCanvas()))

	for _, want := range []string{
		`viewBox="0 0 300 150"`,
		`stroke="` + DownColor + `"`,
		`stroke="` + BaselineColor + `"`,
		`d="M 10 10 L 150 75 L 290 140"`,
		SyntheticNotice,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q:\n%s", want, svg)
		}
	}

	emptySVG := string(SVG(RenderPath(nil, DefaultCanvas()), DefaultCanvas()))
	if strings.Contains(emptySVG, "<path") {
		t.Error("empty series should not emit a path element")
	}
}

func TestPNG(t *testing.T) {
	p := RenderPath([]float64{1, 3, 2, 5}, DefaultCanvas())
	data, err := PNG(SVG(p, DefaultCanvas()), 600, 300)
	if err != nil {
		t.Fatalf("PNG() error = %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 600 || b.Dy() != 300 {
		t.Errorf("PNG size = %dx%d, want 600x300", b.Dx(), b.Dy())
	}
}

func TestPNG_DefaultSize(t *testing.T) {
	data, err := PNG(SVG(RenderPath([]float64{1, 2}, DefaultCanvas()), DefaultCanvas()), 0, 0)
	if err != nil {
		t.Fatalf("PNG() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != DefaultWidth || b.Dy() != DefaultHeight {
		t.Errorf("PNG size = %dx%d, want %dx%d", b.Dx(), b.Dy(), DefaultWidth, DefaultHeight)
	}
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	config := DefaultHTMLConfig()
	config.Title = "Charizard"

	if err := HTML(&buf, []float64{90, 95, 100}, 3, config); err != nil {
		t.Fatalf("HTML() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"echarts", "Charizard", "now"} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML output missing %q", want)
		}
	}
}

func TestAgeLabels(t *testing.T) {
	labels := ageLabels(30, 3)
	if labels[29] != "now" {
		t.Errorf("newest label = %q, want now", labels[29])
	}
	if labels[0] != "-87d" {
		t.Errorf("oldest label = %q, want -87d", labels[0])
	}
}
