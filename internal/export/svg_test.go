package export

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/vlasim/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 1) != "" {
		t.Error("expected empty output for nil canvas")
	}

	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	svg := CanvasToSVG(c, 4)

	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if !strings.Contains(svg, `cx="2.0" cy="2.0"`) || !strings.Contains(svg, `cx="14.0" cy="14.0"`) {
		t.Errorf("unexpected dot positions:\n%s", svg)
	}
}

func TestSeriesToSVG(t *testing.T) {
	times := []float64{0, 1, 2}
	svg := SeriesToSVG(times, []Series{
		{Name: "energy", Color: "#00ff88", Values: []float64{1, 2, 3}},
		{Name: "field", Color: "#ff00ff", Values: []float64{0, math.NaN(), 1}},
	}, 200, 100)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an svg document:\n%s", svg)
	}
	if n := strings.Count(svg, "<path"); n != 2 {
		t.Errorf("expected 2 paths, got %d", n)
	}
	if !strings.Contains(svg, ">energy</text>") {
		t.Error("missing legend")
	}
	// The NaN sample lifts the pen, so the field curve has two move commands.
	field := svg[strings.Index(svg, `stroke="#ff00ff"`):]
	field = field[:strings.Index(field, "/>")]
	if n := strings.Count(field, "M"); n != 2 {
		t.Errorf("expected 2 moves in field path, got %d: %s", n, field)
	}
}

func TestSeriesToSVGDegenerate(t *testing.T) {
	if SeriesToSVG([]float64{0}, []Series{{Values: []float64{1}}}, 10, 10) != "" {
		t.Error("expected empty output for a single sample")
	}
	if SeriesToSVG([]float64{0, 1}, []Series{{Values: []float64{math.NaN(), math.Inf(1)}}}, 10, 10) != "" {
		t.Error("expected empty output without finite samples")
	}
}
