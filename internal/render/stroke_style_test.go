package render

import (
	"strings"
	"testing"

	"github.com/kfirzuberi/convertflow/internal/graphics"
	"github.com/kfirzuberi/convertflow/internal/writer"
)

func TestStrokeLineCap(t *testing.T) {
	cases := []struct {
		attrs map[string]string
		want  graphics.LineCap
	}{
		{map[string]string{}, graphics.LineCapButt},
		{map[string]string{"StrokeEndLineCap": "Round"}, graphics.LineCapRound},
		{map[string]string{"StrokeEndLineCap": "Square"}, graphics.LineCapSquare},
		{map[string]string{"StrokeStartLineCap": "Round"}, graphics.LineCapRound},
		{map[string]string{"StrokeEndLineCap": "Flat"}, graphics.LineCapButt},
	}
	for _, c := range cases {
		got := strokeLineCap(node("Path", c.attrs))
		if got != int(c.want) {
			t.Errorf("attrs %v: got cap %d, want %d", c.attrs, got, c.want)
		}
	}
}

func TestStrokeLineJoin(t *testing.T) {
	cases := []struct {
		attrs map[string]string
		want  graphics.LineJoin
	}{
		{map[string]string{}, graphics.LineJoinMiter},
		{map[string]string{"StrokeLineJoin": "Round"}, graphics.LineJoinRound},
		{map[string]string{"StrokeLineJoin": "Bevel"}, graphics.LineJoinBevel},
		{map[string]string{"StrokeLineJoin": "Miter"}, graphics.LineJoinMiter},
	}
	for _, c := range cases {
		got := strokeLineJoin(node("Path", c.attrs))
		if got != int(c.want) {
			t.Errorf("attrs %v: got join %d, want %d", c.attrs, got, c.want)
		}
	}
}

func TestApplyDashPattern_SolidOneZeroDisablesDashing(t *testing.T) {
	csw := writer.NewContentStreamWriter()
	n := node("Path", map[string]string{"StrokeDashArray": "1 0"})
	applyDashPattern(csw, n, 2)
	out := string(csw.Bytes())
	if !strings.Contains(out, "[] 0.0000 d") {
		t.Fatalf("expected an empty dash array for '1 0', got %q", out)
	}
}

func TestApplyDashPattern_AbsentDisablesDashing(t *testing.T) {
	csw := writer.NewContentStreamWriter()
	n := node("Path", nil)
	applyDashPattern(csw, n, 2)
	out := string(csw.Bytes())
	if !strings.Contains(out, "[] 0.0000 d") {
		t.Fatalf("expected an empty dash array when StrokeDashArray is absent, got %q", out)
	}
}

func TestApplyDashPattern_ScalesByThickness(t *testing.T) {
	csw := writer.NewContentStreamWriter()
	n := node("Path", map[string]string{
		"StrokeDashArray":  "2,1",
		"StrokeDashOffset": "3",
	})
	applyDashPattern(csw, n, 2)
	out := string(csw.Bytes())
	if !strings.Contains(out, "[4.0000 2.0000] 6.0000 d") {
		t.Fatalf("expected dash lengths and phase scaled by thickness 2, got %q", out)
	}
}

func TestApplyDashPattern_NegativeOffsetUsesAbsoluteValue(t *testing.T) {
	csw := writer.NewContentStreamWriter()
	n := node("Path", map[string]string{
		"StrokeDashArray":  "1,1",
		"StrokeDashOffset": "-3",
	})
	applyDashPattern(csw, n, 1)
	out := string(csw.Bytes())
	if !strings.Contains(out, "3.0000 d") {
		t.Fatalf("expected the dash phase to use the absolute value of a negative offset, got %q", out)
	}
}

func TestApplyStrokeStyle_DefaultsMatchXPSImplicitStroke(t *testing.T) {
	e := newTestEmitter()
	n := node("Path", nil)
	e.applyStrokeStyle(n, "#000000")
	out := string(e.csw.Bytes())
	if !strings.Contains(out, "1.0000 w") {
		t.Fatalf("expected default line width 1, got %q", out)
	}
	if !strings.Contains(out, "10.0000 M") {
		t.Fatalf("expected default miter limit 10, got %q", out)
	}
}

func TestParseFloatOr(t *testing.T) {
	if v := parseFloatOr("", 5); v != 5 {
		t.Fatalf("expected default 5 for empty string, got %v", v)
	}
	if v := parseFloatOr("not a number", 5); v != 5 {
		t.Fatalf("expected default 5 for unparseable string, got %v", v)
	}
	if v := parseFloatOr("2.5", 5); v != 2.5 {
		t.Fatalf("expected 2.5, got %v", v)
	}
}
