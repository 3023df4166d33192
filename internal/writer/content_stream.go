package writer

import (
	"bytes"
	"fmt"
	"strings"
)

// ContentStreamWriter builds a PDF page content stream: a sequence of
// operators and operands describing vector graphics and text.
//
// Reference: PDF 1.7 Specification, Section 8.2 (Content Streams and Resources).
type ContentStreamWriter struct {
	buf         bytes.Buffer
	compression CompressionLevel
}

// NewContentStreamWriter creates a content stream writer with
// DefaultCompression.
func NewContentStreamWriter() *ContentStreamWriter {
	return &ContentStreamWriter{compression: DefaultCompression}
}

// Bytes returns the accumulated, uncompressed content stream.
func (csw *ContentStreamWriter) Bytes() []byte {
	return csw.buf.Bytes()
}

func (csw *ContentStreamWriter) writeOp(operands, operator string) {
	if operands != "" {
		csw.buf.WriteString(operands)
		csw.buf.WriteString(" ")
	}
	csw.buf.WriteString(operator)
	csw.buf.WriteString("\n")
}

// --- graphics state stack ---

// SaveState pushes the graphics state (q).
func (csw *ContentStreamWriter) SaveState() { csw.writeOp("", "q") }

// RestoreState pops the graphics state (Q).
func (csw *ContentStreamWriter) RestoreState() { csw.writeOp("", "Q") }

// ConcatMatrix concatenates a matrix onto the CTM (cm).
func (csw *ContentStreamWriter) ConcatMatrix(a, b, c, d, e, f float64) {
	csw.writeOp(fmt.Sprintf("%.6f %.6f %.6f %.6f %.6f %.6f", a, b, c, d, e, f), "cm")
}

// --- path construction ---

// MoveTo begins a new subpath (m).
func (csw *ContentStreamWriter) MoveTo(x, y float64) {
	csw.writeOp(fmt.Sprintf("%.4f %.4f", x, y), "m")
}

// LineTo appends a line segment (l).
func (csw *ContentStreamWriter) LineTo(x, y float64) {
	csw.writeOp(fmt.Sprintf("%.4f %.4f", x, y), "l")
}

// CurveTo appends a cubic Bezier segment (c).
func (csw *ContentStreamWriter) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	csw.writeOp(fmt.Sprintf("%.4f %.4f %.4f %.4f %.4f %.4f", x1, y1, x2, y2, x3, y3), "c")
}

// Rectangle appends a rectangle subpath (re).
func (csw *ContentStreamWriter) Rectangle(x, y, width, height float64) {
	csw.writeOp(fmt.Sprintf("%.4f %.4f %.4f %.4f", x, y, width, height), "re")
}

// ClosePath closes the current subpath (h).
func (csw *ContentStreamWriter) ClosePath() { csw.writeOp("", "h") }

// --- path painting ---

// Stroke strokes the path (S).
func (csw *ContentStreamWriter) Stroke() { csw.writeOp("", "S") }

// Fill fills the path using the nonzero winding rule (f).
func (csw *ContentStreamWriter) Fill() { csw.writeOp("", "f") }

// FillEvenOdd fills the path using the even-odd rule (f*).
func (csw *ContentStreamWriter) FillEvenOdd() { csw.writeOp("", "f*") }

// FillAndStroke fills then strokes the path, nonzero winding rule (B).
func (csw *ContentStreamWriter) FillAndStroke() { csw.writeOp("", "B") }

// FillAndStrokeEvenOdd fills then strokes the path, even-odd rule (B*).
func (csw *ContentStreamWriter) FillAndStrokeEvenOdd() { csw.writeOp("", "B*") }

// EndPath ends the path without filling or stroking (n), the idiom used
// to apply a clip without painting it.
func (csw *ContentStreamWriter) EndPath() { csw.writeOp("", "n") }

// Clip marks the current path as the clipping path, nonzero winding
// rule (W). Must be followed by a painting operator (typically EndPath).
func (csw *ContentStreamWriter) Clip() { csw.writeOp("", "W") }

// --- stroke style ---

// SetLineWidth sets the stroke line width (w).
func (csw *ContentStreamWriter) SetLineWidth(width float64) {
	csw.writeOp(fmt.Sprintf("%.4f", width), "w")
}

// SetLineCap sets the line cap style (J): 0 butt, 1 round, 2 square.
func (csw *ContentStreamWriter) SetLineCap(style int) {
	csw.writeOp(fmt.Sprintf("%d", style), "J")
}

// SetLineJoin sets the line join style (j): 0 miter, 1 round, 2 bevel.
func (csw *ContentStreamWriter) SetLineJoin(style int) {
	csw.writeOp(fmt.Sprintf("%d", style), "j")
}

// SetMiterLimit sets the miter limit (M).
func (csw *ContentStreamWriter) SetMiterLimit(limit float64) {
	csw.writeOp(fmt.Sprintf("%.4f", limit), "M")
}

// SetDashPattern sets the dash array and phase (d). An empty dashArray
// clears dashing (solid line).
func (csw *ContentStreamWriter) SetDashPattern(dashArray []float64, dashPhase float64) {
	parts := make([]string, 0, len(dashArray))
	for _, v := range dashArray {
		parts = append(parts, fmt.Sprintf("%.4f", v))
	}
	csw.writeOp(fmt.Sprintf("[%s] %.4f", strings.Join(parts, " "), dashPhase), "d")
}

// --- color ---

// SetStrokeColorRGB sets the stroke color (RG).
func (csw *ContentStreamWriter) SetStrokeColorRGB(r, g, b float64) {
	csw.writeOp(fmt.Sprintf("%.4f %.4f %.4f", r, g, b), "RG")
}

// SetFillColorRGB sets the fill color (rg).
func (csw *ContentStreamWriter) SetFillColorRGB(r, g, b float64) {
	csw.writeOp(fmt.Sprintf("%.4f %.4f %.4f", r, g, b), "rg")
}

// --- text ---

// BeginText begins a text object (BT).
func (csw *ContentStreamWriter) BeginText() { csw.writeOp("", "BT") }

// EndText ends a text object (ET).
func (csw *ContentStreamWriter) EndText() { csw.writeOp("", "ET") }

// SetFont sets the text font and size (Tf).
func (csw *ContentStreamWriter) SetFont(fontName string, size float64) {
	csw.writeOp(fmt.Sprintf("/%s %.4f", fontName, size), "Tf")
}

// SetTextMatrix sets the text matrix (Tm).
func (csw *ContentStreamWriter) SetTextMatrix(a, b, c, d, e, f float64) {
	csw.writeOp(fmt.Sprintf("%.6f %.6f %.6f %.6f %.6f %.6f", a, b, c, d, e, f), "Tm")
}

// ShowText shows a simple (non-embedded-font) text string (Tj), escaping
// parentheses/backslashes/control characters.
func (csw *ContentStreamWriter) ShowText(text string) {
	csw.writeOp(fmt.Sprintf("(%s)", EscapePDFString(text)), "Tj")
}

// ShowTextHex shows text already encoded as hex CIDs (Tj), used for
// Identity-H composite-font glyph runs (e.g. "<0003000C>").
func (csw *ContentStreamWriter) ShowTextHex(hex string) {
	csw.writeOp(fmt.Sprintf("<%s>", hex), "Tj")
}

// --- XObjects ---

// DrawXObject paints a named XObject (an image or form) at the current
// CTM (Do).
func (csw *ContentStreamWriter) DrawXObject(name string) {
	csw.writeOp(fmt.Sprintf("/%s", name), "Do")
}

// --- compression ---

// CompressedBytes returns the content stream compressed per the writer's
// configured compression level (DefaultCompression unless overridden via
// the stream's consumer).
func (csw *ContentStreamWriter) CompressedBytes() ([]byte, error) {
	return CompressStream(csw.Bytes(), csw.compression)
}

// EscapePDFString escapes a string for use inside a PDF literal string
// "(...)": backslash, every parenthesis, and control characters are
// backslash-escaped per PDF 1.7 §7.3.4.2.
func EscapePDFString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\', '(', ')':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, `\%03o`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	return b.String()
}
