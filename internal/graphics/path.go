package graphics

// SegmentKind identifies the kind of a Path segment.
type SegmentKind int

const (
	// SegMoveTo starts a new subpath at (X, Y).
	SegMoveTo SegmentKind = iota
	// SegLineTo draws a straight line to (X, Y).
	SegLineTo
	// SegCurveTo draws a cubic Bezier curve to (X, Y) with control
	// points (X1, Y1) and (X2, Y2).
	SegCurveTo
	// SegClose closes the current subpath back to its start point.
	SegClose
)

// Segment is a single drawing instruction within a Path.
type Segment struct {
	Kind   SegmentKind
	X, Y   float64
	X1, Y1 float64
	X2, Y2 float64
}

// Path is a sequence of move/line/curve/close segments describing one or
// more subpaths, in the PDF content-stream sense (m, l, c, h operators).
type Path struct {
	Segments []Segment
}

// NewPath creates a new empty path.
func NewPath() *Path {
	return &Path{}
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	p.Segments = append(p.Segments, Segment{Kind: SegMoveTo, X: x, Y: y})
}

// LineTo appends a straight line segment to (x, y).
func (p *Path) LineTo(x, y float64) {
	p.Segments = append(p.Segments, Segment{Kind: SegLineTo, X: x, Y: y})
}

// CurveTo appends a cubic Bezier curve segment to (x, y) using control
// points (x1, y1) and (x2, y2).
func (p *Path) CurveTo(x1, y1, x2, y2, x, y float64) {
	p.Segments = append(p.Segments, Segment{Kind: SegCurveTo, X: x, Y: y, X1: x1, Y1: y1, X2: x2, Y2: y2})
}

// Close closes the current subpath.
func (p *Path) Close() {
	p.Segments = append(p.Segments, Segment{Kind: SegClose})
}

// Empty reports whether the path has no segments.
func (p *Path) Empty() bool {
	return p == nil || len(p.Segments) == 0
}

// CurrentPoint returns the path's final point and whether the path has
// any points at all. Close segments do not update the current point;
// callers needing the subpath-start point after a close should track it
// themselves (arc/path-data interpreters do, since XPS reopens explicit
// coordinates after Z).
func (p *Path) CurrentPoint() (x, y float64, ok bool) {
	for i := len(p.Segments) - 1; i >= 0; i-- {
		seg := p.Segments[i]
		if seg.Kind != SegClose {
			return seg.X, seg.Y, true
		}
	}
	return 0, 0, false
}
