package render

import (
	"github.com/kfirzuberi/convertflow/internal/graphics"
	"github.com/kfirzuberi/convertflow/internal/xps"
)

// renderCanvas handles a Canvas element: save state, apply RenderTransform
// and Clip if present, recurse into children, then restore — on every
// path, including when a child's Clip data is malformed, so save/restore
// always balances.
func (e *Emitter) renderCanvas(n *xps.Node) {
	e.surface.Push()
	defer e.surface.Pop()
	e.csw.SaveState()
	defer e.csw.RestoreState()

	if rt, ok := n.Attr("RenderTransform"); ok {
		if t, ok := parseRenderTransform(rt); ok {
			e.surface.ApplyTransform(t)
			e.csw.ConcatMatrix(t.A, t.B, t.C, t.D, t.E, t.F)
		}
	}

	if clipData, ok := n.Attr("Clip"); ok {
		e.applyClip(clipData)
	}

	e.renderChildren(n.Children)
}

// parseRenderTransform parses a Canvas's RenderTransform attribute: six
// comma-separated numbers in XPS's column-major a,b,c,d,e,f convention.
func parseRenderTransform(s string) (graphics.Transform, bool) {
	values, err := xps.ParseNumberList(s)
	if err != nil || len(values) != 6 {
		return graphics.Transform{}, false
	}
	return graphics.Transform{
		A: values[0], B: values[1], C: values[2],
		D: values[3], E: values[4], F: values[5],
	}, true
}

// applyClip draws clipData's path and installs it as the active clip.
// Malformed clip data is swallowed (ResourceMissing/MalformedPathData
// territory) — an un-clippable Canvas still renders its children
// unclipped rather than aborting the page.
func (e *Emitter) applyClip(clipData string) {
	path := interpretPathData(clipData)
	if path.Empty() {
		return
	}

	e.surface.SetClipPath(path)
	emitPathSegments(e.csw, path)
	e.csw.Clip()
	e.csw.EndPath()
}
