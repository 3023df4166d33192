package render

import (
	"strings"

	"github.com/kfirzuberi/convertflow/internal/graphics"
	"github.com/kfirzuberi/convertflow/internal/pathdata"
	"github.com/kfirzuberi/convertflow/internal/writer"
	"github.com/kfirzuberi/convertflow/internal/xps"
	"github.com/kfirzuberi/convertflow/logging"
)

// pathdataInterpret is a seam over pathdata.Interpret so tests can simulate
// a tokenizer/interpreter panic without needing a real path-data string
// that triggers one.
var pathdataInterpret = pathdata.Interpret

// interpretPathData parses a path-data string into a graphics.Path,
// recovering from any unexpected panic in the tokenizer/interpreter so a
// single malformed Path element degrades to a no-op rather than aborting
// the whole page.
func interpretPathData(d string) (path *graphics.Path) {
	defer func() {
		if r := recover(); r != nil {
			logging.Logger().Warn("MalformedPathData: path-data interpreter panicked", "data", d, "recovered", r)
			path = graphics.NewPath()
		}
	}()
	return pathdataInterpret(d)
}

// emitPathSegments writes path's segments as PDF path-construction
// operators (m/l/c/h).
func emitPathSegments(csw *writer.ContentStreamWriter, path *graphics.Path) {
	for _, seg := range path.Segments {
		switch seg.Kind {
		case graphics.SegMoveTo:
			csw.MoveTo(seg.X, seg.Y)
		case graphics.SegLineTo:
			csw.LineTo(seg.X, seg.Y)
		case graphics.SegCurveTo:
			csw.CurveTo(seg.X1, seg.Y1, seg.X2, seg.Y2, seg.X, seg.Y)
		case graphics.SegClose:
			csw.ClosePath()
		}
	}
}

// renderPath handles a Path element per spec §4.5: skip if neither Fill
// nor Stroke is present; an image-brush Fill clips to the path and places
// the referenced image; otherwise fill/stroke/fillAndStroke depending on
// which attributes are present.
func (e *Emitter) renderPath(n *xps.Node) {
	fill, hasFill := n.Attr("Fill")
	stroke, hasStroke := n.Attr("Stroke")
	if !hasFill && !hasStroke {
		return
	}

	data, ok := n.Attr("Data")
	if !ok {
		return
	}
	path := interpretPathData(data)
	if path.Empty() {
		return
	}

	if resKey, isBrushRef := staticResourceKey(fill); hasFill && isBrushRef {
		e.renderImageBrushFill(n, path, resKey)
		if hasStroke {
			e.renderStrokedPath(n, path, stroke)
		}
		return
	}

	e.surface.Push()
	defer e.surface.Pop()
	e.csw.SaveState()
	defer e.csw.RestoreState()

	if hasStroke {
		e.applyStrokeStyle(n, stroke)
	}
	if hasFill {
		if color, err := graphics.HexColor(fill); err == nil {
			e.csw.SetFillColorRGB(color.R, color.G, color.B)
		}
	}

	emitPathSegments(e.csw, path)

	switch {
	case hasFill && hasStroke:
		e.csw.FillAndStroke()
	case hasFill:
		e.csw.Fill()
	case hasStroke:
		e.csw.Stroke()
	}
}

// renderStrokedPath re-emits path under stroke styling only, used after
// an image-brush fill has already consumed the path for clipping.
func (e *Emitter) renderStrokedPath(n *xps.Node, path *graphics.Path, stroke string) {
	e.surface.Push()
	defer e.surface.Pop()
	e.csw.SaveState()
	defer e.csw.RestoreState()

	e.applyStrokeStyle(n, stroke)
	emitPathSegments(e.csw, path)
	e.csw.Stroke()
}

// staticResourceKey reports whether a Fill/Stroke brush value is a
// "{StaticResource KEY}" reference and, if so, extracts KEY.
func staticResourceKey(brush string) (key string, ok bool) {
	const prefix = "{StaticResource "
	if !strings.HasPrefix(brush, prefix) || !strings.HasSuffix(brush, "}") {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(brush, prefix), "}"), true
}

// renderImageBrushFill implements the image-brush fill algorithm: save,
// draw the path and clip to it, apply the brush's Transform if any, place
// the image at its Viewport rectangle (default 0,0,100,100), restore. A
// resource key referenced but not defined is skipped, not fatal.
func (e *Emitter) renderImageBrushFill(n *xps.Node, path *graphics.Path, resKey string) {
	res, ok := e.resolver.Resources[resKey]
	if !ok {
		logging.Logger().Warn("ResourceMissing: StaticResource brush undefined", "key", resKey)
		return
	}

	e.surface.Push()
	defer e.surface.Pop()
	e.csw.SaveState()
	defer e.csw.RestoreState()

	emitPathSegments(e.csw, path)
	e.csw.Clip()
	e.csw.EndPath()

	if res.Transform != "" {
		if t, ok := parseRenderTransform(res.Transform); ok {
			e.surface.ApplyTransform(t)
			e.csw.ConcatMatrix(t.A, t.B, t.C, t.D, t.E, t.F)
		}
	}

	x, y, w, h := parseViewport(res.Viewport)

	imageName, err := e.placeImage(res.ImageData)
	if err != nil {
		return
	}

	e.csw.SaveState()
	e.csw.ConcatMatrix(w, 0, 0, h, x, y)
	e.csw.DrawXObject(imageName)
	e.csw.RestoreState()
}

// parseViewport parses a Viewport attribute "x,y,w,h", defaulting to
// 0,0,100,100 if absent or malformed.
func parseViewport(viewport string) (x, y, w, h float64) {
	x, y, w, h = 0, 0, 100, 100
	if viewport == "" {
		return
	}
	values, err := xps.ParseNumberList(viewport)
	if err != nil || len(values) != 4 {
		return
	}
	return values[0], values[1], values[2], values[3]
}

// placeImage registers imageData as an Image XObject resource (once per
// distinct byte slice is out of scope for this pass — each brush use
// embeds its own XObject, keeping image.go's embedder single-purpose) and
// returns the resource name to reference from the content stream.
func (e *Emitter) placeImage(imageData []byte) (string, error) {
	embedder := writer.NewImageEmbedder(e.allocObjNum)
	obj, err := embedder.WriteImage(imageData)
	if err != nil {
		return "", err
	}
	e.auxObjects = append(e.auxObjects, obj)
	return e.resources.AddImage(obj.Num), nil
}
