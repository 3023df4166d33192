// Package render walks a Fixed Page tree and emits PDF graphics
// operators, the seam where internal/graphics state management meets
// internal/writer operator emission.
package render

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"github.com/kfirzuberi/convertflow/internal/fonts"
	"github.com/kfirzuberi/convertflow/internal/graphics"
	"github.com/kfirzuberi/convertflow/internal/writer"
	"github.com/kfirzuberi/convertflow/internal/xps"
)

// registeredFont tracks a font loaded for Glyphs emission: its parsed
// TrueType program, the resource name it was assigned in the page's
// ResourceDictionary, and the set of glyph IDs actually emitted (used to
// scope the embedded font's ToUnicode CMap and /W widths array).
type registeredFont struct {
	ttf          *fonts.TTFFont
	resourceName string
	usedGlyphs   map[uint16]struct{}
}

// Emitter renders one FixedPage tree onto a PDF content stream,
// accumulating any auxiliary indirect objects (embedded fonts, images)
// it needs along the way.
type Emitter struct {
	surface   *graphics.Surface
	csw       *writer.ContentStreamWriter
	resources *writer.ResourceDictionary
	resolver  *xps.Resolver
	basePath  string

	allocObjNum func() int
	auxObjects  []*writer.IndirectObject

	fontsByURI       map[string]*registeredFont
	fallbackFontName string
}

// NewEmitter creates an Emitter bound to a resource resolver (which
// already carries the page's registered ImageBrush resources and raw,
// deobfuscated font buffers), the FixedPage's base path (used to resolve
// Glyphs.FontUri the same way the resolver did), and an object-number
// allocator shared with the rest of the PDF writer.
func NewEmitter(resolver *xps.Resolver, basePath string, allocObjNum func() int) *Emitter {
	return &Emitter{
		surface:     graphics.NewSurface(),
		csw:         writer.NewContentStreamWriter(),
		resources:   writer.NewResourceDictionary(),
		resolver:    resolver,
		basePath:    basePath,
		allocObjNum: allocObjNum,
		fontsByURI:  make(map[string]*registeredFont),
	}
}

// RenderPage renders root (the FixedPage element) under a single outermost
// save frame carrying unitScale — per spec §4.5, the 96-DPI XPS coordinate
// space is mapped to 72-DPI PDF points exactly once, at the outermost
// frame, rather than threaded through every subsequent transform — and
// returns the finished content stream bytes, the resource dictionary, and
// any auxiliary indirect objects (embedded fonts, images) the content
// stream references.
func (e *Emitter) RenderPage(root *xps.Node, unitScale graphics.Transform) ([]byte, *writer.ResourceDictionary, []*writer.IndirectObject, error) {
	// A childless FixedPage (spec §9: Width=0/Height=0 still a valid empty
	// page) produces no content operators at all, not even the frame —
	// there's nothing the unit scale would ever apply to.
	if len(root.Children) > 0 {
		e.surface.Push()
		e.csw.SaveState()
		e.surface.ApplyTransform(unitScale)
		e.csw.ConcatMatrix(unitScale.A, unitScale.B, unitScale.C, unitScale.D, unitScale.E, unitScale.F)

		e.renderChildren(root.Children)

		e.csw.RestoreState()
		e.surface.Pop()
	}

	if e.surface.StackDepth() != 0 {
		return nil, nil, nil, fmt.Errorf("render: unbalanced save/restore, depth=%d", e.surface.StackDepth())
	}

	if err := e.finalizeFonts(); err != nil {
		return nil, nil, nil, err
	}

	return e.csw.Bytes(), e.resources, e.auxObjects, nil
}

// renderChildren dispatches each child node in document order.
func (e *Emitter) renderChildren(children []*xps.Node) {
	for _, child := range children {
		e.renderNode(child)
	}
}

// renderNode dispatches a single node per spec §4.5: Canvas, Path, and
// Glyphs get dedicated handling; Canvas.Resources/ResourceDictionary
// subtrees are ignored during rendering (already consumed by the
// resolver); any other tag recurses through its children so wrapping
// elements never hide their descendants.
func (e *Emitter) renderNode(n *xps.Node) {
	switch n.Tag {
	case "Canvas":
		e.renderCanvas(n)
	case "Path":
		e.renderPath(n)
	case "Glyphs":
		e.renderGlyphs(n)
	case "Canvas.Resources", "ResourceDictionary":
		// already consumed by the resource resolver pass
	default:
		e.renderChildren(n.Children)
	}
}

// fontIdentifier computes a stable, short identifier for a font URI, used
// both as the font's registration key and embedded nowhere in output
// (it's purely an internal dedup key).
func fontIdentifier(fontURI string) string {
	sum := sha1.Sum([]byte(fontURI))
	return hex.EncodeToString(sum[:8])
}

// registerFont loads and registers the font at fontURI (as it appears in
// resolver.Fonts, already deobfuscated) the first time it's referenced,
// reusing the same registration for subsequent Glyphs elements. Reports
// ok=false (FontRegistrationFailed, recovered) if the font data is
// missing or fails to parse as a TrueType program.
func (e *Emitter) registerFont(fontURI string) (*registeredFont, bool) {
	if rf, ok := e.fontsByURI[fontURI]; ok {
		return rf, true
	}

	data, ok := e.resolver.Fonts[fontURI]
	if !ok {
		return nil, false
	}

	ttf, err := fonts.ParseTTF(data, fontURI)
	if err != nil {
		return nil, false
	}

	fontID := fontIdentifier(fontURI)
	resName := e.resources.AddFontWithID(0, fontID)

	rf := &registeredFont{
		ttf:          ttf,
		resourceName: resName,
		usedGlyphs:   make(map[uint16]struct{}),
	}
	e.fontsByURI[fontURI] = rf
	return rf, true
}

// fallbackFont returns the resource name of the shared default sans-serif
// face (PDF base-14 Helvetica), registering it on first use. Used when a
// Glyphs element's FontUri could not be loaded or parsed.
func (e *Emitter) fallbackFont() string {
	if e.fallbackFontName != "" {
		return e.fallbackFontName
	}

	objNum := e.allocObjNum()
	body := []byte("<<\n/Type /Font\n/Subtype /Type1\n/BaseFont /Helvetica\n>>")
	e.auxObjects = append(e.auxObjects, writer.NewIndirectObject(objNum, 0, body))

	e.fallbackFontName = e.resources.AddFontWithID(objNum, "fallback:Helvetica")
	return e.fallbackFontName
}

// finalizeFonts generates the PDF object graph for every font actually
// referenced by an emitted glyph run, and backfills its object number
// into the resource dictionary.
func (e *Emitter) finalizeFonts() error {
	for fontURI, rf := range e.fontsByURI {
		if len(rf.usedGlyphs) == 0 {
			continue
		}

		embedder := writer.NewFontEmbedder(rf.ttf, rf.usedGlyphs, e.allocObjNum)
		objects, refs, err := embedder.WriteFont()
		if err != nil {
			return fmt.Errorf("embed font %s: %w", fontURI, err)
		}
		e.auxObjects = append(e.auxObjects, objects...)

		fontID := fontIdentifier(fontURI)
		e.resources.SetFontObjNumByID(fontID, refs.FontObjNum)
	}
	return nil
}

