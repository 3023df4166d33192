package render

import (
	"strings"

	"github.com/kfirzuberi/convertflow/internal/graphics"
	"github.com/kfirzuberi/convertflow/internal/opc"
	"github.com/kfirzuberi/convertflow/internal/xps"
	"github.com/kfirzuberi/convertflow/logging"
)

// renderGlyphs handles a Glyphs element per spec §4.5: an empty
// UnicodeString produces no text. The baseline sits at
// OriginY − 0.8·emSize (XPS origins are top-of-line, not baseline), with
// no automatic line-breaking. Per-glyph failures — an unmapped character
// — are swallowed rather than aborting the run.
func (e *Emitter) renderGlyphs(n *xps.Node) {
	text, ok := n.Attr("UnicodeString")
	if !ok || text == "" {
		return
	}

	fill := n.AttrOr("Fill", "#000000")
	emSize := parseFloatOr(n.AttrOr("FontRenderingEmSize", ""), 12)
	originX := parseFloatOr(n.AttrOr("OriginX", ""), 0)
	originY := parseFloatOr(n.AttrOr("OriginY", ""), 0)
	baselineY := originY - 0.8*emSize

	var rf *registeredFont
	if fontURI, ok := n.Attr("FontUri"); ok {
		resolved := opc.ResolvePart(e.basePath, fontURI)
		if loaded, ok := e.registerFont(resolved); ok {
			rf = loaded
		} else {
			logging.Logger().Warn("FontRegistrationFailed: falling back to default face", "fontUri", resolved)
		}
	}

	e.surface.Push()
	defer e.surface.Pop()
	e.csw.SaveState()
	defer e.csw.RestoreState()

	if color, err := graphics.HexColor(fill); err == nil {
		e.csw.SetFillColorRGB(color.R, color.G, color.B)
	}

	e.csw.BeginText()
	defer e.csw.EndText()
	e.csw.SetTextMatrix(1, 0, 0, 1, originX, baselineY)

	if rf != nil {
		e.showEmbeddedText(rf, text, emSize)
	} else {
		e.showFallbackText(text, emSize)
	}
}

// showEmbeddedText maps each character to a glyph ID via the registered
// font's cmap and emits a single hex-encoded Tj run of CIDs (Identity-H).
// Characters with no glyph mapping are skipped.
func (e *Emitter) showEmbeddedText(rf *registeredFont, text string, emSize float64) {
	var hexRun strings.Builder
	any := false
	skipped := 0
	for _, ch := range text {
		gid, ok := rf.ttf.CharToGlyph[ch]
		if !ok {
			skipped++
			continue
		}
		rf.usedGlyphs[gid] = struct{}{}
		hexRun.WriteString(gidToHex(gid))
		any = true
	}
	if skipped > 0 {
		logging.Logger().Warn("GlyphEmissionFailed: characters unmapped in font cmap", "count", skipped)
	}
	if !any {
		return
	}

	e.csw.SetFont(rf.resourceName, emSize)
	e.csw.ShowTextHex(hexRun.String())
}

// showFallbackText emits the run as a literal string against the shared
// default sans-serif face, used when the Glyphs element's font could not
// be loaded or parsed.
func (e *Emitter) showFallbackText(text string, emSize float64) {
	name := e.fallbackFont()
	e.csw.SetFont(name, emSize)
	e.csw.ShowText(text)
}

const hexDigits = "0123456789ABCDEF"

func gidToHex(gid uint16) string {
	return string([]byte{
		hexDigits[(gid>>12)&0xF],
		hexDigits[(gid>>8)&0xF],
		hexDigits[(gid>>4)&0xF],
		hexDigits[gid&0xF],
	})
}
