package writer

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/kfirzuberi/convertflow/internal/fonts"
)

// EmbeddedFontRefs holds object numbers for an embedded TrueType font, used
// to cross-reference the font's objects from the page's resource dictionary.
type EmbeddedFontRefs struct {
	FontObjNum       int
	DescriptorObjNum int
	ToUnicodeObjNum  int
	FontFileObjNum   int
}

// FontEmbedder generates the PDF object graph for a whole, un-subsetted
// TrueType font embedded as a Type 0 composite font:
//   - Type 0 Font dictionary (Identity-H encoding)
//   - CIDFontType2 descendant font (CIDToGIDMap = Identity)
//   - FontDescriptor (scaled metrics)
//   - ToUnicode CMap, scoped to the glyphs a conversion actually emits
//   - FontFile2 stream (the full deobfuscated font program, FlateDecode-
//     compressed, complete glyph set — this repo does not build a subsetted font)
//
// Reference: PDF 1.7, Section 9.7 (Composite Fonts) and 9.8 (FontDescriptor).
type FontEmbedder struct {
	ttf         *fonts.TTFFont
	usedGlyphs  map[uint16]struct{}
	allocObjNum func() int
	cidFontObj  *IndirectObject
}

// NewFontEmbedder creates a font embedder. usedGlyphs is the set of glyph
// IDs the emitted content stream actually references (via Tj/ShowTextHex);
// it scopes the ToUnicode CMap and the /W widths array, but the FontFile2
// stream always carries the complete font program.
func NewFontEmbedder(ttf *fonts.TTFFont, usedGlyphs map[uint16]struct{}, allocObjNum func() int) *FontEmbedder {
	return &FontEmbedder{ttf: ttf, usedGlyphs: usedGlyphs, allocObjNum: allocObjNum}
}

// WriteFont generates all PDF objects for the embedded font.
func (e *FontEmbedder) WriteFont() ([]*IndirectObject, *EmbeddedFontRefs, error) {
	fontObjNum := e.allocObjNum()
	descriptorObjNum := e.allocObjNum()
	toUnicodeObjNum := e.allocObjNum()
	fontFileObjNum := e.allocObjNum()

	refs := &EmbeddedFontRefs{
		FontObjNum:       fontObjNum,
		DescriptorObjNum: descriptorObjNum,
		ToUnicodeObjNum:  toUnicodeObjNum,
		FontFileObjNum:   fontFileObjNum,
	}

	objects := make([]*IndirectObject, 0, 5)

	fontFileObj, err := e.createFontFileObject(fontFileObjNum)
	if err != nil {
		return nil, nil, fmt.Errorf("create font file: %w", err)
	}
	objects = append(objects, fontFileObj)

	descriptorObj, err := e.createFontDescriptorObject(descriptorObjNum, fontFileObjNum)
	if err != nil {
		return nil, nil, fmt.Errorf("create font descriptor: %w", err)
	}
	objects = append(objects, descriptorObj)

	toUnicodeObj, err := e.createToUnicodeObject(toUnicodeObjNum)
	if err != nil {
		return nil, nil, fmt.Errorf("create ToUnicode: %w", err)
	}
	objects = append(objects, toUnicodeObj)

	fontObj, err := e.createFontObject(fontObjNum, descriptorObjNum, toUnicodeObjNum)
	if err != nil {
		return nil, nil, fmt.Errorf("create font dictionary: %w", err)
	}
	objects = append(objects, fontObj)

	if e.cidFontObj != nil {
		objects = append(objects, e.cidFontObj)
	}

	return objects, refs, nil
}

func (e *FontEmbedder) subsetName() string {
	fd := fonts.GenerateFontDescriptor(e.ttf)
	return fonts.SubsetFontName(fd.FontName, e.usedChars())
}

func (e *FontEmbedder) usedChars() map[rune]struct{} {
	chars := make(map[rune]struct{}, len(e.usedGlyphs))
	for ch, gid := range e.ttf.CharToGlyph {
		if _, used := e.usedGlyphs[gid]; used {
			chars[ch] = struct{}{}
		}
	}
	return chars
}

func (e *FontEmbedder) createFontFileObject(objNum int) (*IndirectObject, error) {
	compressed, err := CompressStream(e.ttf.FontData, DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("compress font data: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("<<\n")
	fmt.Fprintf(&buf, "/Length %d\n", len(compressed))
	fmt.Fprintf(&buf, "/Length1 %d\n", len(e.ttf.FontData))
	buf.WriteString("/Filter /FlateDecode\n")
	buf.WriteString(">>\n")
	buf.WriteString("stream\n")
	buf.Write(compressed)
	buf.WriteString("\nendstream")

	return NewIndirectObject(objNum, 0, buf.Bytes()), nil
}

func (e *FontEmbedder) createFontDescriptorObject(objNum, fontFileObjNum int) (*IndirectObject, error) {
	fd := fonts.GenerateFontDescriptor(e.ttf)

	var buf bytes.Buffer
	buf.WriteString("<<\n")
	buf.WriteString("/Type /FontDescriptor\n")
	fmt.Fprintf(&buf, "/FontName /%s\n", e.subsetName())
	fmt.Fprintf(&buf, "/Flags %d\n", fd.Flags)
	fmt.Fprintf(&buf, "/FontBBox [%d %d %d %d]\n",
		fd.FontBBox[0], fd.FontBBox[1], fd.FontBBox[2], fd.FontBBox[3])
	fmt.Fprintf(&buf, "/ItalicAngle %.1f\n", fd.ItalicAngle)
	fmt.Fprintf(&buf, "/Ascent %d\n", fd.Ascent)
	fmt.Fprintf(&buf, "/Descent %d\n", fd.Descent)
	fmt.Fprintf(&buf, "/CapHeight %d\n", fd.CapHeight)
	fmt.Fprintf(&buf, "/StemV %d\n", fd.StemV)
	fmt.Fprintf(&buf, "/FontFile2 %d 0 R\n", fontFileObjNum)
	buf.WriteString(">>")

	return NewIndirectObject(objNum, 0, buf.Bytes()), nil
}

func (e *FontEmbedder) createToUnicodeObject(objNum int) (*IndirectObject, error) {
	glyphToUnicode := make(map[uint16]rune, len(e.usedGlyphs))
	for ch, gid := range e.ttf.CharToGlyph {
		if _, used := e.usedGlyphs[gid]; used {
			glyphToUnicode[gid] = ch
		}
	}

	cmapData, err := fonts.GenerateToUnicodeCMap(glyphToUnicode)
	if err != nil {
		return nil, fmt.Errorf("generate ToUnicode CMap: %w", err)
	}

	compressed, err := CompressStream(cmapData, DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("compress ToUnicode: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("<<\n")
	fmt.Fprintf(&buf, "/Length %d\n", len(compressed))
	buf.WriteString("/Filter /FlateDecode\n")
	buf.WriteString(">>\n")
	buf.WriteString("stream\n")
	buf.Write(compressed)
	buf.WriteString("\nendstream")

	return NewIndirectObject(objNum, 0, buf.Bytes()), nil
}

// createFontObject creates the Type 0 composite font dictionary and, as a
// side effect, its CIDFontType2 descendant font (stashed in e.cidFontObj
// for WriteFont to append, since it needs its own object number allocated
// inline with the rest).
func (e *FontEmbedder) createFontObject(objNum, descriptorObjNum, toUnicodeObjNum int) (*IndirectObject, error) {
	subsetName := e.subsetName()
	cidFontObjNum := e.allocObjNum()

	widthsArray := e.generateCIDWidthsArray()

	var cidBuf bytes.Buffer
	cidBuf.WriteString("<<\n")
	cidBuf.WriteString("/Type /Font\n")
	cidBuf.WriteString("/Subtype /CIDFontType2\n")
	fmt.Fprintf(&cidBuf, "/BaseFont /%s\n", subsetName)
	cidBuf.WriteString("/CIDSystemInfo << /Registry (Adobe) /Ordering (Identity) /Supplement 0 >>\n")
	fmt.Fprintf(&cidBuf, "/FontDescriptor %d 0 R\n", descriptorObjNum)
	cidBuf.WriteString("/CIDToGIDMap /Identity\n")
	fmt.Fprintf(&cidBuf, "/DW %d\n", e.defaultWidth())
	if widthsArray != "" {
		fmt.Fprintf(&cidBuf, "/W %s\n", widthsArray)
	}
	cidBuf.WriteString(">>")

	e.cidFontObj = NewIndirectObject(cidFontObjNum, 0, cidBuf.Bytes())

	var buf bytes.Buffer
	buf.WriteString("<<\n")
	buf.WriteString("/Type /Font\n")
	buf.WriteString("/Subtype /Type0\n")
	fmt.Fprintf(&buf, "/BaseFont /%s\n", subsetName)
	buf.WriteString("/Encoding /Identity-H\n")
	fmt.Fprintf(&buf, "/DescendantFonts [%d 0 R]\n", cidFontObjNum)
	fmt.Fprintf(&buf, "/ToUnicode %d 0 R\n", toUnicodeObjNum)
	buf.WriteString(">>")

	return NewIndirectObject(objNum, 0, buf.Bytes()), nil
}

// defaultWidth returns /DW: the space character's advance if present,
// otherwise a full em.
func (e *FontEmbedder) defaultWidth() int {
	if glyphID, ok := e.ttf.CharToGlyph[' ']; ok {
		scale := 1000.0 / float64(e.ttf.UnitsPerEm)
		return int(float64(e.ttf.GlyphWidth(glyphID)) * scale)
	}
	return 1000
}

// generateCIDWidthsArray builds the /W array, scoped to used glyphs only,
// in the compact "startGID [w1 w2 ...]" run-grouped form.
func (e *FontEmbedder) generateCIDWidthsArray() string {
	if len(e.usedGlyphs) == 0 {
		return ""
	}

	type glyphWidth struct {
		gid   uint16
		width int
	}

	scale := 1000.0 / float64(e.ttf.UnitsPerEm)
	glyphs := make([]glyphWidth, 0, len(e.usedGlyphs))
	for gid := range e.usedGlyphs {
		glyphs = append(glyphs, glyphWidth{gid: gid, width: int(float64(e.ttf.GlyphWidth(gid)) * scale)})
	}
	if len(glyphs) == 0 {
		return ""
	}

	sort.Slice(glyphs, func(i, j int) bool { return glyphs[i].gid < glyphs[j].gid })

	var buf bytes.Buffer
	buf.WriteString("[")

	i := 0
	for i < len(glyphs) {
		start := i
		for i < len(glyphs)-1 && glyphs[i+1].gid == glyphs[i].gid+1 {
			i++
		}

		fmt.Fprintf(&buf, "%d [", glyphs[start].gid)
		for j := start; j <= i; j++ {
			if j > start {
				buf.WriteString(" ")
			}
			fmt.Fprintf(&buf, "%d", glyphs[j].width)
		}
		buf.WriteString("] ")

		i++
	}

	buf.WriteString("]")
	return buf.String()
}
