package writer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kfirzuberi/convertflow/internal/fonts"
)

func buildTestFont(t *testing.T) *fonts.TTFFont {
	t.Helper()
	ttf := &fonts.TTFFont{
		SourceURI:   "Resources/Fonts/test.odttf",
		UnitsPerEm:  1000,
		FontData:    bytes.Repeat([]byte{0xAB}, 64),
		GlyphWidths: []uint16{0, 500, 600, 500},
		CharToGlyph: map[rune]uint16{'A': 1, 'B': 2, ' ': 3},
	}
	return ttf
}

func TestFontEmbedder_WriteFont(t *testing.T) {
	ttf := buildTestFont(t)
	usedGlyphs := map[uint16]struct{}{1: {}, 2: {}}

	next := 1
	alloc := func() int { n := next; next++; return n }

	embedder := NewFontEmbedder(ttf, usedGlyphs, alloc)
	objects, refs, err := embedder.WriteFont()
	if err != nil {
		t.Fatalf("WriteFont: %v", err)
	}

	// FontFile2, FontDescriptor, ToUnicode, Type0 Font, CIDFontType2 descendant.
	if len(objects) != 5 {
		t.Fatalf("got %d objects, want 5", len(objects))
	}

	if refs.FontObjNum == refs.DescriptorObjNum ||
		refs.DescriptorObjNum == refs.ToUnicodeObjNum ||
		refs.ToUnicodeObjNum == refs.FontFileObjNum {
		t.Error("expected distinct object numbers for each font component")
	}

	var fontDict, cidDict, descriptorDict, fontFileStream string
	for _, obj := range objects {
		body := string(obj.Body)
		switch {
		case strings.Contains(body, "/Subtype /Type0"):
			fontDict = body
		case strings.Contains(body, "/Subtype /CIDFontType2"):
			cidDict = body
		case strings.Contains(body, "/Type /FontDescriptor"):
			descriptorDict = body
		case strings.Contains(body, "/Length1"):
			fontFileStream = body
		}
	}

	if fontDict == "" {
		t.Fatal("missing Type0 font dictionary")
	}
	if !strings.Contains(fontDict, "/Encoding /Identity-H") {
		t.Error("Type0 font missing Identity-H encoding")
	}
	if !strings.Contains(fontDict, "/ToUnicode") {
		t.Error("Type0 font missing ToUnicode reference")
	}

	if cidDict == "" {
		t.Fatal("missing CIDFontType2 descendant font")
	}
	if !strings.Contains(cidDict, "/CIDToGIDMap /Identity") {
		t.Error("CIDFont missing Identity CIDToGIDMap")
	}
	if !strings.Contains(cidDict, "/W [") {
		t.Error("CIDFont missing /W widths array")
	}

	if descriptorDict == "" {
		t.Fatal("missing FontDescriptor")
	}

	if fontFileStream == "" {
		t.Fatal("missing FontFile2 stream")
	}
	if !strings.Contains(fontFileStream, "/Length1 64") {
		t.Errorf("FontFile2 /Length1 should equal the original 64-byte font program, got: %s", fontFileStream)
	}
}

func TestFontEmbedder_DefaultWidthFromSpace(t *testing.T) {
	ttf := buildTestFont(t)
	embedder := NewFontEmbedder(ttf, map[uint16]struct{}{}, sequentialAllocator())

	if got := embedder.defaultWidth(); got != 500 {
		t.Errorf("defaultWidth() = %d, want 500 (space glyph's scaled advance)", got)
	}
}

func TestFontEmbedder_DefaultWidthFallback(t *testing.T) {
	ttf := &fonts.TTFFont{UnitsPerEm: 1000, CharToGlyph: map[rune]uint16{}}
	embedder := NewFontEmbedder(ttf, map[uint16]struct{}{}, sequentialAllocator())

	if got := embedder.defaultWidth(); got != 1000 {
		t.Errorf("defaultWidth() = %d, want 1000 fallback", got)
	}
}

func sequentialAllocator() func() int {
	next := 1
	return func() int { n := next; next++; return n }
}
