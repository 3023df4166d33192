package fonts

import "testing"

func TestParseTTF(t *testing.T) {
	data := buildMinimalTTF()

	f, err := ParseTTF(data, "Resources/Fonts/test.odttf")
	if err != nil {
		t.Fatalf("ParseTTF: %v", err)
	}

	if f.UnitsPerEm != 1000 {
		t.Errorf("UnitsPerEm = %d, want 1000", f.UnitsPerEm)
	}
	if f.Ascender != 900 || f.Descender != -200 {
		t.Errorf("Ascender/Descender = %d/%d, want 900/-200", f.Ascender, f.Descender)
	}
	if got := f.GlyphWidth(0); got != 500 {
		t.Errorf("glyphWidth(0) = %d, want 500", got)
	}
	if got := f.GlyphWidth(1); got != 600 {
		t.Errorf("glyphWidth(1) = %d, want 600", got)
	}
	// Beyond the last hmtx entry, the last width repeats.
	if got := f.GlyphWidth(50); got != 600 {
		t.Errorf("glyphWidth(50) = %d, want 600 (repeat of last entry)", got)
	}

	if g, ok := f.CharToGlyph['A']; !ok || g != 1 {
		t.Errorf("CharToGlyph['A'] = %d,%v want 1,true", g, ok)
	}
	if g, ok := f.CharToGlyph['B']; !ok || g != 2 {
		t.Errorf("CharToGlyph['B'] = %d,%v want 2,true", g, ok)
	}
	if _, ok := f.CharToGlyph['Z']; ok {
		t.Error("CharToGlyph['Z'] should be absent from a font that never mapped it")
	}

	if len(f.FontData) != len(data) {
		t.Error("FontData should retain the original bytes verbatim for FontFile2 embedding")
	}
}

func TestParseTTF_TooShort(t *testing.T) {
	if _, err := ParseTTF([]byte{1, 2, 3}, "x"); err == nil {
		t.Error("expected error parsing truncated font data")
	}
}

func TestFontName_FallsBackToSourceURI(t *testing.T) {
	f := &TTFFont{SourceURI: "Resources/Fonts/MyFont.odttf"}
	if got := fontName(f); got != "MyFont" {
		t.Errorf("fontName = %q, want %q", got, "MyFont")
	}
}

func TestFontName_PrefersPostScriptName(t *testing.T) {
	f := &TTFFont{SourceURI: "Resources/Fonts/MyFont.odttf", PostScriptName: "Arial-Bold"}
	if got := fontName(f); got != "Arial-Bold" {
		t.Errorf("fontName = %q, want %q", got, "Arial-Bold")
	}
}
