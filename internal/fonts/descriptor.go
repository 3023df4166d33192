package fonts

import (
	"crypto/sha1"
	"fmt"
	"path"
	"strings"
)

// FontDescriptor holds the metrics PDF's /FontDescriptor dictionary needs,
// scaled from font units to the PDF's 1000-units-per-em convention.
type FontDescriptor struct {
	FontName    string
	Flags       uint32
	FontBBox    [4]int
	ItalicAngle float64
	Ascent      int
	Descent     int
	CapHeight   int
	StemV       int
	XHeight     int
	Leading     int
}

// GenerateFontDescriptor derives a FontDescriptor from a parsed TrueType
// font's metrics, scaling every font-unit value to the PDF's 1000-unit em.
func GenerateFontDescriptor(ttf *TTFFont) *FontDescriptor {
	scale := 1000.0 / float64(ttf.UnitsPerEm)

	return &FontDescriptor{
		FontName:    fontName(ttf),
		Flags:       ttf.Flags,
		FontBBox:    scaleFontBBox(ttf.FontBBox, scale),
		ItalicAngle: ttf.ItalicAngle,
		Ascent:      scaleMetric(int(ttf.Ascender), scale),
		Descent:     scaleMetric(int(ttf.Descender), scale),
		CapHeight:   scaleMetric(int(ttf.CapHeight), scale),
		StemV:       ttf.StemV,
		XHeight:     scaleMetric(int(ttf.XHeight), scale),
		Leading:     scaleMetric(int(ttf.LineGap), scale),
	}
}

func fontName(ttf *TTFFont) string {
	if ttf.PostScriptName != "" {
		return ttf.PostScriptName
	}
	base := path.Base(ttf.SourceURI)
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "" || base == "." {
		return "EmbeddedFont"
	}
	return base
}

func scaleFontBBox(bbox [4]int, scale float64) [4]int {
	var out [4]int
	for i, v := range bbox {
		out[i] = int(float64(v) * scale)
	}
	return out
}

func scaleMetric(v int, scale float64) int {
	return int(float64(v) * scale)
}

// ToPDFDict renders the FontDescriptor as a PDF dictionary body, referring
// to the FontFile2 stream by its indirect object number.
func (fd *FontDescriptor) ToPDFDict(fontFile2ObjNum int) string {
	return fmt.Sprintf(
		"<< /Type /FontDescriptor /FontName /%s /Flags %d "+
			"/FontBBox [%d %d %d %d] /ItalicAngle %g /Ascent %d /Descent %d "+
			"/CapHeight %d /StemV %d /XHeight %d /Leading %d /FontFile2 %d 0 R >>",
		fd.FontName, fd.Flags,
		fd.FontBBox[0], fd.FontBBox[1], fd.FontBBox[2], fd.FontBBox[3],
		fd.ItalicAngle, fd.Ascent, fd.Descent,
		fd.CapHeight, fd.StemV, fd.XHeight, fd.Leading,
		fontFile2ObjNum,
	)
}

// SubsetFontName derives a deterministic 6-letter uppercase subset prefix
// (as PDF subsetting convention requires, "ABCDEF+BaseFont") from a hash of
// the used-character set, so repeated conversions of the same document
// produce stable font names even though this repo does not subset glyphs.
func SubsetFontName(baseName string, usedChars map[rune]struct{}) string {
	h := sha1.New()
	runes := make([]rune, 0, len(usedChars))
	for r := range usedChars {
		runes = append(runes, r)
	}
	for i := 1; i < len(runes); i++ {
		for j := i; j > 0 && runes[j-1] > runes[j]; j-- {
			runes[j-1], runes[j] = runes[j], runes[j-1]
		}
	}
	for _, r := range runes {
		fmt.Fprintf(h, "%d,", r)
	}
	sum := h.Sum(nil)

	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	prefix := make([]byte, 6)
	for i := range prefix {
		prefix[i] = letters[int(sum[i])%len(letters)]
	}

	return string(prefix) + "+" + baseName
}
