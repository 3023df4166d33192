package fonts

import (
	"bytes"
	"fmt"
	"sort"
)

// GenerateToUnicodeCMap generates a ToUnicode CMap for text extraction.
//
// A ToUnicode CMap allows PDF viewers to extract correct Unicode text
// from documents using embedded fonts.
//
// glyphToUnicode maps glyph IDs, as used in the content stream's
// Identity-H-encoded show-text operands, to the Unicode code point they
// represent. Since this repo embeds whole fonts rather than a subset, the
// caller builds glyphToUnicode from the glyphs actually referenced by a
// conversion, not from the full font.
//
// Reference: PDF 1.7 specification, Section 9.10 (ToUnicode CMaps).
func GenerateToUnicodeCMap(glyphToUnicode map[uint16]rune) ([]byte, error) {
	var buf bytes.Buffer

	if err := writeCMapHeader(&buf); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if err := writeCharMappings(&buf, glyphToUnicode); err != nil {
		return nil, fmt.Errorf("write mappings: %w", err)
	}
	if err := writeCMapFooter(&buf); err != nil {
		return nil, fmt.Errorf("write footer: %w", err)
	}

	return buf.Bytes(), nil
}

// writeCMapHeader writes the CMap header.
func writeCMapHeader(buf *bytes.Buffer) error {
	// Code space range is 2 bytes (0000-FFFF) to accommodate 16-bit glyph IDs.
	header := `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CIDSystemInfo
<< /Registry (Adobe)
/Ordering (UCS)
/Supplement 0
>> def
/CMapName /Adobe-Identity-UCS def
/CMapType 2 def
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
`
	_, err := buf.WriteString(header)
	return err
}

// glyphMapping represents a mapping from glyph ID to Unicode code point.
type glyphMapping struct {
	glyphID uint16
	unicode rune
}

// writeCharMappings writes glyph ID to Unicode mappings.
//
// For TrueType fonts, the content stream uses glyph IDs as character codes.
// This CMap maps those glyph IDs back to Unicode code points for text
// extraction.
func writeCharMappings(buf *bytes.Buffer, glyphToUnicode map[uint16]rune) error {
	mappings := make([]glyphMapping, 0, len(glyphToUnicode))
	for glyphID, unicode := range glyphToUnicode {
		mappings = append(mappings, glyphMapping{glyphID: glyphID, unicode: unicode})
	}

	// Sort by glyph ID for consistent output.
	sort.Slice(mappings, func(i, j int) bool {
		return mappings[i].glyphID < mappings[j].glyphID
	})

	// Write mappings in batches of 100 (PDF spec limit).
	const maxBatchSize = 100
	for i := 0; i < len(mappings); i += maxBatchSize {
		end := i + maxBatchSize
		if end > len(mappings) {
			end = len(mappings)
		}

		if err := writeMappingBatch(buf, mappings[i:end]); err != nil {
			return fmt.Errorf("write batch: %w", err)
		}
	}

	return nil
}

// writeMappingBatch writes a batch of glyph ID to Unicode mappings.
func writeMappingBatch(buf *bytes.Buffer, mappings []glyphMapping) error {
	if _, err := fmt.Fprintf(buf, "%d beginbfchar\n", len(mappings)); err != nil {
		return err
	}

	for _, m := range mappings {
		glyphCode := fmt.Sprintf("<%04X>", m.glyphID)
		unicode := fmt.Sprintf("<%04X>", m.unicode)
		if _, err := fmt.Fprintf(buf, "%s %s\n", glyphCode, unicode); err != nil {
			return err
		}
	}

	if _, err := buf.WriteString("endbfchar\n"); err != nil {
		return err
	}

	return nil
}

// writeCMapFooter writes the CMap footer.
func writeCMapFooter(buf *bytes.Buffer) error {
	footer := `endcmap
CMapName currentdict /CMap defineresource pop
end
end
`
	_, err := buf.WriteString(footer)
	return err
}
