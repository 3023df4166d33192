// Package fonts parses the TrueType outlines embedded in a DWFx document
// (after ODTTF deobfuscation) and derives the PDF font metadata needed to
// embed them as whole, un-subsetted CIDFontType2 programs.
package fonts

import (
	"encoding/binary"
	"fmt"
)

// TTFFont holds the tables and derived metrics this package needs out of a
// parsed TrueType font program.
type TTFFont struct {
	// SourceURI is the XPS FontUri the bytes were read from, kept only for
	// diagnostics and as the fallback for PostScriptName-derived naming.
	SourceURI string

	Tables map[string]*TTFTable

	UnitsPerEm  uint16
	GlyphWidths []uint16
	CharToGlyph map[rune]uint16

	// FontData is the original, unmodified font program bytes, embedded
	// verbatim as the PDF FontFile2 stream.
	FontData []byte

	PostScriptName string

	FontBBox  [4]int
	Ascender  int16
	Descender int16
	LineGap   int16

	ItalicAngle         float64
	UnderlinePosition   int16
	UnderlineThickness  int16
	IsFixedPitch        bool

	CapHeight     int16
	XHeight       int16
	WeightClass   uint16
	WidthClass    uint16
	FSType        uint16
	TypoAscender  int16
	TypoDescender int16

	StemV int
	Flags uint32
}

// TTFTable is a single entry of the sfnt table directory.
type TTFTable struct {
	Tag      string
	Checksum uint32
	Offset   uint32
	Length   uint32
	Data     []byte
}

// ParseTTF parses a TrueType/OpenType font program held entirely in memory.
// DWFx embeds fonts as ODTTF-obfuscated TrueType data inside the package;
// by the time it reaches this function it has already been deobfuscated
// by internal/xps, so ParseTTF never touches disk.
func ParseTTF(data []byte, sourceURI string) (*TTFFont, error) {
	f := &TTFFont{
		SourceURI: sourceURI,
		FontData:  data,
	}

	if err := parseFontDirectory(data, f); err != nil {
		return nil, fmt.Errorf("parse font directory: %w", err)
	}

	if err := parseRequiredTables(f); err != nil {
		return nil, fmt.Errorf("parse required tables: %w", err)
	}

	calculateDerivedMetrics(f)

	return f, nil
}

func parseFontDirectory(data []byte, f *TTFFont) error {
	if len(data) < 12 {
		return fmt.Errorf("font data too short for sfnt header: %d bytes", len(data))
	}

	numTables := binary.BigEndian.Uint16(data[4:6])

	const directoryHeaderSize = 12
	const tableEntrySize = 16

	needed := directoryHeaderSize + int(numTables)*tableEntrySize
	if len(data) < needed {
		return fmt.Errorf("font data too short for %d table entries: have %d, need %d",
			numTables, len(data), needed)
	}

	f.Tables = make(map[string]*TTFTable, numTables)

	for i := 0; i < int(numTables); i++ {
		entryOffset := directoryHeaderSize + i*tableEntrySize
		table, err := parseTableEntry(data, entryOffset)
		if err != nil {
			return fmt.Errorf("table entry %d: %w", i, err)
		}
		f.Tables[table.Tag] = table
	}

	return nil
}

func parseTableEntry(data []byte, offset int) (*TTFTable, error) {
	tag := string(data[offset : offset+4])
	checksum := binary.BigEndian.Uint32(data[offset+4 : offset+8])
	tableOffset := binary.BigEndian.Uint32(data[offset+8 : offset+12])
	length := binary.BigEndian.Uint32(data[offset+12 : offset+16])

	if int(tableOffset)+int(length) > len(data) {
		return nil, fmt.Errorf("table %q out of bounds: offset=%d length=%d data=%d",
			tag, tableOffset, length, len(data))
	}

	return &TTFTable{
		Tag:      tag,
		Checksum: checksum,
		Offset:   tableOffset,
		Length:   length,
		Data:     data[tableOffset : tableOffset+length],
	}, nil
}

// GlyphWidth returns the advance width for glyphID, per the sfnt rule that
// trailing glyphs beyond the last hmtx entry repeat its width.
func (f *TTFFont) GlyphWidth(glyphID uint16) uint16 {
	if len(f.GlyphWidths) == 0 {
		return 0
	}
	if int(glyphID) < len(f.GlyphWidths) {
		return f.GlyphWidths[glyphID]
	}
	return f.GlyphWidths[len(f.GlyphWidths)-1]
}

func (f *TTFFont) table(tag string) (*TTFTable, bool) {
	t, ok := f.Tables[tag]
	return t, ok
}
