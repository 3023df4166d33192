package fonts

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"
)

// parseRequiredTables parses the sfnt tables needed to derive PDF font
// metrics and a character-to-glyph mapping: head, hhea, hmtx, cmap, plus
// the optional-but-usually-present post, OS/2 and name tables.
func parseRequiredTables(f *TTFFont) error {
	if err := parseHeadTable(f); err != nil {
		return fmt.Errorf("head: %w", err)
	}
	numHMetrics, err := parseHheaTable(f)
	if err != nil {
		return fmt.Errorf("hhea: %w", err)
	}
	if err := parseHmtxTable(f, numHMetrics); err != nil {
		return fmt.Errorf("hmtx: %w", err)
	}
	if err := parseCmapTable(f); err != nil {
		return fmt.Errorf("cmap: %w", err)
	}

	// post/OS2/name are optional; a font missing them still yields usable
	// metrics via calculateDerivedMetrics's fallbacks.
	if _, ok := f.table("post"); ok {
		if err := parsePostTable(f); err != nil {
			return fmt.Errorf("post: %w", err)
		}
	}
	if _, ok := f.table("OS/2"); ok {
		if err := parseOS2Table(f); err != nil {
			return fmt.Errorf("OS/2: %w", err)
		}
	}
	if _, ok := f.table("name"); ok {
		if err := parseNameTable(f); err != nil {
			return fmt.Errorf("name: %w", err)
		}
	}

	return nil
}

// --- head ---

func parseHeadTable(f *TTFFont) error {
	t, ok := f.table("head")
	if !ok {
		return fmt.Errorf("missing required table")
	}
	if len(t.Data) < 54 {
		return fmt.Errorf("table too short: %d bytes", len(t.Data))
	}

	f.UnitsPerEm = binary.BigEndian.Uint16(t.Data[18:20])
	xMin := int16(binary.BigEndian.Uint16(t.Data[36:38]))
	yMin := int16(binary.BigEndian.Uint16(t.Data[38:40]))
	xMax := int16(binary.BigEndian.Uint16(t.Data[40:42]))
	yMax := int16(binary.BigEndian.Uint16(t.Data[42:44]))
	f.FontBBox = [4]int{int(xMin), int(yMin), int(xMax), int(yMax)}

	if f.UnitsPerEm == 0 {
		f.UnitsPerEm = 1000
	}

	return nil
}

// --- hhea ---

func parseHheaTable(f *TTFFont) (uint16, error) {
	t, ok := f.table("hhea")
	if !ok {
		return 0, fmt.Errorf("missing required table")
	}
	if len(t.Data) < 36 {
		return 0, fmt.Errorf("table too short: %d bytes", len(t.Data))
	}

	f.Ascender = int16(binary.BigEndian.Uint16(t.Data[4:6]))
	f.Descender = int16(binary.BigEndian.Uint16(t.Data[6:8]))
	f.LineGap = int16(binary.BigEndian.Uint16(t.Data[8:10]))

	numHMetrics := binary.BigEndian.Uint16(t.Data[34:36])
	return numHMetrics, nil
}

// --- hmtx ---

type hMetric struct {
	AdvanceWidth uint16
	LSB          int16
}

func parseHmtxTable(f *TTFFont, numHMetrics uint16) error {
	t, ok := f.table("hmtx")
	if !ok {
		return fmt.Errorf("missing required table")
	}

	needed := int(numHMetrics) * 4
	if len(t.Data) < needed {
		return fmt.Errorf("table too short for %d long metrics: have %d, need %d",
			numHMetrics, len(t.Data), needed)
	}

	widths := make([]uint16, numHMetrics)
	for i := 0; i < int(numHMetrics); i++ {
		widths[i] = binary.BigEndian.Uint16(t.Data[i*4 : i*4+2])
	}
	f.GlyphWidths = widths

	return nil
}

// --- cmap ---

func parseCmapTable(f *TTFFont) error {
	t, ok := f.table("cmap")
	if !ok {
		return fmt.Errorf("missing required table")
	}
	data := t.Data

	numSubtables, err := readCmapHeader(data)
	if err != nil {
		return err
	}

	platformID, encodingID, subtableOffset, err := findBestCmapSubtable(data, numSubtables)
	if err != nil {
		return err
	}

	mapping, err := parseCmapSubtable(data, subtableOffset)
	if err != nil {
		return fmt.Errorf("platform=%d encoding=%d: %w", platformID, encodingID, err)
	}

	f.CharToGlyph = mapping
	return nil
}

func readCmapHeader(data []byte) (numSubtables uint16, err error) {
	if len(data) < 4 {
		return 0, fmt.Errorf("cmap table too short: %d bytes", len(data))
	}
	return binary.BigEndian.Uint16(data[2:4]), nil
}

func findBestCmapSubtable(data []byte, numSubtables uint16) (platformID, encodingID uint16, offset uint32, err error) {
	const headerSize = 4
	const entrySize = 8

	needed := headerSize + int(numSubtables)*entrySize
	if len(data) < needed {
		return 0, 0, 0, fmt.Errorf("cmap table too short for %d subtables", numSubtables)
	}

	var bestOffset uint32
	var bestPlatform, bestEncoding uint16
	found := false
	bestScore := -1

	for i := 0; i < int(numSubtables); i++ {
		entryOffset := headerSize + i*entrySize
		pid := binary.BigEndian.Uint16(data[entryOffset : entryOffset+2])
		eid := binary.BigEndian.Uint16(data[entryOffset+2 : entryOffset+4])
		off := binary.BigEndian.Uint32(data[entryOffset+4 : entryOffset+8])

		score := 0
		switch {
		case pid == 3 && eid == 1: // Windows, Unicode BMP
			score = 3
		case pid == 0: // Unicode platform
			score = 2
		case pid == 3 && eid == 0: // Windows, Symbol
			score = 1
		}

		if score > bestScore {
			bestScore = score
			bestPlatform, bestEncoding, bestOffset = pid, eid, off
			found = true
		}
	}

	if !found {
		return 0, 0, 0, fmt.Errorf("no usable cmap subtable found")
	}

	return bestPlatform, bestEncoding, bestOffset, nil
}

func parseCmapSubtable(data []byte, offset uint32) (map[rune]uint16, error) {
	if int(offset)+2 > len(data) {
		return nil, fmt.Errorf("subtable offset out of bounds: %d", offset)
	}
	format := binary.BigEndian.Uint16(data[offset : offset+2])

	switch format {
	case 4:
		return parseCmapFormat4(data[offset:])
	case 12:
		return parseCmapFormat12(data[offset:])
	default:
		return nil, fmt.Errorf("unsupported cmap subtable format %d", format)
	}
}

type format4Header struct {
	segCountX2    uint16
	searchRange   uint16
	entrySelector uint16
	rangeShift    uint16
}

func readFormat4Header(data []byte) (format4Header, error) {
	if len(data) < 14 {
		return format4Header{}, fmt.Errorf("format 4 header too short: %d bytes", len(data))
	}
	return format4Header{
		segCountX2:    binary.BigEndian.Uint16(data[6:8]),
		searchRange:   binary.BigEndian.Uint16(data[8:10]),
		entrySelector: binary.BigEndian.Uint16(data[10:12]),
		rangeShift:    binary.BigEndian.Uint16(data[12:14]),
	}, nil
}

type format4Arrays struct {
	endCodes      []uint16
	startCodes    []uint16
	idDeltas      []int16
	idRangeOffset []uint16
	idRangeBase   int // byte offset of idRangeOffset[0] within data, for glyphIDArray indexing
}

func readFormat4Segments(data []byte, hdr format4Header) (format4Arrays, error) {
	segCount := int(hdr.segCountX2 / 2)

	const fixedHeaderSize = 14
	endCodesOffset := fixedHeaderSize
	startCodesOffset := endCodesOffset + segCount*2 + 2 // +2 for reservedPad
	idDeltasOffset := startCodesOffset + segCount*2
	idRangeOffsetOffset := idDeltasOffset + segCount*2

	needed := idRangeOffsetOffset + segCount*2
	if len(data) < needed {
		return format4Arrays{}, fmt.Errorf("format 4 arrays truncated: have %d, need %d", len(data), needed)
	}

	arr := format4Arrays{
		endCodes:      make([]uint16, segCount),
		startCodes:    make([]uint16, segCount),
		idDeltas:      make([]int16, segCount),
		idRangeOffset: make([]uint16, segCount),
		idRangeBase:   idRangeOffsetOffset,
	}

	for i := 0; i < segCount; i++ {
		arr.endCodes[i] = binary.BigEndian.Uint16(data[endCodesOffset+i*2:])
		arr.startCodes[i] = binary.BigEndian.Uint16(data[startCodesOffset+i*2:])
		arr.idDeltas[i] = int16(binary.BigEndian.Uint16(data[idDeltasOffset+i*2:]))
		arr.idRangeOffset[i] = binary.BigEndian.Uint16(data[idRangeOffsetOffset+i*2:])
	}

	return arr, nil
}

func buildCharToGlyphMapping(data []byte, arr format4Arrays) map[rune]uint16 {
	mapping := make(map[rune]uint16)

	for seg := 0; seg < len(arr.endCodes); seg++ {
		start := arr.startCodes[seg]
		end := arr.endCodes[seg]
		if start == 0xFFFF && end == 0xFFFF {
			continue
		}

		for c := uint32(start); c <= uint32(end); c++ {
			var glyphID uint16

			if arr.idRangeOffset[seg] == 0 {
				glyphID = uint16(uint32(int32(c)+int32(arr.idDeltas[seg])) & 0xFFFF)
			} else {
				glyphIndexAddr := arr.idRangeBase + seg*2 +
					int(arr.idRangeOffset[seg]) + int(c-uint32(start))*2
				if glyphIndexAddr+2 > len(data) {
					continue
				}
				g := binary.BigEndian.Uint16(data[glyphIndexAddr:])
				if g == 0 {
					continue
				}
				glyphID = uint16(uint32(int32(g)+int32(arr.idDeltas[seg])) & 0xFFFF)
			}

			if glyphID != 0 {
				mapping[rune(c)] = glyphID
			}
			if c == 0xFFFF {
				break
			}
		}
	}

	return mapping
}

func parseCmapFormat4(data []byte) (map[rune]uint16, error) {
	hdr, err := readFormat4Header(data)
	if err != nil {
		return nil, err
	}
	arr, err := readFormat4Segments(data, hdr)
	if err != nil {
		return nil, err
	}
	return buildCharToGlyphMapping(data, arr), nil
}

func parseCmapFormat12(data []byte) (map[rune]uint16, error) {
	return nil, fmt.Errorf("cmap format 12 not implemented")
}

// --- post ---

func parsePostTable(f *TTFFont) error {
	t, _ := f.table("post")
	if len(t.Data) < 32 {
		return fmt.Errorf("table too short: %d bytes", len(t.Data))
	}

	italicAngleFixed := int32(binary.BigEndian.Uint32(t.Data[4:8]))
	f.ItalicAngle = float64(italicAngleFixed) / 65536.0

	f.UnderlinePosition = int16(binary.BigEndian.Uint16(t.Data[8:10]))
	f.UnderlineThickness = int16(binary.BigEndian.Uint16(t.Data[10:12]))
	f.IsFixedPitch = binary.BigEndian.Uint32(t.Data[12:16]) != 0

	return nil
}

// --- OS/2 ---

func parseOS2Table(f *TTFFont) error {
	t, _ := f.table("OS/2")
	if len(t.Data) < 78 {
		return fmt.Errorf("table too short: %d bytes", len(t.Data))
	}

	version := binary.BigEndian.Uint16(t.Data[0:2])
	f.WeightClass = binary.BigEndian.Uint16(t.Data[4:6])
	f.WidthClass = binary.BigEndian.Uint16(t.Data[6:8])
	f.FSType = binary.BigEndian.Uint16(t.Data[8:10])
	f.TypoAscender = int16(binary.BigEndian.Uint16(t.Data[68:70]))
	f.TypoDescender = int16(binary.BigEndian.Uint16(t.Data[70:72]))

	if version >= 2 && len(t.Data) >= 90 {
		f.XHeight = int16(binary.BigEndian.Uint16(t.Data[86:88]))
		f.CapHeight = int16(binary.BigEndian.Uint16(t.Data[88:90]))
	} else {
		// Estimate from typographic ascender, the conventional fallback
		// for fonts built before OS/2 version 2.
		f.CapHeight = int16(float64(f.TypoAscender) * 0.7)
		f.XHeight = int16(float64(f.TypoAscender) * 0.5)
	}

	return nil
}

// --- name ---

func parseNameTable(f *TTFFont) error {
	t, _ := f.table("name")
	data := t.Data
	if len(data) < 6 {
		return fmt.Errorf("table too short: %d bytes", len(data))
	}

	count := binary.BigEndian.Uint16(data[2:4])
	stringOffset := binary.BigEndian.Uint16(data[4:6])

	const recordSize = 12
	const headerSize = 6
	needed := headerSize + int(count)*recordSize
	if len(data) < needed {
		return fmt.Errorf("table too short for %d name records", count)
	}

	for i := 0; i < int(count); i++ {
		recOffset := headerSize + i*recordSize
		platformID := binary.BigEndian.Uint16(data[recOffset : recOffset+2])
		nameID := binary.BigEndian.Uint16(data[recOffset+6 : recOffset+8])
		length := binary.BigEndian.Uint16(data[recOffset+8 : recOffset+10])
		offset := binary.BigEndian.Uint16(data[recOffset+10 : recOffset+12])

		if nameID != 6 { // PostScript name
			continue
		}

		start := int(stringOffset) + int(offset)
		end := start + int(length)
		if start < 0 || end > len(data) || start > end {
			continue
		}
		raw := data[start:end]

		var name string
		if platformID == 3 || platformID == 0 {
			name = decodeUTF16BE(raw)
		} else {
			name = string(raw)
		}

		if name != "" {
			f.PostScriptName = name
			break
		}
	}

	return nil
}

func decodeUTF16BE(raw []byte) string {
	if len(raw)%2 != 0 {
		raw = raw[:len(raw)-1]
	}
	units := make([]uint16, len(raw)/2)
	for i := range units {
		units[i] = binary.BigEndian.Uint16(raw[i*2:])
	}
	return string(utf16.Decode(units))
}

// --- derived metrics ---

func calculateDerivedMetrics(f *TTFFont) {
	if f.WeightClass == 0 {
		f.WeightClass = 400
	}

	// StemV has no direct sfnt field; estimate from weight class the way
	// font tools conventionally do.
	switch {
	case f.WeightClass >= 700:
		f.StemV = 120
	case f.WeightClass >= 600:
		f.StemV = 100
	case f.WeightClass >= 500:
		f.StemV = 85
	default:
		f.StemV = 80
	}

	var flags uint32
	if f.IsFixedPitch {
		flags |= 1 << 0
	}
	flags |= 1 << 5 // Nonsymbolic, bit 6 (1-indexed) — assume text fonts by default.
	if f.ItalicAngle != 0 {
		flags |= 1 << 6
	}
	f.Flags = flags
}
