package fonts

import (
	"bytes"
	"encoding/binary"
)

// buildMinimalTTF assembles a synthetic sfnt font program with just the
// tables this package parses (head, hhea, hmtx, cmap), enough to exercise
// ParseTTF end to end without needing a real font file on disk.
func buildMinimalTTF() []byte {
	xMin, yMin, descender := int16(-100), int16(-200), int16(-200)

	head := make([]byte, 54)
	binary.BigEndian.PutUint16(head[18:20], 1000) // unitsPerEm
	binary.BigEndian.PutUint16(head[36:38], uint16(xMin))
	binary.BigEndian.PutUint16(head[38:40], uint16(yMin))
	binary.BigEndian.PutUint16(head[40:42], 900)
	binary.BigEndian.PutUint16(head[42:44], 800)

	hhea := make([]byte, 36)
	binary.BigEndian.PutUint16(hhea[4:6], 900)                      // ascender
	binary.BigEndian.PutUint16(hhea[6:8], uint16(descender))        // descender
	binary.BigEndian.PutUint16(hhea[8:10], 50)                      // lineGap
	binary.BigEndian.PutUint16(hhea[34:36], 2)                      // numHMetrics

	hmtx := make([]byte, 8)
	binary.BigEndian.PutUint16(hmtx[0:2], 500) // glyph 0 advance
	binary.BigEndian.PutUint16(hmtx[4:6], 600) // glyph 1 advance

	cmap := buildFormat4Cmap(map[rune]uint16{
		'A': 1,
		'B': 2,
	})

	tables := []struct {
		tag  string
		data []byte
	}{
		{"head", head},
		{"hhea", hhea},
		{"hmtx", hmtx},
		{"cmap", cmap},
	}

	return assembleSFNT(tables)
}

func assembleSFNT(tables []struct {
	tag  string
	data []byte
}) []byte {
	const directoryHeaderSize = 12
	const entrySize = 16

	numTables := len(tables)
	dataStart := directoryHeaderSize + numTables*entrySize

	var body bytes.Buffer
	body.Write(make([]byte, directoryHeaderSize+numTables*entrySize))

	offset := dataStart
	for i, t := range tables {
		entryOffset := directoryHeaderSize + i*entrySize
		buf := body.Bytes()
		copy(buf[entryOffset:entryOffset+4], t.tag)
		binary.BigEndian.PutUint32(buf[entryOffset+8:entryOffset+12], uint32(offset))
		binary.BigEndian.PutUint32(buf[entryOffset+12:entryOffset+16], uint32(len(t.data)))
		offset += len(t.data)
	}

	buf := body.Bytes()
	binary.BigEndian.PutUint16(buf[4:6], uint16(numTables))

	out := make([]byte, offset)
	copy(out, buf)
	pos := dataStart
	for _, t := range tables {
		copy(out[pos:], t.data)
		pos += len(t.data)
	}

	return out
}

// buildFormat4Cmap builds a minimal single-subtable (platform 3, encoding 1)
// format-4 cmap covering the given char->glyph mapping, one segment per
// character plus the required terminating 0xFFFF segment.
func buildFormat4Cmap(mapping map[rune]uint16) []byte {
	type seg struct {
		start, end uint16
		delta      int16
	}

	var segs []seg
	for r, g := range mapping {
		segs = append(segs, seg{start: uint16(r), end: uint16(r), delta: int16(int32(g) - int32(r))})
	}
	// Sort by start code, required by the format.
	for i := 1; i < len(segs); i++ {
		for j := i; j > 0 && segs[j-1].start > segs[j].start; j-- {
			segs[j-1], segs[j] = segs[j], segs[j-1]
		}
	}
	segs = append(segs, seg{start: 0xFFFF, end: 0xFFFF, delta: 1})

	segCount := len(segs)
	segCountX2 := segCount * 2

	subtableLen := 14 + segCount*2 /*end*/ + 2 /*pad*/ + segCount*2 /*start*/ + segCount*2 /*delta*/ + segCount*2 /*rangeOffset*/
	sub := make([]byte, subtableLen)

	binary.BigEndian.PutUint16(sub[0:2], 4) // format
	binary.BigEndian.PutUint16(sub[2:4], uint16(subtableLen))
	binary.BigEndian.PutUint16(sub[6:8], uint16(segCountX2))

	endOffset := 14
	startOffset := endOffset + segCount*2 + 2
	deltaOffset := startOffset + segCount*2
	rangeOffset := deltaOffset + segCount*2

	for i, s := range segs {
		binary.BigEndian.PutUint16(sub[endOffset+i*2:], s.end)
		binary.BigEndian.PutUint16(sub[startOffset+i*2:], s.start)
		binary.BigEndian.PutUint16(sub[deltaOffset+i*2:], uint16(s.delta))
		binary.BigEndian.PutUint16(sub[rangeOffset+i*2:], 0)
	}

	header := make([]byte, 4+8) // cmap header + one encoding record
	binary.BigEndian.PutUint16(header[2:4], 1)
	binary.BigEndian.PutUint16(header[4:6], 3) // platformID
	binary.BigEndian.PutUint16(header[6:8], 1) // encodingID
	binary.BigEndian.PutUint32(header[8:12], uint32(len(header)))

	return append(header, sub...)
}
