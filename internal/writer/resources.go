package writer

import (
	"bytes"
	"fmt"
	"sort"
)

// ResourceDictionary tracks the named resources (fonts, images, graphics
// states) a page's content stream refers to by name, keyed to their PDF
// object numbers.
//
// PDF Dictionary Format:
//
//	/Resources <<
//	  /Font << /F1 5 0 R >>
//	  /XObject << /Im1 7 0 R >>
//	  /ExtGState << /GS1 8 0 R >>
//	  /ProcSet [/PDF /Text /ImageB /ImageC /ImageI]
//	>>
//
// Not thread-safe; a ResourceDictionary is scoped to one page/conversion.
type ResourceDictionary struct {
	fonts      map[string]int
	fontIDs    map[string]string
	xobjects   map[string]int
	extgstates map[string]int
}

// NewResourceDictionary creates an empty resource dictionary.
func NewResourceDictionary() *ResourceDictionary {
	return &ResourceDictionary{
		fonts:      make(map[string]int),
		fontIDs:    make(map[string]string),
		xobjects:   make(map[string]int),
		extgstates: make(map[string]int),
	}
}

// AddFontWithID registers a font resource under a stable fontID (the
// hash of its FontUri) so the object number can be backfilled once the
// font's PDF objects are written, and returns the resource name (F1, F2, ...).
func (rd *ResourceDictionary) AddFontWithID(objNum int, fontID string) string {
	if name, ok := rd.fontIDs[fontID]; ok {
		return name
	}
	name := fmt.Sprintf("F%d", len(rd.fonts)+1)
	rd.fonts[name] = objNum
	rd.fontIDs[fontID] = name
	return name
}

// SetFontObjNumByID backfills the object number for a font registered
// via AddFontWithID. Reports false if fontID was never registered.
func (rd *ResourceDictionary) SetFontObjNumByID(fontID string, objNum int) bool {
	resName, ok := rd.fontIDs[fontID]
	if !ok {
		return false
	}
	rd.fonts[resName] = objNum
	return true
}

// AddImage registers an image XObject resource and returns its resource
// name (Im1, Im2, ...).
func (rd *ResourceDictionary) AddImage(objNum int) string {
	name := fmt.Sprintf("Im%d", len(rd.xobjects)+1)
	rd.xobjects[name] = objNum
	return name
}

// AddExtGState registers a graphics-state dictionary resource and
// returns its resource name (GS1, GS2, ...).
func (rd *ResourceDictionary) AddExtGState(objNum int) string {
	name := fmt.Sprintf("GS%d", len(rd.extgstates)+1)
	rd.extgstates[name] = objNum
	return name
}

// HasResources reports whether any resource has been registered.
func (rd *ResourceDictionary) HasResources() bool {
	return len(rd.fonts) > 0 || len(rd.xobjects) > 0 || len(rd.extgstates) > 0
}

// Bytes renders the resource dictionary as PDF bytes, with resource
// names sorted for deterministic output.
func (rd *ResourceDictionary) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString("<<")

	if len(rd.fonts) > 0 {
		buf.WriteString(" /Font <<")
		writeSortedResources(&buf, rd.fonts)
		buf.WriteString(" >>")
	}
	if len(rd.xobjects) > 0 {
		buf.WriteString(" /XObject <<")
		writeSortedResources(&buf, rd.xobjects)
		buf.WriteString(" >>")
	}
	if len(rd.extgstates) > 0 {
		buf.WriteString(" /ExtGState <<")
		writeSortedResources(&buf, rd.extgstates)
		buf.WriteString(" >>")
	}
	if rd.HasResources() {
		buf.WriteString(" /ProcSet [/PDF /Text /ImageB /ImageC /ImageI]")
	}
	buf.WriteString(" >>")
	return buf.Bytes()
}

func writeSortedResources(buf *bytes.Buffer, resources map[string]int) {
	names := make([]string, 0, len(resources))
	for name := range resources {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(buf, " /%s %d 0 R", name, resources[name])
	}
}
