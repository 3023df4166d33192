package writer

import (
	"bytes"
	"fmt"
)

// PDFWriter assembles the indirect objects of a single-page PDF document
// and serializes them with a cross-reference table and trailer.
//
// Unlike a general-purpose PDF library, this writer only ever produces one
// page: callers allocate object numbers for fonts and images up front via
// AllocateObjNum, register the finished objects with AddObject, then call
// WritePage once the content stream and resource dictionary are ready.
type PDFWriter struct {
	objects    []*IndirectObject
	nextObjNum int
}

// NewPDFWriter creates a writer with object numbering starting at 1.
func NewPDFWriter() *PDFWriter {
	return &PDFWriter{nextObjNum: 1}
}

// AllocateObjNum reserves the next object number without creating an
// object yet, so callers (font/image embedding) can forward-reference it
// from a dictionary they build before the referenced object itself exists.
func (w *PDFWriter) AllocateObjNum() int {
	num := w.nextObjNum
	w.nextObjNum++
	return num
}

// AddObject registers a fully-built indirect object for inclusion in the
// final document. The object's Num must have come from AllocateObjNum.
func (w *PDFWriter) AddObject(obj *IndirectObject) {
	w.objects = append(w.objects, obj)
}

// WritePage builds the catalog, page tree, resources, and content-stream
// objects for a single page of the given size (in PDF points, already
// scaled from the source document's 96 DPI units) and serializes the
// complete PDF: header, every registered object, cross-reference table,
// and trailer.
func (w *PDFWriter) WritePage(widthPt, heightPt float64, resources *ResourceDictionary, content []byte, compression CompressionLevel) ([]byte, error) {
	compressed, err := CompressStream(content, compression)
	if err != nil {
		return nil, fmt.Errorf("compress content stream: %w", err)
	}

	contentObjNum := w.AllocateObjNum()
	contentObj := NewIndirectObject(contentObjNum, 0, buildStreamBody(
		fmt.Sprintf("<< /Length %d /Filter /FlateDecode >>", len(compressed)), compressed))

	pageObjNum := w.AllocateObjNum()
	pagesObjNum := w.AllocateObjNum()
	catalogObjNum := w.AllocateObjNum()

	pageBody := fmt.Sprintf(
		"<< /Type /Page /Parent %d 0 R /MediaBox [0 0 %.4f %.4f] /Resources %s /Contents %d 0 R >>",
		pagesObjNum, widthPt, heightPt, resources.Bytes(), contentObjNum,
	)
	pageObj := NewIndirectObject(pageObjNum, 0, []byte(pageBody))

	pagesBody := fmt.Sprintf("<< /Type /Pages /Kids [%d 0 R] /Count 1 >>", pageObjNum)
	pagesObj := NewIndirectObject(pagesObjNum, 0, []byte(pagesBody))

	catalogBody := fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesObjNum)
	catalogObj := NewIndirectObject(catalogObjNum, 0, []byte(catalogBody))

	w.objects = append(w.objects, contentObj, pageObj, pagesObj, catalogObj)

	return w.serialize(catalogObjNum)
}

func buildStreamBody(dict string, data []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(dict)
	buf.WriteString("\nstream\n")
	buf.Write(data)
	buf.WriteString("\nendstream")
	return buf.Bytes()
}

func (w *PDFWriter) serialize(catalogObjNum int) ([]byte, error) {
	var buf bytes.Buffer

	writeHeader(&buf)

	offsets := make(map[int]int64, len(w.objects))
	for _, obj := range w.objects {
		offsets[obj.Num] = int64(buf.Len())
		buf.Write(obj.Bytes())
	}

	xrefOffset := int64(buf.Len())
	writeXRef(&buf, w.nextObjNum, offsets)
	writeTrailer(&buf, catalogObjNum, w.nextObjNum, xrefOffset)

	return buf.Bytes(), nil
}

// writeHeader writes the PDF header and a binary marker comment (four
// bytes above 0x7F) so transfer tools treat the file as binary.
func writeHeader(buf *bytes.Buffer) {
	buf.WriteString("%PDF-1.7\n")
	buf.Write([]byte{0x25, 0xE2, 0xE3, 0xCF, 0xD3, 0x0A})
}

// writeXRef writes the cross-reference table covering objects 0..size-1.
func writeXRef(buf *bytes.Buffer, size int, offsets map[int]int64) {
	buf.WriteString("xref\n")
	fmt.Fprintf(buf, "0 %d\n", size)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i < size; i++ {
		fmt.Fprintf(buf, "%010d %05d n \n", offsets[i], 0)
	}
}

// writeTrailer writes the trailer dictionary, startxref, and EOF marker.
func writeTrailer(buf *bytes.Buffer, catalogObjNum, size int, xrefOffset int64) {
	buf.WriteString("trailer\n")
	fmt.Fprintf(buf, "<< /Size %d /Root %d 0 R >>\n", size, catalogObjNum)
	buf.WriteString("startxref\n")
	fmt.Fprintf(buf, "%d\n", xrefOffset)
	buf.WriteString("%%EOF\n")
}
