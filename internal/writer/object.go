package writer

import "fmt"

// IndirectObject is a single PDF indirect object: "N G obj\n<body>\nendobj\n".
type IndirectObject struct {
	Num int
	Gen int
	// Body is the object's contents, already formatted as a PDF dictionary,
	// array, or stream (without the surrounding "obj"/"endobj" markers).
	Body []byte
}

// NewIndirectObject creates an IndirectObject from a pre-rendered body.
func NewIndirectObject(num, gen int, body []byte) *IndirectObject {
	return &IndirectObject{Num: num, Gen: gen, Body: body}
}

// Bytes renders the object in PDF syntax.
func (o *IndirectObject) Bytes() []byte {
	return []byte(fmt.Sprintf("%d %d obj\n%s\nendobj\n", o.Num, o.Gen, o.Body))
}

// Reference returns the "N G R" indirect reference to this object.
func (o *IndirectObject) Reference() string {
	return fmt.Sprintf("%d %d R", o.Num, o.Gen)
}
