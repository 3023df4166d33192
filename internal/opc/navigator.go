package opc

import (
	"encoding/xml"
	"fmt"
)

// fixedDocumentSequencePart is the well-known root part every DWFx/XPS
// package carries.
const fixedDocumentSequencePart = "FixedDocumentSequence.fdseq"

// PageRef locates a single FixedPage part and the base directory resource
// references within it resolve against.
type PageRef struct {
	FPagePath string
	BasePath  string
}

// genericElement decodes just enough of an XPS part's XML to walk its
// child elements by tag and read a handful of attributes, without binding
// to the full FixedDocumentSequence/FixedDocument schema.
type genericElement struct {
	XMLName  xml.Name
	Attrs    []xml.Attr       `xml:",any,attr"`
	Children []genericElement `xml:",any"`
}

func (e *genericElement) attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func parseGenericXML(data []byte) (*genericElement, error) {
	var root genericElement
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	return &root, nil
}

// FindPages walks FixedDocumentSequence.fdseq → FixedDocument →
// PageContent to enumerate every page part in document order. The caller
// (the orchestrator) is responsible for using only pages[0]; FindPages
// itself stays a general multi-page enumerator so a future multi-page
// mode only needs a different loop bound, not a rewritten navigator.
func FindPages(pkg *Package) ([]PageRef, error) {
	data, ok := pkg.ReadBytes(fixedDocumentSequencePart)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrPackageInvalid, fixedDocumentSequencePart)
	}

	seq, err := parseGenericXML(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPackageInvalid, fixedDocumentSequencePart, err)
	}

	var pages []PageRef

	for _, docRef := range seq.Children {
		if docRef.XMLName.Local != "DocumentReference" {
			continue
		}
		source, ok := docRef.attr("Source")
		if !ok {
			continue
		}
		docPath := ResolvePart("", source)

		docData, ok := pkg.ReadBytes(docPath)
		if !ok {
			// Unreadable DocumentReference target: skip silently, per §4.2.
			continue
		}

		doc, err := parseGenericXML(docData)
		if err != nil {
			continue
		}

		docBase := PartDir(docPath)

		for _, pageContent := range doc.Children {
			if pageContent.XMLName.Local != "PageContent" {
				continue
			}
			src, ok := pageContent.attr("Source")
			if !ok {
				continue
			}
			fpagePath := ResolvePart(docBase, src)
			pages = append(pages, PageRef{
				FPagePath: fpagePath,
				BasePath:  PartDir(fpagePath),
			})
		}
	}

	return pages, nil
}
