// Package convertflow converts a DWFx document's first fixed page into a
// single-page PDF.
package convertflow

import (
	"fmt"
	"os"

	"github.com/kfirzuberi/convertflow/internal/graphics"
	"github.com/kfirzuberi/convertflow/internal/opc"
	"github.com/kfirzuberi/convertflow/internal/render"
	"github.com/kfirzuberi/convertflow/internal/writer"
	"github.com/kfirzuberi/convertflow/internal/xps"
	"github.com/kfirzuberi/convertflow/logging"
)

// unitsPerInch is the XPS coordinate unit: 1/96 inch per unit.
const unitsPerInch = 96.0

// pointsPerInch is the PDF coordinate unit: 1/72 inch per point.
const pointsPerInch = 72.0

// Convert reads the DWFx package at inputPath, renders its first FixedPage,
// and writes the resulting single-page PDF to outputPath.
func Convert(inputPath, outputPath string) error {
	pkg, err := opc.Open(inputPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPackageInvalid, err)
	}
	defer pkg.Close()

	pages, err := opc.FindPages(pkg)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPackageInvalid, err)
	}
	if len(pages) == 0 {
		return ErrNoPages
	}
	page := pages[0]

	fpageData, ok := pkg.ReadBytes(page.FPagePath)
	if !ok {
		return fmt.Errorf("%w: unreadable FixedPage part %s", ErrPackageInvalid, page.FPagePath)
	}

	root, err := xps.ParseTree(fpageData)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPackageInvalid, err)
	}

	resolver := xps.NewResolver(pkg)
	resolver.Resolve(root, page.BasePath)

	pdfWriter := writer.NewPDFWriter()
	emitter := render.NewEmitter(resolver, page.BasePath, pdfWriter.AllocateObjNum)

	scale := graphics.Scale(pointsPerInch/unitsPerInch, pointsPerInch/unitsPerInch)
	content, resources, auxObjects, err := emitter.RenderPage(root, scale)
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	for _, obj := range auxObjects {
		pdfWriter.AddObject(obj)
	}

	widthUnits := parsePageDimension(root, "Width")
	heightUnits := parsePageDimension(root, "Height")
	widthPt := widthUnits * pointsPerInch / unitsPerInch
	heightPt := heightUnits * pointsPerInch / unitsPerInch

	pdfBytes, err := pdfWriter.WritePage(widthPt, heightPt, resources, content, writer.DefaultCompression)
	if err != nil {
		return fmt.Errorf("assemble PDF: %w", err)
	}

	if err := os.WriteFile(outputPath, pdfBytes, 0o644); err != nil {
		logging.Logger().Error("OutputWriteFailed", "path", outputPath, "error", err)
		return fmt.Errorf("%w: %v", ErrOutputWriteFailed, err)
	}

	return nil
}

// parsePageDimension reads a FixedPage root's Width/Height attribute,
// defaulting to 0 (spec §9: Width=0/Height=0 still produces a valid,
// empty PDF page) if absent or malformed.
func parsePageDimension(root *xps.Node, attr string) float64 {
	v, err := xps.ParseNumber(root.AttrOr(attr, "0"))
	if err != nil {
		return 0
	}
	return v
}
