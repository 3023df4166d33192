package writer

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
)

// ImageEmbedder builds a PDF Image XObject from a decoded raster image.
//
// XPS image brushes supply PNG-encoded pixels with an alpha channel; PDF's
// DeviceRGB color space has none, so the image is flattened against a
// white background (see DESIGN.md's note on dropping soft masks —
// OpacityMask support is out of scope, and flattening loses no fidelity
// for the overwhelmingly common case of fully-opaque document imagery).
type ImageEmbedder struct {
	allocObjNum func() int
}

// NewImageEmbedder creates an image embedder.
func NewImageEmbedder(allocObjNum func() int) *ImageEmbedder {
	return &ImageEmbedder{allocObjNum: allocObjNum}
}

// WriteImage decodes a PNG image and returns its Image XObject as a single
// indirect object, FlateDecode-compressed, 8-bit DeviceRGB, no SMask.
func (e *ImageEmbedder) WriteImage(pngData []byte) (*IndirectObject, error) {
	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("decode PNG: %w", err)
	}

	rgb := flattenToRGB(img)
	bounds := rgb.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	raw := make([]byte, 0, width*height*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			i := rgb.PixOffset(x, y)
			raw = append(raw, rgb.Pix[i], rgb.Pix[i+1], rgb.Pix[i+2])
		}
	}

	compressed, err := CompressStream(raw, DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("compress image data: %w", err)
	}

	objNum := e.allocObjNum()

	var buf bytes.Buffer
	buf.WriteString("<<\n")
	buf.WriteString("/Type /XObject\n")
	buf.WriteString("/Subtype /Image\n")
	fmt.Fprintf(&buf, "/Width %d\n", width)
	fmt.Fprintf(&buf, "/Height %d\n", height)
	buf.WriteString("/ColorSpace /DeviceRGB\n")
	buf.WriteString("/BitsPerComponent 8\n")
	buf.WriteString("/Filter /FlateDecode\n")
	fmt.Fprintf(&buf, "/Length %d\n", len(compressed))
	buf.WriteString(">>\n")
	buf.WriteString("stream\n")
	buf.Write(compressed)
	buf.WriteString("\nendstream")

	return NewIndirectObject(objNum, 0, buf.Bytes()), nil
}

// flattenToRGB composites img over an opaque white background and returns
// the result as an opaque RGBA image; WriteImage drops its alpha bytes when
// packing the RGB samples.
func flattenToRGB(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)
	white := image.NewUniform(image.White)
	draw.Draw(dst, bounds, white, image.Point{}, draw.Src)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Over)
	return dst
}
