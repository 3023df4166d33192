// Package opc provides a random-access reader over the ZIP-based Open
// Packaging Conventions container that carries XPS/DWFx part trees.
package opc

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrPackageInvalid is returned when the container cannot be opened or is
// not a valid ZIP archive.
var ErrPackageInvalid = errors.New("package invalid")

// Package is a random-access view over an OPC container's parts, keyed by
// normalized part path.
type Package struct {
	files  map[string]*zip.File
	closer io.Closer
}

// Open opens a DWFx/XPS container from a file path. The returned Package
// owns the underlying file handle; callers must Close it.
func Open(path string) (*Package, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPackageInvalid, err)
	}
	pkg := newPackage(&r.Reader)
	pkg.closer = r
	return pkg, nil
}

// OpenReader opens a container from an in-memory or otherwise seekable
// source, for callers that already hold the bytes (e.g. an HTTP upload
// buffered to a temp file by the out-of-scope receiver). The caller
// retains ownership of r.
func OpenReader(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPackageInvalid, err)
	}
	return newPackage(zr), nil
}

func newPackage(zr *zip.Reader) *Package {
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[normalizePartPath(f.Name)] = f
	}
	return &Package{files: files}
}

// normalizePartPath strips a single leading "./" and a single leading "/"
// so that absolute-root and relative-to-root part references resolve to
// the same lookup key the ZIP directory uses.
func normalizePartPath(path string) string {
	path = strings.TrimPrefix(path, "/")
	path = strings.TrimPrefix(path, "./")
	return path
}

// ResolvePart resolves a part reference against a base directory path,
// per the OPC rule: a leading "/" is package-root absolute, otherwise the
// reference is relative to basePath.
func ResolvePart(basePath, ref string) string {
	ref = strings.TrimPrefix(ref, "./")
	if strings.HasPrefix(ref, "/") {
		return normalizePartPath(ref)
	}
	if basePath == "" {
		return normalizePartPath(ref)
	}
	return normalizePartPath(basePath + "/" + ref)
}

// PartDir returns the directory component of a part path, used as the
// base path for resolving references made from within that part.
func PartDir(partPath string) string {
	i := strings.LastIndex(partPath, "/")
	if i < 0 {
		return ""
	}
	return partPath[:i]
}

func (p *Package) open(path string) (io.ReadCloser, bool) {
	f, ok := p.files[normalizePartPath(path)]
	if !ok {
		return nil, false
	}
	rc, err := f.Open()
	if err != nil {
		return nil, false
	}
	return rc, true
}

// ReadBytes returns the raw bytes of a part, or ok=false if the part is
// absent or unreadable. Absence is not an error; callers decide how to
// react (ResourceMissing recovery, or a fatal PackageInvalid/NoPages for
// required parts).
func (p *Package) ReadBytes(path string) (data []byte, ok bool) {
	rc, found := p.open(path)
	if !found {
		return nil, false
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, false
	}
	return b, true
}

// ReadText returns the UTF-8 decoded contents of a part, or ok=false if
// the part is absent or unreadable.
func (p *Package) ReadText(path string) (text string, ok bool) {
	b, found := p.ReadBytes(path)
	if !found {
		return "", false
	}
	return string(b), true
}

// Close releases the package's underlying ZIP handle, if it owns one
// (Open does; OpenReader's caller owns the underlying reader).
func (p *Package) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}
