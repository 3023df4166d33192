package writer

import (
	"bytes"
	"compress/zlib"
)

// CompressionLevel selects the zlib compression effort used for
// FlateDecode content and font streams.
type CompressionLevel int

const (
	// NoCompression disables compression; streams are written raw.
	NoCompression CompressionLevel = iota
	// BestSpeed favors encoding speed over output size.
	BestSpeed
	// DefaultCompression is a balanced speed/size tradeoff.
	DefaultCompression
	// BestCompression favors output size over encoding speed.
	BestCompression
)

func (l CompressionLevel) zlibLevel() int {
	switch l {
	case BestSpeed:
		return zlib.BestSpeed
	case BestCompression:
		return zlib.BestCompression
	case NoCompression:
		return zlib.NoCompression
	default:
		return zlib.DefaultCompression
	}
}

// CompressStream FlateDecode-compresses data at the given level.
func CompressStream(data []byte, level CompressionLevel) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, level.zlibLevel())
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
