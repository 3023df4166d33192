package xps

import (
	"encoding/hex"
	"path"
	"regexp"
	"strings"
)

// uuidPattern matches a UUID embedded anywhere in a font part's filename,
// e.g. "ABCDEF01-2345-6789-ABCD-EF0123456789.odttf".
var uuidPattern = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// keyByteSource names, for each of the 16 derived key bytes, which UUID
// group it is read from and the hex-character offset within that group.
// group numbers are 1-based, matching the UUID's dash-separated fields.
var keyByteSource = [16]struct {
	group  int
	offset int
}{
	{1, 6}, {1, 4}, {1, 2}, {1, 0},
	{2, 2}, {2, 0},
	{3, 2}, {3, 0},
	{4, 0}, {4, 2},
	{5, 0}, {5, 2}, {5, 4}, {5, 6}, {5, 8}, {5, 10},
}

// deriveODTTFKey builds the 16-byte XOR key from a UUID string (dashes
// included, e.g. "ABCDEF01-2345-6789-ABCD-EF0123456789").
func deriveODTTFKey(uuid string) ([16]byte, bool) {
	groups := strings.Split(uuid, "-")
	if len(groups) != 5 {
		return [16]byte{}, false
	}

	var key [16]byte
	for i, src := range keyByteSource {
		g := groups[src.group-1]
		if src.offset+2 > len(g) {
			return [16]byte{}, false
		}
		b, err := hex.DecodeString(g[src.offset : src.offset+2])
		if err != nil || len(b) != 1 {
			return [16]byte{}, false
		}
		key[i] = b[0]
	}
	return key, true
}

// Deobfuscate reverses ODTTF obfuscation: the first 32 bytes of the font
// buffer are XORed with a 16-byte key derived from a UUID embedded in the
// part's filename. If the filename carries no UUID, the buffer is
// returned unchanged. The operation is its own inverse — applying it
// twice restores the original bytes — since XOR with the same key toggles
// the same bits back.
func Deobfuscate(fontData []byte, partPath string) []byte {
	filename := path.Base(partPath)
	match := uuidPattern.FindString(filename)
	if match == "" {
		return fontData
	}

	key, ok := deriveODTTFKey(match)
	if !ok {
		return fontData
	}

	out := make([]byte, len(fontData))
	copy(out, fontData)

	n := 32
	if len(out) < n {
		n = len(out)
	}
	for i := 0; i < n; i++ {
		out[i] ^= key[i%16]
	}
	return out
}
