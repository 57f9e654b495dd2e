package cmdline

import (
	"bytes"
	"fmt"
	"os"

	"golang.org/x/text/encoding/unicode"
)

// MaxResponseFileDepth bounds @-file recursion so a cyclic or
// pathologically long chain of response files cannot run away.
const MaxResponseFileDepth = 100

var (
	utf16LEBom = []byte{0xFF, 0xFE}
	utf8Bom    = []byte{0xEF, 0xBB, 0xBF}
)

// readResponseFile loads path and decodes it to a UTF-8 string,
// recognizing a UTF-16LE BOM, a UTF-8 BOM, or assuming raw UTF-8 when
// neither is present.
func readResponseFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cmdline: reading response file %q: %w", path, err)
	}

	switch {
	case bytes.HasPrefix(data, utf16LEBom):
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		out, err := decoder.Bytes(data)
		if err != nil {
			return "", fmt.Errorf("cmdline: decoding UTF-16LE response file %q: %w", path, err)
		}
		return string(out), nil
	case bytes.HasPrefix(data, utf8Bom):
		return string(data[len(utf8Bom):]), nil
	default:
		return string(data), nil
	}
}
