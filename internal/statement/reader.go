package statement

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Supported statement encodings.
const (
	EncodingWindows1252 = "windows-1252"
	EncodingUTF8        = "utf-8"
)

// ErrUnsupportedEncoding is returned for encodings other than the ones above.
var ErrUnsupportedEncoding = errors.New("unsupported statement encoding")

// Decode reads all of r, converting from encoding to UTF-8. Banks export
// statements in Windows-1252, which is the default when encoding is empty.
func Decode(r io.Reader, encoding string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", EncodingWindows1252, "cp1252":
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	case EncodingUTF8, "utf8":
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedEncoding, encoding)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read statement: %w", err)
	}
	return string(data), nil
}

// ReadFile decodes the statement at path.
func ReadFile(path, encoding string) (string, error) {
	// #nosec G304 - the path is chosen by the user importing the statement
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to open statement: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f, encoding)
}
