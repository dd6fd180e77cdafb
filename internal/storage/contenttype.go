package storage

import (
	"mime"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

const fallbackContentType = "application/octet-stream"

// DetectContentType infers the content type for a local file. The extension
// is consulted first so that web assets keep their proper types (sniffing a
// .css or .js file only yields text/plain); when the extension is unknown
// the first bytes are sniffed instead.
func DetectContentType(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}

	f, err := os.Open(path)
	if err != nil {
		return fallbackContentType
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	if n == 0 {
		return fallbackContentType
	}
	return mimetype.Detect(buf[:n]).String()
}
