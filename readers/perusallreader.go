package readers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yuezhaodesign/Inkspire/perusall"
)

// PerusallReader loads raw Perusall annotation exports (.perusall files) and
// returns the cleaned prose.
type PerusallReader struct{}

func (r *PerusallReader) CanRead(path string) bool {
	return filepath.Ext(path) == ".perusall"
}

func (r *PerusallReader) ReadText(path string) (string, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading perusall export: %w", err)
	}

	return perusall.Clean(string(buf)), nil
}
