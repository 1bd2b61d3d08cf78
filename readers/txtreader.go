package readers

import (
	"fmt"
	"os"
	"path/filepath"
)

type TextReader struct{}

func (r *TextReader) CanRead(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".txt" || ext == ".md"
}

func (r *TextReader) ReadText(path string) (string, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading text file: %w", err)
	}

	return string(buf), nil
}
