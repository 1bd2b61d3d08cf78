package readers

import (
	"fmt"
	"path/filepath"

	"code.sajari.com/docconv/v2"
)

// UniversalReader converts rich document formats to plain text via docconv.
// Page boundaries come back newline joined, preserving reading order.
type UniversalReader struct{}

func (r *UniversalReader) CanRead(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".pdf" || ext == ".docx" || ext == ".odt" || ext == ".xml"
}

func (r *UniversalReader) ReadText(path string) (string, error) {
	res, err := docconv.ConvertPath(path)
	if err != nil {
		return "", fmt.Errorf("converting document: %w", err)
	}

	return res.Body, nil
}
