package readers

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrUnsupportedFormat reports a file extension no reader accepts.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ErrSourceUnavailable reports a document that matched a reader but could not
// be read or converted.
var ErrSourceUnavailable = errors.New("document source unavailable")

type FileReader interface {
	CanRead(path string) bool
	ReadText(path string) (string, error)
}

// Loader dispatches a path to the first reader that accepts its extension.
type Loader struct {
	readers []FileReader
}

func NewLoader() *Loader {
	return &Loader{readers: []FileReader{
		&PerusallReader{},
		&TextReader{},
		&UniversalReader{},
	}}
}

func (l *Loader) Supported(path string) bool {
	for _, r := range l.readers {
		if r.CanRead(path) {
			return true
		}
	}

	return false
}

func (l *Loader) Load(path string) (string, error) {
	for _, r := range l.readers {
		if !r.CanRead(path) {
			continue
		}

		text, err := r.ReadText(path)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}

		return text, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}
