package chunkify

import (
	"errors"
	"fmt"
	"iter"
)

// Defaults match the splitter settings used for uploaded course materials.
const (
	DefaultSize    = 1000
	DefaultOverlap = 200
)

// ErrInvalidChunkConfig reports a window configuration that cannot advance
// through the input.
var ErrInvalidChunkConfig = errors.New("invalid chunk config")

type Chunker struct {
	size    int
	overlap int
}

func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size %d must be positive", ErrInvalidChunkConfig, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap %d must not be negative", ErrInvalidChunkConfig, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than size %d", ErrInvalidChunkConfig, overlap, size)
	}

	return &Chunker{size: size, overlap: overlap}, nil
}

func Default() *Chunker {
	return &Chunker{size: DefaultSize, overlap: DefaultOverlap}
}

// All yields the chunks of text in order. The sequence is finite and can be
// ranged over any number of times.
func (c *Chunker) All(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		l := len(text)
		if l == 0 {
			return
		}

		step := c.size - c.overlap
		pos := 0
		for {
			end := min(pos+c.size, l)
			if !yield(text[pos:end]) {
				return
			}
			if end >= l {
				return
			}

			pos += step
		}
	}
}

func (c *Chunker) Chunkify(text string) []string {
	l := len(text)
	if l == 0 {
		return []string{}
	}

	res := make([]string, 0, l/(c.size-c.overlap)+1)
	for chunk := range c.All(text) {
		res = append(res, chunk)
	}

	return res
}
