package retrieval

import (
	"errors"

	"github.com/yuezhaodesign/Inkspire/library"
)

// ErrFailed reports a retrieval backend that could not serve a query.
// Callers are expected to degrade rather than abort a workflow run.
var ErrFailed = errors.New("retrieval failure")

// DefaultResults is the ranked list size used when a caller passes k <= 0.
const DefaultResults = 5

// Result pairs a stored document with its relevance score. Higher is more
// relevant regardless of backend.
type Result struct {
	Document library.Document
	Score    float64
}
