package library

// Document is the durable record for one course material. The JSON field
// names are the on-disk collection format.
type Document struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
	Type    string `json:"type"`
}

const (
	// DefaultType is assigned when a document is added without a type.
	DefaultType = "text"

	chunkAuthor = "Uploaded Content"
	chunkType   = "uploaded_file"
)
