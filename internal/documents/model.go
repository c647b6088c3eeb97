package documents

import "time"

// Document represents an uploaded document owned by a user.
//
// Content is the plain text extracted from the raw bytes; it is an empty
// string (never absent) when extraction was unsupported or failed.
// Embedding is nil when no text was extracted or embedding generation
// failed; a non-nil Embedding implies non-empty Content.
type Document struct {
	ID         string
	UserID     string
	FileName   string
	MimeType   string
	SizeBytes  int64
	StorageKey string
	Content    string
	Embedding  []float64
	CreatedAt  time.Time
}

// Searchable reports whether the document qualifies for retrieval.
func (d Document) Searchable() bool {
	return d.Content != "" && len(d.Embedding) > 0
}
