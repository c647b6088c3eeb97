package documents

import "context"

// DocumentsRepo defines persistence operations for documents.
// All reads and writes are scoped to the owning user.
type DocumentsRepo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, userId, documentID string) (Document, error)
	// ListByUser returns documents ordered newest-first.
	ListByUser(ctx context.Context, userId string, limit, offset int) ([]Document, error)
	// ListWithEmbedding returns documents with both extracted text and an
	// embedding present, newest-first. Only these are visible to retrieval.
	ListWithEmbedding(ctx context.Context, userId string) ([]Document, error)
}
