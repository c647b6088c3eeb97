package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"kb-backend/internal/extract"
	"kb-backend/internal/llm"
	"kb-backend/internal/shared/metrics"
	"kb-backend/internal/shared/storage/object"
	"kb-backend/internal/shared/telemetry"
)

// Service is the ingestion pipeline for uploaded documents: extract text,
// embed it, persist the raw bytes, record the document.
type Service struct {
	Store    object.ObjectStore
	Repo     DocumentsRepo
	Embedder llm.Embedder
}

// Upload runs the ingestion pipeline for one uploaded file.
//
// Extraction and embedding are best-effort: their failures degrade the
// document (empty text, absent embedding) but never fail the upload.
// Only raw-byte storage and metadata persistence errors propagate.
func (s *Service) Upload(ctx context.Context, userId, fileName, mimeType string, r io.Reader) (Document, error) {
	if userId == "" || fileName == "" {
		return Document{}, ErrInvalidInput
	}
	metrics.IncIngestStarted()

	data, err := io.ReadAll(r)
	if err != nil {
		metrics.IncIngestFailed()
		return Document{}, fmt.Errorf("read upload: %w", err)
	}

	text := s.extractText(ctx, data, mimeType, fileName)
	embedding := s.embedText(ctx, text, fileName)

	storageKey, size, sniffedMime, err := s.Store.Save(ctx, userId, fileName, bytes.NewReader(data))
	if err != nil {
		metrics.IncIngestFailed()
		return Document{}, fmt.Errorf("store raw bytes: %w", err)
	}
	if mimeType == "" {
		mimeType = sniffedMime
	}

	doc := Document{
		ID:         uuid.NewString(),
		UserID:     userId,
		FileName:   fileName,
		MimeType:   mimeType,
		SizeBytes:  size,
		StorageKey: storageKey,
		Content:    text,
		Embedding:  embedding,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		metrics.IncIngestFailed()
		return Document{}, fmt.Errorf("persist document: %w", err)
	}

	metrics.IncIngestCompleted()
	telemetry.Info("document.ingested", map[string]any{
		"document_id":   doc.ID,
		"user_id":       userId,
		"file_name":     fileName,
		"size_bytes":    size,
		"text_chars":    len(text),
		"has_embedding": len(embedding) > 0,
	})
	return doc, nil
}

// extractText never fails the pipeline; unsupported or corrupt payloads
// yield empty text.
func (s *Service) extractText(ctx context.Context, data []byte, mimeType, fileName string) string {
	text, err := extract.TextFromBytes(ctx, data, mimeType, fileName)
	if err != nil {
		if !errors.Is(err, extract.ErrUnsupported) {
			telemetry.Warn("extract.failed", map[string]any{
				"file_name": fileName,
				"mime_type": mimeType,
				"error":     err.Error(),
			})
		}
		return ""
	}
	return text
}

// embedText returns nil when there is no text or the upstream call fails;
// the document is still persisted and remains searchable by listing.
func (s *Service) embedText(ctx context.Context, text, fileName string) []float64 {
	if strings.TrimSpace(text) == "" || s.Embedder == nil {
		return nil
	}
	vector, err := s.Embedder.Embed(ctx, text)
	if err != nil {
		telemetry.Warn("embedding.failed", map[string]any{
			"file_name": fileName,
			"error":     err.Error(),
		})
		return nil
	}
	return vector
}

// Get returns a single document owned by the user.
func (s *Service) Get(ctx context.Context, userId, documentID string) (Document, error) {
	if userId == "" || documentID == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userId, documentID)
}

// List returns the user's documents, newest first.
func (s *Service) List(ctx context.Context, userId string, limit, offset int) ([]Document, error) {
	if userId == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userId, limit, offset)
}

// OpenRaw streams the stored raw bytes of a document owned by the user.
func (s *Service) OpenRaw(ctx context.Context, userId, documentID string) (io.ReadCloser, Document, error) {
	doc, err := s.Get(ctx, userId, documentID)
	if err != nil {
		return nil, Document{}, err
	}
	if doc.StorageKey == "" {
		return nil, Document{}, ErrNotFound
	}
	body, err := s.Store.Open(ctx, doc.StorageKey)
	if err != nil {
		return nil, Document{}, fmt.Errorf("open raw bytes: %w", err)
	}
	return body, doc, nil
}
