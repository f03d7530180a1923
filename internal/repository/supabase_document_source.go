package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"pdf-compare/internal/domain"
)

const documentColumns = "id,original_name,title,file_path,file_size,mime_type"

// SupabaseDocumentSource resolves stored documents from the documents table
// and downloads their bytes from Supabase Storage.
type SupabaseDocumentSource struct {
	supabaseClient domain.SupabaseClient
	bucket         string
	maxFileSize    int64
	logger         domain.Logger
}

// NewSupabaseDocumentSource creates a new Supabase document source
func NewSupabaseDocumentSource(supabaseClient domain.SupabaseClient, bucket string, maxFileSize int64, logger domain.Logger) *SupabaseDocumentSource {
	return &SupabaseDocumentSource{
		supabaseClient: supabaseClient,
		bucket:         bucket,
		maxFileSize:    maxFileSize,
		logger:         logger,
	}
}

// Fetch loads a document row and its file content
func (s *SupabaseDocumentSource) Fetch(ctx context.Context, documentID string, token string) (*domain.SourceDocument, error) {
	// Use client with token for RLS policies
	client, err := s.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client with token: %w", err)
	}

	data, _, err := client.From("documents").
		Select(documentColumns, "", false).
		Eq("id", documentID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to query document %s: %w", documentID, err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, documentID)
	}

	doc := mapToSourceDocument(rows[0])
	if doc.StoredPath == "" {
		return nil, fmt.Errorf("%w: document %s has no stored file", domain.ErrInvalidInput, documentID)
	}
	if s.maxFileSize > 0 && doc.Size > s.maxFileSize {
		return nil, fmt.Errorf("%w: document %s is %d bytes, limit is %d", domain.ErrInvalidInput, documentID, doc.Size, s.maxFileSize)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := client.Storage.DownloadFile(s.bucket, doc.StoredPath)
	if err != nil {
		s.logger.Error("Failed to download document", err, "document_id", documentID, "path", doc.StoredPath)
		return nil, fmt.Errorf("failed to download document %s: %w", documentID, err)
	}
	doc.Content = content
	doc.Size = int64(len(content))

	s.logger.Debug("Document fetched", "document_id", documentID, "size", doc.Size)
	return doc, nil
}

func mapToSourceDocument(data map[string]interface{}) *domain.SourceDocument {
	name := getString(data, "original_name")
	if name == "" {
		name = getString(data, "title")
	}
	return &domain.SourceDocument{
		ID:         getString(data, "id"),
		Name:       name,
		StoredPath: getString(data, "file_path"),
		MimeType:   getString(data, "mime_type"),
		Size:       getInt64(data, "file_size"),
	}
}

// Helper functions for type conversion
func getString(data map[string]interface{}, key string) string {
	if val, ok := data[key]; ok && val != nil {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getInt64(data map[string]interface{}, key string) int64 {
	if val, ok := data[key]; ok && val != nil {
		switch v := val.(type) {
		case int64:
			return v
		case int:
			return int64(v)
		case float64:
			return int64(v)
		}
	}
	return 0
}
