package repository

import (
	"bytes"
	"context"
	"fmt"

	"pdf-compare/internal/domain"

	storage_go "github.com/supabase-community/storage-go"
)

// SupabaseArtifactStore uploads diff images to a Supabase Storage bucket
type SupabaseArtifactStore struct {
	supabaseClient domain.SupabaseClient
	bucket         string
	logger         domain.Logger
}

// NewSupabaseArtifactStore creates a new artifact store
func NewSupabaseArtifactStore(supabaseClient domain.SupabaseClient, bucket string, logger domain.Logger) *SupabaseArtifactStore {
	return &SupabaseArtifactStore{
		supabaseClient: supabaseClient,
		bucket:         bucket,
		logger:         logger,
	}
}

// ArtifactPath is the object key of a page's diff image within the bucket
func ArtifactPath(reportID string, pageNumber int) string {
	return fmt.Sprintf("%s/page-%d.png", reportID, pageNumber)
}

// DiffDocumentPath is the object key of a report's diff PDF within the bucket
func DiffDocumentPath(reportID string) string {
	return fmt.Sprintf("%s/diff-report.pdf", reportID)
}

func objectPath(reportID string, artifact *domain.ArtifactRef) string {
	if artifact.PageNumber == 0 {
		return DiffDocumentPath(reportID)
	}
	return ArtifactPath(reportID, artifact.PageNumber)
}

// Save uploads the artifact and fills in its path and public URL
func (s *SupabaseArtifactStore) Save(ctx context.Context, reportID string, artifact *domain.ArtifactRef) error {
	if len(artifact.Data) == 0 {
		return fmt.Errorf("%w: artifact for page %d is empty", domain.ErrInvalidInput, artifact.PageNumber)
	}
	client := s.supabaseClient.DB()
	if client == nil {
		return domain.ErrStorageUnavailable
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	path := objectPath(reportID, artifact)
	contentType := artifact.ContentType
	upsert := true
	_, err := client.Storage.UploadFile(s.bucket, path, bytes.NewReader(artifact.Data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		s.logger.Error("Failed to upload artifact", err, "report_id", reportID, "path", path)
		return fmt.Errorf("failed to upload %s: %w", path, err)
	}

	artifact.Path = path
	artifact.URL = client.Storage.GetPublicUrl(s.bucket, path).SignedURL
	return nil
}
