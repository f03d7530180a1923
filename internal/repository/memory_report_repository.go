package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"pdf-compare/internal/domain"
)

// MemoryReportRepository keeps serialized reports in process memory. It is
// used when neither Postgres nor Supabase is configured.
type MemoryReportRepository struct {
	mu      sync.RWMutex
	reports map[string][]byte
}

// NewMemoryReportRepository creates an empty in-memory repository
func NewMemoryReportRepository() *MemoryReportRepository {
	return &MemoryReportRepository{reports: make(map[string][]byte)}
}

func (r *MemoryReportRepository) Save(ctx context.Context, report *domain.ComparisonReport, token string) error {
	row, err := newReportRow(report)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[report.ID] = row.Report
	return nil
}

func (r *MemoryReportRepository) GetByID(ctx context.Context, id string, token string) (*domain.ComparisonReport, error) {
	r.mu.RLock()
	body, ok := r.reports[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrReportNotFound, id)
	}
	return decodeReport(body)
}

func (r *MemoryReportRepository) ListByDocument(ctx context.Context, documentID string, limit int, token string) ([]*domain.ComparisonReport, error) {
	r.mu.RLock()
	bodies := make([][]byte, 0, len(r.reports))
	for _, body := range r.reports {
		bodies = append(bodies, body)
	}
	r.mu.RUnlock()

	var out []*domain.ComparisonReport
	for _, body := range bodies {
		report, err := decodeReport(body)
		if err != nil {
			return nil, err
		}
		if report.Document1.ID == documentID || report.Document2.ID == documentID {
			out = append(out, report)
		}
	}
	slices.SortFunc(out, func(a, b *domain.ComparisonReport) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
