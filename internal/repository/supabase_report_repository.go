package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"pdf-compare/internal/domain"

	"github.com/supabase-community/postgrest-go"
)

const comparisonsTable = "comparisons"

// SupabaseReportRepository stores comparison reports through PostgREST
type SupabaseReportRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// NewSupabaseReportRepository creates a new Supabase report repository
func NewSupabaseReportRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) *SupabaseReportRepository {
	return &SupabaseReportRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// Save upserts a report
func (r *SupabaseReportRepository) Save(ctx context.Context, report *domain.ComparisonReport, token string) error {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return fmt.Errorf("failed to get client with token: %w", err)
	}
	row, err := newReportRow(report)
	if err != nil {
		return err
	}

	_, _, err = client.From(comparisonsTable).Insert(row, true, "id", "minimal", "").Execute()
	if err != nil {
		r.logger.Error("Failed to save comparison report", err, "report_id", report.ID)
		return fmt.Errorf("failed to save report %s: %w", report.ID, err)
	}
	return nil
}

// GetByID loads a stored report
func (r *SupabaseReportRepository) GetByID(ctx context.Context, id string, token string) (*domain.ComparisonReport, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client with token: %w", err)
	}

	data, _, err := client.From(comparisonsTable).
		Select("report", "", false).
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to query report %s: %w", id, err)
	}

	reports, err := decodeReportRows(data)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrReportNotFound, id)
	}
	return reports[0], nil
}

// ListByDocument returns the newest reports involving documentID
func (r *SupabaseReportRepository) ListByDocument(ctx context.Context, documentID string, limit int, token string) ([]*domain.ComparisonReport, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client with token: %w", err)
	}

	data, _, err := client.From(comparisonsTable).
		Select("report", "", false).
		Or(fmt.Sprintf("document1_id.eq.%s,document2_id.eq.%s", documentID, documentID), "").
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(limit, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list reports for %s: %w", documentID, err)
	}
	return decodeReportRows(data)
}

// decodeReportRows decodes PostgREST rows of the form [{"report": {...}}].
func decodeReportRows(data []byte) ([]*domain.ComparisonReport, error) {
	var rows []struct {
		Report json.RawMessage `json:"report"`
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report rows: %w", err)
	}
	reports := make([]*domain.ComparisonReport, 0, len(rows))
	for _, row := range rows {
		report, err := decodeReport(row.Report)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}
