package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"pdf-compare/internal/domain"
)

// reportRow is the stored shape of a comparison report. The full report is
// kept as JSON next to a few queryable columns.
type reportRow struct {
	ID                   string          `json:"id"`
	Mode                 string          `json:"mode"`
	Document1ID          string          `json:"document1_id"`
	Document2ID          string          `json:"document2_id"`
	SimilarityPercentage float64         `json:"similarity_percentage"`
	HasDifferences       bool            `json:"has_differences"`
	Report               json.RawMessage `json:"report"`
	CreatedAt            time.Time       `json:"created_at"`
}

func newReportRow(report *domain.ComparisonReport) (*reportRow, error) {
	body, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return &reportRow{
		ID:                   report.ID,
		Mode:                 string(report.Mode),
		Document1ID:          report.Document1.ID,
		Document2ID:          report.Document2.ID,
		SimilarityPercentage: report.OverallSimilarity,
		HasDifferences:       report.HasDifferences,
		Report:               body,
		CreatedAt:            report.CreatedAt,
	}, nil
}

func decodeReport(body []byte) (*domain.ComparisonReport, error) {
	var report domain.ComparisonReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// decodeReports decodes a JSON array of reports.
func decodeReports(body []byte) ([]*domain.ComparisonReport, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report list: %w", err)
	}
	reports := make([]*domain.ComparisonReport, 0, len(raw))
	for _, item := range raw {
		report, err := decodeReport(item)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}
