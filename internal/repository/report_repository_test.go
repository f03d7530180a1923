package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"pdf-compare/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *domain.ComparisonReport {
	textSim := 88.5
	return &domain.ComparisonReport{
		ID:                 "cmp-1",
		Mode:               domain.ModeHybrid,
		Document1:          domain.DocumentSummary{ID: "doc-a", Name: "a.pdf", PageCount: 2},
		Document2:          domain.DocumentSummary{ID: "doc-b", Name: "b.pdf", PageCount: 3},
		TotalPagesCompared: 3,
		OverallSimilarity:  97.5,
		TextSimilarity:     &textSim,
		HasDifferences:     true,
		CoordinateUnit:     domain.CoordinateUnitPixels,
		DPI:                150,
		Threshold:          95,
		CreatedAt:          time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Pages: []domain.PageComparisonResult{
			{PageNumber: 1, Kind: domain.PageIdentical, Similarity: 100},
			{
				PageNumber:     2,
				Kind:           domain.PageContentChange,
				Similarity:     95,
				HasDifferences: true,
				Regions:        []domain.DiffRegion{{X: 1, Y: 2, Width: 60, Height: 10, Area: 600, Classification: domain.RegionTextChange}},
				DiffArtifact:   &domain.ArtifactRef{PageNumber: 2, ContentType: "image/png", Size: 3, Data: []byte{1, 2, 3}, Path: "cmp-1/page-2.png"},
			},
			{PageNumber: 3, Kind: domain.PageAdded, HasDifferences: true},
		},
	}
}

// fakeDB records statements and serves stored report bodies.
type fakeDB struct {
	execs   []string
	args    [][]any
	stored  map[string][]byte
	execErr error
}

type fakeRow struct {
	body []byte
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*[]byte) = r.body
	return nil
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	f.execs = append(f.execs, sql)
	f.args = append(f.args, args)
	if sql == upsertComparison {
		f.stored[args[0].(string)] = args[6].([]byte)
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if sql == listComparisonsByDocument {
		f.args = append(f.args, args)
		var matched []json.RawMessage
		for _, body := range f.stored {
			var r domain.ComparisonReport
			if err := json.Unmarshal(body, &r); err != nil {
				return fakeRow{err: err}
			}
			if r.Document1.ID == args[0] || r.Document2.ID == args[0] {
				matched = append(matched, body)
			}
		}
		if matched == nil {
			return fakeRow{body: []byte("[]")}
		}
		body, err := json.Marshal(matched)
		return fakeRow{body: body, err: err}
	}
	body, ok := f.stored[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{body: body}
}

func TestPostgresReportRepository_SaveAndGet(t *testing.T) {
	db := &fakeDB{stored: map[string][]byte{}}
	repo := &PostgresReportRepository{db: db, logger: &testLogger{}}
	ctx := context.Background()

	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.Save(ctx, sampleReport(), ""))
	require.Len(t, db.args, 2)
	args := db.args[1]
	assert.Equal(t, "cmp-1", args[0])
	assert.Equal(t, "hybrid", args[1])
	assert.Equal(t, "doc-a", args[2])
	assert.Equal(t, 97.5, args[4])
	assert.Equal(t, true, args[5])

	got, err := repo.GetByID(ctx, "cmp-1", "")
	require.NoError(t, err)
	assert.Equal(t, sampleReport(), got)

	_, err = repo.GetByID(ctx, "missing", "")
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
}

func TestPostgresReportRepository_ListByDocument(t *testing.T) {
	db := &fakeDB{stored: map[string][]byte{}}
	repo := &PostgresReportRepository{db: db, logger: &testLogger{}}
	ctx := context.Background()

	other := sampleReport()
	other.ID = "cmp-2"
	other.Document1.ID = "doc-c"
	other.Document2.ID = "doc-d"
	require.NoError(t, repo.Save(ctx, sampleReport(), ""))
	require.NoError(t, repo.Save(ctx, other, ""))

	got, err := repo.ListByDocument(ctx, "doc-b", 5, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "cmp-1", got[0].ID)
	assert.Equal(t, []any{"doc-b", 5}, db.args[len(db.args)-1])

	got, err = repo.ListByDocument(ctx, "doc-z", 5, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPostgresReportRepository_SaveError(t *testing.T) {
	repo := &PostgresReportRepository{db: &fakeDB{execErr: errors.New("connection reset")}, logger: &testLogger{}}
	err := repo.Save(context.Background(), sampleReport(), "")
	assert.ErrorContains(t, err, "connection reset")
}

func TestMemoryReportRepository(t *testing.T) {
	repo := NewMemoryReportRepository()
	ctx := context.Background()

	report := sampleReport()
	require.NoError(t, repo.Save(ctx, report, "token"))
	report.OverallSimilarity = 1

	got, err := repo.GetByID(ctx, "cmp-1", "token")
	require.NoError(t, err)
	assert.Equal(t, 97.5, got.OverallSimilarity)

	_, err = repo.GetByID(ctx, "nope", "")
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
}

func TestMemoryReportRepository_ListByDocument(t *testing.T) {
	repo := NewMemoryReportRepository()
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"cmp-1", "cmp-2", "cmp-3"} {
		r := sampleReport()
		r.ID = id
		r.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.Save(ctx, r, ""))
	}
	unrelated := sampleReport()
	unrelated.ID = "cmp-4"
	unrelated.Document1.ID = "doc-x"
	unrelated.Document2.ID = "doc-y"
	require.NoError(t, repo.Save(ctx, unrelated, ""))

	got, err := repo.ListByDocument(ctx, "doc-a", 2, "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "cmp-3", got[0].ID)
	assert.Equal(t, "cmp-2", got[1].ID)

	got, err = repo.ListByDocument(ctx, "doc-y", 0, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "cmp-4", got[0].ID)
}

func TestDecodeReportRows(t *testing.T) {
	body, err := json.Marshal(sampleReport())
	require.NoError(t, err)
	rows := []byte(`[{"report":` + string(body) + `}]`)

	got, err := decodeReportRows(rows)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "cmp-1", got[0].ID)

	_, err = decodeReportRows([]byte(`{"report":1}`))
	assert.Error(t, err)
}

func TestReportJSON_UsesWireNames(t *testing.T) {
	row, err := newReportRow(sampleReport())
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(row.Report, &wire))
	assert.Equal(t, 97.5, wire["similarity_percentage"])
	assert.Equal(t, "px", wire["coordinate_unit"])
	pages := wire["pages"].([]any)
	second := pages[1].(map[string]any)
	assert.Equal(t, "content_change", second["kind"])
	region := second["regions"].([]any)[0].(map[string]any)
	assert.Equal(t, "text_change", region["classification"])
	// Inline payloads that were never uploaded travel base64-encoded.
	assert.Equal(t, "AQID", second["diff_artifact"].(map[string]any)["data"])
}

func TestMapToSourceDocument(t *testing.T) {
	doc := mapToSourceDocument(map[string]interface{}{
		"id":        "doc-1",
		"title":     "Quarterly report",
		"file_path": "user-1/doc-1.pdf",
		"file_size": float64(2048),
		"mime_type": "application/pdf",
	})
	assert.Equal(t, &domain.SourceDocument{
		ID:         "doc-1",
		Name:       "Quarterly report",
		StoredPath: "user-1/doc-1.pdf",
		MimeType:   "application/pdf",
		Size:       2048,
	}, doc)

	assert.Equal(t, "a.pdf", mapToSourceDocument(map[string]interface{}{"original_name": "a.pdf", "title": "A"}).Name)
	assert.Equal(t, "abc/page-3.png", ArtifactPath("abc", 3))
	assert.Equal(t, "abc/page-3.png", objectPath("abc", &domain.ArtifactRef{PageNumber: 3}))
	assert.Equal(t, "abc/diff-report.pdf", objectPath("abc", &domain.ArtifactRef{ContentType: "application/pdf"}))
}

type testLogger struct{}

func (l *testLogger) Info(msg string, fields ...interface{})             {}
func (l *testLogger) Error(msg string, err error, fields ...interface{}) {}
func (l *testLogger) Debug(msg string, fields ...interface{})            {}
func (l *testLogger) Warn(msg string, fields ...interface{})             {}
