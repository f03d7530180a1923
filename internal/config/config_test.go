package config

import "testing"

var compareEnv = []string{
	"PORT", "SERVER_PORT", "MAX_FILE_SIZE", "LOG_LEVEL", "SUPABASE_URL", "SUPABASE_ANON_KEY",
	"DATABASE_URL", "DOCUMENTS_BUCKET", "ARTIFACTS_BUCKET", "COMPARE_DPI", "COMPARE_THRESHOLD",
	"COMPARE_GRID_SIZE", "COMPARE_WORKERS", "COMPARE_MEMORY_CEILING", "COMPARE_MAX_VISUAL_BYTES",
}

func clearEnv(t *testing.T) {
	for _, k := range compareEnv {
		t.Setenv(k, "")
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := NewConfig()

	if cfg.GetServerPort() != "8080" {
		t.Fatalf("expected default server port 8080, got %s", cfg.GetServerPort())
	}
	if cfg.GetMaxFileSize() != defaultMaxFileSize {
		t.Fatalf("expected default max file size %d, got %d", defaultMaxFileSize, cfg.GetMaxFileSize())
	}
	if cfg.GetLogLevel() != "info" {
		t.Fatalf("expected default log level info, got %s", cfg.GetLogLevel())
	}
	if cfg.GetSupabaseURL() != "" || cfg.GetSupabaseKey() != "" || cfg.GetDatabaseURL() != "" {
		t.Fatalf("expected empty connection settings")
	}
	if cfg.GetDocumentsBucket() != "documents" {
		t.Fatalf("expected documents bucket, got %s", cfg.GetDocumentsBucket())
	}
	if cfg.GetArtifactsBucket() != "comparisons" {
		t.Fatalf("expected comparisons bucket, got %s", cfg.GetArtifactsBucket())
	}
	if cfg.GetCompareDPI() != 150 {
		t.Fatalf("expected default dpi 150, got %d", cfg.GetCompareDPI())
	}
	if cfg.GetCompareThreshold() != 95 {
		t.Fatalf("expected default threshold 95, got %v", cfg.GetCompareThreshold())
	}
	if cfg.GetCompareGridSize() != 40 {
		t.Fatalf("expected default grid size 40, got %d", cfg.GetCompareGridSize())
	}
	if cfg.GetCompareWorkers() != 2 {
		t.Fatalf("expected default workers 2, got %d", cfg.GetCompareWorkers())
	}
	if cfg.GetMemoryCeiling() != defaultMemoryCeiling {
		t.Fatalf("expected default memory ceiling %d, got %d", defaultMemoryCeiling, cfg.GetMemoryCeiling())
	}
	if cfg.GetMaxVisualBytes() != defaultMaxVisualBytes {
		t.Fatalf("expected default max visual bytes %d, got %d", defaultMaxVisualBytes, cfg.GetMaxVisualBytes())
	}
}

func TestNewConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SUPABASE_URL", "http://localhost:54321")
	t.Setenv("SUPABASE_ANON_KEY", "test-key")
	t.Setenv("DATABASE_URL", "postgres://localhost/compare")
	t.Setenv("ARTIFACTS_BUCKET", "diffs")
	t.Setenv("COMPARE_DPI", "200")
	t.Setenv("COMPARE_THRESHOLD", "97.5")
	t.Setenv("COMPARE_WORKERS", "6")
	t.Setenv("COMPARE_MEMORY_CEILING", "2048")

	cfg := NewConfig()

	if cfg.GetServerPort() != "9090" {
		t.Fatalf("expected server port 9090, got %s", cfg.GetServerPort())
	}
	if cfg.GetLogLevel() != "debug" {
		t.Fatalf("expected log level debug, got %s", cfg.GetLogLevel())
	}
	if cfg.GetSupabaseURL() != "http://localhost:54321" {
		t.Fatalf("expected supabase url http://localhost:54321, got %s", cfg.GetSupabaseURL())
	}
	if cfg.GetSupabaseKey() != "test-key" {
		t.Fatalf("expected supabase key test-key, got %s", cfg.GetSupabaseKey())
	}
	if cfg.GetDatabaseURL() != "postgres://localhost/compare" {
		t.Fatalf("expected database url, got %s", cfg.GetDatabaseURL())
	}
	if cfg.GetArtifactsBucket() != "diffs" {
		t.Fatalf("expected artifacts bucket diffs, got %s", cfg.GetArtifactsBucket())
	}
	if cfg.GetCompareDPI() != 200 {
		t.Fatalf("expected dpi 200, got %d", cfg.GetCompareDPI())
	}
	if cfg.GetCompareThreshold() != 97.5 {
		t.Fatalf("expected threshold 97.5, got %v", cfg.GetCompareThreshold())
	}
	if cfg.GetCompareWorkers() != 6 {
		t.Fatalf("expected workers 6, got %d", cfg.GetCompareWorkers())
	}
	if cfg.GetMemoryCeiling() != 2048 {
		t.Fatalf("expected memory ceiling 2048, got %d", cfg.GetMemoryCeiling())
	}
}

func TestNewConfig_Fallbacks(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9091")
	t.Setenv("MAX_FILE_SIZE", "not-a-number")
	t.Setenv("COMPARE_THRESHOLD", "high")
	t.Setenv("COMPARE_DPI", "1.5")

	cfg := NewConfig()

	if cfg.GetServerPort() != "9091" {
		t.Fatalf("expected server port 9091, got %s", cfg.GetServerPort())
	}
	if cfg.GetMaxFileSize() != defaultMaxFileSize {
		t.Fatalf("expected default max file size %d, got %d", defaultMaxFileSize, cfg.GetMaxFileSize())
	}
	if cfg.GetCompareThreshold() != 95 {
		t.Fatalf("expected default threshold 95, got %v", cfg.GetCompareThreshold())
	}
	if cfg.GetCompareDPI() != 150 {
		t.Fatalf("expected default dpi 150, got %d", cfg.GetCompareDPI())
	}
}
