package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PG_DSN", "postgres://u:p@db:5432/challan")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.AppAddr)
	assert.Equal(t, 10*time.Minute, cfg.ReportCacheTTL)
	assert.Equal(t, "0 2 1 * *", cfg.ReportCron)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, filepath.Join(os.TempDir(), "challans"), cfg.PDFTempDir())
}

func TestLoadConfigRequiresDSN(t *testing.T) {
	t.Setenv("PG_DSN", "  ")
	_, err := LoadConfig()
	require.Error(t, err)
}

func TestPDFTempDirOverride(t *testing.T) {
	cfg := &Config{PDFDir: "/var/tmp/invoices", AppEnv: "production"}
	assert.Equal(t, "/var/tmp/invoices", cfg.PDFTempDir())
	assert.True(t, cfg.IsProduction())
}
