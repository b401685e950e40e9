package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/export"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

func writeArtifact(t *testing.T, store *export.ArtifactStore, id string, f models.ExportFormat, age time.Duration) string {
	t.Helper()
	path := store.ReportPath(id, f, time.Now())
	require.NoError(t, store.Write(path, []byte("x")))
	mod := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, mod, mod))
	return path
}

func TestRetentionService_PruneArtifacts(t *testing.T) {
	store := export.NewArtifactStore(t.TempDir(), zap.NewNop())
	require.NoError(t, store.EnsureDirectories())

	old := writeArtifact(t, store, "old", models.ExportFormatPDF, 40*24*time.Hour)
	fresh := writeArtifact(t, store, "fresh", models.ExportFormatJSON, time.Hour)

	svc := NewRetentionService(store, zap.NewNop())

	removed, err := svc.PruneArtifacts(context.Background(), 30, true)
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, "old", removed[0].ReportID)
	assert.FileExists(t, old, "dry run keeps files")

	removed, err = svc.PruneArtifacts(context.Background(), 0, false)
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
}

func TestRetentionService_CancelledContext(t *testing.T) {
	store := export.NewArtifactStore(t.TempDir(), zap.NewNop())
	svc := NewRetentionService(store, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.PruneArtifacts(ctx, 30, false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetentionService_RunSchedulerPrunesOnStart(t *testing.T) {
	store := export.NewArtifactStore(t.TempDir(), zap.NewNop())
	require.NoError(t, store.EnsureDirectories())
	old := writeArtifact(t, store, "old", models.ExportFormatHTML, 10*24*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	NewRetentionService(store, zap.NewNop()).RunScheduler(ctx, 7, time.Hour)

	assert.Eventually(t, func() bool {
		_, err := os.Stat(old)
		return os.IsNotExist(err)
	}, 2*time.Second, 10*time.Millisecond)

	entries, err := os.ReadDir(filepath.Dir(old))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
