package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/apperrors"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/repositories"
)

func newTestDatasourceService(t *testing.T) (*datasourceService, repositories.DatasourceRepository, *stubValidator) {
	t.Helper()
	repo := repositories.NewDatasourceRepository(t.TempDir(), nil, zap.NewNop())
	v := &stubValidator{}
	svc := NewDatasourceService(repo, v, zap.NewNop()).(*datasourceService)
	return svc, repo, v
}

func TestDatasourceService_ListMasksSecrets(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestDatasourceService(t)

	created, err := svc.Create(ctx, "Shop", "shopify", models.ConnectionConfig{
		"shopDomain":  "acme.myshopify.com",
		"accessToken": "shpat_abc",
		"secret":      "",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SecretMask, created.Config["accessToken"])

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.SecretMask, list[0].Config["accessToken"])
	assert.Equal(t, "", list[0].Config["secret"])
	assert.Equal(t, "acme.myshopify.com", list[0].Config["shopDomain"])

	masked, err := svc.Get(ctx, created.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.SecretMask, masked.Config["accessToken"])

	raw, err := svc.Get(ctx, created.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "shpat_abc", raw.Config["accessToken"])
}

func TestDatasourceService_CreateRequiresNameAndType(t *testing.T) {
	svc, _, _ := newTestDatasourceService(t)

	_, err := svc.Create(context.Background(), "  ", "shopify", nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.Create(context.Background(), "Shop", "", nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestDatasourceService_UpdateIgnoresMaskedSecrets(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestDatasourceService(t)

	created, err := svc.Create(ctx, "DB", "postgresql", models.ConnectionConfig{
		"host":     "db.internal",
		"password": "hunter2",
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, &models.DataSourcePatch{
		Config: models.ConnectionConfig{
			"host":     "db2.internal",
			"password": models.SecretMask,
		},
	})
	require.NoError(t, err)

	stored, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "db2.internal", stored.Config["host"])
	assert.Equal(t, "hunter2", stored.Config["password"])
}

func TestDatasourceService_UpdateMissing(t *testing.T) {
	svc, _, _ := newTestDatasourceService(t)
	name := "x"
	_, err := svc.Update(context.Background(), "ds_missing", &models.DataSourcePatch{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), "ds_missing"), apperrors.ErrNotFound)
}

func TestDatasourceService_TestRecordsOutcome(t *testing.T) {
	ctx := context.Background()
	svc, repo, v := newTestDatasourceService(t)
	fixed := time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	good, err := svc.Create(ctx, "Good", "shopify", models.ConnectionConfig{"ok": "true"})
	require.NoError(t, err)
	bad, err := svc.Create(ctx, "Bad", "shopify", models.ConnectionConfig{"ok": "false"})
	require.NoError(t, err)

	result, err := svc.Test(ctx, good.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.ValidationSuccess, result.Status)

	result, err = svc.Test(ctx, bad.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.ValidationFailed, result.Status)
	assert.Equal(t, []bool{true, false}, v.live)

	stored, err := repo.Get(ctx, good.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DataSourceStatusConnected, stored.Status)
	assert.Equal(t, "2026-05-04T10:30:00Z", stored.LastSync)

	stored, err = repo.Get(ctx, bad.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DataSourceStatusDisconnected, stored.Status)
}

func TestDatasourceService_TestMissing(t *testing.T) {
	svc, _, _ := newTestDatasourceService(t)
	_, err := svc.Test(context.Background(), "ds_missing", false)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
