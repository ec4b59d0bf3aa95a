package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/employee-admin/internal/models"
	appErrors "github.com/noah-isme/employee-admin/pkg/errors"
)

func TestMemoryCacheRepositoryRoundTrip(t *testing.T) {
	repo := NewMemoryCacheRepository(time.Minute)
	ctx := context.Background()

	var out []models.Employee
	assert.ErrorIs(t, repo.Get(ctx, "employees:list", &out), appErrors.ErrCacheMiss)

	in := []models.Employee{{ID: "e1", Name: "Asha Rao", Courses: []string{"MCA"}}}
	require.NoError(t, repo.Set(ctx, "employees:list", in, 0))
	require.NoError(t, repo.Get(ctx, "employees:list", &out))
	require.Len(t, out, 1)
	assert.Equal(t, "Asha Rao", out[0].Name)
}

func TestMemoryCacheRepositoryDeleteByPattern(t *testing.T) {
	repo := NewMemoryCacheRepository(time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "employees:list", []string{"a"}, 0))
	require.NoError(t, repo.Set(ctx, "employees:export", []string{"b"}, 0))
	require.NoError(t, repo.Set(ctx, "other:key", []string{"c"}, 0))

	require.NoError(t, repo.DeleteByPattern(ctx, "employees:*"))

	var out []string
	assert.ErrorIs(t, repo.Get(ctx, "employees:list", &out), appErrors.ErrCacheMiss)
	assert.ErrorIs(t, repo.Get(ctx, "employees:export", &out), appErrors.ErrCacheMiss)
	require.NoError(t, repo.Get(ctx, "other:key", &out))
	assert.Equal(t, []string{"c"}, out)
}
