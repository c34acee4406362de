package repository

import (
	"context"
	"fmt"
	"testing"

	"learnhub_backend/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// DB 故意留空：命中缓存的读取不应触达数据库
func newCacheOnlyRepo(t *testing.T) *LearningPathRepository {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewLearningPathRepository(nil, rdb)
}

func popularFixture(n int) []model.LearningPath {
	paths := make([]model.LearningPath, n)
	for i := range paths {
		paths[i].Title = fmt.Sprintf("热门路径 %d", i+1)
		paths[i].IsPublished = true
		paths[i].IsActive = true
		paths[i].TotalEnrollments = n - i
	}
	return paths
}

func TestFindPopularCacheServesAnyLimit(t *testing.T) {
	repo := newCacheOnlyRepo(t)
	ctx := context.Background()

	repo.cachePopular(ctx, popularFixture(5))

	got, err := repo.FindPopular(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, "热门路径 1", got[0].Title)

	// 缓存里是完整的热门列表，小 limit 的请求之后更大的 limit 仍能拿全
	got, err = repo.FindPopular(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, got, 5)

	// limit 超过缓存条数时返回全部
	got, err = repo.FindPopular(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestInvalidatePopularCache(t *testing.T) {
	repo := newCacheOnlyRepo(t)
	ctx := context.Background()

	repo.cachePopular(ctx, popularFixture(2))
	_, ok := repo.popularFromCache(ctx)
	require.True(t, ok)

	repo.InvalidatePopularCache(ctx)

	_, ok = repo.popularFromCache(ctx)
	assert.False(t, ok)
}

func TestCapPopular(t *testing.T) {
	paths := popularFixture(4)

	assert.Len(t, capPopular(paths, 2), 2)
	assert.Len(t, capPopular(paths, 4), 4)
	assert.Len(t, capPopular(paths, 9), 4)
	assert.Len(t, capPopular(nil, 3), 0)
}
