package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colabhq/colab-server/internal/db"
	"github.com/colabhq/colab-server/internal/repository"
)

func TestCreateIfAbsentIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMatchRepository(dbase)

	m1, created, err := repo.CreateIfAbsent(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, uint64(1), m1.UserAID)
	assert.Equal(t, uint64(2), m1.UserBID)

	// opposite argument order converges on the same row
	m2, created, err := repo.CreateIfAbsent(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, m1.ID, m2.ID)

	var count int64
	require.NoError(t, dbase.Model(&db.Match{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateIfAbsentConcurrent(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMatchRepository(dbase)

	var wg sync.WaitGroup
	results := make([]*db.Match, 2)
	errs := make([]error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, b := uint64(10), uint64(20)
			if i == 1 {
				a, b = b, a
			}
			results[i], _, errs[i] = repo.CreateIfAbsent(ctx, a, b)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	require.NotNil(t, results[0])
	require.NotNil(t, results[1])
	assert.Equal(t, results[0].ID, results[1].ID, "both callers converge on the same match")

	var count int64
	require.NoError(t, dbase.Model(&db.Match{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestForUserAndCount(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMatchRepository(dbase)

	_, _, err := repo.CreateIfAbsent(ctx, 1, 2)
	require.NoError(t, err)
	_, _, err = repo.CreateIfAbsent(ctx, 3, 1)
	require.NoError(t, err)
	_, _, err = repo.CreateIfAbsent(ctx, 2, 3)
	require.NoError(t, err)

	matches, err := repo.ForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	for _, m := range matches {
		assert.True(t, m.HasUser(1))
	}

	count, err := repo.CountForUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestForPairNotFound(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMatchRepository(dbase)

	_, err := repo.ForPair(ctx, 5, 6)
	assert.Error(t, err)
}
