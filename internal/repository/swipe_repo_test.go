package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/colabhq/colab-server/internal/db"
	"github.com/colabhq/colab-server/internal/repository"
)

// setup in-memory DB, one per test. MaxOpenConns(1) serializes access so
// concurrent writers exercise the conflict clauses instead of SQLITE_BUSY.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	database, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(&db.Profile{}, &db.Swipe{}, &db.Match{}, &db.Message{}))
	return database
}

func TestRecordUpsertIsLastWriteWins(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)

	require.NoError(t, repo.Record(ctx, 1, 2, db.ActionLike))
	require.NoError(t, repo.Record(ctx, 1, 2, db.ActionPass))

	var count int64
	require.NoError(t, dbase.Model(&db.Swipe{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	swipe, err := repo.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, db.ActionPass, swipe.Action)
}

func TestActedTargets(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)

	require.NoError(t, repo.Record(ctx, 1, 2, db.ActionLike))
	require.NoError(t, repo.Record(ctx, 1, 3, db.ActionPass))
	require.NoError(t, repo.Record(ctx, 4, 1, db.ActionLike)) // other direction, excluded

	ids, err := repo.ActedTargets(ctx, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{2, 3}, ids)
}

func TestHasLike(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)

	require.NoError(t, repo.Record(ctx, 1, 2, db.ActionLike))
	require.NoError(t, repo.Record(ctx, 2, 3, db.ActionPass))

	ok, err := repo.HasLike(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	// pass is not a like
	ok, err = repo.HasLike(ctx, 2, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	// absence is false, not an error
	ok, err = repo.HasLike(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasLikeReflectsOverwrite(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)

	require.NoError(t, repo.Record(ctx, 1, 2, db.ActionLike))
	require.NoError(t, repo.Record(ctx, 1, 2, db.ActionPass))

	ok, err := repo.HasLike(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, ok, "latest decision governs")
}
