package moderation_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/colabhq/colab-server/internal/app"
	"github.com/colabhq/colab-server/internal/cache"
	"github.com/colabhq/colab-server/internal/config"
	"github.com/colabhq/colab-server/internal/db"
	svcErr "github.com/colabhq/colab-server/internal/errors"
	"github.com/colabhq/colab-server/internal/service/matching"
	"github.com/colabhq/colab-server/internal/service/moderation"
)

const adminID = uint64(9)

// setupServices wires a moderation service plus a matching service over
// the same DB so cascade effects can be observed end to end.
func setupServices(t *testing.T) (*moderation.Service, *matching.Service, *gorm.DB) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, dbase.AutoMigrate(&db.Profile{}, &db.Swipe{}, &db.Match{}, &db.Message{}))

	profiles := []db.Profile{
		{ID: 1, Username: "org1", PasswordHash: "x", Type: db.TypeOrganization},
		{ID: 2, Username: "ind1", PasswordHash: "x", Type: db.TypeIndividual},
		{ID: 3, Username: "ind2", PasswordHash: "x", Type: db.TypeIndividual},
		{ID: adminID, Username: "admin", PasswordHash: "x", Type: db.TypeAdmin},
	}
	require.NoError(t, dbase.Create(&profiles).Error)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	redisCache := cache.NewRedisCache(cfg)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	appCtx := app.New(dbase, redisCache, log, cfg)
	return moderation.NewService(appCtx), matching.NewService(appCtx), dbase
}

func TestListUsersExcludesAdmin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupServices(t)

	users, err := svc.ListUsers(ctx, adminID)
	require.NoError(t, err)
	require.Len(t, users, 3)
	for _, u := range users {
		assert.NotEqual(t, db.TypeAdmin, u.Type)
	}
}

func TestModerationRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupServices(t)

	_, err := svc.ListUsers(ctx, 1)
	assert.ErrorIs(t, err, svcErr.ErrForbidden)

	_, err = svc.ToggleBlock(ctx, 2, 1)
	assert.ErrorIs(t, err, svcErr.ErrForbidden)

	err = svc.DeleteUser(ctx, 3, 1)
	assert.ErrorIs(t, err, svcErr.ErrForbidden)
}

func TestToggleBlock(t *testing.T) {
	ctx := context.Background()
	svc, match, _ := setupServices(t)

	blocked, err := svc.ToggleBlock(ctx, adminID, 2)
	require.NoError(t, err)
	assert.True(t, blocked.Blocked)

	// blocked users vanish from candidate pools
	profiles, err := match.Potentials(ctx, 1, "", "")
	require.NoError(t, err)
	for _, p := range profiles {
		assert.NotEqual(t, uint64(2), p.ID)
	}

	unblocked, err := svc.ToggleBlock(ctx, adminID, 2)
	require.NoError(t, err)
	assert.False(t, unblocked.Blocked)

	// admins cannot block each other, and unknown ids are NotFound
	_, err = svc.ToggleBlock(ctx, adminID, adminID)
	assert.ErrorIs(t, err, svcErr.ErrForbidden)
	_, err = svc.ToggleBlock(ctx, adminID, 999)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
}

// TestDeleteUserCascades builds up a match and a conversation around ind1,
// deletes ind1, and verifies nothing referencing it survives.
func TestDeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	svc, match, gdb := setupServices(t)

	_, err := match.Swipe(ctx, 1, 2, db.ActionLike)
	require.NoError(t, err)
	m, err := match.Swipe(ctx, 2, 1, db.ActionLike)
	require.NoError(t, err)
	require.NotNil(t, m)

	msg := db.Message{PairKey: m.PairKey, SenderID: 1, ReceiverID: 2, Content: "hi"}
	require.NoError(t, gdb.Create(&msg).Error)

	require.NoError(t, svc.DeleteUser(ctx, adminID, 2))

	// gone from moderation listing
	users, err := svc.ListUsers(ctx, adminID)
	require.NoError(t, err)
	for _, u := range users {
		assert.NotEqual(t, uint64(2), u.ID)
	}

	// partner's match list is empty, no orphaned rows remain
	matches, err := match.Matches(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, matches)

	var count int64
	require.NoError(t, gdb.Model(&db.Swipe{}).Where("actor_id = 2 OR target_id = 2").Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, gdb.Model(&db.Match{}).Where("user_a_id = 2 OR user_b_id = 2").Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, gdb.Model(&db.Message{}).Where("sender_id = 2 OR receiver_id = 2").Count(&count).Error)
	assert.Zero(t, count)

	// and the freed slot reappears in no one's pool
	profiles, err := match.Potentials(ctx, 1, "", "")
	require.NoError(t, err)
	for _, p := range profiles {
		assert.NotEqual(t, uint64(2), p.ID)
	}

	// deleting again is NotFound
	assert.ErrorIs(t, svc.DeleteUser(ctx, adminID, 2), svcErr.ErrNotFound)
}
