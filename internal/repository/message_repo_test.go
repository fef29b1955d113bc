package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colabhq/colab-server/internal/repository"
)

func TestHistoryIsChronologicalForBothSides(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMessageRepository(dbase)

	// alternating senders; equal timestamps are possible with the
	// truncated NowFunc, so insertion order must break ties
	for i := 0; i < 6; i++ {
		sender, receiver := uint64(1), uint64(2)
		if i%2 == 1 {
			sender, receiver = receiver, sender
		}
		_, err := repo.Append(ctx, sender, receiver, fmt.Sprintf("msg-%d", i))
		require.NoError(t, err)
	}
	// noise from an unrelated pair
	_, err := repo.Append(ctx, 1, 3, "other thread")
	require.NoError(t, err)

	msgs, next, err := repo.History(ctx, 2, 1, nil, 0)
	require.NoError(t, err)
	assert.Nil(t, next)
	require.Len(t, msgs, 6)

	for i, m := range msgs {
		assert.Equal(t, fmt.Sprintf("msg-%d", i), m.Content)
		if i > 0 {
			assert.False(t, m.CreatedAt.Before(msgs[i-1].CreatedAt), "non-decreasing created_at")
			assert.Greater(t, m.ID, msgs[i-1].ID)
		}
	}
}

func TestHistoryPagination(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMessageRepository(dbase)

	for i := 0; i < 5; i++ {
		_, err := repo.Append(ctx, 1, 2, fmt.Sprintf("msg-%d", i))
		require.NoError(t, err)
	}

	page1, token, err := repo.History(ctx, 1, 2, nil, 2)
	require.NoError(t, err)
	require.NotNil(t, token)
	require.Len(t, page1, 2)
	assert.Equal(t, "msg-0", page1[0].Content)

	page2, token, err := repo.History(ctx, 1, 2, token, 2)
	require.NoError(t, err)
	require.NotNil(t, token)
	require.Len(t, page2, 2)
	assert.Equal(t, "msg-2", page2[0].Content)

	page3, token, err := repo.History(ctx, 1, 2, token, 2)
	require.NoError(t, err)
	assert.Nil(t, token)
	require.Len(t, page3, 1)
	assert.Equal(t, "msg-4", page3[0].Content)
}

func TestHistoryRejectsGarbageToken(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMessageRepository(dbase)

	bad := "not-a-cursor"
	_, _, err := repo.History(ctx, 1, 2, &bad, 2)
	assert.Error(t, err)
}
