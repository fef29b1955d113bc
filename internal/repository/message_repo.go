package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/colabhq/colab-server/internal/db"
	"github.com/colabhq/colab-server/internal/pairkey"
	"github.com/colabhq/colab-server/internal/utils/pagination"
)

// MessageRepository is the append-only conversation store. Messages are
// keyed by the canonical pair key so a thread reads the same from either
// side.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new repository bound to the given DB connection.
func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

// Append persists one message. Content validation happens in the service
// layer before this is called.
func (r *MessageRepository) Append(
	ctx context.Context,
	senderID, receiverID uint64,
	content string,
) (*db.Message, error) {
	msg := db.Message{
		PairKey:    pairkey.Key(senderID, receiverID),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := r.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// History returns messages between the unordered pair {a, b} in
// chronological order, ties on created_at broken by insertion order.
//
// limit <= 0 returns the full thread. With a positive limit, a cursor
// token pages forward from the oldest end; the returned token is nil on
// the last page.
func (r *MessageRepository) History(
	ctx context.Context,
	a, b uint64,
	paginationToken *string,
	limit int,
) ([]db.Message, *string, error) {
	var messages []db.Message

	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Where("pair_key = ?", pairkey.Key(a, b)).
		Order("created_at ASC, id ASC")

	if limit > 0 {
		query = query.Limit(limit + 1)
	}

	if cursor.MessageID > 0 && cursor.CreatedUnix > 0 {
		ts := time.UnixMilli(cursor.CreatedUnix)
		query = query.Where(
			"(created_at > ? OR (created_at = ? AND id > ?))",
			ts, ts, cursor.MessageID,
		)
	}

	if err := query.Find(&messages).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if limit > 0 && len(messages) > limit {
		last := messages[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			MessageID:   last.ID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		messages = messages[:limit]
	}

	return messages, nextToken, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
