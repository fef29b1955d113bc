package chat

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/colabhq/colab-server/internal/app"
	"github.com/colabhq/colab-server/internal/db"
	svcErr "github.com/colabhq/colab-server/internal/errors"
	"github.com/colabhq/colab-server/internal/repository"
)

// Service implements the conversation store operations.
type Service struct {
	appCtx      *app.AppContext
	profileRepo *repository.ProfileRepository
	messageRepo *repository.MessageRepository
}

// NewService creates the chat service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		profileRepo: repository.NewProfileRepository(appCtx.DB),
		messageRepo: repository.NewMessageRepository(appCtx.DB),
	}
}

// Send appends one message from sender to receiver.
//
// Validation happens before any write: blank or whitespace-only content
// is rejected, as is a receiver that does not exist or equals the sender.
// Store failures propagate — a message is never silently dropped.
func (s *Service) Send(ctx context.Context, senderID, receiverID uint64, content string) (*db.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, svcErr.ErrEmptyContent
	}
	if senderID == receiverID {
		return nil, svcErr.ErrDuplicateActor
	}

	if _, err := s.profileRepo.ByID(ctx, receiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.ErrNotFound
		}
		return nil, err
	}

	msg, err := s.messageRepo.Append(ctx, senderID, receiverID, content)
	if err != nil {
		s.appCtx.Logger.Error("message append failed", "sender", senderID, "receiver", receiverID, "err", err)
		return nil, err
	}
	return msg, nil
}

// Conversation returns the thread between the user and the partner in
// chronological order. limit <= 0 returns the full history; with a limit,
// the token pages forward from the oldest end.
func (s *Service) Conversation(
	ctx context.Context,
	userID, partnerID uint64,
	paginationToken *string,
	limit int,
) ([]db.Message, *string, error) {
	messages, nextToken, err := s.messageRepo.History(ctx, userID, partnerID, paginationToken, limit)
	if err != nil {
		s.appCtx.Logger.Error("history read failed", "user", userID, "partner", partnerID, "err", err)
		return nil, nil, err
	}
	return messages, nextToken, nil
}
