package moderation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/colabhq/colab-server/internal/app"
	"github.com/colabhq/colab-server/internal/db"
	svcErr "github.com/colabhq/colab-server/internal/errors"
	"github.com/colabhq/colab-server/internal/repository"
)

// Service implements the moderation console operations: user listing,
// block toggling, and cascading account deletion.
type Service struct {
	appCtx      *app.AppContext
	profileRepo *repository.ProfileRepository
}

// NewService creates the moderation service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		profileRepo: repository.NewProfileRepository(appCtx.DB),
	}
}

// requireAdmin loads the caller's profile and rejects non-ADMIN accounts.
func (s *Service) requireAdmin(ctx context.Context, callerID uint64) error {
	caller, err := s.profileRepo.ByID(ctx, callerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svcErr.ErrUnauthorized
	} else if err != nil {
		return err
	}
	if caller.Type != db.TypeAdmin {
		return svcErr.ErrForbidden
	}
	return nil
}

// ListUsers returns every profile except ADMIN accounts.
func (s *Service) ListUsers(ctx context.Context, callerID uint64) ([]db.Profile, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	return s.profileRepo.ListNonAdmin(ctx)
}

// ToggleBlock flips the target's blocked flag. Blocked users fail login;
// existing candidates pools pick the change up on the next fetch.
func (s *Service) ToggleBlock(ctx context.Context, callerID, targetID uint64) (*db.Profile, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	target, err := s.profileRepo.ByID(ctx, targetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	if target.Type == db.TypeAdmin {
		return nil, svcErr.ErrForbidden
	}

	if err := s.profileRepo.SetBlocked(ctx, targetID, !target.Blocked); err != nil {
		s.appCtx.Logger.Error("block toggle failed", "target", targetID, "err", err)
		return nil, err
	}
	target.Blocked = !target.Blocked

	s.appCtx.Logger.Info("block toggled", "target", targetID, "blocked", target.Blocked)
	return target, nil
}

// DeleteUser removes the account and cascades over its swipes, matches
// and messages in one transaction. Former partners simply stop seeing the
// deleted user in their match lists.
func (s *Service) DeleteUser(ctx context.Context, callerID, targetID uint64) error {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}

	target, err := s.profileRepo.ByID(ctx, targetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svcErr.ErrNotFound
	} else if err != nil {
		return err
	}
	if target.Type == db.TypeAdmin {
		return svcErr.ErrForbidden
	}

	if err := s.profileRepo.DeleteCascade(ctx, targetID); err != nil {
		s.appCtx.Logger.Error("cascade delete failed", "target", targetID, "err", err)
		return err
	}

	// drop the stale cached match counts for the deleted user's partners
	_ = s.appCtx.RedisCache.InvalidateMatchCount(ctx, targetID)

	s.appCtx.Logger.Info("user deleted", "target", targetID)
	return nil
}
