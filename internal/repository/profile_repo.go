package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/colabhq/colab-server/internal/db"
)

// ProfileRepository is the directory adapter for profile records. The
// matching core only reads it; writes come from registration and
// moderation flows.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new repository bound to the given DB connection.
func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// Create inserts a new profile. Username uniqueness is enforced by the
// unique index; callers pre-check with UsernameExists to surface a clean
// validation error before any write.
func (r *ProfileRepository) Create(ctx context.Context, profile *db.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// ByID fetches one profile, gorm.ErrRecordNotFound if absent.
func (r *ProfileRepository) ByID(ctx context.Context, id uint64) (*db.Profile, error) {
	var profile db.Profile
	if err := r.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// ByUsername fetches one profile by its unique username.
func (r *ProfileRepository) ByUsername(ctx context.Context, username string) (*db.Profile, error) {
	var profile db.Profile
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UsernameExists reports whether any profile claims the username.
func (r *ProfileRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("username = ?", username).
		Count(&count).Error
	return count > 0, err
}

// ListNonAdmin returns every profile except ADMIN accounts, for the
// moderation console.
func (r *ProfileRepository) ListNonAdmin(ctx context.Context) ([]db.Profile, error) {
	var profiles []db.Profile
	err := r.db.WithContext(ctx).
		Where("type <> ?", db.TypeAdmin).
		Order("id ASC").
		Find(&profiles).Error
	return profiles, err
}

// Candidates returns unblocked, non-ADMIN profiles of the eligible types,
// excluding the requester and every id in excludeIDs. Topic filtering and
// shuffling happen in the service layer; topics are stored serialized so
// they cannot be matched in SQL portably.
func (r *ProfileRepository) Candidates(
	ctx context.Context,
	requesterID uint64,
	eligibleTypes []db.ProfileType,
	excludeIDs []uint64,
) ([]db.Profile, error) {
	var profiles []db.Profile
	query := r.db.WithContext(ctx).
		Where("blocked = ?", false).
		Where("type IN ?", eligibleTypes).
		Where("id <> ?", requesterID)
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	err := query.Find(&profiles).Error
	return profiles, err
}

// SetBlocked flips the moderation block flag.
func (r *ProfileRepository) SetBlocked(ctx context.Context, id uint64, blocked bool) error {
	res := r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("id = ?", id).
		Update("blocked", blocked)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteCascade removes the profile and everything referencing it —
// swipes in either direction, matches it participates in, and messages it
// sent or received — in a single transaction.
func (r *ProfileRepository) DeleteCascade(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("actor_id = ? OR target_id = ?", id, id).
			Delete(&db.Swipe{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_a_id = ? OR user_b_id = ?", id, id).
			Delete(&db.Match{}).Error; err != nil {
			return err
		}
		if err := tx.Where("sender_id = ? OR receiver_id = ?", id, id).
			Delete(&db.Message{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&db.Profile{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
