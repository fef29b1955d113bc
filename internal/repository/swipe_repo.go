package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/colabhq/colab-server/internal/db"
)

// SwipeRepository is the swipe ledger: every like/pass an actor has
// recorded about a target. It is the source of truth both for "already
// seen" exclusion and for reciprocity checks.
type SwipeRepository struct {
	db *gorm.DB
}

// NewSwipeRepository creates a new repository bound to the given DB connection.
func NewSwipeRepository(database *gorm.DB) *SwipeRepository {
	return &SwipeRepository{db: database}
}

// Record inserts or updates the swipe actor -> target.
//
// Behavior:
//   - If the (actor_id, target_id) pair exists → the row is updated with
//     the new action (last-write-wins).
//   - If it doesn't exist → a new row is inserted.
//   - Composite PK ensures overwrite guarantee.
func (r *SwipeRepository) Record(
	ctx context.Context,
	actorID, targetID uint64,
	action db.SwipeAction,
) error {
	swipe := db.Swipe{
		ActorID:  actorID,
		TargetID: targetID,
		Action:   action,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "actor_id"}, {Name: "target_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"action", "updated_at"}),
		}).
		Create(&swipe).Error
}

// ActedTargets returns the ids the actor has already swiped on, in any
// direction of decision. Used to exclude exhausted candidates.
func (r *SwipeRepository) ActedTargets(ctx context.Context, actorID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("actor_id = ?", actorID).
		Pluck("target_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// HasLike checks whether the actor's latest decision on the target is a LIKE.
//
// Absence of a row is false, not an error; infrastructure failures are
// returned so callers never mistake them for "no like".
func (r *SwipeRepository) HasLike(ctx context.Context, actorID, targetID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("actor_id = ? AND target_id = ? AND action = ?", actorID, targetID, db.ActionLike).
		Count(&count).Error
	return count > 0, err
}

// Get returns the swipe row for (actor, target) if one exists.
func (r *SwipeRepository) Get(ctx context.Context, actorID, targetID uint64) (*db.Swipe, error) {
	var swipe db.Swipe
	err := r.db.WithContext(ctx).
		Where("actor_id = ? AND target_id = ?", actorID, targetID).
		First(&swipe).Error
	if err != nil {
		return nil, err
	}
	return &swipe, nil
}
