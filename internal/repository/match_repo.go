package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/colabhq/colab-server/internal/db"
	"github.com/colabhq/colab-server/internal/pairkey"
)

// MatchRepository persists mutual-like matches. Rows are keyed by the
// canonical pair key, so creation is commutative regardless of which side
// swiped second.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// CreateIfAbsent creates the match for the unordered pair {a, b}, or
// returns the existing one.
//
// The insert is conditional on the unique pair_key index
// (ON CONFLICT DO NOTHING), then the row is re-read. Two concurrent
// callers both converge on the same single row: one inserts, the other
// no-ops, both fetch. The created flag is true only for the caller whose
// insert took effect.
func (r *MatchRepository) CreateIfAbsent(ctx context.Context, a, b uint64) (*db.Match, bool, error) {
	lo, hi := pairkey.Canonical(a, b)
	match := db.Match{
		PairKey: pairkey.Key(a, b),
		UserAID: lo,
		UserBID: hi,
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pair_key"}},
			DoNothing: true,
		}).
		Create(&match)
	if res.Error != nil {
		return nil, false, res.Error
	}
	created := res.RowsAffected > 0

	// Re-read so the no-op path returns the winning row.
	var existing db.Match
	if err := r.db.WithContext(ctx).
		Where("pair_key = ?", match.PairKey).
		First(&existing).Error; err != nil {
		return nil, false, err
	}
	return &existing, created, nil
}

// ForPair returns the match for the unordered pair, or gorm.ErrRecordNotFound.
func (r *MatchRepository) ForPair(ctx context.Context, a, b uint64) (*db.Match, error) {
	var match db.Match
	err := r.db.WithContext(ctx).
		Where("pair_key = ?", pairkey.Key(a, b)).
		First(&match).Error
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// ForUser returns all matches the user participates in, newest first.
func (r *MatchRepository) ForUser(ctx context.Context, userID uint64) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&matches).Error
	return matches, err
}

// CountForUser returns how many matches the user participates in.
// Used in conjunction with the Redis cache (DB is fallback).
func (r *MatchRepository) CountForUser(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Count(&count).Error
	return count, err
}
