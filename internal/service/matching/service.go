package matching

import (
	"context"
	"errors"
	"math/rand"

	"gorm.io/gorm"

	"github.com/colabhq/colab-server/internal/app"
	"github.com/colabhq/colab-server/internal/db"
	svcErr "github.com/colabhq/colab-server/internal/errors"
	"github.com/colabhq/colab-server/internal/repository"
)

// Service implements the candidate selector and the swipe/match flow.
type Service struct {
	appCtx      *app.AppContext
	profileRepo *repository.ProfileRepository
	swipeRepo   *repository.SwipeRepository
	matchRepo   *repository.MatchRepository
}

// NewService creates the matching service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		profileRepo: repository.NewProfileRepository(appCtx.DB),
		swipeRepo:   repository.NewSwipeRepository(appCtx.DB),
		matchRepo:   repository.NewMatchRepository(appCtx.DB),
	}
}

// MatchWithProfile pairs a match with the counterpart's profile.
type MatchWithProfile struct {
	Match   db.Match   `json:"match"`
	Profile db.Profile `json:"profile"`
}

// Potentials computes the candidate pool for the requester.
//
// Exclusions: self, blocked profiles, ADMIN profiles, and every id the
// requester has already swiped on. Type compatibility is fixed policy:
// organizations only see individuals; individuals see both kinds unless
// they narrow it with typePreference. A non-empty topicFilter further
// restricts to profiles listing that topic. The result is shuffled per
// call; callers must not rely on ordering.
//
// Infrastructure failures degrade to an empty pool — this is a
// best-effort listing, never a hard error.
func (s *Service) Potentials(
	ctx context.Context,
	requesterID uint64,
	topicFilter string,
	typePreference db.ProfileType,
) ([]db.Profile, error) {
	requester, err := s.profileRepo.ByID(ctx, requesterID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrNotFound
	} else if err != nil {
		s.appCtx.Logger.Warn("requester lookup failed, degrading to empty pool", "err", err)
		return []db.Profile{}, nil
	}

	var eligible []db.ProfileType
	switch requester.Type {
	case db.TypeOrganization:
		eligible = []db.ProfileType{db.TypeIndividual}
	case db.TypeIndividual:
		if typePreference != "" {
			if typePreference != db.TypeOrganization && typePreference != db.TypeIndividual {
				return nil, svcErr.InvalidArgument("type preference must be ORGANIZATION or INDIVIDUAL")
			}
			eligible = []db.ProfileType{typePreference}
		} else {
			eligible = []db.ProfileType{db.TypeOrganization, db.TypeIndividual}
		}
	default:
		// ADMIN accounts do not participate in matching.
		return []db.Profile{}, nil
	}

	acted, err := s.swipeRepo.ActedTargets(ctx, requesterID)
	if err != nil {
		s.appCtx.Logger.Warn("ledger read failed, degrading to empty pool", "err", err)
		return []db.Profile{}, nil
	}

	candidates, err := s.profileRepo.Candidates(ctx, requesterID, eligible, acted)
	if err != nil {
		s.appCtx.Logger.Warn("candidate query failed, degrading to empty pool", "err", err)
		return []db.Profile{}, nil
	}

	if topicFilter != "" {
		filtered := candidates[:0]
		for _, c := range candidates {
			if c.HasTopic(topicFilter) {
				filtered = append(filtered, c)
			}
		}
		candidates = filtered
	}

	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	return candidates, nil
}

// Swipe records the actor's decision on the target and, for a LIKE that
// completes a reciprocal pair, creates the match.
//
// The ledger write, the reciprocity check and the match insert form the
// flow: (1) persist the swipe; (2) on LIKE, check the reverse direction;
// (3) create the match idempotently on the canonical pair key. Step (3)
// converges under concurrent double-invocation: the unique pair_key index
// guarantees at most one row, and both callers return that row.
//
// Returns the match (new or pre-existing) or nil if no mutual like exists.
// Every error here is a hard failure — a swipe must never be silently
// dropped, and a ledger/infra error must never be mistaken for "no like".
func (s *Service) Swipe(
	ctx context.Context,
	actorID, targetID uint64,
	action db.SwipeAction,
) (*db.Match, error) {
	if actorID == targetID {
		return nil, svcErr.ErrDuplicateActor
	}
	if action != db.ActionLike && action != db.ActionPass {
		return nil, svcErr.InvalidArgument("action must be LIKE or PASS")
	}

	if _, err := s.profileRepo.ByID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.ErrNotFound
		}
		return nil, err
	}

	if err := s.swipeRepo.Record(ctx, actorID, targetID, action); err != nil {
		s.appCtx.Logger.Error("swipe record failed", "actor", actorID, "target", targetID, "err", err)
		return nil, err
	}

	if action != db.ActionLike {
		return nil, nil
	}

	reciprocal, err := s.swipeRepo.HasLike(ctx, targetID, actorID)
	if err != nil {
		s.appCtx.Logger.Error("reciprocity check failed", "actor", actorID, "target", targetID, "err", err)
		return nil, err
	}
	if !reciprocal {
		return nil, nil
	}

	match, created, err := s.matchRepo.CreateIfAbsent(ctx, actorID, targetID)
	if err != nil {
		s.appCtx.Logger.Error("match create failed", "actor", actorID, "target", targetID, "err", err)
		return nil, err
	}

	if created {
		s.appCtx.Logger.Info("match created", "match", match.ID, "user_a", match.UserAID, "user_b", match.UserBID)
		// best-effort counter bump; a miss just falls back to the DB count
		_ = s.appCtx.RedisCache.IncrMatchCount(ctx, match.UserAID)
		_ = s.appCtx.RedisCache.IncrMatchCount(ctx, match.UserBID)
	}

	return match, nil
}

// Matches returns every match for the user joined with the counterpart
// profile, newest first. A match whose counterpart has been deleted is
// silently omitted. Infrastructure failures degrade to an empty listing.
func (s *Service) Matches(ctx context.Context, userID uint64) ([]MatchWithProfile, error) {
	matches, err := s.matchRepo.ForUser(ctx, userID)
	if err != nil {
		s.appCtx.Logger.Warn("match listing failed, degrading to empty", "user", userID, "err", err)
		return []MatchWithProfile{}, nil
	}

	out := make([]MatchWithProfile, 0, len(matches))
	for _, m := range matches {
		otherID, ok := m.OtherUser(userID)
		if !ok {
			continue
		}
		other, err := s.profileRepo.ByID(ctx, otherID)
		if err != nil {
			// deleted counterpart, or transient read failure: omit
			continue
		}
		out = append(out, MatchWithProfile{Match: m, Profile: *other})
	}
	return out, nil
}

// MatchCount returns the user's match count, cache-first with DB
// fallback, refreshing the cache on a miss.
func (s *Service) MatchCount(ctx context.Context, userID uint64) (int64, error) {
	if n, hit, err := s.appCtx.RedisCache.GetMatchCount(ctx, userID); err == nil && hit {
		return n, nil
	}

	count, err := s.matchRepo.CountForUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	_ = s.appCtx.RedisCache.UpdateMatchCount(ctx, userID, count)
	return count, nil
}
