package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/colabhq/colab-server/internal/pairkey"
)

var seedTopics = []string{
	"climate", "education", "open-source", "health", "arts", "housing",
}

// SeedDemoData resets the database and populates it with demo profiles,
// swipes, matches and a few conversations.
//
// Behavior:
//  1. Clears existing rows in all four tables.
//  2. Creates 8 organizations, 12 individuals and 1 admin, all with the
//     password "password".
//  3. Generates swipes with ~70% likes; every 3rd like is made mutual and
//     a Match row is created for it.
//
// Compatible with both MySQL and SQLite.
func SeedDemoData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{"messages", "matches", "swipes", "profiles"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE profiles AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE matches AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE messages AUTO_INCREMENT = 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name IN ('profiles', 'matches', 'messages')")
	}

	log.Println("Cleared existing data")

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// --- Profiles ---
	var profiles []Profile
	for i := 1; i <= 8; i++ {
		profiles = append(profiles, Profile{
			Username:    fmt.Sprintf("org%d", i),
			Type:        TypeOrganization,
			Name:        fmt.Sprintf("Organization %d", i),
			Tagline:     "Looking for contributors",
			Description: "Demo organization profile",
			Topics:      pickTopics(r),
			Projects:    []string{fmt.Sprintf("project-%d", i)},
		})
	}
	for i := 1; i <= 12; i++ {
		profiles = append(profiles, Profile{
			Username:    fmt.Sprintf("ind%d", i),
			Type:        TypeIndividual,
			Name:        fmt.Sprintf("Individual %d", i),
			Tagline:     "Open to collaborate",
			Description: "Demo individual profile",
			Topics:      pickTopics(r),
			Skills:      []string{"go", "design"},
		})
	}
	profiles = append(profiles, Profile{
		Username: "admin",
		Type:     TypeAdmin,
		Name:     "Moderator",
	})

	for i := range profiles {
		profiles[i].PasswordHash = string(hash)
		if err := db.Create(&profiles[i]).Error; err != nil {
			return fmt.Errorf("failed to seed profile: %w", err)
		}
	}
	log.Printf("Seeded %d profiles.", len(profiles))

	// Matchable ids only (admin excluded).
	matchable := profiles[:len(profiles)-1]

	// --- Swipes, matches, messages ---
	counter := 0
	for i := range matchable {
		actor := matchable[i]
		for j := 0; j < 6; j++ {
			target := matchable[r.Intn(len(matchable))]
			if actor.ID == target.ID || actor.Type == target.Type && actor.Type == TypeOrganization {
				// orgs only swipe on individuals
				continue
			}

			action := ActionPass
			if r.Intn(100) < 70 {
				action = ActionLike
			}

			mutual := counter%3 == 0 && action == ActionLike
			if mutual {
				recip := Swipe{ActorID: target.ID, TargetID: actor.ID, Action: ActionLike}
				db.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "actor_id"}, {Name: "target_id"}},
					DoUpdates: clause.AssignmentColumns([]string{"action", "updated_at"}),
				}).Create(&recip)
			}

			swipe := Swipe{ActorID: actor.ID, TargetID: target.ID, Action: action}
			if err := db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "actor_id"}, {Name: "target_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"action", "updated_at"}),
			}).Create(&swipe).Error; err != nil {
				return fmt.Errorf("failed to seed swipe: %w", err)
			}

			if mutual {
				lo, hi := pairkey.Canonical(actor.ID, target.ID)
				match := Match{PairKey: pairkey.Key(actor.ID, target.ID), UserAID: lo, UserBID: hi}
				res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&match)
				if res.Error == nil && res.RowsAffected > 0 {
					greeting := Message{
						PairKey:    match.PairKey,
						SenderID:   actor.ID,
						ReceiverID: target.ID,
						Content:    fmt.Sprintf("Hi %s, glad we matched!", target.Name),
					}
					db.Create(&greeting)
				}
			}

			counter++
		}
	}

	log.Printf("Seeded %d swipes.", counter)
	return nil
}

func pickTopics(r *rand.Rand) []string {
	n := 1 + r.Intn(3)
	out := make([]string, 0, n)
	perm := r.Perm(len(seedTopics))
	for _, idx := range perm[:n] {
		out = append(out, seedTopics[idx])
	}
	return out
}
