package db

import (
	"time"
)

// ProfileType distinguishes the two matchable participant kinds plus
// moderation accounts.
type ProfileType string

const (
	TypeOrganization ProfileType = "ORGANIZATION"
	TypeIndividual   ProfileType = "INDIVIDUAL"
	TypeAdmin        ProfileType = "ADMIN"
)

// SwipeAction is a recorded like/pass decision.
type SwipeAction string

const (
	ActionLike SwipeAction = "LIKE"
	ActionPass SwipeAction = "PASS"
)

// Profile table. Written by registration/moderation flows only; the
// matching core treats it as read-mostly.
type Profile struct {
	ID           uint64            `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string            `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PasswordHash string            `gorm:"size:255;not null" json:"-"`
	Type         ProfileType       `gorm:"size:16;not null;index" json:"type"`
	Name         string            `gorm:"size:128" json:"name"`
	Tagline      string            `gorm:"size:255" json:"tagline"`
	Description  string            `gorm:"type:text" json:"description"`
	Topics       []string          `gorm:"serializer:json;type:text" json:"topics"`
	Skills       []string          `gorm:"serializer:json;type:text" json:"skills,omitempty"`
	Projects     []string          `gorm:"serializer:json;type:text" json:"projects,omitempty"`
	ImageURL     string            `gorm:"size:512" json:"image_url"`
	Links        map[string]string `gorm:"serializer:json;type:text" json:"links,omitempty"`
	Blocked      bool              `gorm:"default:false" json:"blocked"`
	CreatedAt    time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

// HasTopic reports whether the profile lists the given topic.
func (p *Profile) HasTopic(topic string) bool {
	for _, t := range p.Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// Swipe is the ledger row for one actor's decision on a target.
//
// Composite PK: (ActorID, TargetID)
//   - Ensures a single row per ordered pair; re-swipes overwrite
//     (last-write-wins).
//
// Index idx_actor_target_action(actor_id, target_id, action) gives O(1)
// lookups for reciprocity checks.
type Swipe struct {
	ActorID   uint64      `gorm:"primaryKey;index:idx_actor_target_action,priority:1" json:"actor_id"`
	TargetID  uint64      `gorm:"primaryKey;index:idx_actor_target_action,priority:2" json:"target_id"`
	Action    SwipeAction `gorm:"size:8;not null;index:idx_actor_target_action,priority:3" json:"action"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// Match is a mutual-like relationship between exactly two users.
//
// PairKey is the canonical "lo:hi" form of the unordered id pair and
// carries a unique index; the conditional insert on that index is what
// makes match creation idempotent under concurrent double-swipes.
// UserAID < UserBID always.
type Match struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	PairKey   string    `gorm:"uniqueIndex;size:48;not null" json:"-"`
	UserAID   uint64    `gorm:"not null;index" json:"user_a_id"`
	UserBID   uint64    `gorm:"not null;index" json:"user_b_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// HasUser reports whether the match involves the given user.
func (m *Match) HasUser(userID uint64) bool {
	return m.UserAID == userID || m.UserBID == userID
}

// OtherUser returns the counterpart id for userID, or false if userID is
// not part of the match.
func (m *Match) OtherUser(userID uint64) (uint64, bool) {
	switch userID {
	case m.UserAID:
		return m.UserBID, true
	case m.UserBID:
		return m.UserAID, true
	}
	return 0, false
}

// Message is one append-only direct message. PairKey is indexed together
// with CreatedAt so a conversation reads as a single range scan; ties on
// CreatedAt are broken by the autoincrement ID (insertion order).
type Message struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	PairKey    string    `gorm:"size:48;not null;index:idx_pair_created,priority:1" json:"-"`
	SenderID   uint64    `gorm:"not null" json:"sender_id"`
	ReceiverID uint64    `gorm:"not null" json:"receiver_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index:idx_pair_created,priority:2" json:"created_at"`
}
