package db

import (
	"time"
)

// User table. Identity proper (sessions, OAuth) lives elsewhere; other tables
// only reference ID.
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	FirstName    string `gorm:"size:64"`
	LastName     string `gorm:"size:64"`
	PasswordHash string `gorm:"size:255;not null"`
	Active       bool   `gorm:"default:true"`
	LastLoginAt  time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Profile holds per-user details that are not needed to authenticate.
// The row is created on first edit.
type Profile struct {
	UserID      uint64 `gorm:"primaryKey;autoIncrement:false"`
	DateOfBirth *time.Time
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// Follow is a directed edge: FollowerID follows FolloweeID.
//
// Unique index ux_follow_pair(follower_id, followee_id)
//   - At most one edge per ordered pair; repeated follows are upserts.
//
// Index idx_follow_followee(followee_id)
//   - Follower counts / "who follows me" lookups.
type Follow struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	FollowerID uint64    `gorm:"not null;uniqueIndex:ux_follow_pair,priority:1"`
	FolloweeID uint64    `gorm:"not null;uniqueIndex:ux_follow_pair,priority:2;index:idx_follow_followee"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
}

// Action is one entry of the append-only activity log.
//
// TargetKind/TargetID form a polymorphic reference; the empty kind with id 0
// means "no target".
//
// Indexes:
//   - idx_action_dedup(actor_id, verb, target_kind, target_id, created_at)
//     Serves the recent-duplicate lookup done before every insert.
//   - idx_action_actor_created(actor_id, created_at DESC, id DESC)
//     Serves feed reads scoped to a set of actors.
type Action struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement;index:idx_action_actor_created,priority:3,sort:desc"`
	ActorID    uint64    `gorm:"not null;index:idx_action_dedup,priority:1;index:idx_action_actor_created,priority:1"`
	Verb       string    `gorm:"size:255;not null;index:idx_action_dedup,priority:2"`
	TargetKind string    `gorm:"size:32;not null;default:'';index:idx_action_dedup,priority:3"`
	TargetID   uint64    `gorm:"not null;default:0;index:idx_action_dedup,priority:4"`
	CreatedAt  time.Time `gorm:"not null;index:idx_action_dedup,priority:5;index:idx_action_actor_created,priority:2,sort:desc"`
}

// Image is a content item bookmarked from an external site.
type Image struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	UserID      uint64    `gorm:"not null;index"`
	Title       string    `gorm:"size:200;not null"`
	Slug        string    `gorm:"size:200;index"`
	URL         string    `gorm:"size:2000;not null"`
	Description string    `gorm:"type:text"`
	TotalLikes  int64     `gorm:"not null;default:0;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
}

// ImageLike is the users_like relation. Composite PK keeps it one row per pair.
type ImageLike struct {
	UserID    uint64    `gorm:"primaryKey"`
	ImageID   uint64    `gorm:"primaryKey;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// ImageBookmark is the users_bookmark relation, same shape as ImageLike.
type ImageBookmark struct {
	UserID    uint64    `gorm:"primaryKey"`
	ImageID   uint64    `gorm:"primaryKey;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Models lists every table managed by AutoMigrate.
func Models() []any {
	return []any{&User{}, &Profile{}, &Follow{}, &Action{}, &Image{}, &ImageLike{}, &ImageBookmark{}}
}
