package db

import (
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	applog "github.com/oggyb/pinmark/internal/logger"
)

var seedTables = []string{"actions", "image_bookmarks", "image_likes", "images", "follows", "profiles", "users"}

// SeedTestData resets the database and populates it with a small social graph.
//
// Behavior:
//  1. Clears every table.
//  2. Creates 12 users (password "password") each with an account-created action.
//  3. Each user follows ~4 others and bookmarks 2 images; ~half the images get likes.
//
// Actions are spread over the last few days so feeds have a visible order.
// Compatible with both MySQL and SQLite (AUTO_INCREMENT reset skipped for SQLite).
func SeedTestData(db *gorm.DB) error {
	log := applog.L()
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range seedTables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
		// Reset auto-increment sequences
		switch db.Dialector.Name() {
		case "mysql":
			db.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		case "sqlite":
			db.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table)
		}
	}
	log.Info("cleared existing data")

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	at := func() time.Time {
		return now.Add(-time.Duration(r.Intn(72*60)) * time.Minute)
	}

	// --- Users ---
	users := make([]User, 0, 12)
	for i := 1; i <= 12; i++ {
		user := User{
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hash),
			Active:       true,
			LastLoginAt:  now.Add(-time.Duration(r.Intn(500)) * time.Hour),
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
		users = append(users, user)

		if err := db.Create(&Action{ActorID: user.ID, Verb: "has created an account", CreatedAt: now.Add(-96 * time.Hour)}).Error; err != nil {
			return fmt.Errorf("failed to seed action: %w", err)
		}
	}
	log.Info("seeded users", "count", len(users))

	// --- Follows ---
	follows := 0
	for _, u := range users {
		for j := 0; j < 4; j++ {
			other := users[r.Intn(len(users))]
			if other.ID == u.ID {
				continue
			}
			res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&Follow{FollowerID: u.ID, FolloweeID: other.ID})
			if res.Error != nil {
				return fmt.Errorf("failed to seed follow: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				continue
			}
			follows++
			if err := db.Create(&Action{ActorID: u.ID, Verb: "is following", TargetKind: "user", TargetID: other.ID, CreatedAt: at()}).Error; err != nil {
				return fmt.Errorf("failed to seed action: %w", err)
			}
		}
	}
	log.Info("seeded follows", "count", follows)

	// --- Images ---
	images := make([]Image, 0, len(users)*2)
	for _, u := range users {
		for j := 1; j <= 2; j++ {
			img := Image{
				UserID:      u.ID,
				Title:       fmt.Sprintf("%s picture %d", u.Username, j),
				Slug:        fmt.Sprintf("%s-picture-%d", u.Username, j),
				URL:         fmt.Sprintf("https://picsum.photos/seed/%s-%d/640/480", u.Username, j),
				Description: "seeded image",
			}
			if err := db.Create(&img).Error; err != nil {
				return fmt.Errorf("failed to seed image: %w", err)
			}
			images = append(images, img)
			if err := db.Create(&Action{ActorID: u.ID, Verb: "bookmarked image", TargetKind: "image", TargetID: img.ID, CreatedAt: at()}).Error; err != nil {
				return fmt.Errorf("failed to seed action: %w", err)
			}
		}
	}

	// --- Likes (~50%) ---
	likes := 0
	for _, img := range images {
		if r.Intn(100) >= 50 {
			continue
		}
		liker := users[r.Intn(len(users))]
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&ImageLike{UserID: liker.ID, ImageID: img.ID})
		if res.Error != nil {
			return fmt.Errorf("failed to seed like: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			continue
		}
		likes++
		db.Model(&Image{}).Where("id = ?", img.ID).UpdateColumn("total_likes", gorm.Expr("total_likes + 1"))
		if err := db.Create(&Action{ActorID: liker.ID, Verb: "likes", TargetKind: "image", TargetID: img.ID, CreatedAt: at()}).Error; err != nil {
			return fmt.Errorf("failed to seed action: %w", err)
		}
	}
	log.Info("seeded images", "images", len(images), "likes", likes)

	return nil
}
