package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/pinmark/internal/db"
)

// FollowRepository provides data access for the follow graph.
// Edges are keyed by the ordered pair (follower_id, followee_id).
type FollowRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new repository bound to the given DB connection.
func NewFollowRepository(database *gorm.DB) *FollowRepository {
	return &FollowRepository{db: database}
}

// Create inserts the edge follower -> followee if it is absent.
//
// Behavior:
//   - A concurrent or repeated insert hits ux_follow_pair and is swallowed by
//     ON CONFLICT DO NOTHING, so the call never fails on "already exists".
//   - created reports whether this call inserted the row.
func (r *FollowRepository) Create(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	edge := db.Follow{FollowerID: followerID, FolloweeID: followeeID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "followee_id"}},
			DoNothing: true,
		}).
		Create(&edge)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the edge if present. Missing edges are not an error.
func (r *FollowRepository) Delete(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&db.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Exists reports whether follower follows followee.
func (r *FollowRepository) Exists(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	return count > 0, err
}

// FolloweeIDs returns everyone userID follows. The unique pair index guarantees
// each id appears once.
func (r *FollowRepository) FolloweeIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&db.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("followee_id", &ids).Error
	return ids, err
}

// FollowerIDs returns everyone following userID, newest edge first.
func (r *FollowRepository) FollowerIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&db.Follow{}).
		Where("followee_id = ?", userID).
		Order("created_at DESC, id DESC").
		Pluck("follower_id", &ids).Error
	return ids, err
}

// Counts returns (followers, following) for userID.
func (r *FollowRepository) Counts(ctx context.Context, userID uint64) (int64, int64, error) {
	var followers, following int64
	if err := r.db.WithContext(ctx).
		Model(&db.Follow{}).
		Where("followee_id = ?", userID).
		Count(&followers).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).
		Model(&db.Follow{}).
		Where("follower_id = ?", userID).
		Count(&following).Error; err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}
