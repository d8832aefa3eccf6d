package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/pinmark/internal/db"
)

// ImageRepository provides data access for images and the user<->image
// like/bookmark relations.
type ImageRepository struct {
	db *gorm.DB
}

// NewImageRepository creates a new repository bound to the given DB connection.
func NewImageRepository(database *gorm.DB) *ImageRepository {
	return &ImageRepository{db: database}
}

// Create stores a new image; ID and CreatedAt are filled in on success.
func (r *ImageRepository) Create(ctx context.Context, image *db.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

// Get returns the image with the given id or ErrNotFound.
func (r *ImageRepository) Get(ctx context.Context, id uint64) (*db.Image, error) {
	var image db.Image
	err := r.db.WithContext(ctx).First(&image, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// GetMany loads images by id. Ids without a row are simply absent from the map.
func (r *ImageRepository) GetMany(ctx context.Context, ids []uint64) (map[uint64]db.Image, error) {
	out := make(map[uint64]db.Image, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var images []db.Image
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&images).Error; err != nil {
		return nil, err
	}
	for _, img := range images {
		out[img.ID] = img
	}
	return out, nil
}

// List returns images newest first.
func (r *ImageRepository) List(ctx context.Context, offset, limit int) ([]db.Image, error) {
	var images []db.Image
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&images).Error
	return images, err
}

// Delete removes an image together with its like and bookmark rows.
func (r *ImageRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("image_id = ?", id).Delete(&db.ImageLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("image_id = ?", id).Delete(&db.ImageBookmark{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&db.Image{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// AddLike records that userID likes imageID.
//
// Behavior:
//   - Idempotent: an existing pair is left untouched (ON CONFLICT DO NOTHING).
//   - total_likes is bumped only when a row was actually inserted.
//   - added reports whether this call inserted the pair.
func (r *ImageRepository) AddLike(ctx context.Context, userID, imageID uint64) (bool, error) {
	return r.addRelation(ctx, &db.ImageLike{UserID: userID, ImageID: imageID}, imageID, true)
}

// RemoveLike deletes the pair if present; removing a missing pair is a no-op.
func (r *ImageRepository) RemoveLike(ctx context.Context, userID, imageID uint64) (bool, error) {
	return r.removeRelation(ctx, &db.ImageLike{}, userID, imageID, true)
}

// AddBookmark records that userID saved imageID. Idempotent like AddLike.
func (r *ImageRepository) AddBookmark(ctx context.Context, userID, imageID uint64) (bool, error) {
	return r.addRelation(ctx, &db.ImageBookmark{UserID: userID, ImageID: imageID}, imageID, false)
}

// RemoveBookmark deletes the pair if present.
func (r *ImageRepository) RemoveBookmark(ctx context.Context, userID, imageID uint64) (bool, error) {
	return r.removeRelation(ctx, &db.ImageBookmark{}, userID, imageID, false)
}

// LikerIDs returns the users who like imageID.
func (r *ImageRepository) LikerIDs(ctx context.Context, imageID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&db.ImageLike{}).
		Where("image_id = ?", imageID).
		Order("created_at DESC").
		Pluck("user_id", &ids).Error
	return ids, err
}

// BookmarkedBy returns images saved by userID, most recently saved first.
func (r *ImageRepository) BookmarkedBy(ctx context.Context, userID uint64) ([]db.Image, error) {
	var images []db.Image
	err := r.db.WithContext(ctx).
		Table("images").
		Joins("JOIN image_bookmarks b ON b.image_id = images.id").
		Where("b.user_id = ?", userID).
		Order("b.created_at DESC").
		Select("images.*").
		Find(&images).Error
	return images, err
}

func (r *ImageRepository) addRelation(ctx context.Context, row any, imageID uint64, countLikes bool) (bool, error) {
	added := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
		if res.Error != nil {
			return res.Error
		}
		added = res.RowsAffected > 0
		if added && countLikes {
			return tx.Model(&db.Image{}).
				Where("id = ?", imageID).
				UpdateColumn("total_likes", gorm.Expr("total_likes + 1")).Error
		}
		return nil
	})
	return added, err
}

func (r *ImageRepository) removeRelation(ctx context.Context, model any, userID, imageID uint64, countLikes bool) (bool, error) {
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND image_id = ?", userID, imageID).Delete(model)
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected > 0
		if removed && countLikes {
			return tx.Model(&db.Image{}).
				Where("id = ? AND total_likes > 0", imageID).
				UpdateColumn("total_likes", gorm.Expr("total_likes - 1")).Error
		}
		return nil
	})
	return removed, err
}
