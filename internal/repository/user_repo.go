package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/pinmark/internal/db"
)

// UserRepository provides the small slice of user data this service reads.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// Create inserts a user, returning ErrAlreadyExists when username or email is taken.
// The pre-check gives the common case a clean answer; the unique indexes settle
// concurrent registrations.
func (r *UserRepository) Create(ctx context.Context, user *db.User) error {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("username = ? OR email = ?", user.Username, user.Email).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyExists
	}
	return duplicate(r.db.WithContext(ctx).Create(user).Error)
}

// Get returns the user with the given id or ErrNotFound.
func (r *UserRepository) Get(ctx context.Context, id uint64) (*db.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByUsername looks a user up by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*db.User, error) {
	return r.first(ctx, "username = ?", username)
}

// GetByEmail looks a user up by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*db.User, error) {
	return r.first(ctx, "email = ?", email)
}

// GetMany loads users by id. Missing ids are absent from the map.
func (r *UserRepository) GetMany(ctx context.Context, ids []uint64) (map[uint64]db.User, error) {
	out := make(map[uint64]db.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []db.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// ListActive returns active users ordered by username.
func (r *UserRepository) ListActive(ctx context.Context) ([]db.User, error) {
	var users []db.User
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("username").
		Find(&users).Error
	return users, err
}

// Exists reports whether a user row with id exists.
func (r *UserRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// TouchLogin stamps last_login_at.
func (r *UserRepository) TouchLogin(ctx context.Context, id uint64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// UpdateAccount sets the editable account fields of user id and returns the
// updated row. The email must not belong to another user.
func (r *UserRepository) UpdateAccount(ctx context.Context, id uint64, firstName, lastName, email string) (*db.User, error) {
	user, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var taken int64
	err = r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("email = ? AND id <> ?", email, id).
		Count(&taken).Error
	if err != nil {
		return nil, err
	}
	if taken > 0 {
		return nil, ErrAlreadyExists
	}

	err = r.db.WithContext(ctx).
		Model(user).
		Updates(map[string]any{"first_name": firstName, "last_name": lastName, "email": email}).Error
	if err != nil {
		return nil, duplicate(err)
	}
	user.FirstName, user.LastName, user.Email = firstName, lastName, email
	return user, nil
}

// SaveProfile inserts or replaces the profile row of p.UserID.
func (r *UserRepository) SaveProfile(ctx context.Context, p *db.Profile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"date_of_birth", "updated_at"}),
		}).
		Create(p).Error
}

// duplicate maps a unique-index violation to ErrAlreadyExists.
func duplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyExists
	}
	return err
}

func (r *UserRepository) first(ctx context.Context, query string, arg any) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
