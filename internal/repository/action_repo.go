package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/pinmark/internal/db"
	"github.com/oggyb/pinmark/internal/utils/pagination"
)

// ActionRepository provides data access for the activity log.
type ActionRepository struct {
	db *gorm.DB
}

// NewActionRepository creates a new repository bound to the given DB connection.
func NewActionRepository(database *gorm.DB) *ActionRepository {
	return &ActionRepository{db: database}
}

// CreateUnlessRecent inserts action unless an identical one exists at or after since.
//
// Behavior:
//   - "Identical" means same actor_id, verb (exact, case-sensitive), target_kind and target_id.
//   - Lookup and insert share one transaction; on stores without serializable
//     isolation two concurrent callers may both insert (accepted race).
//   - created reports whether a row was written; action.ID is set when it was.
func (r *ActionRepository) CreateUnlessRecent(
	ctx context.Context,
	action *db.Action,
	since time.Time,
) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// verbs are re-compared here: MySQL's default collation is case-insensitive
		var verbs []string
		err := tx.Model(&db.Action{}).
			Where("actor_id = ? AND verb = ? AND target_kind = ? AND target_id = ?",
				action.ActorID, action.Verb, action.TargetKind, action.TargetID).
			Where("created_at >= ?", since).
			Pluck("verb", &verbs).Error
		if err != nil {
			return err
		}
		for _, v := range verbs {
			if v == action.Verb {
				return nil
			}
		}
		if err := tx.Create(action).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

// ListByActors returns actions by any of actorIDs, newest first.
//
// Behavior:
//   - Ordered by created_at DESC, id DESC (later insert wins ties).
//   - Supports keyset pagination via paginationToken.
//
// Example:
//
//	repo.ListByActors(ctx, []uint64{1, 2}, nil, 10) // first 10 actions by users 1 and 2
func (r *ActionRepository) ListByActors(
	ctx context.Context,
	actorIDs []uint64,
	paginationToken *string,
	limit int,
) ([]db.Action, *string, error) {
	if len(actorIDs) == 0 || limit <= 0 {
		return nil, nil, nil
	}

	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Model(&db.Action{}).
		Where("actor_id IN ?", actorIDs).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	if !cursor.IsZero() {
		ts := time.UnixMilli(cursor.CreatedUnix).UTC()
		query = query.Where(
			"(created_at < ? OR (created_at = ? AND id < ?))",
			ts, ts, cursor.ID,
		)
	}

	var actions []db.Action
	if err := query.Find(&actions).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(actions) > limit {
		last := actions[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			ID:          last.ID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		actions = actions[:limit]
	}

	return actions, nextToken, nil
}

// CountByActor returns how many actions an actor has recorded.
func (r *ActionRepository) CountByActor(ctx context.Context, actorID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Action{}).
		Where("actor_id = ?", actorID).
		Count(&count).Error
	return count, err
}
