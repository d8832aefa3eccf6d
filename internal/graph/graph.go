// Package graph holds the directed follow graph between user ids.
//
// User ids are opaque here; the graph never loads or modifies user rows.
package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/oggyb/pinmark/internal/repository"
)

// ErrSelfFollow is returned when a user tries to follow themselves.
var ErrSelfFollow = errors.New("cannot follow yourself")

type Graph struct {
	follows *repository.FollowRepository
}

func New(follows *repository.FollowRepository) *Graph {
	return &Graph{follows: follows}
}

// Follow adds the edge follower -> followee. Following twice is not an error;
// created is false when the edge already existed.
func (g *Graph) Follow(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	if followerID == followeeID {
		return false, ErrSelfFollow
	}
	created, err := g.follows.Create(ctx, followerID, followeeID)
	if err != nil {
		return false, fmt.Errorf("follow %d -> %d: %w", followerID, followeeID, err)
	}
	return created, nil
}

// Unfollow removes the edge if present; removed is false when there was none.
func (g *Graph) Unfollow(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	removed, err := g.follows.Delete(ctx, followerID, followeeID)
	if err != nil {
		return false, fmt.Errorf("unfollow %d -> %d: %w", followerID, followeeID, err)
	}
	return removed, nil
}

func (g *Graph) IsFollowing(ctx context.Context, a, b uint64) (bool, error) {
	return g.follows.Exists(ctx, a, b)
}

// FolloweeIDs returns the set of users userID follows, each id once, in no
// particular order.
func (g *Graph) FolloweeIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	ids, err := g.follows.FolloweeIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("followees of %d: %w", userID, err)
	}
	return ids, nil
}

func (g *Graph) FollowerIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	return g.follows.FollowerIDs(ctx, userID)
}

// Counts returns (followers, following).
func (g *Graph) Counts(ctx context.Context, userID uint64) (int64, int64, error) {
	return g.follows.Counts(ctx, userID)
}
