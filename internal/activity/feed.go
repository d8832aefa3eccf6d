package activity

import (
	"context"
	"fmt"

	"github.com/oggyb/pinmark/internal/db"
	"github.com/oggyb/pinmark/internal/repository"
)

// DefaultFeedLimit is used when callers pass a non-positive limit.
const DefaultFeedLimit = 10

// FolloweeSource supplies the ids a viewer follows.
type FolloweeSource interface {
	FolloweeIDs(ctx context.Context, userID uint64) ([]uint64, error)
}

// FeedBuilder reads the activity log scoped to a viewer's followees plus the viewer.
type FeedBuilder struct {
	graph   FolloweeSource
	actions *repository.ActionRepository
	limit   int
}

func NewFeedBuilder(graph FolloweeSource, actions *repository.ActionRepository, defaultLimit int) *FeedBuilder {
	if defaultLimit <= 0 {
		defaultLimit = DefaultFeedLimit
	}
	return &FeedBuilder{graph: graph, actions: actions, limit: defaultLimit}
}

// Build returns at most limit actions from the viewer's scope, newest first.
func (b *FeedBuilder) Build(ctx context.Context, viewerID uint64, limit int) ([]db.Action, error) {
	actions, _, err := b.Page(ctx, viewerID, nil, limit)
	return actions, err
}

// Page is Build with keyset pagination; next is nil on the last page.
func (b *FeedBuilder) Page(ctx context.Context, viewerID uint64, token *string, limit int) ([]db.Action, *string, error) {
	if limit <= 0 {
		limit = b.limit
	}
	scope, err := b.Scope(ctx, viewerID)
	if err != nil {
		return nil, nil, err
	}
	actions, next, err := b.actions.ListByActors(ctx, scope, token, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("feed for %d: %w", viewerID, err)
	}
	return actions, next, nil
}

// Scope is followees ∪ {viewer}; it always contains the viewer.
func (b *FeedBuilder) Scope(ctx context.Context, viewerID uint64) ([]uint64, error) {
	followees, err := b.graph.FolloweeIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	scope := make([]uint64, 0, len(followees)+1)
	scope = append(scope, viewerID)
	for _, id := range followees {
		if id != viewerID {
			scope = append(scope, id)
		}
	}
	return scope, nil
}
