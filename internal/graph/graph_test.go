package graph_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/pinmark/internal/db/dbtest"
	"github.com/oggyb/pinmark/internal/graph"
	"github.com/oggyb/pinmark/internal/repository"
)

func newGraph(t *testing.T) *graph.Graph {
	t.Helper()
	return graph.New(repository.NewFollowRepository(dbtest.New(t)))
}

// TestFollowTwiceLeavesOneEdge covers idempotent follow for several pairs.
func TestFollowTwiceLeavesOneEdge(t *testing.T) {
	ctx := context.Background()
	g := newGraph(t)

	for _, pair := range [][2]uint64{{1, 2}, {2, 1}, {3, 1}} {
		created, err := g.Follow(ctx, pair[0], pair[1])
		require.NoError(t, err)
		assert.True(t, created)

		created, err = g.Follow(ctx, pair[0], pair[1])
		require.NoError(t, err, "second follow must not error")
		assert.False(t, created)

		ids, err := g.FolloweeIDs(ctx, pair[0])
		require.NoError(t, err)
		assert.Equal(t, []uint64{pair[1]}, ids)
	}
}

func TestSelfFollowRejected(t *testing.T) {
	ctx := context.Background()
	g := newGraph(t)

	for _, id := range []uint64{1, 2, 99} {
		_, err := g.Follow(ctx, id, id)
		assert.ErrorIs(t, err, graph.ErrSelfFollow)
	}

	ids, err := g.FolloweeIDs(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestUnfollow(t *testing.T) {
	ctx := context.Background()
	g := newGraph(t)

	removed, err := g.Unfollow(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = g.Follow(ctx, 1, 2)
	require.NoError(t, err)
	ok, err := g.IsFollowing(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	// the edge is directed
	ok, err = g.IsFollowing(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	removed, err = g.Unfollow(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, removed)

	ok, err = g.IsFollowing(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFolloweeSetHasNoDuplicates(t *testing.T) {
	ctx := context.Background()
	g := newGraph(t)

	for _, to := range []uint64{2, 3, 2, 4, 3} {
		_, err := g.Follow(ctx, 1, to)
		require.NoError(t, err)
	}

	ids, err := g.FolloweeIDs(ctx, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{2, 3, 4}, ids)

	followers, following, err := g.Counts(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), followers)
	assert.Equal(t, int64(3), following)
}
