package images_test

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oggyb/pinmark/internal/activity"
	"github.com/oggyb/pinmark/internal/api"
	"github.com/oggyb/pinmark/internal/app/apptest"
	"github.com/oggyb/pinmark/internal/service/images"
)

func id(v uint64) string { return strconv.FormatUint(v, 10) }

func setup(t *testing.T) (*images.Service, *apptest.Env) {
	t.Helper()
	env := apptest.New(t)
	return images.NewImageService(env.App), env
}

func TestCreateImage(t *testing.T) {
	svc, env := setup(t)
	alice := env.User(t, "alice")

	resp, err := svc.CreateImage(env.As(alice.ID), &api.CreateImageRequest{
		Title: "Sunset over Åland",
		Url:   "https://example.com/sunset.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "sunset-over-aland", resp.Image.Slug)
	assert.Equal(t, id(alice.ID), resp.Image.OwnerId)

	actions, err := env.App.Feed.Build(context.Background(), alice.ID, 10)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, activity.VerbBookmarked, actions[0].Verb)
	assert.Equal(t, activity.KindImage, actions[0].TargetKind)
	assert.Equal(t, resp.Image.Id, id(actions[0].TargetID))

	_, err = svc.CreateImage(env.As(alice.ID), &api.CreateImageRequest{Title: " ", Url: "https://example.com/x.jpg"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	_, err = svc.CreateImage(env.As(alice.ID), &api.CreateImageRequest{Title: "x"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestCreateImageRejectsBadInput(t *testing.T) {
	svc, env := setup(t)
	alice := env.User(t, "alice")
	ctx := env.As(alice.ID)

	cases := []*api.CreateImageRequest{
		{Title: "a", Url: "not a url"},
		{Title: "a", Url: "https://example.com/page.html"},
		{Title: "a", Url: "javascript:alert(1)"},
		{Title: "a", Url: "https://example.com/"},
		{Title: strings.Repeat("t", 201), Url: "https://example.com/a.png"},
	}
	for _, req := range cases {
		_, err := svc.CreateImage(ctx, req)
		assert.Equal(t, codes.InvalidArgument, status.Code(err), "%+v", req)
	}

	list, err := svc.ListImages(ctx, &api.ListImagesRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Images)

	for _, link := range []string{"http://example.com/a.jpeg", "https://example.com/b.PNG?w=200"} {
		_, err := svc.CreateImage(ctx, &api.CreateImageRequest{Title: strings.Repeat("t", 200), Url: link})
		assert.NoError(t, err, link)
	}
}

func TestDeleteImage(t *testing.T) {
	svc, env := setup(t)
	ctx := context.Background()
	alice := env.User(t, "alice")
	bob := env.User(t, "bob")
	img := env.Image(t, alice.ID, "cat")
	req := &api.GetImageRequest{ImageId: id(img.ID)}

	_, err := env.App.Images.AddLike(ctx, bob.ID, img.ID)
	require.NoError(t, err)

	_, err = svc.DeleteImage(env.As(bob.ID), req)
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = svc.DeleteImage(env.As(alice.ID), req)
	require.NoError(t, err)
	_, err = env.App.Images.Get(ctx, img.ID)
	assert.Error(t, err)

	_, err = svc.DeleteImage(env.As(alice.ID), req)
	assert.Equal(t, codes.NotFound, status.Code(err))
	_, err = svc.DeleteImage(env.As(alice.ID), &api.GetImageRequest{ImageId: "x"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestLikeImage(t *testing.T) {
	svc, env := setup(t)
	ctx := context.Background()
	alice := env.User(t, "alice")
	img := env.Image(t, alice.ID, "cat")
	like := &api.ImageActionRequest{ImageId: id(img.ID), Action: "like"}

	_, err := svc.LikeImage(env.As(alice.ID), like)
	require.NoError(t, err)
	_, err = svc.LikeImage(env.As(alice.ID), like)
	require.NoError(t, err)

	got, err := env.App.Images.Get(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.TotalLikes, "repeat like is idempotent")

	n, err := env.App.Actions.CountByActor(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = svc.LikeImage(env.As(alice.ID), &api.ImageActionRequest{ImageId: id(img.ID), Action: "unlike"})
	require.NoError(t, err)
	got, err = env.App.Images.Get(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.TotalLikes)
}

func TestLikeImageErrors(t *testing.T) {
	svc, env := setup(t)
	alice := env.User(t, "alice")
	ctx := env.As(alice.ID)

	_, err := svc.LikeImage(ctx, &api.ImageActionRequest{ImageId: "404", Action: "like"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = svc.LikeImage(ctx, &api.ImageActionRequest{ImageId: "1"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = svc.LikeImage(ctx, &api.ImageActionRequest{ImageId: "-1", Action: "like"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestBookmarks(t *testing.T) {
	svc, env := setup(t)
	alice := env.User(t, "alice")
	bob := env.User(t, "bob")
	img := env.Image(t, bob.ID, "tree")
	ctx := env.As(alice.ID)

	_, err := svc.BookmarkImage(ctx, &api.ImageActionRequest{ImageId: id(img.ID), Action: "bookmark"})
	require.NoError(t, err)

	saved, err := svc.ListBookmarks(ctx, &api.ListImagesRequest{})
	require.NoError(t, err)
	require.Len(t, saved.Images, 1)
	assert.Equal(t, "tree", saved.Images[0].Title)

	_, err = svc.BookmarkImage(ctx, &api.ImageActionRequest{ImageId: id(img.ID), Action: "unbookmark"})
	require.NoError(t, err)
	saved, err = svc.ListBookmarks(ctx, &api.ListImagesRequest{})
	require.NoError(t, err)
	assert.Empty(t, saved.Images)

	_, err = svc.BookmarkImage(ctx, &api.ImageActionRequest{ImageId: id(img.ID), Action: "pin"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGetImageCountsViews(t *testing.T) {
	svc, env := setup(t)
	alice := env.User(t, "alice")
	img := env.Image(t, alice.ID, "img1")
	req := &api.GetImageRequest{ImageId: id(img.ID)}

	var last *api.ImageResponse
	for i := 0; i < 3; i++ {
		resp, err := svc.GetImage(env.As(alice.ID), req)
		require.NoError(t, err)
		last = resp
	}
	assert.Equal(t, int64(3), last.Image.TotalViews)
	assert.False(t, last.Image.LikedByViewer)
	assert.Empty(t, last.LikedBy)

	_, err := svc.LikeImage(env.As(alice.ID), &api.ImageActionRequest{ImageId: id(img.ID), Action: "like"})
	require.NoError(t, err)
	resp, err := svc.GetImage(env.As(alice.ID), req)
	require.NoError(t, err)
	assert.True(t, resp.Image.LikedByViewer)
	assert.Equal(t, []string{id(alice.ID)}, resp.LikedBy)

	_, err = svc.GetImage(env.As(alice.ID), &api.GetImageRequest{ImageId: "999"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestGetImageCounterDown(t *testing.T) {
	svc, env := setup(t)
	alice := env.User(t, "alice")
	img := env.Image(t, alice.ID, "img1")
	env.Redis.Close()

	resp, err := svc.GetImage(env.As(alice.ID), &api.GetImageRequest{ImageId: id(img.ID)})
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Image.TotalViews)
	assert.Equal(t, "img1", resp.Image.Title)

	ranked, err := svc.Ranking(env.As(alice.ID), &api.RankingRequest{})
	require.NoError(t, err)
	assert.Empty(t, ranked.Images)
}

func TestRanking(t *testing.T) {
	svc, env := setup(t)
	alice := env.User(t, "alice")
	a := env.Image(t, alice.ID, "a")
	b := env.Image(t, alice.ID, "b")
	env.Image(t, alice.ID, "never-viewed")
	ctx := env.As(alice.ID)

	view := func(imageID uint64, n int) {
		for i := 0; i < n; i++ {
			_, err := svc.GetImage(ctx, &api.GetImageRequest{ImageId: id(imageID)})
			require.NoError(t, err)
		}
	}
	view(a.ID, 1)
	view(b.ID, 3)

	ranked, err := svc.Ranking(ctx, &api.RankingRequest{})
	require.NoError(t, err)
	require.Len(t, ranked.Images, 2)
	assert.Equal(t, "b", ranked.Images[0].Title)
	assert.Equal(t, int64(3), ranked.Images[0].TotalViews)
	assert.Equal(t, "a", ranked.Images[1].Title)

	// deleted images drop out while their counter key lingers
	_, err = svc.DeleteImage(ctx, &api.GetImageRequest{ImageId: id(b.ID)})
	require.NoError(t, err)
	ranked, err = svc.Ranking(ctx, &api.RankingRequest{Limit: 5})
	require.NoError(t, err)
	require.Len(t, ranked.Images, 1)
	assert.Equal(t, "a", ranked.Images[0].Title)
}

func TestListImagesPaging(t *testing.T) {
	svc, env := setup(t)
	alice := env.User(t, "alice")
	var lastID uint64
	for i := 1; i <= 10; i++ {
		lastID = env.Image(t, alice.ID, fmt.Sprintf("img%d", i)).ID
	}
	ctx := env.As(alice.ID)

	page1, err := svc.ListImages(ctx, &api.ListImagesRequest{})
	require.NoError(t, err)
	assert.Len(t, page1.Images, 8)
	assert.True(t, page1.HasMore)
	assert.Equal(t, int32(1), page1.Page)
	assert.Equal(t, id(lastID), page1.Images[0].Id)

	page2, err := svc.ListImages(ctx, &api.ListImagesRequest{Page: 2})
	require.NoError(t, err)
	assert.Len(t, page2.Images, 2)
	assert.False(t, page2.HasMore)
}

// TestFollowBookmarkViewScenario: alice follows bob without recording it, bob
// bookmarks img1, alice sees exactly that action and views the image 3 times.
func TestFollowBookmarkViewScenario(t *testing.T) {
	svc, env := setup(t)
	ctx := context.Background()
	alice := env.User(t, "alice")
	bob := env.User(t, "bob")
	_, err := env.App.Graph.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	img, err := svc.CreateImage(env.As(bob.ID), &api.CreateImageRequest{Title: "img1", Url: "https://example.com/img1.jpg"})
	require.NoError(t, err)

	feed, err := env.App.Feed.Build(ctx, alice.ID, 10)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, bob.ID, feed[0].ActorID)
	assert.Equal(t, activity.VerbBookmarked, feed[0].Verb)
	assert.Equal(t, img.Image.Id, id(feed[0].TargetID))

	imageID := feed[0].TargetID
	for i := 0; i < 3; i++ {
		env.App.Views.IncrementView(ctx, imageID)
	}
	assert.Equal(t, int64(3), env.App.Views.ViewCount(ctx, imageID))
}
