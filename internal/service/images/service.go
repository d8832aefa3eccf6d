package images

import (
	"context"
	"strconv"
	"strings"

	"github.com/oggyb/pinmark/internal/activity"
	"github.com/oggyb/pinmark/internal/api"
	"github.com/oggyb/pinmark/internal/app"
	"github.com/oggyb/pinmark/internal/db"
	svcErr "github.com/oggyb/pinmark/internal/errors"
	"github.com/oggyb/pinmark/internal/identity"
	"github.com/oggyb/pinmark/internal/utils/slug"
)

const (
	pageSize       = 8
	defaultRanking = 10
	maxRanking     = 100
)

// Service implements the Image gRPC API: bookmarking, likes, views and ranking.
//
// View counts come from the best-effort counter store and read as 0 when it is
// unavailable; nothing here fails because Redis is down.
type Service struct {
	appCtx *app.AppContext
}

// NewImageService creates a new Image service with dependencies from AppContext.
func NewImageService(appCtx *app.AppContext) *Service {
	return &Service{appCtx: appCtx}
}

// CreateImage stores an image bookmarked by the viewer and records
// "bookmarked image".
//
// Example:
//
//	svc.CreateImage(ctx, &api.CreateImageRequest{Title: "Sunset", Url: "https://example.com/s.jpg"})
func (s *Service) CreateImage(ctx context.Context, req *api.CreateImageRequest) (*api.ImageResponse, error) {
	viewerID, err := identity.Require(ctx)
	if err != nil {
		return nil, err
	}
	s.appCtx.Logger.Debug("CreateImage called", "viewer", viewerID, "title", req.GetTitle())

	in := *req
	in.Title = strings.TrimSpace(in.Title)
	in.Url = strings.TrimSpace(in.Url)
	in.Slug = strings.TrimSpace(in.Slug)
	if err := svcErr.Validate(&in); err != nil {
		return nil, err
	}
	if in.Slug == "" {
		in.Slug = slug.Make(in.Title)
	}

	image := &db.Image{
		UserID:      viewerID,
		Title:       in.Title,
		Slug:        in.Slug,
		URL:         in.Url,
		Description: in.Description,
	}
	if err := s.appCtx.Images.Create(ctx, image); err != nil {
		s.appCtx.Logger.Error("create image failed", "err", err)
		return nil, svcErr.Map(err)
	}
	if _, err := s.appCtx.Recorder.Record(ctx, viewerID, activity.VerbBookmarked, activity.ImageTarget(image.ID)); err != nil {
		return nil, svcErr.Map(err)
	}

	return &api.ImageResponse{Image: toInfo(*image, 0, false)}, nil
}

// LikeImage adds or removes the viewer's like.
//
// Behavior:
//   - action "like": idempotent add; a new like bumps total_likes and records "likes".
//   - any other non-empty action removes the like (no-op if absent).
//   - Unknown image → NotFound.
func (s *Service) LikeImage(ctx context.Context, req *api.ImageActionRequest) (*api.StatusResponse, error) {
	viewerID, imageID, err := s.parseAction(ctx, req)
	if err != nil {
		return nil, err
	}
	s.appCtx.Logger.Debug("LikeImage called", "viewer", viewerID, "image", imageID, "action", req.GetAction())

	if _, err := s.appCtx.Images.Get(ctx, imageID); err != nil {
		return nil, svcErr.Map(err)
	}

	if req.GetAction() != "like" {
		if _, err := s.appCtx.Images.RemoveLike(ctx, viewerID, imageID); err != nil {
			return nil, svcErr.Map(err)
		}
		return &api.StatusResponse{Status: "ok"}, nil
	}

	added, err := s.appCtx.Images.AddLike(ctx, viewerID, imageID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if added {
		out, err := s.appCtx.Recorder.Record(ctx, viewerID, activity.VerbLikes, activity.ImageTarget(imageID))
		if err != nil {
			return nil, svcErr.Map(err)
		}
		if out.Deduplicated {
			s.appCtx.Logger.Debug("like toggled inside dedup window", "viewer", viewerID, "image", imageID)
		}
	}
	return &api.StatusResponse{Status: "ok"}, nil
}

// BookmarkImage saves ("bookmark") or unsaves ("unbookmark") an image for the viewer.
func (s *Service) BookmarkImage(ctx context.Context, req *api.ImageActionRequest) (*api.StatusResponse, error) {
	viewerID, imageID, err := s.parseAction(ctx, req)
	if err != nil {
		return nil, err
	}

	if _, err := s.appCtx.Images.Get(ctx, imageID); err != nil {
		return nil, svcErr.Map(err)
	}

	switch req.GetAction() {
	case "bookmark":
		added, err := s.appCtx.Images.AddBookmark(ctx, viewerID, imageID)
		if err != nil {
			return nil, svcErr.Map(err)
		}
		if added {
			if _, err := s.appCtx.Recorder.Record(ctx, viewerID, activity.VerbBookmarked, activity.ImageTarget(imageID)); err != nil {
				return nil, svcErr.Map(err)
			}
		}
	case "unbookmark":
		if _, err := s.appCtx.Images.RemoveBookmark(ctx, viewerID, imageID); err != nil {
			return nil, svcErr.Map(err)
		}
	default:
		return nil, svcErr.InvalidArgument(`action must be "bookmark" or "unbookmark"`)
	}
	return &api.StatusResponse{Status: "ok"}, nil
}

// GetImage returns one image and counts the view.
//
// Behavior:
//   - Unknown image → NotFound (no view is counted).
//   - total_views is the post-increment count, or 0 if the counter store is unavailable.
//   - liked_by lists the users who like the image, newest first.
func (s *Service) GetImage(ctx context.Context, req *api.GetImageRequest) (*api.ImageResponse, error) {
	viewerID, imageID, err := s.parseImage(ctx, req)
	if err != nil {
		return nil, err
	}

	image, err := s.appCtx.Images.Get(ctx, imageID)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	views := s.appCtx.Views.IncrementView(ctx, imageID)
	likers, err := s.appCtx.Images.LikerIDs(ctx, imageID)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	liked := false
	likedBy := make([]string, len(likers))
	for i, id := range likers {
		likedBy[i] = strconv.FormatUint(id, 10)
		liked = liked || id == viewerID
	}
	return &api.ImageResponse{Image: toInfo(*image, views, liked), LikedBy: likedBy}, nil
}

// ListImages returns a page of images, newest first, with their view counts.
// Pages are 1-based; anything below 1 is page 1.
func (s *Service) ListImages(ctx context.Context, req *api.ListImagesRequest) (*api.ListImagesResponse, error) {
	if _, err := identity.Require(ctx); err != nil {
		return nil, err
	}
	page := int(req.GetPage())
	if page < 1 {
		page = 1
	}

	images, err := s.appCtx.Images.List(ctx, (page-1)*pageSize, pageSize+1)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	hasMore := len(images) > pageSize
	if hasMore {
		images = images[:pageSize]
	}

	return &api.ListImagesResponse{
		Images:  s.withViews(ctx, images),
		Page:    int32(page),
		HasMore: hasMore,
	}, nil
}

// ListBookmarks returns the images the viewer saved.
func (s *Service) ListBookmarks(ctx context.Context, _ *api.ListImagesRequest) (*api.ListImagesResponse, error) {
	viewerID, err := identity.Require(ctx)
	if err != nil {
		return nil, err
	}
	images, err := s.appCtx.Images.BookmarkedBy(ctx, viewerID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &api.ListImagesResponse{Images: s.withViews(ctx, images)}, nil
}

// Ranking returns the most viewed images in counter-store order.
//
// Behavior:
//   - limit <= 0 means 10; capped at 100.
//   - Ranked ids whose image was deleted are skipped.
//   - Counter store down → empty list, not an error.
func (s *Service) Ranking(ctx context.Context, req *api.RankingRequest) (*api.ListImagesResponse, error) {
	if _, err := identity.Require(ctx); err != nil {
		return nil, err
	}
	limit := int(req.GetLimit())
	if limit <= 0 {
		limit = defaultRanking
	}
	if limit > maxRanking {
		limit = maxRanking
	}

	ids := s.appCtx.Views.TopRanked(ctx, limit)
	byID, err := s.appCtx.Images.GetMany(ctx, ids)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	ranked := make([]db.Image, 0, len(ids))
	for _, id := range ids {
		if img, ok := byID[id]; ok {
			ranked = append(ranked, img)
		}
	}
	return &api.ListImagesResponse{Images: s.withViews(ctx, ranked)}, nil
}

// DeleteImage removes one of the viewer's own images with its likes and
// bookmarks. Feed entries pointing at it stay and show the target as gone.
func (s *Service) DeleteImage(ctx context.Context, req *api.GetImageRequest) (*api.StatusResponse, error) {
	viewerID, imageID, err := s.parseImage(ctx, req)
	if err != nil {
		return nil, err
	}

	image, err := s.appCtx.Images.Get(ctx, imageID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if image.UserID != viewerID {
		return nil, svcErr.PermissionDenied("only the owner can delete an image")
	}
	if err := s.appCtx.Images.Delete(ctx, imageID); err != nil {
		return nil, svcErr.Map(err)
	}

	s.appCtx.Logger.Info("image deleted", "viewer", viewerID, "image", imageID)
	return &api.StatusResponse{Status: "ok"}, nil
}

func (s *Service) parseAction(ctx context.Context, req *api.ImageActionRequest) (uint64, uint64, error) {
	viewerID, err := identity.Require(ctx)
	if err != nil {
		return 0, 0, err
	}
	if err := svcErr.Validate(req); err != nil {
		return 0, 0, err
	}
	imageID, err := parseID(req.GetImageId())
	return viewerID, imageID, err
}

func (s *Service) parseImage(ctx context.Context, req *api.GetImageRequest) (uint64, uint64, error) {
	viewerID, err := identity.Require(ctx)
	if err != nil {
		return 0, 0, err
	}
	if err := svcErr.Validate(req); err != nil {
		return 0, 0, err
	}
	imageID, err := parseID(req.GetImageId())
	return viewerID, imageID, err
}

// parseID catches ids that pass the number tag but overflow uint64.
func parseID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, svcErr.InvalidArgument("image_id must be a valid uint64")
	}
	return id, nil
}

// withViews attaches bulk view counts to a list of images.
func (s *Service) withViews(ctx context.Context, images []db.Image) []*api.ImageInfo {
	ids := make([]uint64, len(images))
	for i, img := range images {
		ids[i] = img.ID
	}
	counts := s.appCtx.Views.ViewCounts(ctx, ids)

	out := make([]*api.ImageInfo, 0, len(images))
	for _, img := range images {
		out = append(out, toInfo(img, counts[img.ID], false))
	}
	return out
}

func toInfo(img db.Image, views int64, liked bool) *api.ImageInfo {
	return &api.ImageInfo{
		Id:            strconv.FormatUint(img.ID, 10),
		OwnerId:       strconv.FormatUint(img.UserID, 10),
		Title:         img.Title,
		Slug:          img.Slug,
		Url:           img.URL,
		Description:   img.Description,
		TotalLikes:    img.TotalLikes,
		TotalViews:    views,
		LikedByViewer: liked,
		UnixTimestamp: uint64(img.CreatedAt.UnixMilli()),
	}
}
