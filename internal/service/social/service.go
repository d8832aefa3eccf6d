package social

import (
	"context"
	"errors"
	"strconv"

	"github.com/oggyb/pinmark/internal/activity"
	"github.com/oggyb/pinmark/internal/api"
	"github.com/oggyb/pinmark/internal/app"
	"github.com/oggyb/pinmark/internal/db"
	svcErr "github.com/oggyb/pinmark/internal/errors"
	"github.com/oggyb/pinmark/internal/graph"
	"github.com/oggyb/pinmark/internal/identity"
)

// maxFeedLimit bounds a single feed page.
const maxFeedLimit = 100

// Service implements the Social gRPC API: the follow graph and the activity feed.
type Service struct {
	appCtx *app.AppContext
}

// NewSocialService creates a new Social service with dependencies from AppContext.
func NewSocialService(appCtx *app.AppContext) *Service {
	return &Service{appCtx: appCtx}
}

// Follow creates or removes the viewer's edge to another user.
//
// Behavior:
//   - action "follow": adds the edge (idempotent). When the edge is new an
//     "is following" action targeting the followee is recorded.
//   - action "unfollow": removes the edge; missing edges are fine.
//   - Following yourself is InvalidArgument; an unknown followee is NotFound.
//
// Example:
//
//	svc.Follow(ctx, &api.FollowRequest{UserId: "2", Action: "follow"})
func (s *Service) Follow(ctx context.Context, req *api.FollowRequest) (*api.FollowResponse, error) {
	viewerID, err := identity.Require(ctx)
	if err != nil {
		return nil, err
	}
	s.appCtx.Logger.Debug("Follow called", "viewer", viewerID, "user", req.GetUserId(), "action", req.GetAction())

	if err := svcErr.Validate(req); err != nil {
		return nil, err
	}
	userID, err := strconv.ParseUint(req.GetUserId(), 10, 64)
	if err != nil {
		return nil, svcErr.InvalidArgument("user_id must be a valid uint64")
	}

	switch req.GetAction() {
	case "follow":
		if userID == viewerID {
			return nil, svcErr.Map(graph.ErrSelfFollow)
		}
		exists, err := s.appCtx.Users.Exists(ctx, userID)
		if err != nil {
			return nil, svcErr.Map(err)
		}
		if !exists {
			return nil, svcErr.NotFound("user not found")
		}

		created, err := s.appCtx.Graph.Follow(ctx, viewerID, userID)
		if err != nil {
			return nil, svcErr.Map(err)
		}
		if created {
			if _, err := s.appCtx.Recorder.Record(ctx, viewerID, activity.VerbFollowing, activity.UserTarget(userID)); err != nil {
				s.appCtx.Logger.Error("record follow action failed", "err", err)
				return nil, svcErr.Map(err)
			}
		}
		return &api.FollowResponse{Status: "ok", Following: true}, nil

	case "unfollow":
		if _, err := s.appCtx.Graph.Unfollow(ctx, viewerID, userID); err != nil {
			return nil, svcErr.Map(err)
		}
		return &api.FollowResponse{Status: "ok", Following: false}, nil

	default:
		return nil, svcErr.InvalidArgument(`action must be "follow" or "unfollow"`)
	}
}

// IsFollowing reports whether the viewer follows the given user.
func (s *Service) IsFollowing(ctx context.Context, req *api.IsFollowingRequest) (*api.IsFollowingResponse, error) {
	viewerID, err := identity.Require(ctx)
	if err != nil {
		return nil, err
	}
	userID, err := strconv.ParseUint(req.GetUserId(), 10, 64)
	if err != nil {
		return nil, svcErr.InvalidArgument("user_id must be a valid uint64")
	}

	ok, err := s.appCtx.Graph.IsFollowing(ctx, viewerID, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &api.IsFollowingResponse{Following: ok}, nil
}

// ListFollowing returns the ids a user follows. Empty user_id means the viewer.
func (s *Service) ListFollowing(ctx context.Context, req *api.ListFollowingRequest) (*api.ListFollowingResponse, error) {
	userID, err := s.subject(ctx, req.GetUserId())
	if err != nil {
		return nil, err
	}
	ids, err := s.appCtx.Graph.FolloweeIDs(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &api.ListFollowingResponse{UserIds: formatIDs(ids)}, nil
}

// ListFollowers returns the ids following a user, newest first.
func (s *Service) ListFollowers(ctx context.Context, req *api.ListFollowingRequest) (*api.ListFollowingResponse, error) {
	userID, err := s.subject(ctx, req.GetUserId())
	if err != nil {
		return nil, err
	}
	ids, err := s.appCtx.Graph.FollowerIDs(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &api.ListFollowingResponse{UserIds: formatIDs(ids)}, nil
}

// Feed returns the viewer's activity stream.
//
// Behavior:
//   - Scope is everyone the viewer follows plus the viewer.
//   - Ordered newest first, later insert first on equal timestamps.
//   - limit <= 0 uses the configured default; capped at 100.
//   - Targets are resolved for display; a deleted target keeps the item and
//     sets target_available=false.
//
// Example:
//
//	svc.Feed(ctx, &api.FeedRequest{Limit: 10})
func (s *Service) Feed(ctx context.Context, req *api.FeedRequest) (*api.FeedResponse, error) {
	viewerID, err := identity.Require(ctx)
	if err != nil {
		return nil, err
	}
	s.appCtx.Logger.Debug("Feed called", "viewer", viewerID, "limit", req.GetLimit())

	limit := int(req.GetLimit())
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	actions, next, err := s.appCtx.Feed.Page(ctx, viewerID, req.PaginationToken, limit)
	if err != nil {
		s.appCtx.Logger.Error("build feed failed", "viewer", viewerID, "err", err)
		return nil, svcErr.Map(err)
	}

	actorIDs := make([]uint64, 0, len(actions))
	for _, a := range actions {
		actorIDs = append(actorIDs, a.ActorID)
	}
	actors, err := s.appCtx.Users.GetMany(ctx, actorIDs)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	resp := &api.FeedResponse{Items: make([]*api.FeedItem, 0, len(actions))}
	for _, a := range actions {
		resp.Items = append(resp.Items, s.feedItem(ctx, a, actors[a.ActorID].Username))
	}
	if next != nil {
		resp.NextPaginationToken = next
	}

	s.appCtx.Logger.Debug("Feed result", "items", len(resp.Items), "next_token", resp.GetNextPaginationToken())
	return resp, nil
}

func (s *Service) feedItem(ctx context.Context, a db.Action, actorName string) *api.FeedItem {
	item := &api.FeedItem{
		Id:            strconv.FormatUint(a.ID, 10),
		ActorId:       strconv.FormatUint(a.ActorID, 10),
		ActorUsername: actorName,
		Verb:          a.Verb,
		UnixTimestamp: uint64(a.CreatedAt.UnixMilli()),
	}

	target := activity.TargetOf(a)
	if target.IsZero() {
		return item
	}
	item.Target = &api.TargetRef{Kind: target.Kind, Id: strconv.FormatUint(target.ID, 10)}

	entity, err := s.appCtx.Targets.Resolve(ctx, target)
	switch {
	case err == nil:
		item.Target.Label = entity.Label
		item.Target.Slug = entity.Slug
		item.TargetAvailable = true
	case errors.Is(err, activity.ErrTargetUnavailable):
	default:
		s.appCtx.Logger.Warn("resolve feed target failed", "target", target.String(), "err", err)
	}
	return item
}

// subject parses an optional user id, defaulting to the viewer.
func (s *Service) subject(ctx context.Context, raw string) (uint64, error) {
	if raw == "" {
		return identity.Require(ctx)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, svcErr.InvalidArgument("user_id must be a valid uint64")
	}
	return id, nil
}

func formatIDs(ids []uint64) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strconv.FormatUint(id, 10)
	}
	return out
}
