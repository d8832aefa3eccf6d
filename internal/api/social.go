package api

import (
	"context"

	"google.golang.org/grpc"
)

const SocialServiceName = "pinmark.social.v1.SocialService"

// FollowRequest toggles the viewer's edge to UserId. Action is "follow" or "unfollow".
type FollowRequest struct {
	UserId string `json:"user_id" validate:"required,number"`
	Action string `json:"action" validate:"required,oneof=follow unfollow"`
}

func (x *FollowRequest) GetUserId() string {
	if x != nil {
		return x.UserId
	}
	return ""
}

func (x *FollowRequest) GetAction() string {
	if x != nil {
		return x.Action
	}
	return ""
}

type FollowResponse struct {
	Status    string `json:"status"`
	Following bool   `json:"following"`
}

type IsFollowingRequest struct {
	UserId string `json:"user_id"`
}

func (x *IsFollowingRequest) GetUserId() string {
	if x != nil {
		return x.UserId
	}
	return ""
}

type IsFollowingResponse struct {
	Following bool `json:"following"`
}

type ListFollowingRequest struct {
	UserId string `json:"user_id"`
}

func (x *ListFollowingRequest) GetUserId() string {
	if x != nil {
		return x.UserId
	}
	return ""
}

type ListFollowingResponse struct {
	UserIds []string `json:"user_ids"`
}

type FeedRequest struct {
	Limit           int32   `json:"limit,omitempty"`
	PaginationToken *string `json:"pagination_token,omitempty"`
}

func (x *FeedRequest) GetLimit() int32 {
	if x != nil {
		return x.Limit
	}
	return 0
}

type TargetRef struct {
	Kind  string `json:"kind"`
	Id    string `json:"id"`
	Label string `json:"label,omitempty"`
	Slug  string `json:"slug,omitempty"`
}

type FeedItem struct {
	Id              string     `json:"id"`
	ActorId         string     `json:"actor_id"`
	ActorUsername   string     `json:"actor_username,omitempty"`
	Verb            string     `json:"verb"`
	Target          *TargetRef `json:"target,omitempty"`
	TargetAvailable bool       `json:"target_available"`
	UnixTimestamp   uint64     `json:"unix_timestamp"`
}

type FeedResponse struct {
	Items               []*FeedItem `json:"items"`
	NextPaginationToken *string     `json:"next_pagination_token,omitempty"`
}

func (x *FeedResponse) GetNextPaginationToken() string {
	if x != nil && x.NextPaginationToken != nil {
		return *x.NextPaginationToken
	}
	return ""
}

// SocialServiceServer is the server API for SocialService.
type SocialServiceServer interface {
	Follow(context.Context, *FollowRequest) (*FollowResponse, error)
	IsFollowing(context.Context, *IsFollowingRequest) (*IsFollowingResponse, error)
	ListFollowing(context.Context, *ListFollowingRequest) (*ListFollowingResponse, error)
	ListFollowers(context.Context, *ListFollowingRequest) (*ListFollowingResponse, error)
	Feed(context.Context, *FeedRequest) (*FeedResponse, error)
}

var SocialService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: SocialServiceName,
	HandlerType: (*SocialServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(SocialServiceName, "Follow", func(srv any, ctx context.Context, in *FollowRequest) (*FollowResponse, error) {
			return srv.(SocialServiceServer).Follow(ctx, in)
		}),
		unary(SocialServiceName, "IsFollowing", func(srv any, ctx context.Context, in *IsFollowingRequest) (*IsFollowingResponse, error) {
			return srv.(SocialServiceServer).IsFollowing(ctx, in)
		}),
		unary(SocialServiceName, "ListFollowing", func(srv any, ctx context.Context, in *ListFollowingRequest) (*ListFollowingResponse, error) {
			return srv.(SocialServiceServer).ListFollowing(ctx, in)
		}),
		unary(SocialServiceName, "ListFollowers", func(srv any, ctx context.Context, in *ListFollowingRequest) (*ListFollowingResponse, error) {
			return srv.(SocialServiceServer).ListFollowers(ctx, in)
		}),
		unary(SocialServiceName, "Feed", func(srv any, ctx context.Context, in *FeedRequest) (*FeedResponse, error) {
			return srv.(SocialServiceServer).Feed(ctx, in)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pinmark/social",
}

func RegisterSocialServiceServer(s grpc.ServiceRegistrar, srv SocialServiceServer) {
	s.RegisterService(&SocialService_ServiceDesc, srv)
}

// SocialServiceClient is the client API for SocialService.
type SocialServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSocialServiceClient(cc grpc.ClientConnInterface) *SocialServiceClient {
	return &SocialServiceClient{cc: cc}
}

func (c *SocialServiceClient) Follow(ctx context.Context, in *FollowRequest, opts ...grpc.CallOption) (*FollowResponse, error) {
	return invoke[FollowResponse](ctx, c.cc, SocialServiceName, "Follow", in, opts...)
}

func (c *SocialServiceClient) IsFollowing(ctx context.Context, in *IsFollowingRequest, opts ...grpc.CallOption) (*IsFollowingResponse, error) {
	return invoke[IsFollowingResponse](ctx, c.cc, SocialServiceName, "IsFollowing", in, opts...)
}

func (c *SocialServiceClient) ListFollowing(ctx context.Context, in *ListFollowingRequest, opts ...grpc.CallOption) (*ListFollowingResponse, error) {
	return invoke[ListFollowingResponse](ctx, c.cc, SocialServiceName, "ListFollowing", in, opts...)
}

func (c *SocialServiceClient) ListFollowers(ctx context.Context, in *ListFollowingRequest, opts ...grpc.CallOption) (*ListFollowingResponse, error) {
	return invoke[ListFollowingResponse](ctx, c.cc, SocialServiceName, "ListFollowers", in, opts...)
}

func (c *SocialServiceClient) Feed(ctx context.Context, in *FeedRequest, opts ...grpc.CallOption) (*FeedResponse, error) {
	return invoke[FeedResponse](ctx, c.cc, SocialServiceName, "Feed", in, opts...)
}
