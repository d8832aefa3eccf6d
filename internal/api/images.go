package api

import (
	"context"

	"google.golang.org/grpc"
)

const ImageServiceName = "pinmark.images.v1.ImageService"

// CreateImageRequest bookmarks an external image. Url must be an http(s)
// link ending in .jpg, .jpeg or .png.
type CreateImageRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Url         string `json:"url" validate:"required,max=2000,url,imageurl"`
	Slug        string `json:"slug,omitempty" validate:"omitempty,max=200"`
	Description string `json:"description,omitempty"`
}

func (x *CreateImageRequest) GetTitle() string {
	if x != nil {
		return x.Title
	}
	return ""
}

func (x *CreateImageRequest) GetUrl() string {
	if x != nil {
		return x.Url
	}
	return ""
}

// ImageActionRequest is used by LikeImage ("like"/"unlike") and
// BookmarkImage ("bookmark"/"unbookmark").
type ImageActionRequest struct {
	ImageId string `json:"image_id" validate:"required,number"`
	Action  string `json:"action" validate:"required"`
}

func (x *ImageActionRequest) GetImageId() string {
	if x != nil {
		return x.ImageId
	}
	return ""
}

func (x *ImageActionRequest) GetAction() string {
	if x != nil {
		return x.Action
	}
	return ""
}

type StatusResponse struct {
	Status string `json:"status"`
}

type GetImageRequest struct {
	ImageId string `json:"image_id" validate:"required,number"`
}

func (x *GetImageRequest) GetImageId() string {
	if x != nil {
		return x.ImageId
	}
	return ""
}

type ImageInfo struct {
	Id            string `json:"id"`
	OwnerId       string `json:"owner_id"`
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Url           string `json:"url"`
	Description   string `json:"description,omitempty"`
	TotalLikes    int64  `json:"total_likes"`
	TotalViews    int64  `json:"total_views"`
	LikedByViewer bool   `json:"liked_by_viewer"`
	UnixTimestamp uint64 `json:"unix_timestamp"`
}

type ImageResponse struct {
	Image   *ImageInfo `json:"image"`
	// LikedBy is only filled by GetImage.
	LikedBy []string   `json:"liked_by,omitempty"`
}

type ListImagesRequest struct {
	Page int32 `json:"page,omitempty"`
}

func (x *ListImagesRequest) GetPage() int32 {
	if x != nil {
		return x.Page
	}
	return 0
}

type RankingRequest struct {
	Limit int32 `json:"limit,omitempty"`
}

func (x *RankingRequest) GetLimit() int32 {
	if x != nil {
		return x.Limit
	}
	return 0
}

type ListImagesResponse struct {
	Images  []*ImageInfo `json:"images"`
	Page    int32        `json:"page,omitempty"`
	HasMore bool         `json:"has_more,omitempty"`
}

// ImageServiceServer is the server API for ImageService.
type ImageServiceServer interface {
	CreateImage(context.Context, *CreateImageRequest) (*ImageResponse, error)
	LikeImage(context.Context, *ImageActionRequest) (*StatusResponse, error)
	BookmarkImage(context.Context, *ImageActionRequest) (*StatusResponse, error)
	GetImage(context.Context, *GetImageRequest) (*ImageResponse, error)
	ListImages(context.Context, *ListImagesRequest) (*ListImagesResponse, error)
	ListBookmarks(context.Context, *ListImagesRequest) (*ListImagesResponse, error)
	Ranking(context.Context, *RankingRequest) (*ListImagesResponse, error)
	DeleteImage(context.Context, *GetImageRequest) (*StatusResponse, error)
}

var ImageService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ImageServiceName,
	HandlerType: (*ImageServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(ImageServiceName, "CreateImage", func(srv any, ctx context.Context, in *CreateImageRequest) (*ImageResponse, error) {
			return srv.(ImageServiceServer).CreateImage(ctx, in)
		}),
		unary(ImageServiceName, "LikeImage", func(srv any, ctx context.Context, in *ImageActionRequest) (*StatusResponse, error) {
			return srv.(ImageServiceServer).LikeImage(ctx, in)
		}),
		unary(ImageServiceName, "BookmarkImage", func(srv any, ctx context.Context, in *ImageActionRequest) (*StatusResponse, error) {
			return srv.(ImageServiceServer).BookmarkImage(ctx, in)
		}),
		unary(ImageServiceName, "GetImage", func(srv any, ctx context.Context, in *GetImageRequest) (*ImageResponse, error) {
			return srv.(ImageServiceServer).GetImage(ctx, in)
		}),
		unary(ImageServiceName, "ListImages", func(srv any, ctx context.Context, in *ListImagesRequest) (*ListImagesResponse, error) {
			return srv.(ImageServiceServer).ListImages(ctx, in)
		}),
		unary(ImageServiceName, "ListBookmarks", func(srv any, ctx context.Context, in *ListImagesRequest) (*ListImagesResponse, error) {
			return srv.(ImageServiceServer).ListBookmarks(ctx, in)
		}),
		unary(ImageServiceName, "Ranking", func(srv any, ctx context.Context, in *RankingRequest) (*ListImagesResponse, error) {
			return srv.(ImageServiceServer).Ranking(ctx, in)
		}),
		unary(ImageServiceName, "DeleteImage", func(srv any, ctx context.Context, in *GetImageRequest) (*StatusResponse, error) {
			return srv.(ImageServiceServer).DeleteImage(ctx, in)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pinmark/images",
}

func RegisterImageServiceServer(s grpc.ServiceRegistrar, srv ImageServiceServer) {
	s.RegisterService(&ImageService_ServiceDesc, srv)
}

// ImageServiceClient is the client API for ImageService.
type ImageServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewImageServiceClient(cc grpc.ClientConnInterface) *ImageServiceClient {
	return &ImageServiceClient{cc: cc}
}

func (c *ImageServiceClient) CreateImage(ctx context.Context, in *CreateImageRequest, opts ...grpc.CallOption) (*ImageResponse, error) {
	return invoke[ImageResponse](ctx, c.cc, ImageServiceName, "CreateImage", in, opts...)
}

func (c *ImageServiceClient) LikeImage(ctx context.Context, in *ImageActionRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, ImageServiceName, "LikeImage", in, opts...)
}

func (c *ImageServiceClient) BookmarkImage(ctx context.Context, in *ImageActionRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, ImageServiceName, "BookmarkImage", in, opts...)
}

func (c *ImageServiceClient) GetImage(ctx context.Context, in *GetImageRequest, opts ...grpc.CallOption) (*ImageResponse, error) {
	return invoke[ImageResponse](ctx, c.cc, ImageServiceName, "GetImage", in, opts...)
}

func (c *ImageServiceClient) ListImages(ctx context.Context, in *ListImagesRequest, opts ...grpc.CallOption) (*ListImagesResponse, error) {
	return invoke[ListImagesResponse](ctx, c.cc, ImageServiceName, "ListImages", in, opts...)
}

func (c *ImageServiceClient) ListBookmarks(ctx context.Context, in *ListImagesRequest, opts ...grpc.CallOption) (*ListImagesResponse, error) {
	return invoke[ListImagesResponse](ctx, c.cc, ImageServiceName, "ListBookmarks", in, opts...)
}

func (c *ImageServiceClient) Ranking(ctx context.Context, in *RankingRequest, opts ...grpc.CallOption) (*ListImagesResponse, error) {
	return invoke[ListImagesResponse](ctx, c.cc, ImageServiceName, "Ranking", in, opts...)
}

func (c *ImageServiceClient) DeleteImage(ctx context.Context, in *GetImageRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, ImageServiceName, "DeleteImage", in, opts...)
}
