// Package identity carries the authenticated viewer id through a request.
//
// Authentication itself happens upstream; by the time a call reaches this
// service the gateway has put the viewer's id into the x-viewer-id metadata.
package identity

import (
	"context"
	"strconv"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// MetadataKey is the incoming metadata key holding the viewer id.
const MetadataKey = "x-viewer-id"

type viewerKey struct{}

// WithViewer returns a context carrying viewerID.
func WithViewer(ctx context.Context, viewerID uint64) context.Context {
	return context.WithValue(ctx, viewerKey{}, viewerID)
}

// ViewerID returns the viewer stored by WithViewer.
func ViewerID(ctx context.Context) (uint64, bool) {
	id, ok := ctx.Value(viewerKey{}).(uint64)
	return id, ok && id != 0
}

// Require is ViewerID as a gRPC Unauthenticated error.
func Require(ctx context.Context) (uint64, error) {
	id, ok := ViewerID(ctx)
	if !ok {
		return 0, status.Error(codes.Unauthenticated, "viewer identity required")
	}
	return id, nil
}

// OutgoingContext attaches viewerID to a client call.
func OutgoingContext(ctx context.Context, viewerID uint64) context.Context {
	return metadata.AppendToOutgoingContext(ctx, MetadataKey, strconv.FormatUint(viewerID, 10))
}

// UnaryInterceptor moves the viewer id from metadata into the context.
// Methods listed in public may be called anonymously; everything else is
// rejected with Unauthenticated when the id is missing.
func UnaryInterceptor(public ...string) grpc.UnaryServerInterceptor {
	open := make(map[string]bool, len(public))
	for _, m := range public {
		open[m] = true
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		raw := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vals := md.Get(MetadataKey); len(vals) > 0 {
				raw = strings.TrimSpace(vals[0])
			}
		}

		if raw == "" {
			if open[info.FullMethod] {
				return handler(ctx, req)
			}
			return nil, status.Error(codes.Unauthenticated, "missing "+MetadataKey)
		}

		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return nil, status.Error(codes.Unauthenticated, MetadataKey+" must be a valid uint64")
		}
		return handler(WithViewer(ctx, id), req)
	}
}
