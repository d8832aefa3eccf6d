package server_test

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/oggyb/pinmark/internal/activity"
	"github.com/oggyb/pinmark/internal/api"
	"github.com/oggyb/pinmark/internal/app/apptest"
	"github.com/oggyb/pinmark/internal/identity"
	"github.com/oggyb/pinmark/internal/logger"
	"github.com/oggyb/pinmark/internal/server"
	"github.com/oggyb/pinmark/internal/service/accounts"
	"github.com/oggyb/pinmark/internal/service/images"
	"github.com/oggyb/pinmark/internal/service/social"
)

type clients struct {
	accounts *api.AccountServiceClient
	social   *api.SocialServiceClient
	images   *api.ImageServiceClient
	health   healthpb.HealthClient
}

// dial starts the full server over an in-memory listener.
func dial(t *testing.T) clients {
	t.Helper()
	env := apptest.New(t)

	srv := server.NewGRPCServer(logger.Discard(), accounts.PublicMethods,
		accounts.NewRegistrar(env.App),
		social.NewRegistrar(env.App),
		images.NewRegistrar(env.App),
	)
	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return clients{
		accounts: api.NewAccountServiceClient(conn),
		social:   api.NewSocialServiceClient(conn),
		images:   api.NewImageServiceClient(conn),
		health:   healthpb.NewHealthClient(conn),
	}
}

func as(t *testing.T, userID string) context.Context {
	t.Helper()
	return metadata.AppendToOutgoingContext(context.Background(), identity.MetadataKey, userID)
}

func TestEndToEnd(t *testing.T) {
	c := dial(t)
	ctx := context.Background()

	alice, err := c.accounts.Register(ctx, &api.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	bob, err := c.accounts.Register(ctx, &api.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = c.social.Follow(as(t, alice.UserId), &api.FollowRequest{UserId: bob.UserId, Action: "follow"})
	require.NoError(t, err)

	img, err := c.images.CreateImage(as(t, bob.UserId), &api.CreateImageRequest{Title: "img1", Url: "https://example.com/1.jpg"})
	require.NoError(t, err)

	feed, err := c.social.Feed(as(t, alice.UserId), &api.FeedRequest{})
	require.NoError(t, err)
	require.NotEmpty(t, feed.Items)
	top := feed.Items[0]
	assert.Equal(t, bob.UserId, top.ActorId)
	assert.Equal(t, activity.VerbBookmarked, top.Verb)
	require.NotNil(t, top.Target)
	assert.Equal(t, img.Image.Id, top.Target.Id)
	assert.True(t, top.TargetAvailable)

	var views int64
	for i := 0; i < 3; i++ {
		resp, err := c.images.GetImage(as(t, alice.UserId), &api.GetImageRequest{ImageId: img.Image.Id})
		require.NoError(t, err)
		views = resp.Image.TotalViews
	}
	assert.Equal(t, int64(3), views)
}

func TestViewerRequired(t *testing.T) {
	c := dial(t)

	_, err := c.social.Feed(context.Background(), &api.FeedRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = c.social.Feed(as(t, "not-a-number"), &api.FeedRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	// public method passes without metadata and fails on its own validation
	_, err = c.accounts.Login(context.Background(), &api.LoginRequest{Email: "nobody@example.com", Password: "x"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "invalid credentials")
}

func TestHealth(t *testing.T) {
	c := dial(t)

	resp, err := c.health.Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}

func TestRegisteredServices(t *testing.T) {
	env := apptest.New(t)
	srv := server.NewGRPCServer(logger.Discard(), nil,
		accounts.NewRegistrar(env.App),
		social.NewRegistrar(env.App),
		images.NewRegistrar(env.App),
	)

	info := srv.GetServiceInfo()
	for _, name := range []string{api.AccountServiceName, api.SocialServiceName, api.ImageServiceName, healthpb.Health_ServiceDesc.ServiceName} {
		assert.Contains(t, info, name)
	}
	// descriptors are hand-written, so there is nothing for reflection to serve
	assert.Len(t, info, 4)
}
