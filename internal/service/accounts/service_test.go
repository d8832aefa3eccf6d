package accounts_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oggyb/pinmark/internal/activity"
	"github.com/oggyb/pinmark/internal/api"
	"github.com/oggyb/pinmark/internal/app/apptest"
	"github.com/oggyb/pinmark/internal/service/accounts"
)

func setup(t *testing.T) (*accounts.Service, *apptest.Env) {
	t.Helper()
	env := apptest.New(t)
	return accounts.NewAccountService(env.App), env
}

func register(t *testing.T, svc *accounts.Service, name string) *api.AccountResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), &api.RegisterRequest{
		Username: name,
		Email:    name + "@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	return resp
}

func TestRegister(t *testing.T) {
	svc, env := setup(t)

	resp := register(t, svc, "alice")
	assert.NotEmpty(t, resp.UserId)
	assert.Equal(t, "alice", resp.Username)

	user, err := env.App.Users.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	actions, err := env.App.Feed.Build(context.Background(), user.ID, 10)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, activity.VerbCreatedAccount, actions[0].Verb)
	assert.Empty(t, actions[0].TargetKind)

	_, err = svc.Register(context.Background(), &api.RegisterRequest{Username: "alice", Email: "other@example.com", Password: "secret123"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	cases := []*api.RegisterRequest{
		{Username: "", Email: "a@example.com", Password: "secret123"},
		{Username: "a", Email: "not-an-email", Password: "secret123"},
		{Username: "a", Email: "a@example.com", Password: "short"},
		{Username: "  ", Email: "a@example.com", Password: "secret123"},
		{Username: strings.Repeat("a", 65), Email: "a@example.com", Password: "secret123"},
		{Username: "a", Email: "a@example.com", Password: strings.Repeat("p", 73)},
	}
	for _, req := range cases {
		_, err := svc.Register(ctx, req)
		assert.Equal(t, codes.InvalidArgument, status.Code(err), "%+v", req)
	}
}

func TestLogin(t *testing.T) {
	svc, env := setup(t)
	ctx := context.Background()
	reg := register(t, svc, "alice")

	resp, err := svc.Login(ctx, &api.LoginRequest{Email: "Alice@Example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, reg.UserId, resp.UserId)

	_, err = svc.Login(ctx, &api.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	_, err = svc.Login(ctx, &api.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	user, err := env.App.Users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	actions, err := env.App.Feed.Build(ctx, user.ID, 10)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, activity.VerbLoggedIn, actions[0].Verb)
}

func TestLoginByUsername(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	reg := register(t, svc, "alice")

	resp, err := svc.Login(ctx, &api.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, reg.UserId, resp.UserId)

	// an address typed into the username field falls back to the email lookup
	resp, err = svc.Login(ctx, &api.LoginRequest{Username: "Alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, reg.UserId, resp.UserId)

	_, err = svc.Login(ctx, &api.LoginRequest{Username: "alice", Password: "wrong"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	_, err = svc.Login(ctx, &api.LoginRequest{Password: "secret123"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	_, err = svc.Login(ctx, &api.LoginRequest{Username: "alice"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestUpdateAccount(t *testing.T) {
	svc, env := setup(t)
	ctx := context.Background()
	alice := env.User(t, "alice")
	env.User(t, "bob")

	resp, err := svc.UpdateAccount(env.As(alice.ID), &api.UpdateAccountRequest{
		FirstName:   " Alice ",
		LastName:    "Liddell",
		Email:       "Alice.L@Example.com",
		DateOfBirth: "1990-05-04",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "Alice", resp.FirstName)
	assert.Equal(t, "alice.l@example.com", resp.Email)
	assert.Equal(t, "1990-05-04", resp.DateOfBirth)

	got, err := env.App.Users.GetByEmail(ctx, "alice.l@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, "Liddell", got.LastName)

	// keeping your own email is fine, clearing the date is allowed
	resp, err = svc.UpdateAccount(env.As(alice.ID), &api.UpdateAccountRequest{Email: "alice.l@example.com"})
	require.NoError(t, err)
	assert.Empty(t, resp.DateOfBirth)
	assert.Empty(t, resp.FirstName)

	_, err = svc.UpdateAccount(env.As(alice.ID), &api.UpdateAccountRequest{Email: "bob@example.com"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	for _, req := range []*api.UpdateAccountRequest{
		{Email: "nope"},
		{Email: "a@example.com", DateOfBirth: "04/05/1990"},
		{Email: "a@example.com", FirstName: strings.Repeat("x", 65)},
	} {
		_, err = svc.UpdateAccount(env.As(alice.ID), req)
		assert.Equal(t, codes.InvalidArgument, status.Code(err), "%+v", req)
	}

	_, err = svc.UpdateAccount(ctx, &api.UpdateAccountRequest{Email: "a@example.com"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	_, err = svc.UpdateAccount(env.As(999), &api.UpdateAccountRequest{Email: "ghost@example.com"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestGetUser(t *testing.T) {
	svc, env := setup(t)
	ctx := context.Background()
	alice := env.User(t, "alice")
	bob := env.User(t, "bob")
	_, err := env.App.Graph.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	resp, err := svc.GetUser(env.As(alice.ID), &api.GetUserRequest{Username: "bob"})
	require.NoError(t, err)
	assert.Equal(t, "bob", resp.User.Username)
	assert.Equal(t, int64(1), resp.Followers)
	assert.Equal(t, int64(0), resp.Following)
	assert.True(t, resp.IsFollowing)
	assert.Zero(t, resp.Actions)

	resp, err = svc.GetUser(env.As(bob.ID), &api.GetUserRequest{Username: "alice"})
	require.NoError(t, err)
	assert.False(t, resp.IsFollowing)
	assert.Equal(t, int64(1), resp.Following)

	_, err = svc.GetUser(env.As(alice.ID), &api.GetUserRequest{Username: "nobody"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestListUsers(t *testing.T) {
	svc, env := setup(t)
	env.User(t, "carol")
	env.User(t, "alice")

	resp, err := svc.ListUsers(env.As(1), &api.ListUsersRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Users, 2)
	assert.Equal(t, "alice", resp.Users[0].Username)
	assert.Equal(t, "carol", resp.Users[1].Username)
}
