// Package apptest wires a full AppContext over in-memory SQLite and miniredis.
package apptest

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/pinmark/internal/app"
	"github.com/oggyb/pinmark/internal/cache"
	"github.com/oggyb/pinmark/internal/config"
	"github.com/oggyb/pinmark/internal/db"
	"github.com/oggyb/pinmark/internal/db/dbtest"
	"github.com/oggyb/pinmark/internal/identity"
	"github.com/oggyb/pinmark/internal/logger"
)

// Start is the initial value of every Env clock.
var Start = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type Env struct {
	App   *app.AppContext
	Redis *miniredis.Miniredis
	now   time.Time
}

// New returns an isolated environment whose clock only moves via Advance.
func New(t *testing.T) *Env {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	cfg.Counter.Timeout = 200 * time.Millisecond
	cfg.Activity.DedupWindow = time.Minute
	cfg.Activity.FeedLimit = 10

	rc := cache.NewRedisCache(cfg)
	t.Cleanup(func() { _ = rc.Close() })

	e := &Env{Redis: mr, now: Start}
	e.App = app.New(cfg, dbtest.New(t), rc, logger.Discard(),
		app.WithClock(func() time.Time { return e.now }))
	return e
}

func (e *Env) Advance(d time.Duration) { e.now = e.now.Add(d) }

// As returns a context authenticated as viewerID.
func (e *Env) As(viewerID uint64) context.Context {
	return identity.WithViewer(context.Background(), viewerID)
}

// User inserts an active user directly.
func (e *Env) User(t *testing.T, name string) db.User {
	t.Helper()
	u := db.User{Username: name, Email: name + "@example.com", PasswordHash: "x", Active: true}
	require.NoError(t, e.App.Users.Create(context.Background(), &u))
	return u
}

// Image inserts an image owned by userID directly, without recording anything.
func (e *Env) Image(t *testing.T, userID uint64, title string) db.Image {
	t.Helper()
	img := db.Image{UserID: userID, Title: title, Slug: title, URL: "https://example.com/" + title + ".jpg"}
	require.NoError(t, e.App.Images.Create(context.Background(), &img))
	return img
}
