package app

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/pinmark/internal/activity"
	"github.com/oggyb/pinmark/internal/cache"
	"github.com/oggyb/pinmark/internal/config"
	"github.com/oggyb/pinmark/internal/counter"
	"github.com/oggyb/pinmark/internal/graph"
	"github.com/oggyb/pinmark/internal/repository"
)

// AppContext holds shared dependencies (DB, Redis, Logger, etc.) and the
// domain components built on top of them.
type AppContext struct {
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger

	Users   *repository.UserRepository
	Images  *repository.ImageRepository
	Actions *repository.ActionRepository

	Graph    *graph.Graph
	Targets  *activity.Registry
	Recorder *activity.Recorder
	Feed     *activity.FeedBuilder
	Views    *counter.Views
}

// Option tweaks AppContext construction; mostly used by tests.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the clock used to stamp actions.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates a new AppContext
func New(cfg *config.Config, db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger, opts ...Option) *AppContext {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	users := repository.NewUserRepository(db)
	images := repository.NewImageRepository(db)
	actions := repository.NewActionRepository(db)
	g := graph.New(repository.NewFollowRepository(db))
	targets := activity.DefaultRegistry(users, images)

	return &AppContext{
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,

		Users:   users,
		Images:  images,
		Actions: actions,

		Graph:   g,
		Targets: targets,
		Recorder: activity.NewRecorder(actions,
			activity.WithClock(o.now),
			activity.WithWindow(cfg.Activity.DedupWindow),
			activity.WithRegistry(targets),
			activity.WithLogger(logger),
		),
		Feed:  activity.NewFeedBuilder(g, actions, cfg.Activity.FeedLimit),
		Views: counter.New(rdb, counter.SettingsFromConfig(cfg), logger),
	}
}
