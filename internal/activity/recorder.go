package activity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oggyb/pinmark/internal/db"
	"github.com/oggyb/pinmark/internal/repository"
)

// Verbs recorded by the service.
const (
	VerbLikes          = "likes"
	VerbBookmarked     = "bookmarked image"
	VerbFollowing      = "is following"
	VerbLoggedIn       = "logged in"
	VerbCreatedAccount = "has created an account"
)

// DefaultDedupWindow is how long an identical action suppresses its repeats.
const DefaultDedupWindow = 60 * time.Second

var (
	ErrEmptyVerb = errors.New("verb must not be empty")
	// ErrTargetRequired is returned when a verb that points at something is recorded without a target.
	ErrTargetRequired = errors.New("verb requires a target")
)

var targetedVerbs = map[string]bool{
	VerbLikes:      true,
	VerbBookmarked: true,
	VerbFollowing:  true,
}

// Outcome of a Record call. Deduplicated outcomes carry no Action and left the log unchanged.
type Outcome struct {
	Action       *db.Action
	Deduplicated bool
}

// Recorder appends to the activity log, dropping repeats inside the dedup window.
type Recorder struct {
	actions  *repository.ActionRepository
	registry *Registry
	window   time.Duration
	now      func() time.Time
	log      *slog.Logger
}

type RecorderOption func(*Recorder)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) { r.now = now }
}

func WithWindow(d time.Duration) RecorderOption {
	return func(r *Recorder) {
		if d > 0 {
			r.window = d
		}
	}
}

// WithRegistry enables target kind validation.
func WithRegistry(reg *Registry) RecorderOption {
	return func(r *Recorder) { r.registry = reg }
}

func WithLogger(l *slog.Logger) RecorderOption {
	return func(r *Recorder) { r.log = l }
}

func NewRecorder(actions *repository.ActionRepository, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		actions: actions,
		window:  DefaultDedupWindow,
		now:     time.Now,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record logs actorID doing verb to target at the recorder's current time.
func (r *Recorder) Record(ctx context.Context, actorID uint64, verb string, target Target) (Outcome, error) {
	return r.RecordAt(ctx, actorID, verb, target, r.now())
}

// RecordAt is Record with an explicit timestamp.
//
// Behavior:
//   - If the same (actor, verb, target) was recorded at or after now-window,
//     nothing is written and Outcome.Deduplicated is true.
//   - Otherwise a new action stamped now (UTC, millisecond precision) is inserted.
func (r *Recorder) RecordAt(ctx context.Context, actorID uint64, verb string, target Target, now time.Time) (Outcome, error) {
	if strings.TrimSpace(verb) == "" {
		return Outcome{}, ErrEmptyVerb
	}
	if target.IsZero() && targetedVerbs[verb] {
		return Outcome{}, fmt.Errorf("%w: %q", ErrTargetRequired, verb)
	}
	if !target.IsZero() && r.registry != nil && !r.registry.Known(target.Kind) {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownTargetKind, target.Kind)
	}

	now = now.UTC().Truncate(time.Millisecond)
	action := &db.Action{
		ActorID:    actorID,
		Verb:       verb,
		TargetKind: target.Kind,
		TargetID:   target.ID,
		CreatedAt:  now,
	}

	created, err := r.actions.CreateUnlessRecent(ctx, action, now.Add(-r.window))
	if err != nil {
		return Outcome{}, fmt.Errorf("record action: %w", err)
	}
	if !created {
		r.log.Debug("action deduplicated", "actor", actorID, "verb", verb, "target", target.String())
		return Outcome{Deduplicated: true}, nil
	}
	return Outcome{Action: action}, nil
}
