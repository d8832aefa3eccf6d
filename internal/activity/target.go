package activity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/oggyb/pinmark/internal/db"
	"github.com/oggyb/pinmark/internal/repository"
)

// Target kinds known to the service.
const (
	KindUser  = "user"
	KindImage = "image"
)

var (
	ErrUnknownTargetKind = errors.New("unknown target kind")
	// ErrTargetUnavailable means the referenced entity no longer exists.
	ErrTargetUnavailable = errors.New("target unavailable")
)

// Target is a polymorphic reference: an entity kind plus its id.
// The zero value means "no target".
type Target struct {
	Kind string
	ID   uint64
}

func UserTarget(id uint64) Target  { return Target{Kind: KindUser, ID: id} }
func ImageTarget(id uint64) Target { return Target{Kind: KindImage, ID: id} }

func (t Target) IsZero() bool { return t.Kind == "" && t.ID == 0 }

func (t Target) String() string {
	if t.IsZero() {
		return "none"
	}
	return fmt.Sprintf("%s:%d", t.Kind, t.ID)
}

// TargetOf extracts the target stored on an action row.
func TargetOf(a db.Action) Target {
	return Target{Kind: a.TargetKind, ID: a.TargetID}
}

// Entity is the display summary a target resolves to.
type Entity struct {
	Kind  string
	ID    uint64
	Label string
	Slug  string
}

// LookupFunc resolves one id of a given kind. It should return
// repository.ErrNotFound when the entity is gone.
type LookupFunc func(ctx context.Context, id uint64) (Entity, error)

// Registry maps target kinds to their lookup functions.
type Registry struct {
	mu      sync.RWMutex
	lookups map[string]LookupFunc
}

func NewRegistry() *Registry {
	return &Registry{lookups: make(map[string]LookupFunc)}
}

// Register binds kind to fn, replacing any previous binding.
func (r *Registry) Register(kind string, fn LookupFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups[kind] = fn
}

func (r *Registry) Known(kind string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.lookups[kind]
	return ok
}

// Resolve loads the entity behind t. A deleted entity yields ErrTargetUnavailable.
func (r *Registry) Resolve(ctx context.Context, t Target) (Entity, error) {
	if t.IsZero() {
		return Entity{}, ErrTargetUnavailable
	}
	r.mu.RLock()
	fn, ok := r.lookups[t.Kind]
	r.mu.RUnlock()
	if !ok {
		return Entity{}, fmt.Errorf("%w: %q", ErrUnknownTargetKind, t.Kind)
	}

	e, err := fn(ctx, t.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return Entity{}, ErrTargetUnavailable
	}
	if err != nil {
		return Entity{}, fmt.Errorf("resolve %s: %w", t, err)
	}
	return e, nil
}

// DefaultRegistry wires the user and image kinds to their repositories.
func DefaultRegistry(users *repository.UserRepository, images *repository.ImageRepository) *Registry {
	reg := NewRegistry()
	reg.Register(KindUser, func(ctx context.Context, id uint64) (Entity, error) {
		u, err := users.Get(ctx, id)
		if err != nil {
			return Entity{}, err
		}
		return Entity{Kind: KindUser, ID: u.ID, Label: u.Username, Slug: u.Username}, nil
	})
	reg.Register(KindImage, func(ctx context.Context, id uint64) (Entity, error) {
		img, err := images.Get(ctx, id)
		if err != nil {
			return Entity{}, err
		}
		return Entity{Kind: KindImage, ID: img.ID, Label: img.Title, Slug: img.Slug}, nil
	})
	return reg
}
