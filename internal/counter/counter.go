// Package counter is the best-effort view counter and ranking.
//
// Nothing here returns an error: the counter store is not the system of record,
// so any failure (timeout, refused connection, open breaker) degrades to zero
// values and a warning log line.
package counter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/oggyb/pinmark/internal/config"
)

var (
	// errUnavailable wraps every store failure before it is swallowed.
	errUnavailable = errors.New("counter store unavailable")

	// errCallerGone marks calls whose caller context ended first; the breaker
	// does not count them against the store.
	errCallerGone = errors.New("caller context done")
)

// Store is the subset of Redis the counters rely on.
type Store interface {
	IncrView(ctx context.Context, imageID uint64) (int64, error)
	GetViews(ctx context.Context, imageID uint64) (int64, error)
	GetViewsBulk(ctx context.Context, imageIDs []uint64) (map[uint64]int64, error)
	TopRanked(ctx context.Context, n int) ([]uint64, error)
}

// Settings tune timeouts and the circuit breaker.
type Settings struct {
	Timeout         time.Duration
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// SettingsFromConfig pulls the counter section out of the app config.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Timeout:         cfg.Counter.Timeout,
		BreakerFailures: cfg.Counter.BreakerFailures,
		BreakerCooldown: cfg.Counter.BreakerCooldown,
	}
}

type Views struct {
	store   Store
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[any]
	log     *slog.Logger
}

func New(store Store, s Settings, log *slog.Logger) *Views {
	if s.Timeout <= 0 {
		s.Timeout = 100 * time.Millisecond
	}
	if s.BreakerFailures == 0 {
		s.BreakerFailures = 5
	}
	if log == nil {
		log = slog.Default()
	}

	v := &Views{store: store, timeout: s.Timeout, log: log}
	v.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "view-counter",
		MaxRequests: 1,
		Timeout:     s.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errCallerGone)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("counter breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return v
}

// IncrementView adds one view to imageID and its ranking score, returning the
// new count or 0 when the store is unreachable.
func (v *Views) IncrementView(ctx context.Context, imageID uint64) int64 {
	res, err := v.call(ctx, "incr", func(ctx context.Context) (any, error) {
		return v.store.IncrView(ctx, imageID)
	})
	if err != nil {
		v.degraded("incr", err, "image_id", imageID)
		return 0
	}
	return res.(int64)
}

// ViewCount returns the stored count, 0 when missing or unreachable.
func (v *Views) ViewCount(ctx context.Context, imageID uint64) int64 {
	res, err := v.call(ctx, "get", func(ctx context.Context) (any, error) {
		return v.store.GetViews(ctx, imageID)
	})
	if err != nil {
		v.degraded("get", err, "image_id", imageID)
		return 0
	}
	return res.(int64)
}

// ViewCounts returns a count for every requested id. Ids the store did not
// answer for are 0; a failed batch is all zeros.
func (v *Views) ViewCounts(ctx context.Context, imageIDs []uint64) map[uint64]int64 {
	out := make(map[uint64]int64, len(imageIDs))
	for _, id := range imageIDs {
		out[id] = 0
	}
	if len(imageIDs) == 0 {
		return out
	}

	res, err := v.call(ctx, "mget", func(ctx context.Context) (any, error) {
		return v.store.GetViewsBulk(ctx, imageIDs)
	})
	if err != nil {
		v.degraded("mget", err, "ids", len(imageIDs))
		return out
	}
	for id, n := range res.(map[uint64]int64) {
		if _, asked := out[id]; asked {
			out[id] = n
		}
	}
	return out
}

// TopRanked returns up to n image ids, most viewed first. Equal scores come
// back in whatever order the store picks. Unreachable store -> empty slice.
func (v *Views) TopRanked(ctx context.Context, n int) []uint64 {
	if n <= 0 {
		return []uint64{}
	}
	res, err := v.call(ctx, "top", func(ctx context.Context) (any, error) {
		return v.store.TopRanked(ctx, n)
	})
	if err != nil {
		v.degraded("top", err, "n", n)
		return []uint64{}
	}
	ids := res.([]uint64)
	if ids == nil {
		ids = []uint64{}
	}
	return ids
}

// BreakerState reports the breaker state ("closed", "open", "half-open").
func (v *Views) BreakerState() string {
	return v.breaker.State().String()
}

// call runs fn once under the breaker with a per-call deadline. A caller that
// already gave up never reaches the store, and one that gives up mid-call is
// not held against it.
func (v *Views) call(ctx context.Context, op string, fn func(context.Context) (any, error)) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errCallerGone, op, err)
	}
	res, err := v.breaker.Execute(func() (any, error) {
		cctx, cancel := context.WithTimeout(ctx, v.timeout)
		defer cancel()
		res, err := fn(cctx)
		if err != nil && ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", errCallerGone, ctx.Err())
		}
		return res, err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errUnavailable, op, err)
	}
	return res, nil
}

func (v *Views) degraded(op string, err error, args ...any) {
	v.log.Warn("view counter degraded", append([]any{"op", op, "breaker", v.BreakerState(), "err", err}, args...)...)
}
