// Package engine orchestrates casualty computations for a session. It owns
// the current target and weapon state, collapses bursts of marker drags into
// one computation, and discards results of computations that were superseded
// before they finished.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blastmap/engine/internal/casualty"
	"github.com/blastmap/engine/internal/density"
	"github.com/blastmap/engine/internal/influx"
	"github.com/blastmap/engine/internal/model"
	"github.com/blastmap/engine/internal/storage"
)

// ErrNoTarget is returned when a computation is requested before any target
// has been set.
var ErrNoTarget = errors.New("no target set")

// Request is the input state of one computation.
type Request struct {
	Target model.LatLng
	City   string
	Weapon model.WeaponEffects
}

// Result is the outcome of one computation. Token identifies the triggering
// state change; stale results are never published.
type Result struct {
	Token    uint64
	Request  Request
	Data     model.CasualtyData
	Duration time.Duration
	Err      error
}

// Dependencies wires the engine's collaborators.
type Dependencies struct {
	Density   *density.Service
	Estimator *casualty.Estimator
	Zones     model.ZoneTable
	Storage   storage.Backend
	Metrics   *influx.Manager // nil disables metric points
	Logger    *slog.Logger
	Debounce  time.Duration
}

// Engine runs computations for one session.
type Engine struct {
	deps     Dependencies
	onResult func(Result)

	mu        sync.Mutex
	req       Request
	hasTarget bool
	timer     *time.Timer
	closed    bool

	// seq tags every state change; a computation publishes only if it still
	// carries the newest token when it completes.
	seq       atomic.Uint64
	computing atomic.Int32
}

// New creates an engine. onResult receives every non-stale asynchronous
// computation outcome and may be nil when only Compute is used.
func New(deps Dependencies, onResult func(Result)) *Engine {
	if onResult == nil {
		onResult = func(Result) {}
	}
	return &Engine{deps: deps, onResult: onResult}
}

// SetTarget updates the blast center and schedules a debounced computation.
func (e *Engine) SetTarget(lat, lng float64, city string) {
	e.mu.Lock()
	e.req.Target = model.LatLng{Lat: lat, Lng: lng}
	e.req.City = city
	e.hasTarget = true
	e.mu.Unlock()

	e.schedule()
}

// SetWeapon updates the weapon effect radii and schedules a debounced
// computation if a target is already placed.
func (e *Engine) SetWeapon(w model.WeaponEffects) {
	e.mu.Lock()
	e.req.Weapon = w
	hasTarget := e.hasTarget
	e.mu.Unlock()

	if hasTarget {
		e.schedule()
	}
}

// IsComputing reports whether a computation is in flight. The UI renders a
// loading indicator from this.
func (e *Engine) IsComputing() bool {
	return e.computing.Load() > 0
}

// Close cancels any pending debounced computation.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// schedule arms the debounce timer. Every call invalidates earlier tokens
// immediately, so a computation already in flight for an old position can
// no longer publish.
func (e *Engine) schedule() {
	token := e.seq.Add(1)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.deps.Debounce, func() {
		e.mu.Lock()
		req := e.req
		e.mu.Unlock()

		res := e.run(context.Background(), token, req)
		if token != e.seq.Load() {
			// A newer state change superseded this computation while it ran.
			e.deps.Logger.Debug("Discarding stale computation", "token", token, "current", e.seq.Load())
			return
		}
		if res.Err == nil {
			e.record(res)
		}
		e.onResult(res)
	})
}

// Compute runs a computation synchronously for the current state. It claims
// a fresh token so that any in-flight debounced computation becomes stale.
func (e *Engine) Compute(ctx context.Context) (Result, error) {
	e.mu.Lock()
	if !e.hasTarget {
		e.mu.Unlock()
		return Result{}, ErrNoTarget
	}
	req := e.req
	e.mu.Unlock()

	res := e.run(ctx, e.seq.Add(1), req)
	if res.Err == nil {
		e.record(res)
	}
	return res, res.Err
}

func (e *Engine) run(ctx context.Context, token uint64, req Request) Result {
	e.computing.Add(1)
	defer e.computing.Add(-1)

	start := time.Now()
	res := Result{Token: token, Request: req}

	zones, err := req.Weapon.Zones(e.deps.Zones)
	if err != nil {
		res.Err = err
		return res
	}

	popModel := e.deps.Density.Estimate(ctx, req.Target.Lat, req.Target.Lng, req.City)

	var center *model.LatLng
	if popModel.Source.IsGrid() {
		center = &req.Target
	}

	data, err := e.deps.Estimator.Estimate(zones, popModel.Source, center)
	if err != nil {
		res.Err = err
		return res
	}

	res.Data = data
	res.Duration = time.Since(start)
	return res
}

// record persists the scenario and ships the compute metric point. Failures
// here are logged, never surfaced: bookkeeping must not break a computation.
func (e *Engine) record(res Result) {
	if e.deps.Storage != nil {
		scenario := &storage.Scenario{
			Name:       res.Request.City,
			Lat:        res.Request.Target.Lat,
			Lng:        res.Request.Target.Lng,
			City:       res.Request.City,
			ComputedAt: time.Now(),
			DurationMs: res.Duration.Milliseconds(),
			Data:       res.Data,
		}
		if err := e.deps.Storage.RecordScenario(scenario); err != nil {
			e.deps.Logger.Error("Failed to record scenario", "error", err)
		}
	}

	if e.deps.Metrics != nil {
		strategy := "ring-density"
		if res.Data.UsingRealData {
			strategy = "grid-integration"
		}
		point := influx.ComputePoint(
			strategy,
			len(res.Data.Estimates),
			res.Data.Totals.Fatalities,
			res.Data.Totals.Injuries,
			res.Duration,
			time.Now(),
		)
		if err := e.deps.Metrics.WritePoint(point); err != nil {
			e.deps.Logger.Debug("Failed to write compute metric", "error", err)
		}
	}
}
