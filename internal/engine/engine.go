package engine

import (
	"context"
	"log"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"voxworld/internal/agent"
	"voxworld/internal/pathfind"
	"voxworld/internal/profiling"
	"voxworld/internal/world"
)

// ObserverSource supplies the position chunk loading follows. It is sampled
// once per tick.
type ObserverSource interface {
	ObserverPosition() mgl32.Vec3
}

// Engine drives the simulation: one logical tick samples the observer,
// updates the chunk manager, answers one path request, and ticks agents.
// Everything it calls runs on the loop goroutine.
type Engine struct {
	world    *world.ChunkManager
	paths    *pathfind.Queue
	agents   *agent.Manager
	observer ObserverSource

	tickRate   int
	maxTicks   uint64
	statsEvery uint64
	limiter    *TickLimiter
	ticks      uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxTicks makes Run return nil after n ticks. Zero means run until the
// context is canceled.
func WithMaxTicks(n uint64) Option {
	return func(e *Engine) { e.maxTicks = n }
}

// WithStatsEvery logs world and agent counts every n ticks. The log happens
// on the tick goroutine, which is the only place the chunk maps may be read.
func WithStatsEvery(n uint64) Option {
	return func(e *Engine) { e.statsEvery = n }
}

// New wires an engine over its collaborators. The path queue and agent
// manager may be nil for worlds without creatures.
func New(w *world.ChunkManager, paths *pathfind.Queue, agents *agent.Manager, observer ObserverSource, tickRate int, opts ...Option) *Engine {
	if tickRate <= 0 {
		tickRate = 30
	}
	e := &Engine{
		world:    w,
		paths:    paths,
		agents:   agents,
		observer: observer,
		tickRate: tickRate,
		limiter:  NewTickLimiter(tickRate),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Ticks returns how many ticks have run.
func (e *Engine) Ticks() uint64 { return e.ticks }

// Run loops at the configured tick rate until the context is canceled or
// the tick budget runs out. A fixed-timestep accumulator keeps simulation dt
// constant regardless of wall-clock jitter; after a long hitch the backlog
// is capped instead of replayed.
func (e *Engine) Run(ctx context.Context) error {
	dt := 1.0 / float64(e.tickRate)
	last := time.Now()
	var acc float64

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		now := time.Now()
		acc += now.Sub(last).Seconds()
		last = now
		if limit := 5 * dt; acc > limit {
			acc = limit
		}

		for acc >= dt {
			e.Step(float32(dt))
			acc -= dt
			if e.maxTicks > 0 && e.ticks >= e.maxTicks {
				return nil
			}
		}

		e.limiter.Wait()
	}
}

// Step runs one logical tick. Exposed so tests and tools can drive the
// simulation without the wall clock.
func (e *Engine) Step(dt float32) {
	profiling.ResetTick()
	start := time.Now()

	if e.observer != nil {
		e.world.Update(e.observer.ObserverPosition())
	}
	if e.paths != nil {
		e.paths.ProcessOne()
	}
	if e.agents != nil {
		e.agents.Update(dt)
	}
	e.ticks++

	if e.statsEvery > 0 && e.ticks%e.statsEvery == 0 {
		active, queued, cached := e.world.Stats()
		agents := 0
		if e.agents != nil {
			agents = e.agents.Count()
		}
		log.Printf("tick %d: chunks active=%d queued=%d cached=%d, agents=%d",
			e.ticks, active, queued, cached, agents)
	}

	budget := time.Second / time.Duration(e.tickRate)
	if elapsed := time.Since(start); elapsed > budget {
		log.Printf("Slow tick %d: %v. Top tasks: %s", e.ticks, elapsed, profiling.TopN(5))
	}
}
