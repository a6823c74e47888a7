package sim

import (
	"context"
	"fmt"
	"time"
)

// Runner owns a world and steps registered systems through their
// lifecycle phases at fixed simulated time increments.
type Runner struct {
	world     *World
	events    *Events
	systems   []System
	observers []Observer
	simTime   time.Duration
	iteration uint64
}

func NewRunner(w *World, events *Events) *Runner {
	return &Runner{world: w, events: events}
}

func (r *Runner) World() *World          { return r.world }
func (r *Runner) Events() *Events        { return r.events }
func (r *Runner) SimTime() time.Duration { return r.simTime }
func (r *Runner) Iteration() uint64      { return r.iteration }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// AddSystem registers sys and, when it implements Configurer, runs its
// Configure phase against entity. The system stays registered even when
// Configure fails; the error tells the caller the system will be inert.
func (r *Runner) AddSystem(sys System, entity Entity) error {
	if sys == nil {
		return fmt.Errorf("sim: nil system")
	}
	r.systems = append(r.systems, sys)

	if c, ok := sys.(Configurer); ok {
		if err := c.Configure(entity, r.world, r.events); err != nil {
			return fmt.Errorf("sim: configure system: %w", err)
		}
	}
	return nil
}

// Step advances simulated time by dt and runs one PreUpdate/PostUpdate
// pass over all systems, then notifies observers. dt may be zero.
func (r *Runner) Step(dt time.Duration) {
	r.iteration++
	r.simTime += dt
	info := UpdateInfo{SimTime: r.simTime, Dt: dt, Iteration: r.iteration}

	for _, s := range r.systems {
		if p, ok := s.(PreUpdater); ok {
			p.PreUpdate(info, r.world)
		}
	}
	for _, s := range r.systems {
		if p, ok := s.(PostUpdater); ok {
			p.PostUpdate(info, r.world)
		}
	}
	for _, o := range r.observers {
		o.OnStep(info, r.world)
	}
}

// Run steps the world at fixed dt until duration has elapsed or ctx is
// canceled. Cancellation is checked between ticks; a tick never blocks.
func (r *Runner) Run(ctx context.Context, duration, dt time.Duration) error {
	if dt <= 0 {
		return fmt.Errorf("sim: dt must be positive, got %v", dt)
	}
	if duration < 0 {
		return fmt.Errorf("sim: duration must not be negative, got %v", duration)
	}

	for end := r.simTime + duration; r.simTime < end; {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		r.Step(dt)
	}
	return nil
}
