package scenario

import (
	"sort"
	"time"

	"github.com/dirksavage88/camzoom/internal/diag"
	"github.com/dirksavage88/camzoom/internal/rendering"
	"github.com/dirksavage88/camzoom/internal/sim"
	"github.com/dirksavage88/camzoom/internal/transport"
)

// Action is one timed scenario step: publish a zoom factor, or tear
// rendering down.
type Action struct {
	At       time.Duration
	Zoom     float64
	Teardown bool
}

// Player drives a scenario from inside the tick loop. It loads the
// render engine once its ready time passes, publishes zoom commands and
// teardown events as their times come due, and evaluates the zoom script
// at its own cadence. It must be added to the runner before the
// controller so a command published at time t is seen by the
// controller's tick at time t.
type Player struct {
	node     *transport.Node
	events   *sim.Events
	registry *rendering.Registry
	engine   *rendering.Engine
	topic    string

	readyAt time.Duration
	loaded  bool

	actions []Action
	next    int

	script   *Script
	every    time.Duration
	nextEval time.Duration
	warned   bool
}

func NewPlayer(node *transport.Node, events *sim.Events, registry *rendering.Registry, engine *rendering.Engine, readyAt time.Duration) *Player {
	return &Player{
		node:     node,
		events:   events,
		registry: registry,
		engine:   engine,
		readyAt:  readyAt,
	}
}

// SetActions installs the timed actions, ordered by their due time.
func (p *Player) SetActions(actions []Action) {
	p.actions = append([]Action(nil), actions...)
	sort.SliceStable(p.actions, func(i, j int) bool {
		return p.actions[i].At < p.actions[j].At
	})
	p.next = 0
}

// SetScript installs a zoom script evaluated every period of simulated
// time. A zero period evaluates it on every tick; a nil script clears
// the previous one.
func (p *Player) SetScript(s *Script, every time.Duration) {
	p.script = s
	p.every = every
	p.nextEval = 0
	p.warned = false
}

// Done reports whether every timed action has fired.
func (p *Player) Done() bool { return p.next >= len(p.actions) }

// LoadNow loads the render engine immediately instead of waiting for
// the configured ready time.
func (p *Player) LoadNow() {
	if p.loaded || p.engine == nil {
		return
	}
	p.registry.Load(p.engine)
	p.loaded = true
}

// SkipElapsed advances past actions due at or before now, so a schedule
// installed mid-run does not replay its history.
func (p *Player) SkipElapsed(now time.Duration) {
	for p.next < len(p.actions) && p.actions[p.next].At <= now {
		p.next++
	}
}

func (p *Player) PreUpdate(info sim.UpdateInfo, w *sim.World) {
	if !p.loaded && p.engine != nil && info.SimTime >= p.readyAt {
		p.registry.Load(p.engine)
		p.loaded = true
	}

	if p.script != nil && info.SimTime >= p.nextEval {
		value, err := p.script.Eval(info.SimTime.Seconds())
		if err != nil {
			if !p.warned {
				diag.Warnf("zoom script failed: %v", err)
				p.warned = true
			}
		} else {
			p.node.Publish(p.topic, value)
		}
		if p.every > 0 {
			p.nextEval = info.SimTime + p.every
		}
	}

	for p.next < len(p.actions) && p.actions[p.next].At <= info.SimTime {
		act := p.actions[p.next]
		p.next++
		if act.Teardown {
			p.events.Emit(sim.EventRenderTeardown)
			continue
		}
		p.node.Publish(p.topic, act.Zoom)
	}
}
