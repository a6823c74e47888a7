package sim

import "time"

// UpdateInfo carries per-tick timing to systems.
type UpdateInfo struct {
	SimTime   time.Duration
	Dt        time.Duration
	Iteration uint64
	Paused    bool
}

// System is a behavior driven by the Runner. A system participates in the
// lifecycle phases whose interfaces it implements; one implementing none
// of them is inert.
type System interface{}

// Configurer runs once when the system is added, against the entity it is
// attached to. A configure error leaves the system registered but is
// reported to the caller; the system is expected to no-op thereafter.
type Configurer interface {
	Configure(entity Entity, w *World, events *Events) error
}

// PreUpdater runs before state propagation each tick.
type PreUpdater interface {
	PreUpdate(info UpdateInfo, w *World)
}

// PostUpdater runs after state propagation each tick.
type PostUpdater interface {
	PostUpdate(info UpdateInfo, w *World)
}

// Observer is notified after each completed step.
type Observer interface {
	OnStep(info UpdateInfo, w *World)
}
