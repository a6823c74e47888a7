package sim

import "strings"

// Entity is a handle into the world. The zero value Null is never a live
// entity.
type Entity uint64

const Null Entity = 0

// ChangeState records how a component mutation should be propagated.
type ChangeState int

const (
	NoChange ChangeState = iota
	PeriodicChange
	OneTimeChange
)

// Camera is the lens state component attached to camera sensor entities.
// HorizontalFov is radians; FocalLength is meters.
type Camera struct {
	HorizontalFov float64
	FocalLength   float64
}

// World owns entities and their components.
type World struct {
	next    uint64
	names   map[Entity]string
	parents map[Entity]Entity
	sensors map[Entity]struct{}
	links   map[Entity]struct{}
	models  map[Entity]struct{}
	worlds  map[Entity]struct{}
	cameras map[Entity]*Camera
	changes map[Entity]ChangeState
}

func NewWorld() *World {
	return &World{
		names:   make(map[Entity]string),
		parents: make(map[Entity]Entity),
		sensors: make(map[Entity]struct{}),
		links:   make(map[Entity]struct{}),
		models:  make(map[Entity]struct{}),
		worlds:  make(map[Entity]struct{}),
		cameras: make(map[Entity]*Camera),
		changes: make(map[Entity]ChangeState),
	}
}

// CreateEntity allocates a new entity handle.
func (w *World) CreateEntity() Entity {
	w.next++
	return Entity(w.next)
}

// IsAlive reports whether e was allocated by this world.
func (w *World) IsAlive(e Entity) bool {
	return e != Null && uint64(e) <= w.next
}

func (w *World) SetName(e Entity, name string) { w.names[e] = name }

// Name returns the entity's name and whether one was set.
func (w *World) Name(e Entity) (string, bool) {
	name, ok := w.names[e]
	return name, ok
}

func (w *World) SetParent(e, parent Entity) { w.parents[e] = parent }

// Parent returns the entity's parent and whether one was set.
func (w *World) Parent(e Entity) (Entity, bool) {
	p, ok := w.parents[e]
	return p, ok
}

func (w *World) TagSensor(e Entity) { w.sensors[e] = struct{}{} }
func (w *World) TagLink(e Entity)   { w.links[e] = struct{}{} }
func (w *World) TagModel(e Entity)  { w.models[e] = struct{}{} }
func (w *World) TagWorld(e Entity)  { w.worlds[e] = struct{}{} }

func (w *World) IsSensor(e Entity) bool { _, ok := w.sensors[e]; return ok }
func (w *World) IsLink(e Entity) bool   { _, ok := w.links[e]; return ok }
func (w *World) IsModel(e Entity) bool  { _, ok := w.models[e]; return ok }
func (w *World) IsWorld(e Entity) bool  { _, ok := w.worlds[e]; return ok }

func (w *World) SetCamera(e Entity, c *Camera) { w.cameras[e] = c }

// CameraOf returns the camera component attached to e, or nil.
func (w *World) CameraOf(e Entity) *Camera {
	return w.cameras[e]
}

// WorldEntity returns the world root entity, or Null when none is tagged.
func (w *World) WorldEntity() Entity {
	for e := range w.worlds {
		return e
	}
	return Null
}

// ParentModel resolves the model containing a sensor through its parent
// link. Returns Null when any step of the chain is missing.
func (w *World) ParentModel(sensor Entity) Entity {
	link, ok := w.parents[sensor]
	if !ok || !w.IsLink(link) {
		return Null
	}
	model, ok := w.parents[link]
	if !ok || !w.IsModel(model) {
		return Null
	}
	return model
}

// ScopedName joins the names of e and its ancestors below the world root,
// outermost first.
func (w *World) ScopedName(e Entity, sep string) string {
	var parts []string
	for cur := e; cur != Null && !w.IsWorld(cur); cur = w.parents[cur] {
		if name, ok := w.names[cur]; ok {
			parts = append(parts, name)
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, sep)
}

// RemoveParentScope strips the outermost scope segment from a scoped
// name. Names without the separator are returned unchanged.
func RemoveParentScope(name, sep string) string {
	if i := strings.Index(name, sep); i >= 0 {
		return name[i+len(sep):]
	}
	return name
}

// MarkChanged records that a component on e mutated this tick.
func (w *World) MarkChanged(e Entity, c ChangeState) {
	if c == NoChange {
		return
	}
	w.changes[e] = c
}

// Changed returns the pending change mark for e.
func (w *World) Changed(e Entity) ChangeState {
	return w.changes[e]
}

// TakeChanged drains and returns all pending change marks. The runner's
// observers call this once per tick.
func (w *World) TakeChanged() map[Entity]ChangeState {
	out := w.changes
	w.changes = make(map[Entity]ChangeState)
	return out
}
