// Package sim provides the simulation host the zoom controller runs in:
// an entity/component world, lifecycle events, and a stepping runner.
//
// The world is a flat store of entities with names, parent links, role
// tags (sensor, link, model, world root), camera components, and per-tick
// change marks:
//
//   - [World]: entity and component storage plus scoped-name helpers
//   - [Events]: connect/emit for lifecycle signals such as render teardown
//   - [Runner]: drives systems through PreUpdate/PostUpdate each step
//
// Systems opt into lifecycle phases by implementing [Configurer],
// [PreUpdater], or [PostUpdater].
//
// # Thread Safety
//
// World and Runner are confined to the stepping goroutine. Events
// handlers run synchronously on the emitter's goroutine; the runner emits
// between ticks, so handlers may touch world state freely.
package sim
