package rendering

import "sync"

// Scene holds the sensors a render engine has created. Sensors are looked
// up by the scoped name the world side captures.
type Scene struct {
	mu          sync.Mutex
	initialized bool
	sensors     map[string]Sensor
}

func NewScene() *Scene {
	return &Scene{sensors: make(map[string]Sensor)}
}

// SetInitialized marks the scene ready for sensor lookup.
func (s *Scene) SetInitialized() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
}

func (s *Scene) IsInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// AddSensor registers a sensor under its own name, replacing any previous
// sensor of that name.
func (s *Scene) AddSensor(sensor Sensor) {
	if sensor == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sensors[sensor.Name()] = sensor
}

// SensorByName returns the named sensor, or nil.
func (s *Scene) SensorByName(name string) Sensor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sensors[name]
}

func (s *Scene) SensorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sensors)
}

// Engine is a loaded render engine owning at most one scene.
type Engine struct {
	mu    sync.Mutex
	scene *Scene
}

func NewEngine() *Engine { return &Engine{} }

func (e *Engine) SetScene(s *Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scene = s
}

func (e *Engine) Scene() *Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scene
}

// Registry tracks loaded render engines. Engines appear some time after
// simulation startup; consumers poll until one exists.
type Registry struct {
	mu      sync.Mutex
	engines []*Engine
}

func NewRegistry() *Registry { return &Registry{} }

// Load adds an engine to the registry.
func (r *Registry) Load(e *Engine) {
	if e == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines = append(r.engines, e)
}

func (r *Registry) EngineCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.engines)
}

// SceneFromFirstEngine returns the first loaded engine's scene, or nil
// when no engine is loaded or the engine has no scene yet.
func (r *Registry) SceneFromFirstEngine() *Scene {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.engines) == 0 {
		return nil
	}
	return r.engines[0].Scene()
}
