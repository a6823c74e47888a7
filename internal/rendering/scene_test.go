package rendering

import "testing"

func TestSceneSensors(t *testing.T) {
	scene := NewScene()

	if scene.IsInitialized() {
		t.Error("expected fresh scene uninitialized")
	}
	if scene.SensorCount() != 0 {
		t.Errorf("expected empty scene, got %d sensors", scene.SensorCount())
	}

	cam := NewBasicCamera("pitch_link::zoomcam", 2.0)
	scene.AddSensor(cam)
	scene.SetInitialized()

	if !scene.IsInitialized() {
		t.Error("expected scene initialized")
	}
	if scene.SensorCount() != 1 {
		t.Errorf("expected 1 sensor, got %d", scene.SensorCount())
	}
	if got := scene.SensorByName("pitch_link::zoomcam"); got != cam {
		t.Errorf("expected camera handle, got %v", got)
	}
	if got := scene.SensorByName("missing"); got != nil {
		t.Errorf("expected nil for missing sensor, got %v", got)
	}
}

func TestRegistryLazyScene(t *testing.T) {
	reg := NewRegistry()

	if reg.EngineCount() != 0 {
		t.Errorf("expected no engines, got %d", reg.EngineCount())
	}
	if reg.SceneFromFirstEngine() != nil {
		t.Error("expected nil scene with no engines loaded")
	}

	engine := NewEngine()
	reg.Load(engine)
	if reg.EngineCount() != 1 {
		t.Errorf("expected 1 engine, got %d", reg.EngineCount())
	}
	if reg.SceneFromFirstEngine() != nil {
		t.Error("expected nil scene before engine has one")
	}

	scene := NewScene()
	engine.SetScene(scene)
	if got := reg.SceneFromFirstEngine(); got != scene {
		t.Errorf("expected scene from first engine, got %v", got)
	}
}
