package sim

// Rig is the world-graph skeleton a camera sensor hangs from: a world
// root containing a model, a link, and the sensor itself.
type Rig struct {
	World  Entity
	Model  Entity
	Link   Entity
	Sensor Entity
}

// NewRig builds the entity chain with names, role tags, and parent links,
// and attaches cam to the sensor entity.
func NewRig(w *World, modelName, linkName, sensorName string, cam Camera) Rig {
	world := w.CreateEntity()
	w.TagWorld(world)
	w.SetName(world, "default")

	model := w.CreateEntity()
	w.TagModel(model)
	w.SetName(model, modelName)
	w.SetParent(model, world)

	link := w.CreateEntity()
	w.TagLink(link)
	w.SetName(link, linkName)
	w.SetParent(link, model)

	sensor := w.CreateEntity()
	w.TagSensor(sensor)
	w.SetName(sensor, sensorName)
	w.SetParent(sensor, link)
	w.SetCamera(sensor, &cam)

	return Rig{World: world, Model: model, Link: link, Sensor: sensor}
}
