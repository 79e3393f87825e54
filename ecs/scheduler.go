package ecs

// System updates a world each frame. dt is the frame time in seconds.
type System interface {
	Update(w *World, dt float64)
}

// Enabler is implemented by systems that react to the world being enabled
// or disabled, e.g. to bind and unbind input.
type Enabler interface {
	OnEnable(w *World)
	OnDisable(w *World)
}

type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	copied := append([]System(nil), systems...)
	return &Scheduler{systems: copied}
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) Update(w *World, dt float64) {
	for _, system := range s.systems {
		system.Update(w, dt)
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}

// Enable notifies every Enabler system in update order.
func Enable(w *World) {
	for _, s := range w.Systems() {
		if en, ok := s.(Enabler); ok {
			en.OnEnable(w)
		}
	}
}

// Disable notifies every Enabler system in reverse update order.
func Disable(w *World) {
	systems := w.Systems()
	for i := len(systems) - 1; i >= 0; i-- {
		if en, ok := systems[i].(Enabler); ok {
			en.OnDisable(w)
		}
	}
}
