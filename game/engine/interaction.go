package engine

// InteractionDetector tracks which object, if any, the player can interact with
type InteractionDetector struct {
	radius int
	active *InteractiveObject
}

// NewInteractionDetector creates a detector with the given Chebyshev radius
func NewInteractionDetector(radius int) *InteractionDetector {
	if radius <= 0 {
		radius = DefaultInteractionRadius
	}
	return &InteractionDetector{radius: radius}
}

// Recompute re-evaluates the active interactable for the current player position
func (d *InteractionDetector) Recompute(w *WorldState) {
	if w == nil || w.Map == nil {
		d.active = nil
		return
	}
	obj, ok := w.FirstObjectWithinRange(w.Player, d.radius)
	if !ok {
		d.active = nil
		return
	}
	d.active = &obj
}

// Active returns the current interactable object
func (d *InteractionDetector) Active() (InteractiveObject, bool) {
	if d.active == nil {
		return InteractiveObject{}, false
	}
	return *d.active, true
}

// Radius returns the detection radius
func (d *InteractionDetector) Radius() int {
	return d.radius
}
