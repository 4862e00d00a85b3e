package skeleton

// Animation is a named set of timelines.
type Animation struct {
	Name      string
	Timelines []Timeline
	Duration  float64

	ids map[string]struct{}
}

// NewAnimation indexes the timelines' property IDs.
func NewAnimation(name string, timelines []Timeline, duration float64) *Animation {
	a := &Animation{Name: name, Timelines: timelines, Duration: duration, ids: map[string]struct{}{}}
	for _, t := range timelines {
		for _, id := range t.PropertyIDs() {
			a.ids[id] = struct{}{}
		}
	}
	return a
}

// HasTimeline reports whether any timeline keys one of the property IDs.
func (a *Animation) HasTimeline(ids ...string) bool {
	for _, id := range ids {
		if _, ok := a.ids[id]; ok {
			return true
		}
	}
	return false
}
