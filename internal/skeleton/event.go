package skeleton

// EventData is the setup state of an event.
type EventData struct {
	Name      string
	Int       int
	Float     float64
	String    string
	AudioPath string
	Volume    float64
	Balance   float64
}

// NewEventData returns event setup data at full volume.
func NewEventData(name string) *EventData {
	return &EventData{Name: name, Volume: 1}
}

// Event is an event keyed in an animation. Its values start as the
// setup values and may be overridden per key.
type Event struct {
	Data    *EventData
	Time    float64
	Int     int
	Float   float64
	String  string
	Volume  float64
	Balance float64
}

// NewEvent returns an event at time with the setup values of data.
func NewEvent(time float64, data *EventData) *Event {
	return &Event{
		Data:    data,
		Time:    time,
		Int:     data.Int,
		Float:   data.Float,
		String:  data.String,
		Volume:  data.Volume,
		Balance: data.Balance,
	}
}
