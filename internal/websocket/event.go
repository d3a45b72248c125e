package websocket

import "encoding/json"

// Event is the wire frame pushed to clients: a named event with positional
// arguments. Structured notification payloads travel as a JSON string
// argument carrying their own notificationType tag.
type Event struct {
	Event string        `json:"event"`
	Args  []interface{} `json:"args"`
}

func NewEvent(name string, args ...interface{}) *Event {
	return &Event{Event: name, Args: args}
}

func (e *Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
