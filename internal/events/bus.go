// Package events is a small synchronous publish/subscribe channel that the
// editor components are handed explicitly.
package events

// Topic names a kind of event.
type Topic string

const (
	ShapeAdded     Topic = "shape.added"
	ShapeRemoved   Topic = "shape.removed"
	ShapeChanged   Topic = "shape.changed"
	SceneCleared   Topic = "scene.cleared"
	SceneLoaded    Topic = "scene.loaded"
	HistoryChanged Topic = "history.changed"
	LayerChanged   Topic = "layer.changed"
	ViewChanged    Topic = "view.changed"
	ToolChanged    Topic = "tool.changed"
	Redraw         Topic = "redraw"
)

// Event is delivered to subscribers of its topic.
type Event struct {
	Topic   Topic
	Payload any
}

// Handler receives events.
type Handler func(Event)

type subscription struct {
	id      int
	handler Handler
}

// Bus dispatches events synchronously, in subscription order, on the
// publisher's goroutine. A nil *Bus drops everything.
type Bus struct {
	subs   map[Topic][]subscription
	nextID int
}

func NewBus() *Bus {
	return &Bus{subs: map[Topic][]subscription{}}
}

// Subscribe registers h for topic and returns a function that removes it.
func (b *Bus) Subscribe(topic Topic, h Handler) (unsubscribe func()) {
	if b == nil {
		return func() {}
	}
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: h})
	return func() {
		list := b.subs[topic]
		for i, s := range list {
			if s.id == id {
				b.subs[topic] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers an event to the topic's current subscribers.
func (b *Bus) Publish(topic Topic, payload any) {
	if b == nil {
		return
	}
	list := b.subs[topic]
	if len(list) == 0 {
		return
	}
	snapshot := append([]subscription(nil), list...)
	ev := Event{Topic: topic, Payload: payload}
	for _, s := range snapshot {
		s.handler(ev)
	}
}
