package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_PublishOrder(t *testing.T) {
	b := NewBus()
	var got []string
	b.Subscribe(ShapeAdded, func(e Event) { got = append(got, "first:"+e.Payload.(string)) })
	b.Subscribe(ShapeAdded, func(e Event) { got = append(got, "second:"+e.Payload.(string)) })
	b.Subscribe(SceneCleared, func(Event) { got = append(got, "cleared") })

	b.Publish(ShapeAdded, "a")
	assert.Equal(t, []string{"first:a", "second:a"}, got)
}

func TestBus_Unsubscribe(t *testing.T) {
	b := NewBus()
	count := 0
	unsub := b.Subscribe(Redraw, func(Event) { count++ })
	other := 0
	b.Subscribe(Redraw, func(Event) { other++ })

	b.Publish(Redraw, nil)
	unsub()
	unsub()
	b.Publish(Redraw, nil)
	assert.Equal(t, 1, count)
	assert.Equal(t, 2, other)
}

func TestBus_UnsubscribeDuringPublish(t *testing.T) {
	b := NewBus()
	calls := 0
	var unsub func()
	unsub = b.Subscribe(ToolChanged, func(Event) {
		calls++
		unsub()
	})
	b.Subscribe(ToolChanged, func(Event) { calls++ })
	b.Publish(ToolChanged, nil)
	assert.Equal(t, 2, calls)
	b.Publish(ToolChanged, nil)
	assert.Equal(t, 3, calls)
}

func TestBus_Nil(t *testing.T) {
	var b *Bus
	assert.NotPanics(t, func() {
		b.Subscribe(Redraw, func(Event) {})()
		b.Publish(Redraw, nil)
	})
}
