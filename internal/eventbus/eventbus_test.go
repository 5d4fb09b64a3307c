package eventbus

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type ping struct{ n int }

func (ping) Topic() Topic { return "ping" }

type pong struct{}

func (pong) Topic() Topic { return "pong" }

func TestPublishOrderAndFiltering(t *testing.T) {
	bus := New()
	var got []string
	bus.Subscribe("ping", func(e Event) { got = append(got, "first") })
	bus.Subscribe("pong", func(e Event) { got = append(got, "pong") })
	bus.Subscribe("ping", func(e Event) { got = append(got, "second") })

	bus.Publish(ping{n: 1})
	if diff := cmp.Diff([]string{"first", "second"}, got); diff != "" {
		t.Fatalf("delivery mismatch (-want +got):\n%s", diff)
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := New()
	calls := 0
	stop := bus.Subscribe("ping", func(Event) { calls++ })
	bus.Publish(ping{})
	stop()
	bus.Publish(ping{})
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestRecorder(t *testing.T) {
	bus := New()
	rec := Record(bus)
	bus.Publish(ping{})
	bus.Publish(pong{})
	if diff := cmp.Diff([]Topic{"ping", "pong"}, rec.Topics()); diff != "" {
		t.Fatalf("topics mismatch:\n%s", diff)
	}
	rec.Reset()
	if len(rec.Events()) != 0 {
		t.Fatalf("reset should clear events")
	}
}

func TestHandlerMaySubscribeDuringPublish(t *testing.T) {
	bus := New()
	nested := 0
	bus.Subscribe("ping", func(Event) {
		bus.Subscribe("ping", func(Event) { nested++ })
	})
	bus.Publish(ping{})
	if nested != 0 {
		t.Fatalf("subscriptions added during publish apply to later events only")
	}
	bus.Publish(ping{})
	if nested != 1 {
		t.Fatalf("expected nested handler on second publish, got %d", nested)
	}
}

func TestNilBusDiscards(t *testing.T) {
	var bus *Bus
	bus.Publish(ping{})
}
