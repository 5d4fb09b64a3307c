package tabs

import "github.com/atomicstack/disasm-shell/internal/eventbus"

const (
	TopicOpened    eventbus.Topic = "tabs.opened"
	TopicClosed    eventbus.Topic = "tabs.closed"
	TopicActivated eventbus.Topic = "tabs.activated"
	TopicMoved     eventbus.Topic = "tabs.moved"
)

type Opened struct{ ID ID }

func (Opened) Topic() eventbus.Topic { return TopicOpened }

// Closed reports a removed tab and the tab the bar should select next.
type Closed struct {
	ID        ID
	Next      ID
	WasActive bool
}

func (Closed) Topic() eventbus.Topic { return TopicClosed }

type Activated struct {
	ID         ID
	CommandTab bool
}

func (Activated) Topic() eventbus.Topic { return TopicActivated }

type Moved struct {
	ID    ID
	Index int
}

func (Moved) Topic() eventbus.Topic { return TopicMoved }
