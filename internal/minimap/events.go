package minimap

import "github.com/atomicstack/disasm-shell/internal/eventbus"

const (
	TopicScheduled eventbus.Topic = "minimap.scheduled"
	TopicDisplayed eventbus.Topic = "minimap.displayed"
	TopicDropped   eventbus.Topic = "minimap.dropped"
)

type Scheduled struct {
	JobID   uint64
	Version uint64
}

func (Scheduled) Topic() eventbus.Topic { return TopicScheduled }

type Displayed struct {
	JobID   uint64
	Version uint64
}

func (Displayed) Topic() eventbus.Topic { return TopicDisplayed }

type Dropped struct {
	JobID   uint64
	Version uint64
	Reason  string
}

func (Dropped) Topic() eventbus.Topic { return TopicDropped }
