package view

import (
	"github.com/atomicstack/disasm-shell/internal/eventbus"
	"github.com/atomicstack/disasm-shell/internal/history"
)

const (
	TopicNavigated             eventbus.Topic = "view.navigated"
	TopicRepresentationChanged eventbus.Topic = "view.representation"
)

// Navigated is published for every recorded navigation.
type Navigated struct {
	Title string
	Entry history.Entry
}

func (Navigated) Topic() eventbus.Topic { return TopicNavigated }

type RepresentationChanged struct {
	Title string
	From  Mode
	To    Mode
}

func (RepresentationChanged) Topic() eventbus.Topic { return TopicRepresentationChanged }
