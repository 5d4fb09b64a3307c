package events

import "github.com/atomicstack/disasm-shell/internal/logging"

type TabsTracer struct{}

type RouterTracer struct{}

var (
	Tabs   = TabsTracer{}
	Router = RouterTracer{}
)

func (TabsTracer) Open(id, title string, closeable bool) {
	logging.Trace("tabs.open", map[string]interface{}{"tab": id, "title": title, "closeable": closeable})
}

func (TabsTracer) Activate(id string, commandTab bool) {
	logging.Trace("tabs.activate", map[string]interface{}{"tab": id, "command_tab": commandTab})
}

func (TabsTracer) Close(id, next string, wasActive bool) {
	logging.Trace("tabs.close", map[string]interface{}{"tab": id, "next": next, "was_active": wasActive})
}

func (TabsTracer) Move(id string, index int) {
	logging.Trace("tabs.move", map[string]interface{}{"tab": id, "index": index})
}

func (RouterTracer) Refresh(enabled []string) {
	logging.Trace("router.refresh", map[string]interface{}{"enabled": enabled})
}
