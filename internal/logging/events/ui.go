package events

import "github.com/atomicstack/disasm-shell/internal/logging"

type UITracer struct{}

type SearchTracer struct{}

type CommandTracer struct{}

var (
	UI      = UITracer{}
	Search  = SearchTracer{}
	Command = CommandTracer{}
)

func (UITracer) Key(key, mode string) {
	logging.Trace("ui.key", map[string]interface{}{"key": key, "mode": mode})
}

func (UITracer) Resize(width, height int) {
	logging.Trace("ui.resize", map[string]interface{}{"width": width, "height": height})
}

func (UITracer) MinimapClick(x, y int, address string) {
	logging.Trace("ui.minimap.click", map[string]interface{}{"x": x, "y": y, "address": address})
}

func (UITracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("ui.error", map[string]interface{}{"error": err.Error()})
}

func (SearchTracer) Query(query string, matches int) {
	logging.Trace("search.query", map[string]interface{}{"query": query, "matches": matches})
}

func (SearchTracer) Cleared() {
	logging.Trace("search.clear", nil)
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, reason string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "reason": reason})
}

func (CommandTracer) NoOp(id, label string) {
	logging.Trace("command.noop", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label, info string) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "label": label, "info": info})
}

func (CommandTracer) Error(id string, err error) {
	logging.Trace("command.error", map[string]interface{}{"id": id, "error": err.Error()})
}
