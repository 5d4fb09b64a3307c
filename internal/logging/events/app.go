package events

import "github.com/atomicstack/disasm-shell/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Document(source string, version uint64) {
	logging.Trace("app.document", map[string]interface{}{"source": source, "version": version})
}

func (AppTracer) Export(path string, width, height int) {
	logging.Trace("app.export", map[string]interface{}{"path": path, "width": width, "height": height})
}
