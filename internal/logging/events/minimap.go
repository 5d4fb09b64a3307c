package events

import "github.com/atomicstack/disasm-shell/internal/logging"

type MinimapTracer struct{}

type BackendTracer struct{}

type BusTracer struct{}

var (
	Minimap = MinimapTracer{}
	Backend = BackendTracer{}
	Bus     = BusTracer{}
)

func (MinimapTracer) Schedule(job, version uint64, width, height int) {
	logging.Trace("minimap.schedule", map[string]interface{}{"job": job, "version": version, "width": width, "height": height})
}

func (MinimapTracer) Cancel(job, version uint64) {
	logging.Trace("minimap.cancel", map[string]interface{}{"job": job, "version": version})
}

func (MinimapTracer) Complete(job, version uint64) {
	logging.Trace("minimap.complete", map[string]interface{}{"job": job, "version": version})
}

func (MinimapTracer) Display(job, version uint64) {
	logging.Trace("minimap.display", map[string]interface{}{"job": job, "version": version})
}

func (MinimapTracer) Drop(job, version uint64, reason string) {
	logging.Trace("minimap.drop", map[string]interface{}{"job": job, "version": version, "reason": reason})
}

func (BackendTracer) Poll(version uint64, changed bool) {
	logging.Trace("backend.poll", map[string]interface{}{"version": version, "changed": changed})
}

func (BackendTracer) FileEvent(name, op string) {
	logging.Trace("backend.fsnotify", map[string]interface{}{"name": name, "op": op})
}

func (BackendTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("backend.error", map[string]interface{}{"error": err.Error()})
}

func (BusTracer) Publish(topic string, subscribers int) {
	logging.Trace("bus.publish", map[string]interface{}{"topic": topic, "subscribers": subscribers})
}
