package events

import "github.com/atomicstack/disasm-shell/internal/logging"

type HistoryTracer struct{}

type ViewTracer struct{}

var (
	History = HistoryTracer{}
	View    = ViewTracer{}
)

func (HistoryTracer) Navigate(address, representation string, back int) {
	logging.Trace("history.navigate", map[string]interface{}{"address": address, "representation": representation, "back": back})
}

func (HistoryTracer) Step(direction, address string) {
	logging.Trace("history.step", map[string]interface{}{"direction": direction, "address": address})
}

func (ViewTracer) Representation(title, from, to string) {
	logging.Trace("view.representation", map[string]interface{}{"title": title, "from": from, "to": to})
}

func (ViewTracer) HexDump(title, selection string) {
	logging.Trace("view.hexdump", map[string]interface{}{"title": title, "selection": selection})
}

func (ViewTracer) Snapshot(title string, version uint64) {
	logging.Trace("view.snapshot", map[string]interface{}{"title": title, "version": version})
}
