package logging

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func readEntries(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()
	var out []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("decode %q: %v", scanner.Text(), err)
		}
		out = append(out, entry)
	}
	return out
}

func TestTraceWritesJSONWhenEnabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "trace.log")
	Configure(path)
	t.Cleanup(func() { SetTraceEnabled(false) })

	Trace("ignored.event", nil)
	SetTraceEnabled(true)
	Trace("tabs.activate", map[string]interface{}{"tab": "t1"})
	Error(errors.New("boom"))
	if err := Sync(); err != nil {
		t.Logf("sync: %v", err)
	}

	entries := readEntries(t, path)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(entries), entries)
	}
	if entries[0]["event"] != "tabs.activate" {
		t.Fatalf("unexpected event %v", entries[0]["event"])
	}
	payload, ok := entries[0]["payload"].(map[string]interface{})
	if !ok || payload["tab"] != "t1" {
		t.Fatalf("unexpected payload %v", entries[0]["payload"])
	}
	if entries[1]["level"] != "error" || entries[1]["event"] != "boom" {
		t.Fatalf("unexpected error entry %v", entries[1])
	}
	if Path() != path {
		t.Fatalf("Path() = %q, want %q", Path(), path)
	}
}
