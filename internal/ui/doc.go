// Package ui contains the Bubble Tea program that hosts the disassembly
// workbench. The Model is the single coordination loop: tab activation,
// command routing, history navigation, view switching and minimap delivery
// all happen inside Model.Update.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages.
//   - When the goto prompt or symbol search is open, key presses go to the
//     input first (internal/ui/input.go). Otherwise the message is routed
//     through a typed handler registry so each tea.Msg is handled by a
//     focused function.
//   - Keys that name a catalog command are dispatched through the command
//     bus to the active command tab; the result comes back as a
//     command.Result message (internal/ui/commands.go).
//
// State ownership:
//   - Tabs live in tabs.Manager, which keeps the active command tab
//     reference in the shell context and asks the router to recompute
//     command enablement whenever it changes.
//   - The latest document snapshot lives in state.SnapshotStore and is kept
//     in sync by the dispatcher.
//
// Background work:
//   - A backend.Watcher streams document snapshots; Update waits for those
//     events and hands them to applyBackendEvent, which refreshes every tab
//     and tells each minimap renderer about the new version.
//   - Every disassembly tab owns a minimap.Renderer. Completions are read by
//     a waiting tea.Cmd and applied with Renderer.Deliver, so only the
//     coordination loop ever touches what is on screen.
package ui
