// Package pkghook runs document lifecycle hooks around persistence.
//
// A Registry maps (entity type, event) to an ordered list of hooks. Hooks are
// registered once while the application wires itself up; Seal freezes the
// registry before it is shared with request handlers.
//
// Save and Delete drive one operation through
// Pending -> HooksRunning -> Committed | Aborted. The first failing hook
// aborts the operation, later hooks do not run and storage is not touched.
// After-commit hooks (AfterSave, AfterDelete) only run once storage accepted
// the write; their failures are logged and never undo the commit.
package pkghook
