// Package pkgroutine runs batches of tasks with bounded concurrency.
//
// The Manager limits how many tasks run at once, collects their errors
// (panics and cancellations included) and lets callers wait per batch.
// KeyedMutex serializes read-modify-write cycles on one document.
package pkgroutine
