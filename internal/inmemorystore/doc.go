// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the nodestore.Store interface.
//
// # Concurrency Model
//
// Unlike per-key state, a layout is published as a whole after every change,
// so the store keeps a single map behind a sync.RWMutex rather than a
// sync.Map: each notification needs a consistent copy of every record.
package inmemorystore
