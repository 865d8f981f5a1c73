// Package inmemorytopology provides a thread-safe, in-memory implementation
// of the topologystore.Store interface. The whole graph lives in a single
// dag.Graph guarded by a sync.RWMutex; readers get deep copies.
package inmemorytopology
