// Package cmap provides a concurrent-safe sharded map keyed by strings.
//
// Keys are spread over a power-of-two number of shards by their murmur3
// hash; each shard is a plain map behind its own RWMutex. respd keeps its
// live connection registry (keyed by connection ID) and its per-IP rate
// limiters (keyed by client address) in these maps.
package cmap
