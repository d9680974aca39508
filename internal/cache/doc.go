// Package cache provides a sharded LRU cache for values derived from
// immutable tree resources, such as decoded raster images converted to the
// compositor's pixel format.
//
// Keys are hashed with hash/maphash, so any comparable key works,
// including pointers to tree nodes.
package cache
