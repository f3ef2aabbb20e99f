// Package localstore is the browser-local key/value storage seen by the tracker: the Go
// analogue of window.localStorage.
//
// Values are strings, writes are last-write-wins, and a Store may be shared by several
// browser contexts (tabs) of the same visitor. Implementations:
//
//   - Memory: process memory, for tests and single-process hosts
//   - File: a JSON document on disk, surviving restarts
//   - redis.LocalStore (integration/database/redis): shared between processes
//
// Prefixed namespaces one Store per visitor:
//
//	tabStore := localstore.Prefixed(shared, "client:"+clientID+":")
//	_ = tabStore.Set(ctx, "moi_has_visited", "true")
package localstore
