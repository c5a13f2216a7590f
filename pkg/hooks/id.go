package hooks

import "sync/atomic"

// instanceIDs is the source of instance identities. IDs are never reused,
// so a stale handle can never alias a newer instance.
var instanceIDs atomic.Uint64

func nextID() uint64 {
	return instanceIDs.Add(1)
}
