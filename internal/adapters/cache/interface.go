package cache

type hitResult[T any] struct {
	data    T
	valid   bool
	claimed bool
}

// Cache is a keyed store where a missing key can be claimed by a single caller.
//
// While a key is claimed other callers see an invalid entry and wait for the claimant to either
// set or delete it.
type Cache[T any] interface {
	getOrClaim(key string) hitResult[T]
	set(key string, data T)
	delete(key string)
	wait()
}
