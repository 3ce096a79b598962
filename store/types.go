package store

import "github.com/safeharbor/harbor"

// Aliases of the storage interfaces, so that this package can name them
// without the harbor prefix.
type (
	ReadOnlyKVStore  = harbor.ReadOnlyKVStore
	SetDeleter       = harbor.SetDeleter
	KVStore          = harbor.KVStore
	Batch            = harbor.Batch
	Iterator         = harbor.Iterator
	CacheableKVStore = harbor.CacheableKVStore
	KVCacheWrap      = harbor.KVCacheWrap
	CommitKVStore    = harbor.CommitKVStore
	CommitID         = harbor.CommitID
)
