// Package memory is the offline demo store. Records live as JSON strings in a
// get/set key value store and every write publishes the same change keys as the
// Postgres store, so live queries behave the same in both modes.
package memory

import (
	"github.com/patrickmn/go-cache"
)

// KV is a string key value store with no expiry.
type KV struct {
	cache *cache.Cache
}

func NewKV() *KV {
	return &KV{cache: cache.New(cache.NoExpiration, 0)}
}

func (k *KV) Get(key string) (string, bool) {
	if x, found := k.cache.Get(key); found {
		return x.(string), true
	}
	return "", false
}

func (k *KV) Set(key, value string) {
	k.cache.Set(key, value, cache.NoExpiration)
}
