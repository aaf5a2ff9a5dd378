package snapshot

import (
	"fmt"

	"github.com/go-monolith/mono"
	kvjetstream "github.com/go-monolith/mono/plugin/kv-jetstream"
)

// Plugin aliases a store module accepts in SetPlugin.
const (
	KVAlias    = "kv"
	RedisAlias = "snapshot"
)

// Binding remembers the snapshot plugin handed to a module in SetPlugin so
// the module can open its Store in Start.
type Binding struct {
	kv    *kvjetstream.PluginModule
	redis *RedisPlugin
}

// Accept records plugin when alias names a snapshot backend. It reports
// whether the plugin was taken.
func (b *Binding) Accept(alias string, plugin mono.PluginModule) bool {
	switch alias {
	case KVAlias:
		kv, ok := plugin.(*kvjetstream.PluginModule)
		if ok {
			b.kv = kv
		}
		return ok
	case RedisAlias:
		rp, ok := plugin.(*RedisPlugin)
		if ok {
			b.redis = rp
		}
		return ok
	}
	return false
}

// Store opens the Store for slice. A JetStream bucket named after the slice
// wins over Redis. Without any plugin a MemoryStore is returned.
func (b *Binding) Store(slice string) (Store, string, error) {
	if b.kv != nil {
		bucket := b.kv.Bucket(slice)
		if bucket == nil {
			return nil, "", fmt.Errorf("bucket '%s' not found in KV plugin", slice)
		}
		return NewKVStore(bucket), "jetstream", nil
	}
	if b.redis != nil {
		return b.redis.Store(slice + ":"), "redis", nil
	}
	return NewMemoryStore(), "memory", nil
}
