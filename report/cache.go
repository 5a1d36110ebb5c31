package report

import (
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/charlesgretton/credis/client"
)

// Cache holds the latest server status report rendered as one JSON
// document. A refresher goroutine replaces it while HTTP handlers and
// CLI readers take snapshots, so access is guarded.
type Cache struct {
	mu  sync.RWMutex
	doc []byte
}

func NewCache() *Cache {
	return &Cache{doc: []byte(`{}`)}
}

// Update replaces the document with a fresh rendering of info, as
// reported by the server at addr.
func (c *Cache) Update(addr string, version client.Version, info *client.ServerInfo) error {
	fields := []struct {
		path  string
		value interface{}
	}{
		{"server.addr", addr},
		{"server.version", version.String()},
		{"refreshed_at", time.Now().UTC().Format(time.RFC3339)},
		{"redis_version", info.Version},
		{"arch_bits", info.ArchBits},
		{"multiplexing_api", info.MultiplexingAPI},
		{"process_id", info.ProcessID},
		{"uptime_in_seconds", info.UptimeInSeconds},
		{"uptime_in_days", info.UptimeInDays},
		{"connected_clients", info.ConnectedClients},
		{"connected_slaves", info.ConnectedSlaves},
		{"blocked_clients", info.BlockedClients},
		{"used_memory", info.UsedMemory},
		{"used_memory_human", info.UsedMemoryHuman},
		{"changes_since_last_save", info.ChangesSinceLastSave},
		{"bgsave_in_progress", info.BgsaveInProgress},
		{"last_save_time", info.LastSaveTime},
		{"bgrewriteaof_in_progress", info.BgrewriteAOFInProgress},
		{"total_connections_received", info.TotalConnectionsReceived},
		{"total_commands_processed", info.TotalCommandsProcessed},
		{"expired_keys", info.ExpiredKeys},
		{"hash_max_zipmap_entries", info.HashMaxZipmapEntries},
		{"hash_max_zipmap_value", info.HashMaxZipmapValue},
		{"pubsub_channels", info.PubsubChannels},
		{"pubsub_patterns", info.PubsubPatterns},
		{"vm_enabled", info.VMEnabled},
		{"role", info.Role.String()},
	}

	doc := []byte(`{}`)

	var err error
	for _, f := range fields {
		doc, err = sjson.SetBytes(doc, f.path, f.value)
		if err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.doc = doc
	c.mu.Unlock()

	return nil
}

// Snapshot returns a copy of the current document.
func (c *Cache) Snapshot() []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]byte, len(c.doc))
	copy(out, c.doc)

	return out
}

// Field looks up a single value by its dotted path, for example
// "used_memory" or "server.version".
func (c *Cache) Field(path string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := gjson.GetBytes(c.doc, path)
	if !result.Exists() {
		return "", false
	}

	return result.String(), true
}
