package client

import (
	"math"
	"strings"
)

// Role distinguishes masters from replicas in a status report.
type Role int

const (
	RoleUnknown Role = iota
	RoleMaster
	RoleSlave
)

func (r Role) String() string {
	switch r {
	case RoleMaster:
		return "master"
	case RoleSlave:
		return "slave"
	default:
		return "unknown"
	}
}

// ServerInfo is the parsed form of the server's status report. Fields
// the server did not include stay at their zero values.
type ServerInfo struct {
	Version                  string
	ArchBits                 int
	MultiplexingAPI          string
	ProcessID                int64
	UptimeInSeconds          int64
	UptimeInDays             int64
	ConnectedClients         int64
	ConnectedSlaves          int64
	BlockedClients           int64
	UsedMemory               uint64
	UsedMemoryHuman          string
	ChangesSinceLastSave     int64
	BgsaveInProgress         bool
	LastSaveTime             int64
	BgrewriteAOFInProgress   bool
	TotalConnectionsReceived int64
	TotalCommandsProcessed   int64
	ExpiredKeys              int64
	HashMaxZipmapEntries     uint64
	HashMaxZipmapValue       uint64
	PubsubChannels           int64
	PubsubPatterns           uint64
	VMEnabled                bool
	Role                     Role
}

// parseInfo walks the CRLF-separated field:value lines of a status
// report. Unknown fields are skipped and malformed numbers read as
// zero.
func parseInfo(report []byte) *ServerInfo {
	info := &ServerInfo{}

	for _, line := range strings.Split(string(report), "\r\n") {
		i := strings.IndexByte(line, ':')
		if i < 0 {
			continue
		}

		field, value := line[:i], line[i+1:]

		switch field {
		case "redis_version":
			info.Version = value
		case "arch_bits":
			info.ArchBits = int(scanInt(value))
		case "multiplexing_api":
			info.MultiplexingAPI = value
		case "process_id":
			info.ProcessID = scanInt(value)
		case "uptime_in_seconds":
			info.UptimeInSeconds = scanInt(value)
		case "uptime_in_days":
			info.UptimeInDays = scanInt(value)
		case "connected_clients":
			info.ConnectedClients = scanInt(value)
		case "connected_slaves":
			info.ConnectedSlaves = scanInt(value)
		case "blocked_clients":
			info.BlockedClients = scanInt(value)
		case "used_memory":
			info.UsedMemory = uint64(scanInt(value))
		case "used_memory_human":
			info.UsedMemoryHuman = value
		case "changes_since_last_save":
			info.ChangesSinceLastSave = scanInt(value)
		case "bgsave_in_progress":
			info.BgsaveInProgress = scanInt(value) != 0
		case "last_save_time":
			info.LastSaveTime = scanInt(value)
		case "bgrewriteaof_in_progress":
			info.BgrewriteAOFInProgress = scanInt(value) != 0
		case "total_connections_received":
			info.TotalConnectionsReceived = scanInt(value)
		case "total_commands_processed":
			info.TotalCommandsProcessed = scanInt(value)
		case "expired_keys":
			info.ExpiredKeys = scanInt(value)
		case "hash_max_zipmap_entries":
			info.HashMaxZipmapEntries = uint64(scanInt(value))
		case "hash_max_zipmap_value":
			info.HashMaxZipmapValue = uint64(scanInt(value))
		case "pubsub_channels":
			info.PubsubChannels = scanInt(value)
		case "pubsub_patterns":
			info.PubsubPatterns = uint64(scanInt(value))
		case "vm_enabled":
			info.VMEnabled = scanInt(value) != 0
		case "role":
			if strings.HasPrefix(value, "m") {
				info.Role = RoleMaster
			} else if value != "" {
				info.Role = RoleSlave
			}
		}
	}

	return info
}

// scanInt reads a decimal with the same laxity as reply headers: an
// optional sign, then digits up to the first non-digit. Junk reads as
// zero and a value past the int64 range saturates at the nearest bound.
func scanInt(s string) int64 {
	var n int64
	neg := false

	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		neg = s[i] == '-'
		i++
	}

	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		d := int64(s[i] - '0')

		if n > (math.MaxInt64-d)/10 {
			if neg {
				return math.MinInt64
			}

			return math.MaxInt64
		}

		n = n*10 + d
	}

	if neg {
		return -n
	}

	return n
}
