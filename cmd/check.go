package cmd

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"

	"github.com/charlesgretton/credis/client"
	"github.com/charlesgretton/credis/internal/env"
	"github.com/charlesgretton/credis/report"
)

var (
	// The server to connect to
	checkHost    string
	checkPort    int
	checkTimeout time.Duration

	// Report output selection
	checkJSON bool
	checkGet  string

	// Write benchmark, off unless a count is given
	benchCount int
	benchSize  int
)

func init() {
	flags := CheckCmd.PersistentFlags()

	flags.StringVarP(&checkHost, "host", "a", client.DefaultHost, "The server host to connect to")
	flags.IntVarP(&checkPort, "port", "p", client.DefaultPort, "The server port to connect to")
	flags.DurationVar(&checkTimeout, "timeout", client.DefaultTimeout, "Deadline for every operation")

	flags.BoolVar(&checkJSON, "json", false, "Print the status report as one JSON document")
	flags.StringVar(&checkGet, "get", "", "Print a single report field by its dotted path")

	flags.IntVar(&benchCount, "bench", 0, "Issue this many SET commands and report the rate")
	flags.IntVar(&benchSize, "size", 32, "Value size in bytes for --bench")
}

var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Connect to a server and print its status report",
	Long: `Connect to a server, verify the connection with a PING, and print
the server's status report.

Usage
	credis check -a localhost -p 6379

`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, signalStop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
		defer signalStop()

		log, err := env.MakeLogger(debugLog)
		if err != nil {
			return err
		}

		conf, err := env.LoadConfig(ctx)
		if err != nil {
			return err
		}

		applyCheckEnv(cmd, conf)

		conn, err := client.Dial(ctx, client.Options{
			Host:    checkHost,
			Port:    checkPort,
			Timeout: checkTimeout,
			Log:     log.Named("client"),
		})
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := conn.Ping(); err != nil {
			return err
		}

		info, err := conn.Info()
		if err != nil {
			return err
		}

		if checkJSON || checkGet != "" {
			if err := printJSON(conn, info); err != nil {
				return err
			}
		} else {
			printReport(conn, info)
		}

		if benchCount > 0 {
			return runBench(conn, log.Named("bench"))
		}

		return nil
	},
}

// applyCheckEnv fills in connection settings from the environment for
// every flag the command line left untouched.
func applyCheckEnv(cmd *cobra.Command, conf *env.Config) {
	flags := cmd.Flags()

	if !flags.Changed("host") && conf.Host != "" {
		checkHost = conf.Host
	}

	if !flags.Changed("port") && conf.Port != 0 {
		checkPort = conf.Port
	}

	if !flags.Changed("timeout") && conf.Timeout() > 0 {
		checkTimeout = conf.Timeout()
	}
}

func printReport(conn *client.Conn, info *client.ServerInfo) {
	fmt.Printf("> connected to %s, server version %s\n", conn.Addr(), conn.ServerVersion())
	fmt.Printf("> redis_version: %s\n", info.Version)
	fmt.Printf("> arch_bits: %d\n", info.ArchBits)
	fmt.Printf("> multiplexing_api: %s\n", info.MultiplexingAPI)
	fmt.Printf("> process_id: %d\n", info.ProcessID)
	fmt.Printf("> uptime_in_seconds: %d\n", info.UptimeInSeconds)
	fmt.Printf("> uptime_in_days: %d\n", info.UptimeInDays)
	fmt.Printf("> connected_clients: %d\n", info.ConnectedClients)
	fmt.Printf("> connected_slaves: %d\n", info.ConnectedSlaves)
	fmt.Printf("> blocked_clients: %d\n", info.BlockedClients)
	fmt.Printf("> used_memory: %d (%s)\n", info.UsedMemory, info.UsedMemoryHuman)
	fmt.Printf("> changes_since_last_save: %d\n", info.ChangesSinceLastSave)
	fmt.Printf("> bgsave_in_progress: %t\n", info.BgsaveInProgress)
	fmt.Printf("> last_save_time: %d\n", info.LastSaveTime)
	fmt.Printf("> bgrewriteaof_in_progress: %t\n", info.BgrewriteAOFInProgress)
	fmt.Printf("> total_connections_received: %d\n", info.TotalConnectionsReceived)
	fmt.Printf("> total_commands_processed: %d\n", info.TotalCommandsProcessed)
	fmt.Printf("> expired_keys: %d\n", info.ExpiredKeys)
	fmt.Printf("> hash_max_zipmap_entries: %d\n", info.HashMaxZipmapEntries)
	fmt.Printf("> hash_max_zipmap_value: %d\n", info.HashMaxZipmapValue)
	fmt.Printf("> pubsub_channels: %d\n", info.PubsubChannels)
	fmt.Printf("> pubsub_patterns: %d\n", info.PubsubPatterns)
	fmt.Printf("> vm_enabled: %t\n", info.VMEnabled)
	fmt.Printf("> role: %s\n", info.Role)
}

func printJSON(conn *client.Conn, info *client.ServerInfo) error {
	cache := report.NewCache()

	if err := cache.Update(conn.Addr(), conn.ServerVersion(), info); err != nil {
		return err
	}

	if checkGet != "" {
		value, ok := cache.Field(checkGet)
		if !ok {
			return fmt.Errorf("No field at path '%s' in the status report", checkGet)
		}

		fmt.Println(value)
		return nil
	}

	fmt.Println(string(cache.Snapshot()))
	return nil
}

// runBench writes benchCount values of benchSize bytes and reports the
// rate. Keys are spread over the keyspace so repeated runs do not
// dogpile one key.
func runBench(conn *client.Conn, log *zap.Logger) error {
	rng := rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	run := rng.Uint64()

	value := make([]byte, benchSize)
	for i := range value {
		value[i] = byte('a' + i%26)
	}

	log.Info("Starting bench",
		zap.Int("count", benchCount),
		zap.Int("valueSize", benchSize))

	start := time.Now()

	for i := 0; i < benchCount; i++ {
		key := fmt.Sprintf("credis:bench:%016x", benchKey(run, i))

		if err := conn.Set(key, value); err != nil {
			return fmt.Errorf("Bench stopped at command %d: %w", i, err)
		}
	}

	elapsed := time.Since(start)
	rate := float64(benchCount) / elapsed.Seconds()

	fmt.Printf("> bench: %d SET commands in %s (%.0f ops/sec)\n",
		benchCount, elapsed.Round(time.Millisecond), rate)

	return nil
}

func benchKey(run uint64, i int) uint64 {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[:8], run)
	binary.LittleEndian.PutUint64(b[8:], uint64(i))

	return xxhash.Sum64(b[:])
}
