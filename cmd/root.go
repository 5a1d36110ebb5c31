package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/charlesgretton/credis/cmd/gen"
	"github.com/charlesgretton/credis/internal/meta"
)

var debugLog bool

var rootCmd = &cobra.Command{
	Use:   "credis",
	Short: "A minimalist Redis client",
	Long: `credis is a minimalist Redis client speaking the classic inline
protocol. It bundles a connection checker and a small status watcher
that serves a server's status report over HTTP.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		info := meta.GetInfo()

		fmt.Printf("credis %s (build %s, branch %s)\n", info.Version, info.Build, info.Branch)
		fmt.Printf("built %s with %s for %s\n", info.BuildTime, info.GoVersion, info.Platform)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Log at debug level with the development encoder")

	rootCmd.AddCommand(CheckCmd)
	rootCmd.AddCommand(WatchCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(gen.RootCmd)
}
