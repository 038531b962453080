// Adsscan finds Beckhoff controllers on the local networks.
//
// It broadcasts the bus coupler request and the UDP identify request on the
// local IPv4 interfaces and lists the devices that answer, with their AMS
// NetID, address and TwinCAT version.
//
// Usage:
//
//	adsscan [command] [flags]
//
// Running without arguments scans every interface.
// See 'adsscan --help' for available commands.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/adsfwd/internal/config"
	"github.com/muurk/adsfwd/internal/logging"
	"github.com/muurk/adsfwd/internal/version"
)

// Global flags
var (
	configPath string
	logLevel   string
)

// cfg is loaded before any command runs
var cfg = config.Default()

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "adsscan",
	Short: "Beckhoff device discovery",
	Long: `Find Beckhoff controllers on the local networks.

Bus couplers are queried on UDP port 48847, embedded PCs with the identify
request of the UDP protocol on port 48899. Every device that answers is
listed with its AMS NetID, IP address and, for embedded PCs, TwinCAT version.

If no command is specified, every local interface is scanned.`,
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default is the per-user config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $"+logging.LogLevelEnvVar+", else silent)")

	rootCmd.AddCommand(versionCmd)
}

// setup loads the config file and initializes logging. Flags win over the
// config file, which wins over the environment.
func setup(cmd *cobra.Command, args []string) error {
	if outputFormat != "table" && outputFormat != "json" {
		return fmt.Errorf("unknown output format %q (want table or json)", outputFormat)
	}

	if configPath == "" {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		configPath = path
	}

	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	level := logLevel
	if level == "" {
		level = cfg.LogLevel
	}
	if err := logging.Initialize(level); err != nil {
		return err
	}

	logging.Debug("Configuration loaded", zap.String("path", configPath))
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if outputFormat == "json" {
			return writeJSON(cmd.OutOrStdout(), version.Get())
		}
		info := version.Get()
		fmt.Fprintf(cmd.OutOrStdout(), "adsscan %s (commit: %s, %s, %s)\n",
			info.Version, info.Commit, info.GoVersion, info.Platform)
		return nil
	},
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
