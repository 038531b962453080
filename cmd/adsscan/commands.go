package main

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/adsfwd/internal/ams"
	"github.com/muurk/adsfwd/internal/config"
	"github.com/muurk/adsfwd/internal/discovery"
	"github.com/muurk/adsfwd/internal/logging"
	"github.com/muurk/adsfwd/internal/netif"
	"github.com/muurk/adsfwd/internal/ui"
)

// Scan command flags
var (
	scanInterface string
	scanAddress   string
	scanDump      bool
	outputFormat  string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "Output format (table, json)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(interfacesCmd)
	rootCmd.AddCommand(netidCmd)
	rootCmd.AddCommand(framesCmd)
	rootCmd.AddCommand(configCmd)
}

// scanCmd discovers devices on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for Beckhoff devices",
	Long: `Scan for bus couplers and embedded PCs.

Without flags every local interface is scanned in turn. A scan ends when no
reply has arrived for 500ms. Defaults for the flags are read from the scan
section of the config file.`,
	Example: `  # Scan all interfaces
  adsscan scan

  # Broadcast on one interface only
  adsscan scan --interface eth1

  # Query one device and show every datagram
  adsscan scan --address 192.168.1.20 --dump

  # JSON output for scripting
  adsscan scan --format json`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanInterface, "interface", "i", "", "Broadcast on this interface only")
	scanCmd.Flags().StringVarP(&scanAddress, "address", "a", "", "Query a single device address")
	scanCmd.Flags().BoolVar(&scanDump, "dump", false, "Hexdump every datagram sent and received")
	scanCmd.MarkFlagsMutuallyExclusive("interface", "address")
}

// scanOptions merges the scan flags over the config file
func scanOptions(cmd *cobra.Command, prefs config.ScanPrefs) config.ScanPrefs {
	flags := cmd.Flags()
	if flags.Changed("interface") || flags.Changed("address") {
		prefs.Interface, prefs.Address = scanInterface, scanAddress
	}
	if flags.Changed("dump") {
		prefs.Dump = scanDump
	}
	return prefs
}

// resolveTarget turns scan options into a discovery target
func resolveTarget(opts config.ScanPrefs, dir *netif.Directory) (discovery.Target, error) {
	switch {
	case opts.Address != "" && opts.Interface != "":
		return discovery.Target{}, fmt.Errorf("interface %q and address %q are mutually exclusive", opts.Interface, opts.Address)

	case opts.Address != "":
		ip := net.ParseIP(opts.Address)
		if ip == nil || ip.To4() == nil {
			return discovery.Target{}, fmt.Errorf("invalid IPv4 address: %q", opts.Address)
		}
		return discovery.Address(ip.To4()), nil

	case opts.Interface != "":
		if !dir.Exists(opts.Interface) {
			return discovery.Target{}, fmt.Errorf("unknown interface %q (available: %s)",
				opts.Interface, strings.Join(dir.Names(), ", "))
		}
		return discovery.Interface(opts.Interface), nil

	default:
		return discovery.Everything(), nil
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	opts := scanOptions(cmd, cfg.Scan)

	scanner := discovery.NewScanner(opts.Dump)
	target, err := resolveTarget(opts, scanner.Directory())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	interactive := outputFormat == "table" && !opts.Dump && ui.IsTerminal()

	var p *ui.Printer
	if outputFormat == "table" {
		p = ui.NewPrinter(out)
		p.PrintHeader("Device scan", cmd.CommandPath(),
			ui.Param{Key: "Target", Value: target.String()},
			ui.Param{Key: "Interfaces", Value: fmt.Sprint(scanner.Directory().Len())},
		)
	}

	logging.Info("Starting scan", zap.Stringer("target", target), zap.Bool("dump", opts.Dump))

	var devices []*discovery.Device
	if interactive {
		devices, err = ui.RunScan(os.Stderr, "Waiting for replies...", func() ([]*discovery.Device, error) {
			return scanner.Discover(target)
		})
	} else {
		devices, err = scanner.Discover(target)
	}

	var invariant *ams.InvariantError
	if errors.As(err, &invariant) {
		return err
	}
	if errors.Is(err, ui.ErrInterrupted) {
		return err
	}

	if outputFormat == "json" {
		if err != nil {
			logging.Warn("Scan incomplete", zap.Error(err))
		}
		return writeJSON(out, withAliases(devices))
	}

	p.Newline()
	switch {
	case err != nil:
		p.PrintResult(ui.NewFailureResult("Scan incomplete", err, ui.ScanTroubleshooting...))
		if len(devices) > 0 {
			p.PrintDevices(devices, cfg.Alias)
		}
	case len(devices) == 0:
		p.PrintResult(ui.NewWarningResult("No devices found").
			AddDetail("Target", target.String()))
		p.Newline()
		p.PrintResult(ui.NewFailureResult("Nothing answered", nil, ui.ScanTroubleshooting...))
	default:
		p.PrintDevices(devices, cfg.Alias)
		p.PrintResult(ui.NewSuccessResult(fmt.Sprintf("%d device(s) found", len(devices))).
			AddDetail("Target", target.String()))
	}

	return nil
}

// aliasedDevice is the JSON form of a device with its configured alias
type aliasedDevice struct {
	*discovery.Device
	Alias string `json:"alias,omitempty"`
}

func withAliases(devices []*discovery.Device) []aliasedDevice {
	out := make([]aliasedDevice, len(devices))
	for i, d := range devices {
		out[i] = aliasedDevice{Device: d, Alias: cfg.Alias(d.NetID)}
	}
	return out
}

// interfacesCmd lists the interfaces a scan can use
var interfacesCmd = &cobra.Command{
	Use:   "interfaces",
	Short: "List the interfaces a scan broadcasts on",
	Long: `List the local IPv4 interfaces, loopback included, with their address,
netmask and broadcast address. These names are accepted by 'adsscan scan --interface'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := netif.Load().Entries()
		out := cmd.OutOrStdout()

		if outputFormat == "json" {
			type iface struct {
				Name      string `json:"name"`
				Addr      string `json:"addr"`
				Mask      string `json:"mask"`
				Broadcast string `json:"broadcast"`
			}
			list := make([]iface, len(entries))
			for i, e := range entries {
				list[i] = iface{e.Name, e.Addr.String(), e.Mask.String(), e.Broadcast().String()}
			}
			return writeJSON(out, list)
		}

		if len(entries) == 0 {
			fmt.Fprintln(out, "No usable IPv4 interfaces found.")
			return nil
		}
		ui.NewPrinter(out).PrintInterfaces(entries)
		return nil
	},
}

// netidCmd parses and normalizes an AMS NetID
var netidCmd = &cobra.Command{
	Use:   "netid <id>",
	Short: "Parse and normalize an AMS NetID",
	Long: `Parse an AMS NetID and print its canonical six-component form.

Missing trailing components default to 1, so "5.1.2.3" is 5.1.2.3.1.1.`,
	Example: `  adsscan netid 5.1.2.3
  adsscan netid 192.168.1.20.1.1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ams.ParseNetID(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if outputFormat == "json" {
			return writeJSON(out, struct {
				NetID ams.NetID `json:"netid"`
				Bytes string    `json:"bytes"`
				Alias string    `json:"alias,omitempty"`
			}{id, fmt.Sprintf("% x", id[:]), cfg.Alias(id)})
		}

		fmt.Fprintln(out, id)
		if alias := cfg.Alias(id); alias != "" {
			fmt.Fprintf(out, "alias: %s\n", alias)
		}
		return nil
	},
}

// framesCmd decodes a captured AMS/TCP byte stream
var framesCmd = &cobra.Command{
	Use:   "frames [file]",
	Short: "Decode a captured AMS/TCP stream",
	Long: `Split a raw AMS/TCP byte stream into messages and print the routing header
and a hexdump of each. The stream is read from file, or stdin when no file
or "-" is given.`,
	Example: `  # Decode one direction of a TCP session saved by tcpflow
  adsscan frames 192.168.001.020.48898-192.168.001.005.51234`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		return decodeFrames(in, cmd.OutOrStdout())
	},
}

// decodeFrames prints every message of an AMS/TCP stream until EOF
func decodeFrames(in io.Reader, out io.Writer) error {
	for n := 0; ; n++ {
		msg, err := ams.ReadMessage(in)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("message %d: %w", n, err)
		}

		fmt.Fprintf(out, "#%d %s\n", n, msg)
		ams.Hexdump(out, msg.Bytes())
		fmt.Fprintln(out)
	}
}

// configCmd manages the config file
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the adsscan config file",
}

var configForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
		}
		if err := config.Default().Save(configPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), configPath)
	},
}

var configAliasCmd = &cobra.Command{
	Use:   "alias <netid> [label]",
	Short: "Set or remove the label shown for a device",
	Long: `Label a device by its AMS NetID. The label is shown in scan output.
Without a label the alias is removed.`,
	Example: `  adsscan config alias 5.1.2.3.1.1 "line 3 PLC"
  adsscan config alias 5.1.2.3.1.1`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ams.ParseNetID(args[0])
		if err != nil {
			return err
		}

		label := ""
		if len(args) == 2 {
			label = args[1]
		}
		cfg.SetAlias(id, label)

		if err := cfg.Save(configPath); err != nil {
			return err
		}
		if label == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Removed alias for %s\n", id)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %q\n", id, label)
		}
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configAliasCmd)
}
