package config

import (
	"fmt"
	"sort"

	"github.com/muurk/adsfwd/internal/ams"
)

// CurrentVersion is the only config file version this package reads
const CurrentVersion = 1

// Config represents the entire user configuration file.
type Config struct {
	Version  int               `yaml:"version"`
	LogLevel string            `yaml:"log_level,omitempty"` // zap level name; empty keeps logging off
	Scan     ScanPrefs         `yaml:"scan"`
	Aliases  map[string]string `yaml:"aliases,omitempty"` // Keyed by NetID, e.g. "5.1.2.3.1.1"
}

// ScanPrefs holds the defaults for the scan command. Command line flags
// override them.
type ScanPrefs struct {
	Interface string `yaml:"interface,omitempty"` // Interface to broadcast on
	Address   string `yaml:"address,omitempty"`   // Single device to query
	Dump      bool   `yaml:"dump"`                // Hexdump every datagram
}

// Default creates a new Config with default values.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Aliases: make(map[string]string),
	}
}

// Alias returns the user label for a device, or "" when there is none.
func (c *Config) Alias(netID ams.NetID) string {
	return c.Aliases[netID.String()]
}

// SetAlias labels a device. An empty label removes the alias.
func (c *Config) SetAlias(netID ams.NetID, label string) {
	if c.Aliases == nil {
		c.Aliases = make(map[string]string)
	}
	if label == "" {
		delete(c.Aliases, netID.String())
		return
	}
	c.Aliases[netID.String()] = label
}

// Validate checks the parts of the file that cannot be checked by decoding.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", c.Version, CurrentVersion)
	}

	keys := make([]string, 0, len(c.Aliases))
	for k := range c.Aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		id, err := ams.ParseNetID(k)
		if err != nil {
			return fmt.Errorf("invalid alias: %w", err)
		}
		// keys are stored in canonical form so Alias can find them
		if canonical := id.String(); canonical != k {
			c.Aliases[canonical] = c.Aliases[k]
			delete(c.Aliases, k)
		}
	}
	return nil
}
