// Package config manages the adsfwd user configuration file.
//
// The file is YAML and holds defaults for the scan command, the log level
// and user-chosen aliases for devices, keyed by AMS NetID:
//
//	version: 1
//	log_level: info
//	scan:
//	  interface: eth0
//	  dump: false
//	aliases:
//	  5.1.2.3.1.1: line 3 PLC
//
// # Configuration File Location
//
// The default location follows OS conventions:
//   - Linux: $XDG_CONFIG_HOME/adsfwd/config.yaml or $HOME/.config/adsfwd/config.yaml
//   - macOS: $HOME/.config/adsfwd/config.yaml
//   - Windows: %LOCALAPPDATA%\adsfwd\config.yaml
//
// # Usage Example
//
//	path, _ := config.GetConfigPath()
//	cfg, err := config.Load(path)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg.SetAlias(ams.MustParseNetID("5.1.2.3.1.1"), "line 3 PLC")
//	if err := cfg.Save(path); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// Load and Save are serialized by a package mutex and Save replaces the file
// atomically. A *Config itself is not safe for concurrent mutation.
package config
