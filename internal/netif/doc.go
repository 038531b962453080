// Package netif snapshots the local IPv4 interface configuration.
//
// The scanner binds and broadcasts per interface, and later maps each
// responding device back to the interface whose subnet contains it. Both
// need a stable name -> (address, netmask) table, taken once and never
// refreshed for the lifetime of a scanner.
//
// Every interface with an IPv4 address is kept, loopback included, so a
// device answering on 127.0.0.1 still has an owning interface. Interfaces
// without IPv4 are left out. Enumeration problems are logged and produce a smaller (possibly
// empty) directory instead of an error.
package netif
