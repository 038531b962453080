package netif

import (
	"fmt"
	"net"
	"sort"

	"go.uber.org/zap"

	"github.com/muurk/adsfwd/internal/ams"
	"github.com/muurk/adsfwd/internal/logging"
)

// Entry is the IPv4 configuration of one interface.
type Entry struct {
	Name string
	Addr net.IP // 4-byte form
	Mask net.IP // dotted netmask, 4-byte form
}

// Contains reports whether ip is in this entry's subnet.
func (e Entry) Contains(ip net.IP) bool {
	return ams.InSameNet(ip, e.Addr, e.Mask)
}

// Broadcast returns the directed broadcast address of the entry's subnet.
func (e Entry) Broadcast() net.IP {
	addr, mask := e.Addr.To4(), e.Mask.To4()
	if addr == nil || mask == nil {
		return nil
	}
	bcast := make(net.IP, net.IPv4len)
	for i := range bcast {
		bcast[i] = addr[i] | ^mask[i]
	}
	return bcast
}

// String returns e.g. "eth0 192.168.1.5/255.255.255.0"
func (e Entry) String() string {
	return fmt.Sprintf("%s %s/%s", e.Name, e.Addr, e.Mask)
}

// Directory is an immutable snapshot of the local IPv4 interfaces.
type Directory struct {
	entries map[string]Entry
}

// New builds a directory from explicit entries. Entries without a valid
// IPv4 address and mask are dropped, like Load does for OS interfaces.
func New(entries ...Entry) *Directory {
	d := &Directory{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		addr, mask := e.Addr.To4(), e.Mask.To4()
		if addr == nil || mask == nil {
			continue
		}
		d.entries[e.Name] = Entry{Name: e.Name, Addr: addr, Mask: mask}
	}
	return d
}

// Exists reports whether an interface with this name is in the directory.
func (d *Directory) Exists(name string) bool {
	_, ok := d.entries[name]
	return ok
}

// Lookup returns the entry for name.
func (d *Directory) Lookup(name string) (Entry, bool) {
	e, ok := d.entries[name]
	return e, ok
}

// Len returns the number of interfaces.
func (d *Directory) Len() int {
	return len(d.entries)
}

// Names returns all interface names in sorted order.
func (d *Directory) Names() []string {
	names := make([]string, 0, len(d.entries))
	for name := range d.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns all entries sorted by interface name.
func (d *Directory) Entries() []Entry {
	names := d.Names()
	entries := make([]Entry, len(names))
	for i, name := range names {
		entries[i] = d.entries[name]
	}
	return entries
}

// Owner returns the first entry (by name) whose subnet contains ip.
func (d *Directory) Owner(ip net.IP) (Entry, bool) {
	for _, e := range d.Entries() {
		if e.Contains(ip) {
			return e, true
		}
	}
	return Entry{}, false
}

// interfaces is the OS enumeration call, replaced in tests.
var interfaces = systemInterfaces

// osInterface is the subset of net.Interface the directory needs.
type osInterface struct {
	Name  string
	Addrs []net.Addr
}

func systemInterfaces() ([]osInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	result := make([]osInterface, 0, len(ifaces))
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			logging.Warn("Failed to get interface addresses",
				zap.String("interface", iface.Name),
				zap.Error(err),
			)
			continue
		}
		result = append(result, osInterface{Name: iface.Name, Addrs: addrs})
	}
	return result, nil
}

// Load enumerates the OS interfaces, loopback and down ones included, and
// keeps every interface with an IPv4 address. It never fails: problems are
// logged and the affected interfaces are simply missing.
func Load() *Directory {
	ifaces, err := interfaces()
	if err != nil {
		logging.Warn("Failed to enumerate network interfaces", zap.Error(err))
		return New()
	}

	var entries []Entry
	for _, iface := range ifaces {
		entry, ok := firstIPv4(iface)
		if !ok {
			logging.Debug("Skipping interface without IPv4", zap.String("interface", iface.Name))
			continue
		}
		entries = append(entries, entry)
	}

	d := New(entries...)
	logging.Debug("Interface directory loaded", zap.Strings("interfaces", d.Names()))
	return d
}

func firstIPv4(iface osInterface) (Entry, bool) {
	for _, addr := range iface.Addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ip := ipNet.IP.To4()
		if ip == nil {
			continue
		}
		mask := ipNet.Mask
		if len(mask) == net.IPv6len {
			mask = mask[12:]
		}
		if len(mask) != net.IPv4len {
			continue
		}
		return Entry{Name: iface.Name, Addr: ip, Mask: net.IP(mask)}, true
	}
	return Entry{}, false
}
