package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/adsfwd/internal/ams"
	"github.com/muurk/adsfwd/internal/logging"
	"github.com/muurk/adsfwd/internal/netif"
	"github.com/muurk/adsfwd/internal/protocol"
)

const (
	// ReplyTimeout is how long a scan waits for the next reply. Its expiry
	// is how a scan normally ends.
	ReplyTimeout = 500 * time.Millisecond

	maxReplySize = 2048
)

// Scanner finds Beckhoff devices on the locally reachable networks
type Scanner struct {
	dir  *netif.Directory
	dump bool
	out  io.Writer

	// Destination ports of the two requests. Replies are told apart by which
	// of these they come from.
	bcPort  int
	udpPort int
}

// NewScanner snapshots the local interfaces and returns a scanner using
// them. With dump set, every datagram sent and received is hexdumped to
// stdout.
func NewScanner(dump bool) *Scanner {
	return NewScannerWithDirectory(netif.Load(), dump)
}

// NewScannerWithDirectory returns a scanner using an existing interface
// snapshot.
func NewScannerWithDirectory(dir *netif.Directory, dump bool) *Scanner {
	return &Scanner{
		dir:     dir,
		dump:    dump,
		out:     os.Stdout,
		bcPort:  ams.BCUDPPort,
		udpPort: ams.UDPPort,
	}
}

// SetDumpOutput redirects hexdumps away from stdout.
func (s *Scanner) SetDumpOutput(w io.Writer) {
	s.out = w
}

// InterfaceExists reports whether name is a scannable interface.
func (s *Scanner) InterfaceExists(name string) bool {
	return s.dir.Exists(name)
}

// Directory returns the interface snapshot the scanner works with.
func (s *Scanner) Directory() *netif.Directory {
	return s.dir
}

// Scan queries target and returns the devices found. It never returns an
// error: socket and setup failures are logged and whatever was found before
// the failure is returned. A reply that no local interface could have
// received breaks the scanner's assumptions and panics with
// *ams.InvariantError.
func (s *Scanner) Scan(target Target) []*Device {
	devices, err := s.Discover(target)
	if err == nil {
		return devices
	}

	var invariant *ams.InvariantError
	if errors.As(err, &invariant) {
		logging.Error("Scan aborted", zap.Stringer("target", target), zap.Error(err))
		panic(invariant)
	}

	logging.Error("Scan failed",
		zap.Stringer("target", target),
		zap.Int("found", len(devices)),
		zap.Error(err),
	)
	return devices
}

// Discover is Scan with the error exposed. The error is a *ScanError for
// best-effort failures or an *ams.InvariantError; devices found before the
// failure are returned alongside it.
func (s *Scanner) Discover(target Target) ([]*Device, error) {
	switch target.Kind {
	case TargetAddress:
		addr := target.Addr.To4()
		if addr == nil {
			return nil, &ScanError{Op: OpSend, Addr: target.Addr.String(), Err: errors.New("not an IPv4 address")}
		}
		return s.scanAddr(net.IPv4zero, addr, true)

	case TargetInterface:
		entry, ok := s.dir.Lookup(target.Interface)
		if !ok {
			return nil, &ScanError{Op: OpInterface, Addr: target.Interface, Err: ErrUnknownInterface}
		}
		return s.scanAddr(entry.Addr, net.IPv4bcast, false)

	default:
		var all []*Device
		for _, entry := range s.dir.Entries() {
			devices, err := s.scanAddr(entry.Addr, net.IPv4bcast, false)
			all = append(all, devices...)
			if err != nil {
				return all, err
			}
		}
		return all, nil
	}
}

// scanAddr runs one request round from bindAddr to sendAddr. With singleReply
// it returns after the first datagram, otherwise when ReplyTimeout passes
// without a reply.
func (s *Scanner) scanAddr(bindAddr, sendAddr net.IP, singleReply bool) ([]*Device, error) {
	lc := net.ListenConfig{Control: enableBroadcast}
	pc, err := lc.ListenPacket(context.Background(), "udp4", net.JoinHostPort(bindAddr.String(), "0"))
	if err != nil {
		return nil, &ScanError{Op: OpBind, Addr: bindAddr.String(), Err: err}
	}
	conn := pc.(*net.UDPConn)
	defer conn.Close()

	logging.Debug("Scanning",
		zap.Stringer("local", conn.LocalAddr()),
		zap.Stringer("dest", sendAddr),
		zap.Bool("single_reply", singleReply),
	)

	// bus couplers: 3 words from 0:0x21 (NetID) and 10 words from 100:4 (name)
	if err := s.send(conn, "bc", protocol.BuildBCRequest(), sendAddr, s.bcPort); err != nil {
		return nil, err
	}
	// embedded PCs: identify operation of the UDP protocol
	if err := s.send(conn, "identify", protocol.BuildIdentifyRequest(), sendAddr, s.udpPort); err != nil {
		return nil, err
	}

	var devices []*Device
	buf := make([]byte, maxReplySize)
	for {
		if err := conn.SetReadDeadline(time.Now().Add(ReplyTimeout)); err != nil {
			return devices, &ScanError{Op: OpReceive, Addr: conn.LocalAddr().String(), Err: err}
		}

		n, from, err := conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				break
			}
			return devices, &ScanError{Op: OpReceive, Addr: conn.LocalAddr().String(), Err: err}
		}

		reply := buf[:n]
		logging.LogDatagram("received", from.String(), reply)
		if s.dump {
			fmt.Fprintf(s.out, "reply from %s\n", from)
			ams.Hexdump(s.out, reply)
			fmt.Fprintln(s.out)
		}

		device, err := s.decode(from, reply)
		if err != nil {
			return devices, err
		}
		if device != nil {
			devices = append(devices, device)
		}

		if singleReply {
			break
		}
	}

	return devices, nil
}

func (s *Scanner) send(conn *net.UDPConn, kind string, msg []byte, ip net.IP, port int) error {
	dest := &net.UDPAddr{IP: ip, Port: port}
	if _, err := conn.WriteToUDP(msg, dest); err != nil {
		return &ScanError{Op: OpSend, Addr: dest.String(), Err: err}
	}

	logging.Debug("Sent request", zap.String("kind", kind), zap.Stringer("dest", dest))
	logging.LogDatagram("sent", dest.String(), msg)
	if s.dump {
		ams.Hexdump(s.out, msg)
		fmt.Fprintln(s.out)
	}
	return nil
}

// replyKind picks the decoder for a datagram from its source port
func (s *Scanner) replyKind(port int) protocol.ReplyKind {
	switch port {
	case s.bcPort:
		return protocol.ReplyBC
	case s.udpPort:
		return protocol.ReplyIdentify
	default:
		return protocol.ReplyUnknown
	}
}

// decode turns a reply into a Device. A nil device with a nil error means
// the datagram was not a discovery reply and is ignored.
func (s *Scanner) decode(from *net.UDPAddr, data []byte) (*Device, error) {
	kind := s.replyKind(from.Port)
	if kind == protocol.ReplyUnknown {
		logging.Debug("Ignoring datagram from unexpected port", zap.Stringer("from", from))
		return nil, nil
	}

	reply, err := protocol.ParseReply(kind, data)
	if err != nil {
		logging.Debug("Ignoring undecodable reply",
			zap.Stringer("from", from),
			zap.Stringer("kind", kind),
			zap.Error(err),
		)
		return nil, nil
	}

	addr := from.IP.To4()
	if addr == nil {
		return nil, nil
	}

	owner, err := s.owningInterface(addr)
	if err != nil {
		return nil, err
	}

	device := &Device{
		IfAddr: owner.Addr,
		Addr:   addr,
		NetID:  reply.ID(),
	}

	switch r := reply.(type) {
	case *protocol.BCReply:
		device.IsBC = true
		device.Name = r.Name
		logging.Info("Found bus coupler",
			zap.String("name", r.Name),
			zap.Stringer("netid", r.NetID),
			zap.Stringer("addr", addr),
		)
	case *protocol.IdentifyReply:
		device.Name = r.Host
		device.Version = r.Version.String()
		logging.Info("Found embedded PC",
			zap.String("name", r.Host),
			zap.Stringer("twincat", r.Version),
			zap.Stringer("netid", r.NetID),
			zap.Stringer("addr", addr),
		)
	}

	return device, nil
}

// owningInterface finds the local interface whose subnet holds addr. A
// device only answers if it can reach us, so a miss means the directory and
// the network disagree.
func (s *Scanner) owningInterface(addr net.IP) (netif.Entry, error) {
	if entry, ok := s.dir.Owner(addr); ok {
		return entry, nil
	}
	return netif.Entry{}, &ams.InvariantError{
		Op:     "owning interface lookup",
		Detail: fmt.Sprintf("no local interface reaches %s", addr),
	}
}
