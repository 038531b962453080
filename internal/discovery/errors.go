package discovery

import (
	"errors"
	"fmt"
)

// Scan operations that can fail
const (
	OpInterface = "interface"
	OpBind      = "bind"
	OpSend      = "send"
	OpReceive   = "receive"
)

// ScanError is a best-effort failure: a socket or setup problem that ends
// one scan invocation. Scan logs it and returns whatever was found before.
//
// Owning-interface faults are not ScanErrors; they are reported as
// *ams.InvariantError.
type ScanError struct {
	// Op is one of OpInterface, OpBind, OpSend, OpReceive
	Op string
	// Addr is the local or remote address involved
	Addr string
	// Underlying error
	Err error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// ErrUnknownInterface is wrapped in a ScanError when an interface target
// names an interface the scanner does not know.
var ErrUnknownInterface = errors.New("unknown interface")
