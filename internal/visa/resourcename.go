package visa

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// Interface types understood by ParseResourceName.
const (
	InterfaceASRL  = "ASRL"
	InterfaceTCPIP = "TCPIP"
	InterfaceGPIB  = "GPIB"
	InterfaceUSB   = "USB"
)

// Resource classes understood by ParseResourceName.
const (
	ClassInstr  = "INSTR"
	ClassSocket = "SOCKET"
	ClassIntfc  = "INTFC"
)

// resourceSeparator separates the sections of a VISA resource name.
const resourceSeparator = "::"

// ResourceName is a parsed VISA resource name such as
// "TCPIP0::192.168.1.10::5025::SOCKET" or "ASRL/dev/ttyUSB0::INSTR".
type ResourceName struct {
	// Interface is the upper-cased interface type (ASRL, TCPIP, GPIB, USB).
	Interface string
	// Board is the board number, or the port name/path for ASRL.
	Board string
	// Address holds the interface specific sections between board and class.
	Address []string
	// Class is the upper-cased resource class (INSTR, SOCKET, INTFC).
	Class string
}

// ParseResourceName parses a VISA resource name.
//
//nolint:cyclop // One branch per interface type keeps the grammar readable.
func ParseResourceName(name string) (*ResourceName, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidResourceName)
	}

	sections := strings.Split(name, resourceSeparator)

	rn := &ResourceName{
		Class: ClassInstr,
	}

	head := sections[0]
	upperHead := strings.ToUpper(head)

	for _, iface := range []string{InterfaceASRL, InterfaceTCPIP, InterfaceGPIB, InterfaceUSB} {
		if strings.HasPrefix(upperHead, iface) {
			rn.Interface = iface
			rn.Board = head[len(iface):]

			break
		}
	}

	if rn.Interface == "" {
		return nil, fmt.Errorf("%w: unknown interface in %q", ErrInvalidResourceName, name)
	}

	rest := sections[1:]
	if len(rest) > 0 {
		switch last := strings.ToUpper(rest[len(rest)-1]); last {
		case ClassInstr, ClassSocket, ClassIntfc:
			rn.Class = last
			rest = rest[:len(rest)-1]
		}
	}

	rn.Address = rest

	if rn.Interface != InterfaceASRL {
		if rn.Board == "" {
			rn.Board = "0"
		}

		if _, err := strconv.Atoi(rn.Board); err != nil {
			return nil, fmt.Errorf("%w: board %q is not a number in %q", ErrInvalidResourceName, rn.Board, name)
		}
	}

	if err := rn.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s in %q", ErrInvalidResourceName, err.Error(), name)
	}

	return rn, nil
}

// validate checks the number of address sections for the interface and class.
func (r *ResourceName) validate() error {
	n := len(r.Address)

	for _, section := range r.Address {
		if section == "" {
			return errors.New("empty section")
		}
	}

	switch r.Interface {
	case InterfaceASRL:
		if r.Board == "" {
			return errors.New("missing serial port")
		}

		if n != 0 {
			return errors.New("unexpected sections after serial port")
		}
	case InterfaceTCPIP:
		switch r.Class {
		case ClassSocket:
			if n != 2 {
				return errors.New("socket needs host and port")
			}

			if _, err := strconv.ParseUint(r.Address[1], 10, 16); err != nil {
				return fmt.Errorf("invalid port %q", r.Address[1])
			}
		default:
			if n < 1 || n > 2 {
				return errors.New("instrument needs host and optional device name")
			}
		}
	case InterfaceGPIB:
		if n < 1 || n > 2 {
			return errors.New("gpib needs primary and optional secondary address")
		}

		for _, section := range r.Address {
			if _, err := strconv.Atoi(section); err != nil {
				return fmt.Errorf("invalid gpib address %q", section)
			}
		}
	case InterfaceUSB:
		if n < 3 || n > 4 {
			return errors.New("usb needs vendor, product, serial and optional interface")
		}
	}

	return nil
}

// String renders the canonical resource name.
func (r *ResourceName) String() string {
	parts := make([]string, 0, len(r.Address)+2)
	parts = append(parts, r.Interface+r.Board)
	parts = append(parts, r.Address...)
	parts = append(parts, r.Class)

	return strings.Join(parts, resourceSeparator)
}

// Host returns the host of a TCPIP resource.
func (r *ResourceName) Host() string {
	if r.Interface != InterfaceTCPIP || len(r.Address) == 0 {
		return ""
	}

	return r.Address[0]
}

// Port returns the TCP port of a TCPIP socket resource.
func (r *ResourceName) Port() string {
	if r.Interface != InterfaceTCPIP || r.Class != ClassSocket || len(r.Address) < 2 {
		return ""
	}

	return r.Address[1]
}

// SerialPort returns the operating system port name of an ASRL resource.
// Numeric boards map to COMn on Windows and /dev/ttyS(n-1) elsewhere,
// names and paths are kept as is.
func (r *ResourceName) SerialPort() string {
	if r.Interface != InterfaceASRL {
		return ""
	}

	n, err := strconv.Atoi(r.Board)
	if err != nil {
		return r.Board
	}

	if runtime.GOOS == "windows" {
		return "COM" + r.Board
	}

	return "/dev/ttyS" + strconv.Itoa(max(n-1, 0))
}
