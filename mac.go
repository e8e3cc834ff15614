package patchbay

import (
	"bytes"
	"fmt"
	"net"
)

// MACAddr is a 48-bit hardware address, comparable so it can key a set.
type MACAddr [6]byte

// ParseMACAddr parses the textual MAC forms accepted by the platform
// (colon, hyphen, or dot separated). Only 48-bit addresses are accepted;
// EUI-64 and InfiniBand forms are rejected, as is the all-zero address.
func ParseMACAddr(s string) (MACAddr, error) {
	hw, err := net.ParseMAC(s)
	if err != nil {
		return MACAddr{}, fmt.Errorf("patchbay: parse MAC %q: %w", s, err)
	}
	if len(hw) != 6 {
		return MACAddr{}, fmt.Errorf("patchbay: MAC %q is not 48 bits", s)
	}
	var mac MACAddr
	copy(mac[:], hw)
	if mac.IsZero() {
		return MACAddr{}, fmt.Errorf("patchbay: MAC %q is the null address", s)
	}
	return mac, nil
}

// IsZero reports whether the address is all zeros.
func (m MACAddr) IsZero() bool {
	return m == MACAddr{}
}

// Compare orders addresses bytewise, for deterministic listings.
func (m MACAddr) Compare(other MACAddr) int {
	return bytes.Compare(m[:], other[:])
}

// String renders the address in the canonical colon-separated form.
func (m MACAddr) String() string {
	return net.HardwareAddr(m[:]).String()
}
