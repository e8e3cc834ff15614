// Package netint resolves configured listen restrictions against the
// machine's network interfaces.
package netint

import (
	"fmt"
	"net"
	"net/netip"
	"sort"

	"github.com/patchbay-lx/patchbay"
)

// Interface is one network interface with the attributes listen resolution
// needs.
type Interface struct {
	Name  string
	MAC   patchbay.MACAddr // Zero when the interface has no 48-bit address
	Addrs []netip.Addr
}

// Interfaces enumerates the machine's network interfaces. Interfaces whose
// addresses cannot be read are listed without addresses rather than failing
// the whole enumeration.
func Interfaces() ([]Interface, error) {
	sys, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("netint: list interfaces: %w", err)
	}

	out := make([]Interface, 0, len(sys))
	for _, si := range sys {
		iface := Interface{Name: si.Name}
		if len(si.HardwareAddr) == 6 {
			copy(iface.MAC[:], si.HardwareAddr)
		}
		if addrs, err := si.Addrs(); err == nil {
			for _, addr := range addrs {
				if ip, ok := addrOf(addr); ok {
					iface.Addrs = append(iface.Addrs, ip)
				}
			}
		}
		out = append(out, iface)
	}
	return out, nil
}

// addrOf extracts the bare address from the forms net.Interface.Addrs
// returns, unmapping 4-in-6 addresses so they match parsed document values.
func addrOf(addr net.Addr) (netip.Addr, bool) {
	var ip net.IP
	switch v := addr.(type) {
	case *net.IPNet:
		ip = v.IP
	case *net.IPAddr:
		ip = v.IP
	default:
		return netip.Addr{}, false
	}
	parsed, ok := netip.AddrFromSlice(ip)
	if !ok {
		return netip.Addr{}, false
	}
	return parsed.Unmap(), true
}

// ListenAddrs resolves the restrictions in s to the concrete addresses the
// broker should bind: the configured addresses plus every address of each
// interface whose MAC is configured, deduplicated and sorted.
//
// A nil result means unrestricted (no MACs or addresses configured). An
// empty non-nil result means the restrictions matched nothing on this
// machine. Configured MACs that matched no interface come back in missing so
// the caller can report them.
func ListenAddrs(ifaces []Interface, s *patchbay.Settings) (addrs []netip.Addr, missing []patchbay.MACAddr) {
	if len(s.ListenMACs) == 0 && len(s.ListenAddrs) == 0 {
		return nil, nil
	}

	set := make(map[netip.Addr]struct{}, len(s.ListenAddrs))
	for addr := range s.ListenAddrs {
		set[addr] = struct{}{}
	}

	for _, mac := range s.MACList() {
		found := false
		for i := range ifaces {
			if ifaces[i].MAC != mac {
				continue
			}
			found = true
			for _, addr := range ifaces[i].Addrs {
				set[addr] = struct{}{}
			}
		}
		if !found {
			missing = append(missing, mac)
		}
	}

	addrs = make([]netip.Addr, 0, len(set))
	for addr := range set {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].Less(addrs[j]) })
	return addrs, missing
}
