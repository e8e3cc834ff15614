package patchbay

import (
	"maps"
	"net/netip"
	"sort"

	"github.com/google/uuid"
)

// Discovery strings are advertised in fixed-size padded records, so their
// usable length is the padded size minus the terminator byte. Limits are in
// bytes, not runes; truncation slices the raw byte string.
const (
	serviceNamePaddedLen  = 64
	manufacturerPaddedLen = 250
	modelPaddedLen        = 250
	scopePaddedLen        = 63

	// MaxServiceNameLen is the longest accepted service instance name.
	MaxServiceNameLen = serviceNamePaddedLen - 1
	// MaxManufacturerLen is the longest accepted manufacturer string.
	MaxManufacturerLen = manufacturerPaddedLen - 1
	// MaxModelLen is the longest accepted model string.
	MaxModelLen = modelPaddedLen - 1
	// MaxScopeLen is the longest accepted scope. Scopes over the limit are
	// rejected rather than truncated: a truncated scope would silently place
	// the broker in a different discovery domain.
	MaxScopeLen = scopePaddedLen - 1
)

// Listen port bounds. Zero means "let the platform pick an ephemeral port"
// and is only reachable through the default, never through a document.
const (
	MinListenPort = 1024
	MaxListenPort = 65535
)

// Defaults applied when the corresponding key is absent or null.
const (
	// DefaultScope is the discovery scope brokers start in.
	DefaultScope = "default"

	// DefaultManufacturer and DefaultModel fill the discovery record when
	// the document does not brand the broker.
	DefaultManufacturer = "Patchbay"
	DefaultModel        = "Patchbay Broker Service"

	// DefaultManufacturerID is the prototype-range ESTA id used for the
	// default dynamic UID.
	DefaultManufacturerID = 0x7ff1

	// serviceNamePrefix is completed with the loader's default CID so that
	// two unconfigured brokers on one network stay distinguishable.
	serviceNamePrefix = "Patchbay Broker "
)

// Default client limits. Zero means unlimited.
const (
	DefaultMaxConnections        = 0
	DefaultMaxControllers        = 0
	DefaultMaxControllerMessages = 500
	DefaultMaxDevices            = 0
	DefaultMaxDeviceMessages     = 500
	DefaultMaxRejectConnections  = 1000
)

// Origin records which step of a load populated a setting.
type Origin int

const (
	// OriginDefault means the setting's default step ran (key absent or null).
	OriginDefault Origin = iota
	// OriginConfig means the value came from the document.
	OriginConfig
)

// String returns "default" or "config".
func (o Origin) String() string {
	switch o {
	case OriginDefault:
		return "default"
	case OriginConfig:
		return "config"
	default:
		return "unknown"
	}
}

// DNSSD holds the strings advertised in the broker's discovery record.
type DNSSD struct {
	ServiceInstanceName string
	Manufacturer        string
	Model               string
}

// Settings is a validated broker configuration. Records are produced by a
// Loader; every field of a loaded record holds either a document value or
// its default, never an accidental zero value.
//
// A Settings value is immutable by convention once handed out. Callers that
// need to adjust one (e.g. to apply command-line overrides) should work on a
// Clone.
type Settings struct {
	// CID is the broker's component identifier, stable across restarts when
	// configured or seeded through Loader.WithDefaultCID.
	CID uuid.UUID

	// UID is the broker's responder identity, static or dynamic.
	UID UID

	// DNSSD configures the discovery advertisement.
	DNSSD DNSSD

	// Scope is the discovery scope, never empty.
	Scope string

	// ListenPort is the TCP port to listen on. Zero requests an ephemeral
	// port; configured values are within [MinListenPort, MaxListenPort].
	ListenPort uint16

	// ListenMACs restricts listening to the interfaces carrying these
	// hardware addresses. Empty means listen everywhere.
	ListenMACs map[MACAddr]struct{}

	// ListenAddrs restricts listening to these interface addresses. Empty
	// means listen everywhere.
	ListenAddrs map[netip.Addr]struct{}

	// Client limits. Zero means unlimited.
	MaxConnections        uint32
	MaxControllers        uint32
	MaxControllerMessages uint32
	MaxDevices            uint32
	MaxDeviceMessages     uint32
	MaxRejectConnections  uint32

	origins map[string]Origin
}

// Origin reports where the value at a recognized pointer path came from in
// the load that produced this record. ok is false for paths the schema does
// not recognize and for records not produced by a Loader.
func (s *Settings) Origin(path string) (o Origin, ok bool) {
	o, ok = s.origins[path]
	return o, ok
}

// Clone returns a deep copy. The copy shares nothing with the original, so
// mutating its sets is safe.
func (s *Settings) Clone() *Settings {
	out := *s
	out.ListenMACs = maps.Clone(s.ListenMACs)
	out.ListenAddrs = maps.Clone(s.ListenAddrs)
	out.origins = maps.Clone(s.origins)
	return &out
}

// MACList returns the listen MACs in bytewise order.
func (s *Settings) MACList() []MACAddr {
	macs := make([]MACAddr, 0, len(s.ListenMACs))
	for mac := range s.ListenMACs {
		macs = append(macs, mac)
	}
	sort.Slice(macs, func(i, j int) bool { return macs[i].Compare(macs[j]) < 0 })
	return macs
}

// AddrList returns the listen addresses in canonical order.
func (s *Settings) AddrList() []netip.Addr {
	addrs := make([]netip.Addr, 0, len(s.ListenAddrs))
	for addr := range s.ListenAddrs {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].Less(addrs[j]) })
	return addrs
}
