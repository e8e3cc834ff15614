package patchbay

import (
	"math"
	"net/netip"

	"github.com/google/uuid"
)

// load is one validation pass in flight: the record being populated and the
// identity to fall back on when the document does not supply one.
type load struct {
	settings   *Settings
	defaultCID uuid.UUID
}

// newLoad starts a pass with an empty record.
func newLoad(defaultCID uuid.UUID) *load {
	return &load{
		settings: &Settings{
			origins: make(map[string]Origin, len(settingsSchema)),
		},
		defaultCID: defaultCID,
	}
}

// fieldSchema describes one recognized setting: where it lives in the
// document, the shape it must have there, how to validate and store it, and
// how to populate its default. Every entry carries both functions, so a
// loaded record never contains an accidental zero value.
type fieldSchema struct {
	path  string
	kind  valueKind
	store func(val any, ld *load) error
	def   func(ld *load)
}

// settingsSchema is the authoritative table of recognized settings. Adding a
// setting means adding a row; the driver in config.go never changes.
//
// The table is ordered and the driver validates top to bottom, so the first
// invalid setting in table order is the one reported. Package state, never
// mutated after initialization.
var settingsSchema = []fieldSchema{
	{
		path:  "/cid",
		kind:  kindString,
		store: storeCID,
		def:   func(ld *load) { ld.settings.CID = ld.defaultCID },
	},
	{
		path:  "/uid",
		kind:  kindObject,
		store: storeUID,
		def: func(ld *load) {
			ld.settings.UID = DynamicUID{Manufacturer: DefaultManufacturerID}
		},
	},
	{
		path: "/dns_sd/service_instance_name",
		kind: kindString,
		store: func(val any, ld *load) error {
			return storeString(val, &ld.settings.DNSSD.ServiceInstanceName, MaxServiceNameLen, truncateOverLimit)
		},
		// The default name embeds the loader's default CID, not the loaded
		// one, so it stays stable even when the document sets its own cid.
		def: func(ld *load) {
			ld.settings.DNSSD.ServiceInstanceName = serviceNamePrefix + ld.defaultCID.String()
		},
	},
	{
		path: "/dns_sd/manufacturer",
		kind: kindString,
		store: func(val any, ld *load) error {
			return storeString(val, &ld.settings.DNSSD.Manufacturer, MaxManufacturerLen, truncateOverLimit)
		},
		def: func(ld *load) { ld.settings.DNSSD.Manufacturer = DefaultManufacturer },
	},
	{
		path: "/dns_sd/model",
		kind: kindString,
		store: func(val any, ld *load) error {
			return storeString(val, &ld.settings.DNSSD.Model, MaxModelLen, truncateOverLimit)
		},
		def: func(ld *load) { ld.settings.DNSSD.Model = DefaultModel },
	},
	{
		path: "/scope",
		kind: kindString,
		store: func(val any, ld *load) error {
			return storeString(val, &ld.settings.Scope, MaxScopeLen, rejectOverLimit)
		},
		def: func(ld *load) { ld.settings.Scope = DefaultScope },
	},
	{
		path: "/listen_port",
		kind: kindUnsigned,
		store: func(val any, ld *load) error {
			return storeInt(val, &ld.settings.ListenPort, MinListenPort, MaxListenPort)
		},
		def: func(ld *load) { ld.settings.ListenPort = 0 },
	},
	{
		path:  "/listen_macs",
		kind:  kindArray,
		store: storeMACSet,
		def:   func(ld *load) { ld.settings.ListenMACs = make(map[MACAddr]struct{}) },
	},
	{
		path:  "/listen_addrs",
		kind:  kindArray,
		store: storeAddrSet,
		def:   func(ld *load) { ld.settings.ListenAddrs = make(map[netip.Addr]struct{}) },
	},
	{
		path: "/max_connections",
		kind: kindUnsigned,
		store: func(val any, ld *load) error {
			return storeInt(val, &ld.settings.MaxConnections, 0, math.MaxUint32)
		},
		def: func(ld *load) { ld.settings.MaxConnections = DefaultMaxConnections },
	},
	{
		path: "/max_controllers",
		kind: kindUnsigned,
		store: func(val any, ld *load) error {
			return storeInt(val, &ld.settings.MaxControllers, 0, math.MaxUint32)
		},
		def: func(ld *load) { ld.settings.MaxControllers = DefaultMaxControllers },
	},
	{
		path: "/max_controller_messages",
		kind: kindUnsigned,
		store: func(val any, ld *load) error {
			return storeInt(val, &ld.settings.MaxControllerMessages, 0, math.MaxUint32)
		},
		def: func(ld *load) { ld.settings.MaxControllerMessages = DefaultMaxControllerMessages },
	},
	{
		path: "/max_devices",
		kind: kindUnsigned,
		store: func(val any, ld *load) error {
			return storeInt(val, &ld.settings.MaxDevices, 0, math.MaxUint32)
		},
		def: func(ld *load) { ld.settings.MaxDevices = DefaultMaxDevices },
	},
	{
		path: "/max_device_messages",
		kind: kindUnsigned,
		store: func(val any, ld *load) error {
			return storeInt(val, &ld.settings.MaxDeviceMessages, 0, math.MaxUint32)
		},
		def: func(ld *load) { ld.settings.MaxDeviceMessages = DefaultMaxDeviceMessages },
	},
	{
		path: "/max_reject_connections",
		kind: kindUnsigned,
		store: func(val any, ld *load) error {
			return storeInt(val, &ld.settings.MaxRejectConnections, 0, math.MaxUint32)
		},
		def: func(ld *load) { ld.settings.MaxRejectConnections = DefaultMaxRejectConnections },
	},
}

// SettingPaths returns the recognized pointer paths in table order. Useful
// for tools that enumerate settings (dumps, docs).
func SettingPaths() []string {
	paths := make([]string, len(settingsSchema))
	for i, entry := range settingsSchema {
		paths[i] = entry.path
	}
	return paths
}
