package patchbay

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// DumpOption configures dump behavior using the functional options pattern.
type DumpOption func(*dumpConfig)

// dumpConfig holds options for DumpEffective.
type dumpConfig struct {
	withOrigins bool   // Annotate each setting with where its value came from
	asJSON      bool   // Output as JSON instead of text format
	indent      string // Indentation for JSON output (default: "  ")
}

// WithOrigins annotates each setting with whether its value came from the
// document or from a default. Text form only.
func WithOrigins() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.withOrigins = true
	}
}

// AsJSON outputs the record as a JSON document in the same shape the loader
// accepts, so a dump can be fed back in as a config file.
func AsJSON() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.asJSON = true
	}
}

// WithIndent sets the indentation for JSON output.
// Default is two spaces ("  ").
func WithIndent(indent string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.indent = indent
	}
}

// DumpEffective writes a human-readable representation of a settings record,
// one line per recognized setting in schema order.
// Returns an error if writing to the writer fails.
func DumpEffective(w io.Writer, s *Settings, opts ...DumpOption) error {
	if s == nil {
		return fmt.Errorf("settings is nil")
	}

	// Apply options
	config := dumpConfig{
		indent: "  ", // Default indent
	}
	for _, opt := range opts {
		opt(&config)
	}

	if config.asJSON {
		return dumpAsJSON(w, s, config)
	}
	return dumpAsText(w, s, config)
}

// dumpAsText outputs the record in text format (path: value).
func dumpAsText(w io.Writer, s *Settings, config dumpConfig) error {
	for _, entry := range dumpEntries(s) {
		line := fmt.Sprintf("%s: %s", entry.path, entry.display)
		if config.withOrigins {
			if origin, ok := s.Origin(entry.path); ok {
				line += fmt.Sprintf(" (origin: %s)", origin)
			}
		}
		line += "\n"

		if _, err := w.Write([]byte(line)); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
	}

	return nil
}

// dumpAsJSON outputs the record as a loadable JSON document.
func dumpAsJSON(w io.Writer, s *Settings, config dumpConfig) error {
	var data []byte
	var err error
	if config.indent != "" {
		data, err = json.MarshalIndent(settingsDocument(s), "", config.indent)
	} else {
		data, err = json.Marshal(settingsDocument(s))
	}
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	return nil
}

// dumpEntry holds one rendered setting for text output.
type dumpEntry struct {
	path    string // Document pointer, same key Origin uses
	display string // Rendered value
}

// dumpEntries renders every setting in schema order.
func dumpEntries(s *Settings) []dumpEntry {
	return []dumpEntry{
		{"/cid", s.CID.String()},
		{"/uid", renderUID(s.UID)},
		{"/dns_sd/service_instance_name", fmt.Sprintf("%q", s.DNSSD.ServiceInstanceName)},
		{"/dns_sd/manufacturer", fmt.Sprintf("%q", s.DNSSD.Manufacturer)},
		{"/dns_sd/model", fmt.Sprintf("%q", s.DNSSD.Model)},
		{"/scope", fmt.Sprintf("%q", s.Scope)},
		{"/listen_port", fmt.Sprintf("%d", s.ListenPort)},
		{"/listen_macs", fmt.Sprintf("[%s]", strings.Join(macStrings(s), ", "))},
		{"/listen_addrs", fmt.Sprintf("[%s]", strings.Join(addrStrings(s), ", "))},
		{"/max_connections", fmt.Sprintf("%d", s.MaxConnections)},
		{"/max_controllers", fmt.Sprintf("%d", s.MaxControllers)},
		{"/max_controller_messages", fmt.Sprintf("%d", s.MaxControllerMessages)},
		{"/max_devices", fmt.Sprintf("%d", s.MaxDevices)},
		{"/max_device_messages", fmt.Sprintf("%d", s.MaxDeviceMessages)},
		{"/max_reject_connections", fmt.Sprintf("%d", s.MaxRejectConnections)},
	}
}

func renderUID(u UID) string {
	if u == nil {
		return "<none>"
	}
	return u.String()
}

// settingsJSON mirrors the document shape the loader accepts, with fields in
// the order a hand-written config would use.
type settingsJSON struct {
	CID                   string    `json:"cid"`
	UID                   *uidJSON  `json:"uid"`
	DNSSD                 dnssdJSON `json:"dns_sd"`
	Scope                 string    `json:"scope"`
	ListenPort            *uint16   `json:"listen_port"`
	ListenMACs            []string  `json:"listen_macs"`
	ListenAddrs           []string  `json:"listen_addrs"`
	MaxConnections        uint32    `json:"max_connections"`
	MaxControllers        uint32    `json:"max_controllers"`
	MaxControllerMessages uint32    `json:"max_controller_messages"`
	MaxDevices            uint32    `json:"max_devices"`
	MaxDeviceMessages     uint32    `json:"max_device_messages"`
	MaxRejectConnections  uint32    `json:"max_reject_connections"`
}

type uidJSON struct {
	Type           string  `json:"type"`
	ManufacturerID uint16  `json:"manufacturer_id"`
	DeviceID       *uint32 `json:"device_id,omitempty"`
}

type dnssdJSON struct {
	ServiceInstanceName string `json:"service_instance_name"`
	Manufacturer        string `json:"manufacturer"`
	Model               string `json:"model"`
}

// settingsDocument converts a record to its document form. Values that have
// no document representation render as null: a zero listen port (ephemeral)
// becomes "listen_port": null, which loads back as the same default.
func settingsDocument(s *Settings) *settingsJSON {
	doc := &settingsJSON{
		CID: s.CID.String(),
		UID: uidDocument(s.UID),
		DNSSD: dnssdJSON{
			ServiceInstanceName: s.DNSSD.ServiceInstanceName,
			Manufacturer:        s.DNSSD.Manufacturer,
			Model:               s.DNSSD.Model,
		},
		Scope:                 s.Scope,
		ListenMACs:            macStrings(s),
		ListenAddrs:           addrStrings(s),
		MaxConnections:        s.MaxConnections,
		MaxControllers:        s.MaxControllers,
		MaxControllerMessages: s.MaxControllerMessages,
		MaxDevices:            s.MaxDevices,
		MaxDeviceMessages:     s.MaxDeviceMessages,
		MaxRejectConnections:  s.MaxRejectConnections,
	}
	if s.ListenPort != 0 {
		port := s.ListenPort
		doc.ListenPort = &port
	}
	return doc
}

func uidDocument(u UID) *uidJSON {
	switch uid := u.(type) {
	case StaticUID:
		device := uid.Device
		return &uidJSON{Type: "static", ManufacturerID: uid.Manufacturer, DeviceID: &device}
	case DynamicUID:
		return &uidJSON{Type: "dynamic", ManufacturerID: uid.Manufacturer}
	default:
		return nil
	}
}

// macStrings renders the listen MAC set in bytewise order. The slice is
// always non-nil so the JSON form is [] rather than null.
func macStrings(s *Settings) []string {
	macs := s.MACList()
	out := make([]string, 0, len(macs))
	for _, mac := range macs {
		out = append(out, mac.String())
	}
	return out
}

// addrStrings renders the listen address set in canonical order.
func addrStrings(s *Settings) []string {
	addrs := s.AddrList()
	out := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		out = append(out, addr.String())
	}
	return out
}
