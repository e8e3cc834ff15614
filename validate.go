package patchbay

import (
	"encoding/json"
	"fmt"
	"math"
	"net/netip"

	"github.com/google/uuid"
)

// stringPolicy decides what happens to a string longer than its limit.
type stringPolicy int

const (
	// truncateOverLimit keeps the leading limit bytes.
	truncateOverLimit stringPolicy = iota
	// rejectOverLimit fails the setting instead of shortening it.
	rejectOverLimit
)

// storeCID parses and stores the component identifier. The nil UUID is
// rejected; a broker must never advertise the all-zero identity.
func storeCID(val any, ld *load) error {
	id, err := uuid.Parse(val.(string))
	if err != nil {
		return fmt.Errorf("%q is not a UUID", val)
	}
	if id == uuid.Nil {
		return fmt.Errorf("the nil UUID is not a valid CID")
	}
	ld.settings.CID = id
	return nil
}

// storeUID validates the responder identity object and stores one of the two
// UID variants. The object is a closed shape:
//
//	{"type": "static", "manufacturer_id": m, "device_id": d}
//	{"type": "dynamic", "manufacturer_id": m}
//
// Any other combination fails, including a dynamic identity that carries a
// device_id (even a null one).
func storeUID(val any, ld *load) error {
	obj := val.(map[string]any)

	rawType, ok := obj["type"]
	if !ok || kindOf(rawType) != kindString {
		return fmt.Errorf(`"type" must be "static" or "dynamic"`)
	}
	rawManu, ok := obj["manufacturer_id"]
	if !ok || !isIntegerKind(kindOf(rawManu)) {
		return fmt.Errorf(`"manufacturer_id" must be an integer`)
	}
	manu, err := toInt64(rawManu)
	if err != nil {
		return fmt.Errorf(`"manufacturer_id" %v`, err)
	}
	if !validManufacturerID(manu) {
		return fmt.Errorf(`"manufacturer_id" %d is outside (0x0000, 0x8000)`, manu)
	}

	switch rawType.(string) {
	case "static":
		rawDev, ok := obj["device_id"]
		if !ok || !isIntegerKind(kindOf(rawDev)) {
			return fmt.Errorf(`a static UID requires an integer "device_id"`)
		}
		dev, err := toInt64(rawDev)
		if err != nil {
			return fmt.Errorf(`"device_id" %v`, err)
		}
		if dev < 0 || dev > math.MaxUint32 {
			return fmt.Errorf(`"device_id" %d is outside [0, 0xffffffff]`, dev)
		}
		ld.settings.UID = StaticUID{Manufacturer: uint16(manu), Device: uint32(dev)}
	case "dynamic":
		if _, present := obj["device_id"]; present {
			return fmt.Errorf(`a dynamic UID must not carry a "device_id"`)
		}
		ld.settings.UID = DynamicUID{Manufacturer: uint16(manu)}
	default:
		return fmt.Errorf(`unknown UID type %q`, rawType.(string))
	}
	return nil
}

// storeString validates a bounded, non-empty string and stores it through
// dst. Over-limit handling follows the policy: discovery strings truncate to
// exactly limit bytes, the scope rejects instead.
func storeString(val any, dst *string, limit int, policy stringPolicy) error {
	s := val.(string)
	if s == "" {
		return fmt.Errorf("must not be empty")
	}
	if len(s) > limit {
		if policy == rejectOverLimit {
			return fmt.Errorf("%d bytes is over the %d byte limit", len(s), limit)
		}
		s = s[:limit]
	}
	*dst = s
	return nil
}

// storeInt range-checks an integer and narrows it into dst. All comparison
// happens in int64; values that cannot be represented there are invalid.
func storeInt[T uint16 | uint32](val any, dst *T, lo, hi int64) error {
	n, err := toInt64(val)
	if err != nil {
		return err
	}
	if n < lo || n > hi {
		return fmt.Errorf("%d is outside [%d, %d]", n, lo, hi)
	}
	*dst = T(n)
	return nil
}

// toInt64 widens any decoded integer representation. The shape check has
// already run, so the default case only fires for integers too large for
// int64.
func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%s does not fit in 64 bits", string(n))
		}
		return i, nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%d does not fit in 64 bits", n)
		}
		return int64(n), nil
	default:
		return 0, fmt.Errorf("is not an integer")
	}
}

// storeMACSet rebuilds the listen MAC set from an array of strings. The set
// is all-or-nothing: the first element that fails leaves the setting empty
// and fails the load.
func storeMACSet(val any, ld *load) error {
	ld.settings.ListenMACs = make(map[MACAddr]struct{})
	for _, item := range val.([]any) {
		s, ok := item.(string)
		if !ok {
			ld.settings.ListenMACs = make(map[MACAddr]struct{})
			return fmt.Errorf("elements must be MAC address strings, got %s", kindName(kindOf(item)))
		}
		mac, err := ParseMACAddr(s)
		if err != nil {
			ld.settings.ListenMACs = make(map[MACAddr]struct{})
			return fmt.Errorf("%q is not a valid MAC address", s)
		}
		ld.settings.ListenMACs[mac] = struct{}{}
	}
	return nil
}

// storeAddrSet rebuilds the listen address set from an array of strings,
// with the same all-or-nothing behavior as storeMACSet.
func storeAddrSet(val any, ld *load) error {
	ld.settings.ListenAddrs = make(map[netip.Addr]struct{})
	for _, item := range val.([]any) {
		s, ok := item.(string)
		if !ok {
			ld.settings.ListenAddrs = make(map[netip.Addr]struct{})
			return fmt.Errorf("elements must be IP address strings, got %s", kindName(kindOf(item)))
		}
		addr, err := netip.ParseAddr(s)
		if err != nil {
			ld.settings.ListenAddrs = make(map[netip.Addr]struct{})
			return fmt.Errorf("%q is not a valid IP address", s)
		}
		ld.settings.ListenAddrs[addr] = struct{}{}
	}
	return nil
}
