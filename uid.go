package patchbay

import "fmt"

// Manufacturer id bounds. Valid ids are strictly between the two, so the
// all-zero id and ids with the high bit set are never accepted from a
// document.
const (
	minManufacturerID = 0x0000
	maxManufacturerID = 0x8000
)

// UID is the responder identity the broker advertises on the network. It is
// a closed union of exactly two variants: StaticUID carries a device id
// fixed by configuration, DynamicUID asks the network to assign one at
// connection time.
//
// The interface is sealed; code consuming a UID type-switches over the two
// variants and can rely on never seeing a third.
type UID interface {
	// ManufacturerID returns the ESTA manufacturer id, always in
	// (0x0000, 0x8000) for values produced by this package.
	ManufacturerID() uint16

	// String renders the identity for logs and dumps.
	String() string

	sealed()
}

// StaticUID is a fully specified identity: manufacturer and device id both
// come from configuration.
type StaticUID struct {
	Manufacturer uint16
	Device       uint32
}

// DynamicUID carries only a manufacturer id; the device id is assigned
// dynamically when the broker joins the network.
type DynamicUID struct {
	Manufacturer uint16
}

// ManufacturerID returns the configured manufacturer id.
func (u StaticUID) ManufacturerID() uint16 { return u.Manufacturer }

// ManufacturerID returns the configured manufacturer id.
func (u DynamicUID) ManufacturerID() uint16 { return u.Manufacturer }

func (u StaticUID) String() string {
	return fmt.Sprintf("%04x:%08x", u.Manufacturer, u.Device)
}

func (u DynamicUID) String() string {
	return fmt.Sprintf("%04x:dynamic", u.Manufacturer)
}

func (StaticUID) sealed()  {}
func (DynamicUID) sealed() {}

// validManufacturerID reports whether an id parsed from a document may be
// narrowed to the uint16 manufacturer field.
func validManufacturerID(id int64) bool {
	return id > minManufacturerID && id < maxManufacturerID
}
