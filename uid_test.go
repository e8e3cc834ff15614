package patchbay

import "testing"

// TestUIDString verifies the rendered identity forms.
func TestUIDString(t *testing.T) {
	static := StaticUID{Manufacturer: 0x6574, Device: 0x1234}
	if got := static.String(); got != "6574:00001234" {
		t.Errorf("static UID string = %q", got)
	}

	dynamic := DynamicUID{Manufacturer: 0x7ff1}
	if got := dynamic.String(); got != "7ff1:dynamic" {
		t.Errorf("dynamic UID string = %q", got)
	}
}

// TestUIDManufacturerID verifies the shared accessor across both variants.
func TestUIDManufacturerID(t *testing.T) {
	var uid UID = StaticUID{Manufacturer: 1234, Device: 1}
	if uid.ManufacturerID() != 1234 {
		t.Errorf("static manufacturer = %d", uid.ManufacturerID())
	}

	uid = DynamicUID{Manufacturer: 25972}
	if uid.ManufacturerID() != 25972 {
		t.Errorf("dynamic manufacturer = %d", uid.ManufacturerID())
	}
}

// TestUIDComparable verifies that both variants compare by value, so records
// holding equal identities are equal.
func TestUIDComparable(t *testing.T) {
	var a UID = StaticUID{Manufacturer: 1, Device: 2}
	var b UID = StaticUID{Manufacturer: 1, Device: 2}
	if a != b {
		t.Error("equal static UIDs should compare equal")
	}

	var c UID = DynamicUID{Manufacturer: 1}
	if a == c {
		t.Error("static and dynamic UIDs should never compare equal")
	}
}

// TestValidManufacturerID verifies the open-interval bounds.
func TestValidManufacturerID(t *testing.T) {
	tests := []struct {
		id   int64
		want bool
	}{
		{-1, false},
		{0, false},
		{1, true},
		{0x7fff, true},
		{0x8000, false},
		{0x10000, false},
	}
	for _, tt := range tests {
		if got := validManufacturerID(tt.id); got != tt.want {
			t.Errorf("validManufacturerID(%#x) = %v, want %v", tt.id, got, tt.want)
		}
	}
}
