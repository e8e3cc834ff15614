package patchbay

import "testing"

// TestParseMACAddr verifies the accepted spellings and the 48-bit
// requirement.
func TestParseMACAddr(t *testing.T) {
	want := MACAddr{0x00, 0xc0, 0x16, 0x12, 0x34, 0x56}

	for _, s := range []string{
		"00:c0:16:12:34:56",
		"00-c0-16-12-34-56",
		"00C0.1612.3456",
	} {
		mac, err := ParseMACAddr(s)
		if err != nil {
			t.Errorf("ParseMACAddr(%q) failed: %v", s, err)
			continue
		}
		if mac != want {
			t.Errorf("ParseMACAddr(%q) = %v, want %v", s, mac, want)
		}
	}

	invalid := []string{
		"",
		"not-a-mac",
		"00:c0:16:12:34",                          // too short
		"02:00:5e:10:00:00:00:01",                 // EUI-64
		"00:00:00:00:00:00:00:00:00:00:00:00:00:00:00:00:00:00:00:01", // InfiniBand
		"00:00:00:00:00:00",                       // null address
	}
	for _, s := range invalid {
		if _, err := ParseMACAddr(s); err == nil {
			t.Errorf("ParseMACAddr(%q) should fail", s)
		}
	}
}

// TestMACAddrString verifies canonical rendering.
func TestMACAddrString(t *testing.T) {
	mac, err := ParseMACAddr("AA-BB-CC-DD-EE-FF")
	if err != nil {
		t.Fatal(err)
	}
	if mac.String() != "aa:bb:cc:dd:ee:ff" {
		t.Errorf("String() = %q", mac.String())
	}
}

// TestMACAddrCompare verifies bytewise ordering.
func TestMACAddrCompare(t *testing.T) {
	low := MACAddr{0x00, 0x00, 0x00, 0x00, 0x00, 0x01}
	high := MACAddr{0xff, 0x00, 0x00, 0x00, 0x00, 0x00}

	if low.Compare(high) >= 0 {
		t.Error("low should order before high")
	}
	if high.Compare(low) <= 0 {
		t.Error("high should order after low")
	}
	if low.Compare(low) != 0 {
		t.Error("an address should compare equal to itself")
	}
}

// TestMACAddrIsZero verifies the null address check.
func TestMACAddrIsZero(t *testing.T) {
	if !(MACAddr{}).IsZero() {
		t.Error("the zero value should be zero")
	}
	if (MACAddr{0, 0, 0, 0, 0, 1}).IsZero() {
		t.Error("a non-zero address should not be zero")
	}
}
