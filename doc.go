// Package patchbay loads, validates, and persists broker settings with
// fail-fast schema validation and per-setting origin tracking.
//
// Quick Start:
//
//	loader := patchbay.NewLoader().WithDefaultCID(machineCID)
//
//	settings, err := loader.LoadFile("/etc/patchbay/broker.conf")
//
// Documents are JSON by default (YAML and TOML work too). Every recognized
// setting may be omitted or set to null to take its default; the first
// invalid setting aborts the load with a *FieldError naming it.
//
// See example_test.go for detailed usage.
package patchbay
