package patchbay_test

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/patchbay-lx/patchbay"
)

// Example demonstrates loading a broker configuration document.
func Example() {
	// Pin the fallback identity so unconfigured fields are reproducible
	// here; a service would pass its machine-stable CID.
	loader := patchbay.NewLoader().
		WithDefaultCID(uuid.MustParse("745d9b79-0f3a-4046-b5de-e81280bbb973"))

	settings, err := loader.LoadBytes([]byte(`{
		"scope": "studio-3",
		"listen_port": 8888,
		"uid": {"type": "static", "manufacturer_id": 1234, "device_id": 5678}
	}`))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Scope: %s\n", settings.Scope)
	fmt.Printf("Port: %d\n", settings.ListenPort)
	fmt.Printf("UID: %s\n", settings.UID)
	fmt.Printf("CID: %s\n", settings.CID)

	// Output:
	// Scope: studio-3
	// Port: 8888
	// UID: 04d2:0000162e
	// CID: 745d9b79-0f3a-4046-b5de-e81280bbb973
}

// ExampleLoader_Defaults demonstrates the record an empty document produces.
func ExampleLoader_Defaults() {
	loader := patchbay.NewLoader().
		WithDefaultCID(uuid.MustParse("745d9b79-0f3a-4046-b5de-e81280bbb973"))

	settings := loader.Defaults()

	fmt.Printf("Scope: %s\n", settings.Scope)
	fmt.Printf("UID: %s\n", settings.UID)
	fmt.Printf("Name: %s\n", settings.DNSSD.ServiceInstanceName)
	fmt.Printf("Reject limit: %d\n", settings.MaxRejectConnections)

	// Output:
	// Scope: default
	// UID: 7ff1:dynamic
	// Name: Patchbay Broker 745d9b79-0f3a-4046-b5de-e81280bbb973
	// Reject limit: 1000
}

// ExampleLoader_LoadBytes_invalid demonstrates the fail-fast error for an
// invalid setting.
func ExampleLoader_LoadBytes_invalid() {
	loader := patchbay.NewLoader()

	_, err := loader.LoadBytes([]byte(`{"listen_port": 99999}`))

	var fieldErr *patchbay.FieldError
	if errors.As(err, &fieldErr) {
		fmt.Printf("Path: %s\n", fieldErr.Path)
		fmt.Printf("Code: %s\n", fieldErr.Code)
	}
	fmt.Println(err)

	// Output:
	// Path: /listen_port
	// Code: invalid_value
	// patchbay: invalid setting /listen_port: 99999 is outside [1024, 65535] (invalid_value)
}

// ExampleDumpEffective demonstrates the text rendering of a record.
func ExampleDumpEffective() {
	loader := patchbay.NewLoader().
		WithDefaultCID(uuid.MustParse("745d9b79-0f3a-4046-b5de-e81280bbb973"))

	settings, err := loader.LoadBytes([]byte(`{"scope": "studio-3", "listen_port": 5569}`))
	if err != nil {
		log.Fatal(err)
	}

	if err := patchbay.DumpEffective(os.Stdout, settings, patchbay.WithOrigins()); err != nil {
		log.Fatal(err)
	}

	// Output:
	// /cid: 745d9b79-0f3a-4046-b5de-e81280bbb973 (origin: default)
	// /uid: 7ff1:dynamic (origin: default)
	// /dns_sd/service_instance_name: "Patchbay Broker 745d9b79-0f3a-4046-b5de-e81280bbb973" (origin: default)
	// /dns_sd/manufacturer: "Patchbay" (origin: default)
	// /dns_sd/model: "Patchbay Broker Service" (origin: default)
	// /scope: "studio-3" (origin: config)
	// /listen_port: 5569 (origin: config)
	// /listen_macs: [] (origin: default)
	// /listen_addrs: [] (origin: default)
	// /max_connections: 0 (origin: default)
	// /max_controllers: 0 (origin: default)
	// /max_controller_messages: 500 (origin: default)
	// /max_devices: 0 (origin: default)
	// /max_device_messages: 500 (origin: default)
	// /max_reject_connections: 1000 (origin: default)
}
