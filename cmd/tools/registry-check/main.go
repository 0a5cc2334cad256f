// cmd/tools/registry-check/main.go

// registry-check validates the activity registry and prints its catalog.
// Run it in CI to catch malformed registry edits before deploy:
//
//	go run ./cmd/tools/registry-check -path configs/activity_registry.json
package main

import (
	"flag"
	"fmt"
	"os"

	"disposition-engine/pkg/registry"
)

func main() {
	path := flag.String("path", "configs/activity_registry.json", "Path to the activity registry file")
	flag.Parse()

	reg, err := registry.Load(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "registry-check: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Registry %s (updated %s) is valid. %d activities:\n", reg.Version, reg.LastUpdated, len(reg.Activities))
	for _, a := range reg.Activities {
		fmt.Printf("  %-24s %s (timeout %dms, retries %d)\n", a.TaskType, a.DisplayName, a.TimeoutMs, a.MaxRetries)
	}
}
