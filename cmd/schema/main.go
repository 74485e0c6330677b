// Command schema writes json schema of espiscope config, embedded by pkg/config for verification.
// Usage: schema [output], schema.json by default.
package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/umputun/espiscope/pkg/config"
)

func main() {
	out := "schema.json"
	if len(os.Args) > 1 {
		out = os.Args[1]
	}

	schema, err := config.GenerateSchema()
	if err != nil {
		log.Fatalf("can't reflect config: %v", err)
	}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("can't encode schema: %v", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(out, data, 0o644); err != nil { //nolint:gosec // committed next to the code
		log.Fatalf("can't write %s: %v", out, err)
	}
	log.Printf("config schema written to %s", out)
}
