package main

import (
	"os"

	"gopkg.in/yaml.v2"
	"sam-server/internal/config"
)

// writes the default configuration, e.g. go run ./cmd/generate-config > config.yaml
func main() {
	if err := yaml.NewEncoder(os.Stdout).Encode(config.DefaultConfig()); err != nil {
		panic(err)
	}
}
