package main

import (
	"github.com/BurntSushi/toml"

	"github.com/bdimitrov/chipsfs/fs"
	"github.com/bdimitrov/chipsfs/log"
)

// parseConfig decodes the toml config file. Without one, snapshots go to the
// scratch backend.
func parseConfig(location string) (cfg fs.Config) {
	if location == "" {
		return
	}
	if _, err := toml.DecodeFile(location, &cfg); err != nil {
		log.Fatalf("decoding config: %s", err)
	}
	return
}
