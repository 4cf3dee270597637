package main

import (
	"log"
	"os"

	"github.com/pirate-wallet/keystore/internal/backend"
	"github.com/pirate-wallet/keystore/internal/protect"
)

func main() {
	dir := backend.DefaultDir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		log.Fatalf("create keystore directory: %v", err)
	}

	if _, err := protect.LoadOrCreateKeyfile(backend.DefaultKeyfilePath()); err != nil {
		log.Fatalf("initialize protection keyfile: %v", err)
	}
}
