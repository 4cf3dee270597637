// Debug utility that lists the entries of a file-backed keystore
// directory. It prints identifiers and blob sizes only, never key
// material.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func main() {
	dir := flag.String("dir", "", "keystore directory containing key_*.bin files")
	flag.Parse()

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "missing required flag: --dir")
		os.Exit(1)
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read directory: %v\n", err)
		os.Exit(1)
	}

	var found bool
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "key_") || !strings.HasSuffix(name, ".bin") {
			continue
		}
		found = true

		encoded := strings.TrimSuffix(strings.TrimPrefix(name, "key_"), ".bin")
		id, err := hex.DecodeString(encoded)
		if err != nil {
			fmt.Printf("%s  (unparseable identifier)\n", name)
			continue
		}

		info, err := entry.Info()
		if err != nil {
			fmt.Printf("%s  id=%q\n", name, id)
			continue
		}
		fmt.Printf("%s  id=%q  %d bytes\n", name, id, info.Size())
	}

	if !found {
		fmt.Println("no keys found in", filepath.Clean(*dir))
	}
}
