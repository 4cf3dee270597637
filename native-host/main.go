// Command keystore-host serves the wallet keystore over length-prefixed
// JSON frames on stdin/stdout, the framing used by native messaging
// hosts. Each frame is a 4-byte little-endian length followed by a JSON
// request envelope.
package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pirate-wallet/keystore/internal/audit"
	"github.com/pirate-wallet/keystore/internal/backend"
	"github.com/pirate-wallet/keystore/internal/keystore"
)

const (
	version      = "0.1.0"
	bufferSize   = 1 << 16
	maxFrameSize = 1 << 20
)

// Behavior:
//  1. Opens the platform backend and optional audit trail from flags.
//  2. Installs signal handlers that close the audit trail before exiting.
//  3. Loops reading request frames, dispatching them, and writing responses.
func main() {
	service := flag.String("service", keystore.DefaultService, "secret store service/schema name")
	dir := flag.String("dir", "", "override directory for file-backed storage")
	keyfile := flag.String("keyfile", "", "override path of the local protection keyfile")
	auditPath := flag.String("audit", "", "path to the audit trail database (disabled when empty)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("keystore-host", version)
		return
	}

	b, err := backend.Open(backend.Config{
		Service:     *service,
		Dir:         *dir,
		KeyfilePath: *keyfile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "keystore-host: open backend: %v\n", err)
		os.Exit(1)
	}

	var trail *audit.Log
	if *auditPath != "" {
		trail, err = audit.Open(*auditPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "keystore-host: open audit trail: %v\n", err)
			os.Exit(1)
		}
	}

	h := &host{vault: keystore.New(b, keystore.Config{Audit: trail})}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		trail.Close()
		os.Exit(0)
	}()

	reader := bufio.NewReaderSize(os.Stdin, bufferSize)
	writer := bufio.NewWriterSize(os.Stdout, bufferSize)

	for {
		payload, err := readFrame(reader)
		if err != nil {
			if errors.Is(err, io.EOF) {
				trail.Close()
				return
			}
			fmt.Fprintf(os.Stderr, "keystore-host: read error: %v\n", err)
			trail.Close()
			return
		}

		resp := h.handle(payload)

		if err := writeFrame(writer, resp); err != nil {
			fmt.Fprintf(os.Stderr, "keystore-host: write error: %v\n", err)
			trail.Close()
			return
		}
	}
}

// readFrame consumes one native messaging frame.
//
// Behavior:
//  1. Reads the 4-byte little-endian length prefix.
//  2. Rejects frames larger than maxFrameSize.
//  3. Reads the full payload into memory and returns it.
func readFrame(r *bufio.Reader) ([]byte, error) {
	lenBuf := make([]byte, 4)
	if _, err := io.ReadFull(r, lenBuf); err != nil {
		return nil, err
	}
	length := binary.LittleEndian.Uint32(lenBuf)
	if length > maxFrameSize {
		return nil, fmt.Errorf("frame too large: %d", length)
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// writeFrame emits a response using the same length-prefixed framing.
func writeFrame(w *bufio.Writer, resp response) error {
	encoded, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	lenBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBuf, uint32(len(encoded)))
	if _, err := w.Write(lenBuf); err != nil {
		return err
	}
	if _, err := w.Write(encoded); err != nil {
		return err
	}
	return w.Flush()
}
