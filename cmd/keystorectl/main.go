// Command keystorectl manages the wallet keystore from the terminal:
// storing, retrieving, and deleting key blobs, sealing and unsealing the
// master key, and moving a sealed key through passphrase-protected
// backup files.
package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/pirate-wallet/keystore/auth"
	"github.com/pirate-wallet/keystore/backup"
	"github.com/pirate-wallet/keystore/internal/audit"
	"github.com/pirate-wallet/keystore/internal/backend"
	"github.com/pirate-wallet/keystore/internal/keystore"
)

const cliVersion = "0.1.0"

type userError struct {
	msg string
}

func (e userError) Error() string { return e.msg }

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "version":
		fmt.Println(cliVersion)
	case "store":
		handleError(runStore(os.Args[2:]))
	case "retrieve":
		handleError(runRetrieve(os.Args[2:]))
	case "delete":
		handleError(runDelete(os.Args[2:]))
	case "exists":
		handleError(runExists(os.Args[2:]))
	case "seal":
		handleError(runSeal(os.Args[2:]))
	case "unseal":
		handleError(runUnseal(os.Args[2:]))
	case "caps":
		handleError(runCaps(os.Args[2:]))
	case "export":
		handleError(runExport(os.Args[2:]))
	case "import":
		handleError(runImport(os.Args[2:]))
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleError(err error) {
	if err == nil {
		return
	}

	var uerr userError
	if errors.As(err, &uerr) {
		fmt.Fprintln(os.Stderr, uerr.Error())
		os.Exit(1)
	}

	var kerr *keystore.Error
	if errors.As(err, &kerr) {
		fmt.Fprintf(os.Stderr, "%s: %s\n", kerr.Code, kerr.Message())
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "unexpected error: %v\n", err)
	os.Exit(2)
}

// vaultFlags carries the flags shared by every subcommand that opens the
// keystore.
type vaultFlags struct {
	service string
	dir     string
	keyfile string
	audit   string
}

func (vf *vaultFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&vf.service, "service", keystore.DefaultService, "secret store service/schema name")
	fs.StringVar(&vf.dir, "dir", "", "override directory for file-backed storage")
	fs.StringVar(&vf.keyfile, "keyfile", "", "override path of the local protection keyfile")
	fs.StringVar(&vf.audit, "audit", "", "path to the audit trail database")
}

func (vf *vaultFlags) open() (*keystore.Vault, func(), error) {
	b, err := backend.Open(backend.Config{
		Service:     vf.service,
		Dir:         vf.dir,
		KeyfilePath: vf.keyfile,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open backend: %w", err)
	}

	var trail *audit.Log
	if vf.audit != "" {
		trail, err = audit.Open(vf.audit)
		if err != nil {
			return nil, nil, fmt.Errorf("open audit trail: %w", err)
		}
	}

	v := keystore.New(b, keystore.Config{Audit: trail})
	return v, func() { trail.Close() }, nil
}

func newFlagSet(name string) (*flag.FlagSet, *vaultFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	vf := &vaultFlags{}
	vf.register(fs)
	return fs, vf
}

func runStore(args []string) error {
	fs, vf := newFlagSet("store")
	var id, in string
	fs.StringVar(&id, "id", "", "key identifier")
	fs.StringVar(&in, "in", "", "file holding the key blob (stdin when empty)")
	if err := fs.Parse(args); err != nil {
		return userError{msg: "invalid arguments"}
	}
	if id == "" {
		return userError{msg: "missing required flag: --id"}
	}

	blob, err := readBlob(in)
	if err != nil {
		return err
	}
	defer zeroBytes(blob)

	v, done, err := vf.open()
	if err != nil {
		return err
	}
	defer done()

	return v.StoreKey(id, blob)
}

func runRetrieve(args []string) error {
	fs, vf := newFlagSet("retrieve")
	var id, out string
	fs.StringVar(&id, "id", "", "key identifier")
	fs.StringVar(&out, "out", "", "file to write the key blob to (base64 to stdout when empty)")
	if err := fs.Parse(args); err != nil {
		return userError{msg: "invalid arguments"}
	}
	if id == "" {
		return userError{msg: "missing required flag: --id"}
	}

	v, done, err := vf.open()
	if err != nil {
		return err
	}
	defer done()

	blob, err := v.RetrieveKey(id)
	if err != nil {
		return err
	}
	if blob == nil {
		return userError{msg: fmt.Sprintf("no key stored under %q", id)}
	}
	defer zeroBytes(blob)

	return writeBlob(out, blob)
}

func runDelete(args []string) error {
	fs, vf := newFlagSet("delete")
	var id string
	fs.StringVar(&id, "id", "", "key identifier")
	if err := fs.Parse(args); err != nil {
		return userError{msg: "invalid arguments"}
	}
	if id == "" {
		return userError{msg: "missing required flag: --id"}
	}

	v, done, err := vf.open()
	if err != nil {
		return err
	}
	defer done()

	return v.DeleteKey(id)
}

func runExists(args []string) error {
	fs, vf := newFlagSet("exists")
	var id string
	fs.StringVar(&id, "id", "", "key identifier")
	if err := fs.Parse(args); err != nil {
		return userError{msg: "invalid arguments"}
	}
	if id == "" {
		return userError{msg: "missing required flag: --id"}
	}

	v, done, err := vf.open()
	if err != nil {
		return err
	}
	defer done()

	exists, err := v.KeyExists(id)
	if err != nil {
		return err
	}
	fmt.Println(exists)
	return nil
}

func runSeal(args []string) error {
	fs, vf := newFlagSet("seal")
	var in string
	fs.StringVar(&in, "in", "", "file holding the master key (stdin when empty)")
	if err := fs.Parse(args); err != nil {
		return userError{msg: "invalid arguments"}
	}

	blob, err := readBlob(in)
	if err != nil {
		return err
	}
	defer zeroBytes(blob)

	v, done, err := vf.open()
	if err != nil {
		return err
	}
	defer done()

	return v.SealMasterKey(blob)
}

func runUnseal(args []string) error {
	fs, vf := newFlagSet("unseal")
	var out string
	fs.StringVar(&out, "out", "", "file to write the master key to (base64 to stdout when empty)")
	if err := fs.Parse(args); err != nil {
		return userError{msg: "invalid arguments"}
	}

	v, done, err := vf.open()
	if err != nil {
		return err
	}
	defer done()

	blob, err := v.UnsealMasterKey([]byte{})
	if err != nil {
		return err
	}
	if blob == nil {
		return userError{msg: "no sealed master key"}
	}
	defer zeroBytes(blob)

	return writeBlob(out, blob)
}

func runCaps(args []string) error {
	fs, vf := newFlagSet("caps")
	if err := fs.Parse(args); err != nil {
		return userError{msg: "invalid arguments"}
	}

	v, done, err := vf.open()
	if err != nil {
		return err
	}
	defer done()

	encoded, err := json.MarshalIndent(v.Capabilities(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode capabilities: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}

// runExport writes a stored key blob into a passphrase-protected backup
// file so it can leave the platform secret store.
func runExport(args []string) error {
	fs, vf := newFlagSet("export")
	var id, out string
	fs.StringVar(&id, "id", "", "key identifier")
	fs.StringVar(&out, "out", "", "backup file to write")
	if err := fs.Parse(args); err != nil {
		return userError{msg: "invalid arguments"}
	}
	if id == "" || out == "" {
		return userError{msg: "missing required flags: --id and --out"}
	}

	v, done, err := vf.open()
	if err != nil {
		return err
	}
	defer done()

	blob, err := v.RetrieveKey(id)
	if err != nil {
		return err
	}
	if blob == nil {
		return userError{msg: fmt.Sprintf("no key stored under %q", id)}
	}
	defer zeroBytes(blob)

	pw, err := promptNewPassphrase()
	if err != nil {
		return err
	}
	defer zeroBytes(pw)

	return backup.Write(out, pw, blob)
}

// runImport restores a key blob from a backup file into the keystore.
func runImport(args []string) error {
	fs, vf := newFlagSet("import")
	var id, in string
	fs.StringVar(&id, "id", "", "key identifier")
	fs.StringVar(&in, "in", "", "backup file to read")
	if err := fs.Parse(args); err != nil {
		return userError{msg: "invalid arguments"}
	}
	if id == "" || in == "" {
		return userError{msg: "missing required flags: --id and --in"}
	}

	pw, err := promptPassword("Enter backup passphrase: ")
	if err != nil {
		return fmt.Errorf("read passphrase: %w", err)
	}
	defer zeroBytes(pw)

	blob, err := backup.Read(in, pw)
	if err != nil {
		return userError{msg: err.Error()}
	}
	defer zeroBytes(blob)

	v, done, err := vf.open()
	if err != nil {
		return err
	}
	defer done()

	return v.StoreKey(id, blob)
}

func promptNewPassphrase() ([]byte, error) {
	pw, err := promptPassword("Enter backup passphrase: ")
	if err != nil {
		return nil, fmt.Errorf("read passphrase: %w", err)
	}

	confirm, err := promptPassword("Confirm backup passphrase: ")
	if err != nil {
		zeroBytes(pw)
		return nil, fmt.Errorf("read confirmation passphrase: %w", err)
	}
	defer zeroBytes(confirm)

	if !bytes.Equal(pw, confirm) {
		zeroBytes(pw)
		return nil, userError{msg: "passphrases do not match"}
	}

	if err := auth.ValidateBackupPassphraseAdvanced(string(pw), auth.DefaultValidateOptions()); err != nil {
		zeroBytes(pw)
		return nil, userError{msg: err.Error()}
	}
	return pw, nil
}

func promptPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

func readBlob(path string) ([]byte, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, userError{msg: fmt.Sprintf("read %s: %v", path, err)}
	}
	return data, nil
}

func writeBlob(path string, blob []byte) error {
	if path == "" {
		fmt.Println(base64.StdEncoding.EncodeToString(blob))
		return nil
	}
	if err := os.WriteFile(path, blob, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: keystorectl <command>")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  version")
	fmt.Fprintln(os.Stderr, "  store    --id <key-id> [--in <file>]")
	fmt.Fprintln(os.Stderr, "  retrieve --id <key-id> [--out <file>]")
	fmt.Fprintln(os.Stderr, "  delete   --id <key-id>")
	fmt.Fprintln(os.Stderr, "  exists   --id <key-id>")
	fmt.Fprintln(os.Stderr, "  seal     [--in <file>]")
	fmt.Fprintln(os.Stderr, "  unseal   [--out <file>]")
	fmt.Fprintln(os.Stderr, "  caps")
	fmt.Fprintln(os.Stderr, "  export   --id <key-id> --out <backup-file>")
	fmt.Fprintln(os.Stderr, "  import   --id <key-id> --in <backup-file>")
	fmt.Fprintln(os.Stderr, "Common flags: --service, --dir, --keyfile, --audit")
}
