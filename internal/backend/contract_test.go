package backend_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/pirate-wallet/keystore/internal/backend"
	"github.com/pirate-wallet/keystore/internal/protect"
	"github.com/pirate-wallet/keystore/krypto"
)

const testLabel = "Pirate Wallet Key"

func newMemory(t *testing.T) backend.Backend {
	t.Helper()
	return backend.NewMemory()
}

func newFileStore(t *testing.T) backend.Backend {
	t.Helper()
	p, err := protect.NewAEAD(bytes.Repeat([]byte{0x33}, krypto.KeySize))
	if err != nil {
		t.Fatalf("NewAEAD: %v", err)
	}
	return backend.NewFileStore(t.TempDir(), p)
}

// The properties below hold for every Backend implementation; each test
// runs the full matrix of portable constructors.
var constructors = map[string]func(*testing.T) backend.Backend{
	"memory":    newMemory,
	"filestore": newFileStore,
}

func TestStoreRetrieveRoundTrip(t *testing.T) {
	for name, construct := range constructors {
		t.Run(name, func(t *testing.T) {
			b := construct(t)
			blob := []byte{0x01, 0x02, 0x03}

			if err := b.Store("wallet_seed", blob, testLabel); err != nil {
				t.Fatalf("Store: %v", err)
			}
			got, err := b.Retrieve("wallet_seed")
			if err != nil {
				t.Fatalf("Retrieve: %v", err)
			}
			if !bytes.Equal(got, blob) {
				t.Fatalf("Retrieve = %v, want %v", got, blob)
			}
		})
	}
}

func TestRetrieveAbsentIsNotAnError(t *testing.T) {
	for name, construct := range constructors {
		t.Run(name, func(t *testing.T) {
			b := construct(t)
			got, err := b.Retrieve("never_stored")
			if err != nil {
				t.Fatalf("Retrieve absent: %v", err)
			}
			if got != nil {
				t.Fatalf("Retrieve absent = %v, want nil", got)
			}
		})
	}
}

func TestDeleteAbsentSucceeds(t *testing.T) {
	for name, construct := range constructors {
		t.Run(name, func(t *testing.T) {
			b := construct(t)
			if err := b.Delete("never_stored"); err != nil {
				t.Fatalf("Delete absent: %v", err)
			}
		})
	}
}

func TestDeleteRemovesValue(t *testing.T) {
	for name, construct := range constructors {
		t.Run(name, func(t *testing.T) {
			b := construct(t)
			if err := b.Store("wallet_seed", []byte{0x01}, testLabel); err != nil {
				t.Fatalf("Store: %v", err)
			}
			if err := b.Delete("wallet_seed"); err != nil {
				t.Fatalf("Delete: %v", err)
			}

			got, err := b.Retrieve("wallet_seed")
			if err != nil {
				t.Fatalf("Retrieve after delete: %v", err)
			}
			if got != nil {
				t.Fatalf("Retrieve after delete = %v, want nil", got)
			}
			exists, err := b.Exists("wallet_seed")
			if err != nil {
				t.Fatalf("Exists after delete: %v", err)
			}
			if exists {
				t.Fatal("Exists after delete = true, want false")
			}
		})
	}
}

func TestStoreOverwrites(t *testing.T) {
	for name, construct := range constructors {
		t.Run(name, func(t *testing.T) {
			b := construct(t)
			if err := b.Store("id", []byte("first"), testLabel); err != nil {
				t.Fatalf("Store first: %v", err)
			}
			if err := b.Store("id", []byte("second"), testLabel); err != nil {
				t.Fatalf("Store second: %v", err)
			}
			got, err := b.Retrieve("id")
			if err != nil {
				t.Fatalf("Retrieve: %v", err)
			}
			if !bytes.Equal(got, []byte("second")) {
				t.Fatalf("Retrieve after overwrite = %q, want %q", got, "second")
			}
		})
	}
}

func TestStoreRejectsEmptyData(t *testing.T) {
	for name, construct := range constructors {
		t.Run(name, func(t *testing.T) {
			b := construct(t)
			err := b.Store("id", nil, testLabel)
			if err == nil {
				t.Fatal("Store(empty) succeeded, want error")
			}
			var berr *backend.Error
			if !errors.As(err, &berr) {
				t.Fatalf("Store(empty) error = %T, want *backend.Error", err)
			}
			if !errors.Is(err, backend.ErrEmptyData) {
				t.Fatalf("Store(empty) cause = %v, want ErrEmptyData", err)
			}
		})
	}
}

func TestExistsReportsPresence(t *testing.T) {
	for name, construct := range constructors {
		t.Run(name, func(t *testing.T) {
			b := construct(t)
			exists, err := b.Exists("id")
			if err != nil {
				t.Fatalf("Exists before store: %v", err)
			}
			if exists {
				t.Fatal("Exists before store = true")
			}
			if err := b.Store("id", []byte{0xaa}, testLabel); err != nil {
				t.Fatalf("Store: %v", err)
			}
			exists, err = b.Exists("id")
			if err != nil {
				t.Fatalf("Exists after store: %v", err)
			}
			if !exists {
				t.Fatal("Exists after store = false")
			}
		})
	}
}

func TestFilenameHostileIdentifiersStayIndependent(t *testing.T) {
	for name, construct := range constructors {
		t.Run(name, func(t *testing.T) {
			b := construct(t)
			if err := b.Store("net/worker", []byte("slash"), testLabel); err != nil {
				t.Fatalf("Store slash id: %v", err)
			}
			if err := b.Store("net_worker", []byte("underscore"), testLabel); err != nil {
				t.Fatalf("Store underscore id: %v", err)
			}

			got, err := b.Retrieve("net/worker")
			if err != nil {
				t.Fatalf("Retrieve slash id: %v", err)
			}
			if !bytes.Equal(got, []byte("slash")) {
				t.Fatalf("slash id = %q, want %q", got, "slash")
			}
			got, err = b.Retrieve("net_worker")
			if err != nil {
				t.Fatalf("Retrieve underscore id: %v", err)
			}
			if !bytes.Equal(got, []byte("underscore")) {
				t.Fatalf("underscore id = %q, want %q", got, "underscore")
			}

			if err := b.Delete("net/worker"); err != nil {
				t.Fatalf("Delete slash id: %v", err)
			}
			exists, err := b.Exists("net_worker")
			if err != nil {
				t.Fatalf("Exists underscore id: %v", err)
			}
			if !exists {
				t.Fatal("deleting net/worker also removed net_worker")
			}
		})
	}
}
