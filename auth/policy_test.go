package auth_test

import (
	"testing"

	"github.com/pirate-wallet/keystore/auth"
)

func TestValidateBackupPassphrasePolicy(t *testing.T) {
	cases := []struct {
		name    string
		pw      string
		wantErr bool
	}{
		{"accepts strong passphrase", "Corr3ct-horse&battery", false},
		{"rejects short", "Ab1!", true},
		{"rejects missing uppercase", "lowercase-digits-123!", true},
		{"rejects missing digit", "NoDigitsHere!!!", true},
		{"rejects missing special", "NoSpecials12345", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := auth.ValidateBackupPassphrase(tc.pw)
			if tc.wantErr && err == nil {
				t.Fatalf("ValidateBackupPassphrase(%q) = nil, want error", tc.pw)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("ValidateBackupPassphrase(%q) = %v, want nil", tc.pw, err)
			}
		})
	}
}

func TestAdvancedValidationRejectsGuessablePhrases(t *testing.T) {
	opts := auth.DefaultValidateOptions()

	// Passes the character classes, fails the strength estimate.
	if err := auth.ValidateBackupPassphraseAdvanced("Password123!", opts); err == nil {
		t.Fatal("expected guessable passphrase to be rejected")
	}

	if err := auth.ValidateBackupPassphraseAdvanced("marble-Trombone-91?velvet", opts); err != nil {
		t.Fatalf("strong passphrase rejected: %v", err)
	}
}
