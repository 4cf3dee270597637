package auth

import (
	"fmt"

	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

// ValidateOptions tunes the advanced passphrase checks.
type ValidateOptions struct {
	// MinZXCVBNScore is the minimum acceptable zxcvbn score (0-4).
	MinZXCVBNScore int
	// UserInputs are strings the estimator should treat as guessable
	// (usernames, application names).
	UserInputs []string
}

// DefaultValidateOptions requires a score of 3 ("safely unguessable").
func DefaultValidateOptions() ValidateOptions {
	return ValidateOptions{MinZXCVBNScore: 3}
}

// ValidateBackupPassphraseAdvanced runs the character-class policy and
// then the zxcvbn strength estimate, so "Password123!" style phrases
// that satisfy the classes but fall to dictionary attacks are still
// rejected.
func ValidateBackupPassphraseAdvanced(pw string, opts ValidateOptions) error {
	if err := ValidateBackupPassphrase(pw); err != nil {
		return err
	}

	strength := zxcvbn.PasswordStrength(pw, opts.UserInputs)
	if strength.Score < opts.MinZXCVBNScore {
		return fmt.Errorf("passphrase is too guessable (score %d, need %d)", strength.Score, opts.MinZXCVBNScore)
	}
	return nil
}
