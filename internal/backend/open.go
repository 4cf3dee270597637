package backend

// DefaultService is the secret-service schema and Keychain service name
// shipped with the wallet.
const DefaultService = "com.pirate.wallet.keystore"

// Config selects and parameterizes the platform backend opened by Open.
// Zero values fall back to the application defaults, so tests can point
// every field at an isolated namespace.
type Config struct {
	// Service is the secret-service schema name (Linux) or Keychain
	// service name (macOS).
	Service string
	// Dir overrides the protected-file directory.
	Dir string
	// KeyfilePath overrides where the portable AEAD protector keeps its
	// file key. Unused on platforms with a native protection primitive.
	KeyfilePath string
}

func (c Config) service() string {
	if c.Service != "" {
		return c.Service
	}
	return DefaultService
}

func (c Config) dir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return DefaultDir()
}

func (c Config) keyfilePath() string {
	if c.KeyfilePath != "" {
		return c.KeyfilePath
	}
	return DefaultKeyfilePath()
}
