package keystore

// Capabilities reports which hardware security features back the vault.
// Neither desktop platform exposes hardware-isolated key storage through
// the backends implemented here, so every flag is false; a future
// enclave- or TPM-backed Backend would widen this report.
type Capabilities struct {
	HasSecureHardware bool `json:"hasSecureHardware"`
	HasStrongBox      bool `json:"hasStrongBox"`
	HasSecureEnclave  bool `json:"hasSecureEnclave"`
	HasBiometrics     bool `json:"hasBiometrics"`
}

// Capabilities returns the static capability report. It never fails and
// reads no stored state.
func (v *Vault) Capabilities() Capabilities {
	return Capabilities{}
}
