package main

import (
	"encoding/json"
	"errors"

	"github.com/pirate-wallet/keystore/internal/keystore"
)

type request struct {
	Method string          `json:"method"`
	Args   json.RawMessage `json:"args"`
}

// Data never carries omitempty: keyExists must serialize false and
// retrieveKey must serialize null for an absent key.
type response struct {
	OK      bool   `json:"ok"`
	Data    any    `json:"data"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type keyIDArgs struct {
	KeyID *string `json:"keyId"`
}

type storeKeyArgs struct {
	KeyID        *string `json:"keyId"`
	EncryptedKey *[]byte `json:"encryptedKey"`
}

type sealArgs struct {
	MasterKey *[]byte `json:"masterKey"`
}

type unsealArgs struct {
	SealedKey *[]byte `json:"sealedKey"`
}

type host struct {
	vault *keystore.Vault
}

// handle routes one decoded request to the vault and shapes the reply.
//
// Behavior:
//  1. Parses the request envelope, rejecting malformed JSON as INVALID_ARGUMENT.
//  2. Decodes the method-specific args and fails fast on absent fields.
//  3. Delegates to the vault and maps its error codes onto the wire response.
func (h *host) handle(payload []byte) response {
	var req request
	if err := json.Unmarshal(payload, &req); err != nil {
		return invalidArgument("invalid json")
	}

	switch req.Method {
	case "getCapabilities":
		return response{OK: true, Data: h.vault.Capabilities()}

	case "storeKey":
		var args storeKeyArgs
		if err := json.Unmarshal(req.Args, &args); err != nil {
			return invalidArgument("invalid args")
		}
		if args.KeyID == nil {
			return invalidArgument("keyId required")
		}
		if args.EncryptedKey == nil {
			return invalidArgument("encryptedKey required")
		}
		if err := h.vault.StoreKey(*args.KeyID, *args.EncryptedKey); err != nil {
			return errorResponse(err)
		}
		return response{OK: true, Data: true}

	case "retrieveKey":
		var args keyIDArgs
		if err := json.Unmarshal(req.Args, &args); err != nil {
			return invalidArgument("invalid args")
		}
		if args.KeyID == nil {
			return invalidArgument("keyId required")
		}
		data, err := h.vault.RetrieveKey(*args.KeyID)
		if err != nil {
			return errorResponse(err)
		}
		if data == nil {
			return response{OK: true, Data: nil}
		}
		return response{OK: true, Data: data}

	case "deleteKey":
		var args keyIDArgs
		if err := json.Unmarshal(req.Args, &args); err != nil {
			return invalidArgument("invalid args")
		}
		if args.KeyID == nil {
			return invalidArgument("keyId required")
		}
		if err := h.vault.DeleteKey(*args.KeyID); err != nil {
			return errorResponse(err)
		}
		return response{OK: true, Data: true}

	case "keyExists":
		var args keyIDArgs
		if err := json.Unmarshal(req.Args, &args); err != nil {
			return invalidArgument("invalid args")
		}
		if args.KeyID == nil {
			return invalidArgument("keyId required")
		}
		exists, err := h.vault.KeyExists(*args.KeyID)
		if err != nil {
			return errorResponse(err)
		}
		return response{OK: true, Data: exists}

	case "sealMasterKey":
		var args sealArgs
		if err := json.Unmarshal(req.Args, &args); err != nil {
			return invalidArgument("invalid args")
		}
		if args.MasterKey == nil {
			return invalidArgument("masterKey required")
		}
		if err := h.vault.SealMasterKey(*args.MasterKey); err != nil {
			return errorResponse(err)
		}
		// Legacy clients expect an empty list, not null, on success.
		return response{OK: true, Data: []any{}}

	case "unsealMasterKey":
		var args unsealArgs
		if err := json.Unmarshal(req.Args, &args); err != nil {
			return invalidArgument("invalid args")
		}
		if args.SealedKey == nil {
			return invalidArgument("sealedKey required")
		}
		data, err := h.vault.UnsealMasterKey(*args.SealedKey)
		if err != nil {
			return errorResponse(err)
		}
		if data == nil {
			return response{OK: true, Data: nil}
		}
		return response{OK: true, Data: data}

	case "enableScreenshotProtection", "disableScreenshotProtection":
		// Desktop platforms have no screenshot protection surface.
		return response{OK: true, Data: false}

	default:
		return response{OK: false, Code: string(keystore.CodeNotImplemented), Message: "unsupported method"}
	}
}

func invalidArgument(msg string) response {
	return response{OK: false, Code: string(keystore.CodeInvalidArgument), Message: msg}
}

func errorResponse(err error) response {
	var kerr *keystore.Error
	if errors.As(err, &kerr) {
		return response{OK: false, Code: string(kerr.Code), Message: kerr.Message()}
	}
	return response{OK: false, Code: string(keystore.CodeKeystore), Message: err.Error()}
}
