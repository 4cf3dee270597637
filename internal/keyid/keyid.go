// Package keyid encodes caller-chosen key identifiers into tokens that are
// safe both as secret-service attribute values and as filename components.
//
// The encoding is hex over the identifier's UTF-8 bytes, so it is
// deterministic and injective: two distinct identifiers can never map to
// the same token, no matter which characters they contain. Tokens are
// never decoded back; identifiers only ever flow one way.
package keyid

import "encoding/hex"

const (
	tokenPrefix = "key_"
	fileExt     = ".bin"
)

// Encode returns the storage token for id: "key_" followed by the
// lowercase hex of its UTF-8 bytes.
func Encode(id string) string {
	return tokenPrefix + hex.EncodeToString([]byte(id))
}

// Filename returns the on-disk filename for id, used by the
// protected-file backend.
func Filename(id string) string {
	return Encode(id) + fileExt
}
