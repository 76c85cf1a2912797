package polkadot

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// DecodeSS58 converts an SS58-formatted address to the raw 32-byte public
// key. Hex-formatted addresses (0x...) pass straight through.
func DecodeSS58(addr string) ([]byte, error) {
	if strings.HasPrefix(addr, "0x") {
		raw, err := hex.DecodeString(addr[2:])
		if err != nil {
			return nil, err
		}
		if len(raw) != 32 {
			return nil, fmt.Errorf("invalid public key length: %d", len(raw))
		}
		return raw, nil
	}

	raw, err := base58.Decode(addr)
	if err != nil || len(raw) < 35 {
		return nil, fmt.Errorf("invalid ss58 address")
	}
	// drop 1-byte prefix & 2-byte checksum
	return raw[1:33], nil
}
