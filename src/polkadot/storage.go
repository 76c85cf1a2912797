package polkadot

import (
	"encoding/binary"
	"encoding/hex"
	"log"

	"github.com/OneOfOne/xxhash"
	"golang.org/x/crypto/blake2b"
)

// StorageKey builds the key for a plain pallet storage item.
func StorageKey(pallet, item string) string {
	key := append(Twox128([]byte(pallet)), Twox128([]byte(item))...)
	return "0x" + hex.EncodeToString(key)
}

// AccountStorageKey builds the System.Account key for a 32-byte public key.
// The map uses the Blake2_128_Concat hasher.
func AccountStorageKey(pubkey []byte) string {
	key := append(Twox128([]byte("System")), Twox128([]byte("Account"))...)
	key = append(key, Blake2_128(pubkey)...)
	key = append(key, pubkey...)
	return "0x" + hex.EncodeToString(key)
}

// StorageKeyUint32 builds a map key hashed with Twox64_Concat, the hasher
// most counter-indexed pallets use.
func StorageKeyUint32(pallet, item string, value uint32) string {
	keyData := make([]byte, 4)
	binary.LittleEndian.PutUint32(keyData, value)
	key := append(Twox128([]byte(pallet)), Twox128([]byte(item))...)
	key = append(key, Twox64(keyData)...)
	key = append(key, keyData...)
	return "0x" + hex.EncodeToString(key)
}

// Twox128 implements the TwoX 128-bit hash
func Twox128(data []byte) []byte {
	hash1 := xxhash.NewS64(0)
	hash1.Write(data)
	hash2 := xxhash.NewS64(1)
	hash2.Write(data)

	out := make([]byte, 16)
	binary.LittleEndian.PutUint64(out[0:], hash1.Sum64())
	binary.LittleEndian.PutUint64(out[8:], hash2.Sum64())
	return out
}

// Twox64 implements the TwoX 64-bit hash
func Twox64(data []byte) []byte {
	hash := xxhash.NewS64(0)
	hash.Write(data)
	out := make([]byte, 8)
	binary.LittleEndian.PutUint64(out, hash.Sum64())
	return out
}

// Blake2_128 implements Blake2b 128-bit hash
func Blake2_128(data []byte) []byte {
	h, err := blake2b.New(16, nil)
	if err != nil {
		log.Printf("polkadot: blake2b.New(16) failed: %v", err)
		return make([]byte, 16)
	}
	h.Write(data)
	return h.Sum(nil)
}

// DecodeHex decodes a hex string with or without the 0x prefix.
func DecodeHex(hexStr string) ([]byte, error) {
	if len(hexStr) >= 2 && hexStr[:2] == "0x" {
		hexStr = hexStr[2:]
	}
	return hex.DecodeString(hexStr)
}
