package polkadot

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestStorageKeySystemAccount(t *testing.T) {
	// Canonical Substrate prefix: twox128("System") ++ twox128("Account").
	want := "0x26aa394eea5630e07c48ae0c9558cef7b99d880ec681799c0cf30e8886371da9"
	if got := StorageKey("System", "Account"); got != want {
		t.Fatalf("System.Account prefix = %s, want %s", got, want)
	}
}

func TestAccountStorageKeyShape(t *testing.T) {
	pub := bytes.Repeat([]byte{0xab}, 32)
	key := AccountStorageKey(pub)

	raw, err := DecodeHex(key)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// 16 pallet + 16 item + 16 blake2-128 + 32 concat key.
	if len(raw) != 80 {
		t.Fatalf("expected 80-byte key, got %d", len(raw))
	}
	if !bytes.Equal(raw[48:], pub) {
		t.Fatalf("concat hasher must append the raw key")
	}
	if !bytes.Equal(raw[32:48], Blake2_128(pub)) {
		t.Fatalf("blake2-128 segment mismatch")
	}
}

func TestDecodeSS58(t *testing.T) {
	// Well-known sr25519 dev account.
	const addr = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
	const wantHex = "d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"

	pub, err := DecodeSS58(addr)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if hex.EncodeToString(pub) != wantHex {
		t.Fatalf("pubkey = %x, want %s", pub, wantHex)
	}

	// Hex passthrough returns the same bytes.
	again, err := DecodeSS58("0x" + wantHex)
	if err != nil {
		t.Fatalf("decode hex: %v", err)
	}
	if !bytes.Equal(pub, again) {
		t.Fatalf("hex passthrough mismatch")
	}

	if _, err := DecodeSS58("not-an-address"); err == nil {
		t.Fatalf("expected error for malformed address")
	}
}

func TestTwoxHashLengths(t *testing.T) {
	if got := len(Twox128([]byte("abc"))); got != 16 {
		t.Fatalf("twox128 length %d", got)
	}
	if got := len(Twox64([]byte("abc"))); got != 8 {
		t.Fatalf("twox64 length %d", got)
	}
	if bytes.Equal(Twox128([]byte("a")), Twox128([]byte("b"))) {
		t.Fatalf("distinct inputs collided")
	}
}
