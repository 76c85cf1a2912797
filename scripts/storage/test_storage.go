// Probes a live chain for an account's free balance using the same storage
// key the balance mirror builds. Useful for checking a node before pointing
// LEDGER_MODE=mirror at it.
package main

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"log"
	"os"

	"github.com/gorilla/websocket"

	"github.com/stake-plus/dao-governance/src/polkadot"
)

func main() {
	rpcURL := os.Getenv("RPC_URL")
	if rpcURL == "" {
		rpcURL = "wss://rpc.polkadot.io"
	}
	addr := os.Getenv("ADDRESS")
	if addr == "" {
		log.Fatal("ADDRESS not set")
	}

	pubkey, err := polkadot.DecodeSS58(addr)
	if err != nil {
		log.Fatalf("decode address: %v", err)
	}
	key := polkadot.AccountStorageKey(pubkey)
	log.Printf("storage key: %s", key)

	ws, _, err := websocket.DefaultDialer.Dial(rpcURL, nil)
	if err != nil {
		log.Fatalf("dial %s: %v", rpcURL, err)
	}
	defer ws.Close()

	req := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "state_getStorage",
		"params":  []any{key, nil},
	}
	if err := ws.WriteJSON(req); err != nil {
		log.Fatalf("write: %v", err)
	}

	var rsp struct {
		Result json.RawMessage `json:"result"`
		Error  *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := ws.ReadJSON(&rsp); err != nil {
		log.Fatalf("read: %v", err)
	}
	if rsp.Error != nil {
		log.Fatalf("rpc: %s", rsp.Error.Message)
	}

	var hexVal string
	if err := json.Unmarshal(rsp.Result, &hexVal); err != nil {
		log.Fatalf("decode result: %v", err)
	}
	if len(hexVal) < 3 {
		log.Printf("account %s: no chain record (balance 0)", addr)
		return
	}

	raw, err := hex.DecodeString(hexVal[2:])
	if err != nil {
		log.Fatalf("decode hex: %v", err)
	}
	if len(raw) < 32 {
		log.Fatalf("unexpected storage length: %d", len(raw))
	}

	nonce := binary.LittleEndian.Uint32(raw[0:4])
	free := binary.LittleEndian.Uint64(raw[16:24])
	hi := binary.LittleEndian.Uint64(raw[24:32])

	log.Printf("account %s", addr)
	log.Printf("  nonce: %d", nonce)
	if hi != 0 {
		log.Printf("  free: >2^64 (high word %d)", hi)
	} else {
		log.Printf("  free: %d", free)
	}
}
