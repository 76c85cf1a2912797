package data

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/gorilla/websocket"

	"github.com/stake-plus/dao-governance/src/gov"
	"github.com/stake-plus/dao-governance/src/gov/store"
	"github.com/stake-plus/dao-governance/src/polkadot"
)

// ---------- tiny JSON-RPC helpers ----------

type rpcReq struct {
	Jsonrpc string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcResp struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func getStorage(ws *websocket.Conn, id uint64, key string) ([]byte, error) {
	req := rpcReq{
		Jsonrpc: "2.0",
		ID:      id,
		Method:  "state_getStorage",
		Params:  []interface{}{key, nil},
	}
	if err := ws.WriteJSON(req); err != nil {
		return nil, err
	}
	var rsp rpcResp
	if err := ws.ReadJSON(&rsp); err != nil {
		return nil, err
	}
	if rsp.Error != nil {
		return nil, fmt.Errorf("RPC %d: %s", rsp.Error.Code, rsp.Error.Message)
	}
	var hexVal string
	if err := json.Unmarshal(rsp.Result, &hexVal); err != nil {
		return nil, err
	}
	if len(hexVal) < 3 {
		return nil, nil // storage entry absent
	}
	return hex.DecodeString(hexVal[2:])
}

// ---------- AccountInfo decoding ----------

// freeBalance pulls the free balance out of a raw System.Account value.
// Layout: nonce u32, consumers u32, providers u32, sufficients u32, then
// AccountData starting with free as u128 little-endian.
func freeBalance(raw []byte) (uint64, error) {
	if len(raw) < 32 {
		return 0, fmt.Errorf("unexpected storage length: %d", len(raw))
	}
	lo := binary.LittleEndian.Uint64(raw[16:24])
	hi := binary.LittleEndian.Uint64(raw[24:32])
	if hi != 0 {
		// u128 past the ledger's range, clamp
		return math.MaxUint64, nil
	}
	return lo, nil
}

func fetchFreeBalance(ws *websocket.Conn, id uint64, addr string) (uint64, error) {
	pubkey, err := polkadot.DecodeSS58(addr)
	if err != nil {
		return 0, err
	}
	raw, err := getStorage(ws, id, polkadot.AccountStorageKey(pubkey))
	if err != nil {
		return 0, err
	}
	if raw == nil {
		return 0, nil // no account on chain yet
	}
	return freeBalance(raw)
}

// ---------- public entry-points ----------

// RunBalanceMirror performs one sync pass: every address the ledger tracks,
// plus every org member, gets its free balance copied from chain state.
func RunBalanceMirror(ctx context.Context, led *store.MySQLLedger, st gov.Store, rpcURL string) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, rpcURL, nil)
	if err != nil {
		log.Printf("balance mirror: dial error: %v", err)
		return
	}
	defer ws.Close()

	addrs, err := led.Addresses()
	if err != nil {
		log.Printf("balance mirror: list addresses: %v", err)
		return
	}
	seen := make(map[string]bool, len(addrs))
	for _, a := range addrs {
		seen[a] = true
	}
	members, err := st.Members()
	if err != nil {
		log.Printf("balance mirror: list members: %v", err)
		return
	}
	for _, m := range members {
		if !seen[m.Address] {
			seen[m.Address] = true
			addrs = append(addrs, m.Address)
		}
	}

	synced := 0
	errors := 0
	var id uint64
	for _, addr := range addrs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		id++
		free, err := fetchFreeBalance(ws, id, addr)
		if err != nil {
			log.Printf("balance mirror: %s: %v", addr, err)
			errors++
			continue
		}
		if err := led.SetBalance(addr, free); err != nil {
			log.Printf("balance mirror: save %s: %v", addr, err)
			errors++
			continue
		}
		synced++

		time.Sleep(50 * time.Millisecond)
	}

	log.Printf("balance mirror: sync complete - %d synced, %d errors", synced, errors)
}

// BalanceMirrorService runs the mirror periodically.
func BalanceMirrorService(ctx context.Context, led *store.MySQLLedger, st gov.Store, rpcURL string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	RunBalanceMirror(ctx, led, st, rpcURL)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			RunBalanceMirror(ctx, led, st, rpcURL)
		}
	}
}
