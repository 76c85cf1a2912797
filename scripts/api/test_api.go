// Minimal end-to-end integration test for the DAO governance API.
//
// Runs the whole lifecycle against a live service: airgap auth, guild
// bootstrap, a short-lived policy, one proposal from draft to executed,
// and a treasury deposit. Needs direct redis access to confirm the login
// nonce the way the remark watcher would.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	baseURL  = getenv("API_URL", "http://localhost:8080/v1")
	redisURL = getenv("REDIS_URL", "redis://127.0.0.1:6379/0")
	addr     = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY" // dev Alice
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	ctx := context.Background()
	rdb := mustRedis()
	defer rdb.Close()

	_ = challenge()
	confirmNonce(ctx, rdb)
	token := verify()

	initOrg(token)
	checkOrg()

	createPolicy(token, "flash", 2)
	id := createProposal(token, "flash")
	castVote(token, id)
	checkVote(id)

	time.Sleep(3 * time.Second)
	execute(token, id)

	depositTreasury(token, "USDC", 500)
	checkTreasury("USDC")

	fmt.Println("✓ all endpoints passed")
}

// ----------------------------- auth

func challenge() string {
	var resp struct{ Nonce string }
	doJSON("POST", "/auth/challenge", map[string]any{
		"address": addr,
		"method":  "airgap",
	}, &resp, http.StatusOK)
	if resp.Nonce == "" {
		log.Fatal("challenge: empty nonce")
	}
	return resp.Nonce
}

func confirmNonce(ctx context.Context, rdb *redis.Client) {
	if err := rdb.Set(ctx, "nonce:"+addr, "CONFIRMED", 5*time.Minute).Err(); err != nil {
		log.Fatalf("redis set: %v", err)
	}
}

func verify() string {
	var resp struct{ Token string }
	doJSON("POST", "/auth/verify", map[string]any{
		"address": addr,
		"method":  "airgap",
	}, &resp, http.StatusOK)
	if resp.Token == "" {
		log.Fatal("verify: empty token")
	}
	return resp.Token
}

// ----------------------------- organization

func initOrg(tok string) {
	// tolerate an organization bootstrapped by an earlier run
	status := doStatus(tok, "POST", "/org/init", map[string]any{
		"kind":        "guild",
		"name":        "integration guild " + uuid.NewString()[:8],
		"description": "end-to-end test org",
	})
	if status != http.StatusCreated && status != http.StatusConflict {
		log.Fatalf("org init: unexpected status %d", status)
	}
}

func checkOrg() {
	var org struct{ Kind, Name string }
	doJSON("GET", "/org", nil, &org, http.StatusOK)
	if org.Name == "" {
		log.Fatal("org: empty name")
	}
}

// ----------------------------- lifecycle

func createPolicy(tok, name string, duration uint64) {
	doAuth(tok, "POST", "/policies", map[string]any{
		"name":               name,
		"duration":           duration,
		"minWeightToVote":    1,
		"minWeightToCreate":  1,
		"minWeightToExecute": 1,
	}, nil, http.StatusNoContent)
}

func createProposal(tok, policy string) uint64 {
	var resp struct{ ID uint64 }
	doAuth(tok, "POST", "/proposals", map[string]any{
		"type":        policy,
		"action":      "discussion",
		"title":       "integration-test " + uuid.NewString(),
		"description": "created by scripts/api",
	}, &resp, http.StatusCreated)
	return resp.ID
}

func castVote(tok string, id uint64) {
	doAuth(tok, "POST", "/votes", map[string]any{
		"proposalId": id,
		"choice":     "approve",
	}, nil, http.StatusCreated)
}

func checkVote(id uint64) {
	var rec struct {
		Choice string
		Weight uint64
	}
	doJSON("GET", fmt.Sprintf("/proposals/%d/votes/%s", id, addr), nil, &rec, http.StatusOK)
	if rec.Choice != "approve" || rec.Weight == 0 {
		log.Fatalf("vote: unexpected record %+v", rec)
	}
}

func execute(tok string, id uint64) {
	var resp struct{ Result string }
	doAuth(tok, "POST", "/execute", map[string]any{
		"proposalId": id,
	}, &resp, http.StatusOK)
	if resp.Result != "success" {
		log.Fatalf("execute: want success got %q", resp.Result)
	}
}

// ----------------------------- treasury

func depositTreasury(tok, asset string, amount uint64) {
	doAuth(tok, "POST", "/treasury/deposit", map[string]any{
		"asset":  asset,
		"amount": amount,
	}, nil, http.StatusCreated)
}

func checkTreasury(asset string) {
	var resp struct{ Amount uint64 }
	doJSON("GET", "/treasury/"+asset, nil, &resp, http.StatusOK)
	if resp.Amount == 0 {
		log.Fatal("treasury: balance still zero after deposit")
	}
}

// ----------------------------- helpers

func mustRedis() *redis.Client {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("redis url: %v", err)
	}
	return redis.NewClient(opt)
}

func doAuth(token, method, path string, body, out any, want int) {
	doReq(method, path, token, body, out, want)
}

func doJSON(method, path string, body, out any, want int) {
	doReq(method, path, "", body, out, want)
}

func doStatus(token, method, path string, body any) int {
	res := send(method, path, token, body)
	defer res.Body.Close()
	return res.StatusCode
}

func doReq(method, path, token string, body, out any, want int) {
	res := send(method, path, token, body)
	defer res.Body.Close()
	if res.StatusCode != want {
		log.Fatalf("%s %s: want %d got %d", method, path, want, res.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			log.Fatalf("%s %s decode: %v", method, path, err)
		}
	}
}

func send(method, path, token string, body any) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			log.Fatalf("%s %s encode: %v", method, path, err)
		}
	}
	req, _ := http.NewRequest(method, baseURL+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	return res
}
