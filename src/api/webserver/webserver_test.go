package webserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stake-plus/dao-governance/src/api/config"
	"github.com/stake-plus/dao-governance/src/gov"
	"github.com/stake-plus/dao-governance/src/gov/store"
)

const testSecret = "unit-test-secret"

type webFixture struct {
	t      *testing.T
	router *gin.Engine
	eng    *gov.Engine
	led    *store.MemoryLedger
	now    time.Time
}

func newWebFixture(t *testing.T) *webFixture {
	gin.SetMode(gin.TestMode)

	mem := store.NewMemory()
	led := store.NewMemoryLedger()
	eng := gov.NewEngine(mem, led, nil)

	f := &webFixture{t: t, eng: eng, led: led, now: time.Unix(1_700_000_000, 0)}
	eng.Now = func() time.Time { return f.now }

	cfg := config.Config{
		JWTSecret:     testSecret,
		AllowedOrigin: "http://localhost:3000",
	}
	f.router = New(cfg, eng, nil, nil, nil)
	return f
}

func (f *webFixture) advance(d time.Duration) { f.now = f.now.Add(d) }

func (f *webFixture) bearer(addr string) string {
	tok, err := issueJWT(addr, []byte(testSecret))
	if err != nil {
		f.t.Fatalf("issueJWT: %v", err)
	}
	return "Bearer " + tok
}

func (f *webFixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			f.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *webFixture) expect(w *httptest.ResponseRecorder, want int) {
	f.t.Helper()
	if w.Code != want {
		f.t.Fatalf("status = %d, want %d (body %s)", w.Code, want, w.Body.String())
	}
}

func (f *webFixture) initGuild(creator string) {
	w := f.do("POST", "/v1/org/init", f.bearer(creator), map[string]any{
		"kind": "guild",
		"name": "Test Guild",
	})
	f.expect(w, http.StatusCreated)
}

func TestSecuredRoutesRequireToken(t *testing.T) {
	f := newWebFixture(t)

	w := f.do("POST", "/v1/proposals", "", map[string]any{
		"type": "standard", "action": "discussion", "title": "t",
	})
	f.expect(w, http.StatusUnauthorized)

	w = f.do("POST", "/v1/votes", "Bearer not-a-jwt", map[string]any{
		"proposalId": 0, "choice": "approve",
	})
	f.expect(w, http.StatusUnauthorized)
}

func TestOrgInitAndReadBack(t *testing.T) {
	f := newWebFixture(t)

	w := f.do("GET", "/v1/org", "", nil)
	f.expect(w, http.StatusNotFound)

	f.initGuild("alice")

	w = f.do("GET", "/v1/org", "", nil)
	f.expect(w, http.StatusOK)
	var org struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &org); err != nil {
		t.Fatalf("decode org: %v", err)
	}
	if org.Kind != "guild" || org.Name != "Test Guild" {
		t.Fatalf("org = %+v", org)
	}

	// second init loses
	w = f.do("POST", "/v1/org/init", f.bearer("bob"), map[string]any{
		"kind": "guild", "name": "Other",
	})
	f.expect(w, http.StatusConflict)
}

func TestProposalFlowOverHTTP(t *testing.T) {
	f := newWebFixture(t)
	f.initGuild("alice")

	w := f.do("POST", "/v1/proposals", f.bearer("alice"), map[string]any{
		"type":        "standard",
		"action":      "discussion",
		"title":       "Adopt the charter",
		"description": "First order of business",
	})
	f.expect(w, http.StatusCreated)
	var created struct {
		ID uint64 `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if created.ID != 0 {
		t.Fatalf("first proposal id = %d, want 0", created.ID)
	}

	w = f.do("POST", "/v1/votes", f.bearer("alice"), map[string]any{
		"proposalId": 0,
		"choice":     "approve",
	})
	f.expect(w, http.StatusCreated)

	w = f.do("GET", "/v1/proposals/0", "", nil)
	f.expect(w, http.StatusOK)
	var prop struct {
		Approve     uint64 `json:"approve"`
		TotalWeight uint64 `json:"totalWeight"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &prop); err != nil {
		t.Fatalf("decode proposal: %v", err)
	}
	if prop.Approve != gov.FounderRoleWeight || prop.TotalWeight != gov.FounderRoleWeight {
		t.Fatalf("tally = %+v", prop)
	}

	w = f.do("GET", "/v1/proposals/0/votes/alice", "", nil)
	f.expect(w, http.StatusOK)
	var rec struct {
		Choice string `json:"choice"`
		Weight uint64 `json:"weight"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode vote: %v", err)
	}
	if rec.Choice != "approve" || rec.Weight != gov.FounderRoleWeight {
		t.Fatalf("vote = %+v", rec)
	}

	// still inside the voting window
	w = f.do("POST", "/v1/execute", f.bearer("alice"), map[string]any{"proposalId": 0})
	f.expect(w, http.StatusConflict)

	f.advance(8 * 24 * time.Hour)

	w = f.do("POST", "/v1/execute", f.bearer("alice"), map[string]any{"proposalId": 0})
	f.expect(w, http.StatusOK)
	var settled struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &settled); err != nil {
		t.Fatalf("decode execute: %v", err)
	}
	if settled.Result != "success" {
		t.Fatalf("result = %q, want success", settled.Result)
	}

	// replay is rejected
	w = f.do("POST", "/v1/execute", f.bearer("alice"), map[string]any{"proposalId": 0})
	f.expect(w, http.StatusConflict)
}

func TestErrorMapping(t *testing.T) {
	f := newWebFixture(t)
	f.initGuild("alice")

	w := f.do("GET", "/v1/proposals/99", "", nil)
	f.expect(w, http.StatusNotFound)

	// strangers hold no role in a guild
	w = f.do("POST", "/v1/proposals", f.bearer("mallory"), map[string]any{
		"type": "standard", "action": "discussion", "title": "t",
	})
	f.expect(w, http.StatusForbidden)

	w = f.do("POST", "/v1/policies", f.bearer("mallory"), map[string]any{
		"name": "fast", "duration": 60,
	})
	f.expect(w, http.StatusForbidden)

	w = f.do("POST", "/v1/votes", f.bearer("alice"), map[string]any{
		"proposalId": 0, "choice": "maybe",
	})
	f.expect(w, http.StatusBadRequest)
}

func TestRolesAndMembersOverHTTP(t *testing.T) {
	f := newWebFixture(t)
	f.initGuild("alice")

	w := f.do("POST", "/v1/roles", f.bearer("alice"), map[string]any{
		"name": "officer", "weight": 5,
	})
	f.expect(w, http.StatusNoContent)

	w = f.do("POST", "/v1/members", f.bearer("alice"), map[string]any{
		"address": "bob", "role": "officer",
	})
	f.expect(w, http.StatusCreated)

	w = f.do("GET", "/v1/members/bob/role", "", nil)
	f.expect(w, http.StatusOK)
	var role struct {
		Name   string `json:"name"`
		Weight uint64 `json:"weight"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &role); err != nil {
		t.Fatalf("decode role: %v", err)
	}
	if role.Name != "officer" || role.Weight != 5 {
		t.Fatalf("role = %+v", role)
	}

	// admins only shape the lattice strictly beneath themselves
	w = f.do("POST", "/v1/roles", f.bearer("bob"), map[string]any{
		"name": "peer", "weight": 5,
	})
	f.expect(w, http.StatusForbidden)

	w = f.do("DELETE", "/v1/members/bob", f.bearer("alice"), nil)
	f.expect(w, http.StatusNoContent)

	w = f.do("GET", "/v1/members/bob/role", "", nil)
	f.expect(w, http.StatusForbidden)
}

func TestTreasuryAndFaucetOverHTTP(t *testing.T) {
	f := newWebFixture(t)
	w := f.do("POST", "/v1/org/init", f.bearer("alice"), map[string]any{
		"kind":     "standard",
		"name":     "Token Org",
		"tokenRef": "TST",
	})
	f.expect(w, http.StatusCreated)

	w = f.do("POST", "/v1/balances/deposit", f.bearer("alice"), map[string]any{
		"amount": 500,
	})
	f.expect(w, http.StatusCreated)

	w = f.do("GET", "/v1/balances/alice", "", nil)
	f.expect(w, http.StatusOK)
	var bal struct {
		Amount uint64 `json:"amount"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &bal); err != nil {
		t.Fatalf("decode balance: %v", err)
	}
	if bal.Amount != 500 {
		t.Fatalf("balance = %d, want 500", bal.Amount)
	}

	w = f.do("POST", "/v1/treasury/deposit", f.bearer("alice"), map[string]any{
		"asset": "TST", "amount": 200,
	})
	f.expect(w, http.StatusCreated)

	w = f.do("GET", "/v1/treasury/TST", "", nil)
	f.expect(w, http.StatusOK)
	var tre struct {
		Amount uint64 `json:"amount"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &tre); err != nil {
		t.Fatalf("decode treasury: %v", err)
	}
	if tre.Amount != 200 {
		t.Fatalf("treasury = %d, want 200", tre.Amount)
	}

	// deposit of the governance token debits the depositor
	w = f.do("GET", "/v1/balances/alice", "", nil)
	f.expect(w, http.StatusOK)
	if err := json.Unmarshal(w.Body.Bytes(), &bal); err != nil {
		t.Fatalf("decode balance: %v", err)
	}
	if bal.Amount != 300 {
		t.Fatalf("balance after deposit = %d, want 300", bal.Amount)
	}
}
