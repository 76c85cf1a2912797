package gov_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stake-plus/dao-governance/src/gov"
)

// Mirrors the canonical under-threshold walk-through: a creator whose full
// approve weight still sits below the execution bar ends with a failed,
// settled proposal and an untouched treasury.
func TestUnderThresholdProposalFailsOnExecute(t *testing.T) {
	f := newFixture(t)
	f.seed(gov.OrgStandard, gov.ProposalType{
		Name:               "standard",
		Duration:           100_000_000,
		MinWeightToVote:    30_000_000,
		MinWeightToCreate:  100_000_000,
		MinWeightToExecute: 300_000_000,
	}, nil, nil)
	f.credit(alice, 100_000_000)
	f.fundTreasury(testToken, 1_000)

	id := f.mustCreate(alice, gov.Draft{Type: "standard", Title: "fund the guild"})
	if id != 0 {
		t.Fatalf("expected first proposal id 0, got %d", id)
	}
	f.mustVote(alice, id, gov.ChoiceApprove)

	if err := f.eng.Execute(alice, id); !errors.Is(err, gov.ErrVotingNotEnded) {
		t.Fatalf("expected ErrVotingNotEnded, got %v", err)
	}

	f.advance(100_000_001 * time.Second)
	if err := f.eng.Execute(alice, id); err != nil {
		t.Fatalf("execute: %v", err)
	}

	p := f.proposal(id)
	if !p.Executed || p.Result != gov.ResultFail {
		t.Fatalf("expected executed fail, got executed=%v result=%s", p.Executed, p.Result)
	}
	if bal, _ := f.led.TreasuryBalance(testToken); bal != 1_000 {
		t.Fatalf("treasury moved on failed proposal: %d", bal)
	}

	if err := f.eng.Execute(alice, id); !errors.Is(err, gov.ErrAlreadyExecuted) {
		t.Fatalf("expected ErrAlreadyExecuted on replay, got %v", err)
	}
}

// Mirrors the hybrid walk-through: a zero-role balance of 10^9 under a
// leader multiplier of 9 clears a 3x10^9 vote floor.
func TestHybridLeaderWeightClearsVoteFloor(t *testing.T) {
	f := newFixture(t)
	f.seed(gov.OrgHybrid, gov.ProposalType{
		Name:               "major",
		Duration:           3600,
		MinWeightToVote:    3_000_000_000,
		MinWeightToCreate:  1,
		MinWeightToExecute: 1,
	}, &gov.Role{Name: "leader", Weight: 9}, &gov.Member{Address: bob, Role: "leader"})
	f.credit(alice, 1)
	f.credit(bob, 1_000_000_000)

	id := f.mustCreate(alice, gov.Draft{Type: "major", Title: "t"})

	// 1e9 x 1000 default multiplier clears the floor for a roleless holder
	// too, but 1e9 alone would not: drop alice to prove the floor is real.
	if err := f.eng.Vote(alice, id, gov.ChoiceApprove); !errors.Is(err, gov.ErrInsufficientWeight) {
		t.Fatalf("expected ErrInsufficientWeight at weight 1000, got %v", err)
	}
	f.mustVote(bob, id, gov.ChoiceReject)
	checkTally(t, f.proposal(id), 0, 9_000_000_000, 0)
}

func TestExecuteDispatchesAssetTransfer(t *testing.T) {
	f := newFixture(t)
	f.init(gov.OrgStandard, alice)
	f.credit(alice, 50)
	f.fundTreasury("DOT", 500)

	id, err := f.eng.CreateAssetTransfer(alice,
		gov.Draft{Type: gov.DefaultTypeName, Title: "pay bob"},
		gov.TransferPayload{Recipient: bob, Amount: 200, Asset: "DOT"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	f.mustVote(alice, id, gov.ChoiceApprove)
	f.advance((gov.DefaultTypeDuration + 1) * time.Second)

	if err := f.eng.Execute(carol, id); err != nil {
		t.Fatalf("execute: %v", err)
	}
	p := f.proposal(id)
	if p.Result != gov.ResultSuccess {
		t.Fatalf("expected success, got %s", p.Result)
	}
	if bal, _ := f.led.TreasuryBalance("DOT"); bal != 300 {
		t.Fatalf("expected treasury 300, got %d", bal)
	}
	// DOT is not the organization's own token; bob's tracked balance is
	// untouched.
	if bal, _ := f.led.Balance(bob); bal != 0 {
		t.Fatalf("expected no balance credit, got %d", bal)
	}
}

func TestOwnTokenTransferCreditsRecipient(t *testing.T) {
	f := newFixture(t)
	f.init(gov.OrgStandard, alice)
	f.credit(alice, 50)
	f.fundTreasury(testToken, 500)

	id, err := f.eng.CreateAssetTransfer(alice,
		gov.Draft{Type: gov.DefaultTypeName, Title: "pay bob"},
		gov.TransferPayload{Recipient: bob, Amount: 200, Asset: testToken})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	f.mustVote(alice, id, gov.ChoiceApprove)
	f.advance((gov.DefaultTypeDuration + 1) * time.Second)

	if err := f.eng.Execute(alice, id); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if bal, _ := f.led.Balance(bob); bal != 200 {
		t.Fatalf("expected recipient credit 200, got %d", bal)
	}
	if bal, _ := f.led.TreasuryBalance(testToken); bal != 300 {
		t.Fatalf("expected treasury 300, got %d", bal)
	}
}

func TestInsufficientTreasuryLeavesProposalOpen(t *testing.T) {
	f := newFixture(t)
	f.init(gov.OrgStandard, alice)
	f.credit(alice, 50)
	f.fundTreasury("DOT", 100)

	id, err := f.eng.CreateAssetTransfer(alice,
		gov.Draft{Type: gov.DefaultTypeName, Title: "pay big"},
		gov.TransferPayload{Recipient: bob, Amount: 200, Asset: "DOT"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	f.mustVote(alice, id, gov.ChoiceApprove)
	f.advance((gov.DefaultTypeDuration + 1) * time.Second)

	if err := f.eng.Execute(alice, id); !errors.Is(err, gov.ErrInsufficientTreasury) {
		t.Fatalf("expected ErrInsufficientTreasury, got %v", err)
	}
	p := f.proposal(id)
	if p.Executed || p.Result != gov.ResultPending {
		t.Fatalf("proposal settled despite dispatch failure: executed=%v result=%s", p.Executed, p.Result)
	}

	// Settles once the treasury can cover it.
	f.fundTreasury("DOT", 150)
	if err := f.eng.Execute(alice, id); err != nil {
		t.Fatalf("retry execute: %v", err)
	}
	if p := f.proposal(id); p.Result != gov.ResultSuccess {
		t.Fatalf("expected success after retry, got %s", p.Result)
	}
}

func TestTokenTransferWitness(t *testing.T) {
	f := newFixture(t)
	f.init(gov.OrgStandard, alice)
	f.credit(alice, 50)
	f.fundTreasury(testToken, 500)

	id, err := f.eng.CreateTokenTransfer(alice,
		gov.Draft{Type: gov.DefaultTypeName, Title: "grant"},
		gov.TokenTransferPayload{Recipient: bob, Amount: 100, TokenType: testToken})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	f.mustVote(alice, id, gov.ChoiceApprove)
	f.advance((gov.DefaultTypeDuration + 1) * time.Second)

	if err := f.eng.Execute(alice, id); !errors.Is(err, gov.ErrWrongExecutionEntrypoint) {
		t.Fatalf("expected ErrWrongExecutionEntrypoint, got %v", err)
	}
	if err := f.eng.ExecuteTokenTransfer(alice, id, "DOT"); !errors.Is(err, gov.ErrTokenTypeMismatch) {
		t.Fatalf("expected ErrTokenTypeMismatch, got %v", err)
	}
	if err := f.eng.ExecuteTokenTransfer(alice, id, testToken); err != nil {
		t.Fatalf("execute with witness: %v", err)
	}
	if bal, _ := f.led.Balance(bob); bal != 100 {
		t.Fatalf("expected recipient credit 100, got %d", bal)
	}

	// And the inverse entrypoint confusion.
	id2 := f.mustCreate(alice, gov.Draft{Type: gov.DefaultTypeName, Title: "talk"})
	f.advance((gov.DefaultTypeDuration + 1) * time.Second)
	if err := f.eng.ExecuteTokenTransfer(alice, id2, testToken); !errors.Is(err, gov.ErrWrongExecutionEntrypoint) {
		t.Fatalf("expected ErrWrongExecutionEntrypoint for discussion, got %v", err)
	}
}

func TestExecutePolicyUpdate(t *testing.T) {
	f := newFixture(t)
	f.init(gov.OrgGuild, alice)
	f.upsertType(alice, gov.ProposalType{
		Name: "quick", Duration: 3600,
		MinWeightToVote: 1, MinWeightToCreate: 1, MinWeightToExecute: 1,
	})

	id, err := f.eng.CreatePolicyUpdate(alice,
		gov.Draft{Type: "quick", Title: "add fast lane"},
		gov.PolicyUpdatePayload{
			Kind: gov.UpdateUpsert, Name: "fast", Duration: 60,
			MinWeightToVote: 1, MinWeightToCreate: 1, MinWeightToExecute: 1,
		})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	f.mustVote(alice, id, gov.ChoiceApprove)
	f.advance(3601 * time.Second)
	if err := f.eng.Execute(alice, id); err != nil {
		t.Fatalf("execute: %v", err)
	}

	pt, err := f.eng.ProposalType("fast")
	if err != nil {
		t.Fatalf("new type missing: %v", err)
	}
	if pt.Duration != 60 {
		t.Fatalf("expected duration 60, got %d", pt.Duration)
	}
}

func TestExecutePolicyRemoveHonorsLastPolicy(t *testing.T) {
	f := newFixture(t)
	f.init(gov.OrgGuild, alice)
	f.upsertType(alice, gov.ProposalType{
		Name: "quick", Duration: 3600,
		MinWeightToVote: 1, MinWeightToCreate: 1, MinWeightToExecute: 1,
	})

	// Registry {standard, quick}: removing standard through a proposal works.
	id, err := f.eng.CreatePolicyUpdate(alice,
		gov.Draft{Type: "quick", Title: "drop default"},
		gov.PolicyUpdatePayload{Kind: gov.UpdateRemove, Name: gov.DefaultTypeName})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	f.mustVote(alice, id, gov.ChoiceApprove)
	f.advance(3601 * time.Second)
	if err := f.eng.Execute(alice, id); err != nil {
		t.Fatalf("execute: %v", err)
	}

	// Registry {quick}: removing the survivor must not settle.
	id, err = f.eng.CreatePolicyUpdate(alice,
		gov.Draft{Type: "quick", Title: "drop last"},
		gov.PolicyUpdatePayload{Kind: gov.UpdateRemove, Name: "quick"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	f.mustVote(alice, id, gov.ChoiceApprove)
	f.advance(3601 * time.Second)
	if err := f.eng.Execute(alice, id); !errors.Is(err, gov.ErrLastPolicy) {
		t.Fatalf("expected ErrLastPolicy, got %v", err)
	}
	if p := f.proposal(id); p.Executed {
		t.Fatalf("proposal settled despite last-policy rejection")
	}

	types, err := f.eng.ProposalTypes()
	if err != nil {
		t.Fatalf("types: %v", err)
	}
	if len(types) != 1 || types[0].Name != "quick" {
		t.Fatalf("registry should hold exactly the survivor, got %+v", types)
	}
}

func TestExecuteOrgUpdatePatchesPresentFields(t *testing.T) {
	f := newFixture(t)
	f.init(gov.OrgGuild, alice)

	newName := "Renamed Org"
	newImage := "https://example.org/logo.png"
	id, err := f.eng.CreateOrgUpdate(alice,
		gov.Draft{Type: gov.DefaultTypeName, Title: "rebrand"},
		gov.OrgUpdatePayload{Name: &newName, ImageURL: &newImage})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	f.mustVote(alice, id, gov.ChoiceApprove)
	f.advance((gov.DefaultTypeDuration + 1) * time.Second)
	if err := f.eng.Execute(alice, id); err != nil {
		t.Fatalf("execute: %v", err)
	}

	org, err := f.eng.Organization()
	if err != nil {
		t.Fatalf("organization: %v", err)
	}
	if org.Name != newName || org.ImageURL != newImage {
		t.Fatalf("patch not applied: %+v", org)
	}
	if org.Description != "governance playground" {
		t.Fatalf("absent field overwritten: %q", org.Description)
	}
}

func TestDiscussionRecordsPollOutcome(t *testing.T) {
	f := newFixture(t)
	f.init(gov.OrgGuild, alice)

	won := f.mustCreate(alice, gov.Draft{Type: gov.DefaultTypeName, Title: "won"})
	lost := f.mustCreate(alice, gov.Draft{Type: gov.DefaultTypeName, Title: "lost"})
	f.mustVote(alice, won, gov.ChoiceApprove)
	f.advance((gov.DefaultTypeDuration + 1) * time.Second)

	if err := f.eng.Execute(alice, won); err != nil {
		t.Fatalf("execute won: %v", err)
	}
	if err := f.eng.Execute(alice, lost); err != nil {
		t.Fatalf("execute lost: %v", err)
	}
	if p := f.proposal(won); p.Result != gov.ResultSuccess {
		t.Fatalf("expected success, got %s", p.Result)
	}
	if p := f.proposal(lost); p.Result != gov.ResultFail {
		t.Fatalf("expected fail, got %s", p.Result)
	}
}

func TestExecuteUnknownProposal(t *testing.T) {
	f := newFixture(t)
	f.init(gov.OrgGuild, alice)
	if err := f.eng.Execute(alice, 7); !errors.Is(err, gov.ErrUnknownProposal) {
		t.Fatalf("expected ErrUnknownProposal, got %v", err)
	}
}
