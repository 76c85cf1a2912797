package gov_test

import (
	"errors"
	"testing"

	"github.com/stake-plus/dao-governance/src/gov"
)

func TestDirectPolicyPathRequiresSuperAdmin(t *testing.T) {
	f := newFixture(t)
	f.init(gov.OrgGuild, alice)
	f.upsertRole(alice, "officer", 2)
	f.addMember(alice, bob, "officer")

	pt := gov.ProposalType{Name: "fast", Duration: 60, MinWeightToVote: 1, MinWeightToCreate: 1, MinWeightToExecute: 1}

	// Admin floor (2) is not enough; policy edits sit behind the super floor.
	if err := f.eng.UpsertProposalType(bob, pt); !errors.Is(err, gov.ErrInsufficientRoleWeight) {
		t.Fatalf("expected ErrInsufficientRoleWeight, got %v", err)
	}
	if err := f.eng.UpsertProposalType(alice, pt); err != nil {
		t.Fatalf("founder upsert: %v", err)
	}
	if err := f.eng.RemoveProposalType(bob, "fast"); !errors.Is(err, gov.ErrInsufficientRoleWeight) {
		t.Fatalf("expected ErrInsufficientRoleWeight, got %v", err)
	}
	if err := f.eng.RemoveProposalType(alice, "fast"); err != nil {
		t.Fatalf("founder remove: %v", err)
	}
}

func TestDirectPolicyPathClosedToStandardOrgs(t *testing.T) {
	f := newFixture(t)
	f.init(gov.OrgStandard, alice)
	f.credit(alice, 1_000_000)

	pt := gov.ProposalType{Name: "fast", Duration: 60}
	if err := f.eng.UpsertProposalType(alice, pt); !errors.Is(err, gov.ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
}

func TestRemoveLastPolicyRejected(t *testing.T) {
	f := newFixture(t)
	f.init(gov.OrgGuild, alice)

	if err := f.eng.RemoveProposalType(alice, gov.DefaultTypeName); !errors.Is(err, gov.ErrLastPolicy) {
		t.Fatalf("expected ErrLastPolicy, got %v", err)
	}
	if err := f.eng.RemoveProposalType(alice, "ghost"); !errors.Is(err, gov.ErrUnknownProposalType) {
		t.Fatalf("expected ErrUnknownProposalType, got %v", err)
	}

	types, err := f.eng.ProposalTypes()
	if err != nil {
		t.Fatalf("types: %v", err)
	}
	if len(types) != 1 {
		t.Fatalf("registry must keep its last entry, got %d", len(types))
	}
}

func TestUpsertPolicyValidation(t *testing.T) {
	f := newFixture(t)
	f.init(gov.OrgGuild, alice)

	if err := f.eng.UpsertProposalType(alice, gov.ProposalType{Name: "  ", Duration: 60}); !errors.Is(err, gov.ErrInvalidPayload) {
		t.Fatalf("blank name: expected ErrInvalidPayload, got %v", err)
	}
	if err := f.eng.UpsertProposalType(alice, gov.ProposalType{Name: "x", Duration: 0}); !errors.Is(err, gov.ErrInvalidPayload) {
		t.Fatalf("zero duration: expected ErrInvalidPayload, got %v", err)
	}
}
