package gov_test

import (
	"errors"
	"testing"

	"github.com/stake-plus/dao-governance/src/gov"
)

// guildFixture builds the lattice most permission tests share: founder
// alice (10), leader bob (9), executive carol (8).
func guildFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	f.init(gov.OrgGuild, alice)
	f.upsertRole(alice, "leader", 9)
	f.upsertRole(alice, "executive", 8)
	f.addMember(alice, bob, "leader")
	f.addMember(alice, carol, "executive")
	return f
}

func TestUpsertRoleRequiresStrictlyGreaterWeight(t *testing.T) {
	f := guildFixture(t)

	// An executive (8) cannot mint a role at its own tier or above.
	if err := f.eng.UpsertRole(carol, "peer", 8); !errors.Is(err, gov.ErrInsufficientRoleWeight) {
		t.Fatalf("equal weight: expected ErrInsufficientRoleWeight, got %v", err)
	}
	if err := f.eng.UpsertRole(carol, "chief", 9); !errors.Is(err, gov.ErrInsufficientRoleWeight) {
		t.Fatalf("greater weight: expected ErrInsufficientRoleWeight, got %v", err)
	}
	if err := f.eng.UpsertRole(carol, "intern", 1); err != nil {
		t.Fatalf("lower weight: %v", err)
	}

	// Redefining an existing role needs strict superiority over its old
	// weight too; an executive cannot drag the leader tier down.
	if err := f.eng.UpsertRole(carol, "leader", 1); !errors.Is(err, gov.ErrInsufficientRoleWeight) {
		t.Fatalf("redefine above self: expected ErrInsufficientRoleWeight, got %v", err)
	}
	if err := f.eng.UpsertRole(alice, "leader", 7); err != nil {
		t.Fatalf("founder redefine: %v", err)
	}
}

func TestAssignRoleAtOwnTierFails(t *testing.T) {
	f := guildFixture(t)

	// Executive weight 8 is not strictly greater than leader weight 9.
	err := f.eng.AddMember(carol, dave, "leader")
	if !errors.Is(err, gov.ErrInsufficientRoleWeight) {
		t.Fatalf("expected ErrInsufficientRoleWeight, got %v", err)
	}

	// Nor can it reassign someone already holding a peer-or-higher role.
	f.upsertRole(alice, "intern", 1)
	if err := f.eng.AddMember(carol, bob, "intern"); !errors.Is(err, gov.ErrInsufficientRoleWeight) {
		t.Fatalf("demote superior: expected ErrInsufficientRoleWeight, got %v", err)
	}

	// Strictly below its own tier is fine.
	if err := f.eng.AddMember(carol, dave, "intern"); err != nil {
		t.Fatalf("assign below: %v", err)
	}
}

func TestAddMemberUnknownRole(t *testing.T) {
	f := guildFixture(t)
	if err := f.eng.AddMember(alice, dave, "ghost"); !errors.Is(err, gov.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestRemoveMemberAllowsEqualWeight(t *testing.T) {
	f := guildFixture(t)
	f.addMember(alice, dave, "leader")

	// bob (leader, 9) may remove dave (leader, 9): removal is >= not >.
	if err := f.eng.RemoveMember(bob, dave); err != nil {
		t.Fatalf("peer removal: %v", err)
	}
	// carol (8) may not remove bob (9).
	if err := f.eng.RemoveMember(carol, bob); !errors.Is(err, gov.ErrInsufficientRoleWeight) {
		t.Fatalf("expected ErrInsufficientRoleWeight, got %v", err)
	}
	if err := f.eng.RemoveMember(bob, "nobody"); !errors.Is(err, gov.ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
}

func TestRemoveRoleRules(t *testing.T) {
	f := guildFixture(t)

	// Still assigned to carol.
	if err := f.eng.RemoveRole(alice, "executive"); !errors.Is(err, gov.ErrRoleInUse) {
		t.Fatalf("expected ErrRoleInUse, got %v", err)
	}
	if err := f.eng.RemoveMember(alice, carol); err != nil {
		t.Fatalf("remove carol: %v", err)
	}
	// bob (9) can retire the now-vacant tier below him.
	if err := f.eng.RemoveRole(bob, "executive"); err != nil {
		t.Fatalf("remove vacant role: %v", err)
	}
	if err := f.eng.RemoveRole(bob, "executive"); !errors.Is(err, gov.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole after removal, got %v", err)
	}
	// bob (9) cannot retire the founder tier (10) above him.
	if err := f.eng.RemoveRole(bob, gov.FounderRole); !errors.Is(err, gov.ErrInsufficientRoleWeight) {
		t.Fatalf("expected ErrInsufficientRoleWeight, got %v", err)
	}
}

func TestAdminFloorGatesRoleOps(t *testing.T) {
	f := guildFixture(t)
	f.upsertRole(alice, "intern", 1)
	f.addMember(alice, dave, "intern")

	// Weight 1 sits below the default admin floor of 2.
	if err := f.eng.UpsertRole(dave, "sub", 0); !errors.Is(err, gov.ErrInsufficientRoleWeight) {
		t.Fatalf("expected floor rejection, got %v", err)
	}
	if err := f.eng.AddMember(dave, "friend", "intern"); !errors.Is(err, gov.ErrInsufficientRoleWeight) {
		t.Fatalf("expected floor rejection, got %v", err)
	}
	// Outsiders fail on membership before any weight math.
	if err := f.eng.UpsertRole("stranger", "sub", 0); !errors.Is(err, gov.ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
}

func TestRoleOpsRejectedInStandardOrg(t *testing.T) {
	f := newFixture(t)
	f.init(gov.OrgStandard, alice)
	f.credit(alice, 1_000_000_000)

	if err := f.eng.UpsertRole(alice, "leader", 9); !errors.Is(err, gov.ErrNotMember) {
		t.Fatalf("upsert role: expected ErrNotMember, got %v", err)
	}
	if err := f.eng.AddMember(alice, bob, "leader"); !errors.Is(err, gov.ErrNotMember) {
		t.Fatalf("add member: expected ErrNotMember, got %v", err)
	}
}

func TestRolesAndMembersListing(t *testing.T) {
	f := guildFixture(t)

	roles, err := f.eng.Roles()
	if err != nil {
		t.Fatalf("roles: %v", err)
	}
	// founder 10, leader 9, executive 8 — listed heaviest first.
	if len(roles) != 3 || roles[0].Name != gov.FounderRole || roles[2].Name != "executive" {
		t.Fatalf("unexpected role listing: %+v", roles)
	}

	members, err := f.eng.Members()
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(members))
	}
}
