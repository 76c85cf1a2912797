package gov

import "math"

// ResolveWeight computes an account's current voting power under the
// organization's weight model. Pure read: no side effects, re-resolved on
// every create and vote so balance or role changes take effect immediately.
//
// standard: token balance.
// guild:    assigned role weight; non-members cannot participate at all.
// hybrid:   token balance x role weight, defaulting the multiplier for
//           accounts without a role so plain holders still participate.
func (e *Engine) ResolveWeight(account string) (uint64, error) {
	org, err := e.organization()
	if err != nil {
		return 0, err
	}
	return e.resolveWeight(org, account)
}

func (e *Engine) resolveWeight(org *Organization, account string) (uint64, error) {
	switch org.Kind {
	case OrgStandard:
		return e.ledger.Balance(account)

	case OrgGuild:
		role, err := e.memberRole(account)
		if err != nil {
			return 0, err
		}
		return role.Weight, nil

	case OrgHybrid:
		balance, err := e.ledger.Balance(account)
		if err != nil {
			return 0, err
		}
		multiplier := uint64(DefaultHybridMultiplier)
		role, err := e.memberRole(account)
		if err == nil {
			multiplier = role.Weight
		} else if err != ErrNotMember {
			return 0, err
		}
		return mulWeight(balance, multiplier)

	default:
		return 0, ErrNotInitialized
	}
}

// memberRole resolves an account's role, mapping missing membership to
// ErrNotMember and a dangling role name to ErrInvalidRole.
func (e *Engine) memberRole(account string) (*Role, error) {
	member, err := e.store.Member(account)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrNotMember
	}
	role, err := e.store.Role(member.Role)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrInvalidRole
	}
	return role, nil
}

// mulWeight multiplies with an overflow guard; weights never wrap.
func mulWeight(balance, multiplier uint64) (uint64, error) {
	if balance == 0 || multiplier == 0 {
		return 0, nil
	}
	if balance > math.MaxUint64/multiplier {
		return 0, ErrWeightOverflow
	}
	return balance * multiplier, nil
}
