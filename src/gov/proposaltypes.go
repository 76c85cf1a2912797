package gov

import "strings"

func validType(t *ProposalType) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" || t.Duration == 0 {
		return ErrInvalidPayload
	}
	return nil
}

// UpsertProposalType creates or redefines a proposal type directly.
// Super-admin only; standard organizations change policy through
// policy_update proposals instead.
func (e *Engine) UpsertProposalType(actor string, t ProposalType) error {
	e.adminMu.Lock()
	defer e.adminMu.Unlock()

	org, err := e.organization()
	if err != nil {
		return err
	}
	if err := e.requireFloor(org, actor, org.MinSuperAdminWeight); err != nil {
		return err
	}
	if err := validType(&t); err != nil {
		return err
	}
	return e.store.SaveProposalType(&t)
}

// RemoveProposalType deletes a proposal type directly. The registry can
// never be emptied: the last type stays.
func (e *Engine) RemoveProposalType(actor, name string) error {
	e.adminMu.Lock()
	defer e.adminMu.Unlock()

	org, err := e.organization()
	if err != nil {
		return err
	}
	if err := e.requireFloor(org, actor, org.MinSuperAdminWeight); err != nil {
		return err
	}
	return e.removePolicy(name)
}

// removePolicy enforces existence and the last-policy rule; shared by the
// direct path and the execution dispatcher.
func (e *Engine) removePolicy(name string) error {
	t, err := e.store.ProposalType(name)
	if err != nil {
		return err
	}
	if t == nil {
		return ErrUnknownProposalType
	}
	count, err := e.store.ProposalTypeCount()
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrLastPolicy
	}
	return e.store.DeleteProposalType(name)
}

// applyPolicyUpdate dispatches an approved policy_update proposal. The vote
// already authorized the change, so no actor check here; the last-policy
// rule still holds.
func (e *Engine) applyPolicyUpdate(up *PolicyUpdatePayload) error {
	switch up.Kind {
	case UpdateUpsert:
		t := ProposalType{
			Name:               up.Name,
			Duration:           up.Duration,
			MinWeightToVote:    up.MinWeightToVote,
			MinWeightToCreate:  up.MinWeightToCreate,
			MinWeightToExecute: up.MinWeightToExecute,
		}
		if err := validType(&t); err != nil {
			return err
		}
		return e.store.SaveProposalType(&t)
	case UpdateRemove:
		return e.removePolicy(up.Name)
	default:
		return ErrInvalidUpdateKind
	}
}

// ProposalTypes lists the policy registry.
func (e *Engine) ProposalTypes() ([]ProposalType, error) {
	e.adminMu.RLock()
	defer e.adminMu.RUnlock()
	if _, err := e.organization(); err != nil {
		return nil, err
	}
	return e.store.ProposalTypes()
}

// ProposalType returns one policy by name.
func (e *Engine) ProposalType(name string) (*ProposalType, error) {
	e.adminMu.RLock()
	defer e.adminMu.RUnlock()
	if _, err := e.organization(); err != nil {
		return nil, err
	}
	t, err := e.store.ProposalType(name)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrUnknownProposalType
	}
	return t, nil
}
