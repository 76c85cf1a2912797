package gov

// Execute settles an ended proposal. The approve total is measured against
// the threshold snapshotted at creation: at or above it the effect
// dispatches and the result is success, below it the result is fail with no
// side effects. Reject and abstain weigh on nothing here; they are recorded
// sentiment. Any account may settle; the caller is kept for the audit
// notice.
//
// token_transfer proposals refuse this entrypoint; they settle through
// ExecuteTokenTransfer with a witness.
func (e *Engine) Execute(caller string, id uint64) error {
	return e.execute(caller, id, "", false)
}

// ExecuteTokenTransfer settles a token_transfer proposal. The witness must
// repeat the token type voted on; a mismatch aborts before any funds move.
func (e *Engine) ExecuteTokenTransfer(caller string, id uint64, witness string) error {
	return e.execute(caller, id, witness, true)
}

func (e *Engine) execute(caller string, id uint64, witness string, tokenPath bool) error {
	// Write lock: dispatch mutates the policy registry, organization record
	// and treasury, all shared with every other operation.
	e.adminMu.Lock()
	defer e.adminMu.Unlock()

	org, err := e.organization()
	if err != nil {
		return err
	}

	mu := e.proposalLock(id)
	mu.Lock()
	defer mu.Unlock()

	p, err := e.proposal(id)
	if err != nil {
		return err
	}
	if !p.Ended(e.unixNow()) {
		return ErrVotingNotEnded
	}
	if p.Executed {
		return ErrAlreadyExecuted
	}
	if tokenPath != (p.Action == ActionTokenTransfer) {
		return ErrWrongExecutionEntrypoint
	}
	if tokenPath {
		if p.Payload.Token == nil {
			return ErrInvalidPayload
		}
		if witness != p.Payload.Token.TokenType {
			return ErrTokenTypeMismatch
		}
	}

	if p.Approve >= p.ExecuteThreshold {
		// A dispatch error leaves the proposal unsettled; it can be retried
		// once the obstacle (say an underfunded treasury) is cleared.
		if err := e.dispatch(org, p); err != nil {
			return err
		}
		p.Result = ResultSuccess
	} else {
		p.Result = ResultFail
	}
	p.Executed = true
	if err := e.store.FinalizeProposal(p); err != nil {
		return err
	}
	e.notifyExecuted(p)
	return nil
}

// dispatch applies the approved proposal's effect.
func (e *Engine) dispatch(org *Organization, p *Proposal) error {
	switch p.Action {
	case ActionDiscussion:
		return nil
	case ActionAssetTransfer:
		t := p.Payload.Transfer
		if t == nil {
			return ErrInvalidPayload
		}
		return e.payout(org, t.Asset, t.Recipient, t.Amount)
	case ActionTokenTransfer:
		t := p.Payload.Token
		if t == nil {
			return ErrInvalidPayload
		}
		return e.payout(org, t.TokenType, t.Recipient, t.Amount)
	case ActionPolicyUpdate:
		if p.Payload.Policy == nil {
			return ErrInvalidPayload
		}
		return e.applyPolicyUpdate(p.Payload.Policy)
	case ActionOrgUpdate:
		if p.Payload.Org == nil {
			return ErrInvalidPayload
		}
		return e.applyOrgUpdate(p.Payload.Org)
	default:
		return ErrInvalidPayload
	}
}

// payout debits the treasury and, when the asset is the organization's own
// token on an internally kept ledger, credits the recipient's balance.
// Mirrored ledgers track an external chain, so only the treasury side moves.
func (e *Engine) payout(org *Organization, asset, recipient string, amount uint64) error {
	if err := e.ledger.TreasuryDebit(asset, amount); err != nil {
		return err
	}
	if asset == org.TokenRef && !e.MirrorBalances {
		return e.ledger.Credit(recipient, amount)
	}
	return nil
}
