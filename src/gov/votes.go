package gov

import "math"

// Vote casts or replaces a ballot. A repeat vote is a full replacement: the
// prior weight leaves its bucket and the freshly resolved weight lands in
// the new one, so the tally always reflects one current ballot per account
// and total_weight stays the exact sum of the three buckets.
func (e *Engine) Vote(voter string, id uint64, choice Choice) error {
	switch choice {
	case ChoiceApprove, ChoiceReject, ChoiceAbstain:
	default:
		return ErrInvalidChoice
	}

	e.adminMu.RLock()
	defer e.adminMu.RUnlock()

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
	if p.Ended(e.unixNow()) {
		return ErrProposalExpired
	}

	// Both the vote floor and the voter's weight are read live, not from
	// creation time. Deleting a type freezes voting on its open proposals.
	t, err := e.store.ProposalType(p.Type)
	if err != nil {
		return err
	}
	if t == nil {
		return ErrUnknownProposalType
	}
	weight, err := e.resolveWeight(org, voter)
	if err != nil {
		return err
	}
	if weight < t.MinWeightToVote {
		return ErrInsufficientWeight
	}

	prior, voted := p.Voters[voter]
	remaining := p.TotalWeight
	if voted {
		remaining -= prior.Weight
	}
	if remaining > math.MaxUint64-weight {
		return ErrWeightOverflow
	}

	if voted {
		switch prior.Choice {
		case ChoiceApprove:
			p.Approve -= prior.Weight
		case ChoiceReject:
			p.Reject -= prior.Weight
		case ChoiceAbstain:
			p.Abstain -= prior.Weight
		}
	}
	switch choice {
	case ChoiceApprove:
		p.Approve += weight
	case ChoiceReject:
		p.Reject += weight
	case ChoiceAbstain:
		p.Abstain += weight
	}
	p.TotalWeight = remaining + weight
	p.Voters[voter] = VoteRecord{Choice: choice, Weight: weight}

	return e.store.SaveVote(p, voter)
}
