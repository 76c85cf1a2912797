package gov

import "strings"

// Draft carries the caller-supplied fields common to every proposal kind.
type Draft struct {
	Type        string
	Title       string
	Description string
}

// CreateDiscussion opens a proposal with no on-execution effect beyond
// recording the outcome.
func (e *Engine) CreateDiscussion(creator string, d Draft) (uint64, error) {
	return e.create(creator, d, ActionDiscussion, Payload{})
}

// CreateAssetTransfer opens a proposal paying out of the treasury.
func (e *Engine) CreateAssetTransfer(creator string, d Draft, p TransferPayload) (uint64, error) {
	if p.Recipient == "" || p.Amount == 0 || p.Asset == "" {
		return 0, ErrInvalidPayload
	}
	return e.create(creator, d, ActionAssetTransfer, Payload{Transfer: &p})
}

// CreateTokenTransfer opens a treasury payout that additionally demands a
// token-type witness at execution time.
func (e *Engine) CreateTokenTransfer(creator string, d Draft, p TokenTransferPayload) (uint64, error) {
	if p.Recipient == "" || p.Amount == 0 || p.TokenType == "" {
		return 0, ErrInvalidPayload
	}
	return e.create(creator, d, ActionTokenTransfer, Payload{Token: &p})
}

// CreatePolicyUpdate opens a proposal that rewrites the proposal-type
// registry on success.
func (e *Engine) CreatePolicyUpdate(creator string, d Draft, p PolicyUpdatePayload) (uint64, error) {
	p.Name = strings.TrimSpace(p.Name)
	switch p.Kind {
	case UpdateUpsert:
		if p.Name == "" || p.Duration == 0 {
			return 0, ErrInvalidPayload
		}
	case UpdateRemove:
		if p.Name == "" {
			return 0, ErrInvalidPayload
		}
	default:
		return 0, ErrInvalidUpdateKind
	}
	return e.create(creator, d, ActionPolicyUpdate, Payload{Policy: &p})
}

// CreateOrgUpdate opens a proposal patching organization metadata. An
// all-nil patch would execute as a no-op, so it is rejected up front.
func (e *Engine) CreateOrgUpdate(creator string, d Draft, p OrgUpdatePayload) (uint64, error) {
	if p.Name == nil && p.Description == nil && p.ImageURL == nil {
		return 0, ErrInvalidPayload
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return 0, ErrInvalidPayload
	}
	return e.create(creator, d, ActionOrgUpdate, Payload{Org: &p})
}

// create runs the shared admission path: live type lookup, live weight
// check, then an atomic id allocation and insert. The execution threshold is
// snapshotted here; later policy edits never move the bar for proposals
// already open.
func (e *Engine) create(creator string, d Draft, action Action, payload Payload) (uint64, error) {
	e.adminMu.RLock()
	defer e.adminMu.RUnlock()

	org, err := e.organization()
	if err != nil {
		return 0, err
	}
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		return 0, ErrInvalidPayload
	}
	t, err := e.store.ProposalType(d.Type)
	if err != nil {
		return 0, err
	}
	if t == nil {
		return 0, ErrUnknownProposalType
	}
	weight, err := e.resolveWeight(org, creator)
	if err != nil {
		return 0, err
	}
	if weight < t.MinWeightToCreate {
		return 0, ErrInsufficientWeight
	}

	now := e.unixNow()
	p := &Proposal{
		Type:             t.Name,
		Action:           action,
		Title:            d.Title,
		Description:      d.Description,
		Creator:          creator,
		CreatedAt:        now,
		EndsAt:           now + t.Duration,
		Duration:         t.Duration,
		ExecuteThreshold: t.MinWeightToExecute,
		Voters:           make(map[string]VoteRecord),
		Result:           ResultPending,
		Payload:          payload,
	}
	id, err := e.store.CreateProposal(p)
	if err != nil {
		return 0, err
	}
	e.notifyCreated(p)
	return id, nil
}

// Proposal returns one proposal by id, tally included.
func (e *Engine) Proposal(id uint64) (*Proposal, error) {
	e.adminMu.RLock()
	defer e.adminMu.RUnlock()
	if _, err := e.organization(); err != nil {
		return nil, err
	}
	return e.proposal(id)
}

func (e *Engine) proposal(id uint64) (*Proposal, error) {
	p, err := e.store.Proposal(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrUnknownProposal
	}
	return p, nil
}

// Proposals pages through proposals newest first.
func (e *Engine) Proposals(offset, limit int) ([]Proposal, error) {
	e.adminMu.RLock()
	defer e.adminMu.RUnlock()
	if _, err := e.organization(); err != nil {
		return nil, err
	}
	return e.store.Proposals(offset, limit)
}

// AwaitingExecution lists proposals whose voting window has closed but that
// nobody has executed yet, oldest first.
func (e *Engine) AwaitingExecution() ([]Proposal, error) {
	e.adminMu.RLock()
	defer e.adminMu.RUnlock()
	if _, err := e.organization(); err != nil {
		return nil, err
	}
	return e.store.UnsettledBefore(e.unixNow())
}

// ProposalCount reports how many proposals exist.
func (e *Engine) ProposalCount() (int64, error) {
	e.adminMu.RLock()
	defer e.adminMu.RUnlock()
	if _, err := e.organization(); err != nil {
		return 0, err
	}
	return e.store.ProposalCount()
}

// NextProposalID previews the id the next proposal will take. Ids start at
// zero and never skip.
func (e *Engine) NextProposalID() (uint64, error) {
	e.adminMu.RLock()
	defer e.adminMu.RUnlock()
	if _, err := e.organization(); err != nil {
		return 0, err
	}
	return e.store.NextProposalID()
}

// VoteOf returns the ballot an account currently holds on a proposal, nil
// if it has not voted.
func (e *Engine) VoteOf(id uint64, voter string) (*VoteRecord, error) {
	e.adminMu.RLock()
	defer e.adminMu.RUnlock()
	if _, err := e.organization(); err != nil {
		return nil, err
	}
	p, err := e.proposal(id)
	if err != nil {
		return nil, err
	}
	if rec, ok := p.Voters[voter]; ok {
		return &rec, nil
	}
	return nil, nil
}
