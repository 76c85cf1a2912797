package store

import (
	"sort"
	"sync"

	"github.com/stake-plus/dao-governance/src/gov"
)

// Memory keeps every governance record in process. It backs tests and the
// standalone ledger mode; all methods copy on the way in and out so callers
// never alias stored state.
type Memory struct {
	mu        sync.RWMutex
	org       *gov.Organization
	types     map[string]gov.ProposalType
	roles     map[string]gov.Role
	members   map[string]gov.Member
	proposals map[uint64]*gov.Proposal
	creators  map[uint64]string
	nextID    uint64
}

func NewMemory() *Memory {
	return &Memory{
		types:     make(map[string]gov.ProposalType),
		roles:     make(map[string]gov.Role),
		members:   make(map[string]gov.Member),
		proposals: make(map[uint64]*gov.Proposal),
		creators:  make(map[uint64]string),
	}
}

func (m *Memory) Organization() (*gov.Organization, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.org == nil {
		return nil, nil
	}
	org := *m.org
	return &org, nil
}

func (m *Memory) SaveOrganization(org *gov.Organization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *org
	m.org = &cp
	return nil
}

func (m *Memory) InitOrganization(org *gov.Organization, seed *gov.ProposalType, role *gov.Role, member *gov.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.org != nil {
		return gov.ErrAlreadyInitialized
	}
	cp := *org
	m.org = &cp
	if seed != nil {
		m.types[seed.Name] = *seed
	}
	if role != nil {
		m.roles[role.Name] = *role
	}
	if member != nil {
		m.members[member.Address] = *member
	}
	return nil
}

func (m *Memory) ProposalType(name string) (*gov.ProposalType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.types[name]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (m *Memory) ProposalTypes() ([]gov.ProposalType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]gov.ProposalType, 0, len(m.types))
	for _, t := range m.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) ProposalTypeCount() (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.types)), nil
}

func (m *Memory) SaveProposalType(pt *gov.ProposalType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.types[pt.Name] = *pt
	return nil
}

func (m *Memory) DeleteProposalType(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.types, name)
	return nil
}

func (m *Memory) Role(name string) (*gov.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.roles[name]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *Memory) Roles() ([]gov.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]gov.Role, 0, len(m.roles))
	for _, r := range m.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out, nil
}

func (m *Memory) SaveRole(r *gov.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[r.Name] = *r
	return nil
}

func (m *Memory) DeleteRole(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.roles, name)
	return nil
}

func (m *Memory) MembersWithRole(name string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, mb := range m.members {
		if mb.Role == name {
			n++
		}
	}
	return n, nil
}

func (m *Memory) Member(address string) (*gov.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mb, ok := m.members[address]
	if !ok {
		return nil, nil
	}
	return &mb, nil
}

func (m *Memory) Members() ([]gov.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]gov.Member, 0, len(m.members))
	for _, mb := range m.members {
		out = append(out, mb)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out, nil
}

func (m *Memory) SaveMember(mb *gov.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[mb.Address] = *mb
	return nil
}

func (m *Memory) DeleteMember(address string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.members, address)
	return nil
}

func (m *Memory) CreateProposal(p *gov.Proposal) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.nextID
	m.proposals[p.ID] = copyProposal(p)
	m.creators[p.ID] = p.Creator
	m.nextID++
	return p.ID, nil
}

func (m *Memory) Proposal(id uint64) (*gov.Proposal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.proposals[id]
	if !ok {
		return nil, nil
	}
	return copyProposal(p), nil
}

func (m *Memory) Proposals(offset, limit int) ([]gov.Proposal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]uint64, 0, len(m.proposals))
	for id := range m.proposals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	if offset < 0 {
		offset = 0
	}
	if offset >= len(ids) {
		return []gov.Proposal{}, nil
	}
	ids = ids[offset:]
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}
	out := make([]gov.Proposal, 0, len(ids))
	for _, id := range ids {
		cp := copyProposal(m.proposals[id])
		cp.Voters = nil
		out = append(out, *cp)
	}
	return out, nil
}

func (m *Memory) UnsettledBefore(now uint64) ([]gov.Proposal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []gov.Proposal{}
	for _, p := range m.proposals {
		if p.Executed || p.EndsAt > now {
			continue
		}
		cp := copyProposal(p)
		cp.Voters = nil
		out = append(out, *cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) ProposalCount() (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.proposals)), nil
}

func (m *Memory) NextProposalID() (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.nextID, nil
}

func (m *Memory) ProposalCreator(id uint64) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.creators[id], nil
}

func (m *Memory) SaveVote(p *gov.Proposal, voter string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.proposals[p.ID]; !ok {
		return gov.ErrUnknownProposal
	}
	m.proposals[p.ID] = copyProposal(p)
	return nil
}

func (m *Memory) FinalizeProposal(p *gov.Proposal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.proposals[p.ID]; !ok {
		return gov.ErrUnknownProposal
	}
	m.proposals[p.ID] = copyProposal(p)
	return nil
}

func copyProposal(p *gov.Proposal) *gov.Proposal {
	cp := *p
	if p.Voters != nil {
		cp.Voters = make(map[string]gov.VoteRecord, len(p.Voters))
		for k, v := range p.Voters {
			cp.Voters[k] = v
		}
	}
	if p.Payload.Transfer != nil {
		t := *p.Payload.Transfer
		cp.Payload.Transfer = &t
	}
	if p.Payload.Token != nil {
		t := *p.Payload.Token
		cp.Payload.Token = &t
	}
	if p.Payload.Policy != nil {
		t := *p.Payload.Policy
		cp.Payload.Policy = &t
	}
	if p.Payload.Org != nil {
		t := *p.Payload.Org
		cp.Payload.Org = &t
	}
	return &cp
}

// MemoryLedger is the standalone balance book: governance-token balances by
// account plus treasury holdings by asset.
type MemoryLedger struct {
	mu       sync.RWMutex
	balances map[string]uint64
	treasury map[string]uint64
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		balances: make(map[string]uint64),
		treasury: make(map[string]uint64),
	}
}

func (l *MemoryLedger) Balance(account string) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[account], nil
}

func (l *MemoryLedger) Credit(account string, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] += amount
	return nil
}

func (l *MemoryLedger) Debit(account string, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[account] < amount {
		return gov.ErrInsufficientBalance
	}
	l.balances[account] -= amount
	return nil
}

func (l *MemoryLedger) TreasuryBalance(asset string) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.treasury[asset], nil
}

func (l *MemoryLedger) TreasuryCredit(asset string, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.treasury[asset] += amount
	return nil
}

func (l *MemoryLedger) TreasuryDebit(asset string, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.treasury[asset] < amount {
		return gov.ErrInsufficientTreasury
	}
	l.treasury[asset] -= amount
	return nil
}
