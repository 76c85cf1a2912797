package gov

// Store persists the governance records. Implementations return (nil, nil)
// for lookups that find nothing; the engine maps misses to the sentinel for
// the caller's context. Mutating methods must be atomic per call: a failed
// call leaves no partial write behind.
type Store interface {
	// Organization singleton.
	Organization() (*Organization, error)
	SaveOrganization(org *Organization) error
	// InitOrganization writes the singleton plus its seed records in one
	// unit. Role and member are nil for standard organizations.
	InitOrganization(org *Organization, seed *ProposalType, role *Role, member *Member) error

	// Proposal type registry.
	ProposalType(name string) (*ProposalType, error)
	ProposalTypes() ([]ProposalType, error)
	ProposalTypeCount() (int64, error)
	SaveProposalType(pt *ProposalType) error
	DeleteProposalType(name string) error

	// Role lattice and membership.
	Role(name string) (*Role, error)
	Roles() ([]Role, error)
	SaveRole(r *Role) error
	DeleteRole(name string) error
	MembersWithRole(name string) (int64, error)
	Member(address string) (*Member, error)
	Members() ([]Member, error)
	SaveMember(m *Member) error
	DeleteMember(address string) error

	// Proposals and the id registry. CreateProposal allocates the next id,
	// stores the record and registers id->creator atomically; ids start at 0
	// and increase by one with no gaps.
	CreateProposal(p *Proposal) (uint64, error)
	Proposal(id uint64) (*Proposal, error)
	// Proposals lists records newest-first without voter maps.
	Proposals(offset, limit int) ([]Proposal, error)
	// UnsettledBefore lists proposals, oldest first, whose voting window
	// closed at or before now and which have not been executed. No voter
	// maps.
	UnsettledBefore(now uint64) ([]Proposal, error)
	ProposalCount() (int64, error)
	NextProposalID() (uint64, error)
	ProposalCreator(id uint64) (string, error)
	// SaveVote persists the proposal's tally columns and the named voter's
	// current record in one unit.
	SaveVote(p *Proposal, voter string) error
	// FinalizeProposal persists the executed flag and result.
	FinalizeProposal(p *Proposal) error
}

// Ledger tracks governance-token balances and treasury holdings. The engine
// is the only writer of treasury debits; no other component moves funds out.
type Ledger interface {
	Balance(account string) (uint64, error)
	Credit(account string, amount uint64) error
	Debit(account string, amount uint64) error
	TreasuryBalance(asset string) (uint64, error)
	TreasuryCredit(asset string, amount uint64) error
	TreasuryDebit(asset string, amount uint64) error
}

// Notifier receives lifecycle notices after a commit. Implementations must
// not block; the engine calls them inline.
type Notifier interface {
	ProposalCreated(p *Proposal)
	ProposalExecuted(p *Proposal)
}
