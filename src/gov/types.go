package gov

// OrgKind selects the weight model an organization runs under.
type OrgKind string

const (
	// OrgStandard weighs votes by governance-token balance alone.
	OrgStandard OrgKind = "standard"
	// OrgGuild weighs votes by assigned role weight; no token involved.
	OrgGuild OrgKind = "guild"
	// OrgHybrid weighs votes by token balance multiplied by role weight.
	OrgHybrid OrgKind = "hybrid"
)

// Choice is a ballot option.
type Choice string

const (
	ChoiceApprove Choice = "approve"
	ChoiceReject  Choice = "reject"
	ChoiceAbstain Choice = "abstain"
)

// Action is the effect a proposal applies when it passes.
type Action string

const (
	ActionDiscussion    Action = "discussion"
	ActionAssetTransfer Action = "asset_transfer"
	ActionTokenTransfer Action = "token_transfer"
	ActionPolicyUpdate  Action = "policy_update"
	ActionOrgUpdate     Action = "org_update"
)

// Result is the terminal outcome of an executed proposal.
type Result string

const (
	ResultPending Result = "pending"
	ResultSuccess Result = "success"
	ResultFail    Result = "fail"
)

// UpdateKind distinguishes policy-update sub-operations.
type UpdateKind string

const (
	UpdateUpsert UpdateKind = "upsert"
	UpdateRemove UpdateKind = "remove"
)

// Defaults applied by InitOrganization.
const (
	DefaultAdminFloor      = 2
	DefaultSuperAdminFloor = 3
	FounderRole            = "founder"
	FounderRoleWeight      = 10

	DefaultTypeName       = "standard"
	DefaultTypeDuration   = 7 * 24 * 3600
	DefaultTypeMinVote    = 1
	DefaultTypeMinCreate  = 1
	DefaultTypeMinExecute = 1

	// DefaultHybridMultiplier scales token balances of accounts that hold no
	// role in a hybrid organization.
	DefaultHybridMultiplier = 1000
)

// Organization is the singleton governed entity.
type Organization struct {
	Kind                OrgKind `gorm:"size:16;not null" json:"kind"`
	Name                string  `gorm:"size:128;not null" json:"name"`
	Description         string  `gorm:"type:text" json:"description"`
	ImageURL            string  `gorm:"size:256" json:"imageUrl"`
	TokenRef            string  `gorm:"size:256" json:"tokenRef"`
	MinAdminWeight      uint64  `gorm:"not null" json:"minAdminWeight"`
	MinSuperAdminWeight uint64  `gorm:"not null" json:"minSuperAdminWeight"`
	CreatedAt           uint64  `gorm:"not null" json:"createdAt"`
}

// ProposalType is a named governance policy: how long voting runs and the
// weight bars for voting, creating and executing.
type ProposalType struct {
	Name               string `gorm:"primaryKey;size:64" json:"name"`
	Duration           uint64 `gorm:"not null" json:"duration"`
	MinWeightToVote    uint64 `gorm:"not null" json:"minWeightToVote"`
	MinWeightToCreate  uint64 `gorm:"not null" json:"minWeightToCreate"`
	MinWeightToExecute uint64 `gorm:"not null" json:"minWeightToExecute"`
}

// Role is a permission tier. Weights are totally ordered; every admin check
// compares the actor's role weight against a floor or a target weight.
type Role struct {
	Name   string `gorm:"primaryKey;size:64" json:"name"`
	Weight uint64 `gorm:"not null" json:"weight"`
}

// Member maps an account to its role. Only guild and hybrid organizations
// keep member records.
type Member struct {
	Address string `gorm:"primaryKey;size:128" json:"address"`
	Role    string `gorm:"size:64;not null" json:"role"`
}

// VoteRecord is a voter's last-counted ballot on one proposal.
type VoteRecord struct {
	Choice Choice `json:"choice"`
	Weight uint64 `json:"weight"`
}

// TransferPayload moves an arbitrary treasury asset to a recipient.
type TransferPayload struct {
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
	Asset     string `json:"asset"`
}

// TokenTransferPayload moves the organization's governance token. Execution
// requires a witness matching TokenType.
type TokenTransferPayload struct {
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
	TokenType string `json:"tokenType"`
}

// PolicyUpdatePayload upserts or removes a proposal type.
type PolicyUpdatePayload struct {
	Kind               UpdateKind `json:"kind"`
	Name               string     `json:"name"`
	Duration           uint64     `json:"duration"`
	MinWeightToVote    uint64     `json:"minWeightToVote"`
	MinWeightToCreate  uint64     `json:"minWeightToCreate"`
	MinWeightToExecute uint64     `json:"minWeightToExecute"`
}

// OrgUpdatePayload patches organization metadata. Nil fields keep the
// current value.
type OrgUpdatePayload struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

// Payload carries the sub-type data of a proposal. Exactly one field is
// non-nil for actions that take data; discussion proposals carry none.
type Payload struct {
	Transfer *TransferPayload      `json:"transfer,omitempty"`
	Token    *TokenTransferPayload `json:"token,omitempty"`
	Policy   *PolicyUpdatePayload  `json:"policy,omitempty"`
	Org      *OrgUpdatePayload     `json:"org,omitempty"`
}

// Proposal is the append-only audit record of one governance question.
// ExecuteThreshold is copied from the proposal type at creation time; later
// policy edits never change the bar for an in-flight proposal.
type Proposal struct {
	ID               uint64                `json:"id"`
	Type             string                `json:"type"`
	Action           Action                `json:"action"`
	Title            string                `json:"title"`
	Description      string                `json:"description"`
	Creator          string                `json:"creator"`
	Approve          uint64                `json:"approve"`
	Reject           uint64                `json:"reject"`
	Abstain          uint64                `json:"abstain"`
	TotalWeight      uint64                `json:"totalWeight"`
	CreatedAt        uint64                `json:"createdAt"`
	EndsAt           uint64                `json:"endsAt"`
	Duration         uint64                `json:"duration"`
	ExecuteThreshold uint64                `json:"executeThreshold"`
	Voters           map[string]VoteRecord `json:"-"`
	Result           Result                `json:"result"`
	Executed         bool                  `json:"executed"`
	Payload          Payload               `json:"payload"`
}

// Ended reports whether the voting window has closed at the given Unix time.
func (p *Proposal) Ended(now uint64) bool { return now >= p.EndsAt }
