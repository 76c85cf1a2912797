package gov

import "errors"

// Engine failures are sentinel errors so callers can classify them with
// errors.Is. Every operation either fully commits or rejects with one of
// these; nothing is retried internally.
var (
	// Authorization
	ErrNotMember              = errors.New("account is not a member")
	ErrInsufficientRoleWeight = errors.New("role weight below required floor")
	ErrInsufficientWeight     = errors.New("voting weight below required threshold")

	// State
	ErrAlreadyInitialized = errors.New("organization already initialized")
	ErrNotInitialized     = errors.New("organization not initialized")
	ErrProposalExpired    = errors.New("voting window has closed")
	ErrVotingNotEnded     = errors.New("voting window still open")
	ErrAlreadyExecuted    = errors.New("proposal already executed")

	// Reference
	ErrUnknownProposal     = errors.New("unknown proposal id")
	ErrUnknownProposalType = errors.New("unknown proposal type")
	ErrInvalidRole         = errors.New("unknown role")

	// Validation
	ErrInvalidChoice            = errors.New("invalid vote choice")
	ErrInvalidUpdateKind        = errors.New("unrecognized policy update kind")
	ErrInvalidPayload           = errors.New("payload does not match proposal action")
	ErrWrongExecutionEntrypoint = errors.New("proposal requires the other execution entrypoint")
	ErrTokenTypeMismatch        = errors.New("token witness does not match proposal token type")
	ErrWeightOverflow           = errors.New("weight computation overflows")

	// Invariant guards
	ErrLastPolicy           = errors.New("cannot remove the last proposal type")
	ErrRoleInUse            = errors.New("role is still assigned to members")
	ErrInsufficientTreasury = errors.New("treasury holds less than the transfer amount")
	ErrInsufficientBalance  = errors.New("account balance below amount")
	ErrMirroredLedger       = errors.New("balances are mirrored from chain; faucet disabled")
)
