package contract

import "errors"

// Authorization.
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNotRegistered       = errors.New("voter has no voting power at proposal start")
	ErrMustHaveVotingPower = errors.New("proposer must have voting power")
	ErrInactiveDao         = errors.New("dao is not active, active threshold not met")
)

// Voting.
var (
	ErrInvalidVote  = errors.New("invalid vote option")
	ErrAlreadyVoted = errors.New("already voted and revoting is disabled")
	ErrAlreadyCast  = errors.New("this exact vote was already cast")
)

// State machine guards.
var (
	ErrNoSuchProposal      = errors.New("no such proposal")
	ErrNotOpen             = errors.New("proposal is not open")
	ErrNotPassed           = errors.New("proposal is not in passed state")
	ErrWrongCloseStatus    = errors.New("only rejected proposals can be closed")
	ErrExecutionFailed     = errors.New("proposal execution failed")
	ErrNotInstantiated     = errors.New("module is not instantiated")
	ErrAlreadyInstantiated = errors.New("module is already instantiated")
)

// Proposal and config validation.
var (
	ErrWrongNumberOfChoices   = errors.New("wrong number of choices")
	ErrProposalTooLarge       = errors.New("proposal is too large")
	ErrInvalidProposal        = errors.New("invalid proposal")
	ErrDurationUnitsConflict  = errors.New("min and max voting period must use the same units")
	ErrInvalidMinVotingPeriod = errors.New("min voting period must not exceed max voting period")
	ErrZeroDuration           = errors.New("max voting period must not be zero")
	ErrZeroThreshold          = errors.New("quorum percent must be greater than zero")
	ErrUnreachableThreshold   = errors.New("quorum percent must not exceed 100%")
	ErrInvalidAddress         = errors.New("invalid address")
)

// Deposits and funds.
var (
	ErrInvalidDeposit     = errors.New("invalid deposit config")
	ErrDepositMissing     = errors.New("deposit required but no transfer intent attached")
	ErrWrongDepositAsset  = errors.New("deposit paid in the wrong asset")
	ErrWrongDepositAmount = errors.New("deposit amount does not match")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrOverflow           = errors.New("arithmetic overflow")
)

// Hooks and execution.
var (
	ErrHookAlreadyExists  = errors.New("hook already registered")
	ErrHookNotFound       = errors.New("hook not registered")
	ErrUnsupportedMessage = errors.New("unsupported message type")
)

// ErrCorruptState means stored bytes could not be decoded.
var ErrCorruptState = errors.New("corrupt state")

// Kind groups errors for callers that map them onto status codes.
type Kind string

const (
	KindNone         Kind = ""
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindInvalid      Kind = "invalid"
	KindConflict     Kind = "conflict"
	KindFunds        Kind = "funds"
	KindInternal     Kind = "internal"
)

var kinds = []struct {
	kind Kind
	errs []error
}{
	{KindUnauthorized, []error{ErrUnauthorized, ErrNotRegistered, ErrMustHaveVotingPower, ErrInactiveDao}},
	{KindNotFound, []error{ErrNoSuchProposal, ErrNotInstantiated, ErrHookNotFound}},
	{KindConflict, []error{ErrAlreadyVoted, ErrAlreadyCast, ErrNotOpen, ErrNotPassed, ErrWrongCloseStatus,
		ErrAlreadyInstantiated, ErrHookAlreadyExists, ErrExecutionFailed}},
	{KindFunds, []error{ErrDepositMissing, ErrWrongDepositAsset, ErrWrongDepositAmount, ErrInsufficientFunds}},
	{KindInternal, []error{ErrCorruptState, ErrOverflow}},
	{KindInvalid, []error{ErrInvalidVote, ErrWrongNumberOfChoices, ErrProposalTooLarge, ErrInvalidProposal,
		ErrDurationUnitsConflict, ErrInvalidMinVotingPeriod, ErrZeroDuration, ErrZeroThreshold,
		ErrUnreachableThreshold, ErrInvalidAddress, ErrInvalidDeposit, ErrUnsupportedMessage}},
}

// KindOf classifies err by the first sentinel it wraps. Unknown errors are internal.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, k := range kinds {
		for _, target := range k.errs {
			if errors.Is(err, target) {
				return k.kind
			}
		}
	}
	return KindInternal
}
