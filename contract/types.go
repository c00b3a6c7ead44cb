package contract

import (
	"fmt"

	"github.com/holiman/uint256"

	"okinoko_multichoice/sdk"
)

// Status captures a proposal's lifecycle.
type Status uint8

const (
	StatusUnspecified Status = iota
	StatusOpen
	StatusRejected
	StatusPassed
	StatusExecuted
	StatusClosed
	StatusExecutionFailed
)

// String prints the status as lower-case text for events, hooks and queries.
func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusRejected:
		return "rejected"
	case StatusPassed:
		return "passed"
	case StatusExecuted:
		return "executed"
	case StatusClosed:
		return "closed"
	case StatusExecutionFailed:
		return "execution_failed"
	default:
		return "unspecified"
	}
}

// ParseStatus is the inverse of String, used by the filter query and the cli.
func ParseStatus(s string) (Status, error) {
	for st := StatusOpen; st <= StatusExecutionFailed; st++ {
		if st.String() == s {
			return st, nil
		}
	}
	return StatusUnspecified, fmt.Errorf("unknown status %q", s)
}

// Message is an opaque instruction stored on an option and forwarded to the
// Executor when that option wins.
type Message struct {
	Type string            `yaml:"type"`
	Args map[string]string `yaml:"args"`
}

// Option is one of the mutually exclusive outcomes a proposal offers.
type Option struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Messages    []Message `yaml:"messages"`
}

// DepositInfo is the deposit a proposer escrows, snapshotted onto each proposal.
type DepositInfo struct {
	Asset                 sdk.Asset
	Amount                uint256.Int
	RefundFailedProposals bool
}

// Ballot is one voter's live vote on one proposal with its locked-in weight.
type Ballot struct {
	Voter  sdk.Address
	Option uint32
	Power  uint256.Int
}

// Proposal is the stored state of a single proposal.
type Proposal struct {
	ID              uint64
	Title           string
	Description     string
	Proposer        sdk.Address
	StartHeight     uint64
	Created         int64
	Expiration      Expiration
	MinVotingPeriod *Expiration
	Quorum          Quorum
	Options         []Option
	Status          Status
	TotalPower      uint256.Int
	Votes           Tally
	AllowRevoting   bool
	Deposit         *DepositInfo
	DepositSettled  bool
	LastUpdated     int64
}

// NoneOfTheAbove is the tally index of the implicit rejection slot.
func (p *Proposal) NoneOfTheAbove() uint32 {
	return uint32(len(p.Options))
}

// OptionTitle resolves an option index to a label, including the implicit slot.
func (p *Proposal) OptionTitle(idx uint32) string {
	if idx == p.NoneOfTheAbove() {
		return "none of the above"
	}
	if int(idx) < len(p.Options) {
		return p.Options[idx].Title
	}
	return ""
}

// Config is the singleton module configuration owned by the DAO.
type Config struct {
	DAO                             sdk.Address
	Module                          sdk.Address
	Quorum                          Quorum
	MaxVotingPeriod                 Duration
	MinVotingPeriod                 *Duration
	OnlyMembersExecute              bool
	AllowRevoting                   bool
	CloseProposalOnExecutionFailure bool
	Deposit                         *DepositInfo
}

// InstantiateMsg sets up the module. DAO defaults to the sender and Module to
// contract:okinoko when left empty.
type InstantiateMsg struct {
	DAO                             sdk.Address
	Module                          sdk.Address
	Quorum                          Quorum
	MaxVotingPeriod                 Duration
	MinVotingPeriod                 *Duration
	OnlyMembersExecute              bool
	AllowRevoting                   bool
	CloseProposalOnExecutionFailure bool
	Deposit                         *DepositInfo
}

// UpdateConfigMsg replaces the whole config. Only the DAO may send it.
type UpdateConfigMsg struct {
	DAO                             sdk.Address
	Quorum                          Quorum
	MaxVotingPeriod                 Duration
	MinVotingPeriod                 *Duration
	OnlyMembersExecute              bool
	AllowRevoting                   bool
	CloseProposalOnExecutionFailure bool
	Deposit                         *DepositInfo
}

// ProposeMsg carries what a proposer submits.
type ProposeMsg struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Options     []Option `yaml:"options"`
}
