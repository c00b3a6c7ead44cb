package contract

import (
	"fmt"

	"github.com/holiman/uint256"

	"okinoko_multichoice/sdk"
)

// Queries never write. Proposals come back with their refreshed status so an
// expired proposal reads as decided before anyone touched it.

// Config returns the current module config.
func (e *Engine) Config() (*Config, error) {
	var cfg *Config
	err := e.view(func(st State) error {
		var err error
		cfg, err = loadConfig(st)
		return err
	})
	return cfg, err
}

func viewProposal(st State, env sdk.Env, id uint64) (*Proposal, error) {
	p, err := loadProposal(st, id)
	if err != nil {
		return nil, err
	}
	if _, err := updateStatus(p, env); err != nil {
		return nil, err
	}
	return p, nil
}

// Proposal returns one proposal as it looks at env.
func (e *Engine) Proposal(env sdk.Env, id uint64) (*Proposal, error) {
	var p *Proposal
	err := e.view(func(st State) error {
		var err error
		p, err = viewProposal(st, env, id)
		return err
	})
	return p, err
}

// ProposalCount is the number of proposals ever created, which is also the highest id.
func (e *Engine) ProposalCount() (uint64, error) {
	var n uint64
	err := e.view(func(st State) error {
		var err error
		n, err = getProposalCount(st)
		return err
	})
	return n, err
}

func (e *Engine) listProposals(env sdk.Env, cursor uint64, limit uint32, reverse bool) ([]*Proposal, error) {
	n := pageLimit(limit)
	out := make([]*Proposal, 0, n)
	err := e.view(func(st State) error {
		from := ""
		if cursor > 0 {
			from = proposalKey(cursor)
		}
		var derr error
		err := st.Iterate(proposalPrefix(), from, reverse, func(_, value string) bool {
			p, err := DecodeProposal([]byte(value))
			if err == nil {
				_, err = updateStatus(p, env)
			}
			if err != nil {
				derr = err
				return false
			}
			out = append(out, p)
			return len(out) < n
		})
		if err != nil {
			return err
		}
		return derr
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListProposals pages through proposals by ascending id, starting after startAfter.
func (e *Engine) ListProposals(env sdk.Env, startAfter uint64, limit uint32) ([]*Proposal, error) {
	return e.listProposals(env, startAfter, limit, false)
}

// ReverseProposals pages by descending id, starting before startBefore (0 = newest).
func (e *Engine) ReverseProposals(env sdk.Env, startBefore uint64, limit uint32) ([]*Proposal, error) {
	return e.listProposals(env, startBefore, limit, true)
}

// GetVote returns the ballot of voter on proposal id, or nil when they did not vote.
func (e *Engine) GetVote(id uint64, voter sdk.Address) (*Ballot, error) {
	var b *Ballot
	err := e.view(func(st State) error {
		if _, err := loadProposal(st, id); err != nil {
			return err
		}
		var err error
		b, err = loadBallot(st, id, voter)
		return err
	})
	return b, err
}

// ListVotes pages through the ballots of a proposal ordered by voter address.
func (e *Engine) ListVotes(id uint64, startAfter sdk.Address, limit uint32) ([]Ballot, error) {
	n := pageLimit(limit)
	out := make([]Ballot, 0, n)
	err := e.view(func(st State) error {
		if _, err := loadProposal(st, id); err != nil {
			return err
		}
		from := ""
		if startAfter != "" {
			from = ballotKey(id, startAfter)
		}
		var derr error
		err := st.Iterate(ballotPrefix(id), from, false, func(_, value string) bool {
			b, err := DecodeBallot([]byte(value))
			if err != nil {
				derr = err
				return false
			}
			out = append(out, *b)
			return len(out) < n
		})
		if err != nil {
			return err
		}
		return derr
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Hooks lists the registered listeners of kind in registration order.
func (e *Engine) Hooks(kind HookKind) ([]sdk.Address, error) {
	var hooks []sdk.Address
	err := e.view(func(st State) error {
		var err error
		hooks, err = loadHooks(st, kind)
		return err
	})
	return hooks, err
}

func (e *Engine) ProposalHooks() ([]sdk.Address, error) { return e.Hooks(ProposalHooks) }

func (e *Engine) VoteHooks() ([]sdk.Address, error) { return e.Hooks(VoteHooks) }

// WalletVote narrows a filter to proposals the wallet voted on. A nil Option
// matches any ballot.
type WalletVote struct {
	Option *uint32
}

// FilterQuery selects proposals by a wallet's participation.
type FilterQuery struct {
	Wallet     sdk.Address
	Status     *Status
	WalletVote WalletVote
	StartAfter uint64
	Limit      uint32
}

// FilterResult carries the matches plus the id of the last proposal the scan
// looked at, so a client can resume with StartAfter = LastProposalID.
type FilterResult struct {
	Proposals      []*Proposal
	LastProposalID uint64
}

// FilterProposals scans proposals in ascending id order and returns the ones
// the wallet voted on that match the status and option filters. One call
// examines at most MaxFilterScan proposals.
func (e *Engine) FilterProposals(env sdk.Env, q FilterQuery) (*FilterResult, error) {
	if q.Wallet == "" {
		return nil, fmt.Errorf("filter needs a wallet: %w", ErrInvalidAddress)
	}
	n := pageLimit(q.Limit)
	res := &FilterResult{Proposals: make([]*Proposal, 0, n)}
	err := e.view(func(st State) error {
		from := ""
		if q.StartAfter > 0 {
			from = proposalKey(q.StartAfter)
		}
		examined := 0
		var derr error
		err := st.Iterate(proposalPrefix(), from, false, func(_, value string) bool {
			p, err := DecodeProposal([]byte(value))
			if err != nil {
				derr = err
				return false
			}
			examined++
			res.LastProposalID = p.ID
			ok, err := matchFilter(st, env, p, q)
			if err != nil {
				derr = err
				return false
			}
			if ok {
				res.Proposals = append(res.Proposals, p)
			}
			return len(res.Proposals) < n && examined < MaxFilterScan
		})
		if err != nil {
			return err
		}
		return derr
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func matchFilter(st State, env sdk.Env, p *Proposal, q FilterQuery) (bool, error) {
	b, err := loadBallot(st, p.ID, q.Wallet)
	if err != nil || b == nil {
		return false, err
	}
	if q.WalletVote.Option != nil && b.Option != *q.WalletVote.Option {
		return false, nil
	}
	if _, err := updateStatus(p, env); err != nil {
		return false, err
	}
	if q.Status != nil && p.Status != *q.Status {
		return false, nil
	}
	return true, nil
}

// Balance reads a ledger balance.
func (e *Engine) Balance(asset sdk.Asset, owner sdk.Address) (*uint256.Int, error) {
	var bal *uint256.Int
	err := e.view(func(st State) error {
		var err error
		bal, err = readAmount(st, balanceKey(asset, owner))
		return err
	})
	return bal, err
}

// Supply reads the minted supply of an asset.
func (e *Engine) Supply(asset sdk.Asset) (*uint256.Int, error) {
	var sup *uint256.Int
	err := e.view(func(st State) error {
		var err error
		sup, err = readAmount(st, supplyKey(asset))
		return err
	})
	return sup, err
}
