package contract

import (
	"fmt"

	"github.com/holiman/uint256"

	"okinoko_multichoice/sdk"
)

// Tally holds one weight sum per option plus a trailing none of the above slot.
type Tally []uint256.Int

// NewTally allocates a zeroed tally for the given number of real options.
func NewTally(options int) Tally {
	return make(Tally, options+1)
}

// Clone copies the sums so a failed update leaves the original untouched.
func (t Tally) Clone() Tally {
	out := make(Tally, len(t))
	copy(out, t)
	return out
}

// Total sums every slot with overflow checks.
func (t Tally) Total() (*uint256.Int, error) {
	sum := new(uint256.Int)
	for i := range t {
		if _, overflow := sum.AddOverflow(sum, &t[i]); overflow {
			return nil, ErrOverflow
		}
	}
	return sum, nil
}

// Leader describes the top slot of a tally.
type Leader struct {
	Option uint32
	Weight uint256.Int
	// Tie is set when two or more slots share the top weight.
	Tie bool
	// None is set when the none of the above slot is strictly ahead.
	None bool
}

// Leader finds the strictly highest slot across all options, none of the above
// included. An empty tally counts as a tie of zeros.
func (t Tally) Leader() Leader {
	var lead Leader
	for i := range t {
		switch t[i].Cmp(&lead.Weight) {
		case 1:
			lead.Option = uint32(i)
			lead.Weight = t[i]
			lead.Tie = false
		case 0:
			if i > 0 {
				lead.Tie = true
			}
		}
	}
	lead.None = !lead.Tie && len(t) > 0 && int(lead.Option) == len(t)-1
	return lead
}

// BallotBook loads and stores the ballots of one proposal.
type BallotBook interface {
	Ballot(voter sdk.Address) (*Ballot, error)
	PutBallot(b Ballot) error
}

// RecordOrReplace applies a vote and returns the updated tally. On any error
// neither the returned tally nor the book has been touched, so a revote to a
// bad option keeps the first vote intact.
func (t Tally) RecordOrReplace(book BallotBook, voter sdk.Address, option uint32, weight *uint256.Int, allowRevoting bool) (Tally, error) {
	if int(option) >= len(t) {
		return nil, fmt.Errorf("option %d of %d: %w", option, len(t), ErrInvalidVote)
	}
	if weight == nil || weight.IsZero() {
		return nil, ErrNotRegistered
	}
	prev, err := book.Ballot(voter)
	if err != nil {
		return nil, err
	}
	next := t.Clone()
	if prev != nil {
		if !allowRevoting {
			return nil, ErrAlreadyVoted
		}
		if prev.Option == option {
			return nil, ErrAlreadyCast
		}
		if int(prev.Option) >= len(next) {
			return nil, fmt.Errorf("ballot of %s points at option %d: %w", voter, prev.Option, ErrCorruptState)
		}
		if _, underflow := next[prev.Option].SubOverflow(&next[prev.Option], &prev.Power); underflow {
			return nil, ErrOverflow
		}
	}
	if _, overflow := next[option].AddOverflow(&next[option], weight); overflow {
		return nil, ErrOverflow
	}
	if err := book.PutBallot(Ballot{Voter: voter, Option: option, Power: *weight}); err != nil {
		return nil, err
	}
	return next, nil
}
