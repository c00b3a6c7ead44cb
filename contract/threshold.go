package contract

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// QuorumKind selects how the turnout target is derived from total power.
type QuorumKind uint8

const (
	QuorumMajority QuorumKind = 1
	QuorumPercent  QuorumKind = 2
)

// Quorum is the minimum turnout a proposal needs before it can pass.
type Quorum struct {
	Kind    QuorumKind
	Percent decimal.Decimal
}

// Majority requires strictly more than half of the total power to vote.
func Majority() Quorum { return Quorum{Kind: QuorumMajority} }

// Percent requires at least ceil(total * p) power to vote, p in (0, 1].
func Percent(p decimal.Decimal) Quorum { return Quorum{Kind: QuorumPercent, Percent: p} }

// ParseQuorum accepts "majority", "20%" or a fraction like "0.2".
// Example payload: ParseQuorum("33.3%")
func ParseQuorum(s string) (Quorum, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "majority" {
		return Majority(), nil
	}
	scale := decimal.NewFromInt(1)
	if strings.HasSuffix(s, "%") {
		s = strings.TrimSuffix(s, "%")
		scale = decimal.NewFromInt(100)
	}
	p, err := decimal.NewFromString(s)
	if err != nil {
		return Quorum{}, fmt.Errorf("invalid quorum %q: %w", s, err)
	}
	q := Percent(p.Div(scale))
	return q, q.Validate()
}

// Validate rejects percentages outside (0, 1].
func (q Quorum) Validate() error {
	switch q.Kind {
	case QuorumMajority:
		return nil
	case QuorumPercent:
		if q.Percent.Sign() <= 0 {
			return ErrZeroThreshold
		}
		if q.Percent.GreaterThan(decimal.NewFromInt(1)) {
			return ErrUnreachableThreshold
		}
		return nil
	default:
		return fmt.Errorf("unknown quorum kind %d: %w", q.Kind, ErrZeroThreshold)
	}
}

func (q Quorum) String() string {
	if q.Kind == QuorumMajority {
		return "majority"
	}
	return q.Percent.Mul(decimal.NewFromInt(100)).String() + "%"
}

// Target is the smallest turnout that satisfies the quorum for the given total.
// Percent targets round up, so 1% of 100 needs 1 and 1% of 101 needs 2.
func (q Quorum) Target(total *uint256.Int) *uint256.Int {
	if q.Kind == QuorumMajority {
		half := new(uint256.Int).Rsh(total, 1)
		return half.AddUint64(half, 1)
	}
	need := decimal.NewFromBigInt(total.ToBig(), 0).Mul(q.Percent).Ceil().BigInt()
	target, overflow := uint256.FromBig(need)
	if overflow {
		return new(uint256.Int).SetAllOne()
	}
	return target
}

// Met reports whether turnout reaches the target. Zero total power never
// meets quorum.
func (q Quorum) Met(turnout, total *uint256.Int) bool {
	if total.IsZero() {
		return false
	}
	return !turnout.Lt(q.Target(total))
}

// Window is the timing context a tally is judged in.
type Window struct {
	// Expired is true once the block reached the proposal expiration.
	Expired bool
	// MinPeriodPending is true while a configured min voting period runs.
	MinPeriodPending bool
	// Revoting keeps everything open until expiration.
	Revoting bool
}

// Evaluate decides Open, Passed or Rejected for an open proposal. It never
// looks at storage and never mutates its inputs.
func Evaluate(votes Tally, total *uint256.Int, q Quorum, w Window) (Status, error) {
	if w.Revoting && !w.Expired {
		return StatusOpen, nil
	}
	turnout, err := votes.Total()
	if err != nil {
		return StatusUnspecified, err
	}
	lead := votes.Leader()
	if lead.None {
		return StatusRejected, nil
	}
	if !q.Met(turnout, total) {
		if w.Expired {
			return StatusRejected, nil
		}
		return StatusOpen, nil
	}
	if lead.Tie {
		return StatusRejected, nil
	}
	if w.MinPeriodPending && !w.Expired {
		return StatusOpen, nil
	}
	return StatusPassed, nil
}
