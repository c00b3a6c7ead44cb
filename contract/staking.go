package contract

import (
	"fmt"
	"math"
	"strings"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"okinoko_multichoice/sdk"
)

// ActiveThresholdKind selects how StakingOracle decides whether the DAO is active.
type ActiveThresholdKind uint8

const (
	ThresholdNone     ActiveThresholdKind = 0
	ThresholdAbsolute ActiveThresholdKind = 1
	ThresholdPercent  ActiveThresholdKind = 2
)

// ActiveThreshold is the amount of stake a DAO needs before proposals open up.
type ActiveThreshold struct {
	Kind    ActiveThresholdKind
	Count   uint256.Int
	Percent decimal.Decimal
}

// ParseActiveThreshold accepts "none", an absolute count like "100" or a share like "20%".
func ParseActiveThreshold(s string) (ActiveThreshold, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "" || s == "none":
		return ActiveThreshold{}, nil
	case strings.HasSuffix(s, "%"):
		p, err := decimal.NewFromString(strings.TrimSuffix(s, "%"))
		if err != nil {
			return ActiveThreshold{}, fmt.Errorf("invalid active threshold %q: %w", s, err)
		}
		p = p.Div(decimal.NewFromInt(100))
		if p.Sign() <= 0 || p.GreaterThan(decimal.NewFromInt(1)) {
			return ActiveThreshold{}, fmt.Errorf("active threshold %q out of range", s)
		}
		return ActiveThreshold{Kind: ThresholdPercent, Percent: p}, nil
	default:
		n, err := uint256.FromDecimal(s)
		if err != nil || n.IsZero() {
			return ActiveThreshold{}, fmt.Errorf("invalid active threshold %q", s)
		}
		return ActiveThreshold{Kind: ThresholdAbsolute, Count: *n}, nil
	}
}

// StakingOracle derives voting power from tokens staked on the ledger. Every
// stake change writes a checkpoint that takes effect at the next height, so
// power at height h reflects the state at the start of block h.
type StakingOracle struct {
	store     Store
	asset     sdk.Asset
	pool      sdk.Address
	threshold ActiveThreshold
}

var (
	_ VotingPowerOracle = (*StakingOracle)(nil)
	_ ActivityChecker   = (*StakingOracle)(nil)
)

// NewStakingOracle stakes asset into pool. The pool is a plain ledger account.
func NewStakingOracle(store Store, asset sdk.Asset, pool sdk.Address, threshold ActiveThreshold) *StakingOracle {
	return &StakingOracle{store: store, asset: asset, pool: pool, threshold: threshold}
}

// Asset is the staked token.
func (s *StakingOracle) Asset() sdk.Asset { return s.asset }

// checkpointAt finds the newest checkpoint under prefix with height <= height.
func checkpointAt(st State, prefix string, height uint64) (*uint256.Int, error) {
	cursor := ""
	if height < math.MaxUint64 {
		cursor = string(packU64BE(height+1, []byte(prefix)))
	}
	var found *uint256.Int
	var ferr error
	err := st.Iterate(prefix, cursor, true, func(key, value string) bool {
		found, ferr = uint256.FromDecimal(value)
		return false
	})
	if err != nil {
		return nil, err
	}
	if ferr != nil {
		return nil, fmt.Errorf("stake checkpoint: %v: %w", ferr, ErrCorruptState)
	}
	if found == nil {
		return new(uint256.Int), nil
	}
	return found, nil
}

func (s *StakingOracle) PowerAtHeight(voter sdk.Address, height uint64) (*uint256.Int, error) {
	return checkpointAt(s.store, stakePrefix(voter), height)
}

func (s *StakingOracle) TotalPowerAtHeight(height uint64) (*uint256.Int, error) {
	return checkpointAt(s.store, stakeTotalPrefix(), height)
}

// IsActive compares the latest total stake against the threshold.
func (s *StakingOracle) IsActive() (bool, error) {
	if s.threshold.Kind == ThresholdNone {
		return true, nil
	}
	staked, err := s.TotalPowerAtHeight(math.MaxUint64)
	if err != nil {
		return false, err
	}
	switch s.threshold.Kind {
	case ThresholdAbsolute:
		return !staked.Lt(&s.threshold.Count), nil
	case ThresholdPercent:
		supply, err := stateLedger{st: newTxState(s.store)}.Supply(s.asset)
		if err != nil {
			return false, err
		}
		if supply.IsZero() {
			return false, nil
		}
		need := decimal.NewFromBigInt(supply.ToBig(), 0).Mul(s.threshold.Percent)
		return !decimal.NewFromBigInt(staked.ToBig(), 0).LessThan(need), nil
	default:
		return false, fmt.Errorf("unknown active threshold kind %d", s.threshold.Kind)
	}
}

// Staker is implemented by oracles that keep their weights in the engine's
// own state, letting Engine.Stake and Engine.Unstake commit a stake change
// together with the balance move it requires.
type Staker interface {
	applyStake(st readWriter, env sdk.Env, amount *uint256.Int, stake bool) (*uint256.Int, error)
	Asset() sdk.Asset
}

var _ Staker = (*StakingOracle)(nil)

// applyStake moves amount between the sender and the pool and writes the new
// checkpoints. It returns the sender's stake after the change.
func (s *StakingOracle) applyStake(st readWriter, env sdk.Env, amount *uint256.Int, stake bool) (*uint256.Int, error) {
	if amount == nil || amount.IsZero() {
		return nil, fmt.Errorf("stake amount must be positive: %w", ErrInvalidDeposit)
	}
	if env.Height == math.MaxUint64 {
		return nil, ErrOverflow
	}
	ledger := stateLedger{st: st}
	mine, err := checkpointAt(st, stakePrefix(env.Sender), math.MaxUint64)
	if err != nil {
		return nil, err
	}
	total, err := checkpointAt(st, stakeTotalPrefix(), math.MaxUint64)
	if err != nil {
		return nil, err
	}
	if stake {
		if err := ledger.Transfer(s.asset, env.Sender, s.pool, amount); err != nil {
			return nil, err
		}
		if _, overflow := mine.AddOverflow(mine, amount); overflow {
			return nil, ErrOverflow
		}
		if _, overflow := total.AddOverflow(total, amount); overflow {
			return nil, ErrOverflow
		}
	} else {
		if mine.Lt(amount) {
			return nil, fmt.Errorf("%s staked %s, cannot unstake %s: %w", env.Sender, mine.Dec(), amount.Dec(), ErrInsufficientFunds)
		}
		if total.Lt(amount) {
			return nil, fmt.Errorf("total stake below unstake amount: %w", ErrCorruptState)
		}
		if err := ledger.Transfer(s.asset, s.pool, env.Sender, amount); err != nil {
			return nil, err
		}
		mine.Sub(mine, amount)
		total.Sub(total, amount)
	}
	st.Set(stakeKey(env.Sender, env.Height+1), mine.Dec())
	st.Set(stakeTotalKey(env.Height+1), total.Dec())
	return mine, nil
}
