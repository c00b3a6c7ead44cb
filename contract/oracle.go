package contract

import (
	"github.com/holiman/uint256"

	"okinoko_multichoice/sdk"
)

// VotingPowerOracle supplies voting weights. Heights are block heights; a
// weight at height h reflects what was staked before block h.
type VotingPowerOracle interface {
	PowerAtHeight(voter sdk.Address, height uint64) (*uint256.Int, error)
	TotalPowerAtHeight(height uint64) (*uint256.Int, error)
}

// ActivityChecker is an optional oracle capability. Oracles without it are
// always active.
type ActivityChecker interface {
	IsActive() (bool, error)
}

func oracleActive(o VotingPowerOracle) (bool, error) {
	checker, ok := o.(ActivityChecker)
	if !ok {
		return true, nil
	}
	return checker.IsActive()
}

// zeroIfNil keeps nil weights from oracles out of the arithmetic.
func zeroIfNil(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v
}
