package contract

import (
	"fmt"

	"github.com/holiman/uint256"

	"okinoko_multichoice/sdk"
)

// Mint credits new units to an account. It is the genesis and devnet funding
// path and has no caller check, so hosts must not expose it to users.
func (e *Engine) Mint(asset sdk.Asset, to sdk.Address, amount *uint256.Int) error {
	return e.run("mint", sdk.Env{Sender: to}, func(c *call) error {
		if err := to.Validate(); err != nil {
			return fmt.Errorf("%v: %w", err, ErrInvalidAddress)
		}
		if amount == nil || amount.IsZero() {
			return nil
		}
		if err := c.ledger().Mint(asset, to, amount); err != nil {
			return err
		}
		c.emit(transferEvent("system:mint", to, amount.Dec(), asset))
		return nil
	})
}

// Transfer sends amount of asset from the sender to another account.
func (e *Engine) Transfer(env sdk.Env, asset sdk.Asset, to sdk.Address, amount *uint256.Int) error {
	return e.run("transfer", env, func(c *call) error {
		if err := to.Validate(); err != nil {
			return fmt.Errorf("%v: %w", err, ErrInvalidAddress)
		}
		if err := c.ledger().Transfer(asset, env.Sender, to, amount); err != nil {
			return err
		}
		if amount != nil && !amount.IsZero() {
			c.emit(transferEvent(env.Sender, to, amount.Dec(), asset))
		}
		return nil
	})
}

// Stake locks amount of the oracle's asset for the sender. The new weight
// counts from the next block on.
func (e *Engine) Stake(env sdk.Env, amount *uint256.Int) (*uint256.Int, error) {
	return e.stake(env, amount, true)
}

// Unstake releases amount back to the sender from the next block on.
func (e *Engine) Unstake(env sdk.Env, amount *uint256.Int) (*uint256.Int, error) {
	return e.stake(env, amount, false)
}

func (e *Engine) stake(env sdk.Env, amount *uint256.Int, lock bool) (*uint256.Int, error) {
	staker, ok := e.oracle.(Staker)
	if !ok {
		return nil, fmt.Errorf("voting power source does not support staking: %w", ErrUnsupportedMessage)
	}
	op := "unstake"
	if lock {
		op = "stake"
	}
	var after *uint256.Int
	err := e.run(op, env, func(c *call) error {
		var err error
		after, err = staker.applyStake(c.st, env, amount, lock)
		if err != nil {
			return err
		}
		c.emit(stakeEvent(env.Sender, op, amount.Dec(), staker.Asset(), after.Dec()))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return after, nil
}
