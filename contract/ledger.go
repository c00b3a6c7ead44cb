package contract

import (
	"fmt"

	"github.com/holiman/uint256"

	"okinoko_multichoice/sdk"
)

// Ledger is the token transfer primitive deposits and executed messages use.
type Ledger interface {
	Balance(asset sdk.Asset, owner sdk.Address) (*uint256.Int, error)
	// Transfer moves amount from one account to another, a zero amount is a no-op.
	Transfer(asset sdk.Asset, from, to sdk.Address, amount *uint256.Int) error
}

// readWriter is what ledger and record helpers need from a write buffer.
type readWriter interface {
	State
	Set(key, value string)
	Delete(key string)
}

// stateLedger keeps balances as decimal strings next to the governance records
// so a transfer commits or rolls back together with the call that caused it.
type stateLedger struct {
	st readWriter
}

var _ Ledger = stateLedger{}

func readAmount(st State, key string) (*uint256.Int, error) {
	ptr, err := st.Get(key)
	if err != nil {
		return nil, err
	}
	if ptr == nil || *ptr == "" {
		return new(uint256.Int), nil
	}
	v, err := uint256.FromDecimal(*ptr)
	if err != nil {
		return nil, fmt.Errorf("amount at %x: %v: %w", key, err, ErrCorruptState)
	}
	return v, nil
}

func writeAmount(st readWriter, key string, v *uint256.Int) {
	if v.IsZero() {
		st.Delete(key)
		return
	}
	st.Set(key, v.Dec())
}

// Balance retrieves the balance of a specific asset for owner.
func (l stateLedger) Balance(asset sdk.Asset, owner sdk.Address) (*uint256.Int, error) {
	return readAmount(l.st, balanceKey(asset, owner))
}

// Supply is the total minted amount of an asset.
func (l stateLedger) Supply(asset sdk.Asset) (*uint256.Int, error) {
	return readAmount(l.st, supplyKey(asset))
}

func (l stateLedger) Transfer(asset sdk.Asset, from, to sdk.Address, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() || from == to {
		return nil
	}
	fromBal, err := l.Balance(asset, from)
	if err != nil {
		return err
	}
	if fromBal.Lt(amount) {
		return fmt.Errorf("%s holds %s %s, needs %s: %w", from, fromBal.Dec(), asset, amount.Dec(), ErrInsufficientFunds)
	}
	toBal, err := l.Balance(asset, to)
	if err != nil {
		return err
	}
	if _, overflow := toBal.AddOverflow(toBal, amount); overflow {
		return ErrOverflow
	}
	fromBal.Sub(fromBal, amount)
	writeAmount(l.st, balanceKey(asset, from), fromBal)
	writeAmount(l.st, balanceKey(asset, to), toBal)
	return nil
}

// Mint creates new units for to and grows the supply.
func (l stateLedger) Mint(asset sdk.Asset, to sdk.Address, amount *uint256.Int) error {
	supply, err := l.Supply(asset)
	if err != nil {
		return err
	}
	if _, overflow := supply.AddOverflow(supply, amount); overflow {
		return ErrOverflow
	}
	bal, err := l.Balance(asset, to)
	if err != nil {
		return err
	}
	// balance <= supply so this cannot overflow once the supply add passed
	bal.Add(bal, amount)
	writeAmount(l.st, supplyKey(asset), supply)
	writeAmount(l.st, balanceKey(asset, to), bal)
	return nil
}
