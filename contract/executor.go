package contract

import (
	"fmt"

	"github.com/holiman/uint256"

	"okinoko_multichoice/sdk"
)

// MsgTransfer pays out of the DAO treasury: args to, asset, amount.
const MsgTransfer = "transfer"

// ExecContext is what an Executor may touch while applying a batch.
type ExecContext struct {
	DAO        sdk.Address
	ProposalID uint64
	Ledger     Ledger
}

// Executor applies the messages of a winning option. It either applies all of
// them or reports a single failure.
type Executor interface {
	Execute(ctx ExecContext, msgs []Message) error
}

// ExecutorFunc adapts a plain function to Executor.
type ExecutorFunc func(ctx ExecContext, msgs []Message) error

func (f ExecutorFunc) Execute(ctx ExecContext, msgs []Message) error { return f(ctx, msgs) }

// LedgerExecutor understands treasury transfers and nothing else.
type LedgerExecutor struct{}

func (LedgerExecutor) Execute(ctx ExecContext, msgs []Message) error {
	for i, msg := range msgs {
		switch msg.Type {
		case MsgTransfer:
			asset, to, amount, err := parseTransfer(msg)
			if err != nil {
				return fmt.Errorf("message %d: %w", i, err)
			}
			if err := ctx.Ledger.Transfer(asset, ctx.DAO, to, amount); err != nil {
				return fmt.Errorf("message %d: %w", i, err)
			}
		default:
			return fmt.Errorf("message %d type %q: %w", i, msg.Type, ErrUnsupportedMessage)
		}
	}
	return nil
}

// TransferMessage builds a treasury payout message.
// Example payload: TransferMessage(sdk.AssetHive, "hive:alice", uint256.NewInt(5))
func TransferMessage(asset sdk.Asset, to sdk.Address, amount *uint256.Int) Message {
	return Message{
		Type: MsgTransfer,
		Args: map[string]string{"asset": asset.String(), "to": to.String(), "amount": amount.Dec()},
	}
}

func parseTransfer(msg Message) (sdk.Asset, sdk.Address, *uint256.Int, error) {
	asset, err := sdk.ParseAsset(msg.Args["asset"])
	if err != nil {
		return "", "", nil, err
	}
	to := sdk.Address(msg.Args["to"])
	if err := to.Validate(); err != nil {
		return "", "", nil, fmt.Errorf("%v: %w", err, ErrInvalidAddress)
	}
	amount, err := uint256.FromDecimal(msg.Args["amount"])
	if err != nil {
		return "", "", nil, fmt.Errorf("amount %q: %w", msg.Args["amount"], err)
	}
	return asset, to, amount, nil
}

// validateMessages checks stored messages up front so a proposal cannot carry
// payloads the executor will never understand.
func validateMessages(msgs []Message) error {
	for i, msg := range msgs {
		if msg.Type == "" {
			return fmt.Errorf("message %d has no type: %w", i, ErrInvalidProposal)
		}
		if msg.Type == MsgTransfer {
			if _, _, _, err := parseTransfer(msg); err != nil {
				return fmt.Errorf("message %d: %v: %w", i, err, ErrInvalidProposal)
			}
		}
	}
	return nil
}
