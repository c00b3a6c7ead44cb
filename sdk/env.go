package sdk

import (
	"fmt"
	"time"

	"github.com/holiman/uint256"
	"github.com/spf13/cast"
)

const IntentTransferAllow = "transfer.allow"

// Intent is a signed permission attached to a call, e.g. how much the callee may draw.
type Intent struct {
	Type string            `json:"type" yaml:"type"`
	Args map[string]string `json:"args" yaml:"args"`
}

// TransferIntent builds the transfer.allow intent a proposer attaches to pay a deposit.
// Example payload: sdk.TransferIntent(sdk.AssetHive, "1000")
func TransferIntent(asset Asset, limit string) Intent {
	return Intent{
		Type: IntentTransferAllow,
		Args: map[string]string{"token": asset.String(), "limit": limit},
	}
}

// Env is the block and transaction snapshot a call executes against.
type Env struct {
	TxID      string
	Sender    Address
	Height    uint64
	Timestamp int64 // unix seconds
	Intents   []Intent
}

// Time returns the block time as time.Time for printing.
func (e Env) Time() time.Time {
	return time.Unix(e.Timestamp, 0).UTC()
}

// EnvFromMap maps the flat host env keys (msg.sender, block.height, ...) onto Env.
// Values may arrive as strings or numbers depending on who produced the map.
func EnvFromMap(m map[string]interface{}) (Env, error) {
	var env Env
	var err error
	if env.TxID, err = cast.ToStringE(m["tx.id"]); err != nil {
		return env, fmt.Errorf("tx.id: %w", err)
	}
	sender, err := cast.ToStringE(m["msg.sender"])
	if err != nil {
		return env, fmt.Errorf("msg.sender: %w", err)
	}
	env.Sender = Address(sender)
	if env.Height, err = cast.ToUint64E(m["block.height"]); err != nil {
		return env, fmt.Errorf("block.height: %w", err)
	}
	switch ts := m["block.timestamp"].(type) {
	case time.Time:
		env.Timestamp = ts.Unix()
	case string:
		parsed, perr := cast.ToTimeE(ts)
		if perr != nil {
			if env.Timestamp, err = cast.ToInt64E(ts); err != nil {
				return env, fmt.Errorf("block.timestamp: %w", perr)
			}
		} else {
			env.Timestamp = parsed.Unix()
		}
	case nil:
	default:
		if env.Timestamp, err = cast.ToInt64E(ts); err != nil {
			return env, fmt.Errorf("block.timestamp: %w", err)
		}
	}
	if env.Intents, err = intentsFromValue(m["intents"]); err != nil {
		return env, fmt.Errorf("intents: %w", err)
	}
	return env, nil
}

// intentsFromValue accepts typed intents or the generic list a json or yaml
// decoder produces ([{type: transfer.allow, args: {token: hbd, limit: "5"}}]).
func intentsFromValue(v interface{}) ([]Intent, error) {
	switch raw := v.(type) {
	case nil:
		return nil, nil
	case []Intent:
		return raw, nil
	case []interface{}:
		out := make([]Intent, 0, len(raw))
		for i, item := range raw {
			fields, err := cast.ToStringMapE(item)
			if err != nil {
				return nil, fmt.Errorf("intent %d: %w", i, err)
			}
			typ, err := cast.ToStringE(fields["type"])
			if err != nil || typ == "" {
				return nil, fmt.Errorf("intent %d has no type", i)
			}
			args, err := cast.ToStringMapStringE(fields["args"])
			if err != nil {
				return nil, fmt.Errorf("intent %d args: %w", i, err)
			}
			out = append(out, Intent{Type: typ, Args: args})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported intents value %T", v)
	}
}

// TransferAllow represents arguments extracted from a transfer.allow intent.
type TransferAllow struct {
	Limit *uint256.Int
	Token Asset
}

// FirstTransferAllow scans the intents and returns the first transfer.allow one,
// or nil when the caller attached none.
func (e Env) FirstTransferAllow() (*TransferAllow, error) {
	for _, intent := range e.Intents {
		if intent.Type != IntentTransferAllow {
			continue
		}
		token, err := ParseAsset(intent.Args["token"])
		if err != nil {
			return nil, fmt.Errorf("invalid intent asset: %w", err)
		}
		limit, err := uint256.FromDecimal(intent.Args["limit"])
		if err != nil {
			return nil, fmt.Errorf("invalid intent limit %q: %w", intent.Args["limit"], err)
		}
		return &TransferAllow{Limit: limit, Token: token}, nil
	}
	return nil, nil
}
