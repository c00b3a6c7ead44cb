package contract

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
	"time"

	"okinoko_multichoice/sdk"
)

// DurationUnit tells whether a period counts blocks or seconds.
type DurationUnit uint8

const (
	DurationHeight DurationUnit = 1
	DurationTime   DurationUnit = 2
)

// Duration is a voting period relative to proposal creation.
type Duration struct {
	Unit  DurationUnit
	Value uint64
}

// Blocks is a height based duration.
func Blocks(n uint64) Duration { return Duration{Unit: DurationHeight, Value: n} }

// Seconds is a wall clock duration.
func Seconds(n uint64) Duration { return Duration{Unit: DurationTime, Value: n} }

// After turns the duration into an absolute expiration from the block in env.
// A period reaching past the uint64 range fails with ErrOverflow.
func (d Duration) After(env sdk.Env) (Expiration, error) {
	var from uint64
	var unit ExpirationUnit
	switch d.Unit {
	case DurationHeight:
		from, unit = env.Height, ExpiresAtHeight
	case DurationTime:
		if env.Timestamp < 0 {
			return Expiration{}, fmt.Errorf("block time %d before epoch: %w", env.Timestamp, ErrInvalidProposal)
		}
		from, unit = uint64(env.Timestamp), ExpiresAtTime
	default:
		return Expiration{}, nil
	}
	at, carry := bits.Add64(from, d.Value, 0)
	if carry != 0 {
		return Expiration{}, fmt.Errorf("%s after %d: %w", d, from, ErrOverflow)
	}
	return Expiration{Unit: unit, Value: at}, nil
}

func (d Duration) String() string {
	switch d.Unit {
	case DurationHeight:
		return fmt.Sprintf("%d blocks", d.Value)
	case DurationTime:
		return (time.Duration(d.Value) * time.Second).String()
	default:
		return "none"
	}
}

// ParseDuration reads "100", "100blocks" as heights and anything
// time.ParseDuration accepts ("72h", "90m") as a time period.
// Example payload: ParseDuration("72h")
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	trimmed := strings.TrimSuffix(strings.TrimSuffix(s, "blocks"), "b")
	if n, err := strconv.ParseUint(strings.TrimSpace(trimmed), 10, 64); err == nil {
		return Blocks(n), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return Duration{}, fmt.Errorf("invalid duration %q", s)
	}
	if d < time.Second {
		return Duration{}, fmt.Errorf("duration %q below one second", s)
	}
	return Seconds(uint64(d / time.Second)), nil
}

// validateVotingPeriod rejects mixed units and a min period longer than the max one.
func validateVotingPeriod(min *Duration, max Duration) error {
	if max.Value == 0 || (max.Unit != DurationHeight && max.Unit != DurationTime) {
		return ErrZeroDuration
	}
	if min == nil {
		return nil
	}
	if min.Unit != max.Unit {
		return ErrDurationUnitsConflict
	}
	if min.Value > max.Value {
		return ErrInvalidMinVotingPeriod
	}
	return nil
}

// ExpirationUnit tells how Expiration.Value is compared against the block.
type ExpirationUnit uint8

const (
	ExpiresNever    ExpirationUnit = 0
	ExpiresAtHeight ExpirationUnit = 1
	ExpiresAtTime   ExpirationUnit = 2
)

// Expiration is an absolute point in block height or block time.
type Expiration struct {
	Unit  ExpirationUnit
	Value uint64
}

// IsExpired reports whether the block in env reached the expiration.
func (e Expiration) IsExpired(env sdk.Env) bool {
	switch e.Unit {
	case ExpiresAtHeight:
		return env.Height >= e.Value
	case ExpiresAtTime:
		return env.Timestamp >= 0 && uint64(env.Timestamp) >= e.Value
	default:
		return false
	}
}

func (e Expiration) String() string {
	switch e.Unit {
	case ExpiresAtHeight:
		return fmt.Sprintf("height %d", e.Value)
	case ExpiresAtTime:
		return time.Unix(int64(e.Value), 0).UTC().Format(time.RFC3339)
	default:
		return "never"
	}
}
