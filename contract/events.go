package contract

import (
	"fmt"

	"okinoko_multichoice/sdk"
)

// proposalCreatedEvent keeps observers updated with a short pc line for every new proposal.
func proposalCreatedEvent(id uint64, proposer sdk.Address, options int) string {
	return fmt.Sprintf("pc|id:%d|by:%s|o:%d", id, proposer, options)
}

// proposalStatusChangedEvent is the swiss army knife log entry for any status flip.
func proposalStatusChangedEvent(id uint64, old, new Status) string {
	return fmt.Sprintf("ps|id:%d|old:%s|s:%s", id, old, new)
}

// voteCastEvent includes option and weight so the tally can be replayed from logs only.
func voteCastEvent(id uint64, voter sdk.Address, option uint32, weight string) string {
	return fmt.Sprintf("v|id:%d|by:%s|o:%d|w:%s", id, voter, option, weight)
}

// depositEvent traces escrow movements: k is "paid", "refunded" or "forfeited".
func depositEvent(id uint64, k string, who sdk.Address, amount string, asset sdk.Asset) string {
	return fmt.Sprintf("dp|id:%d|k:%s|to:%s|am:%s|as:%s", id, k, who, amount, asset)
}

// executionEvent leaves a short hint whether the winning messages went through.
func executionEvent(id uint64, option uint32, ok bool, reason string) string {
	if ok {
		return fmt.Sprintf("px|id:%d|o:%d|r:ok", id, option)
	}
	return fmt.Sprintf("px|id:%d|o:%d|r:failed|e:%s", id, option, reason)
}

// hookEvent spells out registry edits so auditors can follow who listens.
func hookEvent(kind HookKind, action string, addr sdk.Address) string {
	return fmt.Sprintf("hk|k:%s|a:%s|addr:%s", kind, action, addr)
}

// configUpdatedEvent logs the new owner so handovers are easy to spot.
func configUpdatedEvent(dao sdk.Address, quorum Quorum) string {
	return fmt.Sprintf("cu|dao:%s|q:%s", dao, quorum)
}

// transferEvent mirrors the ledger movements done outside of deposits.
func transferEvent(from, to sdk.Address, amount string, asset sdk.Asset) string {
	return fmt.Sprintf("tf|from:%s|to:%s|am:%s|as:%s", from, to, amount, asset)
}

// stakeEvent reports stake changes together with the resulting position.
func stakeEvent(who sdk.Address, kind string, amount string, asset sdk.Asset, now string) string {
	return fmt.Sprintf("sk|by:%s|k:%s|am:%s|as:%s|now:%s", who, kind, amount, asset, now)
}
