package contract

import (
	"encoding/binary"

	"okinoko_multichoice/sdk"
)

const (
	// kConfig holds the encoded Config singleton.
	kConfig byte = 0x01
	// kProposalCount is the last assigned proposal id.
	kProposalCount byte = 0x02
	// kProposal contains encoded Proposal records keyed by id.
	kProposal byte = 0x10
	// kBallot stores ballots keyed by proposal id + voter.
	kBallot byte = 0x20
	// kProposalHooks / kVoteHooks hold the ordered listener lists.
	kProposalHooks byte = 0x30
	kVoteHooks     byte = 0x31
	// kBalance tracks ledger balances keyed by asset + voter.
	kBalance byte = 0x40
	// kSupply tracks the minted supply per asset.
	kSupply byte = 0x41
	// kStake stores stake checkpoints keyed by address + height.
	kStake byte = 0x50
	// kStakeTotal stores total stake checkpoints keyed by height.
	kStakeTotal byte = 0x51
)

// packU64BE appends x big endian so numeric ids sort the same way as keys.
func packU64BE(x uint64, dst []byte) []byte {
	return binary.BigEndian.AppendUint64(dst, x)
}

func unpackU64BE(b string) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64([]byte(b[:8]))
}

func configKey() string        { return string([]byte{kConfig}) }
func proposalCountKey() string { return string([]byte{kProposalCount}) }
func proposalPrefix() string   { return string([]byte{kProposal}) }

// proposalKey builds the storage key of a proposal by id.
func proposalKey(id uint64) string {
	buf := make([]byte, 0, 9)
	buf = append(buf, kProposal)
	return string(packU64BE(id, buf))
}

// proposalIDFromKey strips the prefix byte again.
func proposalIDFromKey(key string) uint64 {
	return unpackU64BE(key[1:])
}

// ballotPrefix groups all ballots of one proposal.
func ballotPrefix(id uint64) string {
	buf := make([]byte, 0, 9)
	buf = append(buf, kBallot)
	return string(packU64BE(id, buf))
}

// ballotKey generates a unique storage key for a vote based on the proposal
// id and the voter's address.
func ballotKey(id uint64, voter sdk.Address) string {
	return ballotPrefix(id) + voter.String()
}

func hooksKey(kind HookKind) string {
	if kind == VoteHooks {
		return string([]byte{kVoteHooks})
	}
	return string([]byte{kProposalHooks})
}

// balanceKey uses a zero byte separator since tickers never contain one.
func balanceKey(asset sdk.Asset, owner sdk.Address) string {
	return string([]byte{kBalance}) + asset.String() + "\x00" + owner.String()
}

func supplyKey(asset sdk.Asset) string {
	return string([]byte{kSupply}) + asset.String()
}

func stakePrefix(owner sdk.Address) string {
	return string([]byte{kStake}) + owner.String() + "\x00"
}

func stakeKey(owner sdk.Address, height uint64) string {
	return string(packU64BE(height, []byte(stakePrefix(owner))))
}

func stakeTotalPrefix() string { return string([]byte{kStakeTotal}) }

func stakeTotalKey(height uint64) string {
	return string(packU64BE(height, []byte{kStakeTotal}))
}
