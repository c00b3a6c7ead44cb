package contract_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"okinoko_multichoice/contract"
	"okinoko_multichoice/contract/contractmock"
	"okinoko_multichoice/sdk"
)

func full() contract.Quorum { return contract.Percent(decimal.NewFromInt(1)) }

// =============================================================================
// End to end scenarios
// =============================================================================

// TestSingleVoterFullQuorumPasses checks one voter holding all the power decides alone.
func TestSingleVoterFullQuorumPasses(t *testing.T) {
	et := SetupEngineTest(t, contract.ActiveThreshold{})
	et.member(alice, 10)
	et.instantiate(contract.InstantiateMsg{Quorum: full()})

	id := et.propose(at(alice, 5), "a", "b")
	assert.Equal(t, contract.StatusPassed, et.vote(at(alice, 5), id, 0))
	assert.Contains(t, et.events, "pc|id:1|by:hive:alice|o:2")
	assert.Contains(t, et.events, "ps|id:1|old:open|s:passed")
}

// TestSplitVoteTieRejects checks two equal voters on different options end rejected.
func TestSplitVoteTieRejects(t *testing.T) {
	et := SetupEngineTest(t, contract.ActiveThreshold{})
	et.member(alice, 1)
	et.member(bob, 1)
	et.instantiate(contract.InstantiateMsg{Quorum: full()})

	id := et.propose(at(alice, 5), "a", "b")
	assert.Equal(t, contract.StatusOpen, et.vote(at(alice, 5), id, 0))
	assert.Equal(t, contract.StatusRejected, et.vote(at(bob, 5), id, 1))
}

func TestActiveThresholdAbsolute(t *testing.T) {
	threshold, err := contract.ParseActiveThreshold("100")
	require.NoError(t, err)
	et := SetupEngineTest(t, threshold)
	et.fund(sdk.AssetHive, alice, 200)
	et.instantiate(contract.InstantiateMsg{})

	_, err = et.eng.Stake(at(alice, 1), u(50))
	require.NoError(t, err)
	_, err = et.eng.Propose(at(alice, 3), contract.ProposeMsg{Title: "t", Options: options("a", "b")})
	assert.ErrorIs(t, err, contract.ErrInactiveDao)

	_, err = et.eng.Stake(at(alice, 3), u(100))
	require.NoError(t, err)
	et.propose(at(alice, 4), "a", "b")

	left, err := et.eng.Unstake(at(alice, 4), u(120))
	require.NoError(t, err)
	assert.Equal(t, uint64(30), left.Uint64())
	_, err = et.eng.Propose(at(alice, 5), contract.ProposeMsg{Title: "t", Options: options("a", "b")})
	assert.ErrorIs(t, err, contract.ErrInactiveDao)
}

func TestActiveThresholdPercent(t *testing.T) {
	threshold, err := contract.ParseActiveThreshold("20%")
	require.NoError(t, err)
	et := SetupEngineTest(t, threshold)
	et.fund(sdk.AssetHive, alice, 100_000_000)
	et.instantiate(contract.InstantiateMsg{})

	_, err = et.eng.Stake(at(alice, 1), u(10_000_000))
	require.NoError(t, err)
	_, err = et.eng.Propose(at(alice, 2), contract.ProposeMsg{Title: "t", Options: options("a", "b")})
	assert.ErrorIs(t, err, contract.ErrInactiveDao)

	_, err = et.eng.Stake(at(alice, 2), u(20_000_000))
	require.NoError(t, err)
	et.propose(at(alice, 3), "a", "b")

	_, err = et.eng.Unstake(at(alice, 3), u(15_000_000))
	require.NoError(t, err)
	_, err = et.eng.Propose(at(alice, 4), contract.ProposeMsg{Title: "t", Options: options("a", "b")})
	assert.ErrorIs(t, err, contract.ErrInactiveDao)
}

// TestRejectedDepositIsForfeited checks a closed rejected proposal pays its deposit to the dao.
func TestRejectedDepositIsForfeited(t *testing.T) {
	et := SetupEngineTest(t, contract.ActiveThreshold{})
	et.member(alice, 10)
	et.fund(sdk.AssetHbd, alice, 5)
	et.instantiate(contract.InstantiateMsg{Deposit: depositOf(1, false)})

	id, err := et.eng.Propose(withDeposit(at(alice, 5), "1"), contract.ProposeMsg{Title: "t", Options: options("a", "b")})
	require.NoError(t, err)
	assert.Equal(t, uint64(4), et.balance(sdk.AssetHbd, alice))
	assert.Equal(t, uint64(1), et.balance(sdk.AssetHbd, contract.DefaultModuleAddress))

	assert.Equal(t, contract.StatusRejected, et.vote(at(alice, 5), id, 2))
	require.NoError(t, et.eng.Close(at(bob, 6), id))

	assert.Equal(t, contract.StatusClosed, et.status(at(bob, 6), id))
	assert.Equal(t, uint64(4), et.balance(sdk.AssetHbd, alice))
	assert.Equal(t, uint64(1), et.balance(sdk.AssetHbd, dao))
	assert.Zero(t, et.balance(sdk.AssetHbd, contract.DefaultModuleAddress))
	assert.Contains(t, et.events, "dp|id:1|k:forfeited|to:hive:dao|am:1|as:hbd")

	err = et.eng.Close(at(bob, 7), id)
	assert.ErrorIs(t, err, contract.ErrWrongCloseStatus)
}

func TestRejectedDepositIsRefundedWhenConfigured(t *testing.T) {
	et := SetupEngineTest(t, contract.ActiveThreshold{})
	et.member(alice, 10)
	et.fund(sdk.AssetHbd, alice, 5)
	et.instantiate(contract.InstantiateMsg{Deposit: depositOf(3, true)})

	id, err := et.eng.Propose(withDeposit(at(alice, 5), "3"), contract.ProposeMsg{Title: "t", Options: options("a", "b")})
	require.NoError(t, err)
	et.vote(at(alice, 5), id, 2)
	require.NoError(t, et.eng.Close(at(alice, 6), id))
	assert.Equal(t, uint64(5), et.balance(sdk.AssetHbd, alice))
	assert.Zero(t, et.balance(sdk.AssetHbd, dao))
}

// =============================================================================
// Deposits
// =============================================================================

func TestProposeDepositChecks(t *testing.T) {
	et := SetupEngineTest(t, contract.ActiveThreshold{})
	et.member(alice, 10)
	et.instantiate(contract.InstantiateMsg{Deposit: depositOf(1, false)})
	msg := contract.ProposeMsg{Title: "t", Options: options("a", "b")}

	_, err := et.eng.Propose(at(alice, 5), msg)
	assert.ErrorIs(t, err, contract.ErrDepositMissing)

	wrongAsset := at(alice, 5)
	wrongAsset.Intents = []sdk.Intent{sdk.TransferIntent(sdk.AssetHive, "1")}
	_, err = et.eng.Propose(wrongAsset, msg)
	assert.ErrorIs(t, err, contract.ErrWrongDepositAsset)

	_, err = et.eng.Propose(withDeposit(at(alice, 5), "2"), msg)
	assert.ErrorIs(t, err, contract.ErrWrongDepositAmount)

	_, err = et.eng.Propose(withDeposit(at(alice, 5), "1"), msg)
	assert.ErrorIs(t, err, contract.ErrInsufficientFunds)
	assert.Equal(t, contract.KindFunds, contract.KindOf(err))

	count, err := et.eng.ProposalCount()
	require.NoError(t, err)
	assert.Zero(t, count, "failed calls commit nothing")
}

// TestDepositSettlesOnce walks every settle path and checks the deposit moves exactly once.
func TestDepositSettlesOnce(t *testing.T) {
	et := SetupEngineTest(t, contract.ActiveThreshold{})
	et.member(alice, 10)
	et.fund(sdk.AssetHbd, alice, 1)
	et.instantiate(contract.InstantiateMsg{Deposit: depositOf(1, false)})

	id, err := et.eng.Propose(withDeposit(at(alice, 5), "1"), contract.ProposeMsg{Title: "t", Options: options("a", "b")})
	require.NoError(t, err)
	et.vote(at(alice, 5), id, 0)

	require.NoError(t, et.eng.Execute(at(alice, 6), id))
	assert.Equal(t, uint64(1), et.balance(sdk.AssetHbd, alice), "passed proposals always get their deposit back")

	assert.ErrorIs(t, et.eng.Execute(at(alice, 7), id), contract.ErrNotPassed)
	assert.ErrorIs(t, et.eng.Close(at(alice, 7), id), contract.ErrWrongCloseStatus)
	assert.Equal(t, uint64(1), et.balance(sdk.AssetHbd, alice))
	assert.Zero(t, et.balance(sdk.AssetHbd, dao))

	p, err := et.eng.Proposal(at(alice, 8), id)
	require.NoError(t, err)
	assert.True(t, p.DepositSettled)
	assert.Equal(t, contract.StatusExecuted, p.Status)
}

func TestZeroDepositIsNoop(t *testing.T) {
	et := SetupEngineTest(t, contract.ActiveThreshold{})
	et.member(alice, 10)
	et.instantiate(contract.InstantiateMsg{Deposit: depositOf(0, false)})

	id := et.propose(at(alice, 5), "a", "b")
	et.vote(at(alice, 5), id, 2)
	require.NoError(t, et.eng.Close(at(alice, 6), id))
	for _, line := range et.events {
		assert.False(t, strings.HasPrefix(line, "dp|"), line)
	}
}

// =============================================================================
// Execution
// =============================================================================

func payoutOptions(msgs ...contract.Message) []contract.Option {
	opts := options("pay", "skip")
	opts[0].Messages = msgs
	return opts
}

func TestExecutePaysFromTreasury(t *testing.T) {
	et := SetupEngineTest(t, contract.ActiveThreshold{})
	et.member(alice, 10)
	et.fund(sdk.AssetHive, dao, 50)
	et.instantiate(contract.InstantiateMsg{})

	id, err := et.eng.Propose(at(alice, 5), contract.ProposeMsg{
		Title:   "pay bob",
		Options: payoutOptions(contract.TransferMessage(sdk.AssetHive, bob, u(20))),
	})
	require.NoError(t, err)
	et.vote(at(alice, 5), id, 0)
	require.NoError(t, et.eng.Execute(at(carol, 6), id))

	assert.Equal(t, uint64(20), et.balance(sdk.AssetHive, bob))
	assert.Equal(t, uint64(30), et.balance(sdk.AssetHive, dao))
	assert.Contains(t, et.events, "px|id:1|o:0|r:ok")
}

func TestExecuteFailureRevertsWithoutClosePolicy(t *testing.T) {
	et := SetupEngineTest(t, contract.ActiveThreshold{})
	et.member(alice, 10)
	et.fund(sdk.AssetHive, dao, 50)
	et.instantiate(contract.InstantiateMsg{})

	id, err := et.eng.Propose(at(alice, 5), contract.ProposeMsg{
		Title: "too much",
		Options: payoutOptions(
			contract.TransferMessage(sdk.AssetHive, bob, u(20)),
			contract.TransferMessage(sdk.AssetHive, carol, u(1_000)),
		),
	})
	require.NoError(t, err)
	et.vote(at(alice, 5), id, 0)

	err = et.eng.Execute(at(alice, 6), id)
	assert.ErrorIs(t, err, contract.ErrExecutionFailed)
	assert.ErrorIs(t, err, contract.ErrInsufficientFunds)
	assert.Equal(t, contract.StatusPassed, et.status(at(alice, 6), id))
	assert.Zero(t, et.balance(sdk.AssetHive, bob))
	assert.Equal(t, uint64(50), et.balance(sdk.AssetHive, dao))
}

func TestExecuteFailureClosesWithPolicy(t *testing.T) {
	for _, refund := range []bool{false, true} {
		t.Run(map[bool]string{false: "forfeit", true: "refund"}[refund], func(t *testing.T) {
			ctrl := gomock.NewController(t)
			exec := contractmock.NewMockExecutor(ctrl)
			exec.EXPECT().Execute(gomock.Any(), gomock.Len(1)).Return(errors.New("chain halted")).Times(1)

			et := SetupEngineTest(t, contract.ActiveThreshold{}, contract.WithExecutor(exec))
			et.member(alice, 10)
			et.fund(sdk.AssetHbd, alice, 2)
			et.instantiate(contract.InstantiateMsg{
				CloseProposalOnExecutionFailure: true,
				Deposit:                         depositOf(2, refund),
			})

			id, err := et.eng.Propose(withDeposit(at(alice, 5), "2"), contract.ProposeMsg{
				Title:   "t",
				Options: payoutOptions(contract.TransferMessage(sdk.AssetHive, bob, u(1))),
			})
			require.NoError(t, err)
			et.vote(at(alice, 5), id, 0)

			require.NoError(t, et.eng.Execute(at(alice, 6), id))
			assert.Equal(t, contract.StatusExecutionFailed, et.status(at(alice, 6), id))
			assert.ErrorIs(t, et.eng.Execute(at(alice, 7), id), contract.ErrNotPassed)
			assert.ErrorIs(t, et.eng.Close(at(alice, 7), id), contract.ErrWrongCloseStatus)

			if refund {
				assert.Equal(t, uint64(2), et.balance(sdk.AssetHbd, alice))
				assert.Zero(t, et.balance(sdk.AssetHbd, dao))
			} else {
				assert.Zero(t, et.balance(sdk.AssetHbd, alice))
				assert.Equal(t, uint64(2), et.balance(sdk.AssetHbd, dao))
			}
		})
	}
}

func TestExecuteWithoutMessagesSkipsExecutor(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := contractmock.NewMockExecutor(ctrl)
	exec.EXPECT().Execute(gomock.Any(), gomock.Any()).Times(0)

	et := SetupEngineTest(t, contract.ActiveThreshold{}, contract.WithExecutor(exec))
	et.member(alice, 10)
	et.instantiate(contract.InstantiateMsg{})
	id := et.propose(at(alice, 5), "a", "b")
	et.vote(at(alice, 5), id, 1)
	require.NoError(t, et.eng.Execute(at(alice, 6), id))
	assert.Equal(t, contract.StatusExecuted, et.status(at(alice, 6), id))
}

func TestOnlyMembersExecute(t *testing.T) {
	et := SetupEngineTest(t, contract.ActiveThreshold{})
	et.member(alice, 10)
	et.instantiate(contract.InstantiateMsg{OnlyMembersExecute: true})
	id := et.propose(at(alice, 5), "a", "b")
	et.vote(at(alice, 5), id, 0)

	err := et.eng.Execute(at(carol, 6), id)
	assert.ErrorIs(t, err, contract.ErrUnauthorized)
	require.NoError(t, et.eng.Execute(at(alice, 6), id))
}

// =============================================================================
// Voting
// =============================================================================

// TestRevoteToBadOptionKeepsBallot checks a failed revote leaves tally and ballot alone.
func TestRevoteToBadOptionKeepsBallot(t *testing.T) {
	et := SetupEngineTest(t, contract.ActiveThreshold{})
	et.member(alice, 5)
	et.member(bob, 5)
	et.instantiate(contract.InstantiateMsg{AllowRevoting: true})
	id := et.propose(at(alice, 5), "a", "b")

	assert.Equal(t, contract.StatusOpen, et.vote(at(alice, 5), id, 0))
	_, err := et.eng.Vote(at(alice, 6), id, 7)
	assert.ErrorIs(t, err, contract.ErrInvalidVote)

	ballot, err := et.eng.GetVote(id, alice)
	require.NoError(t, err)
	require.NotNil(t, ballot)
	assert.Equal(t, uint32(0), ballot.Option)
	assert.Equal(t, uint64(5), ballot.Power.Uint64())

	p, err := et.eng.Proposal(at(alice, 6), id)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), p.Votes[0].Uint64())

	_, err = et.eng.Vote(at(alice, 6), id, 0)
	assert.ErrorIs(t, err, contract.ErrAlreadyCast)

	et.vote(at(alice, 6), id, 1)
	p, err = et.eng.Proposal(at(alice, 6), id)
	require.NoError(t, err)
	assert.Zero(t, p.Votes[0].Uint64())
	assert.Equal(t, uint64(5), p.Votes[1].Uint64())
}

func TestRevotingStaysOpenUntilExpiry(t *testing.T) {
	et := SetupEngineTest(t, contract.ActiveThreshold{})
	et.member(alice, 10)
	et.instantiate(contract.InstantiateMsg{AllowRevoting: true, MaxVotingPeriod: contract.Blocks(10)})
	id := et.propose(at(alice, 5), "a", "b")

	assert.Equal(t, contract.StatusOpen, et.vote(at(alice, 5), id, 0))
	assert.Equal(t, contract.StatusOpen, et.status(at(alice, 14), id))
	assert.Equal(t, contract.StatusPassed, et.status(at(alice, 15), id))
}

func TestVoteRejections(t *testing.T) {
	et := SetupEngineTest(t, contract.ActiveThreshold{})
	et.member(alice, 5)
	et.member(bob, 5)
	et.instantiate(contract.InstantiateMsg{Quorum: full()})
	id := et.propose(at(alice, 5), "a", "b")

	et.vote(at(alice, 5), id, 0)
	_, err := et.eng.Vote(at(alice, 5), id, 1)
	assert.ErrorIs(t, err, contract.ErrAlreadyVoted)

	// carol stakes after the proposal started so she has no weight on it
	et.fund(sdk.AssetHive, carol, 5)
	_, err = et.eng.Stake(at(carol, 5), u(5))
	require.NoError(t, err)
	_, err = et.eng.Vote(at(carol, 7), id, 0)
	assert.ErrorIs(t, err, contract.ErrNotRegistered)

	_, err = et.eng.Vote(at(bob, 5), 99, 0)
	assert.ErrorIs(t, err, contract.ErrNoSuchProposal)

	et.vote(at(bob, 6), id, 2)
	_, err = et.eng.Vote(at(bob, 7), id, 0)
	assert.ErrorIs(t, err, contract.ErrNotOpen)
}

func TestMinVotingPeriodBlocksEarlyPass(t *testing.T) {
	et := SetupEngineTest(t, contract.ActiveThreshold{})
	et.member(alice, 10)
	min := contract.Blocks(5)
	et.instantiate(contract.InstantiateMsg{MaxVotingPeriod: contract.Blocks(10), MinVotingPeriod: &min})
	id := et.propose(at(alice, 5), "a", "b")

	assert.Equal(t, contract.StatusOpen, et.vote(at(alice, 5), id, 0))
	assert.Equal(t, contract.StatusOpen, et.status(at(alice, 9), id))
	assert.Equal(t, contract.StatusPassed, et.status(at(alice, 10), id))
}

// =============================================================================
// Status refresh
// =============================================================================

func TestQueryRefreshDoesNotPersist(t *testing.T) {
	et := SetupEngineTest(t, contract.ActiveThreshold{})
	et.member(alice, 1)
	et.member(bob, 9)
	et.instantiate(contract.InstantiateMsg{Quorum: contract.Majority()})
	id := et.propose(at(alice, 5), "a", "b")
	et.vote(at(alice, 5), id, 0)

	assert.Equal(t, contract.StatusOpen, et.status(at(alice, 104), id))
	assert.Equal(t, contract.StatusRejected, et.status(at(alice, 105), id))
	assert.Equal(t, contract.StatusRejected, et.status(at(alice, 105), id))
	assert.Equal(t, contract.StatusOpen, et.status(at(alice, 6), id), "queries never write the refreshed status")

	require.NoError(t, et.eng.Close(at(bob, 105), id))
	assert.Equal(t, contract.StatusClosed, et.status(at(alice, 6), id))
}

// =============================================================================
// Validation
// =============================================================================

func TestInstantiateValidation(t *testing.T) {
	secs := contract.Seconds(5)
	long := contract.Blocks(11)
	cases := []struct {
		name string
		msg  contract.InstantiateMsg
		want error
	}{
		{"mixed units", contract.InstantiateMsg{MaxVotingPeriod: contract.Blocks(10), MinVotingPeriod: &secs}, contract.ErrDurationUnitsConflict},
		{"min above max", contract.InstantiateMsg{MaxVotingPeriod: contract.Blocks(10), MinVotingPeriod: &long}, contract.ErrInvalidMinVotingPeriod},
		{"zero quorum", contract.InstantiateMsg{Quorum: contract.Percent(decimal.Zero)}, contract.ErrZeroThreshold},
		{"quorum above one", contract.InstantiateMsg{Quorum: contract.Percent(decimal.RequireFromString("1.5"))}, contract.ErrUnreachableThreshold},
		{"zero max period", contract.InstantiateMsg{MaxVotingPeriod: contract.Blocks(0)}, contract.ErrZeroDuration},
		{"bad dao", contract.InstantiateMsg{DAO: "dao"}, contract.ErrInvalidAddress},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			et := SetupEngineTest(t, contract.ActiveThreshold{})
			err := et.eng.Instantiate(at(dao, 1), tc.msg)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestInstantiateDefaultsAndOnce(t *testing.T) {
	et := SetupEngineTest(t, contract.ActiveThreshold{})
	_, err := et.eng.Propose(at(alice, 2), contract.ProposeMsg{Title: "t", Options: options("a", "b")})
	assert.ErrorIs(t, err, contract.ErrNotInstantiated)

	require.NoError(t, et.eng.Instantiate(at(dao, 1), contract.InstantiateMsg{}))
	cfg, err := et.eng.Config()
	require.NoError(t, err)
	assert.Equal(t, dao, cfg.DAO)
	assert.Equal(t, contract.DefaultModuleAddress, cfg.Module)
	assert.Equal(t, contract.Blocks(contract.FallbackMaxVotingPeriodHeight), cfg.MaxVotingPeriod)
	assert.Equal(t, "20%", cfg.Quorum.String())

	assert.ErrorIs(t, et.eng.Instantiate(at(dao, 2), contract.InstantiateMsg{}), contract.ErrAlreadyInstantiated)
}

func TestProposeValidation(t *testing.T) {
	et := SetupEngineTest(t, contract.ActiveThreshold{})
	et.member(alice, 10)
	et.instantiate(contract.InstantiateMsg{})

	_, err := et.eng.Propose(at(alice, 5), contract.ProposeMsg{Title: "t", Options: options("a")})
	assert.ErrorIs(t, err, contract.ErrWrongNumberOfChoices)

	many := make([]string, contract.MaxNumChoices+1)
	for i := range many {
		many[i] = string(rune('a' + i))
	}
	_, err = et.eng.Propose(at(alice, 5), contract.ProposeMsg{Title: "t", Options: options(many...)})
	assert.ErrorIs(t, err, contract.ErrWrongNumberOfChoices)

	_, err = et.eng.Propose(at(alice, 5), contract.ProposeMsg{Title: "t", Options: options("a", "a")})
	assert.ErrorIs(t, err, contract.ErrInvalidProposal)

	_, err = et.eng.Propose(at(carol, 5), contract.ProposeMsg{Title: "t", Options: options("a", "b")})
	assert.ErrorIs(t, err, contract.ErrMustHaveVotingPower)

	_, err = et.eng.Propose(at(alice, 5), contract.ProposeMsg{
		Title:       "t",
		Description: strings.Repeat("x", contract.MaxProposalSize+1),
		Options:     options("a", "b"),
	})
	assert.ErrorIs(t, err, contract.ErrProposalTooLarge)

	bad := payoutOptions(contract.Message{Type: contract.MsgTransfer, Args: map[string]string{"to": "nobody"}})
	_, err = et.eng.Propose(at(alice, 5), contract.ProposeMsg{Title: "t", Options: bad})
	assert.ErrorIs(t, err, contract.ErrInvalidProposal)
}

// TestVotesFitProposalAcceptedAtSizeLimit proposes the longest description
// that is still accepted and checks a heavy vote can be stored on it.
func TestVotesFitProposalAcceptedAtSizeLimit(t *testing.T) {
	et := SetupEngineTest(t, contract.ActiveThreshold{})
	et.member(alice, 1_000_000_000_000)
	et.member(bob, 1)
	et.instantiate(contract.InstantiateMsg{Quorum: contract.Majority()})

	var id uint64
	for n := contract.MaxProposalSize; n > 0 && id == 0; n-- {
		pid, err := et.eng.Propose(at(alice, 5), contract.ProposeMsg{
			Title:       "t",
			Description: strings.Repeat("x", n),
			Options:     options("a", "b"),
		})
		if err != nil {
			require.ErrorIs(t, err, contract.ErrProposalTooLarge)
			continue
		}
		id = pid
	}
	require.NotZero(t, id)
	assert.Equal(t, contract.StatusPassed, et.vote(at(alice, 5), id, 0))
	assert.Equal(t, contract.StatusPassed, et.status(at(alice, 6), id))
}

func TestModuleMustNotBeDAO(t *testing.T) {
	et := SetupEngineTest(t, contract.ActiveThreshold{})
	err := et.eng.Instantiate(at(dao, 1), contract.InstantiateMsg{DAO: dao, Module: dao, Deposit: depositOf(5, true)})
	assert.ErrorIs(t, err, contract.ErrInvalidAddress)

	escrow := sdk.ContractAddress("escrow")
	et.instantiate(contract.InstantiateMsg{Module: escrow})
	err = et.eng.UpdateConfig(at(dao, 2), contract.UpdateConfigMsg{
		DAO:             escrow,
		Quorum:          contract.Majority(),
		MaxVotingPeriod: contract.Blocks(10),
	})
	assert.ErrorIs(t, err, contract.ErrInvalidAddress)

	cfg, err := et.eng.Config()
	require.NoError(t, err)
	assert.Equal(t, dao, cfg.DAO)
	assert.Equal(t, escrow, cfg.Module)
}

func TestVotingPeriodOverflow(t *testing.T) {
	et := SetupEngineTest(t, contract.ActiveThreshold{})
	et.member(alice, 10)
	et.instantiate(contract.InstantiateMsg{MaxVotingPeriod: contract.Blocks(math.MaxUint64)})
	propose := func(env sdk.Env) (uint64, error) {
		return et.eng.Propose(env, contract.ProposeMsg{Title: "t", Options: options("a", "b")})
	}

	_, err := propose(at(alice, 5))
	assert.ErrorIs(t, err, contract.ErrOverflow)
	count, err := et.eng.ProposalCount()
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, et.eng.UpdateConfig(at(dao, 6), contract.UpdateConfigMsg{
		Quorum:          contract.Majority(),
		MaxVotingPeriod: contract.Seconds(math.MaxUint64 - 100),
	}))
	_, err = propose(at(alice, 7))
	assert.ErrorIs(t, err, contract.ErrOverflow)

	require.NoError(t, et.eng.UpdateConfig(at(dao, 8), contract.UpdateConfigMsg{
		Quorum:          contract.Majority(),
		MaxVotingPeriod: contract.Blocks(math.MaxUint64 - 9),
	}))
	id, err := propose(at(alice, 9))
	require.NoError(t, err)
	p, err := et.eng.Proposal(at(alice, 9), id)
	require.NoError(t, err)
	assert.Equal(t, contract.Expiration{Unit: contract.ExpiresAtHeight, Value: math.MaxUint64}, p.Expiration)
	assert.Equal(t, contract.StatusOpen, p.Status)
}

func TestUpdateConfig(t *testing.T) {
	et := SetupEngineTest(t, contract.ActiveThreshold{})
	et.member(alice, 10)
	et.instantiate(contract.InstantiateMsg{Quorum: contract.Majority()})
	id := et.propose(at(alice, 5), "a", "b")

	update := contract.UpdateConfigMsg{
		Quorum:          contract.Percent(decimal.RequireFromString("0.1")),
		MaxVotingPeriod: contract.Blocks(20),
		AllowRevoting:   true,
	}
	assert.ErrorIs(t, et.eng.UpdateConfig(at(alice, 6), update), contract.ErrUnauthorized)
	require.NoError(t, et.eng.UpdateConfig(at(dao, 6), update))

	p, err := et.eng.Proposal(at(alice, 6), id)
	require.NoError(t, err)
	assert.Equal(t, contract.QuorumMajority, p.Quorum.Kind, "in flight proposals keep their terms")
	assert.False(t, p.AllowRevoting)

	update.DAO = carol
	require.NoError(t, et.eng.UpdateConfig(at(dao, 7), update))
	assert.ErrorIs(t, et.eng.UpdateConfig(at(dao, 8), update), contract.ErrUnauthorized)
	cfg, err := et.eng.Config()
	require.NoError(t, err)
	assert.Equal(t, carol, cfg.DAO)
	assert.Equal(t, contract.DefaultModuleAddress, cfg.Module)
}
