package contract_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"okinoko_multichoice/contract"
	"okinoko_multichoice/contract/contractmock"
	"okinoko_multichoice/sdk"
	"okinoko_multichoice/store"
)

const (
	listener = sdk.Address("contract:listener")
	flaky    = sdk.Address("contract:flaky")
)

type delivery struct {
	hook sdk.Address
	msg  contract.HookMessage
}

func TestHookRegistry(t *testing.T) {
	et := SetupEngineTest(t, contract.ActiveThreshold{})
	et.instantiate(contract.InstantiateMsg{})

	assert.ErrorIs(t, et.eng.AddProposalHook(at(alice, 2), listener), contract.ErrUnauthorized)
	assert.ErrorIs(t, et.eng.AddProposalHook(at(dao, 2), "listener"), contract.ErrInvalidAddress)

	require.NoError(t, et.eng.AddProposalHook(at(dao, 2), listener))
	assert.ErrorIs(t, et.eng.AddProposalHook(at(dao, 2), listener), contract.ErrHookAlreadyExists)
	require.NoError(t, et.eng.AddVoteHook(at(dao, 2), flaky))

	hooks, err := et.eng.ProposalHooks()
	require.NoError(t, err)
	assert.Equal(t, []sdk.Address{listener}, hooks)
	hooks, err = et.eng.VoteHooks()
	require.NoError(t, err)
	assert.Equal(t, []sdk.Address{flaky}, hooks)

	assert.ErrorIs(t, et.eng.RemoveVoteHook(at(dao, 3), listener), contract.ErrHookNotFound)
	assert.ErrorIs(t, et.eng.RemoveProposalHook(at(bob, 3), listener), contract.ErrUnauthorized)
	require.NoError(t, et.eng.RemoveProposalHook(at(dao, 3), listener))

	hooks, err = et.eng.ProposalHooks()
	require.NoError(t, err)
	assert.Empty(t, hooks)
	assert.Contains(t, et.events, "hk|k:proposal|a:added|addr:contract:listener")
	assert.Contains(t, et.events, "hk|k:proposal|a:removed|addr:contract:listener")
}

// TestHookMessageSequence checks listeners see every lifecycle step in order.
func TestHookMessageSequence(t *testing.T) {
	var got []delivery
	record := contract.NotifierFunc(func(hook sdk.Address, msg contract.HookMessage) error {
		got = append(got, delivery{hook, msg})
		return nil
	})
	et := SetupEngineTest(t, contract.ActiveThreshold{}, contract.WithNotifier(record))
	et.member(alice, 10)
	et.instantiate(contract.InstantiateMsg{})
	require.NoError(t, et.eng.AddProposalHook(at(dao, 2), listener))
	require.NoError(t, et.eng.AddVoteHook(at(dao, 2), flaky))

	id := et.propose(at(alice, 5), "a", "b")
	et.vote(at(alice, 5), id, 1)
	require.NoError(t, et.eng.Execute(at(alice, 6), id))

	want := []delivery{
		{listener, contract.HookMessage{Kind: contract.HookNewProposal, ProposalID: id, Proposer: alice}},
		{listener, contract.HookMessage{Kind: contract.HookStatusChanged, ProposalID: id,
			OldStatus: contract.StatusOpen, NewStatus: contract.StatusPassed}},
		{flaky, contract.HookMessage{Kind: contract.HookNewVote, ProposalID: id, Voter: alice, Option: 1}},
		{listener, contract.HookMessage{Kind: contract.HookStatusChanged, ProposalID: id,
			OldStatus: contract.StatusPassed, NewStatus: contract.StatusExecuted}},
	}
	assert.Equal(t, want, got)
}

// TestFailingHookIsRemoved checks a listener that errors is dropped and the call still commits.
func TestFailingHookIsRemoved(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := contractmock.NewMockNotifier(ctrl)
	notifier.EXPECT().Notify(listener, gomock.Any()).Return(nil).AnyTimes()
	notifier.EXPECT().Notify(flaky, gomock.Any()).Return(errors.New("out of gas")).Times(1)

	et := SetupEngineTest(t, contract.ActiveThreshold{}, contract.WithNotifier(notifier))
	et.member(alice, 10)
	et.instantiate(contract.InstantiateMsg{})
	require.NoError(t, et.eng.AddProposalHook(at(dao, 2), flaky))
	require.NoError(t, et.eng.AddProposalHook(at(dao, 2), listener))

	id := et.propose(at(alice, 5), "a", "b")
	hooks, err := et.eng.ProposalHooks()
	require.NoError(t, err)
	assert.Equal(t, []sdk.Address{listener}, hooks)
	assert.Contains(t, et.events, "hk|k:proposal|a:removed|addr:contract:flaky")

	// later transitions only reach the remaining listener
	assert.Equal(t, contract.StatusPassed, et.vote(at(alice, 5), id, 0))
}

// commitGate is a memory store whose commits fail while closed.
type commitGate struct {
	*store.Memory
	closed bool
}

func (g *commitGate) Commit(writes []contract.Write) error {
	if g.closed {
		return errors.New("disk full")
	}
	return g.Memory.Commit(writes)
}

func setupGatedEngine(t *testing.T, notifier contract.Notifier) (*commitGate, *contract.Engine) {
	t.Helper()
	gate := &commitGate{Memory: store.NewMemory()}
	oracle := contract.NewStakingOracle(gate, sdk.AssetHive, pool, contract.ActiveThreshold{})
	eng := contract.New(gate, oracle, contract.WithNotifier(notifier))
	require.NoError(t, eng.Mint(sdk.AssetHive, alice, u(10)))
	_, err := eng.Stake(at(alice, 1), u(10))
	require.NoError(t, err)
	require.NoError(t, eng.Instantiate(at(dao, 1), contract.InstantiateMsg{DAO: dao}))
	return gate, eng
}

func TestHooksOnlySeeCommittedCalls(t *testing.T) {
	var got []delivery
	gate, eng := setupGatedEngine(t, contract.NotifierFunc(func(hook sdk.Address, msg contract.HookMessage) error {
		got = append(got, delivery{hook, msg})
		return nil
	}))
	require.NoError(t, eng.AddProposalHook(at(dao, 2), listener))

	gate.closed = true
	_, err := eng.Propose(at(alice, 5), contract.ProposeMsg{Title: "t", Options: options("a", "b")})
	require.ErrorContains(t, err, "disk full")
	assert.Empty(t, got)

	gate.closed = false
	id, err := eng.Propose(at(alice, 5), contract.ProposeMsg{Title: "t", Options: options("a", "b")})
	require.NoError(t, err)
	assert.Equal(t, []delivery{
		{listener, contract.HookMessage{Kind: contract.HookNewProposal, ProposalID: id, Proposer: alice}},
	}, got)
}

func TestFailedHookRemovalKeepsCall(t *testing.T) {
	var gate *commitGate
	gate, eng := setupGatedEngine(t, contract.NotifierFunc(func(hook sdk.Address, msg contract.HookMessage) error {
		gate.closed = true
		return errors.New("out of gas")
	}))
	require.NoError(t, eng.AddProposalHook(at(dao, 2), flaky))

	id, err := eng.Propose(at(alice, 5), contract.ProposeMsg{Title: "t", Options: options("a", "b")})
	require.NoError(t, err)
	gate.closed = false

	p, err := eng.Proposal(at(alice, 5), id)
	require.NoError(t, err)
	assert.Equal(t, contract.StatusOpen, p.Status)
	hooks, err := eng.ProposalHooks()
	require.NoError(t, err)
	assert.Equal(t, []sdk.Address{flaky}, hooks)
}

func TestHookKindParsing(t *testing.T) {
	k, err := contract.ParseHookKind("vote")
	require.NoError(t, err)
	assert.Equal(t, contract.VoteHooks, k)
	assert.Equal(t, "proposal", contract.ProposalHooks.String())
	_, err = contract.ParseHookKind("status")
	assert.Error(t, err)
}
