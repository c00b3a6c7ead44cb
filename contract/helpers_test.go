package contract_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"okinoko_multichoice/contract"
	"okinoko_multichoice/sdk"
	"okinoko_multichoice/store"
)

const (
	dao   = sdk.Address("hive:dao")
	alice = sdk.Address("hive:alice")
	bob   = sdk.Address("hive:bob")
	carol = sdk.Address("hive:carol")
	pool  = sdk.Address("contract:stake")
)

func u(n uint64) *uint256.Int { return uint256.NewInt(n) }

// engineTest bundles an engine on a fresh memory store with a staking oracle.
type engineTest struct {
	t      *testing.T
	st     *store.Memory
	oracle *contract.StakingOracle
	eng    *contract.Engine
	events []string
}

// SetupEngineTest builds the engine every scenario below starts from.
func SetupEngineTest(t *testing.T, threshold contract.ActiveThreshold, opts ...contract.EngineOption) *engineTest {
	t.Helper()
	et := &engineTest{t: t, st: store.NewMemory()}
	et.oracle = contract.NewStakingOracle(et.st, sdk.AssetHive, pool, threshold)
	opts = append([]contract.EngineOption{contract.WithEventSink(func(line string) {
		et.events = append(et.events, line)
	})}, opts...)
	et.eng = contract.New(et.st, et.oracle, opts...)
	return et
}

func at(sender sdk.Address, height uint64) sdk.Env {
	return sdk.Env{TxID: "tx", Sender: sender, Height: height, Timestamp: int64(1_700_000_000 + height*3)}
}

// member mints and stakes power for addr, effective from height 2.
func (et *engineTest) member(addr sdk.Address, power uint64) {
	et.t.Helper()
	require.NoError(et.t, et.eng.Mint(sdk.AssetHive, addr, u(power)))
	_, err := et.eng.Stake(at(addr, 1), u(power))
	require.NoError(et.t, err)
}

func (et *engineTest) fund(asset sdk.Asset, addr sdk.Address, amount uint64) {
	et.t.Helper()
	require.NoError(et.t, et.eng.Mint(asset, addr, u(amount)))
}

func (et *engineTest) instantiate(msg contract.InstantiateMsg) {
	et.t.Helper()
	if msg.DAO == "" {
		msg.DAO = dao
	}
	require.NoError(et.t, et.eng.Instantiate(at(dao, 1), msg))
}

func options(titles ...string) []contract.Option {
	out := make([]contract.Option, len(titles))
	for i, title := range titles {
		out[i] = contract.Option{Title: title}
	}
	return out
}

func (et *engineTest) propose(env sdk.Env, titles ...string) uint64 {
	et.t.Helper()
	id, err := et.eng.Propose(env, contract.ProposeMsg{Title: "proposal", Options: options(titles...)})
	require.NoError(et.t, err)
	return id
}

func (et *engineTest) vote(env sdk.Env, id uint64, option uint32) contract.Status {
	et.t.Helper()
	status, err := et.eng.Vote(env, id, option)
	require.NoError(et.t, err)
	return status
}

func (et *engineTest) status(env sdk.Env, id uint64) contract.Status {
	et.t.Helper()
	p, err := et.eng.Proposal(env, id)
	require.NoError(et.t, err)
	return p.Status
}

func (et *engineTest) balance(asset sdk.Asset, addr sdk.Address) uint64 {
	et.t.Helper()
	bal, err := et.eng.Balance(asset, addr)
	require.NoError(et.t, err)
	return bal.Uint64()
}

func depositOf(amount uint64, refund bool) *contract.DepositInfo {
	return &contract.DepositInfo{Asset: sdk.AssetHbd, Amount: *u(amount), RefundFailedProposals: refund}
}

func withDeposit(env sdk.Env, amount string) sdk.Env {
	env.Intents = []sdk.Intent{sdk.TransferIntent(sdk.AssetHbd, amount)}
	return env
}
