package contract_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okinoko_multichoice/contract"
)

const transitionsHeader = `
# HELP gov_proposal_transitions Number of proposals entering each status
# TYPE gov_proposal_transitions counter
`

const votesHeader = `
# HELP gov_votes Number of ballots recorded, revotes included
# TYPE gov_votes counter
`

// TestMetricsCountCommittedCallsOnly checks that a call which rolls back
// leaves the transition and vote counters untouched.
func TestMetricsCountCommittedCallsOnly(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := contract.NewMetrics("gov", reg)
	require.NoError(t, err)

	et := SetupEngineTest(t, contract.ActiveThreshold{}, contract.WithMetrics(m))
	et.member(alice, 10)
	et.member(bob, 10)
	et.instantiate(contract.InstantiateMsg{Quorum: contract.Majority(), MaxVotingPeriod: contract.Blocks(10)})
	id := et.propose(at(alice, 5), "a", "b")
	assert.Equal(t, contract.StatusOpen, et.vote(at(alice, 5), id, 0))

	// expired without quorum, the vote is refused and its rejection dropped
	_, err = et.eng.Vote(at(bob, 20), id, 0)
	require.ErrorIs(t, err, contract.ErrNotOpen)
	_, err = et.eng.Vote(at(bob, 21), id, 1)
	require.ErrorIs(t, err, contract.ErrNotOpen)

	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(votesHeader+"gov_votes 1\n"), "gov_votes"))
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(""), "gov_proposal_transitions"))

	require.NoError(t, et.eng.Close(at(bob, 22), id))
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(transitionsHeader+
		"gov_proposal_transitions{status=\"closed\"} 1\n"+
		"gov_proposal_transitions{status=\"rejected\"} 1\n"), "gov_proposal_transitions"))
}
