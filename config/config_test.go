package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okinoko_multichoice/contract"
)

const sampleYAML = `
store:
  backend: leveldb
  path: /tmp/okinoko
log:
  level: debug
engine:
  dao: hive:dao
  quorum: 20%
  max_voting_period: 72h
  min_voting_period: 1h
  allow_revoting: true
  deposit_asset: hbd
  deposit_amount: "10"
  refund_failed_proposals: true
staking:
  active_threshold: 5%
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "okinoko.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	v, err := NewViper(writeConfig(t), nil)
	require.NoError(t, err)
	s, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "leveldb", s.Store.Backend)
	assert.Equal(t, "/tmp/okinoko", s.Store.Path)
	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, "console", s.Log.Format)
	assert.Equal(t, "127.0.0.1:8645", s.API.Listen)
	assert.True(t, s.Engine.AllowRevoting)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("OKINOKO_STORE_BACKEND", "pebble")
	v, err := NewViper(writeConfig(t), nil)
	require.NoError(t, err)
	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "pebble", s.Store.Backend)
}

func TestMissingExplicitFileFails(t *testing.T) {
	_, err := NewViper(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestEngineInstantiateMsg(t *testing.T) {
	v, err := NewViper(writeConfig(t), nil)
	require.NoError(t, err)
	s, err := Load(v)
	require.NoError(t, err)

	msg, err := s.Engine.InstantiateMsg()
	require.NoError(t, err)
	assert.Equal(t, "hive:dao", msg.DAO.String())
	assert.Equal(t, contract.QuorumPercent, msg.Quorum.Kind)
	assert.Equal(t, contract.Seconds(72*3600), msg.MaxVotingPeriod)
	require.NotNil(t, msg.MinVotingPeriod)
	assert.Equal(t, contract.Seconds(3600), *msg.MinVotingPeriod)
	require.NotNil(t, msg.Deposit)
	assert.Equal(t, "10", msg.Deposit.Amount.Dec())
	assert.True(t, msg.Deposit.RefundFailedProposals)

	th, err := s.Staking.Threshold()
	require.NoError(t, err)
	assert.Equal(t, contract.ThresholdPercent, th.Kind)
}

func TestParseDeposit(t *testing.T) {
	d, err := ParseDeposit("hive", "", false)
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = ParseDeposit("hive", "abc", false)
	assert.Error(t, err)

	_, err = ParseDeposit("", "5", false)
	assert.Error(t, err)
}
