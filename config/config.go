// Package config loads node and cli settings from okinoko.yaml, OKINOKO_*
// environment variables, .env files and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/holiman/uint256"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"okinoko_multichoice/contract"
	"okinoko_multichoice/sdk"
)

const EnvPrefix = "OKINOKO"

// Settings is the resolved configuration.
type Settings struct {
	Store   StoreSettings   `mapstructure:"store"`
	Log     LogSettings     `mapstructure:"log"`
	API     APISettings     `mapstructure:"api"`
	Metrics MetricsSettings `mapstructure:"metrics"`
	Staking StakingSettings `mapstructure:"staking"`
	Engine  EngineSettings  `mapstructure:"engine"`
}

type StoreSettings struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

type LogSettings struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type APISettings struct {
	Listen      string   `mapstructure:"listen"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type MetricsSettings struct {
	Namespace string `mapstructure:"namespace"`
	Enabled   bool   `mapstructure:"enabled"`
}

// StakingSettings configures the bundled voting power source.
type StakingSettings struct {
	Asset           string `mapstructure:"asset"`
	Pool            string `mapstructure:"pool"`
	ActiveThreshold string `mapstructure:"active_threshold"`
}

// EngineSettings are the values `init` instantiates the module with.
type EngineSettings struct {
	DAO                     string `mapstructure:"dao"`
	Module                  string `mapstructure:"module"`
	Quorum                  string `mapstructure:"quorum"`
	MaxVotingPeriod         string `mapstructure:"max_voting_period"`
	MinVotingPeriod         string `mapstructure:"min_voting_period"`
	OnlyMembersExecute      bool   `mapstructure:"only_members_execute"`
	AllowRevoting           bool   `mapstructure:"allow_revoting"`
	CloseOnExecutionFailure bool   `mapstructure:"close_on_execution_failure"`
	DepositAsset            string `mapstructure:"deposit_asset"`
	DepositAmount           string `mapstructure:"deposit_amount"`
	RefundFailedProposals   bool   `mapstructure:"refund_failed_proposals"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.path", ".okinoko/state")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("api.listen", "127.0.0.1:8645")
	v.SetDefault("api.cors_origins", []string{"*"})
	v.SetDefault("metrics.namespace", "okinoko")
	v.SetDefault("staking.asset", sdk.AssetHive.String())
	v.SetDefault("staking.pool", "contract:okinoko-stake")
	v.SetDefault("staking.active_threshold", "none")
	v.SetDefault("engine.quorum", "majority")
	v.SetDefault("engine.max_voting_period", "100blocks")
}

// NewViper builds a viper instance reading configFile (or okinoko.yaml in the
// working directory and ~/.okinoko) and the OKINOKO_ environment. A .env file
// next to the config is loaded first when present.
func NewViper(configFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	v := viper.New()
	setDefaults(v)
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("okinoko")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.okinoko")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			if key, ok := flagKeys[f.Name]; ok {
				if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
					bindErr = err
				}
			}
		})
		if bindErr != nil {
			return nil, bindErr
		}
	}
	return v, nil
}

// flagKeys maps persistent cli flags onto config keys.
var flagKeys = map[string]string{
	"store":      "store.backend",
	"store-path": "store.path",
	"log-level":  "log.level",
	"log-format": "log.format",
	"log-file":   "log.file",
	"listen":     "api.listen",
}

// Load decodes the settings held by v.
func Load(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &s, nil
}

// InstantiateMsg turns the engine section into the message `init` sends.
func (e EngineSettings) InstantiateMsg() (contract.InstantiateMsg, error) {
	var msg contract.InstantiateMsg
	msg.DAO = sdk.Address(e.DAO)
	msg.Module = sdk.Address(e.Module)
	msg.OnlyMembersExecute = e.OnlyMembersExecute
	msg.AllowRevoting = e.AllowRevoting
	msg.CloseProposalOnExecutionFailure = e.CloseOnExecutionFailure

	if e.Quorum != "" {
		q, err := contract.ParseQuorum(e.Quorum)
		if err != nil {
			return msg, err
		}
		msg.Quorum = q
	}
	if e.MaxVotingPeriod != "" {
		d, err := contract.ParseDuration(e.MaxVotingPeriod)
		if err != nil {
			return msg, fmt.Errorf("max_voting_period: %w", err)
		}
		msg.MaxVotingPeriod = d
	}
	if e.MinVotingPeriod != "" {
		d, err := contract.ParseDuration(e.MinVotingPeriod)
		if err != nil {
			return msg, fmt.Errorf("min_voting_period: %w", err)
		}
		msg.MinVotingPeriod = &d
	}
	dep, err := ParseDeposit(e.DepositAsset, e.DepositAmount, e.RefundFailedProposals)
	if err != nil {
		return msg, err
	}
	msg.Deposit = dep
	return msg, nil
}

// ParseDeposit returns nil when no amount is set.
func ParseDeposit(asset, amount string, refund bool) (*contract.DepositInfo, error) {
	if amount == "" || amount == "0" {
		return nil, nil
	}
	a, err := sdk.ParseAsset(asset)
	if err != nil {
		return nil, fmt.Errorf("deposit asset: %w", err)
	}
	n, err := uint256.FromDecimal(amount)
	if err != nil {
		return nil, fmt.Errorf("deposit amount %q: %w", amount, err)
	}
	return &contract.DepositInfo{Asset: a, Amount: *n, RefundFailedProposals: refund}, nil
}

// Threshold parses the staking active threshold.
func (s StakingSettings) Threshold() (contract.ActiveThreshold, error) {
	return contract.ParseActiveThreshold(s.ActiveThreshold)
}
