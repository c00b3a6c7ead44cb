package contract

import (
	"fmt"

	"github.com/shopspring/decimal"

	"okinoko_multichoice/sdk"
)

// DefaultModuleAddress is the escrow account used when Instantiate names none.
var DefaultModuleAddress = sdk.ContractAddress("okinoko")

func validateConfig(cfg *Config) error {
	if err := cfg.DAO.Validate(); err != nil {
		return fmt.Errorf("dao %q: %w", cfg.DAO, ErrInvalidAddress)
	}
	if err := cfg.Module.Validate(); err != nil {
		return fmt.Errorf("module %q: %w", cfg.Module, ErrInvalidAddress)
	}
	// deposits in escrow must never be reachable by treasury payouts
	if cfg.DAO == cfg.Module {
		return fmt.Errorf("module %q doubles as the dao: %w", cfg.Module, ErrInvalidAddress)
	}
	if err := cfg.Quorum.Validate(); err != nil {
		return err
	}
	if err := validateVotingPeriod(cfg.MinVotingPeriod, cfg.MaxVotingPeriod); err != nil {
		return err
	}
	return validateDeposit(cfg.Deposit)
}

// Instantiate writes the initial config. Unset fields fall back to the sender
// as dao, DefaultModuleAddress, a 20% quorum and a 100 block voting period.
func (e *Engine) Instantiate(env sdk.Env, msg InstantiateMsg) error {
	return e.run("instantiate", env, func(c *call) error {
		if _, err := loadConfig(c.st); err == nil {
			return ErrAlreadyInstantiated
		} else if err != ErrNotInstantiated {
			return err
		}
		cfg := &Config{
			DAO:                             msg.DAO,
			Module:                          msg.Module,
			Quorum:                          msg.Quorum,
			MaxVotingPeriod:                 msg.MaxVotingPeriod,
			MinVotingPeriod:                 msg.MinVotingPeriod,
			OnlyMembersExecute:              msg.OnlyMembersExecute,
			AllowRevoting:                   msg.AllowRevoting,
			CloseProposalOnExecutionFailure: msg.CloseProposalOnExecutionFailure,
			Deposit:                         msg.Deposit,
		}
		if cfg.DAO == "" {
			cfg.DAO = env.Sender
		}
		if cfg.Module == "" {
			cfg.Module = DefaultModuleAddress
		}
		if cfg.Quorum.Kind == 0 {
			cfg.Quorum = Percent(decimal.RequireFromString(FallbackQuorumPercent))
		}
		if cfg.MaxVotingPeriod.Unit == 0 {
			cfg.MaxVotingPeriod = Blocks(FallbackMaxVotingPeriodHeight)
		}
		if err := validateConfig(cfg); err != nil {
			return err
		}
		saveConfig(c.st, cfg)
		c.cfg = cfg
		c.emit(configUpdatedEvent(cfg.DAO, cfg.Quorum))
		return nil
	})
}

// UpdateConfig replaces the config. Proposals already created keep the terms
// they were created with.
func (e *Engine) UpdateConfig(env sdk.Env, msg UpdateConfigMsg) error {
	return e.run("update_config", env, func(c *call) error {
		old, err := c.requireDAO()
		if err != nil {
			return err
		}
		cfg := &Config{
			DAO:                             msg.DAO,
			Module:                          old.Module,
			Quorum:                          msg.Quorum,
			MaxVotingPeriod:                 msg.MaxVotingPeriod,
			MinVotingPeriod:                 msg.MinVotingPeriod,
			OnlyMembersExecute:              msg.OnlyMembersExecute,
			AllowRevoting:                   msg.AllowRevoting,
			CloseProposalOnExecutionFailure: msg.CloseProposalOnExecutionFailure,
			Deposit:                         msg.Deposit,
		}
		if cfg.DAO == "" {
			cfg.DAO = old.DAO
		}
		if err := validateConfig(cfg); err != nil {
			return err
		}
		saveConfig(c.st, cfg)
		c.cfg = cfg
		c.emit(configUpdatedEvent(cfg.DAO, cfg.Quorum))
		return nil
	})
}
