package contract

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"okinoko_multichoice/sdk"
)

// window derives the timing context of p for the block in env.
func window(p *Proposal, env sdk.Env) Window {
	return Window{
		Expired:          p.Expiration.IsExpired(env),
		MinPeriodPending: p.MinVotingPeriod != nil && !p.MinVotingPeriod.IsExpired(env),
		Revoting:         p.AllowRevoting,
	}
}

// currentStatus is the status p has at env. Only open proposals move on their
// own; every other status changes through an explicit call.
func currentStatus(p *Proposal, env sdk.Env) (Status, error) {
	if p.Status != StatusOpen {
		return p.Status, nil
	}
	return Evaluate(p.Votes, &p.TotalPower, p.Quorum, window(p, env))
}

// updateStatus refreshes p in place and returns the status it had before.
func updateStatus(p *Proposal, env sdk.Env) (Status, error) {
	old := p.Status
	next, err := currentStatus(p, env)
	if err != nil {
		return old, err
	}
	p.Status = next
	return old, nil
}

// refresh updates p and records the transition when the status moved.
func (c *call) refresh(p *Proposal) error {
	old, err := updateStatus(p, c.env)
	if err != nil {
		return err
	}
	c.transition(p, old)
	return nil
}

func validateOptions(opts []Option) error {
	if len(opts) < MinNumChoices || len(opts) > MaxNumChoices {
		return fmt.Errorf("%d options, want %d..%d: %w", len(opts), MinNumChoices, MaxNumChoices, ErrWrongNumberOfChoices)
	}
	seen := make(map[string]struct{}, len(opts))
	for i, opt := range opts {
		title := strings.TrimSpace(opt.Title)
		if title == "" {
			return fmt.Errorf("option %d has no title: %w", i, ErrInvalidProposal)
		}
		if utf8.RuneCountInString(title) > MaxTitleLength {
			return fmt.Errorf("option %d title too long: %w", i, ErrInvalidProposal)
		}
		if _, dup := seen[title]; dup {
			return fmt.Errorf("duplicate option title %q: %w", title, ErrInvalidProposal)
		}
		seen[title] = struct{}{}
		if err := validateMessages(opt.Messages); err != nil {
			return fmt.Errorf("option %d: %w", i, err)
		}
	}
	return nil
}

// Propose creates a proposal owned by the sender and returns its id. The
// configured deposit must be attached as a transfer.allow intent.
// Example payload: Propose(env, ProposeMsg{Title: "Budget", Options: []Option{{Title: "a"}, {Title: "b"}}})
func (e *Engine) Propose(env sdk.Env, msg ProposeMsg) (uint64, error) {
	var id uint64
	err := e.run("propose", env, func(c *call) error {
		cfg, err := c.config()
		if err != nil {
			return err
		}
		active, err := oracleActive(e.oracle)
		if err != nil {
			return err
		}
		if !active {
			return ErrInactiveDao
		}
		power, err := e.oracle.PowerAtHeight(env.Sender, env.Height)
		if err != nil {
			return err
		}
		if zeroIfNil(power).IsZero() {
			return fmt.Errorf("%s: %w", env.Sender, ErrMustHaveVotingPower)
		}

		title := strings.TrimSpace(msg.Title)
		if title == "" || utf8.RuneCountInString(title) > MaxTitleLength {
			return fmt.Errorf("title must be 1..%d characters: %w", MaxTitleLength, ErrInvalidProposal)
		}
		if err := validateOptions(msg.Options); err != nil {
			return err
		}

		count, err := getProposalCount(c.st)
		if err != nil {
			return err
		}
		id = count + 1
		if err := c.collectDeposit(id, cfg.Deposit); err != nil {
			return err
		}

		total, err := e.oracle.TotalPowerAtHeight(env.Height)
		if err != nil {
			return err
		}
		expiration, err := cfg.MaxVotingPeriod.After(env)
		if err != nil {
			return fmt.Errorf("max voting period: %w", err)
		}
		p := &Proposal{
			ID:            id,
			Title:         title,
			Description:   msg.Description,
			Proposer:      env.Sender,
			StartHeight:   env.Height,
			Created:       env.Timestamp,
			Expiration:    expiration,
			Quorum:        cfg.Quorum,
			Options:       lo.Map(msg.Options, func(o Option, _ int) Option { o.Title = strings.TrimSpace(o.Title); return o }),
			Status:        StatusOpen,
			TotalPower:    *zeroIfNil(total),
			Votes:         NewTally(len(msg.Options)),
			AllowRevoting: cfg.AllowRevoting,
			LastUpdated:   env.Timestamp,
		}
		if cfg.MinVotingPeriod != nil {
			min, err := cfg.MinVotingPeriod.After(env)
			if err != nil {
				return fmt.Errorf("min voting period: %w", err)
			}
			p.MinVotingPeriod = &min
		}
		if cfg.Deposit != nil {
			d := *cfg.Deposit
			p.Deposit = &d
		}
		// a zero total power proposal can already be expired at creation
		if _, err := updateStatus(p, env); err != nil {
			return err
		}
		if err := checkProposalSize(p); err != nil {
			return err
		}
		saveProposal(c.st, p)
		setProposalCount(c.st, id)

		c.emit(proposalCreatedEvent(id, env.Sender, len(p.Options)))
		c.notify(ProposalHooks, HookMessage{Kind: HookNewProposal, ProposalID: id, Proposer: env.Sender})
		if p.Status != StatusOpen {
			c.transition(p, StatusOpen)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Execute applies the messages of the winning option of a passed proposal.
func (e *Engine) Execute(env sdk.Env, id uint64) error {
	return e.run("execute", env, func(c *call) error {
		cfg, err := c.config()
		if err != nil {
			return err
		}
		if cfg.OnlyMembersExecute {
			power, err := e.oracle.PowerAtHeight(env.Sender, env.Height)
			if err != nil {
				return err
			}
			if zeroIfNil(power).IsZero() {
				return fmt.Errorf("%s has no voting power: %w", env.Sender, ErrUnauthorized)
			}
		}
		p, err := loadProposal(c.st, id)
		if err != nil {
			return err
		}
		if err := c.refresh(p); err != nil {
			return err
		}
		if p.Status != StatusPassed {
			return fmt.Errorf("proposal %d is %s: %w", id, p.Status, ErrNotPassed)
		}
		winner := p.Votes.Leader().Option
		msgs := p.Options[winner].Messages

		var execErr error
		if len(msgs) > 0 {
			sub := newTxState(c.st)
			execErr = e.executor.Execute(ExecContext{DAO: cfg.DAO, ProposalID: id, Ledger: stateLedger{st: sub}}, msgs)
			if execErr == nil {
				sub.mergeInto(c.st)
			}
		}
		if execErr != nil {
			if !cfg.CloseProposalOnExecutionFailure {
				return fmt.Errorf("proposal %d: %w: %w", id, ErrExecutionFailed, execErr)
			}
			e.log.Warn("proposal execution failed",
				zap.Uint64("proposal", id),
				zap.Uint32("option", winner),
				zap.Error(execErr),
			)
			c.emit(executionEvent(id, winner, false, execErr.Error()))
			p.Status = StatusExecutionFailed
			c.transition(p, StatusPassed)
			if err := c.settleDeposit(p, p.Deposit != nil && p.Deposit.RefundFailedProposals); err != nil {
				return err
			}
			saveProposal(c.st, p)
			return nil
		}

		c.emit(executionEvent(id, winner, true, ""))
		p.Status = StatusExecuted
		c.transition(p, StatusPassed)
		if err := c.settleDeposit(p, true); err != nil {
			return err
		}
		saveProposal(c.st, p)
		return nil
	})
}

// Close finalizes a rejected proposal and settles its deposit. Anyone may close.
func (e *Engine) Close(env sdk.Env, id uint64) error {
	return e.run("close", env, func(c *call) error {
		if _, err := c.config(); err != nil {
			return err
		}
		p, err := loadProposal(c.st, id)
		if err != nil {
			return err
		}
		if err := c.refresh(p); err != nil {
			return err
		}
		if p.Status != StatusRejected {
			return fmt.Errorf("proposal %d is %s: %w", id, p.Status, ErrWrongCloseStatus)
		}
		p.Status = StatusClosed
		c.transition(p, StatusRejected)
		if err := c.settleDeposit(p, p.Deposit != nil && p.Deposit.RefundFailedProposals); err != nil {
			return err
		}
		saveProposal(c.st, p)
		return nil
	})
}
