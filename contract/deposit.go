package contract

import (
	"fmt"

	"okinoko_multichoice/sdk"
)

// validateDeposit checks deposit terms before they land in the config.
func validateDeposit(d *DepositInfo) error {
	if d == nil {
		return nil
	}
	if _, err := sdk.ParseAsset(d.Asset.String()); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidDeposit)
	}
	return nil
}

// collectDeposit pulls the configured deposit from the proposer into the
// module's escrow account. The proposer authorizes it with a transfer.allow
// intent naming the exact asset and amount.
func (c *call) collectDeposit(id uint64, d *DepositInfo) error {
	if d == nil || d.Amount.IsZero() {
		return nil
	}
	cfg, err := c.config()
	if err != nil {
		return err
	}
	ta, err := c.env.FirstTransferAllow()
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrDepositMissing)
	}
	if ta == nil {
		return ErrDepositMissing
	}
	if ta.Token != d.Asset {
		return fmt.Errorf("got %s, want %s: %w", ta.Token, d.Asset, ErrWrongDepositAsset)
	}
	if !ta.Limit.Eq(&d.Amount) {
		return fmt.Errorf("got %s, want %s: %w", ta.Limit.Dec(), d.Amount.Dec(), ErrWrongDepositAmount)
	}
	if err := c.ledger().Transfer(d.Asset, c.env.Sender, cfg.Module, &d.Amount); err != nil {
		return err
	}
	c.emit(depositEvent(id, "paid", cfg.Module, d.Amount.Dec(), d.Asset))
	c.mark(func(m *Metrics) { m.markDeposit("paid") })
	return nil
}

// settleDeposit releases the escrowed deposit of p exactly once: back to the
// proposer when refund is set, to the dao treasury otherwise.
func (c *call) settleDeposit(p *Proposal, refund bool) error {
	if p.DepositSettled {
		return nil
	}
	p.DepositSettled = true
	d := p.Deposit
	if d == nil || d.Amount.IsZero() {
		return nil
	}
	cfg, err := c.config()
	if err != nil {
		return err
	}
	to, kind := cfg.DAO, "forfeited"
	if refund {
		to, kind = p.Proposer, "refunded"
	}
	if err := c.ledger().Transfer(d.Asset, cfg.Module, to, &d.Amount); err != nil {
		return fmt.Errorf("settle deposit of proposal %d: %w", p.ID, err)
	}
	c.emit(depositEvent(p.ID, kind, to, d.Amount.Dec(), d.Asset))
	c.mark(func(m *Metrics) { m.markDeposit(kind) })
	return nil
}
