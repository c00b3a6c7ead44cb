package contract

import (
	"fmt"

	"okinoko_multichoice/sdk"
)

// Vote casts or replaces the sender's ballot with the weight they held when
// the proposal was created, and returns the refreshed status.
// Example payload: Vote(env, 1, 0)
func (e *Engine) Vote(env sdk.Env, id uint64, option uint32) (Status, error) {
	var status Status
	err := e.run("vote", env, func(c *call) error {
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
		if p.Status != StatusOpen {
			// the failed call drops the refreshed status, queries recompute it
			return fmt.Errorf("proposal %d is %s: %w", id, p.Status, ErrNotOpen)
		}
		power, err := e.oracle.PowerAtHeight(env.Sender, p.StartHeight)
		if err != nil {
			return err
		}
		power = zeroIfNil(power)
		next, err := p.Votes.RecordOrReplace(ballotBook{st: c.st, id: id}, env.Sender, option, power, p.AllowRevoting)
		if err != nil {
			return fmt.Errorf("vote on proposal %d: %w", id, err)
		}
		p.Votes = next
		p.LastUpdated = env.Timestamp
		c.emit(voteCastEvent(id, env.Sender, option, power.Dec()))
		c.mark((*Metrics).markVote)

		if err := c.refresh(p); err != nil {
			return err
		}
		saveProposal(c.st, p)
		c.notify(VoteHooks, HookMessage{Kind: HookNewVote, ProposalID: id, Voter: env.Sender, Option: option})
		status = p.Status
		return nil
	})
	if err != nil {
		return StatusUnspecified, err
	}
	return status, nil
}
