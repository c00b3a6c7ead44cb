package contract

import (
	"fmt"

	"go.uber.org/zap"

	"okinoko_multichoice/sdk"
)

// HookKind names one of the two listener registries.
type HookKind uint8

const (
	ProposalHooks HookKind = iota + 1
	VoteHooks
)

func (k HookKind) String() string {
	switch k {
	case ProposalHooks:
		return "proposal"
	case VoteHooks:
		return "vote"
	default:
		return fmt.Sprintf("hookkind(%d)", uint8(k))
	}
}

// ParseHookKind accepts "proposal" or "vote".
func ParseHookKind(s string) (HookKind, error) {
	switch s {
	case "proposal":
		return ProposalHooks, nil
	case "vote":
		return VoteHooks, nil
	}
	return 0, fmt.Errorf("unknown hook kind %q", s)
}

// HookEvent is the message type delivered to listeners.
type HookEvent string

const (
	HookNewProposal   HookEvent = "new_proposal"
	HookStatusChanged HookEvent = "proposal_status_changed"
	HookNewVote       HookEvent = "new_vote"
)

// HookMessage is what a listener receives. Only the fields relevant to Kind are set.
type HookMessage struct {
	Kind       HookEvent
	ProposalID uint64
	Proposer   sdk.Address
	OldStatus  Status
	NewStatus  Status
	Voter      sdk.Address
	Option     uint32
}

// Notifier delivers a message to one listener. A returned error removes the
// listener from its registry.
type Notifier interface {
	Notify(hook sdk.Address, msg HookMessage) error
}

type NotifierFunc func(hook sdk.Address, msg HookMessage) error

func (f NotifierFunc) Notify(hook sdk.Address, msg HookMessage) error { return f(hook, msg) }

// LogNotifier only logs deliveries, it never fails.
type LogNotifier struct {
	Log *zap.Logger
}

func (n LogNotifier) Notify(hook sdk.Address, msg HookMessage) error {
	if n.Log == nil {
		return nil
	}
	n.Log.Debug("hook",
		zap.String("listener", hook.String()),
		zap.String("kind", string(msg.Kind)),
		zap.Uint64("proposal", msg.ProposalID),
	)
	return nil
}

type notification struct {
	kind HookKind
	msg  HookMessage
}

// notify queues msg for every listener of kind. Delivery happens once the call
// committed.
func (c *call) notify(kind HookKind, msg HookMessage) {
	c.notes = append(c.notes, notification{kind: kind, msg: msg})
}

// dispatchHooks delivers the queued messages of a committed call in order.
// Listeners that fail are dropped from their registry in a follow up commit.
func (c *call) dispatchHooks() error {
	if len(c.notes) == 0 {
		return nil
	}
	st := newTxState(c.e.store)
	var lines []string
	var removedKinds []HookKind
	for _, n := range c.notes {
		hooks, err := loadHooks(st, n.kind)
		if err != nil {
			return err
		}
		kept := hooks[:0:0]
		removed := false
		for _, h := range hooks {
			if nerr := c.e.notifier.Notify(h, n.msg); nerr != nil {
				c.e.log.Warn("removing failing hook",
					zap.String("kind", n.kind.String()),
					zap.String("listener", h.String()),
					zap.Error(nerr),
				)
				lines = append(lines, hookEvent(n.kind, "removed", h))
				removedKinds = append(removedKinds, n.kind)
				removed = true
				continue
			}
			kept = append(kept, h)
		}
		if removed {
			saveHooks(st, n.kind, kept)
		}
	}
	c.notes = nil
	if len(lines) == 0 {
		return nil
	}
	if err := c.e.store.Commit(st.writes()); err != nil {
		return err
	}
	c.events = append(c.events, lines...)
	for _, kind := range removedKinds {
		c.mark(func(m *Metrics) { m.markHookRemoved(kind) })
	}
	return nil
}

func loadHooks(st State, kind HookKind) ([]sdk.Address, error) {
	ptr, err := st.Get(hooksKey(kind))
	if err != nil {
		return nil, err
	}
	if ptr == nil || *ptr == "" {
		return nil, nil
	}
	return decodeAddresses([]byte(*ptr))
}

func saveHooks(st readWriter, kind HookKind, hooks []sdk.Address) {
	if len(hooks) == 0 {
		st.Delete(hooksKey(kind))
		return
	}
	st.Set(hooksKey(kind), string(encodeAddresses(hooks)))
}

func indexOf(hooks []sdk.Address, addr sdk.Address) int {
	for i, h := range hooks {
		if h == addr {
			return i
		}
	}
	return -1
}

// AddHook registers addr as a listener of kind. Only the dao may call it.
func (e *Engine) AddHook(env sdk.Env, kind HookKind, addr sdk.Address) error {
	return e.run("add_hook", env, func(c *call) error {
		if _, err := c.requireDAO(); err != nil {
			return err
		}
		if err := addr.Validate(); err != nil {
			return fmt.Errorf("hook %q: %w", addr, ErrInvalidAddress)
		}
		hooks, err := loadHooks(c.st, kind)
		if err != nil {
			return err
		}
		if indexOf(hooks, addr) >= 0 {
			return fmt.Errorf("%s hook %s: %w", kind, addr, ErrHookAlreadyExists)
		}
		saveHooks(c.st, kind, append(hooks, addr))
		c.emit(hookEvent(kind, "added", addr))
		return nil
	})
}

// RemoveHook unregisters addr. Only the dao may call it.
func (e *Engine) RemoveHook(env sdk.Env, kind HookKind, addr sdk.Address) error {
	return e.run("remove_hook", env, func(c *call) error {
		if _, err := c.requireDAO(); err != nil {
			return err
		}
		hooks, err := loadHooks(c.st, kind)
		if err != nil {
			return err
		}
		i := indexOf(hooks, addr)
		if i < 0 {
			return fmt.Errorf("%s hook %s: %w", kind, addr, ErrHookNotFound)
		}
		saveHooks(c.st, kind, append(hooks[:i:i], hooks[i+1:]...))
		c.emit(hookEvent(kind, "removed", addr))
		return nil
	})
}

func (e *Engine) AddProposalHook(env sdk.Env, addr sdk.Address) error {
	return e.AddHook(env, ProposalHooks, addr)
}

func (e *Engine) RemoveProposalHook(env sdk.Env, addr sdk.Address) error {
	return e.RemoveHook(env, ProposalHooks, addr)
}

func (e *Engine) AddVoteHook(env sdk.Env, addr sdk.Address) error {
	return e.AddHook(env, VoteHooks, addr)
}

func (e *Engine) RemoveVoteHook(env sdk.Env, addr sdk.Address) error {
	return e.RemoveHook(env, VoteHooks, addr)
}
