package contract

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"okinoko_multichoice/sdk"
)

//go:generate mockgen -destination=contractmock/mocks.go -package=contractmock okinoko_multichoice/contract VotingPowerOracle,Executor,Notifier

// Engine runs the governance module against a Store. Every exposed operation
// is one serialized call: it either commits all of its writes or none.
type Engine struct {
	mu       sync.RWMutex
	store    Store
	oracle   VotingPowerOracle
	executor Executor
	notifier Notifier
	log      *zap.Logger
	metrics  *Metrics
	sink     func(line string)
	now      func() time.Time
}

type EngineOption func(*Engine)

// WithExecutor replaces the default LedgerExecutor.
func WithExecutor(x Executor) EngineOption { return func(e *Engine) { e.executor = x } }

// WithNotifier sets how hook listeners are reached.
func WithNotifier(n Notifier) EngineOption { return func(e *Engine) { e.notifier = n } }

func WithLogger(l *zap.Logger) EngineOption { return func(e *Engine) { e.log = l } }

func WithMetrics(m *Metrics) EngineOption { return func(e *Engine) { e.metrics = m } }

// WithEventSink receives every event line after its call committed.
func WithEventSink(fn func(line string)) EngineOption { return func(e *Engine) { e.sink = fn } }

// New wires an engine. The oracle is the only mandatory collaborator.
func New(store Store, oracle VotingPowerOracle, opts ...EngineOption) *Engine {
	e := &Engine{
		store:    store,
		oracle:   oracle,
		executor: LedgerExecutor{},
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.notifier == nil {
		e.notifier = LogNotifier{Log: e.log}
	}
	return e
}

// call is the scope of one exposed operation.
type call struct {
	e      *Engine
	env    sdk.Env
	st     *txState
	cfg    *Config
	events []string
	notes  []notification
	marks  []func(*Metrics)
}

func (c *call) config() (*Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := loadConfig(c.st)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

func (c *call) ledger() stateLedger {
	return stateLedger{st: c.st}
}

// run executes fn inside a fresh write buffer and commits it when fn
// succeeds. Hooks, metrics and event lines only see committed calls.
func (e *Engine) run(op string, env sdk.Env, fn func(c *call) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	started := e.now()
	c := &call{e: e, env: env, st: newTxState(e.store)}
	err := fn(c)
	if err == nil {
		if cerr := e.store.Commit(c.st.writes()); cerr != nil {
			err = fmt.Errorf("commit %s: %w", op, cerr)
		}
	}
	e.metrics.observeCall(op, err, e.now().Sub(started))
	if err != nil {
		e.log.Debug("call rejected",
			zap.String("op", op),
			zap.String("sender", env.Sender.String()),
			zap.Uint64("height", env.Height),
			zap.Error(err),
		)
		return err
	}
	// a listener whose removal did not persist is retried on its next delivery
	if herr := c.dispatchHooks(); herr != nil {
		e.log.Error("failed to drop failing hook listeners", zap.String("op", op), zap.Error(herr))
	}
	for _, mark := range c.marks {
		mark(e.metrics)
	}
	for _, line := range c.events {
		e.log.Info(line, zap.String("op", op), zap.String("tx", env.TxID))
		if e.sink != nil {
			e.sink(line)
		}
	}
	return nil
}

// view runs a read only function against committed state.
func (e *Engine) view(fn func(st State) error) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return fn(e.store)
}

// requireDAO rejects callers other than the owning organization.
func (c *call) requireDAO() (*Config, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if c.env.Sender != cfg.DAO {
		return nil, fmt.Errorf("%s is not the dao: %w", c.env.Sender, ErrUnauthorized)
	}
	return cfg, nil
}

// transition records a status change made during this call.
func (c *call) transition(p *Proposal, old Status) {
	if p.Status == old {
		return
	}
	p.LastUpdated = c.env.Timestamp
	c.emit(proposalStatusChangedEvent(p.ID, old, p.Status))
	c.notify(ProposalHooks, HookMessage{
		Kind:       HookStatusChanged,
		ProposalID: p.ID,
		OldStatus:  old,
		NewStatus:  p.Status,
	})
	status := p.Status
	c.mark(func(m *Metrics) { m.markStatus(status) })
}

// mark queues a metric update that is applied once the call committed.
func (c *call) mark(fn func(m *Metrics)) {
	c.marks = append(c.marks, fn)
}

func (c *call) emit(line string) {
	c.events = append(c.events, line)
}
