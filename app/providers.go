package app

import (
	"fmt"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"okinoko_multichoice/config"
	"okinoko_multichoice/contract"
	"okinoko_multichoice/logging"
	"okinoko_multichoice/sdk"
	"okinoko_multichoice/store"
)

// ProviderSet is everything InitApp needs besides the settings.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideStore,
	ProvideOracle,
	ProvideRegistry,
	ProvideMetrics,
	ProvideEngine,
	NewApp,
)

func ProvideLogger(s *config.Settings) (*zap.Logger, error) {
	return logging.New(s.Log)
}

// ProvideStore opens the configured backend. The cleanup closes it and
// flushes the logger.
func ProvideStore(s *config.Settings, log *zap.Logger) (contract.Store, func(), error) {
	st, err := store.Open(s.Store.Backend, s.Store.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", s.Store.Backend, err)
	}
	log.Debug("store opened", zap.String("backend", s.Store.Backend), zap.String("path", s.Store.Path))
	cleanup := func() {
		if err := st.Close(); err != nil {
			log.Warn("closing store", zap.Error(err))
		}
		_ = log.Sync()
	}
	return st, cleanup, nil
}

func ProvideOracle(s *config.Settings, st contract.Store) (*contract.StakingOracle, error) {
	asset, err := sdk.ParseAsset(s.Staking.Asset)
	if err != nil {
		return nil, fmt.Errorf("staking asset: %w", err)
	}
	pool := sdk.Address(s.Staking.Pool)
	if err := pool.Validate(); err != nil {
		return nil, fmt.Errorf("staking pool: %w", err)
	}
	threshold, err := s.Staking.Threshold()
	if err != nil {
		return nil, err
	}
	return contract.NewStakingOracle(st, asset, pool, threshold), nil
}

func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// ProvideMetrics returns nil when metrics are disabled, which the engine
// treats as a no-op recorder.
func ProvideMetrics(s *config.Settings, reg *prometheus.Registry) (*contract.Metrics, error) {
	if !s.Metrics.Enabled {
		return nil, nil
	}
	return contract.NewMetrics(s.Metrics.Namespace, reg)
}

func ProvideEngine(st contract.Store, oracle *contract.StakingOracle, log *zap.Logger, m *contract.Metrics) *contract.Engine {
	return contract.New(st, oracle,
		contract.WithLogger(log),
		contract.WithMetrics(m),
		contract.WithNotifier(contract.LogNotifier{Log: log.Named("hooks")}),
	)
}
