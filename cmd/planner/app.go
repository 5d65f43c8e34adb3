package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hluleko/smart-travel-planner/internal/adapter/backend"
	"github.com/hluleko/smart-travel-planner/internal/adapter/sqlite"
	"github.com/hluleko/smart-travel-planner/internal/config"
	"github.com/hluleko/smart-travel-planner/internal/domain"
	"github.com/hluleko/smart-travel-planner/internal/observability"
	"github.com/hluleko/smart-travel-planner/internal/session"
)

// app holds the collaborators shared by every subcommand.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	clock   clockwork.Clock
	storage *sqlite.Store
	session *session.Store
	client  *backend.Client
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := observability.NewLogger(cfg)
	clock := clockwork.NewRealClock()

	storage, err := sqlite.Open(cfg.SessionDB)
	if err != nil {
		return nil, fmt.Errorf("open session storage: %w", err)
	}
	sess, err := session.Load(ctx, storage, clock, logger)
	if err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("load session: %w", err)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		clock:   clock,
		storage: storage,
		session: sess,
		client:  backend.NewClient(cfg.BackendURL, cfg.BackendTimeout, observability.NewMetricsWithRegistry(prometheus.NewRegistry()), logger),
	}, nil
}

func (a *app) close() error {
	return a.storage.Close()
}

func (a *app) save(ctx context.Context) error {
	return a.session.Save(ctx, a.storage)
}

// requireLogin refreshes the signed-in user, clearing the stored session when
// the backend rejects it.
func (a *app) requireLogin(ctx context.Context) (*domain.User, error) {
	if !a.session.IsLoggedIn() {
		return nil, errNotLoggedIn
	}
	if a.session.TokenExpired() {
		a.session.Logout()
		if err := a.save(ctx); err != nil {
			return nil, err
		}
		return nil, errSessionExpired
	}

	fetchErr := a.session.FetchUser(ctx, a.client)
	if err := a.save(ctx); err != nil {
		return nil, err
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	if user := a.session.User(); user != nil {
		return user, nil
	}
	return nil, errNotLoggedIn
}

func (a *app) generator(seed int64) *domain.Generator {
	if seed == 0 {
		seed = a.cfg.WarningSeed
	}
	return domain.NewSeededGenerator(seed, a.clock)
}
