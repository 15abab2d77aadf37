// Package app wires configuration, logging and storage into per-domain
// routers for the binaries.
package app

import (
	"context"
	"fmt"

	"github.com/nisimpson/dynaroute"
	"github.com/nisimpson/dynaroute/docstore"
	"github.com/nisimpson/dynaroute/internal/config"
	"github.com/sirupsen/logrus"
)

// App owns the store and the routers built on top of it.
type App struct {
	Config *config.Config
	Logger *logrus.Logger
	Store  docstore.Store

	domains []dynaroute.Domain
	repos   map[string]*dynaroute.Repository
	routers map[string]*dynaroute.Router
}

// New opens the configured store and builds a router for each domain.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger, domains ...dynaroute.Domain) (*App, error) {
	opts := cfg.StoreOptions()
	opts.Logger = logger
	store, err := docstore.Open(ctx, opts)
	if err != nil {
		return nil, err
	}

	a, err := NewWithStore(cfg, logger, store, domains...)
	if err != nil {
		store.Close()
		return nil, err
	}
	return a, nil
}

// NewWithStore builds the routers on an already opened store. The App takes
// ownership of store.
func NewWithStore(cfg *config.Config, logger *logrus.Logger, store docstore.Store, domains ...dynaroute.Domain) (*App, error) {
	if len(domains) == 0 {
		return nil, fmt.Errorf("%w: at least one domain", dynaroute.ErrMissingArgument)
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		domains: domains,
		repos:   make(map[string]*dynaroute.Repository, len(domains)),
		routers: make(map[string]*dynaroute.Router, len(domains)),
	}

	for _, d := range domains {
		collection, err := cfg.Collection(d)
		if err != nil {
			return nil, err
		}
		repo := dynaroute.NewRepository(store, d, collection, func(o *dynaroute.RepositoryOptions) {
			o.Logger = logger
		})
		a.repos[d.Name] = repo
		a.routers[d.Name] = dynaroute.NewRouter(repo, func(o *dynaroute.RouterOptions) {
			o.Logger = logger
		})
		logger.WithFields(logrus.Fields{
			"domain":     d.Name,
			"collection": collection,
		}).Debug("registered domain")
	}
	return a, nil
}

// Router returns the router of the named domain.
func (a *App) Router(name string) (*dynaroute.Router, bool) {
	r, ok := a.routers[name]
	return r, ok
}

// Repositories returns the repositories in registration order.
func (a *App) Repositories() []*dynaroute.Repository {
	repos := make([]*dynaroute.Repository, 0, len(a.domains))
	for _, d := range a.domains {
		repos = append(repos, a.repos[d.Name])
	}
	return repos
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}
