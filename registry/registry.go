// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package registry implements a multi-tenant service instance registry:
// a coarse-locked cache of one service record per tenant, kept consistent
// with tenant restriction flags, backing-component identity changes, and
// component lifecycle and configuration events.
//
// All event sources funnel into a single reconciliation path, Update,
// which recomputes the tenant's disabled state and applies the enable or
// remove hooks under one registry-wide lock. The lock serializes
// operations; it does not impose wall-clock ordering across independent
// event feeds, and none is required: per-tenant operations are linearized,
// which is the only guarantee callers may rely on.
package registry

import (
	"sync"
	"time"

	"github.com/juju/clock"
	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/pubsub/v2"
	"github.com/juju/worker/v4"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/tomb.v2"

	"github.com/servicehub/servicehub/core/component"
	"github.com/servicehub/servicehub/core/tenant"
	"github.com/servicehub/servicehub/pubsub/packages"
	"github.com/servicehub/servicehub/pubsub/tenants"
	"github.com/servicehub/servicehub/settings"
)

var logger = loggo.GetLogger("servicehub.registry")

// Config holds the dependencies and policy of a Registry.
//
// The factory and hook functions are all invoked while the registry lock
// is held. They must not call back into the registry synchronously: the
// lock is not reentrant and doing so deadlocks. A hook that needs to
// drive the registry must defer that work to another goroutine.
type Config struct {
	// Hub is the process hub carrying the restriction, package-lifecycle
	// and settings feeds.
	Hub *pubsub.SimpleHub

	// Clock is the time source for the registry.
	Clock clock.Clock

	// Resolver resolves the backing component per tenant, or nil when
	// services are not backed by external components.
	Resolver ServiceNameResolver

	// Restrictions reports administrative restrictions, or nil to turn
	// restriction tracking off: no tenant is ever disabled.
	Restrictions RestrictionSource

	// Settings is the persisted configuration store, or nil when the
	// host persists nothing. Required when ServiceProperty is set.
	Settings settings.Store

	// ServiceProperty is the persisted property naming the backing
	// component, or "" when the service is not defined by one. A change
	// to it re-reconciles the tenant, and removal of the active package
	// clears it.
	ServiceProperty string

	// ExtraProperties lists additional persisted properties the host
	// wants routed to OnSettingsChanged.
	ExtraProperties []string

	// HoldServiceOnUpdate leaves a cached record untouched while its
	// backing package is updated. The default (false) evicts the record
	// when the update starts, so in-flight callers cannot use a service
	// backed by a package mid-update.
	HoldServiceOnUpdate bool

	// ResolveTenant maps an incoming tenant id to the canonical id that
	// keys the cache, or nil for the identity mapping. It is applied
	// exactly once, at every public entry point; the cache only ever
	// holds canonical ids.
	ResolveTenant func(id tenant.ID) tenant.ID

	// NewService constructs the record for a tenant, created already in
	// the given disabled state. It may be nil, or may return nil, in
	// which case the tenant has no service and nothing is cached.
	NewService func(id tenant.ID, disabled bool) Service

	// OnServiceEnabled is called after a record is added to the cache
	// not disabled, and again on every reconciliation that leaves the
	// record enabled. It must be cheap and idempotent. May be nil.
	OnServiceEnabled func(svc Service, id tenant.ID)

	// OnServiceRemoved is called after a record is evicted. May be nil.
	OnServiceRemoved func(svc Service, id tenant.ID)

	// OnSettingsChanged is called for changes to ExtraProperties.
	// May be nil.
	OnSettingsChanged func(id tenant.ID, property string)

	// Authorize guards the management surface. A nil Authorize means the
	// host exposes no management capability and every management call
	// fails with NotImplemented.
	Authorize func() error

	// MaxTemporaryDuration bounds SetTemporaryService. Zero means the
	// host did not configure one and SetTemporaryService fails with
	// NotImplemented.
	MaxTemporaryDuration time.Duration

	// Registerer, if set, has the registry's metrics collector
	// registered with it for the registry's lifetime.
	Registerer prometheus.Registerer
}

// Validate returns an error if the config is not usable.
func (config Config) Validate() error {
	if config.Hub == nil {
		return errors.NotValidf("nil Hub")
	}
	if config.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	if config.ServiceProperty != "" && config.Settings == nil {
		return errors.NotValidf("ServiceProperty without Settings")
	}
	return nil
}

// Registry is the tenant -> service record cache and its reconciliation
// engine. It implements worker.Worker; killing it detaches it from the
// event hub.
type Registry struct {
	tomb   tomb.Tomb
	config Config

	extraProperties set.Strings
	metrics         *Collector

	mu       sync.Mutex
	services map[tenant.ID]Service
	// restricted tracks the restriction flag per tenant; nil when
	// restriction tracking is off.
	restricted map[tenant.ID]bool
	// lastActivePackage remembers the package that was active when an
	// update-started event evicted its record, so update-finished can
	// still tell whether the finishing package was the active one.
	lastActivePackage string

	allowInstantBinding bool

	// Debug and Verbose widen dump and log output.
	Debug   bool
	Verbose bool
}

var _ worker.Worker = (*Registry)(nil)

// New returns a Registry attached to the config's hub and seeded from the
// config's restriction source.
func New(config Config) (*Registry, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	r := &Registry{
		config:          config,
		extraProperties: set.NewStrings(config.ExtraProperties...),
		metrics:         newCollector(),
		services:        make(map[tenant.ID]Service),
	}
	if config.Restrictions != nil {
		r.restricted = make(map[tenant.ID]bool)
		r.seedRestrictions()
	}
	if config.Resolver != nil {
		// The resolver only ever sees canonical ids (the management
		// surface resolves before delegating), so its callback must not
		// resolve again.
		config.Resolver.Notify(func(id tenant.ID, _ component.Name) {
			r.updateCanonical(id)
		})
	}

	unsubscribe := []func(){
		config.Hub.Subscribe(packages.UpdateStartedTopic, r.onPackageUpdateStarted),
		config.Hub.Subscribe(packages.UpdateFinishedTopic, r.onPackageUpdateFinished),
		config.Hub.Subscribe(packages.RemovedTopic, r.onPackageRemoved),
		config.Hub.Subscribe(settings.ChangeTopic, r.onSettingsChange),
	}
	if config.Restrictions != nil {
		unsubscribe = append(unsubscribe,
			config.Hub.Subscribe(tenants.RestrictionChangedTopic, r.onRestrictionChange))
	}
	if config.Registerer != nil {
		// Best effort; a duplicate registration only loses metrics.
		_ = config.Registerer.Register(r.metrics)
	}
	r.tomb.Go(func() error {
		<-r.tomb.Dying()
		for _, unsub := range unsubscribe {
			unsub()
		}
		if config.Registerer != nil {
			config.Registerer.Unregister(r.metrics)
		}
		return nil
	})
	return r, nil
}

// Kill is part of the worker.Worker interface.
func (r *Registry) Kill() {
	r.tomb.Kill(nil)
}

// Wait is part of the worker.Worker interface.
func (r *Registry) Wait() error {
	return r.tomb.Wait()
}

// resolve maps an incoming tenant id to the canonical cache key.
func (r *Registry) resolve(id tenant.ID) tenant.ID {
	if r.config.ResolveTenant == nil {
		return id
	}
	return r.config.ResolveTenant(id)
}

// GetOrCreate returns the tenant's cached record, constructing one if not
// present. A new record is created already in the tenant's current
// disabled state; the enabled hook fires only when it is not disabled.
// Returns nil when no factory is configured or it declines the tenant.
func (r *Registry) GetOrCreate(id tenant.ID) Service {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getOrCreateLocked(r.resolve(id))
}

func (r *Registry) getOrCreateLocked(id tenant.ID) Service {
	if svc, ok := r.services[id]; ok {
		return svc
	}
	if r.config.NewService == nil {
		return nil
	}
	disabled := r.disabledLocked(id)
	svc := r.config.NewService(id, disabled)
	if svc == nil {
		return nil
	}
	r.services[id] = svc
	r.metrics.serviceCreated(len(r.services))
	if !disabled {
		r.serviceEnabledLocked(svc, id)
	}
	return svc
}

// Peek returns the tenant's cached record, or nil if none is cached.
// It never constructs one.
func (r *Registry) Peek(id tenant.ID) Service {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.services[r.resolve(id)]
}

// Update reconciles the tenant: recomputes the disabled state, ensures a
// record exists, pushes the state into it, and either evicts the record
// (if it reports itself not enabled) or fires the enabled hook again.
func (r *Registry) Update(id tenant.ID) {
	r.updateCanonical(r.resolve(id))
}

// updateCanonical reconciles a tenant whose id is already canonical:
// internal paths that have resolved once must not resolve again.
func (r *Registry) updateCanonical(id tenant.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateLocked(id, r.disabledLocked(id))
}

// updateLocked is the single reconciliation path. Callers that already
// know the new disabled state (the restriction listener) pass it directly
// and skip the re-query.
func (r *Registry) updateLocked(id tenant.ID, disabled bool) Service {
	svc := r.getOrCreateLocked(id)
	if svc == nil {
		return nil
	}
	r.metrics.reconciled()
	svc.Update(disabled)
	if !svc.Enabled() {
		r.removeLocked(id)
	} else {
		r.serviceEnabledLocked(svc, id)
	}
	return svc
}

func (r *Registry) serviceEnabledLocked(svc Service, id tenant.ID) {
	if r.config.OnServiceEnabled != nil {
		r.config.OnServiceEnabled(svc, id)
	}
}

// Remove evicts the tenant's record, firing the removed hook, and returns
// it. Returns nil, with no hook call, if nothing was cached.
func (r *Registry) Remove(id tenant.ID) Service {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeLocked(r.resolve(id))
}

func (r *Registry) removeLocked(id tenant.ID) Service {
	svc, ok := r.services[id]
	if !ok {
		return nil
	}
	delete(r.services, id)
	r.metrics.serviceEvicted(len(r.services))
	if r.Debug {
		logger.Debugf("evicted service for tenant %s", id)
	}
	if r.config.OnServiceRemoved != nil {
		r.config.OnServiceRemoved(svc, id)
	}
	return svc
}

// VisitAll invokes visit once per cached record, under the lock, so the
// iteration sees a stable snapshot.
func (r *Registry) VisitAll(visit func(svc Service)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, svc := range r.services {
		visit(svc)
	}
}

// Clear drops every cached record without firing removal hooks. It is a
// bulk reset for test harnesses, not an eviction path.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services = make(map[tenant.ID]Service)
	r.metrics.cleared()
}

// Count returns the number of cached records.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.services)
}

// OnTenantUnlocked tells the registry a tenant became usable; the tenant
// is reconciled so its service starts in the right state.
func (r *Registry) OnTenantUnlocked(id tenant.ID) {
	r.Update(id)
}

// OnTenantRemoved tells the registry a tenant is gone; its record is
// evicted.
func (r *Registry) OnTenantRemoved(id tenant.ID) {
	r.Remove(id)
}
