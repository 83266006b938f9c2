// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package registry

import (
	"time"

	"github.com/juju/errors"

	"github.com/servicehub/servicehub/core/component"
	"github.com/servicehub/servicehub/core/tenant"
)

// The management surface is driven by operator tooling. Every operation
// first consults the host's authorization capability; errors propagate to
// the immediate caller and are never retried.
//
// Operations that end up firing the resolver's changed callback are
// sequenced as: mutate the cache under the lock, release it, then call
// the resolver. The callback re-enters the registry, so calling the
// resolver under the lock would deadlock.

func (r *Registry) authorize() error {
	if r.config.Authorize == nil {
		return errors.NotImplementedf("management authorization")
	}
	return errors.Trace(r.config.Authorize())
}

// AllowInstantBinding reports whether the registry's services may bind to
// instant (ephemeral, not fully installed) components.
func (r *Registry) AllowInstantBinding() (bool, error) {
	if err := r.authorize(); err != nil {
		return false, errors.Trace(err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.allowInstantBinding, nil
}

// SetAllowInstantBinding sets whether services may bind to instant
// components.
func (r *Registry) SetAllowInstantBinding(allow bool) error {
	logger.Infof("SetAllowInstantBinding(): %v", allow)
	if err := r.authorize(); err != nil {
		return errors.Trace(err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allowInstantBinding = allow
	return nil
}

// InstantBindingAllowed is the unauthenticated accessor used by service
// records themselves when binding; it is not part of the management
// surface.
func (r *Registry) InstantBindingAllowed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.allowInstantBinding
}

// SetTemporaryService sets a time-bounded backing component override for
// the tenant. The duration must not exceed the configured maximum. Any
// cached record is evicted so the next access binds the override.
func (r *Registry) SetTemporaryService(id tenant.ID, name component.Name, duration time.Duration) error {
	logger.Infof("SetTemporaryService(%s) to %q for %v", id, name, duration)
	if err := r.authorize(); err != nil {
		return errors.Trace(err)
	}
	if r.config.Resolver == nil {
		return errors.NotSupportedf("temporary service without a resolver")
	}
	max := r.config.MaxTemporaryDuration
	if max == 0 {
		return errors.NotImplementedf("maximum temporary service duration")
	}
	if err := name.Validate(); err != nil {
		return errors.Trace(err)
	}
	if duration > max {
		return errors.NotValidf("duration %v exceeding maximum %v", duration, max)
	}

	canonical := r.resolve(id)
	r.mu.Lock()
	r.removeLocked(canonical)
	r.mu.Unlock()

	r.config.Resolver.SetTemporaryName(canonical, name, duration)
	return nil
}

// ResetTemporaryService clears any temporary override for the tenant,
// reverting to the default backing component.
func (r *Registry) ResetTemporaryService(id tenant.ID) error {
	logger.Infof("ResetTemporaryService(): %s", id)
	if err := r.authorize(); err != nil {
		return errors.Trace(err)
	}
	if r.config.Resolver == nil {
		return errors.NotSupportedf("temporary service without a resolver")
	}
	r.config.Resolver.ResetTemporaryName(r.resolve(id))
	return nil
}

// SetDefaultServiceEnabled sets whether the tenant's default service is
// used, and reconciles the tenant so record construction or eviction
// happens immediately rather than on next access.
func (r *Registry) SetDefaultServiceEnabled(id tenant.ID, enabled bool) error {
	logger.Infof("SetDefaultServiceEnabled() for tenant %s: %v", id, enabled)
	if err := r.authorize(); err != nil {
		return errors.Trace(err)
	}
	if r.config.Resolver == nil {
		return errors.NotSupportedf("default service without a resolver")
	}

	canonical := r.resolve(id)
	if !r.config.Resolver.SetDefaultEnabled(canonical, enabled) {
		logger.Debugf("default service for tenant %s already enabled=%v", canonical, enabled)
		return nil
	}
	r.mu.Lock()
	r.removeLocked(canonical)
	r.updateLocked(canonical, r.disabledLocked(canonical))
	r.mu.Unlock()
	return nil
}

// IsDefaultServiceEnabled reports whether the tenant's default service is
// used.
func (r *Registry) IsDefaultServiceEnabled(id tenant.ID) (bool, error) {
	if err := r.authorize(); err != nil {
		return false, errors.Trace(err)
	}
	if r.config.Resolver == nil {
		return false, errors.NotSupportedf("default service without a resolver")
	}
	return r.config.Resolver.DefaultEnabled(r.resolve(id)), nil
}
