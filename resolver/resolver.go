// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package resolver provides the default implementation of the registry's
// ServiceNameResolver contract: which external component backs a tenant's
// service. The resolved name comes from a temporary override if one is
// active, otherwise from a persisted configuration property, otherwise
// from a static fallback.
//
// A temporary override is time-bounded. When it expires the resolver
// reverts to the default name and fires the changed callback exactly
// once; replacing or resetting an override stops its timer so a stale
// expiry can never fire.
package resolver

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"github.com/servicehub/servicehub/core/component"
	"github.com/servicehub/servicehub/core/tenant"
	"github.com/servicehub/servicehub/settings"
)

var logger = loggo.GetLogger("servicehub.resolver")

// Config holds the dependencies and configuration of a Resolver.
type Config struct {
	// Clock is used to arm temporary override expiry timers.
	Clock clock.Clock

	// Store, if set, is consulted with Property for the persisted
	// default component name.
	Store settings.Store

	// Property is the name of the persisted configuration property
	// holding the default component name, or "" when the default comes
	// only from Fallback.
	Property string

	// Fallback is the component name used when no persisted property is
	// set. It may be zero, in which case tenants without a persisted
	// name resolve to no component at all.
	Fallback component.Name
}

// Validate returns an error if the config is not usable.
func (config Config) Validate() error {
	if config.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	if config.Property != "" && config.Store == nil {
		return errors.NotValidf("Property without Store")
	}
	return nil
}

type override struct {
	name  component.Name
	timer clock.Timer
}

// Resolver resolves the backing component name per tenant.
type Resolver struct {
	config Config

	mu sync.Mutex
	// disabled holds the tenants whose default service is disabled.
	// Default-enabled is the normal state and has no entry.
	disabled  map[tenant.ID]bool
	overrides map[tenant.ID]*override
	notify    func(tenant.ID, component.Name)
}

// New returns a Resolver using the supplied config.
func New(config Config) (*Resolver, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Resolver{
		config:    config,
		disabled:  make(map[tenant.ID]bool),
		overrides: make(map[tenant.ID]*override),
	}, nil
}

// Notify registers the callback fired whenever the resolved name for a
// tenant changes. It is registered once, at registry construction, before
// any events can flow.
func (r *Resolver) Notify(callback func(tenant.ID, component.Name)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notify = callback
}

// CurrentName returns the component name currently backing the tenant's
// service, or the zero Name when none resolves.
func (r *Resolver) CurrentName(id tenant.ID) component.Name {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentLocked(id)
}

func (r *Resolver) currentLocked(id tenant.ID) component.Name {
	if ov, ok := r.overrides[id]; ok {
		return ov.name
	}
	return r.defaultLocked(id)
}

func (r *Resolver) defaultLocked(id tenant.ID) component.Name {
	if r.disabled[id] {
		return ""
	}
	if r.config.Property != "" {
		if value, ok := r.config.Store.Get(id, r.config.Property); ok {
			name, err := component.ParseName(value)
			if err != nil {
				logger.Warningf("ignoring malformed persisted name %q for tenant %s", value, id)
			} else {
				return name
			}
		}
	}
	return r.config.Fallback
}

// SetTemporaryName sets a time-bounded override for the tenant. Enforcing
// a maximum duration is the caller's responsibility; the registry's
// management surface rejects excessive durations before calling here.
// Any previous override is replaced and its timer stopped.
func (r *Resolver) SetTemporaryName(id tenant.ID, name component.Name, duration time.Duration) {
	r.mu.Lock()
	if old, ok := r.overrides[id]; ok {
		old.timer.Stop()
	}
	ov := &override{name: name}
	ov.timer = r.config.Clock.AfterFunc(duration, func() {
		r.expire(id, ov)
	})
	r.overrides[id] = ov
	notify := r.notify
	r.mu.Unlock()

	logger.Infof("temporary name for tenant %s set to %q for %v", id, name, duration)
	if notify != nil {
		notify(id, name)
	}
}

// expire reverts an override whose timer fired. The override identity
// check makes expiry exactly-once: if the override was replaced or reset
// after the timer fired but before we took the lock, it is not ours to
// revert.
func (r *Resolver) expire(id tenant.ID, ov *override) {
	r.mu.Lock()
	if r.overrides[id] != ov {
		r.mu.Unlock()
		return
	}
	delete(r.overrides, id)
	name := r.currentLocked(id)
	notify := r.notify
	r.mu.Unlock()

	logger.Infof("temporary name for tenant %s expired, reverting to %q", id, name)
	if notify != nil {
		notify(id, name)
	}
}

// ResetTemporaryName clears any active override, reporting whether one
// was active. The changed callback fires when it was.
func (r *Resolver) ResetTemporaryName(id tenant.ID) bool {
	r.mu.Lock()
	ov, ok := r.overrides[id]
	if !ok {
		r.mu.Unlock()
		return false
	}
	ov.timer.Stop()
	delete(r.overrides, id)
	name := r.currentLocked(id)
	notify := r.notify
	r.mu.Unlock()

	logger.Infof("temporary name for tenant %s reset", id)
	if notify != nil {
		notify(id, name)
	}
	return true
}

// SetDefaultEnabled sets whether the default service resolves for the
// tenant, reporting whether the value changed. Reconciling cached records
// after a change is the caller's job; no callback fires here.
func (r *Resolver) SetDefaultEnabled(id tenant.ID, enabled bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disabled[id] != enabled {
		// Already in the requested state.
		return false
	}
	if enabled {
		delete(r.disabled, id)
	} else {
		r.disabled[id] = true
	}
	return true
}

// DefaultEnabled reports whether the default service resolves for the
// tenant. Tenants start enabled.
func (r *Resolver) DefaultEnabled(id tenant.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.disabled[id]
}

// Dump writes a one-line summary, used by the registry's diagnostic dump.
func (r *Resolver) Dump(w io.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(w, "fallback=%q property=%q overrides=%d default-disabled=%d",
		r.config.Fallback, r.config.Property, len(r.overrides), len(r.disabled))
}
