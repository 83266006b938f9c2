// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package registry

import (
	"io"
	"time"

	"github.com/servicehub/servicehub/core/component"
	"github.com/servicehub/servicehub/core/tenant"
)

// Service is the per-tenant record cached by the Registry. Implementations
// hold the tenant-scoped business state; the registry only drives their
// enable/disable lifecycle.
//
// Every method is invoked with the registry lock held. Implementations
// must not call back into the registry from them, nor from any of the
// registry config hooks; doing so deadlocks.
type Service interface {
	// Update pushes the tenant's current disabled state into the record.
	Update(disabled bool)

	// Enabled reports the record's own view of whether it is usable,
	// consulted immediately after Update. A record reporting false is
	// evicted.
	Enabled() bool

	// Component returns the resolved backing component, or the zero Name
	// when the record is not backed by an external component.
	Component() component.Name

	// PackageChanged tells the record that a package possibly relevant to
	// its dependency set changed. The record decides relevance itself.
	PackageChanged(pkg string)
}

// Dumper is implemented by services that contribute detail to the
// registry's diagnostic dump.
type Dumper interface {
	Dump(w io.Writer)
}

// ServiceNameResolver resolves which external component backs a tenant's
// service, with support for a permanent default and a time-bounded
// temporary override.
//
// The resolver must fire the Notify callback from outside any lock that
// its mutating methods acquire: the callback re-enters the registry.
type ServiceNameResolver interface {
	// CurrentName returns the component backing the tenant's service,
	// or the zero Name when none resolves.
	CurrentName(id tenant.ID) component.Name

	// SetTemporaryName sets a time-bounded override. Validating the
	// duration against the registry's configured maximum is the caller's
	// responsibility.
	SetTemporaryName(id tenant.ID, name component.Name, duration time.Duration)

	// ResetTemporaryName clears any active override, reporting whether
	// one was active.
	ResetTemporaryName(id tenant.ID) bool

	// SetDefaultEnabled sets whether the default service resolves for
	// the tenant, reporting whether the value changed.
	SetDefaultEnabled(id tenant.ID, enabled bool) bool

	// DefaultEnabled reports whether the default service resolves.
	DefaultEnabled(id tenant.ID) bool

	// Notify registers the callback fired when a tenant's resolved name
	// changes, including on temporary override expiry.
	Notify(callback func(tenant.ID, component.Name))
}

// RestrictionSource reports administrative restrictions on tenants. A nil
// RestrictionSource in the registry config turns restriction tracking off
// entirely.
type RestrictionSource interface {
	// Tenants returns the tenants known at registry construction, used
	// to seed the restriction tracker.
	Tenants() []tenant.ID

	// Restricted reports whether the tenant is currently restricted.
	Restricted(id tenant.ID) bool
}
