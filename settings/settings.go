// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package settings defines the persisted per-tenant configuration contract
// consumed by the registry, together with the change-notification payload
// published whenever a property is mutated.
//
// The storage mechanism itself belongs to the host process; the memory
// store here is the reference implementation used by hosts that keep
// configuration in process, and by the test suites.
package settings

import (
	"github.com/servicehub/servicehub/core/tenant"
)

// SetupCompleteProperty is the universal property reporting whether a
// tenant has finished initial setup. Every registry re-reconciles a
// tenant when it changes.
const SetupCompleteProperty = "tenant_setup_complete"

// ChangeTopic carries a Change for every property mutation.
const ChangeTopic = "settings.change"

// Change is the payload for ChangeTopic.
type Change struct {
	Tenant   tenant.ID
	Property string
}

// Store provides read and write access to persisted per-tenant
// configuration properties. Implementations must be safe for concurrent
// use and must publish a Change on ChangeTopic for every mutation.
type Store interface {
	// Get returns the value of the property for the tenant, and whether
	// the property is set at all.
	Get(id tenant.ID, property string) (string, bool)

	// Set stores the value of the property for the tenant.
	Set(id tenant.ID, property, value string)

	// Unset removes the property for the tenant. Unsetting an absent
	// property is a no-op and publishes nothing.
	Unset(id tenant.ID, property string)
}
