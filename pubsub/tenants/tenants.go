// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package tenants defines the topics and payloads of the tenant
// administration feed.
package tenants

import (
	"github.com/servicehub/servicehub/core/tenant"
)

// RestrictionChangedTopic reports that a tenant's administrative
// restriction flag changed.
const RestrictionChangedTopic = "tenants.restriction-changed"

// RestrictionChange is the payload for RestrictionChangedTopic.
type RestrictionChange struct {
	Tenant     tenant.ID
	Restricted bool
}
