// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package packages defines the topics and payloads of the external
// component-lifecycle feed. The host process publishes these when the
// platform's package manager reports changes; the registry's lifecycle
// monitor subscribes to them.
//
// Force-stop is deliberately not a topic: the caller needs a synchronous
// "would affect" reply, so it is exposed as a direct method on the registry.
package packages

import (
	"github.com/servicehub/servicehub/core/tenant"
)

const (
	// UpdateStartedTopic reports that an update of a package has begun.
	UpdateStartedTopic = "packages.update-started"

	// UpdateFinishedTopic reports that an update of a package completed.
	UpdateFinishedTopic = "packages.update-finished"

	// RemovedTopic reports that a package was removed entirely.
	RemovedTopic = "packages.removed"
)

// Update is the payload for UpdateStartedTopic and UpdateFinishedTopic.
type Update struct {
	Tenant  tenant.ID
	Package string
}

// Removed is the payload for RemovedTopic.
type Removed struct {
	Tenant  tenant.ID
	Package string
}
