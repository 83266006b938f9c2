// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package centralhub constructs the process-wide event hub. The restriction,
// package-lifecycle and settings feeds all publish through it, and the
// registry subscribes to it at construction.
package centralhub

import (
	"github.com/juju/loggo/v2"
	"github.com/juju/pubsub/v2"
)

// New returns a new simple hub for in-process event dispatch. Subscriber
// callbacks run on goroutines owned by the hub, serialized per subscriber,
// so publishing never runs a callback on the publisher's stack.
func New() *pubsub.SimpleHub {
	return pubsub.NewSimpleHub(&pubsub.SimpleHubConfig{
		Logger: loggo.GetLogger("servicehub.centralhub"),
	})
}
