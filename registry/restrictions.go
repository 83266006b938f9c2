// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package registry

import (
	"github.com/servicehub/servicehub/core/tenant"
	"github.com/servicehub/servicehub/pubsub/tenants"
)

// seedRestrictions records which of the currently known tenants are
// restricted. Only restricted tenants get an entry; absence means not
// restricted.
func (r *Registry) seedRestrictions() {
	source := r.config.Restrictions
	for _, id := range source.Tenants() {
		if source.Restricted(id) {
			canonical := r.resolve(id)
			logger.Infof("tenant %s disabled by restriction at startup", canonical)
			r.restricted[canonical] = true
		}
	}
}

// disabledLocked reports whether the tenant's service is administratively
// disabled. Always false when restriction tracking is off.
func (r *Registry) disabledLocked(id tenant.ID) bool {
	if r.restricted == nil {
		return false
	}
	return r.restricted[id]
}

// onRestrictionChange handles the restriction feed. An unchanged value is
// a no-op; a changed one is stored and the tenant reconciled with the
// known new value, skipping the re-query.
func (r *Registry) onRestrictionChange(_ string, data interface{}) {
	change, ok := data.(tenants.RestrictionChange)
	if !ok {
		logger.Errorf("programming error: restriction topic carried %T", data)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.resolve(change.Tenant)
	if r.restricted[id] == change.Restricted {
		if r.Debug {
			logger.Debugf("restriction did not change for tenant %s", id)
		}
		return
	}
	logger.Infof("updating tenant %s: disabled=%v", id, change.Restricted)
	r.restricted[id] = change.Restricted
	r.updateLocked(id, change.Restricted)
}
