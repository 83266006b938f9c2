// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package registry

import (
	"github.com/servicehub/servicehub/core/tenant"
	"github.com/servicehub/servicehub/pubsub/packages"
)

// The lifecycle monitor keeps the cache consistent with the backing
// component's owning package. Per tenant it is a small state machine:
// stable, until an update of the active package starts; back to stable
// when the update finishes or the package is removed.
//
// Eviction on update-started destroys the record, so by update-finished
// time the registry can no longer ask which package was active. The
// monitor retains that fact itself in lastActivePackage, cleared once the
// matching update-finished arrives.

// activePackageLocked returns the package owning the tenant's cached
// record's backing component, or "" when there is no record or the record
// has no component.
func (r *Registry) activePackageLocked(id tenant.ID) string {
	svc, ok := r.services[id]
	if !ok {
		return ""
	}
	return svc.Component().Package()
}

func (r *Registry) onPackageUpdateStarted(_ string, data interface{}) {
	event, ok := data.(packages.Update)
	if !ok {
		logger.Errorf("programming error: update-started topic carried %T", data)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.resolve(event.Tenant)
	active := r.activePackageLocked(id)
	if event.Package != active || active == "" {
		return
	}
	if r.config.HoldServiceOnUpdate {
		if r.Debug {
			logger.Debugf("holding service for tenant %s while package %s is updated", id, active)
		}
		return
	}
	if r.Debug {
		logger.Debugf("removing service for tenant %s because package %s is being updated", id, active)
	}
	r.lastActivePackage = active
	r.removeLocked(id)
}

func (r *Registry) onPackageUpdateFinished(_ string, data interface{}) {
	event, ok := data.(packages.Update)
	if !ok {
		logger.Errorf("programming error: update-finished topic carried %T", data)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.resolve(event.Tenant)
	active := r.activePackageLocked(id)
	if active == "" {
		active = r.lastActivePackage
		r.lastActivePackage = ""
	}
	if event.Package != active {
		// Some other package relevant to a dependency set may have
		// changed during the update window; each record reassesses.
		r.packageChangedLocked(event.Package)
	}
}

func (r *Registry) onPackageRemoved(_ string, data interface{}) {
	event, ok := data.(packages.Removed)
	if !ok {
		logger.Errorf("programming error: removed topic carried %T", data)
		return
	}
	id := r.resolve(event.Tenant)

	r.mu.Lock()
	svc, ok := r.services[id]
	removed := false
	if ok && !svc.Component().IsZero() && svc.Component().Package() == event.Package {
		r.removeLocked(id)
		removed = true
	}
	r.mu.Unlock()

	// The persisted name now points at a package that no longer exists;
	// reset it outside the lock, since the store republishes the change.
	if removed && r.config.ServiceProperty != "" {
		r.config.Settings.Unset(id, r.config.ServiceProperty)
	}
}

// HandleForceStop evaluates a force-stop of the given packages for the
// tenant. When commit is false and any package in the set is the tenant's
// active package, it returns true ("would affect") without mutating
// anything; with commit true the record is evicted. Packages that are not
// the active one are forwarded to every cached record for reassessment.
func (r *Registry) HandleForceStop(pkgs []string, id tenant.ID, commit bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	id = r.resolve(id)
	active := r.activePackageLocked(id)
	for _, pkg := range pkgs {
		if pkg == active && active != "" {
			if !commit {
				return true
			}
			r.removeLocked(id)
		} else {
			r.packageChangedLocked(pkg)
		}
	}
	return false
}

// packageChangedLocked forwards a generic package-touched notification to
// every cached record.
func (r *Registry) packageChangedLocked(pkg string) {
	for _, svc := range r.services {
		svc.PackageChanged(pkg)
	}
}
