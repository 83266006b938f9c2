// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package registry

import (
	"github.com/servicehub/servicehub/settings"
)

// onSettingsChange routes the configuration feed. The service-defining
// property and the universal setup-complete property re-reconcile the
// tenant; properties the host opted into go to the settings hook;
// everything else is unrelated traffic and is dropped.
func (r *Registry) onSettingsChange(_ string, data interface{}) {
	change, ok := data.(settings.Change)
	if !ok {
		logger.Errorf("programming error: settings topic carried %T", data)
		return
	}
	if r.Verbose {
		logger.Tracef("settings change: tenant=%s property=%s", change.Tenant, change.Property)
	}
	property := change.Property
	switch {
	case property == settings.SetupCompleteProperty,
		r.config.ServiceProperty != "" && property == r.config.ServiceProperty:
		r.Update(change.Tenant)
	case r.extraProperties.Contains(property):
		if r.config.OnSettingsChanged != nil {
			r.config.OnSettingsChanged(r.resolve(change.Tenant), property)
		}
	}
}
