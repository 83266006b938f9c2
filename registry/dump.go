// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package registry

import (
	"fmt"
	"io"
	"sort"

	"github.com/servicehub/servicehub/core/tenant"
)

// Dump writes a free-form textual report of the registry state: flags,
// policy, resolver summary, restriction snapshot and the cached records.
// The format is for humans reading diagnostics, not a parsed protocol.
func (r *Registry) Dump(w io.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(w, "Debug: %v Verbose: %v\n", r.Debug, r.Verbose)
	fmt.Fprintf(w, "Hold service on package update: %v\n", r.config.HoldServiceOnUpdate)
	fmt.Fprintf(w, "Last active package on update: %q\n", r.lastActivePackage)
	fmt.Fprintf(w, "Allow instant binding: %v\n", r.allowInstantBinding)
	if r.config.ServiceProperty != "" {
		fmt.Fprintf(w, "Service property: %s\n", r.config.ServiceProperty)
	}

	if dumper, ok := r.config.Resolver.(Dumper); ok {
		fmt.Fprintf(w, "Name resolver: ")
		dumper.Dump(w)
		fmt.Fprintln(w)
	}

	if r.restricted == nil {
		fmt.Fprintf(w, "Restriction tracking: off\n")
	} else {
		fmt.Fprintf(w, "Tenants disabled by restriction: %v\n", sortedTenants(r.restricted))
	}

	if len(r.services) == 0 {
		fmt.Fprintf(w, "Cached services: none\n")
		return
	}
	fmt.Fprintf(w, "Cached services: %d\n", len(r.services))
	ids := make([]tenant.ID, 0, len(r.services))
	for id := range r.services {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		svc := r.services[id]
		fmt.Fprintf(w, "  Tenant %s: component=%q\n", id, svc.Component())
		if dumper, ok := svc.(Dumper); ok {
			fmt.Fprintf(w, "    ")
			dumper.Dump(w)
			fmt.Fprintln(w)
		}
	}
}

func sortedTenants(m map[tenant.ID]bool) []tenant.ID {
	ids := make([]tenant.ID, 0, len(m))
	for id, restricted := range m {
		if restricted {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
