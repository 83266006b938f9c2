// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package tenant defines the identity of a service scope. A tenant owns at
// most one cached service record in a registry.
package tenant

import (
	"strconv"

	"github.com/juju/errors"
)

// ID identifies a tenant. IDs are small non-negative integers assigned by
// the host process; the registry treats them as opaque keys.
type ID int

// Validate returns an error if the ID is not a usable registry key.
func (id ID) Validate() error {
	if id < 0 {
		return errors.NotValidf("tenant id %d", id)
	}
	return nil
}

// String is primarily for logging and dump output.
func (id ID) String() string {
	return strconv.Itoa(int(id))
}
