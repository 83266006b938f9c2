// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package component defines the name of an external component that backs a
// tenant's service instance.
package component

import (
	"strings"

	"github.com/juju/errors"
)

// Name is the flattened "package/class" form of a component identity.
// The package part owns the component for lifecycle purposes: a package
// update or removal affects every component it owns.
//
// The zero Name means "no component resolved".
type Name string

// ParseName returns the Name for the given flattened string.
func ParseName(s string) (Name, error) {
	n := Name(s)
	if err := n.Validate(); err != nil {
		return "", errors.Trace(err)
	}
	return n, nil
}

// Validate returns an error if the name is not in "package/class" form.
// The zero Name is not valid; callers that allow an unresolved component
// should check IsZero first.
func (n Name) Validate() error {
	i := strings.IndexByte(string(n), '/')
	if i <= 0 || i == len(n)-1 {
		return errors.NotValidf("component name %q", string(n))
	}
	if strings.IndexByte(string(n[i+1:]), '/') >= 0 {
		return errors.NotValidf("component name %q", string(n))
	}
	return nil
}

// IsZero reports whether the name is unset.
func (n Name) IsZero() bool {
	return n == ""
}

// Package returns the owning package part of the name, or "" for the
// zero Name.
func (n Name) Package() string {
	if i := strings.IndexByte(string(n), '/'); i > 0 {
		return string(n[:i])
	}
	return ""
}

// Class returns the class part of the name, or "" for the zero Name.
func (n Name) Class() string {
	if i := strings.IndexByte(string(n), '/'); i >= 0 {
		return string(n[i+1:])
	}
	return ""
}

func (n Name) String() string {
	return string(n)
}
