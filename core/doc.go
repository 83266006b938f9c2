// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

/*
Package core holds the pure value types of the servicehub domain: tenant
identifiers and backing-component names.

Be aware of what should *not* go here. In particular:

  - nothing referencing the hub, the settings store, or any other
    collaborator: core types are plain data with validation and nothing
    else.
  - nothing concerned with event transport or serialization.

Subpackages of core may import each other, but never anything else from
this module, and must not hold mutable global state.
*/
package core
