// Copyright 2026 Canonical Ltd.
// Licensed under the LGPLv3, see LICENCE file for details.

package testhelpers

import (
	"time"
)

// ShortWait is how long to block waiting for something that should not
// happen, before deciding it really did not happen. Tests that use it
// genuinely wait this long.
const ShortWait = 50 * time.Millisecond

// LongWait is used when something is expected to have already happened, or
// to happen almost immediately. The generous bound exists so that a slow
// test machine does not produce spurious failures; a passing test never
// waits anywhere near this long.
const LongWait = 10 * time.Second
