// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package resolver_test

import (
	"bytes"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/servicehub/servicehub/core/component"
	"github.com/servicehub/servicehub/core/tenant"
	"github.com/servicehub/servicehub/internal/testhelpers"
	"github.com/servicehub/servicehub/pubsub/centralhub"
	"github.com/servicehub/servicehub/resolver"
	"github.com/servicehub/servicehub/settings"
)

type ResolverSuite struct {
	testing.IsolationSuite

	clock   *testclock.Clock
	store   *settings.MemoryStore
	changes chan change
}

var _ = gc.Suite(&ResolverSuite{})

type change struct {
	tenant tenant.ID
	name   component.Name
}

const fallbackName = component.Name("com.example.default/Service")

func (s *ResolverSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.clock = testclock.NewClock(time.Time{})
	s.store = settings.NewMemoryStore(centralhub.New())
	s.changes = make(chan change, 10)
}

func (s *ResolverSuite) newResolver(c *gc.C) *resolver.Resolver {
	r, err := resolver.New(resolver.Config{
		Clock:    s.clock,
		Store:    s.store,
		Property: "backing_service",
		Fallback: fallbackName,
	})
	c.Assert(err, jc.ErrorIsNil)
	r.Notify(func(id tenant.ID, name component.Name) {
		s.changes <- change{id, name}
	})
	return r
}

func (s *ResolverSuite) waitChange(c *gc.C) change {
	select {
	case ch := <-s.changes:
		return ch
	case <-time.After(testhelpers.LongWait):
		c.Fatal("no change notification")
	}
	panic("unreachable")
}

func (s *ResolverSuite) assertNoChange(c *gc.C) {
	select {
	case ch := <-s.changes:
		c.Fatalf("unexpected change notification %v", ch)
	case <-time.After(testhelpers.ShortWait):
	}
}

func (s *ResolverSuite) TestConfigValidate(c *gc.C) {
	_, err := resolver.New(resolver.Config{})
	c.Check(err, jc.Satisfies, errors.IsNotValid)
	c.Check(err, gc.ErrorMatches, "nil Clock not valid")

	_, err = resolver.New(resolver.Config{
		Clock:    s.clock,
		Property: "backing_service",
	})
	c.Check(err, gc.ErrorMatches, "Property without Store not valid")
}

func (s *ResolverSuite) TestCurrentNameFallback(c *gc.C) {
	r := s.newResolver(c)
	c.Check(r.CurrentName(5), gc.Equals, fallbackName)
}

func (s *ResolverSuite) TestCurrentNameFromStore(c *gc.C) {
	r := s.newResolver(c)
	s.store.Set(5, "backing_service", "com.example.other/Service")
	c.Check(r.CurrentName(5), gc.Equals, component.Name("com.example.other/Service"))
	// Other tenants still resolve the fallback.
	c.Check(r.CurrentName(6), gc.Equals, fallbackName)
}

func (s *ResolverSuite) TestCurrentNameMalformedStoreValue(c *gc.C) {
	r := s.newResolver(c)
	s.store.Set(5, "backing_service", "not-a-component-name")
	c.Check(r.CurrentName(5), gc.Equals, fallbackName)
}

func (s *ResolverSuite) TestSetTemporaryName(c *gc.C) {
	r := s.newResolver(c)
	r.SetTemporaryName(5, "com.example.temp/Service", 5*time.Second)

	c.Check(r.CurrentName(5), gc.Equals, component.Name("com.example.temp/Service"))
	ch := s.waitChange(c)
	c.Check(ch, gc.Equals, change{5, "com.example.temp/Service"})
}

func (s *ResolverSuite) TestTemporaryNameExpires(c *gc.C) {
	r := s.newResolver(c)
	r.SetTemporaryName(5, "com.example.temp/Service", 5*time.Second)
	s.waitChange(c)

	err := s.clock.WaitAdvance(5*time.Second, testhelpers.LongWait, 1)
	c.Assert(err, jc.ErrorIsNil)

	ch := s.waitChange(c)
	c.Check(ch, gc.Equals, change{5, fallbackName})
	c.Check(r.CurrentName(5), gc.Equals, fallbackName)
	// Exactly one revert notification.
	s.assertNoChange(c)
}

func (s *ResolverSuite) TestReplacingOverrideStopsOldTimer(c *gc.C) {
	r := s.newResolver(c)
	r.SetTemporaryName(5, "com.example.one/Service", 5*time.Second)
	s.waitChange(c)
	r.SetTemporaryName(5, "com.example.two/Service", time.Minute)
	s.waitChange(c)

	// The first override's deadline passes; only the second is live.
	err := s.clock.WaitAdvance(5*time.Second, testhelpers.LongWait, 1)
	c.Assert(err, jc.ErrorIsNil)
	s.assertNoChange(c)
	c.Check(r.CurrentName(5), gc.Equals, component.Name("com.example.two/Service"))

	err = s.clock.WaitAdvance(55*time.Second, testhelpers.LongWait, 1)
	c.Assert(err, jc.ErrorIsNil)
	ch := s.waitChange(c)
	c.Check(ch, gc.Equals, change{5, fallbackName})
}

func (s *ResolverSuite) TestResetTemporaryName(c *gc.C) {
	r := s.newResolver(c)
	r.SetTemporaryName(5, "com.example.temp/Service", 5*time.Second)
	s.waitChange(c)

	c.Check(r.ResetTemporaryName(5), jc.IsTrue)
	ch := s.waitChange(c)
	c.Check(ch, gc.Equals, change{5, fallbackName})

	// The stopped timer must not fire a second notification.
	s.clock.Advance(5 * time.Second)
	s.assertNoChange(c)
}

func (s *ResolverSuite) TestResetTemporaryNameInactive(c *gc.C) {
	r := s.newResolver(c)
	c.Check(r.ResetTemporaryName(5), jc.IsFalse)
	s.assertNoChange(c)
}

func (s *ResolverSuite) TestDefaultEnabled(c *gc.C) {
	r := s.newResolver(c)
	c.Check(r.DefaultEnabled(5), jc.IsTrue)

	c.Check(r.SetDefaultEnabled(5, false), jc.IsTrue)
	c.Check(r.DefaultEnabled(5), jc.IsFalse)
	c.Check(r.CurrentName(5), gc.Equals, component.Name(""))

	// Setting the same state again reports no change.
	c.Check(r.SetDefaultEnabled(5, false), jc.IsFalse)

	c.Check(r.SetDefaultEnabled(5, true), jc.IsTrue)
	c.Check(r.CurrentName(5), gc.Equals, fallbackName)
}

func (s *ResolverSuite) TestDefaultDisabledOverrideStillResolves(c *gc.C) {
	r := s.newResolver(c)
	r.SetDefaultEnabled(5, false)
	r.SetTemporaryName(5, "com.example.temp/Service", 5*time.Second)
	s.waitChange(c)

	c.Check(r.CurrentName(5), gc.Equals, component.Name("com.example.temp/Service"))

	// On expiry the disabled default resolves to nothing.
	err := s.clock.WaitAdvance(5*time.Second, testhelpers.LongWait, 1)
	c.Assert(err, jc.ErrorIsNil)
	ch := s.waitChange(c)
	c.Check(ch, gc.Equals, change{5, ""})
}

func (s *ResolverSuite) TestDump(c *gc.C) {
	r := s.newResolver(c)
	r.SetTemporaryName(5, "com.example.temp/Service", 5*time.Second)
	s.waitChange(c)

	var buf bytes.Buffer
	r.Dump(&buf)
	c.Check(buf.String(), gc.Matches, `fallback=.* property="backing_service" overrides=1 default-disabled=0`)
}
