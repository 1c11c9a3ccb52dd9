// internal/platform/registry/tool_registry_test.go
package registry

import (
	"context"
	"testing"
	"time"

	"reconflow/internal/core/ports"
	errx "reconflow/internal/platform/errors"
	"reconflow/internal/platform/logx"
	"reconflow/internal/testutil"
)

type fakeAdapter struct {
	name   string
	closed bool
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) Run(ctx context.Context, req ports.ToolRequest) (*ports.ToolResult, error) {
	return &ports.ToolResult{Tool: f.name, Host: req.Host}, nil
}

func (f *fakeAdapter) Close() error {
	f.closed = true
	return nil
}

func newTestRegistry() *ToolRegistry {
	return NewToolRegistry(logx.NewSilent())
}

func TestRegisterAndResolve(t *testing.T) {
	reg := newTestRegistry()

	err := reg.Register(Descriptor{
		ID:        "dns",
		Adapter:   &fakeAdapter{name: "dns"},
		RateClass: "network",
	})
	testutil.AssertNoError(t, err)

	desc, err := reg.Resolve("dns")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, "dns", desc.ID)
	testutil.AssertEqual(t, "network", desc.RateClass)
	// default timeout applied
	testutil.AssertEqual(t, 30*time.Second, desc.DefaultTimeout)
}

func TestResolveUnknownTool(t *testing.T) {
	reg := newTestRegistry()

	_, err := reg.Resolve("ghost")
	testutil.AssertError(t, err)
	testutil.AssertTrue(t, errx.Is(err, errx.ErrUnknownTool))
}

func TestRegisterValidation(t *testing.T) {
	reg := newTestRegistry()

	t.Run("empty id", func(t *testing.T) {
		err := reg.Register(Descriptor{Adapter: &fakeAdapter{}})
		testutil.AssertError(t, err)
	})

	t.Run("nil adapter", func(t *testing.T) {
		err := reg.Register(Descriptor{ID: "dns"})
		testutil.AssertError(t, err)
	})

	t.Run("duplicate id", func(t *testing.T) {
		testutil.AssertNoError(t, reg.Register(Descriptor{ID: "dns", Adapter: &fakeAdapter{name: "dns"}}))
		err := reg.Register(Descriptor{ID: "dns", Adapter: &fakeAdapter{name: "dns"}})
		testutil.AssertError(t, err)
	})
}

func TestFreezeRejectsRegistration(t *testing.T) {
	reg := newTestRegistry()
	testutil.AssertNoError(t, reg.Register(Descriptor{ID: "dns", Adapter: &fakeAdapter{name: "dns"}}))

	reg.Freeze()

	err := reg.Register(Descriptor{ID: "whois", Adapter: &fakeAdapter{name: "whois"}})
	testutil.AssertError(t, err)
	testutil.AssertTrue(t, errx.Is(err, errx.ErrConfiguration))
	testutil.AssertTrue(t, reg.Has("dns"))
	testutil.AssertFalse(t, reg.Has("whois"))
}

func TestListIsSorted(t *testing.T) {
	reg := newTestRegistry()
	for _, id := range []string{"whois", "dns", "port_scan"} {
		testutil.AssertNoError(t, reg.Register(Descriptor{ID: id, Adapter: &fakeAdapter{name: id}}))
	}

	ids := reg.List()
	testutil.AssertEqual(t, 3, len(ids))
	testutil.AssertEqual(t, "dns", ids[0])
	testutil.AssertEqual(t, "port_scan", ids[1])
	testutil.AssertEqual(t, "whois", ids[2])
}

func TestCloseReleasesAdapters(t *testing.T) {
	reg := newTestRegistry()
	adapter := &fakeAdapter{name: "screenshot"}
	testutil.AssertNoError(t, reg.Register(Descriptor{ID: "screenshot", Adapter: adapter}))

	testutil.AssertNoError(t, reg.Close())
	testutil.AssertTrue(t, adapter.closed)
}
