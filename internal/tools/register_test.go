// internal/tools/register_test.go
package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/usecases"
	"reconflow/internal/platform/httpclient"
	"reconflow/internal/platform/logx"
	"reconflow/internal/platform/registry"
)

func testDeps(t *testing.T) Deps {
	t.Helper()
	logger := logx.NewSilent()
	return Deps{
		Logger:    logger,
		HTTP:      httpclient.New(httpclient.DefaultConfig(), logger),
		Resolver:  "8.8.8.8:53",
		OutputDir: t.TempDir(),
	}
}

func TestRegisterAll(t *testing.T) {
	logger := logx.NewSilent()
	reg := registry.NewToolRegistry(logger)
	agg := usecases.NewAggregator(logger)

	require.NoError(t, RegisterAll(reg, agg, testDeps(t)))

	want := []string{
		"dns", "dorks", "headers", "port_scan", "screenshot",
		"ssl_scan", "subdomains", "tech_detect", "whois",
	}
	assert.Equal(t, want, reg.List())
}

func TestRegisterAllCoversBuiltinWorkflows(t *testing.T) {
	logger := logx.NewSilent()
	reg := registry.NewToolRegistry(logger)
	agg := usecases.NewAggregator(logger)

	require.NoError(t, RegisterAll(reg, agg, testDeps(t)))

	// every tool a built-in workflow references must be registered
	for _, name := range []domain.WorkflowName{
		domain.WorkflowQuick, domain.WorkflowStandard, domain.WorkflowDeep,
		domain.WorkflowTargeted, domain.WorkflowStealth, domain.WorkflowComprehensive,
	} {
		policy, err := domain.BuiltinPolicy(name)
		require.NoError(t, err, "builtin %s", name)
		for _, tool := range policy.ToolNames() {
			assert.True(t, reg.Has(tool), "workflow %s references unregistered tool %s", name, tool)
		}
	}
}

func TestRegisterAllDescriptors(t *testing.T) {
	logger := logx.NewSilent()
	reg := registry.NewToolRegistry(logger)
	agg := usecases.NewAggregator(logger)

	require.NoError(t, RegisterAll(reg, agg, testDeps(t)))

	screenshot, err := reg.Resolve("screenshot")
	require.NoError(t, err)
	assert.False(t, screenshot.Idempotent, "screenshots must not be served from cache")

	subdomains, err := reg.Resolve("subdomains")
	require.NoError(t, err)
	assert.True(t, subdomains.Idempotent)
	assert.Equal(t, "api", subdomains.RateClass)
	assert.Contains(t, subdomains.Produces, domain.ArtifactSubdomain)
}
