// internal/tools/register.go

// Package tools wires every tool adapter and its result normalizer into
// the registry and aggregator.
package tools

import (
	"time"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/usecases"
	errx "reconflow/internal/platform/errors"
	"reconflow/internal/platform/httpclient"
	"reconflow/internal/platform/logx"
	"reconflow/internal/platform/registry"

	"reconflow/internal/tools/dnslookup"
	"reconflow/internal/tools/dorks"
	"reconflow/internal/tools/headers"
	"reconflow/internal/tools/portscan"
	"reconflow/internal/tools/screenshot"
	"reconflow/internal/tools/sslscan"
	"reconflow/internal/tools/subdomains"
	"reconflow/internal/tools/techdetect"
	"reconflow/internal/tools/whoislookup"
)

// Deps carries the shared infrastructure the tool adapters need.
type Deps struct {
	Logger    logx.Logger
	HTTP      *httpclient.Client
	Resolver  string
	OutputDir string
}

// RegisterAll registers every built-in tool and its normalizer. The
// registry is left unfrozen so callers can add tools before freezing.
func RegisterAll(reg *registry.ToolRegistry, agg *usecases.Aggregator, deps Deps) error {
	descriptors := []registry.Descriptor{
		{
			ID:             "dns",
			Adapter:        dnslookup.New(deps.Resolver, deps.Logger),
			DefaultTimeout: 15 * time.Second,
			RateClass:      "network",
			Idempotent:     true,
			Produces:       []domain.ArtifactType{domain.ArtifactIP},
		},
		{
			ID:             "whois",
			Adapter:        whoislookup.New(deps.Logger),
			DefaultTimeout: 20 * time.Second,
			RateClass:      "external",
			Idempotent:     true,
		},
		{
			ID:             "subdomains",
			Adapter:        subdomains.New(deps.HTTP, deps.Logger),
			DefaultTimeout: 45 * time.Second,
			RateClass:      "api",
			Idempotent:     true,
			Retryable:      func(err error) bool { return errx.Is(err, errx.ErrUnavailable) },
			Produces:       []domain.ArtifactType{domain.ArtifactSubdomain},
		},
		{
			ID:             "port_scan",
			Adapter:        portscan.New(deps.Logger),
			DefaultTimeout: 2 * time.Minute,
			RateClass:      "network",
			Idempotent:     true,
		},
		{
			ID:             "headers",
			Adapter:        headers.New(deps.HTTP, deps.Logger),
			DefaultTimeout: 30 * time.Second,
			RateClass:      "network",
			Idempotent:     true,
		},
		{
			ID:             "tech_detect",
			Adapter:        techdetect.New(deps.HTTP, deps.Logger),
			DefaultTimeout: 30 * time.Second,
			RateClass:      "network",
			Idempotent:     true,
		},
		{
			ID:             "ssl_scan",
			Adapter:        sslscan.New(deps.Logger),
			DefaultTimeout: 20 * time.Second,
			RateClass:      "network",
			Idempotent:     true,
			Produces:       []domain.ArtifactType{domain.ArtifactSubdomain},
		},
		{
			ID:             "dorks",
			Adapter:        dorks.New(deps.Logger),
			DefaultTimeout: 10 * time.Second,
			RateClass:      "api",
			Idempotent:     true,
		},
		{
			ID:             "screenshot",
			Adapter:        screenshot.New(deps.OutputDir, deps.Logger),
			DefaultTimeout: 90 * time.Second,
			RateClass:      "network",
			Idempotent:     false,
		},
	}

	for _, desc := range descriptors {
		if err := reg.Register(desc); err != nil {
			return err
		}
	}

	agg.RegisterNormalizer("dns", dnslookup.Normalize)
	agg.RegisterNormalizer("whois", whoislookup.Normalize)
	agg.RegisterNormalizer("subdomains", subdomains.Normalize)
	agg.RegisterNormalizer("port_scan", portscan.Normalize)
	agg.RegisterNormalizer("headers", headers.Normalize)
	agg.RegisterNormalizer("tech_detect", techdetect.Normalize)
	agg.RegisterNormalizer("ssl_scan", sslscan.Normalize)
	agg.RegisterNormalizer("dorks", dorks.Normalize)
	agg.RegisterNormalizer("screenshot", screenshot.Normalize)

	return nil
}
