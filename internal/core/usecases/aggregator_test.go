// internal/core/usecases/aggregator_test.go
package usecases

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
	"reconflow/internal/platform/logx"
)

func portResult(host string, port int) *ports.ToolResult {
	return &ports.ToolResult{
		Tool: "port_scan",
		Host: host,
		Data: map[string]interface{}{"port": port},
	}
}

func TestAggregatorIngestsAndDeduplicates(t *testing.T) {
	agg := NewAggregator(logx.NewSilent())
	agg.RegisterNormalizer("port_scan", stubNormalizer(domain.CategoryPort, domain.SeverityMedium))

	assert.Equal(t, 1, agg.Ingest(portResult("example.com", 443)))
	// identical observation from a repeated run dedupes away
	assert.Equal(t, 0, agg.Ingest(portResult("example.com", 443)))
	// a different payload is a new finding
	assert.Equal(t, 1, agg.Ingest(portResult("example.com", 8080)))

	assert.Equal(t, 2, agg.Count())
}

func TestAggregatorDedupeIsToolScoped(t *testing.T) {
	agg := NewAggregator(logx.NewSilent())
	agg.RegisterNormalizer("port_scan", stubNormalizer(domain.CategoryPort, domain.SeverityMedium))
	agg.RegisterNormalizer("ssl_scan", stubNormalizer(domain.CategoryPort, domain.SeverityMedium))

	agg.Ingest(portResult("example.com", 443))
	res := portResult("example.com", 443)
	res.Tool = "ssl_scan"
	agg.Ingest(res)

	// same category and payload but different source tool
	assert.Equal(t, 2, agg.Count())
}

func TestAggregatorNormalizerErrorYieldsMalformedFinding(t *testing.T) {
	agg := NewAggregator(logx.NewSilent())
	agg.RegisterNormalizer("dns", func(res *ports.ToolResult) ([]domain.Finding, error) {
		return nil, errors.New("bad shape")
	})

	assert.Equal(t, 1, agg.Ingest(&ports.ToolResult{Tool: "dns", Host: "example.com"}))

	findings := agg.Findings()
	assert.Len(t, findings, 1)
	assert.Equal(t, domain.CategoryMalformed, findings[0].Category)
	assert.Contains(t, findings[0].Description, "bad shape")
}

func TestAggregatorMissingNormalizer(t *testing.T) {
	agg := NewAggregator(logx.NewSilent())

	assert.Equal(t, 1, agg.Ingest(&ports.ToolResult{Tool: "mystery", Host: "example.com"}))
	findings := agg.Findings()
	assert.Equal(t, domain.CategoryMalformed, findings[0].Category)
}

func TestAggregatorNilResult(t *testing.T) {
	agg := NewAggregator(logx.NewSilent())
	assert.Equal(t, 0, agg.Ingest(nil))
}

func TestAggregatorConcurrentIngest(t *testing.T) {
	agg := NewAggregator(logx.NewSilent())
	agg.RegisterNormalizer("port_scan", stubNormalizer(domain.CategoryPort, domain.SeverityLow))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(port int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				agg.Ingest(portResult("example.com", port))
			}
		}(1000 + i)
	}
	wg.Wait()

	assert.Equal(t, 8, agg.Count())
}

func TestAggregatorResetClearsFindingsKeepsNormalizers(t *testing.T) {
	agg := NewAggregator(logx.NewSilent())
	agg.RegisterNormalizer("port_scan", stubNormalizer(domain.CategoryPort, domain.SeverityMedium))

	assert.Equal(t, 1, agg.Ingest(portResult("example.com", 443)))
	agg.Reset()
	assert.Equal(t, 0, agg.Count())

	// Normalizers survive, and dedupe state is gone: the same observation
	// counts as a fresh finding.
	assert.Equal(t, 1, agg.Ingest(portResult("example.com", 443)))
	assert.Equal(t, 1, agg.Count())
}
