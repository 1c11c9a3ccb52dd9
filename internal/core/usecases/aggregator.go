// internal/core/usecases/aggregator.go
package usecases

import (
	"sync"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
	"reconflow/internal/platform/logx"
)

// Normalizer converts one tool's raw result into findings. Normalizers are
// pure functions registered alongside the tool adapters.
type Normalizer func(res *ports.ToolResult) ([]domain.Finding, error)

// Aggregator collects tool results across a run, normalizes them into
// findings and deduplicates repeated observations. A result the normalizer
// cannot parse becomes a malformed-result finding instead of being dropped.
type Aggregator struct {
	mu          sync.Mutex
	normalizers map[string]Normalizer
	findings    map[string]domain.Finding
	order       []string
	logger      logx.Logger
}

// NewAggregator creates an empty aggregator.
func NewAggregator(logger logx.Logger) *Aggregator {
	if logger == nil {
		logger = logx.NewSilent()
	}
	return &Aggregator{
		normalizers: make(map[string]Normalizer),
		findings:    make(map[string]domain.Finding),
		logger:      logger.With("component", "aggregator"),
	}
}

// RegisterNormalizer binds a normalizer to a tool identifier.
func (a *Aggregator) RegisterNormalizer(tool string, n Normalizer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.normalizers[tool] = n
}

// Reset discards the collected findings while keeping the registered
// normalizers, so one aggregator can serve consecutive runs.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.findings = make(map[string]domain.Finding)
	a.order = nil
}

// Ingest normalizes one tool result into the finding set. Returns the
// number of findings that were new.
func (a *Aggregator) Ingest(res *ports.ToolResult) int {
	if res == nil {
		return 0
	}

	a.mu.Lock()
	normalizer, ok := a.normalizers[res.Tool]
	a.mu.Unlock()

	var found []domain.Finding
	if !ok {
		found = []domain.Finding{domain.NewMalformedFinding(res.Tool, res.Host, res.Data, "no normalizer registered")}
	} else {
		var err error
		found, err = normalizer(res)
		if err != nil {
			a.logger.Warn("normalization failed",
				"tool", res.Tool,
				"host", res.Host,
				"error", err.Error(),
			)
			found = []domain.Finding{domain.NewMalformedFinding(res.Tool, res.Host, res.Data, err.Error())}
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	added := 0
	for _, f := range found {
		if !f.Severity.IsValid() || f.Tool == "" {
			f = domain.NewMalformedFinding(res.Tool, res.Host, f, "invalid finding shape")
		}
		key := f.Key()
		if _, exists := a.findings[key]; exists {
			continue
		}
		a.findings[key] = f
		a.order = append(a.order, key)
		added++
	}
	return added
}

// Findings returns the deduplicated findings in ingestion order.
func (a *Aggregator) Findings() []domain.Finding {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]domain.Finding, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, a.findings[key])
	}
	return out
}

// Count returns how many distinct findings have been collected.
func (a *Aggregator) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.findings)
}
