// internal/core/domain/target.go
package domain

import (
	"fmt"
	"sort"
	"sync"

	"reconflow/internal/platform/validator"
)

// Target is the host under reconnaissance. The root identifier is fixed at
// construction; the artifact set grows as stages complete. Artifacts are
// append-only: values are deduplicated by their normalized form and never
// removed.
type Target struct {
	// Root is the normalized target identifier (domain or IP)
	Root string

	// IsIP indicates the root is an IP address rather than a domain
	IsIP bool

	mu        sync.RWMutex
	artifacts map[ArtifactType]map[string]struct{}
}

// NewTarget creates a validated target from a raw identifier.
func NewTarget(raw string) (*Target, error) {
	if raw == "" {
		return nil, ErrEmptyTarget
	}

	normalized := validator.NormalizeDomain(raw)
	isIP := validator.IsIP(normalized)
	if !isIP && !validator.IsDomain(normalized) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTarget, raw)
	}

	return &Target{
		Root:      normalized,
		IsIP:      isIP,
		artifacts: make(map[ArtifactType]map[string]struct{}),
	}, nil
}

// AddArtifacts merges values into the artifact set, normalizing and
// deduplicating them. Returns how many values were actually new.
func (t *Target) AddArtifacts(artifactType ArtifactType, values ...string) int {
	if !artifactType.IsValid() {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.artifacts[artifactType]
	if !ok {
		set = make(map[string]struct{})
		t.artifacts[artifactType] = set
	}

	added := 0
	for _, v := range values {
		normalized := normalizeArtifact(artifactType, v)
		if normalized == "" {
			continue
		}
		if _, exists := set[normalized]; exists {
			continue
		}
		set[normalized] = struct{}{}
		added++
	}
	return added
}

// Artifacts returns a sorted snapshot of the values for one artifact type.
func (t *Target) Artifacts(artifactType ArtifactType) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	set := t.artifacts[artifactType]
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// ArtifactCount returns the total number of discovered artifacts.
func (t *Target) ArtifactCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	total := 0
	for _, set := range t.artifacts {
		total += len(set)
	}
	return total
}

// InScope reports whether a host belongs to the target: the root itself or
// one of its subdomains.
func (t *Target) InScope(host string) bool {
	host = validator.NormalizeDomain(host)
	if host == t.Root {
		return true
	}
	if t.IsIP {
		return false
	}
	return validator.IsSubdomain(host, t.Root)
}

// String returns a readable representation of the target.
func (t *Target) String() string {
	return fmt.Sprintf("Target{root=%s, artifacts=%d}", t.Root, t.ArtifactCount())
}

func normalizeArtifact(artifactType ArtifactType, v string) string {
	switch artifactType {
	case ArtifactSubdomain:
		return validator.NormalizeDomain(v)
	case ArtifactURL:
		return validator.NormalizeURL(v)
	default:
		return validator.NormalizeDomain(v)
	}
}
