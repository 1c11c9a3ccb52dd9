// internal/core/domain/finding.go
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Finding is one normalized observation produced by a tool: an open port,
// a missing security header, an expiring certificate.
type Finding struct {
	Category    FindingCategory        `json:"category"`
	Severity    Severity               `json:"severity"`
	Tool        string                 `json:"tool"`
	Host        string                 `json:"host,omitempty"`
	Description string                 `json:"description"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
}

// NewFinding builds a validated finding.
func NewFinding(cat FindingCategory, sev Severity, tool, host, desc string, payload map[string]interface{}) (Finding, error) {
	if tool == "" {
		return Finding{}, fmt.Errorf("%w: missing tool", ErrInvalidFinding)
	}
	if !sev.IsValid() {
		return Finding{}, fmt.Errorf("%w: severity %q", ErrInvalidFinding, sev)
	}
	return Finding{
		Category:    cat,
		Severity:    sev,
		Tool:        tool,
		Host:        host,
		Description: desc,
		Payload:     payload,
	}, nil
}

// NewMalformedFinding flags a tool result the aggregator could not parse.
// The raw shape is preserved in the payload so nothing is lost silently.
func NewMalformedFinding(tool, host string, raw interface{}, reason string) Finding {
	return Finding{
		Category:    CategoryMalformed,
		Severity:    SeverityInfo,
		Tool:        tool,
		Host:        host,
		Description: "unparseable tool result: " + reason,
		Payload:     map[string]interface{}{"raw": fmt.Sprintf("%v", raw)},
	}
}

// PayloadHash returns a stable digest of the payload. json.Marshal emits
// map keys in sorted order, so equal payloads hash equally.
func (f Finding) PayloadHash() string {
	if len(f.Payload) == 0 {
		sum := sha256.Sum256([]byte(f.Description))
		return hex.EncodeToString(sum[:])
	}
	raw, err := json.Marshal(f.Payload)
	if err != nil {
		raw = []byte(fmt.Sprintf("%v", f.Payload))
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Key identifies a finding for deduplication: two findings with the same
// category, source tool and payload are the same observation.
func (f Finding) Key() string {
	return string(f.Category) + "\x1f" + f.Tool + "\x1f" + f.PayloadHash()
}
