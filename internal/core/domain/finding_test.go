// internal/core/domain/finding_test.go
package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFinding(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		f, err := NewFinding(CategoryPort, SeverityMedium, "port_scan", "example.com",
			"open port 8080", map[string]interface{}{"port": 8080})
		require.NoError(t, err)
		assert.Equal(t, CategoryPort, f.Category)
		assert.Equal(t, SeverityMedium, f.Severity)
	})

	t.Run("missing tool", func(t *testing.T) {
		_, err := NewFinding(CategoryPort, SeverityLow, "", "example.com", "x", nil)
		assert.ErrorIs(t, err, ErrInvalidFinding)
	})

	t.Run("bad severity", func(t *testing.T) {
		_, err := NewFinding(CategoryPort, Severity("critical"), "port_scan", "", "x", nil)
		assert.ErrorIs(t, err, ErrInvalidFinding)
	})
}

func TestPayloadHash(t *testing.T) {
	t.Run("deterministic across key order", func(t *testing.T) {
		a := Finding{Payload: map[string]interface{}{"port": 443, "proto": "tcp"}}
		b := Finding{Payload: map[string]interface{}{"proto": "tcp", "port": 443}}
		assert.Equal(t, a.PayloadHash(), b.PayloadHash())
	})

	t.Run("different payloads differ", func(t *testing.T) {
		a := Finding{Payload: map[string]interface{}{"port": 443}}
		b := Finding{Payload: map[string]interface{}{"port": 80}}
		assert.NotEqual(t, a.PayloadHash(), b.PayloadHash())
	})

	t.Run("empty payload falls back to description", func(t *testing.T) {
		a := Finding{Description: "missing X-Frame-Options"}
		b := Finding{Description: "missing CSP"}
		assert.NotEqual(t, a.PayloadHash(), b.PayloadHash())
	})
}

func TestFindingKey(t *testing.T) {
	t.Run("same observation same key", func(t *testing.T) {
		a := Finding{Category: CategoryPort, Tool: "port_scan", Payload: map[string]interface{}{"port": 443}}
		b := Finding{Category: CategoryPort, Tool: "port_scan", Payload: map[string]interface{}{"port": 443}}
		assert.Equal(t, a.Key(), b.Key())
	})

	t.Run("different tool different key", func(t *testing.T) {
		a := Finding{Category: CategoryPort, Tool: "port_scan", Payload: map[string]interface{}{"port": 443}}
		b := Finding{Category: CategoryPort, Tool: "ssl_scan", Payload: map[string]interface{}{"port": 443}}
		assert.NotEqual(t, a.Key(), b.Key())
	})
}

func TestNewMalformedFinding(t *testing.T) {
	f := NewMalformedFinding("dns", "example.com", []int{1, 2}, "expected map")

	assert.Equal(t, CategoryMalformed, f.Category)
	assert.Equal(t, SeverityInfo, f.Severity)
	assert.Contains(t, f.Description, "expected map")
	assert.NotEmpty(t, f.Payload["raw"])
}
