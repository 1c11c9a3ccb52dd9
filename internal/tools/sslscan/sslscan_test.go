// internal/tools/sslscan/sslscan_test.go
package sslscan

import (
	"testing"
	"time"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
	"reconflow/internal/testutil"
)

func result(data map[string]interface{}) *ports.ToolResult {
	return &ports.ToolResult{Tool: "ssl_scan", Host: "example.com", Data: data}
}

func findBy(findings []domain.Finding, check string) *domain.Finding {
	for i := range findings {
		if findings[i].Payload["check"] == check {
			return &findings[i]
		}
	}
	return nil
}

func TestNormalizeHealthyEndpoint(t *testing.T) {
	findings, err := Normalize(result(map[string]interface{}{
		"version":       "TLS 1.3",
		"cipher_suite":  "TLS_AES_128_GCM_SHA256",
		"issuer":        "Let's Encrypt",
		"not_after":     time.Now().Add(60 * 24 * time.Hour).Format(time.RFC3339),
		"self_signed":   false,
		"signature_alg": "SHA256-RSA",
	}))
	testutil.AssertNoError(t, err, "normalize")
	testutil.AssertEqual(t, len(findings), 1, "only the summary for a healthy endpoint")
	testutil.AssertEqual(t, findings[0].Severity, domain.SeverityInfo, "summary severity")
	testutil.AssertEqual(t, findings[0].Category, domain.CategorySSL, "category")
}

func TestNormalizeExpiredCertificate(t *testing.T) {
	findings, err := Normalize(result(map[string]interface{}{
		"version":   "TLS 1.2",
		"not_after": time.Now().Add(-24 * time.Hour).Format(time.RFC3339),
	}))
	testutil.AssertNoError(t, err, "normalize")

	expiry := findBy(findings, "expiry")
	testutil.AssertNotNil(t, expiry, "expiry finding present")
	testutil.AssertEqual(t, expiry.Severity, domain.SeverityHigh, "expired is high")
}

func TestNormalizeExpiringSoon(t *testing.T) {
	findings, err := Normalize(result(map[string]interface{}{
		"version":   "TLS 1.2",
		"not_after": time.Now().Add(10 * 24 * time.Hour).Format(time.RFC3339),
	}))
	testutil.AssertNoError(t, err, "normalize")

	expiry := findBy(findings, "expiry")
	testutil.AssertNotNil(t, expiry, "expiry finding present")
	testutil.AssertEqual(t, expiry.Severity, domain.SeverityMedium, "expiring soon is medium")
}

func TestNormalizeLegacyProtocol(t *testing.T) {
	findings, err := Normalize(result(map[string]interface{}{
		"version":   "TLS 1.0",
		"not_after": time.Now().Add(60 * 24 * time.Hour).Format(time.RFC3339),
	}))
	testutil.AssertNoError(t, err, "normalize")

	proto := findBy(findings, "protocol")
	testutil.AssertNotNil(t, proto, "protocol finding present")
	testutil.AssertEqual(t, proto.Severity, domain.SeverityHigh, "legacy protocol is high")
}

func TestNormalizeSelfSignedAndWeakSignature(t *testing.T) {
	findings, err := Normalize(result(map[string]interface{}{
		"version":       "TLS 1.2",
		"not_after":     time.Now().Add(60 * 24 * time.Hour).Format(time.RFC3339),
		"self_signed":   true,
		"signature_alg": "SHA1-RSA",
	}))
	testutil.AssertNoError(t, err, "normalize")

	selfSigned := findBy(findings, "self_signed")
	testutil.AssertNotNil(t, selfSigned, "self-signed finding present")
	testutil.AssertEqual(t, selfSigned.Severity, domain.SeverityMedium, "self-signed is medium")

	sig := findBy(findings, "signature")
	testutil.AssertNotNil(t, sig, "signature finding present")
	testutil.AssertEqual(t, sig.Severity, domain.SeverityMedium, "SHA1 is medium")
}
