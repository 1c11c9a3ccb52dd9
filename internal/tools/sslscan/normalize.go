// internal/tools/sslscan/normalize.go
package sslscan

import (
	"fmt"
	"strings"
	"time"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
)

const expiryWarningWindow = 30 * 24 * time.Hour

// Normalize grades the TLS posture: expired or soon-to-expire leaf
// certificates, self-signed chains, legacy protocol versions and weak
// signatures each produce a finding, with an informational summary always
// present.
func Normalize(res *ports.ToolResult) ([]domain.Finding, error) {
	version, _ := res.Data["version"].(string)
	notAfter, _ := res.Data["not_after"].(string)

	summary, err := domain.NewFinding(
		domain.CategorySSL, domain.SeverityInfo, res.Tool, res.Host,
		fmt.Sprintf("TLS endpoint on %s: %s, certificate valid until %s", res.Host, version, notAfter),
		map[string]interface{}{
			"version":      version,
			"cipher_suite": res.Data["cipher_suite"],
			"issuer":       res.Data["issuer"],
			"not_after":    notAfter,
		},
	)
	if err != nil {
		return nil, err
	}
	findings := []domain.Finding{summary}

	if expiry, err := time.Parse(time.RFC3339, notAfter); err == nil {
		until := time.Until(expiry)
		switch {
		case until <= 0:
			f, _ := domain.NewFinding(
				domain.CategorySSL, domain.SeverityHigh, res.Tool, res.Host,
				fmt.Sprintf("certificate for %s has expired", res.Host),
				map[string]interface{}{"not_after": notAfter, "check": "expiry"},
			)
			findings = append(findings, f)
		case until < expiryWarningWindow:
			f, _ := domain.NewFinding(
				domain.CategorySSL, domain.SeverityMedium, res.Tool, res.Host,
				fmt.Sprintf("certificate for %s expires in %d days", res.Host, int(until.Hours()/24)),
				map[string]interface{}{"not_after": notAfter, "check": "expiry"},
			)
			findings = append(findings, f)
		}
	}

	if version == "TLS 1.0" || version == "TLS 1.1" {
		f, _ := domain.NewFinding(
			domain.CategorySSL, domain.SeverityHigh, res.Tool, res.Host,
			fmt.Sprintf("legacy protocol version negotiated: %s", version),
			map[string]interface{}{"version": version, "check": "protocol"},
		)
		findings = append(findings, f)
	}

	if selfSigned, ok := res.Data["self_signed"].(bool); ok && selfSigned {
		f, _ := domain.NewFinding(
			domain.CategorySSL, domain.SeverityMedium, res.Tool, res.Host,
			fmt.Sprintf("certificate for %s is self-signed", res.Host),
			map[string]interface{}{"check": "self_signed"},
		)
		findings = append(findings, f)
	}

	if alg, ok := res.Data["signature_alg"].(string); ok && strings.Contains(strings.ToUpper(alg), "SHA1") {
		f, _ := domain.NewFinding(
			domain.CategorySSL, domain.SeverityMedium, res.Tool, res.Host,
			fmt.Sprintf("certificate signed with weak algorithm %s", alg),
			map[string]interface{}{"signature_alg": alg, "check": "signature"},
		)
		findings = append(findings, f)
	}

	return findings, nil
}
