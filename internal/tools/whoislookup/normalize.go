// internal/tools/whoislookup/normalize.go
package whoislookup

import (
	"fmt"
	"time"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
)

// expiryWarningWindow flags registrations about to lapse.
const expiryWarningWindow = 30 * 24 * time.Hour

// Normalize turns a WHOIS result into findings: the registration summary,
// an expiry warning when the domain lapses soon, and an exposure note when
// registrant contact details are public.
func Normalize(res *ports.ToolResult) ([]domain.Finding, error) {
	registrar, _ := res.Data["registrar"].(string)

	summary, err := domain.NewFinding(
		domain.CategoryWhois, domain.SeverityInfo, res.Tool, res.Host,
		fmt.Sprintf("registration record for %s (registrar: %s)", res.Host, orUnknown(registrar)),
		map[string]interface{}{
			"registrar": registrar,
			"created":   res.Data["created"],
			"expires":   res.Data["expires"],
		},
	)
	if err != nil {
		return nil, err
	}
	findings := []domain.Finding{summary}

	if expires, ok := res.Data["expires"].(string); ok && expires != "" {
		if t, err := parseWhoisTime(expires); err == nil {
			until := time.Until(t)
			if until > 0 && until < expiryWarningWindow {
				f, _ := domain.NewFinding(
					domain.CategoryWhois, domain.SeverityMedium, res.Tool, res.Host,
					fmt.Sprintf("domain registration expires in %d days", int(until.Hours()/24)),
					map[string]interface{}{"expires": expires},
				)
				findings = append(findings, f)
			} else if until <= 0 {
				f, _ := domain.NewFinding(
					domain.CategoryWhois, domain.SeverityHigh, res.Tool, res.Host,
					"domain registration has expired",
					map[string]interface{}{"expires": expires},
				)
				findings = append(findings, f)
			}
		}
	}

	if email, ok := res.Data["registrant_email"].(string); ok && email != "" && !redacted(email) {
		f, _ := domain.NewFinding(
			domain.CategoryWhois, domain.SeverityLow, res.Tool, res.Host,
			"registrant contact details are publicly visible",
			map[string]interface{}{"registrant_email": email},
		)
		findings = append(findings, f)
	}

	return findings, nil
}

var whoisTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseWhoisTime(v string) (time.Time, error) {
	var lastErr error
	for _, layout := range whoisTimeLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func orUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
