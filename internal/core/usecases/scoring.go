// internal/core/usecases/scoring.go
package usecases

import (
	"sort"

	"reconflow/internal/core/domain"
)

// ScoringEngine derives the risk score and remediation recommendations
// from a run's findings. A report starts at 100 and loses points per
// finding by severity.
type ScoringEngine struct{}

// NewScoringEngine creates a scoring engine.
func NewScoringEngine() *ScoringEngine {
	return &ScoringEngine{}
}

// Score computes the risk score: 100 minus the summed severity penalties,
// clamped to [0, 100].
func (s *ScoringEngine) Score(findings []domain.Finding) int {
	score := 100
	for _, f := range findings {
		score -= f.Severity.Penalty()
	}
	if score < 0 {
		score = 0
	}
	return score
}

// recommendationTexts maps finding categories to remediation advice.
// Categories without an entry produce no recommendation.
var recommendationTexts = map[domain.FindingCategory]string{
	domain.CategoryHeader:     "Add the missing security headers (CSP, HSTS, X-Frame-Options) to the web server configuration",
	domain.CategorySSL:        "Renew weak or expiring TLS certificates and disable legacy protocol versions",
	domain.CategoryPort:       "Close or firewall exposed ports that are not required",
	domain.CategorySubdomain:  "Review discovered subdomains and retire entries that should not be public",
	domain.CategoryTechnology: "Update detected software and suppress version disclosure in banners",
	domain.CategoryDNS:        "Review DNS records and remove stale or overly permissive entries",
	domain.CategoryWhois:      "Enable registrar privacy protection for registrant contact details",
	domain.CategoryOSINT:      "Review publicly indexed content for sensitive information exposure",
}

// Recommendations produces one recommendation per affected category,
// carrying the highest severity observed in it, ordered most severe first.
func (s *ScoringEngine) Recommendations(findings []domain.Finding) []domain.Recommendation {
	worst := make(map[domain.FindingCategory]domain.Severity)
	for _, f := range findings {
		if _, known := recommendationTexts[f.Category]; !known {
			continue
		}
		if f.Severity == domain.SeverityInfo {
			continue
		}
		if current, ok := worst[f.Category]; !ok || f.Severity.Rank() > current.Rank() {
			worst[f.Category] = f.Severity
		}
	}

	recs := make([]domain.Recommendation, 0, len(worst))
	for cat, sev := range worst {
		recs = append(recs, domain.Recommendation{
			Category: cat,
			Severity: sev,
			Text:     recommendationTexts[cat],
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Severity.Rank() != recs[j].Severity.Rank() {
			return recs[i].Severity.Rank() > recs[j].Severity.Rank()
		}
		return recs[i].Category < recs[j].Category
	})
	return recs
}
