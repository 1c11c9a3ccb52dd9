// internal/core/domain/enums.go
package domain

// Severity classifies the impact of a finding.
type Severity string

const (
	SeverityInfo   Severity = "informational"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// IsValid reports whether the severity is a known value.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh:
		return true
	default:
		return false
	}
}

// Penalty returns the score penalty this severity contributes.
func (s Severity) Penalty() int {
	switch s {
	case SeverityHigh:
		return 15
	case SeverityMedium:
		return 10
	case SeverityLow:
		return 5
	default:
		return 0
	}
}

// Rank returns an ordering value, higher severities first.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

func (s Severity) String() string {
	return string(s)
}

// FindingCategory groups findings by the kind of information they carry.
type FindingCategory string

const (
	CategoryDNS        FindingCategory = "dns"
	CategoryWhois      FindingCategory = "whois"
	CategorySubdomain  FindingCategory = "subdomain"
	CategoryPort       FindingCategory = "port"
	CategoryHeader     FindingCategory = "header"
	CategorySSL        FindingCategory = "ssl"
	CategoryTechnology FindingCategory = "technology"
	CategoryOSINT      FindingCategory = "osint"
	CategoryScreenshot FindingCategory = "screenshot"

	// CategoryMalformed marks output a tool produced that could not be normalized
	CategoryMalformed FindingCategory = "malformed-result"
)

func (c FindingCategory) String() string {
	return string(c)
}

// InvocationState is the lifecycle state of one tool invocation.
type InvocationState string

const (
	StatePending     InvocationState = "pending"
	StateRateLimited InvocationState = "rate_limited"
	StateCached      InvocationState = "cached"
	StateExecuting   InvocationState = "executing"
	StateRetrying    InvocationState = "retrying"
	StateSucceeded   InvocationState = "succeeded"
	StateFailed      InvocationState = "failed"
	StateSkipped     InvocationState = "skipped"
)

// IsTerminal reports whether the state is final: the invocation's result
// has been recorded and will not change.
func (s InvocationState) IsTerminal() bool {
	switch s {
	case StateCached, StateSucceeded, StateFailed, StateSkipped:
		return true
	default:
		return false
	}
}

func (s InvocationState) String() string {
	return string(s)
}

// ArtifactType classifies artifacts discovered about a target.
type ArtifactType string

const (
	ArtifactSubdomain ArtifactType = "subdomain"
	ArtifactIP        ArtifactType = "ip"
	ArtifactURL       ArtifactType = "url"
)

// IsValid reports whether the artifact type is known.
func (t ArtifactType) IsValid() bool {
	switch t {
	case ArtifactSubdomain, ArtifactIP, ArtifactURL:
		return true
	default:
		return false
	}
}

// WorkflowName identifies a built-in workflow policy.
type WorkflowName string

const (
	WorkflowQuick         WorkflowName = "quick"
	WorkflowStandard      WorkflowName = "standard"
	WorkflowDeep          WorkflowName = "deep"
	WorkflowTargeted      WorkflowName = "targeted"
	WorkflowStealth       WorkflowName = "stealth"
	WorkflowComprehensive WorkflowName = "comprehensive"
)

// IsValid reports whether the workflow name is a known built-in.
func (w WorkflowName) IsValid() bool {
	switch w {
	case WorkflowQuick, WorkflowStandard, WorkflowDeep, WorkflowTargeted, WorkflowStealth, WorkflowComprehensive:
		return true
	default:
		return false
	}
}

func (w WorkflowName) String() string {
	return string(w)
}
