// internal/tools/portscan/normalize.go
package portscan

import (
	"fmt"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
)

// severityFor grades an open port: expected web ports are informational,
// remote admin and database ports are high risk, everything else medium.
func severityFor(port int) domain.Severity {
	switch port {
	case 80, 443, 8080, 8443:
		return domain.SeverityInfo
	case 21, 23, 445, 1433, 3306, 3389, 5432, 5900, 6379, 9200, 27017:
		return domain.SeverityHigh
	case 22:
		return domain.SeverityLow
	default:
		return domain.SeverityMedium
	}
}

var serviceNames = map[int]string{
	21: "ftp", 22: "ssh", 23: "telnet", 25: "smtp", 53: "dns",
	80: "http", 110: "pop3", 143: "imap", 443: "https", 445: "smb",
	1433: "mssql", 3306: "mysql", 3389: "rdp", 5432: "postgresql",
	5900: "vnc", 6379: "redis", 8080: "http-alt", 8443: "https-alt",
	9200: "elasticsearch", 27017: "mongodb",
}

// Normalize emits one finding per open port, graded by risk.
func Normalize(res *ports.ToolResult) ([]domain.Finding, error) {
	open, err := toInts(res.Data["open_ports"])
	if err != nil {
		return nil, err
	}

	findings := make([]domain.Finding, 0, len(open))
	for _, port := range open {
		service := serviceNames[port]
		if service == "" {
			service = "unknown"
		}
		f, err := domain.NewFinding(
			domain.CategoryPort, severityFor(port), res.Tool, res.Host,
			fmt.Sprintf("open port %d (%s) on %s", port, service, res.Host),
			map[string]interface{}{"port": port, "service": service},
		)
		if err != nil {
			return nil, err
		}
		findings = append(findings, f)
	}
	return findings, nil
}

func toInts(v interface{}) ([]int, error) {
	switch vals := v.(type) {
	case []int:
		return vals, nil
	case []interface{}:
		out := make([]int, 0, len(vals))
		for _, item := range vals {
			switch n := item.(type) {
			case int:
				out = append(out, n)
			case float64:
				out = append(out, int(n))
			default:
				return nil, fmt.Errorf("unexpected port value %v", item)
			}
		}
		return out, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected open_ports shape %T", v)
	}
}
