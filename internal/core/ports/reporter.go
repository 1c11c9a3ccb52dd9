// internal/core/ports/reporter.go
package ports

import (
	"io"

	"reconflow/internal/core/domain"
)

// Reporter is the port for rendering a finished report.
type Reporter interface {
	// Name returns the reporter identifier (e.g. "json", "table")
	Name() string

	// Write renders the report to the writer
	Write(report *domain.Report, w io.Writer) error
}
