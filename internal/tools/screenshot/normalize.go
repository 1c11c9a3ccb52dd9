// internal/tools/screenshot/normalize.go
package screenshot

import (
	"fmt"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
)

// Normalize records where the capture was written.
func Normalize(res *ports.ToolResult) ([]domain.Finding, error) {
	path, ok := res.Data["path"].(string)
	if !ok || path == "" {
		return nil, fmt.Errorf("missing screenshot path")
	}
	url, _ := res.Data["url"].(string)

	f, err := domain.NewFinding(
		domain.CategoryScreenshot, domain.SeverityInfo, res.Tool, res.Host,
		fmt.Sprintf("captured %s to %s", url, path),
		map[string]interface{}{"url": url, "path": path},
	)
	if err != nil {
		return nil, err
	}
	return []domain.Finding{f}, nil
}
