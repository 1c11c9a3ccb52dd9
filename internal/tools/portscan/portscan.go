// internal/tools/portscan/portscan.go

// Package portscan probes TCP ports with plain connect scans.
package portscan

import (
	"context"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"reconflow/internal/core/ports"
	errx "reconflow/internal/platform/errors"
	"reconflow/internal/platform/logx"
)

const toolName = "port_scan"

// defaultPorts cover the common web and admin surface when the policy
// does not pin a list.
var defaultPorts = []int{21, 22, 25, 53, 80, 110, 143, 443, 445, 3306, 3389, 5432, 8080, 8443}

const (
	dialTimeout   = 3 * time.Second
	probeParallel = 8
)

// Tool runs TCP connect probes against a host.
type Tool struct {
	logger logx.Logger
}

// New creates the port scan tool.
func New(logger logx.Logger) *Tool {
	return &Tool{logger: logger.With("tool", toolName)}
}

func (t *Tool) Name() string { return toolName }

// Run probes the configured ports concurrently. A closed or filtered port
// is a result, not an error; the probe itself only fails on cancellation.
func (t *Tool) Run(ctx context.Context, req ports.ToolRequest) (*ports.ToolResult, error) {
	targets := parsePorts(req.Args["ports"])

	var (
		mu   sync.Mutex
		open []int
		wg   sync.WaitGroup
	)
	sem := make(chan struct{}, probeParallel)

	for _, port := range targets {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(port int) {
			defer wg.Done()
			defer func() { <-sem }()

			if t.probe(ctx, req.Host, port) {
				mu.Lock()
				open = append(open, port)
				mu.Unlock()
			}
		}(port)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, errx.Transient(toolName, err)
	}

	sort.Ints(open)
	t.logger.Debug("scan finished", "host", req.Host, "probed", len(targets), "open", len(open))

	return &ports.ToolResult{
		Tool: toolName,
		Host: req.Host,
		Data: map[string]interface{}{
			"open_ports": open,
			"probed":     len(targets),
		},
	}, nil
}

func (t *Tool) probe(ctx context.Context, host string, port int) bool {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// parsePorts reads a comma separated port list, falling back to the
// default set on empty or invalid input.
func parsePorts(raw string) []int {
	if raw == "" {
		return defaultPorts
	}

	seen := make(map[int]struct{})
	out := make([]int, 0)
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 || n > 65535 {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	if len(out) == 0 {
		return defaultPorts
	}
	return out
}
