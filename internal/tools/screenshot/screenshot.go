// internal/tools/screenshot/screenshot.go

// Package screenshot captures a rendered page screenshot of a host using a
// headless Chrome instance driven over the DevTools protocol.
package screenshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"reconflow/internal/core/ports"
	errx "reconflow/internal/platform/errors"
	"reconflow/internal/platform/logx"
)

const (
	toolName = "screenshot"

	captureQuality = 90
	settleDelay    = 2 * time.Second
)

// Tool renders https://<host> in headless Chrome and writes a PNG under
// the output directory. Every run produces a fresh capture, so results
// are never cached.
type Tool struct {
	outputDir string
	logger    logx.Logger

	mu          sync.Mutex
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// New creates the screenshot tool. The browser process is launched lazily
// on the first capture and torn down by Close.
func New(outputDir string, logger logx.Logger) *Tool {
	return &Tool{
		outputDir: outputDir,
		logger:    logger.With("tool", toolName),
	}
}

func (t *Tool) Name() string { return toolName }

// Run navigates to the host over HTTPS, falling back to HTTP, and captures
// a full-page screenshot.
func (t *Tool) Run(ctx context.Context, req ports.ToolRequest) (*ports.ToolResult, error) {
	alloc, err := t.allocator()
	if err != nil {
		return nil, errx.Fatal(toolName, err)
	}

	buf, u, err := t.capture(ctx, alloc, "https://"+req.Host)
	if err != nil {
		buf, u, err = t.capture(ctx, alloc, "http://"+req.Host)
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, errx.Transient(toolName, ctx.Err())
		}
		return nil, errx.Transient(toolName, fmt.Errorf("render failed: %w", err))
	}

	path := filepath.Join(t.outputDir, fileName(req.Host))
	if mkErr := os.MkdirAll(t.outputDir, 0o755); mkErr != nil {
		return nil, errx.Fatal(toolName, mkErr)
	}
	if wrErr := os.WriteFile(path, buf, 0o644); wrErr != nil {
		return nil, errx.Fatal(toolName, wrErr)
	}

	t.logger.Debug("screenshot captured", "host", req.Host, "url", u, "bytes", len(buf), "path", path)

	return &ports.ToolResult{
		Tool: toolName,
		Host: req.Host,
		Data: map[string]interface{}{
			"url":   u,
			"path":  path,
			"bytes": len(buf),
		},
	}, nil
}

// Close shuts down the shared browser process, if one was launched.
func (t *Tool) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.allocCancel != nil {
		t.allocCancel()
		t.allocCancel = nil
		t.allocCtx = nil
	}
	return nil
}

// allocator lazily starts the Chrome exec allocator shared by all captures.
func (t *Tool) allocator() (context.Context, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.allocCtx != nil {
		return t.allocCtx, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.Flag("window-size", "1440,900"),
	)

	t.allocCtx, t.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return t.allocCtx, nil
}

func (t *Tool) capture(ctx context.Context, alloc context.Context, url string) ([]byte, string, error) {
	tabCtx, cancel := chromedp.NewContext(alloc)
	defer cancel()

	// Stop the tab when the invocation context is canceled; the allocator
	// context outlives individual runs.
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-tabCtx.Done():
		}
	}()

	var buf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(settleDelay),
		chromedp.FullScreenshot(&buf, captureQuality),
	)
	if err != nil {
		return nil, "", err
	}
	return buf, url, nil
}

func fileName(host string) string {
	safe := strings.NewReplacer(":", "_", "/", "_").Replace(host)
	return fmt.Sprintf("%s_%d.png", safe, time.Now().Unix())
}
