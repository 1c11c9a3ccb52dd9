// internal/tools/sslscan/sslscan.go

// Package sslscan inspects the TLS configuration and certificate chain of
// a host.
package sslscan

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"net"
	"strings"
	"time"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
	errx "reconflow/internal/platform/errors"
	"reconflow/internal/platform/logx"
	"reconflow/internal/platform/validator"
)

const toolName = "ssl_scan"

const handshakeTimeout = 10 * time.Second

// Tool performs a TLS handshake and records the negotiated parameters.
type Tool struct {
	logger logx.Logger
}

// New creates the TLS inspection tool.
func New(logger logx.Logger) *Tool {
	return &Tool{logger: logger.With("tool", toolName)}
}

func (t *Tool) Name() string { return toolName }

// Run connects to port 443 and captures the negotiated protocol version
// and the leaf certificate. Verification is disabled on purpose: an
// invalid chain is exactly what we are here to observe.
func (t *Tool) Run(ctx context.Context, req ports.ToolRequest) (*ports.ToolResult, error) {
	dialer := &net.Dialer{Timeout: handshakeTimeout}
	conn, err := tls.DialWithDialer(dialer, "tcp", net.JoinHostPort(req.Host, "443"), &tls.Config{
		ServerName:         req.Host,
		InsecureSkipVerify: true,
	})
	if err != nil {
		return nil, errx.Transient(toolName, err)
	}
	defer conn.Close()

	state := conn.ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return nil, errx.Fatal(toolName, errx.Wrap(errx.ErrInvalidResponse, "no peer certificates presented"))
	}
	leaf := state.PeerCertificates[0]

	data := map[string]interface{}{
		"version":        versionName(state.Version),
		"cipher_suite":   tls.CipherSuiteName(state.CipherSuite),
		"issuer":         leaf.Issuer.CommonName,
		"subject":        leaf.Subject.CommonName,
		"not_before":     leaf.NotBefore.Format(time.RFC3339),
		"not_after":      leaf.NotAfter.Format(time.RFC3339),
		"dns_names":      leaf.DNSNames,
		"self_signed":    isSelfSigned(leaf),
		"signature_alg":  leaf.SignatureAlgorithm.String(),
		"chain_length":   len(state.PeerCertificates),
	}

	res := &ports.ToolResult{Tool: toolName, Host: req.Host, Data: data}

	// Certificate SANs frequently reveal sibling hosts
	if sans := inScopeNames(leaf.DNSNames, req.Target); len(sans) > 0 {
		res.Artifacts = map[domain.ArtifactType][]string{domain.ArtifactSubdomain: sans}
	}

	t.logger.Debug("tls inspected",
		"host", req.Host,
		"version", data["version"],
		"expires", data["not_after"],
	)
	return res, nil
}

func versionName(v uint16) string {
	switch v {
	case tls.VersionTLS10:
		return "TLS 1.0"
	case tls.VersionTLS11:
		return "TLS 1.1"
	case tls.VersionTLS12:
		return "TLS 1.2"
	case tls.VersionTLS13:
		return "TLS 1.3"
	default:
		return "unknown"
	}
}

func isSelfSigned(cert *x509.Certificate) bool {
	if cert.Subject.String() != cert.Issuer.String() {
		return false
	}
	return cert.CheckSignatureFrom(cert) == nil
}

func inScopeNames(names []string, root string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = validator.NormalizeDomain(name)
		if name == root || strings.HasSuffix(name, "."+root) {
			out = append(out, name)
		}
	}
	return out
}
