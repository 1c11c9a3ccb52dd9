// internal/platform/config/policy.go
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"reconflow/internal/core/domain"
	errx "reconflow/internal/platform/errors"
)

// ResolvePolicy returns the workflow policy for a run: the YAML file when
// one is configured, otherwise the named built-in. CLI overrides are
// applied on top in both cases.
func ResolvePolicy(cfg Config) (domain.WorkflowPolicy, error) {
	var (
		policy domain.WorkflowPolicy
		err    error
	)

	if cfg.PolicyFile != "" {
		policy, err = LoadPolicyFile(cfg.PolicyFile)
	} else {
		policy, err = domain.BuiltinPolicy(domain.WorkflowName(cfg.Workflow))
	}
	if err != nil {
		return domain.WorkflowPolicy{}, err
	}

	if cfg.MaxRetries > 0 {
		policy.Retry.MaxAttempts = cfg.MaxRetries
	}
	if cfg.BackoffBase > 0 {
		policy.Retry.BaseDelay = cfg.BackoffBase
	}
	if len(cfg.Ports) > 0 {
		policy.Ports = cfg.Ports
	}
	if cfg.Workers > 0 {
		for i := range policy.Stages {
			policy.Stages[i].Concurrency = cfg.Workers
		}
	}
	if cfg.StealthDelay > 0 {
		policy.Stealth.Delay = cfg.StealthDelay
	}
	if cfg.StealthJitter > 0 {
		policy.Stealth.Jitter = cfg.StealthJitter
	}
	policy.FilterTools(cfg.DisabledSet())

	if err := policy.Validate(); err != nil {
		return domain.WorkflowPolicy{}, err
	}
	return policy, nil
}

// policyFile is the YAML shape of a custom policy. Durations are given as
// Go duration strings ("500ms", "2s").
type policyFile struct {
	Name   string `yaml:"name"`
	Stages []struct {
		Name        string   `yaml:"name"`
		Tools       []string `yaml:"tools"`
		Concurrency int      `yaml:"concurrency"`
		Timeout     string   `yaml:"timeout"`
		Critical    bool     `yaml:"critical"`
	} `yaml:"stages"`
	Retry *struct {
		MaxAttempts int    `yaml:"max_attempts"`
		BaseDelay   string `yaml:"base_delay"`
	} `yaml:"retry"`
	RateLimits map[string]struct {
		Capacity        int     `yaml:"capacity"`
		RefillPerSecond float64 `yaml:"refill_per_second"`
	} `yaml:"rate_limits"`
	CacheTTL map[string]string `yaml:"cache_ttl"`
	Stealth  *struct {
		Delay  string `yaml:"delay"`
		Jitter string `yaml:"jitter"`
	} `yaml:"stealth"`
	Ports         []int `yaml:"ports"`
	MaxSubdomains int   `yaml:"max_subdomains"`
	DorksLimit    int   `yaml:"dorks_limit"`
}

// LoadPolicyFile reads a workflow policy from a YAML file. Sections the
// file leaves unset fall back to the standard built-in values, so a file
// only needs to declare its stages.
func LoadPolicyFile(path string) (domain.WorkflowPolicy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.WorkflowPolicy{}, errx.Wrapf(err, "reading policy file %s", path)
	}

	var pf policyFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return domain.WorkflowPolicy{}, errx.Wrapf(errx.ErrConfiguration, "parsing policy file %s: %v", path, err)
	}

	policy, _ := domain.BuiltinPolicy(domain.WorkflowStandard)
	policy.Name = domain.WorkflowName(pf.Name)
	if policy.Name == "" {
		policy.Name = "custom"
	}
	policy.Stages = nil

	for _, s := range pf.Stages {
		policy.Stages = append(policy.Stages, domain.StageSpec{
			Name:        s.Name,
			Tools:       s.Tools,
			Concurrency: s.Concurrency,
			Timeout:     parseDuration(s.Timeout, 0),
			Critical:    s.Critical,
		})
	}
	if pf.Retry != nil {
		if pf.Retry.MaxAttempts > 0 {
			policy.Retry.MaxAttempts = pf.Retry.MaxAttempts
		}
		if d := parseDuration(pf.Retry.BaseDelay, 0); d > 0 {
			policy.Retry.BaseDelay = d
		}
	}
	for class, spec := range pf.RateLimits {
		policy.RateLimits[class] = domain.RateLimitSpec{
			Capacity:        spec.Capacity,
			RefillPerSecond: spec.RefillPerSecond,
		}
	}
	for tool, ttl := range pf.CacheTTL {
		if d := parseDuration(ttl, 0); d > 0 {
			policy.CacheTTL[tool] = d
		}
	}
	if pf.Stealth != nil {
		policy.Stealth = domain.StealthSpec{
			Delay:  parseDuration(pf.Stealth.Delay, 0),
			Jitter: parseDuration(pf.Stealth.Jitter, 0),
		}
	}
	if len(pf.Ports) > 0 {
		policy.Ports = pf.Ports
	}
	if pf.MaxSubdomains > 0 {
		policy.MaxSubdomains = pf.MaxSubdomains
	}
	if pf.DorksLimit > 0 {
		policy.DorksLimit = pf.DorksLimit
	}

	if err := policy.Validate(); err != nil {
		return domain.WorkflowPolicy{}, err
	}
	return policy, nil
}
