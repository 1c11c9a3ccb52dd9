// internal/core/usecases/arguments.go
package usecases

import (
	"strconv"
	"strings"

	"reconflow/internal/core/domain"
)

// webFanOutLimit bounds how many discovered subdomains the web recon tools
// visit in one run. Subdomain discovery can return hundreds of hosts;
// probing all of them belongs in a dedicated follow-up run.
const webFanOutLimit = 10

// fanOutTools run once per in-scope host instead of once per run.
var fanOutTools = map[string]bool{
	"headers":     true,
	"tech_detect": true,
	"screenshot":  true,
	"ssl_scan":    true,
}

// hostsFor resolves the hosts a tool is invoked against: the root target,
// fanned out over discovered subdomains for the per-host web tools.
func hostsFor(tool string, target *domain.Target) []string {
	if !fanOutTools[tool] || target.IsIP {
		return []string{target.Root}
	}

	hosts := []string{target.Root}
	for _, sub := range target.Artifacts(domain.ArtifactSubdomain) {
		if len(hosts) >= webFanOutLimit {
			break
		}
		if sub != target.Root {
			hosts = append(hosts, sub)
		}
	}
	return hosts
}

// argsFor resolves the tool parameters a policy dictates.
func argsFor(tool string, policy domain.WorkflowPolicy) map[string]string {
	switch tool {
	case "port_scan":
		if len(policy.Ports) == 0 {
			return nil
		}
		parts := make([]string, len(policy.Ports))
		for i, p := range policy.Ports {
			parts[i] = strconv.Itoa(p)
		}
		return map[string]string{"ports": strings.Join(parts, ",")}

	case "subdomains":
		if policy.MaxSubdomains <= 0 {
			return nil
		}
		return map[string]string{"limit": strconv.Itoa(policy.MaxSubdomains)}

	case "dorks":
		if policy.DorksLimit <= 0 {
			return nil
		}
		return map[string]string{"limit": strconv.Itoa(policy.DorksLimit)}

	default:
		return nil
	}
}

// cacheArgs is the argument set that identifies an invocation in the
// cache: the resolved tool args plus the concrete host.
func cacheArgs(inv *domain.Invocation) map[string]string {
	args := make(map[string]string, len(inv.Args)+1)
	for k, v := range inv.Args {
		args[k] = v
	}
	args["host"] = inv.Host
	return args
}
