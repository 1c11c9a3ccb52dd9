// internal/platform/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
)

type Config struct {
	// App
	Target       string
	Workflow     string
	PolicyFile   string
	PrintVersion bool

	// IO
	OutputDir     string
	TableDisabled bool

	// Tools
	DisabledTools []string
	DNSResolver   string

	// Overrides (zero = use the workflow policy value)
	MaxRetries    int
	BackoffBase   time.Duration
	HTTPTimeout   time.Duration
	Ports         []int
	Workers       int
	StealthDelay  time.Duration
	StealthJitter time.Duration

	// Logging
	LogLevel string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Workflow:    "standard",
		OutputDir:   "reconflow_out",
		DNSResolver: "8.8.8.8:53",
		HTTPTimeout: 30 * time.Second,
		LogLevel:    "info",
	}
}

// Load builds the configuration from, in increasing priority: defaults,
// a .env file when present, RECONFLOW_* environment variables, and CLI
// flags.
func Load(args []string) (Config, error) {
	cfg := DefaultConfig()

	// .env feeds the process environment; existing vars win
	_ = godotenv.Load()

	loadFromEnv(&cfg)
	if err := loadFromFlags(&cfg, args); err != nil {
		return cfg, err
	}
	normalize(&cfg)

	return cfg, nil
}

func loadFromEnv(cfg *Config) {
	if v := getenv("RECONFLOW_TARGET", ""); v != "" {
		cfg.Target = v
	}
	if v := getenv("RECONFLOW_WORKFLOW", ""); v != "" {
		cfg.Workflow = v
	}
	if v := getenv("RECONFLOW_POLICY_FILE", ""); v != "" {
		cfg.PolicyFile = v
	}
	if v := getenv("RECONFLOW_OUTPUT_DIR", ""); v != "" {
		cfg.OutputDir = v
	}
	if v := getenv("RECONFLOW_DISABLED_TOOLS", ""); v != "" {
		cfg.DisabledTools = splitList(v)
	}
	if v := getenv("RECONFLOW_DNS_RESOLVER", ""); v != "" {
		cfg.DNSResolver = v
	}
	if v := getenv("RECONFLOW_MAX_RETRIES", ""); v != "" {
		cfg.MaxRetries = parseInt(v, cfg.MaxRetries)
	}
	if v := getenv("RECONFLOW_BACKOFF_BASE", ""); v != "" {
		cfg.BackoffBase = parseDuration(v, cfg.BackoffBase)
	}
	if v := getenv("RECONFLOW_HTTP_TIMEOUT", ""); v != "" {
		cfg.HTTPTimeout = parseDuration(v, cfg.HTTPTimeout)
	}
	if v := getenv("RECONFLOW_PORTS", ""); v != "" {
		cfg.Ports = parsePortList(v)
	}
	if v := getenv("RECONFLOW_WORKERS", ""); v != "" {
		cfg.Workers = parseInt(v, cfg.Workers)
	}
	if v := getenv("RECONFLOW_STEALTH_DELAY", ""); v != "" {
		cfg.StealthDelay = parseDuration(v, cfg.StealthDelay)
	}
	if v := getenv("RECONFLOW_STEALTH_JITTER", ""); v != "" {
		cfg.StealthJitter = parseDuration(v, cfg.StealthJitter)
	}
	if v := getenv("RECONFLOW_LOG_LEVEL", ""); v != "" {
		cfg.LogLevel = v
	}
}

func loadFromFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("reconflow", flag.ContinueOnError)

	fs.StringVarP(&cfg.Target, "target", "t", cfg.Target, "Target domain or IP (e.g. example.com)")
	fs.StringVarP(&cfg.Workflow, "workflow", "w", cfg.Workflow, "Workflow: quick, standard, deep, targeted, stealth, comprehensive")
	fs.StringVar(&cfg.PolicyFile, "policy", cfg.PolicyFile, "Custom workflow policy YAML file (overrides --workflow)")
	fs.StringVarP(&cfg.OutputDir, "out", "o", cfg.OutputDir, "Output directory")
	fs.BoolVar(&cfg.TableDisabled, "no-table", cfg.TableDisabled, "Disable table output (JSON is always written)")
	fs.StringSliceVar(&cfg.DisabledTools, "disable", cfg.DisabledTools, "Tools to disable (comma separated)")
	fs.StringVar(&cfg.DNSResolver, "resolver", cfg.DNSResolver, "DNS resolver address (host:port)")
	fs.IntVar(&cfg.MaxRetries, "retries", cfg.MaxRetries, "Override max attempts per tool invocation")
	fs.IntSliceVar(&cfg.Ports, "ports", cfg.Ports, "Override the port scan list (comma separated)")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Override per-stage concurrency")
	fs.DurationVar(&cfg.StealthDelay, "delay", cfg.StealthDelay, "Pause before each invocation (stealth)")
	fs.DurationVar(&cfg.StealthJitter, "jitter", cfg.StealthJitter, "Random spread applied to --delay")
	fs.DurationVar(&cfg.HTTPTimeout, "http-timeout", cfg.HTTPTimeout, "HTTP client timeout")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error, silent")
	fs.BoolVarP(&cfg.PrintVersion, "version", "V", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// A bare positional argument is taken as the target
	if cfg.Target == "" && fs.NArg() > 0 {
		cfg.Target = fs.Arg(0)
	}
	return nil
}

func normalize(c *Config) {
	c.Target = strings.TrimSpace(strings.ToLower(strings.TrimSuffix(c.Target, ".")))
	c.Workflow = strings.TrimSpace(strings.ToLower(c.Workflow))
	c.LogLevel = strings.TrimSpace(strings.ToLower(c.LogLevel))

	for i, tool := range c.DisabledTools {
		c.DisabledTools[i] = strings.TrimSpace(strings.ToLower(tool))
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.Workers < 0 {
		c.Workers = 0
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 30 * time.Second
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.PrintVersion {
		return nil
	}
	if c.Target == "" {
		return fmt.Errorf("target is required (use --target or RECONFLOW_TARGET)")
	}
	return nil
}

// DisabledSet returns the disabled tools as a lookup set.
func (c Config) DisabledSet() map[string]bool {
	set := make(map[string]bool, len(c.DisabledTools))
	for _, tool := range c.DisabledTools {
		if tool != "" {
			set[tool] = true
		}
	}
	return set
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return fallback
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return d
}

func parsePortList(s string) []int {
	out := make([]int, 0, 8)
	for _, p := range splitList(s) {
		if n := parseInt(p, 0); n >= 1 && n <= 65535 {
			out = append(out, n)
		}
	}
	return out
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
