package ratelimit

import (
	"strconv"
	"strings"
	"time"
)

// Rule limits requests to one endpoint. A Path ending in "/" matches every
// path below it. A non-positive Limit means unlimited.
type Rule struct {
	Method string
	Path   string
	Limit  int
	Window time.Duration
	Burst  int // defaults to Limit when 0
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTimeout     time.Duration
	Allow           map[string]bool
	Deny            map[string]bool
	Rules           []Rule
}

// DefaultConfig returns the limits used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTimeout:     time.Hour,
		Allow:           map[string]bool{},
		Deny:            map[string]bool{},
		Rules:           DefaultRules(),
	}
}

// DefaultRules returns the per-endpoint limits. Document uploads are parsed
// and embedded on every call, so they get the tightest budget.
func DefaultRules() []Rule {
	return []Rule{
		{Method: "GET", Path: "/health", Limit: 0},
		{Method: "POST", Path: "/resumes/skills", Limit: 30, Window: time.Minute, Burst: 5},
		{Method: "POST", Path: "/recommendations", Limit: 120, Window: time.Minute, Burst: 20},
		{Method: "GET", Path: "/titles/similar", Limit: 300, Window: time.Minute, Burst: 30},
		{Method: "GET", Path: "/skills/normalize", Limit: 300, Window: time.Minute, Burst: 30},
	}
}

// LoadConfig reads SKILLGAP_RATE_LIMIT_* variables through getenv on top of
// DefaultConfig.
func LoadConfig(getenv func(string) string) *Config {
	cfg := DefaultConfig()
	if v, err := strconv.ParseBool(getenv("SKILLGAP_RATE_LIMIT_ENABLED")); err == nil {
		cfg.Enabled = v
	}
	if v, err := strconv.Atoi(getenv("SKILLGAP_RATE_LIMIT_DEFAULT_LIMIT")); err == nil {
		cfg.DefaultLimit = v
	}
	if v, err := time.ParseDuration(getenv("SKILLGAP_RATE_LIMIT_DEFAULT_WINDOW")); err == nil && v > 0 {
		cfg.DefaultWindow = v
	}
	if v, err := time.ParseDuration(getenv("SKILLGAP_RATE_LIMIT_CLEANUP_INTERVAL")); err == nil {
		cfg.CleanupInterval = v
	}
	cfg.Allow = parseIPList(getenv("SKILLGAP_RATE_LIMIT_ALLOW"))
	cfg.Deny = parseIPList(getenv("SKILLGAP_RATE_LIMIT_DENY"))
	return cfg
}

func parseIPList(list string) map[string]bool {
	out := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			out[ip] = true
		}
	}
	return out
}

// match returns the rule for method and path, exact paths before prefixes.
func (c *Config) match(method, path string) (Rule, bool) {
	for _, r := range c.Rules {
		if r.Method == method && r.Path == path {
			return r, true
		}
	}
	for _, r := range c.Rules {
		if r.Method == method && strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path) {
			return r, true
		}
	}
	return Rule{}, false
}
