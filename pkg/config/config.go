package config

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the file/env/flag-merged server configuration. Flags win over
// env vars, env vars win over the config file.
type Config struct {
	Server struct {
		Address string `yaml:"address"`
		Port    int    `yaml:"port"`
	} `yaml:"server"`
	Session struct {
		// HistoryLimit bounds retained chat messages (FIFO eviction).
		// Q&A threads are deliberately unbounded.
		HistoryLimit int `yaml:"history_limit"`
		MaxTextLen   int `yaml:"max_text_len"`
		RateLimitMS  int `yaml:"rate_limit_ms"`
		StrikeLimit  int `yaml:"strike_limit"`
		// FlagThreshold is the distinct-voter count that removes a target.
		FlagThreshold int      `yaml:"flag_threshold"`
		Emojis        []string `yaml:"emojis"`
		// SystemNotice appends a synthetic chat notice on moderation removals.
		SystemNotice bool `yaml:"system_notice"`
	} `yaml:"session"`
	Admin struct {
		// Credential guards the kill switch. Empty disables kill entirely.
		Credential string `yaml:"credential"`
	} `yaml:"admin"`
	Facilitator struct {
		Enabled   bool     `yaml:"enabled"`
		Name      string   `yaml:"name"`
		CooldownS int      `yaml:"cooldown_s"`
		TickS     int      `yaml:"tick_s"`
		Cron      string   `yaml:"cron"`
		Script    []string `yaml:"script"`
	} `yaml:"facilitator"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// DefaultEmojis is the fixed reaction vocabulary used when the config file
// does not override it.
var DefaultEmojis = []string{"🎓", "💡", "🤝", "⭐", "📜"}

// DefaultScript is the facilitator's cyclic prompt list.
var DefaultScript = []string{
	"How do you see AI influencing moral decision-making in your field?",
	"What role does empathy play in the future of digital leadership?",
	"How can education systems adapt to the rapid pace of technological change?",
	"What is the biggest challenge for cross-cultural collaboration today?",
	"How do we maintain human connection in an increasingly virtual world?",
	"What defines 'scholarly excellence' in the age of artificial intelligence?",
	"Can leadership truly be taught, or is it an inherent trait enhanced by technology?",
}

const defaultFacilitatorName = "🤖 Session Facilitator"

// Default returns a config with every field at its documented default.
func Default() *Config {
	var c Config
	c.Session.HistoryLimit = 60
	c.Session.MaxTextLen = 500
	c.Session.RateLimitMS = 800
	c.Session.StrikeLimit = 5
	c.Session.FlagThreshold = 3
	c.Session.Emojis = append([]string{}, DefaultEmojis...)
	c.Session.SystemNotice = true
	c.Facilitator.Enabled = true
	c.Facilitator.Name = defaultFacilitatorName
	c.Facilitator.CooldownS = 180
	c.Facilitator.TickS = 5
	c.Facilitator.Script = append([]string{}, DefaultScript...)
	return &c
}

// Normalize fills zero-valued fields with defaults so partial config files
// behave predictably.
func (c *Config) Normalize() {
	d := Default()
	if c.Session.HistoryLimit <= 0 {
		c.Session.HistoryLimit = d.Session.HistoryLimit
	}
	if c.Session.MaxTextLen <= 0 {
		c.Session.MaxTextLen = d.Session.MaxTextLen
	}
	if c.Session.RateLimitMS <= 0 {
		c.Session.RateLimitMS = d.Session.RateLimitMS
	}
	if c.Session.StrikeLimit <= 0 {
		c.Session.StrikeLimit = d.Session.StrikeLimit
	}
	if c.Session.FlagThreshold <= 0 {
		c.Session.FlagThreshold = d.Session.FlagThreshold
	}
	if len(c.Session.Emojis) == 0 {
		c.Session.Emojis = append([]string{}, d.Session.Emojis...)
	}
	if c.Facilitator.Name == "" {
		c.Facilitator.Name = d.Facilitator.Name
	}
	if c.Facilitator.CooldownS <= 0 {
		c.Facilitator.CooldownS = d.Facilitator.CooldownS
	}
	if c.Facilitator.TickS <= 0 {
		c.Facilitator.TickS = d.Facilitator.TickS
	}
	if len(c.Facilitator.Script) == 0 {
		c.Facilitator.Script = append([]string{}, d.Facilitator.Script...)
	}
}

// Addr returns host:port for the HTTP server.
func (c *Config) Addr() string {
	addr := c.Server.Address
	if addr == "" {
		addr = "0.0.0.0"
	}
	p := c.Server.Port
	if p == 0 {
		p = 8080
	}
	return fmt.Sprintf("%s:%d", addr, p)
}

// RateWindow returns the spam-shield submission window.
func (c *Config) RateWindow() time.Duration {
	return time.Duration(c.Session.RateLimitMS) * time.Millisecond
}

// Cooldown returns the facilitator's minimum prompt interval.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.Facilitator.CooldownS) * time.Second
}

// Tick returns the facilitator's scheduler tick, always finer than the
// cooldown so the cooldown stays the effective cadence.
func (c *Config) Tick() time.Duration {
	return time.Duration(c.Facilitator.TickS) * time.Second
}

// Load reads and parses the YAML config at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// ParseCommandFlags defines and parses command-line flags and returns their
// values along with a map indicating which flags were explicitly set.
func ParseCommandFlags() (addr string, cfgPath string, setFlags map[string]bool) {
	addrPtr := flag.String("addr", ":8080", "HTTP listen address")
	cfgPtr := flag.String("config", "./config.yaml", "Path to config file")
	flag.Parse()
	setFlags = map[string]bool{}
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	return *addrPtr, *cfgPtr, setFlags
}

// ResolveConfigPath picks the config file path: an explicit flag wins,
// otherwise SESSIONHUB_CONFIG, otherwise the flag default.
func ResolveConfigPath(flagPath string, flagSet bool) string {
	if flagSet {
		return flagPath
	}
	if v := os.Getenv("SESSIONHUB_CONFIG"); v != "" {
		return v
	}
	return flagPath
}

// LoadEnvOverrides applies environment overrides onto cfg and reports
// whether any env var was used.
func LoadEnvOverrides(cfg *Config) bool {
	envUsed := false
	if v := os.Getenv("SESSIONHUB_ADDR"); v != "" {
		envUsed = true
		if h, p, err := net.SplitHostPort(v); err == nil {
			cfg.Server.Address = h
			if pi, err := strconv.Atoi(p); err == nil {
				cfg.Server.Port = pi
			}
		} else {
			cfg.Server.Address = v
		}
	}
	if v := os.Getenv("SESSIONHUB_ADMIN_CREDENTIAL"); v != "" {
		envUsed = true
		cfg.Admin.Credential = v
	}
	if v := os.Getenv("SESSIONHUB_LOG_LEVEL"); v != "" {
		envUsed = true
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SESSIONHUB_HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			envUsed = true
			cfg.Session.HistoryLimit = n
		}
	}
	if v := os.Getenv("SESSIONHUB_FACILITATOR_CRON"); v != "" {
		envUsed = true
		cfg.Facilitator.Cron = v
	}
	return envUsed
}

// LoadEffective loads the config file (if present), applies env overrides
// and returns the merged config plus whether env vars contributed.
func LoadEffective(path string) (*Config, bool, error) {
	cfg, err := Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg = Default()
		} else {
			return nil, false, err
		}
	}
	envUsed := LoadEnvOverrides(cfg)
	cfg.Normalize()
	return cfg, envUsed, nil
}
