// Package config provides configuration loading and validation for the
// DNS server.
//
// Configuration is loaded with the following priority (highest to lowest):
//  1. Command-line flags (applied by the caller via Overrides)
//  2. Environment variables (DNSSERVER_* prefix)
//  3. YAML config file (if specified)
//  4. Hardcoded defaults
//
// All configuration is validated during Load() to ensure correctness early,
// per the server's "fatal on invalid address/port/resolver at startup"
// contract.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Overrides carries command-line flag values that take precedence over
// environment variables and the config file. A nil/zero field means "not
// set on the command line" and is left to the lower layers.
type Overrides struct {
	Addr     string
	Port     int
	Resolver *string
	LogLevel string
}

// Load loads configuration from an optional YAML file, environment
// variables, and the supplied CLI overrides, in that increasing order of
// precedence, then validates the result.
func Load(configPath string, over Overrides) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DNSSERVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configPath, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr: v.GetString("server.addr"),
			Port: v.GetInt("server.port"),
		},
		Logging: LoggingConfig{
			Level:      v.GetString("logging.level"),
			Structured: v.GetBool("logging.structured"),
			Format:     v.GetString("logging.format"),
		},
	}
	if s := v.GetString("resolver"); s != "" {
		cfg.Resolver = &s
	}

	applyOverrides(cfg, over)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "127.0.0.1")
	v.SetDefault("server.port", 2053)
	v.SetDefault("resolver", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.structured", false)
	v.SetDefault("logging.format", "text")
}

func applyOverrides(cfg *Config, over Overrides) {
	if over.Addr != "" {
		cfg.Server.Addr = over.Addr
	}
	if over.Port != 0 {
		cfg.Server.Port = over.Port
	}
	if over.Resolver != nil {
		if *over.Resolver == "" {
			cfg.Resolver = nil
		} else {
			cfg.Resolver = over.Resolver
		}
	}
	if over.LogLevel != "" {
		cfg.Logging.Level = over.LogLevel
	}
}

// validate enforces the bind address/port/resolver contract that makes
// startup fail fast rather than bind and then misbehave.
func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be 1..65535, got %d", cfg.Server.Port)
	}
	if net.ParseIP(cfg.Server.Addr) == nil {
		return fmt.Errorf("config: server.addr %q is not a valid IP address", cfg.Server.Addr)
	}
	if cfg.HasResolver() {
		host, port, err := net.SplitHostPort(*cfg.Resolver)
		if err != nil {
			return fmt.Errorf("config: resolver %q must be host:port: %w", *cfg.Resolver, err)
		}
		if host == "" {
			return errors.New("config: resolver host must not be empty")
		}
		if p, err := strconv.Atoi(port); err != nil || p <= 0 || p > 65535 {
			return fmt.Errorf("config: resolver port %q must be 1..65535", port)
		}
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Level)) {
	case "error", "warn", "info", "debug", "trace":
	default:
		return fmt.Errorf("config: logging.level %q must be one of error|warn|info|debug|trace", cfg.Logging.Level)
	}
	return nil
}

func joinHostPort(addr string, port int) string {
	return net.JoinHostPort(addr, strconv.Itoa(port))
}
