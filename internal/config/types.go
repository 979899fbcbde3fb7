// Package config provides configuration loading for the DNS server using
// Viper. Configuration is loaded from an optional YAML file with
// environment variable and command-line flag overlays.
//
// Environment variables use the DNSSERVER_ prefix and underscore-separated
// keys:
//   - DNSSERVER_SERVER_ADDR  -> server.addr
//   - DNSSERVER_SERVER_PORT  -> server.port
//   - DNSSERVER_RESOLVER     -> resolver
//   - DNSSERVER_LOGGING_LEVEL -> logging.level
package config

// ServerConfig contains the listening endpoint.
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
	Port int    `yaml:"port" mapstructure:"port"`
}

// LoggingConfig contains logging settings. Format selects between "text"
// and "json" handler output when Structured is set.
type LoggingConfig struct {
	Level      string `yaml:"level"      mapstructure:"level"`
	Structured bool   `yaml:"structured" mapstructure:"structured"`
	Format     string `yaml:"format"     mapstructure:"format"`
}

// Config is the root configuration structure. Resolver is nil when the
// server should answer every question with the synthetic fallback record
// instead of forwarding it upstream.
type Config struct {
	Server   ServerConfig  `yaml:"server"   mapstructure:"server"`
	Resolver *string       `yaml:"resolver" mapstructure:"resolver"`
	Logging  LoggingConfig `yaml:"logging"  mapstructure:"logging"`
}

// Addr joins Server.Addr and Server.Port into a dial/listen address.
func (c *Config) Addr() string {
	return joinHostPort(c.Server.Addr, c.Server.Port)
}

// HasResolver reports whether an upstream resolver is configured.
func (c *Config) HasResolver() bool {
	return c.Resolver != nil && *c.Resolver != ""
}

// ResolverAddr returns the configured resolver address, or "" if none is set.
func (c *Config) ResolverAddr() string {
	if !c.HasResolver() {
		return ""
	}
	return *c.Resolver
}
