// Command dnsserver runs the authoritative/forwarding UDP DNS server.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jroosing/udpdns/internal/config"
	"github.com/jroosing/udpdns/internal/helpers"
	"github.com/jroosing/udpdns/internal/logging"
	"github.com/jroosing/udpdns/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// cliFlags holds parsed command-line flag values.
type cliFlags struct {
	configPath string
	addr       string
	port       int
	resolver   string
	logLevel   string
}

func parseFlags() cliFlags {
	var f cliFlags
	flag.StringVar(&f.configPath, "config", "", "Path to an optional YAML config file")
	flag.StringVar(&f.addr, "addr", "", "Bind host (default 127.0.0.1)")
	flag.IntVar(&f.port, "port", 0, "Bind port (default 2053)")
	flag.StringVar(&f.resolver, "resolver", "", "Upstream resolver host:port; omit to answer with synthetic A records")
	flag.StringVar(&f.logLevel, "loglevel", "", "One of error|warn|info|debug|trace (default info)")
	flag.Parse()
	return f
}

func run() error {
	f := parseFlags()

	if f.port < 0 || f.port > 65535 {
		return fmt.Errorf("config: port %d must be 1..65535", f.port)
	}

	over := config.Overrides{
		Addr:     f.addr,
		Port:     int(helpers.ClampIntToUint16(f.port)),
		LogLevel: f.logLevel,
	}
	if f.resolver != "" {
		over.Resolver = &f.resolver
	}

	cfg, err := config.Load(f.configPath, over)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := logging.Configure(logging.Config{
		Level:            cfg.Logging.Level,
		Structured:       cfg.Logging.Structured,
		StructuredFormat: cfg.Logging.Format,
	})
	logger.Info("starting dns server", "addr", cfg.Addr(), "resolver", cfg.ResolverAddr())

	runner := server.NewRunner(logger)
	if err := runner.Run(cfg); err != nil {
		return fmt.Errorf("server exited with error: %w", err)
	}
	return nil
}
