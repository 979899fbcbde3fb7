package server

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jroosing/udpdns/internal/config"
	"github.com/jroosing/udpdns/internal/forwarder"
)

// stopTimeout bounds how long graceful shutdown waits for in-flight
// handlers and the writer goroutine to drain after the listening socket
// closes.
const stopTimeout = 5 * time.Second

// Runner orchestrates the DNS server startup, configuration, and shutdown.
type Runner struct {
	logger *slog.Logger
}

// NewRunner creates a new server runner with the given logger.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run binds the listening socket described by cfg and serves datagrams
// until a shutdown signal (SIGINT/SIGTERM) arrives or the socket fails.
// Server lifecycle:
//  1. Build the query handler (synthetic answers, or per-question
//     forwarding if cfg.Resolver is set).
//  2. Bind the single listening socket and start the single-writer mailbox.
//  3. Wait for a shutdown signal or a fatal socket error.
//  4. Gracefully stop, waiting for in-flight handlers to finish.
func (r *Runner) Run(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	h := &QueryHandler{
		Logger:   r.logger,
		Resolver: cfg.ResolverAddr(),
		Timeout:  forwarder.DefaultTimeout,
	}

	addr := cfg.Addr()
	r.logStartup(cfg, addr)

	udp := &UDPServer{Logger: r.logger, Handler: h}

	errCh := make(chan error, 1)
	go func() { errCh <- udp.Run(ctx, addr) }()

	select {
	case <-ctx.Done():
		// shutdown requested via signal
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	return udp.Stop(stopTimeout)
}

func (r *Runner) logStartup(cfg *config.Config, addr string) {
	if r.logger == nil {
		return
	}
	r.logger.Info("dns listening",
		"addr", addr,
		"resolver", cfg.ResolverAddr(),
		"forwarding", cfg.HasResolver(),
	)
}
