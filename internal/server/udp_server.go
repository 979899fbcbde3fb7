package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/jroosing/udpdns/internal/pool"
)

// mailboxCapacity bounds the writer's inbound channel so a burst of slow
// upstream fan-outs can't grow memory without limit; once full, a handler
// blocks on enqueue rather than dropping a response.
const mailboxCapacity = 100

// bufferPool reduces allocations for incoming UDP packets. Each buffer is
// sized comfortably above DefaultUDPPayloadSize since oversized datagrams
// are rare but not impossible on a real socket.
var bufferPool = pool.NewBuffers(4096)

// UDPServer binds one UDP socket and maps it one-to-one onto decoded
// messages: exactly one goroutine reads from the socket, exactly one
// goroutine writes to it, and they communicate only through the mailbox
// channel. This is the only shared-mutable resource in the design; every
// per-datagram handler is otherwise independent.
type UDPServer struct {
	Logger  *slog.Logger
	Handler *QueryHandler

	conn    *net.UDPConn
	mailbox chan outbound
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Run binds addr, starts the single writer goroutine, and then runs the
// receive loop until the socket is closed (Stop closes it); cancelling ctx
// stops the writer and in-flight handlers but does not interrupt a read
// that is already blocked. Each received datagram is handed to
// an independently spawned handler goroutine. A receive error is logged
// and the loop continues unless the socket itself is gone.
func (s *UDPServer) Run(ctx context.Context, addr string) error {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return err
	}
	s.conn = conn
	return s.RunOnConn(ctx, conn)
}

// RunOnConn runs the server on an already-bound connection. Useful for
// tests that want to control the socket directly.
func (s *UDPServer) RunOnConn(ctx context.Context, conn *net.UDPConn) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.cancel = cancel
	s.conn = conn
	s.mailbox = make(chan outbound, mailboxCapacity)

	s.wg.Add(1)
	go s.writeLoop(ctx)

	s.recvLoop(ctx)
	return nil
}

// recvLoop is the sole reader of the listening socket. It spawns one
// handler goroutine per datagram and never blocks waiting for a handler to
// finish.
func (s *UDPServer) recvLoop(ctx context.Context) {
	for {
		bufPtr := bufferPool.Get()
		buf := *bufPtr

		n, peer, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			bufferPool.Put(bufPtr)
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			if s.Logger != nil {
				s.Logger.Warn("udp receive error", "err", err)
			}
			continue
		}

		payload := make([]byte, n)
		copy(payload, buf[:n])
		bufferPool.Put(bufPtr)

		s.wg.Add(1)
		go s.handleDatagram(ctx, payload, peer)
	}
}

// handleDatagram runs one datagram through the QueryHandler and, if it
// produced a response, enqueues it for the writer. A handler is
// independently cancellable: if ctx is already done, the mailbox send is
// abandoned rather than blocking forever.
func (s *UDPServer) handleDatagram(ctx context.Context, payload []byte, peer *net.UDPAddr) {
	defer s.wg.Done()

	if s.Handler == nil {
		return
	}
	out, ok := s.Handler.Handle(ctx, payload, peer)
	if !ok {
		return
	}

	select {
	case s.mailbox <- out:
	case <-ctx.Done():
	}
}

// writeLoop is the sole writer of the listening socket, draining the
// mailbox in FIFO order.
func (s *UDPServer) writeLoop(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case out, ok := <-s.mailbox:
			if !ok {
				return
			}
			if _, err := s.conn.WriteToUDP(out.payload, out.addr); err != nil {
				if s.Logger != nil {
					s.Logger.Error("udp send error", "dst", out.addr, "err", err)
				}
			}
		}
	}
}

// Stop cancels the writer and any in-flight handlers, closes the listening
// socket to unblock the receive loop, and waits up to timeout for all of
// them to exit.
func (s *UDPServer) Stop(timeout time.Duration) error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.conn != nil {
		_ = s.conn.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return errors.New("udp server: timeout waiting for goroutines to exit")
	}
}
