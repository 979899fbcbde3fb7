// Package forwarder sends single-question DNS queries to an upstream
// resolver and waits for the matching reply.
package forwarder

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jroosing/udpdns/internal/dns"
)

// DefaultTimeout is how long a Client waits for an upstream reply when the
// caller doesn't configure one.
const DefaultTimeout = 2 * time.Second

// recvBufferSize is sized well above any response this server will ever
// decode; oversized replies are simply truncated by conn.Read like any
// other UDP read.
const recvBufferSize = 4096

var (
	// ErrUpstreamTimeout means no matching reply arrived before the deadline.
	ErrUpstreamTimeout = errors.New("forwarder: upstream timeout")
	// ErrUpstreamDecode means a reply arrived but failed to decode.
	ErrUpstreamDecode = errors.New("forwarder: upstream reply failed to decode")
)

// Client issues one-question sub-queries to a fixed upstream address.
type Client struct {
	Upstream string
	Timeout  time.Duration
}

// New returns a Client targeting upstream with the default timeout.
func New(upstream string) *Client {
	return &Client{Upstream: upstream, Timeout: DefaultTimeout}
}

// Query sends a single-question message built from q, using a fresh
// ephemeral socket bound to 0.0.0.0:0, and returns the answers from the
// first reply whose ID matches. Replies with a mismatched ID are dropped
// and waiting continues until the timeout. The socket is released before
// Query returns, on every path.
func (c *Client) Query(id uint16, q dns.Question) ([]dns.Answer, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	raddr, err := net.ResolveUDPAddr("udp", c.Upstream)
	if err != nil {
		return nil, fmt.Errorf("forwarder: resolve upstream %q: %w", c.Upstream, err)
	}

	conn, err := net.DialUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: 0}, raddr)
	if err != nil {
		return nil, fmt.Errorf("forwarder: dial upstream %q: %w", c.Upstream, err)
	}
	defer conn.Close()

	query := dns.Message{
		Header: dns.Header{
			ID:      id,
			Flags:   dns.BuildFlags(false, 0, false, false, true, false, dns.RCodeNoError),
			QDCount: 1,
		},
		Questions: []dns.Question{q},
	}
	reqBytes, err := query.Marshal()
	if err != nil {
		return nil, fmt.Errorf("forwarder: encode sub-query: %w", err)
	}

	deadline := time.Now().Add(timeout)
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("forwarder: set deadline: %w", err)
	}
	if _, err := conn.Write(reqBytes); err != nil {
		return nil, fmt.Errorf("forwarder: send sub-query: %w", err)
	}

	buf := make([]byte, recvBufferSize)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		}

		reply, err := dns.ReadMessage(buf[:n])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamDecode, err)
		}
		if reply.Header.ID != id {
			if time.Now().After(deadline) {
				return nil, ErrUpstreamTimeout
			}
			continue
		}
		return reply.Answers, nil
	}
}
