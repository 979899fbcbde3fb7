package forwarder

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jroosing/udpdns/internal/dns"
)

func listenLoopback(t *testing.T) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	require.NoError(t, err)
	return conn
}

func mustQuestion(t *testing.T) dns.Question {
	t.Helper()
	n, err := dns.NewName("example.com")
	require.NoError(t, err)
	return dns.Question{Name: n, QType: dns.TypeA, QClass: dns.ClassIN}
}

func TestClientQuerySuccess(t *testing.T) {
	upstream := listenLoopback(t)
	defer upstream.Close()

	q := mustQuestion(t)

	go func() {
		buf := make([]byte, 512)
		n, peer, err := upstream.ReadFromUDP(buf)
		if err != nil {
			return
		}
		req, err := dns.ReadMessage(buf[:n])
		if err != nil {
			return
		}
		resp := dns.Message{
			Header:    dns.Header{ID: req.Header.ID, Flags: dns.BuildFlags(true, 0, false, false, false, false, dns.RCodeNoError)},
			Questions: req.Questions,
			Answers: []dns.Answer{{
				Name: q.Name, Type: dns.TypeA, Class: dns.ClassIN, TTL: 60,
				RData: dns.RDataA{Addr: [4]byte{9, 9, 9, 9}},
			}},
		}
		b, err := resp.Marshal()
		if err != nil {
			return
		}
		_, _ = upstream.WriteToUDP(b, peer)
	}()

	c := &Client{Upstream: upstream.LocalAddr().String(), Timeout: time.Second}
	answers, err := c.Query(42, q)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, dns.RDataA{Addr: [4]byte{9, 9, 9, 9}}, answers[0].RData)
}

func TestClientQueryTimeout(t *testing.T) {
	upstream := listenLoopback(t)
	defer upstream.Close()

	go func() {
		buf := make([]byte, 512)
		_, _, _ = upstream.ReadFromUDP(buf) // read and never reply
	}()

	c := &Client{Upstream: upstream.LocalAddr().String(), Timeout: 100 * time.Millisecond}
	_, err := c.Query(1, mustQuestion(t))
	assert.ErrorIs(t, err, ErrUpstreamTimeout)
}

func TestClientQueryDropsMismatchedIDAndKeepsWaiting(t *testing.T) {
	upstream := listenLoopback(t)
	defer upstream.Close()

	q := mustQuestion(t)

	go func() {
		buf := make([]byte, 512)
		n, peer, err := upstream.ReadFromUDP(buf)
		if err != nil {
			return
		}
		req, err := dns.ReadMessage(buf[:n])
		if err != nil {
			return
		}

		wrong := dns.Message{
			Header:    dns.Header{ID: req.Header.ID + 1, Flags: dns.BuildFlags(true, 0, false, false, false, false, dns.RCodeNoError)},
			Questions: req.Questions,
		}
		wb, err := wrong.Marshal()
		if err == nil {
			_, _ = upstream.WriteToUDP(wb, peer)
		}

		right := dns.Message{
			Header:    dns.Header{ID: req.Header.ID, Flags: dns.BuildFlags(true, 0, false, false, false, false, dns.RCodeNoError)},
			Questions: req.Questions,
			Answers: []dns.Answer{{
				Name: q.Name, Type: dns.TypeA, Class: dns.ClassIN, TTL: 60,
				RData: dns.RDataA{Addr: [4]byte{2, 2, 2, 2}},
			}},
		}
		rb, err := right.Marshal()
		if err == nil {
			_, _ = upstream.WriteToUDP(rb, peer)
		}
	}()

	c := &Client{Upstream: upstream.LocalAddr().String(), Timeout: time.Second}
	answers, err := c.Query(5, q)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, dns.RDataA{Addr: [4]byte{2, 2, 2, 2}}, answers[0].RData)
}

func TestClientQueryWithUnsetTimeoutReturnsError(t *testing.T) {
	c := &Client{Upstream: "127.0.0.1:1"}
	_, err := c.Query(1, mustQuestion(t))
	assert.Error(t, err)
}

func TestNewUsesDefaultTimeout(t *testing.T) {
	c := New("127.0.0.1:53")
	assert.Equal(t, DefaultTimeout, c.Timeout)
	assert.Equal(t, "127.0.0.1:53", c.Upstream)
}
