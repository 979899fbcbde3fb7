// Package server implements the UDP DNS server: framing, per-datagram
// handling, and process lifecycle.
//
// Goroutine Model:
//
// The listening socket has exactly one reader and exactly one writer.
// The receive loop spawns one goroutine per received datagram, which calls
// Handle; a handler that needs
// to forward questions upstream fans out one goroutine per question and
// waits for all of them before responding.
//
// Error Handling:
//
// Codec errors are local to a datagram and never stop the server loop: a
// datagram that fails to decode or encode is logged (when a Logger is set)
// and dropped.
package server

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jroosing/udpdns/internal/dns"
	"github.com/jroosing/udpdns/internal/forwarder"
)

// fallbackTTL and fallbackAddr are the synthetic answer this server
// fabricates when no resolver is configured, or when a sub-query to a
// configured resolver fails. Per the design notes this is a test-harness
// concession, not a production resolution policy.
const fallbackTTL = 3600

var fallbackAddr = [4]byte{8, 8, 8, 8}

func syntheticAnswer(name dns.Name) dns.Answer {
	return dns.Answer{
		Name:     name,
		Type:     dns.TypeA,
		Class:    dns.ClassIN,
		TTL:      fallbackTTL,
		RDLength: 4,
		RData:    dns.RDataA{Addr: fallbackAddr},
	}
}

// QueryHandler turns one inbound datagram into one outbound datagram.
// Resolver is the upstream address to forward each question to; an empty
// Resolver means every question gets a synthetic answer.
type QueryHandler struct {
	Logger   *slog.Logger
	Resolver string
	Timeout  time.Duration
}

// outbound is an encoded, addressed response ready for the writer.
type outbound struct {
	payload []byte
	addr    *net.UDPAddr
}

// Handle decodes reqBytes, builds the response for it, and returns the
// bytes to send back to src. The second return value is false when the
// datagram could not be decoded at all, in which case the caller must drop
// it silently (no response is sent for a malformed datagram).
func (h *QueryHandler) Handle(ctx context.Context, reqBytes []byte, src *net.UDPAddr) (outbound, bool) {
	msg, err := dns.ReadMessage(reqBytes)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("dropping malformed datagram", "src", src, "err", err)
		}
		return outbound{}, false
	}

	resp := h.buildResponse(ctx, msg)
	payload, err := resp.Truncate()
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("failed to encode response", "id", msg.Header.ID, "err", err)
		}
		return outbound{}, false
	}
	return outbound{payload: payload, addr: src}, true
}

// buildResponse implements the DECODED state of the handler state machine:
// it echoes id/opcode/rd, rejects unsupported opcodes with NOTIMP, and
// otherwise fans out or synthesizes one answer per question.
func (h *QueryHandler) buildResponse(ctx context.Context, msg dns.Message) dns.Message {
	opcode := msg.Header.Opcode()
	rcode := dns.RCodeNoError
	if opcode != 0 {
		rcode = dns.RCodeNotImp
	}

	resp := dns.Message{
		Header: dns.Header{
			ID:    msg.Header.ID,
			Flags: dns.BuildFlags(true, opcode, false, false, msg.Header.RD(), false, rcode),
		},
		// The original questions are echoed verbatim, pointer labels
		// included, so compression references in the request stay valid
		// in the response.
		Questions: msg.Questions,
	}

	if opcode != 0 {
		return resp
	}

	resp.Answers = h.answersFor(ctx, msg.Questions)
	return resp
}

// answersFor is the FORWARDING* state: without a resolver it synthesizes
// directly; with one, it fans out a sub-query per question in parallel and
// falls back to a synthetic answer for any question whose sub-query fails.
func (h *QueryHandler) answersFor(ctx context.Context, questions []dns.Question) []dns.Answer {
	if h.Resolver == "" {
		answers := make([]dns.Answer, len(questions))
		for i, q := range questions {
			answers[i] = syntheticAnswer(q.Name)
		}
		return answers
	}

	perQuestion := make([][]dns.Answer, len(questions))
	client := &forwarder.Client{Upstream: h.Resolver, Timeout: h.Timeout}

	g, _ := errgroup.WithContext(ctx)
	for i, q := range questions {
		g.Go(func() error {
			sub, err := client.Query(subQueryID(), q)
			if err != nil || len(sub) == 0 {
				if err != nil && h.Logger != nil {
					h.Logger.Warn("upstream sub-query failed, using synthetic fallback",
						"qname", q.Name.String(), "err", err)
				}
				perQuestion[i] = []dns.Answer{syntheticAnswer(q.Name)}
				return nil
			}
			perQuestion[i] = sub
			return nil
		})
	}
	_ = g.Wait() // per-question errors are absorbed into the fallback above

	answers := make([]dns.Answer, 0, len(questions))
	for _, a := range perQuestion {
		answers = append(answers, a...)
	}
	return answers
}

// subQueryID picks a fresh 16-bit transaction ID for an outgoing sub-query.
func subQueryID() uint16 {
	return uint16(rand.IntN(1 << 16))
}
