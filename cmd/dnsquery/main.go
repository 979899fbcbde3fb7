// Command dnsquery is a small diagnostic client: it sends a single-question
// query to a DNS server over UDP and prints the decoded response.
package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"net"
	"os"
	"strings"
	"time"

	"github.com/jroosing/udpdns/internal/dns"
)

func main() {
	var (
		server   = flag.String("server", "127.0.0.1:2053", "DNS server HOST:PORT")
		name     = flag.String("name", "example.com", "Query name")
		qtype    = flag.Uint("qtype", uint(dns.TypeA), "Query type (numeric, A=1)")
		timeout  = flag.Duration("timeout", 2*time.Second, "Timeout")
		recvSize = flag.Int("recv-size", 2048, "UDP receive buffer size")
		quiet    = flag.Bool("quiet", false, "Suppress output (exit status indicates success)")
	)
	flag.Parse()

	resp, err := queryUDP(*server, *name, uint16(*qtype), *timeout, *recvSize)
	if err != nil {
		if !*quiet {
			fmt.Fprintf(os.Stderr, "dnsquery error: %v\n", err)
		}
		os.Exit(1)
	}
	if *quiet {
		return
	}

	msg, err := dns.ReadMessage(resp)
	if err != nil {
		fmt.Printf("received %d bytes (unparseable: %v)\n", len(resp), err)
		return
	}

	fmt.Printf("id=%d rcode=%d questions=%d answers=%d\n",
		msg.Header.ID, msg.Header.RCode(), len(msg.Questions), len(msg.Answers))
	for _, a := range msg.Answers {
		fmt.Println(formatAnswer(a))
	}
}

func queryUDP(server, name string, qtype uint16, timeout time.Duration, recvSize int) ([]byte, error) {
	addr, err := net.ResolveUDPAddr("udp", server)
	if err != nil {
		return nil, err
	}
	c, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	reqBytes, err := buildQuery(name, qtype)
	if err != nil {
		return nil, err
	}
	_ = c.SetDeadline(time.Now().Add(timeout))
	if _, err := c.Write(reqBytes); err != nil {
		return nil, err
	}
	buf := make([]byte, recvSize)
	n, err := c.Read(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

func buildQuery(name string, qtype uint16) ([]byte, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("name required")
	}
	qname, err := dns.NewName(strings.TrimSuffix(name, "."))
	if err != nil {
		return nil, err
	}
	qt, err := dns.ParseQType(qtype)
	if err != nil {
		return nil, err
	}

	msg := dns.Message{
		Header: dns.Header{
			ID:      uint16(rand.IntN(1 << 16)),
			Flags:   dns.BuildFlags(false, 0, false, false, true, false, dns.RCodeNoError),
			QDCount: 1,
		},
		Questions: []dns.Question{{Name: qname, QType: qt, QClass: dns.ClassIN}},
	}
	return msg.Marshal()
}

func formatAnswer(a dns.Answer) string {
	name := a.Name.String()
	if rdata, ok := a.RData.(dns.RDataA); ok {
		b := rdata.Addr
		return fmt.Sprintf("%s %d IN A %d.%d.%d.%d", name, a.TTL, b[0], b[1], b[2], b[3])
	}
	return fmt.Sprintf("%s %d IN %s (unparsed rdata)", name, a.TTL, a.Type)
}
