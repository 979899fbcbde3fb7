package dns

import (
	"fmt"
	"net"
)

// RData is the resource-record data carried by an Answer. The server only
// ever constructs A records itself; RDataA is the sole concrete form.
type RData interface {
	rdata()
	Marshal(w *Writer)
	Len() int
}

// RDataA is the 4-byte IPv4 address RDATA of an A record (RFC 1035 Section
// 3.4.1).
type RDataA struct {
	Addr [4]byte
}

func (RDataA) rdata() {}

// Marshal appends the 4 address bytes verbatim.
func (r RDataA) Marshal(w *Writer) { w.WriteBytes(r.Addr[:]) }

// Len is always 4 for an A record.
func (RDataA) Len() int { return 4 }

// NewRDataA builds RDataA from any net.IP with a usable 4-byte form. It returns an error for anything that doesn't reduce to
// exactly 4 bytes (e.g. an IPv6 address).
func NewRDataA(ip net.IP) (RDataA, error) {
	v4 := ip.To4()
	if v4 == nil {
		return RDataA{}, fmt.Errorf("%w: %s is not an IPv4 address", ErrUnsupportedRData, ip)
	}
	var r RDataA
	copy(r.Addr[:], v4)
	return r, nil
}

// Answer represents one resource record in a message's answer section
// (RFC 1035 Section 4.1.3). Only TypeA is understood by RData; an Answer
// decoded with any other QType carries a nil RData and is skipped by
// ReadMessage.
type Answer struct {
	Name     Name
	Type     QType
	Class    QClass
	TTL      uint32
	RDLength uint16
	RData    RData
}

// Marshal appends the answer's wire representation, recomputing RDLENGTH
// from the actual RData rather than trusting the struct's RDLength field.
func (a Answer) Marshal(w *Writer) error {
	if err := WriteName(w, a.Name); err != nil {
		return err
	}
	w.WriteU16(uint16(a.Type))
	w.WriteU16(uint16(a.Class))
	w.WriteU32(a.TTL)
	if a.RData == nil {
		return fmt.Errorf("%w: answer for %s has no rdata to encode", ErrUnsupportedRData, a.Name.String())
	}
	w.WriteU16(uint16(a.RData.Len()))
	a.RData.Marshal(w)
	return nil
}

// ReadAnswer decodes one resource record starting at the reader's cursor.
// For a recognized QType whose RDLENGTH doesn't match the RDATA this server
// understands, it returns ErrUnsupportedRData with the cursor already
// advanced past the record, so the caller can skip the record and keep
// decoding the rest of the message.
func ReadAnswer(r *Reader) (Answer, error) {
	name, err := ReadName(r)
	if err != nil {
		return Answer{}, err
	}
	rawType, err := r.ReadU16()
	if err != nil {
		return Answer{}, err
	}
	rawClass, err := r.ReadU16()
	if err != nil {
		return Answer{}, err
	}
	ttl, err := r.ReadU32()
	if err != nil {
		return Answer{}, err
	}
	rdlength, err := r.ReadU16()
	if err != nil {
		return Answer{}, err
	}
	rdata, err := r.ReadExact(int(rdlength))
	if err != nil {
		return Answer{}, err
	}

	a := Answer{Name: name, TTL: ttl, RDLength: rdlength}

	qtype, typeErr := ParseQType(rawType)
	if typeErr != nil {
		return a, typeErr
	}
	a.Type = qtype

	qclass, classErr := ParseQClass(rawClass)
	if classErr != nil {
		return a, classErr
	}
	a.Class = qclass

	if qtype != TypeA {
		return a, fmt.Errorf("%w: %s records are not decoded into rdata", ErrUnsupportedRData, qtype)
	}
	if rdlength != 4 {
		return a, fmt.Errorf("%w: A record rdlength %d, want 4", ErrUnsupportedRData, rdlength)
	}
	var addr [4]byte
	copy(addr[:], rdata)
	a.RData = RDataA{Addr: addr}
	return a, nil
}
