// Package dns provides DNS protocol parsing, encoding, and message
// construction for the authoritative/forwarding UDP server.
package dns

import "fmt"

// DNS header flags and masks (RFC 1035 Section 4.1.1)
//
// The DNS header contains a 16-bit flags field with the following layout:
//
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	|QR|   Opcode  |AA|TC|RD|RA|     Z     |  RCODE  |
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	 15 14 13 12 11 10  9  8  7  6  5  4  3  2  1  0
//
// Bit positions (from MSB):
//   - Bit 15 (0x8000): QR - Query (0) or Response (1)
//   - Bits 14-11 (0x7800): OPCODE - Operation type (0=Query)
//   - Bit 10 (0x0400): AA - Authoritative Answer
//   - Bit 9 (0x0200): TC - Truncation (message was truncated)
//   - Bit 8 (0x0100): RD - Recursion Desired
//   - Bit 7 (0x0080): RA - Recursion Available
//   - Bits 6-4 (0x0070): Z - Reserved, must be zero
//   - Bits 3-0 (0x000F): RCODE - Response code
const (
	QRFlag     uint16 = 0x8000 // Query/Response: 1 = response, 0 = query
	OpcodeMask uint16 = 0x7800 // Bits 14-11: operation type (use >> 11 to extract)
	AAFlag     uint16 = 0x0400 // Authoritative Answer
	TCFlag     uint16 = 0x0200 // Truncation: message was truncated
	RDFlag     uint16 = 0x0100 // Recursion Desired
	RAFlag     uint16 = 0x0080 // Recursion Available
	ZMask      uint16 = 0x0070 // Bits 6-4: reserved, must be zero
	RCodeMask  uint16 = 0x000F // Bits 3-0: response code

	opcodeShift = 11
)

// QType is a DNS question/record type (RFC 1035 Section 3.2.2, RFC 3596).
type QType uint16

const (
	TypeA     QType = 1  // IPv4 address
	TypeNS    QType = 2  // Authoritative name server
	TypeCNAME QType = 5  // Canonical name (alias)
	TypePTR   QType = 12 // Domain name pointer (reverse DNS)
	TypeAAAA  QType = 28 // IPv6 address (RFC 3596)
	TypeSRV   QType = 33 // Service locator
)

// String renders the numeric type using its mnemonic when recognized.
func (t QType) String() string {
	switch t {
	case TypeA:
		return "A"
	case TypeNS:
		return "NS"
	case TypeCNAME:
		return "CNAME"
	case TypePTR:
		return "PTR"
	case TypeAAAA:
		return "AAAA"
	case TypeSRV:
		return "SRV"
	default:
		return fmt.Sprintf("TYPE%d", uint16(t))
	}
}

// ParseQType validates a wire QTYPE value against the recognized set.
func ParseQType(v uint16) (QType, error) {
	switch QType(v) {
	case TypeA, TypeNS, TypeCNAME, TypePTR, TypeAAAA, TypeSRV:
		return QType(v), nil
	default:
		return 0, fmt.Errorf("%w: qtype %d", ErrUnsupportedType, v)
	}
}

// QClass is a DNS question/record class (RFC 1035 Section 3.2.4).
type QClass uint16

const (
	ClassIN QClass = 1 // Internet
	ClassCS QClass = 2 // CSNET (obsolete)
	ClassCH QClass = 3 // Chaos
	ClassHS QClass = 4 // Hesiod
)

func (c QClass) String() string {
	switch c {
	case ClassIN:
		return "IN"
	case ClassCS:
		return "CS"
	case ClassCH:
		return "CH"
	case ClassHS:
		return "HS"
	default:
		return fmt.Sprintf("CLASS%d", uint16(c))
	}
}

// ParseQClass validates a wire QCLASS value against the recognized set.
func ParseQClass(v uint16) (QClass, error) {
	switch QClass(v) {
	case ClassIN, ClassCS, ClassCH, ClassHS:
		return QClass(v), nil
	default:
		return 0, fmt.Errorf("%w: qclass %d", ErrUnsupportedClass, v)
	}
}

// RCode is a DNS response code (RFC 1035 Section 4.1.1).
type RCode uint16

const (
	RCodeNoError RCode = 0 // No error
	RCodeNotImp  RCode = 4 // Not implemented: unsupported opcode
)

// RCodeFromFlags extracts the response code from the header flags field.
func RCodeFromFlags(flags uint16) RCode {
	return RCode(flags & RCodeMask)
}

// OpcodeFromFlags extracts the 4-bit opcode from the header flags field.
func OpcodeFromFlags(flags uint16) uint16 {
	return (flags & OpcodeMask) >> opcodeShift
}
