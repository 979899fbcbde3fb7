package dns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustName(t *testing.T, dotted string) Name {
	t.Helper()
	n, err := NewName(dotted)
	require.NoError(t, err)
	return n
}

func TestMessageRoundTrip(t *testing.T) {
	m := Message{
		Header: Header{
			ID:    0x04D2,
			Flags: BuildFlags(false, 0, false, false, true, false, RCodeNoError),
		},
		Questions: []Question{
			{Name: mustName(t, "codecrafters.io"), QType: TypeA, QClass: ClassIN},
		},
		Answers: []Answer{
			{
				Name:  mustName(t, "codecrafters.io"),
				Type:  TypeA,
				Class: ClassIN,
				TTL:   3600,
				RData: RDataA{Addr: [4]byte{8, 8, 8, 8}},
			},
		},
	}

	encoded, err := m.Marshal()
	require.NoError(t, err)

	decoded, err := ReadMessage(encoded)
	require.NoError(t, err)

	assert.Equal(t, m.Header.ID, decoded.Header.ID)
	require.Len(t, decoded.Questions, 1)
	assert.True(t, m.Questions[0].Name.Equal(decoded.Questions[0].Name))
	require.Len(t, decoded.Answers, 1)
	assert.Equal(t, m.Answers[0].RData, decoded.Answers[0].RData)
}

// TestMinimalQueryResponseBytes pins exact wire bytes: a fixed request
// decodes to the expected question, and a synthetic-answer response built
// from it encodes to the expected header and answer bytes.
func TestMinimalQueryResponseBytes(t *testing.T) {
	reqBytes := []byte{
		0x04, 0xD2, 0x01, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x0C, 0x63, 0x6F, 0x64, 0x65, 0x63, 0x72, 0x61, 0x66, 0x74, 0x65, 0x72, 0x73, 0x02, 0x69, 0x6F, 0x00,
		0x00, 0x01, 0x00, 0x01,
	}

	req, err := ReadMessage(reqBytes)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x04D2), req.Header.ID)
	require.Len(t, req.Questions, 1)
	assert.Equal(t, "codecrafters.io", req.Questions[0].Name.String())
	assert.Equal(t, TypeA, req.Questions[0].QType)

	resp := Message{
		Header: Header{
			ID:    req.Header.ID,
			Flags: BuildFlags(true, req.Header.Opcode(), false, false, req.Header.RD(), false, RCodeNoError),
		},
		Questions: req.Questions,
		Answers: []Answer{
			{
				Name:  req.Questions[0].Name,
				Type:  TypeA,
				Class: ClassIN,
				TTL:   3600,
				RData: RDataA{Addr: [4]byte{8, 8, 8, 8}},
			},
		},
	}

	encoded, err := resp.Marshal()
	require.NoError(t, err)

	wantHeader := []byte{0x04, 0xD2, 0x81, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00}
	assert.Equal(t, wantHeader, encoded[:HeaderSize])

	wantAnswerTail := []byte{0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x0E, 0x10, 0x00, 0x04, 0x08, 0x08, 0x08, 0x08}
	assert.Equal(t, wantAnswerTail, encoded[len(encoded)-len(wantAnswerTail):])
}

// TestPointerCompressedNameEchoedVerbatim: a pointer label decoded from
// one message survives a re-encode byte-for-byte.
func TestPointerCompressedNameEchoedVerbatim(t *testing.T) {
	reqBytes := []byte{
		0x00, 0x01, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x07, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 0x03, 'c', 'o', 'm', 0x00,
		0x00, 0x01, 0x00, 0x01,
		0xC0, 0x0C,
		0x00, 0x01, 0x00, 0x01,
	}

	req, err := ReadMessage(reqBytes)
	require.NoError(t, err)
	require.Len(t, req.Questions, 2)
	assert.True(t, req.Questions[1].Name.EndsWithPointer())
	assert.Equal(t, uint16(0x0C), req.Questions[1].Name.Labels[0].Pointer)

	resp := Message{
		Header:    Header{ID: req.Header.ID, Flags: BuildFlags(true, 0, false, false, false, false, RCodeNoError)},
		Questions: req.Questions,
	}
	encoded, err := resp.Marshal()
	require.NoError(t, err)

	pointerBytes := []byte{0xC0, 0x0C}
	idx := len(encoded) - len(pointerBytes) - 4 // 4 = qtype+qclass of the second question
	assert.Equal(t, pointerBytes, encoded[idx:idx+2])
}

func TestMessageMarshalZeroesAuthorityAndAdditional(t *testing.T) {
	m := Message{Header: Header{NSCount: 5, ARCount: 7}}
	encoded, err := m.Marshal()
	require.NoError(t, err)

	h, err := ReadHeader(NewReader(encoded))
	require.NoError(t, err)
	assert.Zero(t, h.NSCount)
	assert.Zero(t, h.ARCount)
}

func TestTruncateUnderLimitUnchanged(t *testing.T) {
	m := Message{
		Header:    Header{ID: 1},
		Questions: []Question{{Name: mustName(t, "example.com"), QType: TypeA, QClass: ClassIN}},
	}
	full, err := m.Marshal()
	require.NoError(t, err)

	truncated, err := m.Truncate()
	require.NoError(t, err)
	assert.Equal(t, full, truncated)

	h, err := ReadHeader(NewReader(truncated))
	require.NoError(t, err)
	assert.False(t, h.Flags&TCFlag != 0)
}

func TestTruncateOverLimitSetsTCAndDropsAnswers(t *testing.T) {
	q := Question{Name: mustName(t, "example.com"), QType: TypeA, QClass: ClassIN}
	m := Message{
		Header:    Header{ID: 1},
		Questions: []Question{q},
	}
	for i := 0; i < 50; i++ {
		m.Answers = append(m.Answers, Answer{
			Name:  q.Name,
			Type:  TypeA,
			Class: ClassIN,
			TTL:   60,
			RData: RDataA{Addr: [4]byte{1, 2, 3, byte(i)}},
		})
	}

	encoded, err := m.Truncate()
	require.NoError(t, err)
	assert.LessOrEqual(t, len(encoded), DefaultUDPPayloadSize)

	h, err := ReadHeader(NewReader(encoded))
	require.NoError(t, err)
	assert.True(t, h.Flags&TCFlag != 0, "expected TC bit set")

	decoded, err := ReadMessage(encoded)
	require.NoError(t, err)
	assert.Less(t, len(decoded.Answers), len(m.Answers))
	assert.Equal(t, uint16(len(decoded.Answers)), h.ANCount)
}

// TestReadMessageSkipsUnsupportedAnswers: a record type the server cannot
// represent is dropped, and the answers after it still decode.
func TestReadMessageSkipsUnsupportedAnswers(t *testing.T) {
	w := NewWriter()
	Header{ID: 7, ANCount: 2}.Marshal(w)

	cname := mustName(t, "alias.example.com")
	require.NoError(t, WriteName(w, cname))
	w.WriteU16(uint16(TypeCNAME))
	w.WriteU16(uint16(ClassIN))
	w.WriteU32(300)
	w.WriteU16(2)
	w.WriteBytes([]byte{0xC0, 0x0C})

	a := Answer{
		Name:  mustName(t, "example.com"),
		Type:  TypeA,
		Class: ClassIN,
		TTL:   60,
		RData: RDataA{Addr: [4]byte{1, 2, 3, 4}},
	}
	require.NoError(t, a.Marshal(w))

	m, err := ReadMessage(w.Bytes())
	require.NoError(t, err)
	require.Len(t, m.Answers, 1)
	assert.Equal(t, RDataA{Addr: [4]byte{1, 2, 3, 4}}, m.Answers[0].RData)
}

func TestReadMessageTruncatedQuestionSection(t *testing.T) {
	buf := []byte{0, 1, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0} // QDCount=1 but no question bytes follow
	_, err := ReadMessage(buf)
	assert.ErrorIs(t, err, ErrTruncated)
}
