// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MsgType is the 1-byte tag in front of every message.
type MsgType byte

const (
	MsgBatchBet        MsgType = 1
	MsgQuery           MsgType = 2
	MsgResponse        MsgType = 3 // batch ack, or winners once the draw is done
	MsgResponsePending MsgType = 4 // draw not run yet, empty payload
)

// MessageHeaderSize is the type tag plus the 4-byte length.
const MessageHeaderSize = 1 + FrameHeaderSize

// AgencyNumberSize is the width of an agency number on the wire.
const AgencyNumberSize = 4

var msgTypeNames = map[MsgType]string{
	MsgBatchBet:        "BATCH_BET",
	MsgQuery:           "QUERY",
	MsgResponse:        "RESPONSE",
	MsgResponsePending: "RESPONSE_PENDING",
}

// String returns a readable name, or UNKNOWN(<value>) for unmapped tags.
func (t MsgType) String() string {
	if name, ok := msgTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", byte(t))
}

// Known reports whether t is one of the defined message types.
func (t MsgType) Known() bool {
	_, ok := msgTypeNames[t]
	return ok
}

// Message is a typed envelope: [type:1][length:4][payload].
type Message struct {
	Type    MsgType
	Payload []byte
}

// ReadMessage reads one message. Unknown tags are returned as-is; callers
// decide what to do with them.
func ReadMessage(r io.Reader) (Message, error) {
	var header [MessageHeaderSize]byte
	if err := readExact(r, header[:]); err != nil {
		return Message{}, err
	}
	payload, err := readBody(r, binary.BigEndian.Uint32(header[1:]))
	if err != nil {
		return Message{}, err
	}
	return Message{Type: MsgType(header[0]), Payload: payload}, nil
}

// WriteMessage writes m with the same retry discipline as WriteFrame.
func WriteMessage(w io.Writer, m Message) error {
	return writeFull(w, m.Bytes())
}

// Bytes returns the wire form of m.
func (m Message) Bytes() []byte {
	buf := make([]byte, 0, MessageHeaderSize+len(m.Payload))
	buf = append(buf, byte(m.Type))
	return AppendFrame(buf, m.Payload)
}

// NewQuery builds the winners query of an agency.
func NewQuery(agency uint32) Message {
	return Message{Type: MsgQuery, Payload: binary.BigEndian.AppendUint32(nil, agency)}
}

// ParseAgency reads the leading agency number of a payload.
func ParseAgency(payload []byte) (uint32, error) {
	if len(payload) < AgencyNumberSize {
		return 0, fmt.Errorf("%w: %d bytes", ErrInvalidAgency, len(payload))
	}
	return binary.BigEndian.Uint32(payload[:AgencyNumberSize]), nil
}

// EncodeWinners packs document numbers as consecutive 4-byte integers.
func EncodeWinners(documents []uint32) []byte {
	buf := make([]byte, 0, 4*len(documents))
	for _, d := range documents {
		buf = binary.BigEndian.AppendUint32(buf, d)
	}
	return buf
}

// DecodeWinners is the inverse of EncodeWinners.
func DecodeWinners(payload []byte) ([]uint32, error) {
	if len(payload)%4 != 0 {
		return nil, fmt.Errorf("%w: winners payload of %d bytes", ErrTruncated, len(payload))
	}
	winners := make([]uint32, 0, len(payload)/4)
	for i := 0; i < len(payload); i += 4 {
		winners = append(winners, binary.BigEndian.Uint32(payload[i:i+4]))
	}
	return winners, nil
}
