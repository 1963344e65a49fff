// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/danielhkuo/bet-draw/models"
)

// FieldKind tags one TLV field of a bet record.
type FieldKind byte

const (
	FieldFirstName FieldKind = iota + 1
	FieldLastName
	FieldDocument
	FieldBirthdate
	FieldNumber
)

// tlvHeaderSize is kind(1) + length(2).
const tlvHeaderSize = 3

var fieldKindNames = map[FieldKind]string{
	FieldFirstName: "first_name",
	FieldLastName:  "last_name",
	FieldDocument:  "document",
	FieldBirthdate: "birthdate",
	FieldNumber:    "number",
}

func (k FieldKind) String() string {
	if name, ok := fieldKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("FieldKind(%d)", byte(k))
}

// EncodeBet serializes the five bet fields in fixed order. Agency is not
// part of the record; it travels once per batch.
func EncodeBet(bet models.Bet) ([]byte, error) {
	fields := []struct {
		kind  FieldKind
		value string
	}{
		{FieldFirstName, bet.FirstName},
		{FieldLastName, bet.LastName},
		{FieldDocument, bet.Document},
		{FieldBirthdate, bet.Birthdate},
		{FieldNumber, bet.Number},
	}

	size := 0
	for _, f := range fields {
		size += tlvHeaderSize + len(f.value)
	}
	buf := make([]byte, 0, size)
	for _, f := range fields {
		if len(f.value) > math.MaxUint16 {
			return nil, fmt.Errorf("%w: %s has %d bytes", ErrFieldTooLong, f.kind, len(f.value))
		}
		buf = append(buf, byte(f.kind))
		buf = binary.BigEndian.AppendUint16(buf, uint16(len(f.value)))
		buf = append(buf, f.value...)
	}
	return buf, nil
}

// DecodeBet parses one TLV record. Any error aborts the whole record.
func DecodeBet(data []byte) (models.Bet, error) {
	var bet models.Bet
	offset := 0
	for offset < len(data) {
		if len(data)-offset < tlvHeaderSize {
			return models.Bet{}, fmt.Errorf("%w: field header at offset %d", ErrTruncated, offset)
		}
		kind := FieldKind(data[offset])
		length := int(binary.BigEndian.Uint16(data[offset+1:]))
		offset += tlvHeaderSize

		if len(data)-offset < length {
			return models.Bet{}, fmt.Errorf("%w: %s wants %d bytes, %d left", ErrTruncated, kind, length, len(data)-offset)
		}
		raw := data[offset : offset+length]
		offset += length
		if !utf8.Valid(raw) {
			return models.Bet{}, fmt.Errorf("%w: %s", ErrInvalidUTF8, kind)
		}
		value := string(raw)

		switch kind {
		case FieldFirstName:
			bet.FirstName = value
		case FieldLastName:
			bet.LastName = value
		case FieldDocument:
			bet.Document = value
		case FieldBirthdate:
			bet.Birthdate = value
		case FieldNumber:
			bet.Number = value
		default:
			return models.Bet{}, fmt.Errorf("%w: %d", ErrUnknownField, byte(kind))
		}
	}
	return bet, nil
}
