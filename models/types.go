package models

import "time"

// Draw states
const (
	StateWaiting = "waiting"
	StateDrawn   = "drawn"
)

// BatchAck is the payload answered to every accepted batch.
const BatchAck = "OK\n"

// Domain types

// Bet is a single wager as submitted by an agency. Values are kept as the
// strings received on the wire; numeric interpretation happens at draw time.
type Bet struct {
	Agency    string `json:"agency"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Document  string `json:"document"`
	Birthdate string `json:"birthdate"` // ISO date, YYYY-MM-DD
	Number    string `json:"number"`
}

// Draw result types

// DrawSnapshot is the frozen outcome of the draw, persisted once.
type DrawSnapshot struct {
	ID         string              `json:"id" cbor:"1,keyasint"`
	ComputedAt time.Time           `json:"computed_at" cbor:"2,keyasint"`
	Threshold  uint32              `json:"threshold" cbor:"3,keyasint"`
	Finished   []uint32            `json:"finished" cbor:"4,keyasint"`
	Winners    map[uint32][]uint32 `json:"winners" cbor:"5,keyasint"`
	BetCount   int                 `json:"bet_count" cbor:"6,keyasint"`
}

// WinnersFor returns the winner documents of one agency, never nil.
func (s DrawSnapshot) WinnersFor(agency uint32) []uint32 {
	if w, ok := s.Winners[agency]; ok {
		return w
	}
	return []uint32{}
}
