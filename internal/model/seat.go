package model

import (
	"encoding/json"
	"strings"
)

// SeatStatus is the availability state of one seat in a flight's seat map.
type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "AVAILABLE"
	SeatStatusBooked    SeatStatus = "BOOKED"
)

// UnmarshalJSON normalizes the status on load; the Inventory Service has been
// observed emitting both "AVAILABLE" and "available".
func (s *SeatStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = SeatStatus(strings.ToUpper(raw))
	return nil
}

// Seat is one entry in a flight's seat map. The seat map is a snapshot: it is
// discarded and refetched whenever the selected flight changes or after any
// mutating operation.
type Seat struct {
	SeatLabel string     `json:"seatLabel"`
	Status    SeatStatus `json:"status"`
}

// Available reports whether the seat can be included in a new hold.
func (s Seat) Available() bool {
	return s.Status == SeatStatusAvailable
}
