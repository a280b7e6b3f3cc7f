package model

// Flight represents one flight as returned by the Inventory Service.
// Flights are immutable once fetched; a refresh replaces the list wholesale.
type Flight struct {
	ID             int64     `json:"id"`
	Airline        string    `json:"airline"`
	FlightNo       string    `json:"flightNo"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	Depart         Timestamp `json:"depart"`
	Arrive         Timestamp `json:"arrive"`
	Price          float64   `json:"price"`
	SeatsAvailable int       `json:"seatsAvailable"`
}
