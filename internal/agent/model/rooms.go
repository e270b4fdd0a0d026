package model

type Room struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Capacity    int     `json:"capacity"`
	NightlyRate float64 `json:"nightly_rate"`
	Description string  `json:"description"`
	Available   bool    `json:"available"`
}

type RoomRate struct {
	RoomID      string  `json:"room_id"`
	NightlyRate float64 `json:"nightly_rate"`
	Nights      int     `json:"nights"`
	Total       float64 `json:"total"`
	Currency    string  `json:"currency"`
}
