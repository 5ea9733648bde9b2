package domain

import "time"

type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type ShiftTemplate struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	ShortCode string      `json:"shortCode"`
	Color     string      `json:"color"`
	Position  int32       `json:"position"`
	Ranges    []TimeRange `json:"ranges"`
	CreatedAt time.Time   `json:"createdAt"`
	Version   int32       `json:"-"`
}
