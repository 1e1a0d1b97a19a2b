package fridge

import "time"

// Item is a user-tracked food-inventory record used as a generation-time
// constraint. The generation workflow reads a snapshot and never writes back.
type Item struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Quantity       float64   `json:"quantity"`
	Unit           string    `json:"unit"`
	ExpirationDate time.Time `json:"expiration_date"`
	Category       string    `json:"category"`
}
