package domain

// MenuItem is a catalog entry. IDs are small integers assigned by the store
// and never reused for the lifetime of the process.
type MenuItem struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Available   bool    `json:"available"`
	Spicy       bool    `json:"spicy"`
	Vegetarian  bool    `json:"vegetarian"`
	Rating      float64 `json:"rating"`
}
