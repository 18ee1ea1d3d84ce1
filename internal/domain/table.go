package domain

// Table is referenced externally by its human-readable Number, not its ID.
type Table struct {
	ID        int    `json:"id"`
	Number    string `json:"number"`
	Seats     int    `json:"seats"`
	Available bool   `json:"available"`
}
