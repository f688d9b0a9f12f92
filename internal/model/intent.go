package model

// SearchIntent represents the structured intent extracted from a free-text query
type SearchIntent struct {
	Location      string   `json:"location"`
	Category      Category `json:"category"`
	MaxPrice      *int     `json:"maxPrice,omitempty"`
	OriginalQuery string   `json:"originalQuery"`
}
