package model

// SearchRequest represents a search query request
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
}

// SearchResponse represents a search result response
type SearchResponse struct {
	Providers []ServiceProvider `json:"providers"`
	Summary   string            `json:"summary"`
	Query     string            `json:"query"`
	Location  string            `json:"location,omitempty"`
	Category  Category          `json:"category,omitempty"`
	MaxPrice  *int              `json:"maxPrice,omitempty"`
	Took      int64             `json:"tookMs"` // Response time in milliseconds
}

// ErrorResponse is returned for any non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
}

// CategoryInfo describes one entry of the category enumeration
type CategoryInfo struct {
	Category  Category `json:"category"`
	Label     string   `json:"label"`
	Providers int      `json:"providers"`
}
