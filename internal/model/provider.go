package model

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// Category is a canonical service category tag shared by the catalog and the
// intent extractor.
type Category string

const (
	CategoryPlumber         Category = "plumber"
	CategoryElectrician     Category = "electrician"
	CategoryVeterinarian    Category = "veterinarian"
	CategoryHVAC            Category = "hvac"
	CategoryApplianceRepair Category = "appliance-repair"
	CategoryPetGrooming     Category = "pet-grooming"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryPlumber,
	CategoryElectrician,
	CategoryVeterinarian,
	CategoryHVAC,
	CategoryApplianceRepair,
	CategoryPetGrooming,
}

// IsValid reports whether c belongs to the fixed enumeration.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ServiceProvider represents a local service provider in the catalog
type ServiceProvider struct {
	ID           string    `json:"id" db:"id" yaml:"id" validate:"required"`
	Name         string    `json:"name" db:"name" yaml:"name" validate:"required"`
	Category     Category  `json:"category" db:"category" yaml:"category" validate:"required,category"`
	Location     string    `json:"location" db:"location" yaml:"location" validate:"required"`
	Rating       float64   `json:"rating" db:"rating" yaml:"rating" validate:"gte=0,lte=5"`
	ReviewCount  int       `json:"reviewCount" db:"review_count" yaml:"reviewCount" validate:"gte=0"`
	PriceRange   string    `json:"priceRange" db:"price_range" yaml:"priceRange"`
	Phone        string    `json:"phone" db:"phone" yaml:"phone"`
	Website      *string   `json:"website,omitempty" db:"website" yaml:"website,omitempty"`
	Services     JSONArray `json:"services" db:"services" yaml:"services"`
	Availability string    `json:"availability" db:"availability" yaml:"availability"`
	NeptuneScore float64   `json:"neptuneScore" db:"-" yaml:"-"` // Recomputed per search, never stored
	Description  string    `json:"description" db:"description" yaml:"description"`
	Specialties  JSONArray `json:"specialties" db:"specialties" yaml:"specialties"`
}

// City returns the lowercased first comma-separated segment of the location.
func (p ServiceProvider) City() string {
	city, _, _ := strings.Cut(strings.ToLower(p.Location), ",")
	return city
}

// Clone returns a deep copy so that callers never share slices with the catalog.
func (p ServiceProvider) Clone() ServiceProvider {
	clone := p
	if p.Website != nil {
		website := *p.Website
		clone.Website = &website
	}
	if p.Services != nil {
		clone.Services = append(JSONArray(nil), p.Services...)
	}
	if p.Specialties != nil {
		clone.Specialties = append(JSONArray(nil), p.Specialties...)
	}
	return clone
}

// JSONArray represents a JSON array field
type JSONArray []string

// Value implements driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return json.Unmarshal([]byte(value.(string)), j)
	}
	return json.Unmarshal(bytes, j)
}
