package model

import "time"

// FacilityStatus is the lifecycle stage of a recycling facility.
type FacilityStatus string

const (
	StatusOperational  FacilityStatus = "operational"
	StatusConstruction FacilityStatus = "construction"
	StatusPlanned      FacilityStatus = "planned"
	StatusApproved     FacilityStatus = "approved"
	StatusSuspended    FacilityStatus = "suspended"
)

// Valid reports whether s belongs to the fixed vocabulary.
func (s FacilityStatus) Valid() bool {
	switch s {
	case StatusOperational, StatusConstruction, StatusPlanned, StatusApproved, StatusSuspended:
		return true
	}
	return false
}

// Facility is a lithium-battery recycling plant.
// Production is free text such as "10 000+ tonnes of black mass per year".
type Facility struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Location   string         `json:"location"`
	Country    string         `json:"country"`
	Latitude   float64        `json:"latitude"`
	Longitude  float64        `json:"longitude"`
	Status     FacilityStatus `json:"status"`
	Production string         `json:"production"`
	Processing string         `json:"processing"`
	Notes      string         `json:"notes"`
	Website    string         `json:"website"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
