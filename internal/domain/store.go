package domain

import "time"

// Store is a physical or virtual point of sale belonging to a business unit.
type Store struct {
	ID             int32      `json:"id"`
	BusinessUnitID int32      `json:"business_unit_id"`
	StoreID        int32      `json:"store_id"`
	Name           string     `json:"name"`
	ZoneID         *int32     `json:"zone_id"`
	ZoneName       *string    `json:"zone_name"`
	ChannelID      *int32     `json:"channel_id"`
	ChannelName    *string    `json:"channel_name"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
}
