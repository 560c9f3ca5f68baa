package models

import "time"

// Project is one construction project. The apartment counters are
// denormalized aggregates over the project's Flats and are mutated by the
// flat status engine; they are not transactional with flat writes.
type Project struct {
	ProjectID        string    `gorm:"column:project_id;primaryKey" json:"projectId"`
	Name             string    `gorm:"column:name;not null" json:"name"`
	TotalApartments  int       `gorm:"column:total_apartments;not null" json:"totalApartments"`
	TotalBlocks      int       `gorm:"column:total_blocks;not null" json:"totalBlocks"`
	SoldApartments   int       `gorm:"column:sold_apartments;not null" json:"soldApartments"`
	FreeApartments   int       `gorm:"column:free_apartments;not null" json:"freeApartments"`
	BookedApartments int       `gorm:"column:booked_apartments;not null" json:"bookedApartments"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (Project) TableName() string {
	return "projects"
}
