package models

import "time"

// Booking records that a customer reserved a flat and started paying.
// One per flat; Paid only ever grows and is capped by TotalPayment.
type Booking struct {
	ProjectID    string    `gorm:"column:project_id;primaryKey" json:"projectId"`
	FlatID       string    `gorm:"column:flat_id;primaryKey" json:"flatId"`
	CustomerID   string    `gorm:"column:customer_id;not null" json:"customer_id"`
	CustomerName string    `gorm:"column:customer_name;not null" json:"customer_name"`
	TotalPayment float64   `gorm:"column:total_payment;type:decimal(18,2);not null" json:"totalPayment"`
	Paid         float64   `gorm:"column:paid;type:decimal(18,2);not null" json:"paid"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (Booking) TableName() string {
	return "booked_flats"
}
