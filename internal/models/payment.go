package models

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentCustomer is the customer snapshot stored with each payment.
type PaymentCustomer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Payment is an append-only audit record; never mutated or deleted.
// ProjectFlatKey (projectId#flatId) is the per-flat history index.
type Payment struct {
	PaymentID      string                              `gorm:"column:payment_id;primaryKey" json:"paymentId"`
	ProjectFlatKey string                              `gorm:"column:project_flat_key;index;not null" json:"projectFlatKey"`
	ProjectID      string                              `gorm:"column:project_id;not null" json:"projectId"`
	ProjectName    string                              `gorm:"column:project_name" json:"projectName"`
	FlatID         string                              `gorm:"column:flat_id;not null" json:"flatId"`
	Customer       datatypes.JSONType[PaymentCustomer] `gorm:"column:customer" json:"customer"`
	Amount         float64                             `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Summary        string                              `gorm:"column:summary" json:"summary"`
	CreatedAt      time.Time                           `json:"createdAt"`
}

func (Payment) TableName() string {
	return "flat_payments"
}
