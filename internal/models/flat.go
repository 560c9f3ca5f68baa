package models

import "time"

// Flat statuses. A flat with an attached latest invoice is at least booked;
// an approved loan forces sold regardless of the payment ratio.
const (
	FlatStatusFree   = "free"
	FlatStatusBooked = "booked"
	FlatStatusSold   = "sold"
)

// Flat is one sellable unit within a Project. FlatID is the composite
// block-floor-flatno key. The latest/root link fields point into the
// invoice and cancellation version chains; the indexed latest ids are how
// swap/detach locate a flat from a document id.
type Flat struct {
	ProjectID            string    `gorm:"column:project_id;primaryKey" json:"projectId"`
	FlatID               string    `gorm:"column:flat_id;primaryKey" json:"flatId"`
	Block                string    `gorm:"column:block;not null" json:"block"`
	Floor                int       `gorm:"column:floor;not null" json:"floor"`
	FlatNo               string    `gorm:"column:flatno;not null" json:"flatno"`
	Sqft                 float64   `gorm:"column:sqft" json:"sqft"`
	BHK                  int       `gorm:"column:bhk" json:"bhk"`
	Status               string    `gorm:"column:status;type:varchar(10);default:'free'" json:"status"`
	LoanApproved         bool      `gorm:"column:loan_approved;default:false" json:"loan_approved"`
	LatestInvoiceID      *string   `gorm:"column:latest_invoice_id;index" json:"latestInvoiceId"`
	RootInvoiceID        *string   `gorm:"column:root_invoice_id" json:"rootInvoiceId"`
	LatestCancellationID *string   `gorm:"column:latest_cancellation_id;index" json:"latestCancellationId"`
	RootCancellationID   *string   `gorm:"column:root_cancellation_id" json:"rootCancellationId"`
	CreatedAt            time.Time `json:"createdAt"`
}

func (Flat) TableName() string {
	return "project_flats"
}
