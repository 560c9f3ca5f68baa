package models

import (
	"time"

	"gorm.io/datatypes"
)

// InvoiceCustomer is the customer snapshot carried on every invoice version.
type InvoiceCustomer struct {
	Name  string `json:"name"`
	PAN   string `json:"PAN"`
	Phone string `json:"phone"`
}

// Invoice is one version in an invoice chain. Versions form a simple path
// linked backwards via PreviousInvoiceID; the root has no back-link. The
// unique index on previous_invoice_id rejects a second version extending
// the same predecessor, so a chain can never branch.
type Invoice struct {
	ID                string                              `gorm:"column:id;primaryKey" json:"_id"`
	PreviousInvoiceID *string                             `gorm:"column:previous_invoice_id;uniqueIndex" json:"previousInvoiceId,omitempty"`
	Version           int                                 `gorm:"column:version;not null" json:"version"`
	TotalAmount       float64                             `gorm:"column:total_amount;type:decimal(18,2);not null" json:"totalAmount"`
	Advance           float64                             `gorm:"column:advance;type:decimal(18,2)" json:"advance"`
	Customer          datatypes.JSONType[InvoiceCustomer] `gorm:"column:customer" json:"customer"`
	CreatedAt         time.Time                           `json:"createdAt"`
}

func (Invoice) TableName() string {
	return "invoices"
}
