package models

import (
	"time"

	"gorm.io/datatypes"
)

// Cancellation is one version of a cancellation voucher. Versions belong to
// the invoice chain named by InvID and are ordered by the Version ordinal;
// the unique (inv_id, version) index rejects duplicate ordinals so the
// min/max-version resolution is deterministic.
type Cancellation struct {
	ID              string                              `gorm:"column:id;primaryKey" json:"_id"`
	InvID           string                              `gorm:"column:inv_id;uniqueIndex:idx_cancellations_inv_version;not null" json:"inv_id"`
	Version         int                                 `gorm:"column:version;uniqueIndex:idx_cancellations_inv_version;not null" json:"version"`
	Customer        datatypes.JSONType[InvoiceCustomer] `gorm:"column:customer" json:"customer"`
	NetReturn       float64                             `gorm:"column:net_return;type:decimal(18,2)" json:"net_return"`
	AlreadyReturned float64                             `gorm:"column:already_returned;type:decimal(18,2)" json:"already_returned"`
	YetToBeReturned float64                             `gorm:"column:yet_to_be_returned;type:decimal(18,2)" json:"yetTB_returned"`
	CreatedAt       time.Time                           `json:"createdAt"`
}

func (Cancellation) TableName() string {
	return "cancellations"
}
