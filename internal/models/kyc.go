package models

import "time"

// KYC review states.
const (
	KYCStatusPending  = "pending"
	KYCStatusApproved = "approved"
)

// KYCCustomer is an identity-verification record. Uniqueness is enforced by
// phone number, not by the primary key. The *_key fields reference uploaded
// documents in object storage and are best-effort deleted with the record.
type KYCCustomer struct {
	ID             string    `gorm:"column:id;primaryKey" json:"_id"`
	Name           string    `gorm:"column:name;not null" json:"name"`
	NormalizedName string    `gorm:"column:normalized_name;index" json:"normalized_name"`
	Phone          string    `gorm:"column:phone;uniqueIndex;not null" json:"phone"`
	Address        string    `gorm:"column:address" json:"address"`
	Aadhaar        string    `gorm:"column:aadhaar;not null" json:"aadhaar"`
	PAN            string    `gorm:"column:pan;not null" json:"pan"`
	NormalizedPAN  string    `gorm:"column:normalized_pan;index" json:"normalized_pan"`
	VoterID        string    `gorm:"column:voter_id" json:"voter_id"`
	OtherID        string    `gorm:"column:other_id" json:"other_id"`
	AadhaarKey     string    `gorm:"column:aadhaar_key" json:"aadhaar_key"`
	PANKey         string    `gorm:"column:pan_key" json:"pan_key"`
	VoterKey       string    `gorm:"column:voter_key" json:"voter_key"`
	OtherKey       string    `gorm:"column:other_key" json:"other_key"`
	Status         string    `gorm:"column:status;type:varchar(10);default:'pending'" json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (KYCCustomer) TableName() string {
	return "kyc_customers"
}
