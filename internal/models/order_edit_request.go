package models

import "time"

type EditRequestStatus string

const (
	EditRequestRequested EditRequestStatus = "requested"
	EditRequestApproved  EditRequestStatus = "approved"
	EditRequestRejected  EditRequestStatus = "rejected"
)

// OrderEditRequest: kapanmış görünen siparişi tekrar düzenlemeye açma talebi.
// Onaylanınca sipariş edit_requested durumuna geçer ve editable=true olur.
type OrderEditRequest struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	OrderID uint  `gorm:"index;not null" json:"order_id"`
	Order   Order `json:"-"`

	RequestedBy uint   `gorm:"not null" json:"requested_by"`
	Reason      string `gorm:"size:255" json:"reason"`

	Status EditRequestStatus `gorm:"size:20;not null" json:"status"`

	ApprovedBy *uint      `json:"approved_by"`
	ApprovedAt *time.Time `json:"approved_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
