package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentNotification is the form payload PayHere posts to the notify URL.
// It is validated once per call and never trusted before the signature check.
type PaymentNotification struct {
	MerchantID      string `form:"merchant_id"`
	OrderID         string `form:"order_id"`
	PaymentID       string `form:"payment_id"`
	Amount          string `form:"payhere_amount"`
	AmountFormatted string `form:"payhere_amount_formatted"`
	StatusCode      int    `form:"status_code"`
	Signature       string `form:"md5sig"`
}

// PayHere status codes.
const (
	PayHereStatusReceived    = 2
	PayHereStatusPending     = 0
	PayHereStatusCanceled    = -1
	PayHereStatusFailed      = -2
	PayHereStatusChargedback = -3
)

// Payment is the persisted record of a verified PayHere notification.
type Payment struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID          string    `gorm:"type:varchar(64);index;not null"`
	PayHerePaymentID string    `gorm:"type:varchar(64);uniqueIndex"`
	Amount           string    `gorm:"type:varchar(32);not null"` // decimal string as received
	AmountFormatted  string    `gorm:"type:varchar(32)"`
	StatusCode       int       `gorm:"not null"`
	Status           string    `gorm:"type:varchar(20);not null"`
	ReceivedAt       time.Time
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

// StatusFromCode maps a PayHere status code to the stored payment status.
func StatusFromCode(code int) string {
	switch code {
	case PayHereStatusReceived:
		return "received"
	case PayHereStatusPending:
		return "pending"
	case PayHereStatusCanceled:
		return "canceled"
	case PayHereStatusFailed:
		return "failed"
	case PayHereStatusChargedback:
		return "chargedback"
	default:
		return "unknown"
	}
}

// PaymentEvent is published after a verified notification is recorded.
type PaymentEvent struct {
	Type      string    `json:"type"` // e.g. "payment_received", "payment_failed"
	OrderID   string    `json:"order_id"`
	PaymentID string    `json:"payment_id"`
	Amount    string    `json:"amount"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
