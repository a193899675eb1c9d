package model

import "time"

type TransactionType string

const (
	TransactionIOU          TransactionType = "iou"
	TransactionCash         TransactionType = "cash"
	TransactionCheck        TransactionType = "check"
	TransactionBankTransfer TransactionType = "bank_transfer"
	TransactionTrade        TransactionType = "trade"
)

// Reconciliation records a payment settling a debt between a gifter and a
// purchaser for a recipient. The table is append-only: entries are a log,
// not a balance, and never mutate gift records.
type Reconciliation struct {
	ID              string          `json:"id"`
	GifterID        string          `json:"gifter_id"`
	RecipientID     string          `json:"recipient_id"`
	PurchaserID     string          `json:"purchaser_id"`
	Amount          float64         `json:"amount"`
	TransactionType TransactionType `json:"transaction_type"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
}

func ValidTransactionType(t TransactionType) bool {
	switch t {
	case TransactionIOU, TransactionCash, TransactionCheck, TransactionBankTransfer, TransactionTrade:
		return true
	}
	return false
}
