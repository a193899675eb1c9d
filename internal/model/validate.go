package model

import (
	"fmt"
	"strings"
)

// ValidationError describes malformed input caught before any write. No
// partial state change occurs when one is returned.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}

// ValidateGift checks the structural constraints on gift input before it
// reaches storage: non-empty name, non-negative price, well-formed enums, and
// at least one recipient.
func ValidateGift(name string, price float64, giftType GiftType, returnStatus ReturnStatus, recipientCount int) error {
	if strings.TrimSpace(name) == "" {
		return invalid("name", "must not be empty")
	}
	if price < 0 {
		return invalid("price", "must not be negative")
	}
	if !ValidGiftType(giftType) {
		return invalid("gift_type", fmt.Sprintf("unknown gift type %q", giftType))
	}
	if !ValidReturnStatus(returnStatus) {
		return invalid("return_status", fmt.Sprintf("unknown return status %q", returnStatus))
	}
	if recipientCount == 0 {
		return invalid("recipients", "at least one recipient is required")
	}
	return nil
}

func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name", "must not be empty")
	}
	return nil
}

func (b *Budget) Validate() error {
	if b.GifterID == "" {
		return invalid("gifter_id", "is required")
	}
	if b.RecipientID == "" {
		return invalid("recipient_id", "is required")
	}
	if b.LimitAmount < 0 {
		return invalid("limit_amount", "must not be negative")
	}
	return nil
}

func (r *Reconciliation) Validate() error {
	if r.GifterID == "" {
		return invalid("gifter_id", "is required")
	}
	if r.RecipientID == "" {
		return invalid("recipient_id", "is required")
	}
	if r.PurchaserID == "" {
		return invalid("purchaser_id", "is required")
	}
	if r.Amount < 0 {
		return invalid("amount", "must not be negative")
	}
	if !ValidTransactionType(r.TransactionType) {
		return invalid("transaction_type", fmt.Sprintf("unknown transaction type %q", r.TransactionType))
	}
	return nil
}
