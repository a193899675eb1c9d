package model

import "time"

type GiftStatus string

const (
	StatusAvailable GiftStatus = "available"
	StatusClaimed   GiftStatus = "claimed"
	StatusSanta     GiftStatus = "santa"
)

type GiftType string

const (
	GiftTypeItem     GiftType = "item"
	GiftTypeCash     GiftType = "cash"
	GiftTypeGiftCard GiftType = "gift_card"
)

type ReturnStatus string

const (
	ReturnNone     ReturnStatus = "NONE"
	ReturnToReturn ReturnStatus = "TO_RETURN"
	ReturnReturned ReturnStatus = "RETURNED"
)

// Gift is a trackable item, cash amount, or gift card. Status is derived from
// IsSanta and ClaimedByID; it is never set independently of those fields.
type Gift struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Price        float64      `json:"price"`
	ImageURL     string       `json:"image_url"`
	GiftType     GiftType     `json:"gift_type"`
	IsSanta      bool         `json:"is_santa"`
	Status       GiftStatus   `json:"status"`
	PurchaserID  *string      `json:"purchaser_id"`
	ClaimedByID  *string      `json:"claimed_by_id"`
	CreatedByID  *string      `json:"created_by_id"`
	ReturnStatus ReturnStatus `json:"return_status"`
	Recipients   []Profile    `json:"recipients"`
	Tags         []string     `json:"tags"`
	CreatedAt    time.Time    `json:"created_at"`
}

// RecipientIDs returns the ids of the gift's recipients in stored order.
func (g *Gift) RecipientIDs() []string {
	ids := make([]string, len(g.Recipients))
	for i, r := range g.Recipients {
		ids[i] = r.ID
	}
	return ids
}

// HasRecipient reports whether the profile is one of the gift's recipients.
func (g *Gift) HasRecipient(profileID string) bool {
	for _, r := range g.Recipients {
		if r.ID == profileID {
			return true
		}
	}
	return false
}

func ValidGiftType(t GiftType) bool {
	switch t {
	case GiftTypeItem, GiftTypeCash, GiftTypeGiftCard:
		return true
	}
	return false
}

func ValidReturnStatus(s ReturnStatus) bool {
	switch s {
	case ReturnNone, ReturnToReturn, ReturnReturned:
		return true
	}
	return false
}
