package model

// Budget is a per-(gifter, recipient) spending ceiling. Duplicate pairs are
// allowed; each row is reported independently.
type Budget struct {
	ID          string  `json:"id"`
	GifterID    string  `json:"gifter_id"`
	RecipientID string  `json:"recipient_id"`
	LimitAmount float64 `json:"limit_amount"`
}
