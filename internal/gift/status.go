// Package gift holds the gift lifecycle rules: status derivation from the
// santa flag and claim state, recipient-set diffing, and tag normalization.
// Everything here is pure; the store applies the results.
package gift

import "github.com/dougiefresh49/gift-tracker/internal/model"

// DeriveStatus computes a gift's status from its santa flag and claimer.
// The santa flag wins over a claim; a claim wins over nothing.
func DeriveStatus(isSanta bool, claimedByID *string) model.GiftStatus {
	if isSanta {
		return model.StatusSanta
	}
	if claimedByID != nil && *claimedByID != "" {
		return model.StatusClaimed
	}
	return model.StatusAvailable
}

// DeriveClaimStatus computes status from claim presence alone, ignoring the
// santa flag. Bulk updates that change the claimer without touching the santa
// flag use this rule.
func DeriveClaimStatus(claimedByID *string) model.GiftStatus {
	if claimedByID != nil && *claimedByID != "" {
		return model.StatusClaimed
	}
	return model.StatusAvailable
}
