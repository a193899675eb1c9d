package gift

import "strings"

// DiffRecipients computes the set difference between a gift's current
// recipient ids and the desired set. Removals and additions are applied as
// two bulk operations instead of clearing and reinserting, which keeps churn
// low and avoids a window where the gift has zero recipients.
func DiffRecipients(current, desired []string) (toAdd, toRemove []string) {
	currentSet := make(map[string]bool, len(current))
	for _, id := range current {
		currentSet[id] = true
	}
	desiredSet := make(map[string]bool, len(desired))
	for _, id := range desired {
		desiredSet[id] = true
	}

	for _, id := range desired {
		if !currentSet[id] {
			toAdd = append(toAdd, id)
		}
	}
	for _, id := range current {
		if !desiredSet[id] {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRemove
}

// NormalizeTags trims surrounding whitespace from each tag. Tags that trim to
// the empty string are kept; filtering them would change the stored data
// shape the browser clients expect.
func NormalizeTags(tags []string) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = strings.TrimSpace(t)
	}
	return out
}
