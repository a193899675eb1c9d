package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/dougiefresh49/gift-tracker/internal/gift"
	"github.com/dougiefresh49/gift-tracker/internal/model"
)

type GiftStore struct {
	db *sql.DB
}

func NewGiftStore(db *sql.DB) *GiftStore {
	return &GiftStore{db: db}
}

// GiftInput carries the full field set for creating a gift.
type GiftInput struct {
	Name         string
	Price        float64
	ImageURL     string
	GiftType     model.GiftType
	IsSanta      bool
	PurchaserID  *string
	CreatedByID  *string
	ClaimedByID  *string
	ReturnStatus model.ReturnStatus
	RecipientIDs []string
	Tags         []string
}

// GiftUpdate carries the full field set for updating a gift. Tags is nil when
// the caller did not supply a tag list; a non-nil pointer replaces the whole
// tag set.
type GiftUpdate struct {
	Name         string
	Price        float64
	ImageURL     string
	GiftType     model.GiftType
	IsSanta      bool
	PurchaserID  *string
	ClaimedByID  *string
	ReturnStatus model.ReturnStatus
	RecipientIDs []string
	Tags         *[]string
}

// BulkGiftUpdate holds the sparse field set for a bulk update. Nil fields are
// left untouched on every targeted gift. For PurchaserID and ClaimedByID an
// empty string clears the reference.
type BulkGiftUpdate struct {
	RecipientIDs *[]string
	PurchaserID  *string
	IsSanta      *bool
	ReturnStatus *model.ReturnStatus
	ClaimedByID  *string
}

const giftCols = `id, name, price, image_url, gift_type, is_santa, status, purchaser_id, claimed_by_id, created_by_id, return_status, created_at`

func scanGift(scanner interface{ Scan(...any) error }) (*model.Gift, error) {
	var g model.Gift
	var imageURL, purchaserID, claimedByID, createdByID sql.NullString
	var isSanta int

	err := scanner.Scan(
		&g.ID, &g.Name, &g.Price, &imageURL, &g.GiftType, &isSanta, &g.Status,
		&purchaserID, &claimedByID, &createdByID, &g.ReturnStatus, &g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	g.IsSanta = isSanta != 0
	if imageURL.Valid {
		g.ImageURL = imageURL.String
	}
	if purchaserID.Valid {
		g.PurchaserID = &purchaserID.String
	}
	if claimedByID.Valid {
		g.ClaimedByID = &claimedByID.String
	}
	if createdByID.Valid {
		g.CreatedByID = &createdByID.String
	}
	return &g, nil
}

// nullableID maps "" and nil to SQL NULL so cleared references are stored as
// real nulls rather than empty strings.
func nullableID(id *string) sql.NullString {
	if id == nil || *id == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *id, Valid: true}
}

func nullableText(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Create inserts the gift row, then its recipient links, then its tag links.
// The sequence is deliberately not wrapped in a transaction: a failure after
// the first insert leaves a gift without recipients, matching the behavior
// other clients of this data set already tolerate.
func (s *GiftStore) Create(in GiftInput) (*model.Gift, error) {
	id := uuid.New().String()
	status := gift.DeriveStatus(in.IsSanta, in.ClaimedByID)

	_, err := s.db.Exec(
		`INSERT INTO gifts (id, name, price, image_url, gift_type, is_santa, status, purchaser_id, claimed_by_id, created_by_id, return_status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.Name, in.Price, nullableText(in.ImageURL), in.GiftType, boolToInt(in.IsSanta), status,
		nullableID(in.PurchaserID), nullableID(in.ClaimedByID), nullableID(in.CreatedByID),
		in.ReturnStatus, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert gift: %w", err)
	}

	for _, profileID := range in.RecipientIDs {
		if _, err := s.db.Exec(
			`INSERT INTO gift_recipients (gift_id, profile_id) VALUES (?, ?)`,
			id, profileID,
		); err != nil {
			return nil, fmt.Errorf("insert recipient: %w", err)
		}
	}

	for _, tag := range gift.NormalizeTags(in.Tags) {
		if _, err := s.db.Exec(
			`INSERT INTO gift_tags (id, gift_id, tag) VALUES (?, ?, ?)`,
			uuid.New().String(), id, tag,
		); err != nil {
			return nil, fmt.Errorf("insert tag: %w", err)
		}
	}

	return s.GetByID(id)
}

func (s *GiftStore) GetByID(id string) (*model.Gift, error) {
	row := s.db.QueryRow(`SELECT `+giftCols+` FROM gifts WHERE id = ?`, id)
	g, err := scanGift(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("gift %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get gift: %w", err)
	}

	if err := s.loadLinks([]*model.Gift{g}); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *GiftStore) List() ([]model.Gift, error) {
	rows, err := s.db.Query(`SELECT ` + giftCols + ` FROM gifts ORDER BY created_at ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list gifts: %w", err)
	}
	defer rows.Close()

	var gifts []*model.Gift
	for rows.Next() {
		g, err := scanGift(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gift: %w", err)
		}
		gifts = append(gifts, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadLinks(gifts); err != nil {
		return nil, err
	}

	out := make([]model.Gift, len(gifts))
	for i, g := range gifts {
		out[i] = *g
	}
	return out, nil
}

// loadLinks attaches recipients and tags to the given gifts.
func (s *GiftStore) loadLinks(gifts []*model.Gift) error {
	if len(gifts) == 0 {
		return nil
	}
	byID := make(map[string]*model.Gift, len(gifts))
	for _, g := range gifts {
		byID[g.ID] = g
	}

	rows, err := s.db.Query(
		`SELECT gr.gift_id, p.id, p.name, p.created_at
		 FROM gift_recipients gr
		 JOIN profiles p ON p.id = gr.profile_id
		 ORDER BY p.name ASC`)
	if err != nil {
		return fmt.Errorf("load recipients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var giftID string
		var p model.Profile
		if err := rows.Scan(&giftID, &p.ID, &p.Name, &p.CreatedAt); err != nil {
			return fmt.Errorf("scan recipient: %w", err)
		}
		if g, ok := byID[giftID]; ok {
			g.Recipients = append(g.Recipients, p)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	tagRows, err := s.db.Query(`SELECT gift_id, tag FROM gift_tags ORDER BY rowid ASC`)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var giftID, tag string
		if err := tagRows.Scan(&giftID, &tag); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		if g, ok := byID[giftID]; ok {
			g.Tags = append(g.Tags, tag)
		}
	}
	return tagRows.Err()
}

// Update rewrites the gift row with the submitted fields, re-deriving status
// from the santa flag and claimer, then diff-syncs recipients and, when a tag
// list was supplied, replaces the tag set.
func (s *GiftStore) Update(id string, u GiftUpdate) (*model.Gift, error) {
	existing, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	status := gift.DeriveStatus(u.IsSanta, u.ClaimedByID)
	_, err = s.db.Exec(
		`UPDATE gifts SET name = ?, price = ?, image_url = ?, gift_type = ?, is_santa = ?, status = ?, purchaser_id = ?, claimed_by_id = ?, return_status = ? WHERE id = ?`,
		u.Name, u.Price, nullableText(u.ImageURL), u.GiftType, boolToInt(u.IsSanta), status,
		nullableID(u.PurchaserID), nullableID(u.ClaimedByID), u.ReturnStatus, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update gift: %w", err)
	}

	var syncErr error
	if err := s.syncRecipients(id, existing.RecipientIDs(), u.RecipientIDs); err != nil {
		syncErr = multierr.Append(syncErr, err)
	}
	if u.Tags != nil {
		if err := s.replaceTags(id, *u.Tags); err != nil {
			syncErr = multierr.Append(syncErr, err)
		}
	}
	if syncErr != nil {
		return nil, &PartialBatchError{Op: "update gift", Err: syncErr}
	}

	return s.GetByID(id)
}

// syncRecipients applies the recipient-set diff as one bulk delete and
// per-row inserts. Both halves are attempted even if the first fails.
func (s *GiftStore) syncRecipients(giftID string, current, desired []string) error {
	toAdd, toRemove := gift.DiffRecipients(current, desired)
	if len(toAdd) == 0 && len(toRemove) == 0 {
		return nil
	}

	var errs error
	if len(toRemove) > 0 {
		placeholders := strings.Repeat("?, ", len(toRemove)-1) + "?"
		args := make([]any, 0, len(toRemove)+1)
		args = append(args, giftID)
		for _, id := range toRemove {
			args = append(args, id)
		}
		if _, err := s.db.Exec(
			`DELETE FROM gift_recipients WHERE gift_id = ? AND profile_id IN (`+placeholders+`)`,
			args...,
		); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("remove recipients: %w", err))
		}
	}

	for _, profileID := range toAdd {
		if _, err := s.db.Exec(
			`INSERT INTO gift_recipients (gift_id, profile_id) VALUES (?, ?)`,
			giftID, profileID,
		); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("add recipient %s: %w", profileID, err))
		}
	}
	return errs
}

// replaceTags drops the whole tag set and inserts the new one. Unlike
// recipients there is no diffing; the original clients always resubmit the
// full list.
func (s *GiftStore) replaceTags(giftID string, tags []string) error {
	var errs error
	if _, err := s.db.Exec(`DELETE FROM gift_tags WHERE gift_id = ?`, giftID); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("clear tags: %w", err))
	}
	for _, tag := range gift.NormalizeTags(tags) {
		if _, err := s.db.Exec(
			`INSERT INTO gift_tags (id, gift_id, tag) VALUES (?, ?, ?)`,
			uuid.New().String(), giftID, tag,
		); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("insert tag %q: %w", tag, err))
		}
	}
	return errs
}

// Delete removes a gift; recipient and tag links cascade with it.
func (s *GiftStore) Delete(id string) error {
	result, err := s.db.Exec(`DELETE FROM gifts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete gift: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("gift %s: %w", id, ErrNotFound)
	}
	return nil
}

// Claim marks the gift claimed by the given profile. Claiming an
// already-claimed gift succeeds and overwrites the earlier claimer; two
// racing claims resolve to whichever write lands last.
func (s *GiftStore) Claim(id, claimerID string) (*model.Gift, error) {
	result, err := s.db.Exec(
		`UPDATE gifts SET claimed_by_id = ?, status = ? WHERE id = ?`,
		claimerID, model.StatusClaimed, id,
	)
	if err != nil {
		return nil, fmt.Errorf("claim gift: %w", err)
	}
	if count, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	} else if count == 0 {
		return nil, fmt.Errorf("gift %s: %w", id, ErrNotFound)
	}
	return s.GetByID(id)
}

// Unclaim clears the claimer and sets the gift available. It intentionally
// ignores the santa flag, matching the behavior the browser clients rely on:
// an unclaimed santa gift shows as available until the next full update
// re-derives its status.
func (s *GiftStore) Unclaim(id string) (*model.Gift, error) {
	result, err := s.db.Exec(
		`UPDATE gifts SET claimed_by_id = NULL, status = ? WHERE id = ?`,
		model.StatusAvailable, id,
	)
	if err != nil {
		return nil, fmt.Errorf("unclaim gift: %w", err)
	}
	if count, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	} else if count == 0 {
		return nil, fmt.Errorf("gift %s: %w", id, ErrNotFound)
	}
	return s.GetByID(id)
}

// SetReturnStatus updates return_status and nothing else: the claim state and
// derived status are untouched.
func (s *GiftStore) SetReturnStatus(id string, rs model.ReturnStatus) (*model.Gift, error) {
	result, err := s.db.Exec(`UPDATE gifts SET return_status = ? WHERE id = ?`, rs, id)
	if err != nil {
		return nil, fmt.Errorf("set return status: %w", err)
	}
	if count, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	} else if count == 0 {
		return nil, fmt.Errorf("gift %s: %w", id, ErrNotFound)
	}
	return s.GetByID(id)
}

// ToggleRecipient adds or removes a single recipient link.
func (s *GiftStore) ToggleRecipient(giftID, profileID string, isAdding bool) error {
	var err error
	if isAdding {
		_, err = s.db.Exec(
			`INSERT INTO gift_recipients (gift_id, profile_id) VALUES (?, ?)`,
			giftID, profileID,
		)
	} else {
		_, err = s.db.Exec(
			`DELETE FROM gift_recipients WHERE gift_id = ? AND profile_id = ?`,
			giftID, profileID,
		)
	}
	if err != nil {
		return fmt.Errorf("toggle recipient: %w", err)
	}
	return nil
}

// BulkUpdate applies the sparse field set to every targeted gift. When a
// recipient list is supplied it replaces the recipient set of every gift in
// the batch with that same list. The operation is not transactional across
// gifts: every gift is attempted and failures are reported in aggregate.
func (s *GiftStore) BulkUpdate(ids []string, u BulkGiftUpdate) error {
	var errs error
	for _, id := range ids {
		if err := s.bulkUpdateOne(id, u); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("gift %s: %w", id, err))
		}
	}
	if errs != nil {
		return &PartialBatchError{Op: "bulk update", Err: errs}
	}
	return nil
}

func (s *GiftStore) bulkUpdateOne(id string, u BulkGiftUpdate) error {
	existing, err := s.GetByID(id)
	if err != nil {
		return err
	}

	var sets []string
	var args []any

	if u.PurchaserID != nil {
		sets = append(sets, "purchaser_id = ?")
		args = append(args, nullableID(u.PurchaserID))
	}
	if u.IsSanta != nil {
		sets = append(sets, "is_santa = ?")
		args = append(args, boolToInt(*u.IsSanta))
	}
	if u.ReturnStatus != nil {
		sets = append(sets, "return_status = ?")
		args = append(args, *u.ReturnStatus)
	}
	if u.ClaimedByID != nil {
		sets = append(sets, "claimed_by_id = ?")
		args = append(args, nullableID(u.ClaimedByID))
	}

	// Status re-derivation. A batch that sets the claimer together with the
	// santa flag derives from both; setting the claimer alone derives from
	// claim presence; setting the santa flag alone derives against the
	// gift's existing claimer.
	switch {
	case u.ClaimedByID != nil && u.IsSanta != nil:
		sets = append(sets, "status = ?")
		args = append(args, gift.DeriveStatus(*u.IsSanta, u.ClaimedByID))
	case u.ClaimedByID != nil:
		sets = append(sets, "status = ?")
		args = append(args, gift.DeriveClaimStatus(u.ClaimedByID))
	case u.IsSanta != nil:
		sets = append(sets, "status = ?")
		args = append(args, gift.DeriveStatus(*u.IsSanta, existing.ClaimedByID))
	}

	if len(sets) > 0 {
		args = append(args, id)
		if _, err := s.db.Exec(
			`UPDATE gifts SET `+strings.Join(sets, ", ")+` WHERE id = ?`,
			args...,
		); err != nil {
			return fmt.Errorf("update fields: %w", err)
		}
	}

	if u.RecipientIDs != nil {
		if err := s.syncRecipients(id, existing.RecipientIDs(), *u.RecipientIDs); err != nil {
			return err
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
