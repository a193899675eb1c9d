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

// AdminStore handles whole-database operations: export, import and wipe.
type AdminStore struct {
	db              *sql.DB
	profiles        *ProfileStore
	gifts           *GiftStore
	budgets         *BudgetStore
	reconciliations *ReconciliationStore
}

func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{
		db:              db,
		profiles:        NewProfileStore(db),
		gifts:           NewGiftStore(db),
		budgets:         NewBudgetStore(db),
		reconciliations: NewReconciliationStore(db),
	}
}

// Snapshot is a full copy of the data set, used for export, import and
// backups.
type Snapshot struct {
	Profiles        []model.Profile        `json:"profiles"`
	Gifts           []model.Gift           `json:"gifts"`
	Budgets         []model.Budget         `json:"budgets"`
	Reconciliations []model.Reconciliation `json:"reconciliations"`
	ExportedAt      time.Time              `json:"exported_at"`
}

// MasterImportItem is one row of a master gift list import.
type MasterImportItem struct {
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	ImageURL      string  `json:"image_url"`
	RecipientName string  `json:"recipient_name"`
	IsSanta       bool    `json:"is_santa"`
}

// MasterImportResult reports what an import actually did.
type MasterImportResult struct {
	GiftsCreated    int      `json:"gifts_created"`
	GiftsSkipped    int      `json:"gifts_skipped"`
	ProfilesCreated []string `json:"profiles_created"`
}

func (s *AdminStore) Export() (*Snapshot, error) {
	profiles, err := s.profiles.List()
	if err != nil {
		return nil, err
	}
	gifts, err := s.gifts.List()
	if err != nil {
		return nil, err
	}
	budgets, err := s.budgets.List()
	if err != nil {
		return nil, err
	}
	recs, err := s.reconciliations.List()
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Profiles:        profiles,
		Gifts:           gifts,
		Budgets:         budgets,
		Reconciliations: recs,
		ExportedAt:      time.Now().UTC(),
	}, nil
}

// Wipe deletes everything. Child tables cascade from gifts and profiles;
// reconciliations have no foreign keys and are cleared explicitly.
func (s *AdminStore) Wipe() error {
	var errs error
	for _, table := range []string{"reconciliations", "budgets", "gifts", "profiles"} {
		if _, err := s.db.Exec(`DELETE FROM ` + table); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("wipe %s: %w", table, err))
		}
	}
	return errs
}

// ImportReplace wipes the data set and loads the snapshot in its place,
// preserving ids and timestamps. Like the other multi-step writes here it is
// not transactional; a failure partway through leaves a partial import, which
// the caller surfaces as a partial-batch error.
func (s *AdminStore) ImportReplace(snap *Snapshot) error {
	if err := s.Wipe(); err != nil {
		return err
	}

	var errs error
	for _, p := range snap.Profiles {
		if _, err := s.db.Exec(
			`INSERT INTO profiles (id, name, created_at) VALUES (?, ?, ?)`,
			p.ID, p.Name, p.CreatedAt,
		); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("import profile %s: %w", p.ID, err))
		}
	}

	for _, g := range snap.Gifts {
		status := gift.DeriveStatus(g.IsSanta, g.ClaimedByID)
		if _, err := s.db.Exec(
			`INSERT INTO gifts (id, name, price, image_url, gift_type, is_santa, status, purchaser_id, claimed_by_id, created_by_id, return_status, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			g.ID, g.Name, g.Price, nullableText(g.ImageURL), g.GiftType, boolToInt(g.IsSanta), status,
			nullableID(g.PurchaserID), nullableID(g.ClaimedByID), nullableID(g.CreatedByID),
			g.ReturnStatus, g.CreatedAt,
		); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("import gift %s: %w", g.ID, err))
			continue
		}
		for _, r := range g.Recipients {
			if _, err := s.db.Exec(
				`INSERT INTO gift_recipients (gift_id, profile_id) VALUES (?, ?)`,
				g.ID, r.ID,
			); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("import recipient for gift %s: %w", g.ID, err))
			}
		}
		for _, tag := range g.Tags {
			if _, err := s.db.Exec(
				`INSERT INTO gift_tags (id, gift_id, tag) VALUES (?, ?, ?)`,
				uuid.New().String(), g.ID, tag,
			); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("import tag for gift %s: %w", g.ID, err))
			}
		}
	}

	for _, b := range snap.Budgets {
		if _, err := s.db.Exec(
			`INSERT INTO budgets (id, gifter_id, recipient_id, limit_amount) VALUES (?, ?, ?, ?)`,
			b.ID, b.GifterID, b.RecipientID, b.LimitAmount,
		); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("import budget %s: %w", b.ID, err))
		}
	}

	for _, r := range snap.Reconciliations {
		var notes sql.NullString
		if r.Notes != "" {
			notes = sql.NullString{String: r.Notes, Valid: true}
		}
		if _, err := s.db.Exec(
			`INSERT INTO reconciliations (id, gifter_id, recipient_id, purchaser_id, amount, transaction_type, notes, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.GifterID, r.RecipientID, r.PurchaserID, r.Amount, r.TransactionType, notes, r.CreatedAt,
		); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("import reconciliation %s: %w", r.ID, err))
		}
	}

	if errs != nil {
		return &PartialBatchError{Op: "import", Err: errs}
	}
	return nil
}

// MasterImport loads a master gift list. Recipient names are matched
// case-insensitively against existing profiles and created when missing.
// Gifts whose name already exists are skipped rather than duplicated.
func (s *AdminStore) MasterImport(items []MasterImportItem) (*MasterImportResult, error) {
	profiles, err := s.profiles.List()
	if err != nil {
		return nil, err
	}
	profileByName := make(map[string]string, len(profiles))
	for _, p := range profiles {
		profileByName[strings.ToLower(p.Name)] = p.ID
	}

	existingGifts, err := s.gifts.List()
	if err != nil {
		return nil, err
	}
	giftNames := make(map[string]bool, len(existingGifts))
	for _, g := range existingGifts {
		giftNames[strings.ToLower(g.Name)] = true
	}

	result := &MasterImportResult{}
	var errs error
	for _, item := range items {
		if giftNames[strings.ToLower(item.Name)] {
			result.GiftsSkipped++
			continue
		}

		var recipientIDs []string
		if name := strings.TrimSpace(item.RecipientName); name != "" {
			id, ok := profileByName[strings.ToLower(name)]
			if !ok {
				p, err := s.profiles.Create(name)
				if err != nil {
					errs = multierr.Append(errs, fmt.Errorf("create profile %q: %w", name, err))
					continue
				}
				id = p.ID
				profileByName[strings.ToLower(name)] = id
				result.ProfilesCreated = append(result.ProfilesCreated, name)
			}
			recipientIDs = append(recipientIDs, id)
		}

		_, err := s.gifts.Create(GiftInput{
			Name:         item.Name,
			Price:        item.Price,
			ImageURL:     item.ImageURL,
			GiftType:     model.GiftTypeItem,
			IsSanta:      item.IsSanta,
			ReturnStatus: model.ReturnNone,
			RecipientIDs: recipientIDs,
		})
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("create gift %q: %w", item.Name, err))
			continue
		}
		giftNames[strings.ToLower(item.Name)] = true
		result.GiftsCreated++
	}

	if errs != nil {
		return result, &PartialBatchError{Op: "master import", Err: errs}
	}
	return result, nil
}
