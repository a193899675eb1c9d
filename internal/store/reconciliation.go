package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dougiefresh49/gift-tracker/internal/model"
)

type ReconciliationStore struct {
	db *sql.DB
}

func NewReconciliationStore(db *sql.DB) *ReconciliationStore {
	return &ReconciliationStore{db: db}
}

const reconciliationCols = `id, gifter_id, recipient_id, purchaser_id, amount, transaction_type, notes, created_at`

func scanReconciliation(scanner interface{ Scan(...any) error }) (*model.Reconciliation, error) {
	var r model.Reconciliation
	var notes sql.NullString
	err := scanner.Scan(
		&r.ID, &r.GifterID, &r.RecipientID, &r.PurchaserID, &r.Amount,
		&r.TransactionType, &notes, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if notes.Valid {
		r.Notes = notes.String
	}
	return &r, nil
}

// Create appends a settlement record. Records reference profiles by id only,
// without foreign keys, so the settlement log survives profile deletion.
func (s *ReconciliationStore) Create(in model.Reconciliation) (*model.Reconciliation, error) {
	in.ID = uuid.New().String()
	in.CreatedAt = time.Now().UTC()

	var notes sql.NullString
	if in.Notes != "" {
		notes = sql.NullString{String: in.Notes, Valid: true}
	}
	_, err := s.db.Exec(
		`INSERT INTO reconciliations (id, gifter_id, recipient_id, purchaser_id, amount, transaction_type, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.GifterID, in.RecipientID, in.PurchaserID, in.Amount, in.TransactionType, notes, in.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert reconciliation: %w", err)
	}
	return &in, nil
}

// List returns the settlement log newest first.
func (s *ReconciliationStore) List() ([]model.Reconciliation, error) {
	rows, err := s.db.Query(`SELECT ` + reconciliationCols + ` FROM reconciliations ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reconciliations: %w", err)
	}
	defer rows.Close()

	var recs []model.Reconciliation
	for rows.Next() {
		r, err := scanReconciliation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reconciliation: %w", err)
		}
		recs = append(recs, *r)
	}
	return recs, rows.Err()
}
