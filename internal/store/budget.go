package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dougiefresh49/gift-tracker/internal/model"
)

type BudgetStore struct {
	db *sql.DB
}

func NewBudgetStore(db *sql.DB) *BudgetStore {
	return &BudgetStore{db: db}
}

const budgetCols = `id, gifter_id, recipient_id, limit_amount`

func scanBudget(scanner interface{ Scan(...any) error }) (*model.Budget, error) {
	var b model.Budget
	err := scanner.Scan(&b.ID, &b.GifterID, &b.RecipientID, &b.LimitAmount)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a budget. Duplicate gifter/recipient pairs are allowed; the
// summary view reports each row separately.
func (s *BudgetStore) Create(gifterID, recipientID string, limitAmount float64) (*model.Budget, error) {
	b := &model.Budget{
		ID:          uuid.New().String(),
		GifterID:    gifterID,
		RecipientID: recipientID,
		LimitAmount: limitAmount,
	}
	_, err := s.db.Exec(
		`INSERT INTO budgets (id, gifter_id, recipient_id, limit_amount) VALUES (?, ?, ?, ?)`,
		b.ID, b.GifterID, b.RecipientID, b.LimitAmount,
	)
	if err != nil {
		return nil, fmt.Errorf("insert budget: %w", err)
	}
	return b, nil
}

func (s *BudgetStore) List() ([]model.Budget, error) {
	rows, err := s.db.Query(`SELECT ` + budgetCols + ` FROM budgets`)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []model.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, *b)
	}
	return budgets, rows.Err()
}

// Delete removes a budget. Deleting an id that does not exist is a no-op, not
// an error.
func (s *BudgetStore) Delete(id string) error {
	if _, err := s.db.Exec(`DELETE FROM budgets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}
