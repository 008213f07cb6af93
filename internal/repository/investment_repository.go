package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/portfoliodb/backend/internal/apperrors"
	"github.com/portfoliodb/backend/internal/model"
)

// InvestmentRepository provides data access methods for the investment table.
type InvestmentRepository struct {
	db *sql.DB
}

// NewInvestmentRepository creates a new InvestmentRepository with the provided database connection.
func NewInvestmentRepository(db *sql.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

// GetInvestments retrieves all investments ordered by name.
func (r *InvestmentRepository) GetInvestments() ([]model.Investment, error) {
	rows, err := r.db.Query(`
		SELECT id, name, isin, short_name, ticker_symbol, quote_provider
		FROM investment
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query investment table: %w", err)
	}
	defer rows.Close()

	return scanInvestments(rows)
}

// GetInvestment retrieves a single investment by ID.
func (r *InvestmentRepository) GetInvestment(id string) (model.Investment, error) {
	var inv model.Investment
	err := r.db.QueryRow(`
		SELECT id, name, isin, short_name, ticker_symbol, quote_provider
		FROM investment
		WHERE id = ?
	`, id).Scan(&inv.ID, &inv.Name, &inv.Isin, &inv.ShortName, &inv.TickerSymbol, &inv.QuoteProvider)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Investment{}, apperrors.ErrInvestmentNotFound
	}
	if err != nil {
		return model.Investment{}, fmt.Errorf("failed to query investment table: %w", err)
	}
	return inv, nil
}

// GetInvestmentsByIDs retrieves investments for the given IDs. IDs with no
// matching row are silently absent from the result.
func (r *InvestmentRepository) GetInvestmentsByIDs(ids []string) ([]model.Investment, error) {
	if len(ids) == 0 {
		return []model.Investment{}, nil
	}

	placeholders := make([]string, len(ids))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	//#nosec G202 -- Safe: placeholders are generated programmatically, not from user input
	query := `
		SELECT id, name, isin, short_name, ticker_symbol, quote_provider
		FROM investment
		WHERE id IN (` + strings.Join(placeholders, ",") + `)
		ORDER BY name ASC
	`

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query investment table: %w", err)
	}
	defer rows.Close()

	return scanInvestments(rows)
}

// GetQuoteConfiguredInvestments retrieves every investment that has both a
// ticker symbol and a quote provider configured.
func (r *InvestmentRepository) GetQuoteConfiguredInvestments() ([]model.Investment, error) {
	rows, err := r.db.Query(`
		SELECT id, name, isin, short_name, ticker_symbol, quote_provider
		FROM investment
		WHERE ticker_symbol != '' AND quote_provider != ''
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query investment table: %w", err)
	}
	defer rows.Close()

	return scanInvestments(rows)
}

// CreateInvestment inserts a new investment, generating an ID when none is set.
func (r *InvestmentRepository) CreateInvestment(inv model.Investment) (model.Investment, error) {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}

	_, err := r.db.Exec(`
		INSERT INTO investment (id, name, isin, short_name, ticker_symbol, quote_provider)
		VALUES (?, ?, ?, ?, ?, ?)
	`, inv.ID, inv.Name, inv.Isin, inv.ShortName, inv.TickerSymbol, inv.QuoteProvider)
	if err != nil {
		return model.Investment{}, fmt.Errorf("failed to insert into investment table: %w", err)
	}

	return inv, nil
}

// UpdateInvestment updates an existing investment.
func (r *InvestmentRepository) UpdateInvestment(inv model.Investment) error {
	result, err := r.db.Exec(`
		UPDATE investment
		SET name = ?, isin = ?, short_name = ?, ticker_symbol = ?, quote_provider = ?
		WHERE id = ?
	`, inv.Name, inv.Isin, inv.ShortName, inv.TickerSymbol, inv.QuoteProvider, inv.ID)
	if err != nil {
		return fmt.Errorf("failed to update investment table: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrInvestmentNotFound
	}
	return nil
}

// DeleteInvestment removes an investment by ID.
func (r *InvestmentRepository) DeleteInvestment(id string) error {
	result, err := r.db.Exec(`DELETE FROM investment WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete from investment table: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrInvestmentNotFound
	}
	return nil
}

func scanInvestments(rows *sql.Rows) ([]model.Investment, error) {
	investments := []model.Investment{}

	for rows.Next() {
		var inv model.Investment
		err := rows.Scan(
			&inv.ID,
			&inv.Name,
			&inv.Isin,
			&inv.ShortName,
			&inv.TickerSymbol,
			&inv.QuoteProvider,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investment table results: %w", err)
		}
		investments = append(investments, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investment table: %w", err)
	}

	return investments, nil
}
