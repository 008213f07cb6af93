package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/portfoliodb/backend/internal/apperrors"
	"github.com/portfoliodb/backend/internal/model"
)

// PriceRepository provides data access methods for the investment_price table.
// The table holds one fact per (investment, date): the price in the base
// currency plus the source it came from. Upsert overwrites on that key.
type PriceRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPriceRepository creates a new PriceRepository with the provided database connection.
func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// WithTx returns a copy of the repository that runs its statements inside tx.
func (r *PriceRepository) WithTx(tx *sql.Tx) *PriceRepository {
	return &PriceRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *PriceRepository) getQuerier() interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetPrices retrieves price facts, sorted by investment and date ascending.
// An empty investmentID matches all investments; zero start/end dates leave
// that side of the window open.
func (r *PriceRepository) GetPrices(investmentID string, startDate, endDate time.Time) ([]model.InvestmentPrice, error) {
	query := `
		SELECT id, investment_id, date, price, source
		FROM investment_price
		WHERE 1=1
	`
	var args []any

	if investmentID != "" {
		query += ` AND investment_id = ?`
		args = append(args, investmentID)
	}
	if !startDate.IsZero() {
		query += ` AND date >= ?`
		args = append(args, FormatDate(startDate))
	}
	if !endDate.IsZero() {
		query += ` AND date <= ?`
		args = append(args, FormatDate(endDate))
	}
	query += ` ORDER BY investment_id ASC, date ASC`

	rows, err := r.getQuerier().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query investment_price table: %w", err)
	}
	defer rows.Close()

	prices := []model.InvestmentPrice{}

	for rows.Next() {
		var dateStr, priceStr string
		var p model.InvestmentPrice

		err := rows.Scan(&p.ID, &p.InvestmentID, &dateStr, &priceStr, &p.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investment_price table results: %w", err)
		}

		p.Date, err = ParseTime(dateStr)
		if err != nil || p.Date.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		if p.Price, err = ParseDecimal(priceStr); err != nil {
			return nil, err
		}

		prices = append(prices, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investment_price table: %w", err)
	}

	return prices, nil
}

// GetPrice retrieves the price fact for one investment on one date.
func (r *PriceRepository) GetPrice(investmentID string, date time.Time) (model.InvestmentPrice, error) {
	var dateStr, priceStr string
	var p model.InvestmentPrice

	err := r.getQuerier().QueryRow(`
		SELECT id, investment_id, date, price, source
		FROM investment_price
		WHERE investment_id = ? AND date = ?
	`, investmentID, FormatDate(date)).Scan(&p.ID, &p.InvestmentID, &dateStr, &priceStr, &p.Source)
	if errors.Is(err, sql.ErrNoRows) {
		return model.InvestmentPrice{}, apperrors.ErrPriceNotFound
	}
	if err != nil {
		return model.InvestmentPrice{}, fmt.Errorf("failed to query investment_price table: %w", err)
	}

	p.Date, err = ParseTime(dateStr)
	if err != nil {
		return model.InvestmentPrice{}, fmt.Errorf("failed to parse date: %w", err)
	}
	if p.Price, err = ParseDecimal(priceStr); err != nil {
		return model.InvestmentPrice{}, err
	}

	return p, nil
}

// Upsert writes a price fact keyed by (investment_id, date). An existing row
// for the key has its price and source overwritten; re-fetch means refresh.
func (r *PriceRepository) Upsert(ctx context.Context, p model.InvestmentPrice) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	_, err := r.getQuerier().ExecContext(ctx, `
		INSERT INTO investment_price (id, investment_id, date, price, source)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (investment_id, date) DO UPDATE SET price = excluded.price, source = excluded.source
	`, p.ID, p.InvestmentID, FormatDate(p.Date), p.Price.String(), p.Source)
	if err != nil {
		return fmt.Errorf("failed to upsert into investment_price table: %w", err)
	}

	return nil
}

// DeletePrice removes the price fact for one investment on one date.
func (r *PriceRepository) DeletePrice(investmentID string, date time.Time) error {
	result, err := r.getQuerier().Exec(
		`DELETE FROM investment_price WHERE investment_id = ? AND date = ?`,
		investmentID, FormatDate(date),
	)
	if err != nil {
		return fmt.Errorf("failed to delete from investment_price table: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrPriceNotFound
	}
	return nil
}
