package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/portfoliodb/backend/internal/apperrors"
	"github.com/portfoliodb/backend/internal/model"
)

// MovementRepository provides data access methods for the movement table.
// Movements are immutable events: they are inserted by transaction entry and
// removed only by explicit deletion, never mutated in place.
type MovementRepository struct {
	db *sql.DB
}

// NewMovementRepository creates a new MovementRepository with the provided database connection.
func NewMovementRepository(db *sql.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

// GetMovements retrieves all movements, sorted by investment and date ascending.
// Pass a non-empty investmentID to restrict to a single investment.
func (r *MovementRepository) GetMovements(investmentID string) ([]model.Movement, error) {
	query := `
		SELECT id, date, action_code, investment_id, quantity, amount, fee
		FROM movement
	`
	var args []any

	if investmentID != "" {
		query += ` WHERE investment_id = ?`
		args = append(args, investmentID)
	}
	query += ` ORDER BY investment_id ASC, date ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movement table: %w", err)
	}
	defer rows.Close()

	return scanMovements(rows)
}

// GetMovementsInRange retrieves movements within an inclusive date window,
// sorted by investment and date ascending. Zero start/end values leave that
// side of the window open.
func (r *MovementRepository) GetMovementsInRange(startDate, endDate time.Time) ([]model.Movement, error) {
	query := `
		SELECT id, date, action_code, investment_id, quantity, amount, fee
		FROM movement
		WHERE 1=1
	`
	var args []any

	if !startDate.IsZero() {
		query += ` AND date >= ?`
		args = append(args, FormatDate(startDate))
	}
	if !endDate.IsZero() {
		query += ` AND date <= ?`
		args = append(args, FormatDate(endDate))
	}
	query += ` ORDER BY investment_id ASC, date ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movement table: %w", err)
	}
	defer rows.Close()

	return scanMovements(rows)
}

// GetMovement retrieves a single movement by ID.
func (r *MovementRepository) GetMovement(id string) (model.Movement, error) {
	row := r.db.QueryRow(`
		SELECT id, date, action_code, investment_id, quantity, amount, fee
		FROM movement
		WHERE id = ?
	`, id)

	m, err := scanMovementRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Movement{}, apperrors.ErrMovementNotFound
	}
	if err != nil {
		return model.Movement{}, err
	}
	return m, nil
}

// CreateMovement inserts a new movement, generating an ID when none is set.
func (r *MovementRepository) CreateMovement(m model.Movement) (model.Movement, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	_, err := r.db.Exec(`
		INSERT INTO movement (id, date, action_code, investment_id, quantity, amount, fee)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		m.ID,
		FormatDate(m.Date),
		m.ActionCode,
		m.InvestmentID,
		m.Quantity.String(),
		m.Amount.String(),
		m.Fee.String(),
	)
	if err != nil {
		return model.Movement{}, fmt.Errorf("failed to insert into movement table: %w", err)
	}

	return m, nil
}

// DeleteMovement removes a movement by ID.
func (r *MovementRepository) DeleteMovement(id string) error {
	result, err := r.db.Exec(`DELETE FROM movement WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete from movement table: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrMovementNotFound
	}
	return nil
}

func scanMovements(rows *sql.Rows) ([]model.Movement, error) {
	movements := []model.Movement{}

	for rows.Next() {
		var dateStr, quantityStr, amountStr, feeStr string
		var m model.Movement

		err := rows.Scan(
			&m.ID,
			&dateStr,
			&m.ActionCode,
			&m.InvestmentID,
			&quantityStr,
			&amountStr,
			&feeStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement table results: %w", err)
		}

		if m, err = fillMovement(m, dateStr, quantityStr, amountStr, feeStr); err != nil {
			return nil, err
		}

		movements = append(movements, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movement table: %w", err)
	}

	return movements, nil
}

func scanMovementRow(row *sql.Row) (model.Movement, error) {
	var dateStr, quantityStr, amountStr, feeStr string
	var m model.Movement

	err := row.Scan(
		&m.ID,
		&dateStr,
		&m.ActionCode,
		&m.InvestmentID,
		&quantityStr,
		&amountStr,
		&feeStr,
	)
	if err != nil {
		return model.Movement{}, err
	}

	return fillMovement(m, dateStr, quantityStr, amountStr, feeStr)
}

func fillMovement(m model.Movement, dateStr, quantityStr, amountStr, feeStr string) (model.Movement, error) {
	var err error

	m.Date, err = ParseTime(dateStr)
	if err != nil || m.Date.IsZero() {
		return model.Movement{}, fmt.Errorf("failed to parse date: %w", err)
	}

	if m.Quantity, err = ParseDecimal(quantityStr); err != nil {
		return model.Movement{}, err
	}
	if m.Amount, err = ParseDecimal(amountStr); err != nil {
		return model.Movement{}, err
	}
	if m.Fee, err = ParseDecimal(feeStr); err != nil {
		return model.Movement{}, err
	}

	return m, nil
}
