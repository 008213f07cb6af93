package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/portfoliodb/backend/internal/apperrors"
	"github.com/portfoliodb/backend/internal/model"
)

// ActionTypeRepository provides data access methods for the action_type table.
// The table holds a fixed seed set (Buy, Sell, Payout) and is immutable in
// normal operation.
type ActionTypeRepository struct {
	db *sql.DB
}

// NewActionTypeRepository creates a new ActionTypeRepository with the provided database connection.
func NewActionTypeRepository(db *sql.DB) *ActionTypeRepository {
	return &ActionTypeRepository{db: db}
}

// GetActionTypes retrieves all action types ordered by code.
func (r *ActionTypeRepository) GetActionTypes() ([]model.ActionType, error) {
	rows, err := r.db.Query(`SELECT code, name FROM action_type ORDER BY code ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query action_type table: %w", err)
	}
	defer rows.Close()

	actionTypes := []model.ActionType{}

	for rows.Next() {
		var a model.ActionType
		if err := rows.Scan(&a.Code, &a.Name); err != nil {
			return nil, fmt.Errorf("failed to scan action_type table results: %w", err)
		}
		actionTypes = append(actionTypes, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating action_type table: %w", err)
	}

	return actionTypes, nil
}

// GetActionType retrieves a single action type by code.
func (r *ActionTypeRepository) GetActionType(code int) (model.ActionType, error) {
	var a model.ActionType
	err := r.db.QueryRow(`SELECT code, name FROM action_type WHERE code = ?`, code).
		Scan(&a.Code, &a.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ActionType{}, apperrors.ErrActionTypeNotFound
	}
	if err != nil {
		return model.ActionType{}, fmt.Errorf("failed to query action_type table: %w", err)
	}
	return a, nil
}
