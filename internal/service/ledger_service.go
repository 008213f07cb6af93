package service

import (
	"fmt"
	"time"

	"github.com/portfoliodb/backend/internal/apperrors"
	"github.com/portfoliodb/backend/internal/model"
	"github.com/portfoliodb/backend/internal/repository"
	"github.com/portfoliodb/backend/internal/validation"
)

// LedgerService handles the record-keeping side of the system: action types,
// investments and movements. It validates input and delegates persistence to
// the repositories; it carries no valuation logic.
type LedgerService struct {
	actionTypeRepo *repository.ActionTypeRepository
	investmentRepo *repository.InvestmentRepository
	movementRepo   *repository.MovementRepository
}

// NewLedgerService creates a new LedgerService with the provided repository dependencies.
func NewLedgerService(
	actionTypeRepo *repository.ActionTypeRepository,
	investmentRepo *repository.InvestmentRepository,
	movementRepo *repository.MovementRepository,
) *LedgerService {
	return &LedgerService{
		actionTypeRepo: actionTypeRepo,
		investmentRepo: investmentRepo,
		movementRepo:   movementRepo,
	}
}

// GetActionTypes retrieves the seeded action types.
func (s *LedgerService) GetActionTypes() ([]model.ActionType, error) {
	return s.actionTypeRepo.GetActionTypes()
}

// GetInvestments retrieves all investments.
func (s *LedgerService) GetInvestments() ([]model.Investment, error) {
	return s.investmentRepo.GetInvestments()
}

// GetInvestment retrieves one investment by ID.
func (s *LedgerService) GetInvestment(id string) (model.Investment, error) {
	if err := validation.ValidateUUID(id); err != nil {
		return model.Investment{}, err
	}
	return s.investmentRepo.GetInvestment(id)
}

// CreateInvestment validates and stores a new investment.
func (s *LedgerService) CreateInvestment(inv model.Investment) (model.Investment, error) {
	if inv.Name == "" {
		return model.Investment{}, fmt.Errorf("%w: name", apperrors.ErrMissingRequiredField)
	}
	return s.investmentRepo.CreateInvestment(inv)
}

// UpdateInvestment validates and updates an existing investment.
func (s *LedgerService) UpdateInvestment(inv model.Investment) error {
	if err := validation.ValidateUUID(inv.ID); err != nil {
		return err
	}
	if inv.Name == "" {
		return fmt.Errorf("%w: name", apperrors.ErrMissingRequiredField)
	}
	return s.investmentRepo.UpdateInvestment(inv)
}

// DeleteInvestment removes an investment by ID.
func (s *LedgerService) DeleteInvestment(id string) error {
	if err := validation.ValidateUUID(id); err != nil {
		return err
	}
	return s.investmentRepo.DeleteInvestment(id)
}

// GetMovements retrieves movements, optionally restricted to one investment.
func (s *LedgerService) GetMovements(investmentID string) ([]model.Movement, error) {
	if investmentID != "" {
		if err := validation.ValidateUUID(investmentID); err != nil {
			return nil, err
		}
	}
	return s.movementRepo.GetMovements(investmentID)
}

// GetMovement retrieves one movement by ID.
func (s *LedgerService) GetMovement(id string) (model.Movement, error) {
	if err := validation.ValidateUUID(id); err != nil {
		return model.Movement{}, err
	}
	return s.movementRepo.GetMovement(id)
}

// CreateMovement validates and stores a new ledger event. The referenced
// investment and action type must exist; the date is required.
func (s *LedgerService) CreateMovement(m model.Movement) (model.Movement, error) {
	if err := validation.ValidateUUID(m.InvestmentID); err != nil {
		return model.Movement{}, err
	}
	if m.Date.IsZero() {
		return model.Movement{}, fmt.Errorf("%w: date", apperrors.ErrMissingRequiredField)
	}
	if _, err := s.actionTypeRepo.GetActionType(m.ActionCode); err != nil {
		return model.Movement{}, fmt.Errorf("%w: %d", apperrors.ErrInvalidActionCode, m.ActionCode)
	}
	if _, err := s.investmentRepo.GetInvestment(m.InvestmentID); err != nil {
		return model.Movement{}, err
	}
	return s.movementRepo.CreateMovement(m)
}

// DeleteMovement removes a movement by ID. Movements are immutable, so
// explicit removal is the only way an entered event ever disappears.
func (s *LedgerService) DeleteMovement(id string) error {
	if err := validation.ValidateUUID(id); err != nil {
		return err
	}
	return s.movementRepo.DeleteMovement(id)
}

// GetMovementsInRange retrieves movements within an inclusive date window.
func (s *LedgerService) GetMovementsInRange(startDate, endDate time.Time) ([]model.Movement, error) {
	if err := validation.ValidateDateRange(startDate, endDate); err != nil {
		return nil, err
	}
	return s.movementRepo.GetMovementsInRange(startDate, endDate)
}
