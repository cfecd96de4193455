package collateral

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praxis-markets/praxis/internal/logger"
	"github.com/praxis-markets/praxis/models"
)

type service struct {
	db     *gorm.DB
	repo   Repository
	logger logger.Logger
}

// NewService creates a new collateral service
func NewService(db *gorm.DB, repo Repository, log logger.Logger) Service {
	return &service{db: db, repo: repo, logger: log}
}

func (s *service) GetAccount(ctx context.Context, userID uuid.UUID) (*AccountResponse, error) {
	account, err := s.repo.GetOrCreateAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToAccountResponse(account), nil
}

func (s *service) Deposit(ctx context.Context, userID uuid.UUID, req *DepositRequest) (*AccountResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, models.ErrZeroAmount
	}

	var resp *AccountResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repoTx := s.repo.WithTx(tx)

		account, err := repoTx.GetOrCreateAccount(ctx, userID)
		if err != nil {
			return err
		}
		if err := account.Credit(req.Amount); err != nil {
			return err
		}
		if err := repoTx.SaveAccount(ctx, account); err != nil {
			return err
		}
		resp = ToAccountResponse(account)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("collateral deposited", logger.Fields{
		"user_id": userID.String(),
		"amount":  req.Amount.String(),
	})
	return resp, nil
}

func (s *service) Withdraw(ctx context.Context, userID uuid.UUID, req *WithdrawRequest) (*AccountResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, models.ErrZeroAmount
	}

	var resp *AccountResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repoTx := s.repo.WithTx(tx)

		account, err := repoTx.GetAccount(ctx, userID)
		if err != nil {
			return err
		}
		if err := account.Debit(req.Amount); err != nil {
			return err
		}
		if err := repoTx.SaveAccount(ctx, account); err != nil {
			return err
		}
		resp = ToAccountResponse(account)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("collateral withdrawn", logger.Fields{
		"user_id": userID.String(),
		"amount":  req.Amount.String(),
	})
	return resp, nil
}
