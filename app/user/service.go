package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/praxis-markets/praxis/internal/security"
	"github.com/praxis-markets/praxis/models"
)

type service struct {
	repo       Repository
	config     *Config
	tokenMaker security.Maker
	now        func() time.Time
}

// NewService creates a new user service.
func NewService(repo Repository, config *Config, tokenMaker security.Maker) Service {
	return &service{
		repo:       repo,
		config:     config,
		tokenMaker: tokenMaker,
		now:        time.Now,
	}
}

func (s *service) Register(ctx context.Context, req *RegisterRequest) (*Response, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, models.ErrDuplicateEmail
	} else if !errors.Is(err, models.ErrRecordNotFound) {
		return nil, err
	}

	u := &models.User{
		Email:       email,
		DisplayName: strings.TrimSpace(req.DisplayName),
		IsActive:    true,
	}
	if err := u.SetPassword(req.Password); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	resp := ToResponse(u)
	return &resp, nil
}

func (s *service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if !u.CheckPassword(req.Password) {
		return nil, models.ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, models.ErrUserInactive
	}

	accessToken, payload, err := s.tokenMaker.CreateToken(
		u.ID, s.config.AccessTokenDuration, u.TokenVersion, security.TokenScopeAccess)
	if err != nil {
		return nil, err
	}

	now := s.now()
	u.LastLoginAt = &now
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken: accessToken,
		ExpiresAt:   payload.ExpiredAt,
		User:        ToResponse(u),
	}, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*Response, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToResponse(u)
	return &resp, nil
}
