package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/warelane/stockscan/internal/domain"
	"github.com/warelane/stockscan/internal/repo/postgres"
	"github.com/warelane/stockscan/pkg/events"
	"github.com/warelane/stockscan/pkg/logger"
)

// RegistrationService creates new sy_user accounts.
type RegistrationService interface {
	Register(ctx context.Context, req *domain.RegistrationRequest) (*domain.Account, error)
}

type registrationService struct {
	accounts  postgres.AccountsRepo
	publisher events.Publisher
}

func NewRegistrationService(accounts postgres.AccountsRepo, publisher events.Publisher) RegistrationService {
	return &registrationService{accounts: accounts, publisher: publisher}
}

func (s *registrationService) Register(ctx context.Context, req *domain.RegistrationRequest) (*domain.Account, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Uniqueness is only this pre-check; the table has no constraint.
	exists, err := s.accounts.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, &domain.StoreError{Err: err}
	}
	if exists {
		return nil, domain.Validation("an account with this email already exists")
	}

	hash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	acct, err := s.accounts.Create(ctx, req, hash)
	if err != nil {
		return nil, &domain.StoreError{Err: err}
	}

	if err := s.publisher.Publish(ctx, events.AccountRegistered, events.AccountRegisteredEvent{
		Code:         acct.Code,
		Email:        acct.Email,
		RegisteredAt: time.Now(),
	}); err != nil {
		logger.WarnContext(ctx, "failed to publish registration event", "error", err)
	}

	return acct, nil
}
