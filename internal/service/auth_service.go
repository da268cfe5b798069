package service

import (
	"context"
	"fmt"
	"time"

	"github.com/warelane/stockscan/internal/domain"
	"github.com/warelane/stockscan/internal/otp"
	"github.com/warelane/stockscan/internal/platform/mailer"
	"github.com/warelane/stockscan/internal/repo/postgres"
	"github.com/warelane/stockscan/internal/utils"
	"github.com/warelane/stockscan/pkg/events"
	"github.com/warelane/stockscan/pkg/logger"
)

// AuthService issues and verifies one-time passcode challenges against the
// account table.
type AuthService interface {
	RequestChallenge(ctx context.Context, email string) error
	VerifyChallenge(ctx context.Context, email, code string) (*domain.Identity, error)
}

type authService struct {
	accounts   postgres.AccountsRepo
	challenges *otp.Store
	mailer     mailer.Service
	publisher  events.Publisher
}

func NewAuthService(accounts postgres.AccountsRepo, challenges *otp.Store, mailSvc mailer.Service, publisher events.Publisher) AuthService {
	return &authService{
		accounts:   accounts,
		challenges: challenges,
		mailer:     mailSvc,
		publisher:  publisher,
	}
}

func (s *authService) RequestChallenge(ctx context.Context, email string) error {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return domain.Validation("email is required")
	}

	acct, err := s.lookupActiveAccount(ctx, email)
	if err != nil {
		return err
	}

	code, err := otp.GenerateCode()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	// Stored before dispatch: a failed send leaves the challenge live, so a
	// retried request or a late-arriving email still works.
	s.challenges.Put(email, code)

	if err := s.mailer.SendOTP(acct.Email, code); err != nil {
		logger.ErrorContext(ctx, "failed to send OTP email", "error", err, "email", email)
		return &domain.DeliveryError{Err: err}
	}

	if err := s.publisher.Publish(ctx, events.ChallengeIssued, events.ChallengeIssuedEvent{
		Email:    email,
		IssuedAt: time.Now(),
	}); err != nil {
		logger.WarnContext(ctx, "failed to publish challenge event", "error", err)
	}

	return nil
}

func (s *authService) VerifyChallenge(ctx context.Context, email, code string) (*domain.Identity, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || code == "" {
		return nil, domain.Validation("email and OTP are required")
	}

	// Account state may have changed since the challenge was issued.
	acct, err := s.lookupActiveAccount(ctx, email)
	if err != nil {
		return nil, err
	}

	if !s.challenges.Match(email, code) {
		return nil, domain.ErrInvalidChallenge
	}

	// The challenge is intentionally not removed here: it stays valid until a
	// new one is requested for this email.

	if err := s.publisher.Publish(ctx, events.LoginSucceeded, events.LoginSucceededEvent{
		Email:    acct.Email,
		Name:     acct.Name,
		LoggedAt: time.Now(),
	}); err != nil {
		logger.WarnContext(ctx, "failed to publish login event", "error", err)
	}

	return &domain.Identity{Email: acct.Email, Name: acct.Name}, nil
}

func (s *authService) lookupActiveAccount(ctx context.Context, email string) (*domain.Account, error) {
	acct, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return nil, &domain.StoreError{Err: err}
	}
	if acct == nil {
		return nil, domain.ErrNotRegistered
	}
	if !acct.IsActive() {
		return nil, domain.ErrInactiveAccount
	}
	return acct, nil
}
