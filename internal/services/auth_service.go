package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/school-admin-service/internal/events"
	"github.com/SAP-F-2025/school-admin-service/internal/mail"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	mailer    mail.Mailer
}

func NewAuthService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, mailer mail.Mailer) AuthService {
	return &authService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		mailer:    mailer,
	}
}

func (s *authService) RequestPasswordReset(ctx context.Context, req *RequestPasswordResetRequest) error {
	if req == nil {
		return ErrValidationFailed
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	identity, err := s.repo.Identity().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			// Same answer as for a known account
			s.logger.Info("Password reset requested for unknown email")
			return nil
		}
		return NewBackendError("lookup account", err)
	}

	msg, err := mail.PasswordResetMessage(mail.PasswordResetData{
		Email:    identity.Email,
		ResetURL: s.repo.Identity().PasswordResetURL(),
	})
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return NewBackendError("send password reset email", err)
	}

	publishEvent(ctx, s.publisher, s.logger, events.NewEvent(events.PasswordResetRequested, identity.ID, "", nil))

	s.logger.Info("Password reset email sent", "user_id", identity.ID)
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, userID string, req *ResetPasswordRequest) error {
	if userID == "" {
		return ErrUnauthorized
	}
	if req == nil {
		return ErrValidationFailed
	}
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	if err := s.repo.Identity().SetPassword(ctx, userID, req.Password); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUnauthorized
		}
		return NewBackendError("set password", err)
	}

	s.logger.Info("Password changed", "user_id", userID)
	return nil
}
