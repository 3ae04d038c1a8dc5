package repositories

import (
	"context"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
)

// IdentityRepository talks to the identity provider that owns user accounts.
type IdentityRepository interface {
	// GetCurrentIdentity resolves the principal behind an access token.
	// An empty, malformed or rejected token yields ErrInvalidToken.
	GetCurrentIdentity(ctx context.Context, token string) (*models.Identity, error)
	GetByEmail(ctx context.Context, email string) (*models.Identity, error)

	Invite(ctx context.Context, invitation Invitation) (*models.Identity, error)
	SetPassword(ctx context.Context, userID, newPassword string) error

	// Browser flow helpers
	// SignInURL carries state back to the callback untouched.
	SignInURL(redirectURL, state string) string
	PasswordResetURL() string
	ExchangeCode(ctx context.Context, code, state string) (string, error)
}
