package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
	"github.com/SAP-F-2025/school-admin-service/internal/utils"
)

// Gin context keys set once the caller is authenticated
const (
	ContextUserID    = "user_id"
	ContextUser      = "user"
	ContextUserRole  = "user_role"
	ContextUserEmail = "user_email"
)

const (
	// AccessTokenCookie holds the identity provider token of browser sessions
	AccessTokenCookie = "access_token"
	// InvalidTokenCode is the diagnostic passed to the login page
	InvalidTokenCode = "invalid_token"
	// AccountDisabledCode is the diagnostic for inactive or suspended teachers
	AccountDisabledCode = "account_disabled"
)

var errAccountDisabled = errors.New("account disabled")

// SessionGate resolves the caller from the identity provider before protected routes.
type SessionGate struct {
	identity repositories.IdentityRepository
	teachers repositories.TeacherRepository
	logger   utils.Logger
}

func NewSessionGate(identity repositories.IdentityRepository, teachers repositories.TeacherRepository, logger utils.Logger) *SessionGate {
	if logger == nil {
		logger = utils.NewDiscardLogger()
	}
	return &SessionGate{
		identity: identity,
		teachers: teachers,
		logger:   logger,
	}
}

// PageGate protects HTML pages. Without a valid identity the browser is sent
// to the login page with the invalid_token diagnostic.
func (g *SessionGate) PageGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := g.authenticate(c)
		if err != nil {
			utils.GetLogger(c, g.logger).Debug("Session rejected", "path", c.Request.URL.Path, "error", err)
			target := LoginRedirectURL
			if errors.Is(err, errAccountDisabled) {
				target = AccountDisabledRedirectURL
			}
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}

		g.recordLogin(c.Request.Context(), c, identity)
		setIdentity(c, identity)
		c.Next()
	}
}

// APIAuth protects JSON endpoints and answers 401 instead of redirecting.
func (g *SessionGate) APIAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := g.authenticate(c)
		if errors.Is(err, errAccountDisabled) {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Message: "Account disabled",
				Details: AccountDisabledCode,
			})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "User not authenticated",
				Details: InvalidTokenCode,
			})
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

// Optional resolves the identity when a valid token is present and never rejects.
func (g *SessionGate) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, err := g.authenticate(c); err == nil {
			setIdentity(c, identity)
		}
		c.Next()
	}
}

// RequireRole lets through callers holding one of roles. Administrators always pass.
func (g *SessionGate) RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := GetUserRoleFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Message: "Access denied",
				Details: err.Error(),
			})
			return
		}

		for _, required := range roles {
			if role == required || role == models.RoleAdmin {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: fmt.Sprintf("insufficient permissions, required role: %v", roles),
		})
	}
}

// Where PageGate sends rejected visitors
const (
	LoginRedirectURL           = "/login?error=" + InvalidTokenCode
	AccountDisabledRedirectURL = "/login?error=" + AccountDisabledCode
)

// authenticate resolves the token at the identity provider, then applies the
// stored teacher profile: its status decides access and its role wins over the
// provider's. Identities without a profile keep the provider's role.
func (g *SessionGate) authenticate(c *gin.Context) (*models.Identity, error) {
	token := extractToken(c)
	if token == "" {
		return nil, repositories.ErrInvalidToken
	}

	identity, err := g.identity.GetCurrentIdentity(c.Request.Context(), token)
	if err != nil {
		return nil, err
	}
	if identity == nil || identity.ID == "" {
		return nil, repositories.ErrInvalidToken
	}
	if g.teachers == nil {
		return identity, nil
	}

	teacher, err := g.teachers.GetByID(c.Request.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return identity, nil
		}
		return nil, fmt.Errorf("load teacher profile: %w", err)
	}
	if !teacher.CanSignIn() {
		return nil, errAccountDisabled
	}

	resolved := *identity
	resolved.Role = teacher.Role
	return &resolved, nil
}

// recordLogin stamps last_login_at. Identities without a teacher profile are skipped.
func (g *SessionGate) recordLogin(ctx context.Context, c *gin.Context, identity *models.Identity) {
	if g.teachers == nil {
		return
	}
	err := g.teachers.UpdateLastLogin(ctx, identity.ID, time.Now())
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		utils.GetLogger(c, g.logger).Warn("Failed to record last login", "user_id", identity.ID, "error", err)
	}
}

// extractToken reads the session cookie first, then a Bearer header.
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func setIdentity(c *gin.Context, identity *models.Identity) {
	c.Set(ContextUserID, identity.ID)
	c.Set(ContextUser, identity)
	c.Set(ContextUserRole, identity.Role)
	c.Set(ContextUserEmail, identity.Email)
}

// GetIdentityFromContext extracts the authenticated identity from Gin context
func GetIdentityFromContext(c *gin.Context) (*models.Identity, error) {
	user, exists := c.Get(ContextUser)
	if !exists {
		return nil, fmt.Errorf("user not found in context")
	}

	identity, ok := user.(*models.Identity)
	if !ok {
		return nil, fmt.Errorf("invalid user type in context")
	}

	return identity, nil
}

// GetUserIDFromContext extracts user ID from Gin context
func GetUserIDFromContext(c *gin.Context) (string, error) {
	userID, exists := c.Get(ContextUserID)
	if !exists {
		return "", fmt.Errorf("user ID not found in context")
	}

	id, ok := userID.(string)
	if !ok {
		return "", fmt.Errorf("invalid user ID type in context")
	}

	return id, nil
}

// GetUserRoleFromContext extracts user role from Gin context
func GetUserRoleFromContext(c *gin.Context) (models.UserRole, error) {
	userRole, exists := c.Get(ContextUserRole)
	if !exists {
		return "", fmt.Errorf("user role not found in context")
	}

	role, ok := userRole.(models.UserRole)
	if !ok {
		return "", fmt.Errorf("invalid user role type in context")
	}

	return role, nil
}
