package casdoor

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/SAP-F-2025/school-admin-service/internal/cache"
	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
)

// CasdoorConfig holds the configuration for Casdoor connection
type CasdoorConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
}

// casdoorClient is the part of *casdoorsdk.Client this repository uses.
type casdoorClient interface {
	ParseJwtToken(token string) (*casdoorsdk.Claims, error)
	GetUserByUserId(userId string) (*casdoorsdk.User, error)
	GetUserByEmail(email string) (*casdoorsdk.User, error)
	AddUser(user *casdoorsdk.User) (bool, error)
	SetPassword(owner, name, oldPassword, newPassword string) (bool, error)
	GetSigninUrl(redirectURI string) string
	GetOAuthToken(code string, state string) (*oauth2.Token, error)
}

type IdentityCasdoor struct {
	client casdoorClient
	cache  *cache.CacheHelper
	config CasdoorConfig
}

func NewIdentityCasdoor(config CasdoorConfig, cacheManager *cache.CacheManager) repositories.IdentityRepository {
	client := casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.OrganizationName,
		config.ApplicationName,
	)

	return newIdentityCasdoor(client, config, cacheManager)
}

func newIdentityCasdoor(client casdoorClient, config CasdoorConfig, cacheManager *cache.CacheManager) *IdentityCasdoor {
	if cacheManager == nil {
		cacheManager = cache.NewCacheManager(nil)
	}
	return &IdentityCasdoor{
		client: client,
		cache:  cacheManager.Identity,
		config: config,
	}
}

// ===== CONVERSION METHODS =====

func (r *IdentityCasdoor) convertCasdoorUserToModel(user *casdoorsdk.User) *models.Identity {
	if user == nil {
		return nil
	}

	name := user.DisplayName
	if name == "" {
		name = user.Name
	}

	return &models.Identity{
		ID:        user.Id,
		Email:     user.Email,
		Name:      name,
		Role:      r.convertCasdoorRolesToModel(user),
		AvatarURL: user.Avatar,
	}
}

func (r *IdentityCasdoor) convertCasdoorRolesToModel(user *casdoorsdk.User) models.UserRole {
	if user.IsAdmin {
		return models.RoleAdmin
	}

	roles := make([]models.UserRole, 0, len(user.Roles)+1)
	for _, role := range user.Roles {
		if role != nil {
			roles = append(roles, mapCasdoorRole(role.Name))
		}
	}
	if tag := mapCasdoorRole(user.Tag); tag != "" {
		roles = append(roles, tag)
	}

	// Admin wins over any other role
	if slices.Contains(roles, models.RoleAdmin) {
		return models.RoleAdmin
	}
	for _, role := range roles {
		if role != "" {
			return role
		}
	}
	return models.RoleTeacher
}

func mapCasdoorRole(name string) models.UserRole {
	switch strings.ToLower(name) {
	case "admin", "administrator":
		return models.RoleAdmin
	case "teacher", "instructor":
		return models.RoleTeacher
	case "student":
		return models.RoleStudent
	default:
		return ""
	}
}

// ===== SESSION =====

func (r *IdentityCasdoor) GetCurrentIdentity(ctx context.Context, token string) (*models.Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, repositories.ErrInvalidToken
	}

	claims, err := r.client.ParseJwtToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repositories.ErrInvalidToken, err)
	}
	if claims == nil || claims.User.Id == "" {
		return nil, repositories.ErrInvalidToken
	}

	return r.convertCasdoorUserToModel(&claims.User), nil
}

// SignInURL replaces the application name the SDK puts in state with the caller's value.
func (r *IdentityCasdoor) SignInURL(redirectURL, state string) string {
	signin := r.client.GetSigninUrl(redirectURL)
	u, err := url.Parse(signin)
	if err != nil {
		return signin
	}
	q := u.Query()
	q.Set("state", state)
	u.RawQuery = q.Encode()
	return u.String()
}

// PasswordResetURL is the provider's self-service recovery page of this application.
func (r *IdentityCasdoor) PasswordResetURL() string {
	return fmt.Sprintf("%s/forget/%s", strings.TrimRight(r.config.Endpoint, "/"), r.config.ApplicationName)
}

func (r *IdentityCasdoor) ExchangeCode(ctx context.Context, code, state string) (string, error) {
	token, err := r.client.GetOAuthToken(code, state)
	if err != nil {
		return "", fmt.Errorf("%w: %v", repositories.ErrInvalidToken, err)
	}
	if token == nil || token.AccessToken == "" {
		return "", repositories.ErrInvalidToken
	}
	return token.AccessToken, nil
}

// ===== ACCOUNTS =====

func (r *IdentityCasdoor) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	cacheKey := "email:" + email
	var cached models.Identity
	if err := r.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	user, err := r.client.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email from Casdoor: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("identity %s: %w", email, repositories.ErrNotFound)
	}

	identity := r.convertCasdoorUserToModel(user)
	cache.SafeSet(ctx, r.cache, cacheKey, identity, cache.IdentityCacheConfig.TTL)

	return identity, nil
}

func (r *IdentityCasdoor) Invite(ctx context.Context, invitation repositories.Invitation) (*models.Identity, error) {
	password := invitation.TempPassword
	if password == "" {
		password = uuid.NewString()
	}

	user := &casdoorsdk.User{
		Owner:             r.config.OrganizationName,
		Name:              uuid.NewString(),
		Id:                uuid.NewString(),
		DisplayName:       invitation.Name,
		Email:             invitation.Email,
		Avatar:            invitation.AvatarURL,
		Type:              "normal-user",
		Tag:               string(invitation.Role),
		Password:          password,
		SignupApplication: r.config.ApplicationName,
		IsAdmin:           invitation.Role == models.RoleAdmin,
	}

	affected, err := r.client.AddUser(user)
	if err != nil {
		return nil, fmt.Errorf("failed to add user to Casdoor: %w", err)
	}
	if !affected {
		return nil, fmt.Errorf("identity %s: %w", invitation.Email, repositories.ErrDuplicate)
	}

	cache.SafeDelete(ctx, r.cache, "email:"+invitation.Email)

	return r.convertCasdoorUserToModel(user), nil
}

func (r *IdentityCasdoor) SetPassword(ctx context.Context, userID, newPassword string) error {
	user, err := r.client.GetUserByUserId(userID)
	if err != nil {
		return fmt.Errorf("failed to get user from Casdoor: %w", err)
	}
	if user == nil {
		return fmt.Errorf("identity %s: %w", userID, repositories.ErrNotFound)
	}

	ok, err := r.client.SetPassword(user.Owner, user.Name, "", newPassword)
	if err != nil {
		return fmt.Errorf("failed to set password in Casdoor: %w", err)
	}
	if !ok {
		return errors.New("casdoor rejected the password change")
	}

	return nil
}
