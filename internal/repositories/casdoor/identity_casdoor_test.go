package casdoor

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
)

type fakeCasdoorClient struct {
	claims      *casdoorsdk.Claims
	parseErr    error
	usersByID   map[string]*casdoorsdk.User
	usersByMail map[string]*casdoorsdk.User
	added       []*casdoorsdk.User
	addOK       bool
	passwords   map[string]string
	token       *oauth2.Token
}

func (f *fakeCasdoorClient) ParseJwtToken(token string) (*casdoorsdk.Claims, error) {
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return f.claims, nil
}

func (f *fakeCasdoorClient) GetUserByUserId(userId string) (*casdoorsdk.User, error) {
	return f.usersByID[userId], nil
}

func (f *fakeCasdoorClient) GetUserByEmail(email string) (*casdoorsdk.User, error) {
	return f.usersByMail[email], nil
}

func (f *fakeCasdoorClient) AddUser(user *casdoorsdk.User) (bool, error) {
	f.added = append(f.added, user)
	return f.addOK, nil
}

func (f *fakeCasdoorClient) SetPassword(owner, name, oldPassword, newPassword string) (bool, error) {
	if f.passwords == nil {
		f.passwords = map[string]string{}
	}
	f.passwords[owner+"/"+name] = newPassword
	return true, nil
}

func (f *fakeCasdoorClient) GetSigninUrl(redirectURI string) string {
	return "https://auth.school.test/login/oauth/authorize?client_id=cid&redirect_uri=" + url.QueryEscape(redirectURI) + "&state=school-admin"
}

func (f *fakeCasdoorClient) GetOAuthToken(code string, state string) (*oauth2.Token, error) {
	if f.token == nil {
		return nil, errors.New("bad code")
	}
	return f.token, nil
}

var testConfig = CasdoorConfig{
	Endpoint:         "https://auth.school.test/",
	ClientID:         "client",
	OrganizationName: "school",
	ApplicationName:  "school-admin",
}

func TestIdentityCasdoor_GetCurrentIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("empty token", func(t *testing.T) {
		repo := newIdentityCasdoor(&fakeCasdoorClient{}, testConfig, nil)
		_, err := repo.GetCurrentIdentity(ctx, "")
		assert.ErrorIs(t, err, repositories.ErrInvalidToken)
	})

	t.Run("rejected token", func(t *testing.T) {
		repo := newIdentityCasdoor(&fakeCasdoorClient{parseErr: errors.New("signature is invalid")}, testConfig, nil)
		_, err := repo.GetCurrentIdentity(ctx, "abc")
		assert.ErrorIs(t, err, repositories.ErrInvalidToken)
	})

	t.Run("valid token", func(t *testing.T) {
		claims := &casdoorsdk.Claims{User: casdoorsdk.User{
			Id:          "u-1",
			Name:        "mrossi",
			DisplayName: "Maria Rossi",
			Email:       "maria@school.test",
			IsAdmin:     true,
		}}
		repo := newIdentityCasdoor(&fakeCasdoorClient{claims: claims}, testConfig, nil)

		identity, err := repo.GetCurrentIdentity(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, "u-1", identity.ID)
		assert.Equal(t, "Maria Rossi", identity.Name)
		assert.Equal(t, models.RoleAdmin, identity.Role)
	})
}

func TestIdentityCasdoor_RoleMapping(t *testing.T) {
	repo := newIdentityCasdoor(&fakeCasdoorClient{}, testConfig, nil)

	tests := []struct {
		name string
		user *casdoorsdk.User
		want models.UserRole
	}{
		{name: "no roles", user: &casdoorsdk.User{}, want: models.RoleTeacher},
		{name: "student role", user: &casdoorsdk.User{Roles: []*casdoorsdk.Role{{Name: "student"}}}, want: models.RoleStudent},
		{name: "admin among roles", user: &casdoorsdk.User{Roles: []*casdoorsdk.Role{{Name: "teacher"}, {Name: "Administrator"}}}, want: models.RoleAdmin},
		{name: "tag", user: &casdoorsdk.User{Tag: "teacher"}, want: models.RoleTeacher},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repo.convertCasdoorRolesToModel(tt.user))
		})
	}
}

func TestIdentityCasdoor_Invite(t *testing.T) {
	ctx := context.Background()

	client := &fakeCasdoorClient{addOK: true}
	repo := newIdentityCasdoor(client, testConfig, nil)

	identity, err := repo.Invite(ctx, repositories.Invitation{
		Email: "luca@school.test",
		Name:  "Luca Bianchi",
		Role:  models.RoleTeacher,
	})
	require.NoError(t, err)
	require.Len(t, client.added, 1)
	assert.Equal(t, "school", client.added[0].Owner)
	assert.Equal(t, "teacher", client.added[0].Tag)
	assert.NotEmpty(t, client.added[0].Password)
	assert.Equal(t, client.added[0].Id, identity.ID)
	assert.Equal(t, models.RoleTeacher, identity.Role)

	client.addOK = false
	_, err = repo.Invite(ctx, repositories.Invitation{Email: "luca@school.test", Name: "Luca"})
	assert.True(t, repositories.IsDuplicateError(err))
}

func TestIdentityCasdoor_GetByEmail(t *testing.T) {
	ctx := context.Background()
	client := &fakeCasdoorClient{usersByMail: map[string]*casdoorsdk.User{
		"maria@school.test": {Id: "u-1", Email: "maria@school.test", Name: "mrossi"},
	}}
	repo := newIdentityCasdoor(client, testConfig, nil)

	identity, err := repo.GetByEmail(ctx, "maria@school.test")
	require.NoError(t, err)
	assert.Equal(t, "mrossi", identity.Name)

	_, err = repo.GetByEmail(ctx, "nobody@school.test")
	assert.True(t, repositories.IsNotFoundError(err))
}

func TestIdentityCasdoor_SetPassword(t *testing.T) {
	ctx := context.Background()
	client := &fakeCasdoorClient{usersByID: map[string]*casdoorsdk.User{
		"u-1": {Id: "u-1", Owner: "school", Name: "mrossi"},
	}}
	repo := newIdentityCasdoor(client, testConfig, nil)

	require.NoError(t, repo.SetPassword(ctx, "u-1", "new-password"))
	assert.Equal(t, "new-password", client.passwords["school/mrossi"])

	err := repo.SetPassword(ctx, "u-2", "new-password")
	assert.True(t, repositories.IsNotFoundError(err))
}

func TestIdentityCasdoor_BrowserFlow(t *testing.T) {
	ctx := context.Background()
	client := &fakeCasdoorClient{}
	repo := newIdentityCasdoor(client, testConfig, nil)

	assert.Equal(t, "https://auth.school.test/forget/school-admin", repo.PasswordResetURL())
	signin, err := url.Parse(repo.SignInURL("https://admin.school.test/auth/callback", "nonce-1"))
	require.NoError(t, err)
	assert.Equal(t, "https://admin.school.test/auth/callback", signin.Query().Get("redirect_uri"))
	assert.Equal(t, "nonce-1", signin.Query().Get("state"))
	assert.Equal(t, "cid", signin.Query().Get("client_id"))

	_, err = repo.ExchangeCode(ctx, "bad", "state")
	assert.ErrorIs(t, err, repositories.ErrInvalidToken)

	client.token = &oauth2.Token{AccessToken: "jwt"}
	token, err := repo.ExchangeCode(ctx, "code", "state")
	require.NoError(t, err)
	assert.Equal(t, "jwt", token)
}
