package handlers

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
	"github.com/SAP-F-2025/school-admin-service/internal/services"
)

// ===== SERVICES =====

type MockTeacherService struct {
	mock.Mock
}

func (m *MockTeacherService) Create(ctx context.Context, req *services.CreateTeacherRequest, actor *models.Identity) (*services.CreateTeacherResponse, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CreateTeacherResponse), args.Error(1)
}

func (m *MockTeacherService) CreateFromInput(ctx context.Context, input map[string]interface{}, actor *models.Identity) (*services.CreateTeacherResponse, error) {
	args := m.Called(ctx, input, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CreateTeacherResponse), args.Error(1)
}

func (m *MockTeacherService) Update(ctx context.Context, id string, req *services.UpdateTeacherRequest, actor *models.Identity) (*models.Teacher, error) {
	args := m.Called(ctx, id, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Teacher), args.Error(1)
}

func (m *MockTeacherService) GetByID(ctx context.Context, id string) (*models.Teacher, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Teacher), args.Error(1)
}

func (m *MockTeacherService) List(ctx context.Context, filters *services.TeacherFiltersRequest) (*services.TeacherListResponse, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TeacherListResponse), args.Error(1)
}

func (m *MockTeacherService) GetStats(ctx context.Context) (*models.TeacherStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TeacherStats), args.Error(1)
}

func (m *MockTeacherService) Export(ctx context.Context, filters *services.TeacherFiltersRequest, w io.Writer) error {
	args := m.Called(ctx, filters, w)
	if args.Error(0) == nil {
		_, _ = w.Write([]byte("PK"))
	}
	return args.Error(0)
}

type MockWorkService struct {
	mock.Mock
}

func (m *MockWorkService) Submit(ctx context.Context, req *services.SubmitWorkRequest, teacherID string) (*services.WorkResponse, error) {
	args := m.Called(ctx, req, teacherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.WorkResponse), args.Error(1)
}

func (m *MockWorkService) ListPending(ctx context.Context, reviewer *models.Identity, page, limit int) (*services.WorkListResponse, error) {
	args := m.Called(ctx, reviewer, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.WorkListResponse), args.Error(1)
}

func (m *MockWorkService) Review(ctx context.Context, id string, req *services.ReviewWorkRequest, reviewer *models.Identity) (*models.Work, error) {
	args := m.Called(ctx, id, req, reviewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Work), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, req *services.RequestPasswordResetRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, userID string, req *services.ResetPasswordRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) GetDashboardStats(ctx context.Context) (*services.DashboardStatsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.DashboardStatsResponse), args.Error(1)
}

func (m *MockDashboardService) GetActivityTrends(ctx context.Context, days int) ([]services.ActivityTrendResponse, error) {
	args := m.Called(ctx, days)
	return args.Get(0).([]services.ActivityTrendResponse), args.Error(1)
}

func (m *MockDashboardService) GetRecentActivities(ctx context.Context, limit int) ([]services.RecentActivityResponse, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]services.RecentActivityResponse), args.Error(1)
}

type mockServiceManager struct {
	teacher   *MockTeacherService
	work      *MockWorkService
	auth      *MockAuthService
	dashboard *MockDashboardService
	healthErr error
}

func (m *mockServiceManager) Teacher() services.TeacherService     { return m.teacher }
func (m *mockServiceManager) Work() services.WorkService           { return m.work }
func (m *mockServiceManager) Auth() services.AuthService           { return m.auth }
func (m *mockServiceManager) Dashboard() services.DashboardService { return m.dashboard }

func (m *mockServiceManager) Initialize(ctx context.Context) error  { return nil }
func (m *mockServiceManager) HealthCheck(ctx context.Context) error { return m.healthErr }
func (m *mockServiceManager) Shutdown(ctx context.Context) error    { return nil }

// ===== REPOSITORIES =====

type MockIdentityRepository struct {
	mock.Mock
}

func (m *MockIdentityRepository) GetCurrentIdentity(ctx context.Context, token string) (*models.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Identity), args.Error(1)
}

func (m *MockIdentityRepository) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Identity), args.Error(1)
}

func (m *MockIdentityRepository) Invite(ctx context.Context, invitation repositories.Invitation) (*models.Identity, error) {
	args := m.Called(ctx, invitation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Identity), args.Error(1)
}

func (m *MockIdentityRepository) SetPassword(ctx context.Context, userID, newPassword string) error {
	return m.Called(ctx, userID, newPassword).Error(0)
}

func (m *MockIdentityRepository) SignInURL(redirectURL, state string) string {
	return "https://id.example.com/login/oauth/authorize?redirect_uri=" + redirectURL + "&state=" + state
}

func (m *MockIdentityRepository) PasswordResetURL() string {
	return "https://id.example.com/forget/school"
}

func (m *MockIdentityRepository) ExchangeCode(ctx context.Context, code, state string) (string, error) {
	args := m.Called(ctx, code, state)
	return args.String(0), args.Error(1)
}

type MockTeacherRepository struct {
	mock.Mock
}

func (m *MockTeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	return m.Called(ctx, teacher).Error(0)
}

func (m *MockTeacherRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return m.Called(ctx, id, fields).Error(0)
}

func (m *MockTeacherRepository) GetByID(ctx context.Context, id string) (*models.Teacher, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Teacher), args.Error(1)
}

func (m *MockTeacherRepository) GetByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Teacher), args.Error(1)
}

func (m *MockTeacherRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockTeacherRepository) List(ctx context.Context, filters repositories.TeacherFilters) ([]*models.Teacher, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Teacher), args.Get(1).(int64), args.Error(2)
}

func (m *MockTeacherRepository) GetStats(ctx context.Context) (*models.TeacherStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TeacherStats), args.Error(1)
}

func (m *MockTeacherRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

// fakeRepository exposes the two repositories the handlers touch directly.
type fakeRepository struct {
	identity *MockIdentityRepository
	teacher  *MockTeacherRepository
}

func (r *fakeRepository) Teacher() repositories.TeacherRepository     { return r.teacher }
func (r *fakeRepository) Work() repositories.WorkRepository           { return nil }
func (r *fakeRepository) Dashboard() repositories.DashboardRepository { return nil }
func (r *fakeRepository) Identity() repositories.IdentityRepository   { return r.identity }

func (r *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}

func (r *fakeRepository) Ping(ctx context.Context) error { return nil }
func (r *fakeRepository) Close() error                   { return nil }
