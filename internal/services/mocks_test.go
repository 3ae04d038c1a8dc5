package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/SAP-F-2025/school-admin-service/internal/events"
	"github.com/SAP-F-2025/school-admin-service/internal/mail"
	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

// MockTeacherRepository is a mock implementation of TeacherRepository.
type MockTeacherRepository struct {
	mock.Mock
}

func (m *MockTeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	args := m.Called(ctx, teacher)
	return args.Error(0)
}

func (m *MockTeacherRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
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
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
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
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockWorkRepository is a mock implementation of WorkRepository.
type MockWorkRepository struct {
	mock.Mock
}

func (m *MockWorkRepository) Create(ctx context.Context, work *models.Work) error {
	args := m.Called(ctx, work)
	return args.Error(0)
}

func (m *MockWorkRepository) GetByID(ctx context.Context, id string) (*models.Work, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Work), args.Error(1)
}

func (m *MockWorkRepository) ListPending(ctx context.Context, filters repositories.WorkFilters) ([]*models.Work, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Work), args.Get(1).(int64), args.Error(2)
}

func (m *MockWorkRepository) CountByStatus(ctx context.Context) (map[models.ReviewStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.ReviewStatus]int64), args.Error(1)
}

func (m *MockWorkRepository) UpdateReview(ctx context.Context, id string, review repositories.WorkReview) error {
	args := m.Called(ctx, id, review)
	return args.Error(0)
}

// MockIdentityRepository is a mock implementation of IdentityRepository.
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
	args := m.Called(ctx, userID, newPassword)
	return args.Error(0)
}

func (m *MockIdentityRepository) SignInURL(redirectURL, state string) string {
	return "https://id.example.com/login?redirect_uri=" + redirectURL + "&state=" + state
}

func (m *MockIdentityRepository) PasswordResetURL() string {
	return "https://id.example.com/forget/school"
}

func (m *MockIdentityRepository) ExchangeCode(ctx context.Context, code, state string) (string, error) {
	args := m.Called(ctx, code, state)
	return args.String(0), args.Error(1)
}

// MockDashboardRepository is a mock implementation of DashboardRepository.
type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) GetActivityTrends(ctx context.Context, days int) ([]repositories.ActivityTrendData, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repositories.ActivityTrendData), args.Error(1)
}

func (m *MockDashboardRepository) GetRecentActivities(ctx context.Context, limit int) ([]repositories.RecentActivityData, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repositories.RecentActivityData), args.Error(1)
}

// mockRepository wires the mocks behind the Repository interface.
type mockRepository struct {
	teacher   *MockTeacherRepository
	work      *MockWorkRepository
	identity  *MockIdentityRepository
	dashboard *MockDashboardRepository
	pingErr   error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		teacher:   &MockTeacherRepository{},
		work:      &MockWorkRepository{},
		identity:  &MockIdentityRepository{},
		dashboard: &MockDashboardRepository{},
	}
}

func (r *mockRepository) Teacher() repositories.TeacherRepository     { return r.teacher }
func (r *mockRepository) Work() repositories.WorkRepository           { return r.work }
func (r *mockRepository) Dashboard() repositories.DashboardRepository { return r.dashboard }
func (r *mockRepository) Identity() repositories.IdentityRepository   { return r.identity }

func (r *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}

func (r *mockRepository) Ping(ctx context.Context) error { return r.pingErr }
func (r *mockRepository) Close() error                   { return nil }

// testEnv bundles the collaborators of a service under test.
type testEnv struct {
	repo      *mockRepository
	publisher *events.MockEventPublisher
	mailer    *mail.ConsoleMailer
	logger    *slog.Logger
	validator *validator.Validator
}

func newTestEnv() *testEnv {
	logger := slog.New(slog.DiscardHandler)
	return &testEnv{
		repo:      newMockRepository(),
		publisher: events.NewMockEventPublisher(logger),
		mailer:    mail.NewConsoleMailer(logger),
		logger:    logger,
		validator: validator.New(),
	}
}

func (e *testEnv) assertExpectations(t mock.TestingT) {
	e.repo.teacher.AssertExpectations(t)
	e.repo.work.AssertExpectations(t)
	e.repo.identity.AssertExpectations(t)
	e.repo.dashboard.AssertExpectations(t)
}
