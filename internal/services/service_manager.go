package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/school-admin-service/internal/events"
	"github.com/SAP-F-2025/school-admin-service/internal/mail"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	// SignInURL is the link sent in invitation emails
	SignInURL string

	DefaultTimeout time.Duration
}

// ServiceDependencies are the collaborators shared by every service
type ServiceDependencies struct {
	Repo      repositories.Repository
	Logger    *slog.Logger
	Validator *validator.Validator
	Publisher events.EventPublisher
	Mailer    mail.Mailer
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	deps   ServiceDependencies
	config ServiceManagerConfig

	// Service instances
	teacherService   TeacherService
	workService      WorkService
	authService      AuthService
	dashboardService DashboardService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(deps ServiceDependencies, config ServiceManagerConfig) ServiceManager {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if config.DefaultTimeout <= 0 {
		config.DefaultTimeout = 30 * time.Second
	}
	return &serviceManager{
		deps:   deps,
		config: config,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.deps.Logger.Info("Initializing service manager")

	if err := sm.initializeServices(); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	sm.initialized = true
	sm.deps.Logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) initializeServices() error {
	d := sm.deps
	if d.Repo == nil {
		return errors.New("repository is required")
	}
	if d.Validator == nil {
		return errors.New("validator is required")
	}
	if d.Mailer == nil {
		d.Mailer = mail.NewConsoleMailer(d.Logger)
	}

	sm.teacherService = NewTeacherService(d.Repo, d.Logger, d.Validator, d.Publisher, d.Mailer, sm.config.SignInURL)
	sm.deps.Logger.Info("Teacher service initialized")

	sm.workService = NewWorkService(d.Repo, d.Logger, d.Validator, d.Publisher)
	sm.deps.Logger.Info("Work service initialized")

	sm.authService = NewAuthService(d.Repo, d.Logger, d.Validator, d.Publisher, d.Mailer)
	sm.deps.Logger.Info("Auth service initialized")

	sm.dashboardService = NewDashboardService(d.Repo, d.Logger)
	sm.deps.Logger.Info("Dashboard service initialized")

	return nil
}

// Service getters
func (sm *serviceManager) Teacher() TeacherService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.teacherService
}

func (sm *serviceManager) Work() WorkService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.workService
}

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.authService
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.dashboardService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	ctx, cancel := context.WithTimeout(ctx, sm.config.DefaultTimeout)
	defer cancel()

	if err := sm.deps.Repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.deps.Logger.Info("Shutting down service manager")

	if sm.deps.Publisher != nil {
		if err := sm.deps.Publisher.Close(); err != nil {
			sm.deps.Logger.Error("Failed to close event publisher", "error", err)
		}
	}

	if repoManager, ok := sm.deps.Repo.(repositories.RepositoryManager); ok {
		if err := repoManager.Shutdown(ctx); err != nil {
			sm.deps.Logger.Error("Failed to shutdown repository manager", "error", err)
		}
	} else if sm.deps.Repo != nil {
		if err := sm.deps.Repo.Close(); err != nil {
			sm.deps.Logger.Error("Failed to close repository", "error", err)
		}
	}

	sm.shutdown = true
	sm.deps.Logger.Info("Service manager shut down completed")

	return nil
}

// IsInitialized returns whether the service manager has been initialized
func (sm *serviceManager) IsInitialized() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.initialized
}
