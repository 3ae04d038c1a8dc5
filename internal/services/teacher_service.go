package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/SAP-F-2025/school-admin-service/internal/events"
	"github.com/SAP-F-2025/school-admin-service/internal/mail"
	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

type teacherService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	mailer    mail.Mailer
	signInURL string
}

func NewTeacherService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, mailer mail.Mailer, signInURL string) TeacherService {
	return &teacherService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		mailer:    mailer,
		signInURL: signInURL,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *teacherService) CreateFromInput(ctx context.Context, input map[string]interface{}, actor *models.Identity) (*CreateTeacherResponse, error) {
	req, err := s.validator.ParseCreateTeacher(input)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, req, actor)
}

func (s *teacherService) Create(ctx context.Context, req *CreateTeacherRequest, actor *models.Identity) (*CreateTeacherResponse, error) {
	if req == nil {
		return nil, ErrValidationFailed
	}
	if err := s.validator.CheckCreateTeacher(req); err != nil {
		return nil, err
	}
	return s.create(ctx, req, actor)
}

func (s *teacherService) create(ctx context.Context, req *CreateTeacherRequest, actor *models.Identity) (*CreateTeacherResponse, error) {
	s.logger.Info("Creating teacher", "email", req.Email, "send_invitation", req.SendInvitation, "actor_id", actorID(actor))

	exists, err := s.repo.Teacher().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, NewBackendError("check teacher email", err)
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	teacher := &models.Teacher{
		Email:    req.Email,
		Name:     req.Name,
		Role:     req.Role,
		Status:   models.StatusActive,
		Bio:      req.Bio,
		ImageURL: req.ImageURL,
	}

	if req.SendInvitation {
		identity, err := s.inviteOrLink(ctx, req)
		if err != nil {
			return nil, err
		}
		teacher.ID = identity.ID
		teacher.Status = models.StatusInvited
	}

	if err := s.repo.Teacher().Create(ctx, teacher); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, NewBackendError("create teacher", err)
	}

	response := &CreateTeacherResponse{Teacher: teacher}

	eventType := events.TeacherCreated
	if req.SendInvitation {
		eventType = events.TeacherInvited
		response.InvitationSent = s.sendInvitation(ctx, teacher, actor)
	}

	s.publish(ctx, events.NewEvent(eventType, teacher.ID, actorID(actor), map[string]interface{}{
		"email":  teacher.Email,
		"role":   teacher.Role,
		"status": teacher.Status,
	}))

	s.logger.Info("Teacher created successfully", "teacher_id", teacher.ID, "status", teacher.Status)
	return response, nil
}

func (s *teacherService) Update(ctx context.Context, id string, req *UpdateTeacherRequest, actor *models.Identity) (*models.Teacher, error) {
	s.logger.Info("Updating teacher", "teacher_id", id, "actor_id", actorID(actor))

	if req == nil {
		return nil, ErrValidationFailed
	}
	if err := s.validator.CheckUpdateTeacher(req); err != nil {
		return nil, err
	}
	if errs := validator.ValidateSelfUpdate(actor, id, req); len(errs) > 0 {
		return nil, errs
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		if errs := validator.ValidateStatusTransition(current.Status, *req.Status); len(errs) > 0 {
			return nil, errs
		}
	}

	fields := updateFields(req)
	if err := s.repo.Teacher().Update(ctx, id, fields); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTeacherNotFound
		}
		return nil, NewBackendError("update teacher", err)
	}

	updated, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		s.publish(ctx, events.NewEvent(events.TeacherUpdated, id, actorID(actor), map[string]interface{}{
			"fields": lo.Keys(fields),
		}))
	}

	s.logger.Info("Teacher updated successfully", "teacher_id", id, "fields", len(fields))
	return updated, nil
}

func (s *teacherService) GetByID(ctx context.Context, id string) (*models.Teacher, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrTeacherNotFound
	}

	teacher, err := s.repo.Teacher().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTeacherNotFound
		}
		return nil, NewBackendError("get teacher", err)
	}
	return teacher, nil
}

// ===== QUERY OPERATIONS =====

func (s *teacherService) List(ctx context.Context, filters *TeacherFiltersRequest) (*TeacherListResponse, error) {
	if filters == nil {
		filters = validator.NewTeacherFiltersRequest()
	}
	if err := s.validator.Validate(filters); err != nil {
		return nil, err
	}

	teachers, total, err := s.repo.Teacher().List(ctx, toTeacherFilters(filters))
	if err != nil {
		return nil, NewBackendError("list teachers", err)
	}

	return models.NewPaginatedResponse(teachers, total, filters.Page, filters.Limit), nil
}

func (s *teacherService) GetStats(ctx context.Context) (*models.TeacherStats, error) {
	stats, err := s.repo.Teacher().GetStats(ctx)
	if err != nil {
		return nil, NewBackendError("get teacher stats", err)
	}
	return stats, nil
}

// ===== HELPERS =====

// inviteOrLink creates the provider account. An account already registered at
// the provider without a teacher profile, for instance left over by a failed
// insert, is linked instead of rejected.
func (s *teacherService) inviteOrLink(ctx context.Context, req *CreateTeacherRequest) (*models.Identity, error) {
	identity, err := s.repo.Identity().Invite(ctx, repositories.Invitation{
		Email:     req.Email,
		Name:      req.Name,
		Role:      req.Role,
		AvatarURL: lo.FromPtr(req.ImageURL),
	})
	if err == nil {
		return identity, nil
	}
	if !repositories.IsDuplicateError(err) {
		return nil, NewBackendError("invite teacher", err)
	}

	identity, err = s.repo.Identity().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, NewBackendError("link teacher account", err)
	}
	s.logger.Info("Linking existing identity to new teacher", "email", req.Email, "identity_id", identity.ID)
	return identity, nil
}

func (s *teacherService) sendInvitation(ctx context.Context, teacher *models.Teacher, actor *models.Identity) bool {
	invitedBy := ""
	if actor != nil {
		invitedBy = actor.Name
	}

	msg, err := mail.InvitationMessage(mail.InvitationData{
		Name:           teacher.Name,
		Email:          teacher.Email,
		InvitedBy:      invitedBy,
		SignInURL:      s.signInURL,
		SetPasswordURL: s.repo.Identity().PasswordResetURL(),
	})
	if err != nil {
		s.logger.Error("Failed to render invitation", "teacher_id", teacher.ID, "error", err)
		return false
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("Failed to send invitation", "teacher_id", teacher.ID, "error", err)
		return false
	}
	return true
}

func (s *teacherService) publish(ctx context.Context, event *events.Event) {
	publishEvent(ctx, s.publisher, s.logger, event)
}

// updateFields maps the supplied fields to column updates.
func updateFields(req *UpdateTeacherRequest) map[string]interface{} {
	fields := make(map[string]interface{})
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Role != nil {
		fields["role"] = *req.Role
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}
	return fields
}

// publishEvent never fails the caller, a lost event is only logged.
func publishEvent(ctx context.Context, publisher events.EventPublisher, logger *slog.Logger, event *events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish event", "event_type", event.Type, "subject_id", event.SubjectID, "error", err)
	}
}

func actorID(actor *models.Identity) string {
	if actor == nil {
		return ""
	}
	return actor.ID
}
