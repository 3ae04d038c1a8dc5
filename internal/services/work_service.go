package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
	"gorm.io/datatypes"

	"github.com/SAP-F-2025/school-admin-service/internal/events"
	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

const (
	defaultPendingLimit = 20
	maxPendingLimit     = 100
)

type workService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewWorkService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) WorkService {
	return &workService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

func (s *workService) Submit(ctx context.Context, req *SubmitWorkRequest, teacherID string) (*WorkResponse, error) {
	s.logger.Info("Submitting work", "teacher_id", teacherID)

	if req == nil {
		return nil, ErrValidationFailed
	}
	req.StudentName = strings.TrimSpace(req.StudentName)
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	teacher, err := s.repo.Teacher().GetByID(ctx, teacherID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTeacherNotFound
		}
		return nil, NewBackendError("get teacher", err)
	}

	attachments, err := json.Marshal(lo.Uniq(lo.Compact(req.Attachments)))
	if err != nil {
		return nil, fmt.Errorf("failed to encode attachments: %w", err)
	}

	work := &models.Work{
		TeacherID:   teacher.ID,
		StudentName: req.StudentName,
		Title:       req.Title,
		Description: req.Description,
		LinkURL:     req.LinkURL,
		Attachments: datatypes.JSON(attachments),
		SubmittedAt: time.Now().UTC(),
	}

	if err := s.repo.Work().Create(ctx, work); err != nil {
		return nil, NewBackendError("create work", err)
	}
	work.Teacher = teacher

	publishEvent(ctx, s.publisher, s.logger, events.NewEvent(events.WorkSubmitted, work.ID, teacherID, map[string]interface{}{
		"title":        work.Title,
		"student_name": work.StudentName,
	}))

	s.logger.Info("Work submitted successfully", "work_id", work.ID)
	return NewWorkResponse(work), nil
}

func (s *workService) ListPending(ctx context.Context, reviewer *models.Identity, page, limit int) (*WorkListResponse, error) {
	if reviewer == nil {
		return nil, ErrUnauthorized
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPendingLimit {
		limit = defaultPendingLimit
	}

	filters := repositories.WorkFilters{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if !reviewer.IsAdmin() {
		filters.TeacherID = &reviewer.ID
	}

	works, total, err := s.repo.Work().ListPending(ctx, filters)
	if err != nil {
		return nil, NewBackendError("list pending works", err)
	}

	data := lo.Map(works, func(w *models.Work, _ int) *WorkResponse {
		return NewWorkResponse(w)
	})

	return models.NewPaginatedResponse(data, total, page, limit), nil
}

func (s *workService) Review(ctx context.Context, id string, req *ReviewWorkRequest, reviewer *models.Identity) (*models.Work, error) {
	s.logger.Info("Reviewing work", "work_id", id, "reviewer_id", actorID(reviewer))

	if reviewer == nil {
		return nil, ErrUnauthorized
	}
	if req == nil {
		return nil, ErrValidationFailed
	}
	req.Comment = strings.TrimSpace(req.Comment)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	work, err := s.repo.Work().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrWorkNotFound
		}
		return nil, NewBackendError("get work", err)
	}

	if !reviewer.IsAdmin() && work.TeacherID != reviewer.ID {
		return nil, ErrForbidden
	}
	if errs := validator.ValidateReviewTransition(work.ReviewStatus); len(errs) > 0 {
		return nil, ErrWorkAlreadyReviewed
	}

	review := repositories.WorkReview{
		Status:     req.Decision,
		Comment:    lo.EmptyableToPtr(req.Comment),
		ReviewedBy: reviewer.ID,
		ReviewedAt: time.Now().UTC(),
	}

	if err := s.repo.Work().UpdateReview(ctx, id, review); err != nil {
		switch {
		case repositories.IsNotFoundError(err):
			return nil, ErrWorkNotFound
		case errors.Is(err, repositories.ErrConflict):
			return nil, ErrWorkAlreadyReviewed
		}
		return nil, NewBackendError("review work", err)
	}

	work.ReviewStatus = review.Status
	work.ReviewComment = review.Comment
	work.ReviewedBy = &review.ReviewedBy
	work.ReviewedAt = &review.ReviewedAt

	publishEvent(ctx, s.publisher, s.logger, events.NewEvent(events.WorkReviewed, id, reviewer.ID, map[string]interface{}{
		"decision":   review.Status,
		"teacher_id": work.TeacherID,
	}))

	s.logger.Info("Work reviewed successfully", "work_id", id, "decision", review.Status)
	return work, nil
}

// NewWorkResponse flattens a work for the review queue.
func NewWorkResponse(w *models.Work) *WorkResponse {
	resp := &WorkResponse{
		ID:           w.ID,
		Title:        w.Title,
		Description:  lo.FromPtr(w.Description),
		StudentName:  w.StudentName,
		TeacherID:    w.TeacherID,
		LinkURL:      lo.FromPtr(w.LinkURL),
		Attachments:  w.AttachmentURLs(),
		ReviewStatus: w.ReviewStatus,
		SubmittedAt:  w.SubmittedAt,
	}
	if resp.Attachments == nil {
		resp.Attachments = []string{}
	}
	if w.Teacher != nil {
		resp.TeacherName = w.Teacher.Name
	}
	return resp
}
