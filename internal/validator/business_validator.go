package validator

import (
	"github.com/SAP-F-2025/school-admin-service/internal/models"
)

// Business rules that depend on stored state rather than on the request alone.

// ValidateSelfUpdate stops an administrator from locking themselves out.
func ValidateSelfUpdate(actor *models.Identity, teacherID string, req *UpdateTeacherRequest) ValidationErrors {
	var errors ValidationErrors
	if actor == nil || actor.ID != teacherID || req == nil {
		return errors
	}

	if req.Status != nil && *req.Status != models.StatusActive {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: "Non puoi disattivare il tuo account",
			Value:   *req.Status,
			Rule:    "self_status",
		})
	}

	if actor.IsAdmin() && req.Role != nil && *req.Role != models.RoleAdmin {
		errors = append(errors, ValidationError{
			Field:   "role",
			Message: "Non puoi rimuovere il tuo ruolo di amministratore",
			Value:   *req.Role,
			Rule:    "self_role",
		})
	}

	return errors
}

// ValidateStatusTransition validates a teacher status change.
// Invited accounts become active on first sign-in, so an admin may only suspend them.
func ValidateStatusTransition(current, next models.TeacherStatus) ValidationErrors {
	var errors ValidationErrors
	if current == next {
		return errors
	}

	if current == models.StatusInvited && next != models.StatusSuspended {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: "Un docente invitato può essere solo sospeso",
			Value:   next,
			Rule:    "status_transition",
		})
	}

	return errors
}

// ValidateReviewTransition only allows a decision on works still waiting for review.
func ValidateReviewTransition(current models.ReviewStatus) ValidationErrors {
	var errors ValidationErrors
	if current != models.ReviewPending {
		errors = append(errors, ValidationError{
			Field:   "decision",
			Message: "Il lavoro è già stato revisionato",
			Value:   current,
			Rule:    "review_transition",
		})
	}
	return errors
}
