package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/services"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

func apiRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+validToken)
	return req
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestTeacherHandler_CreateTeacher(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantField  string
	}{
		{name: "created", wantStatus: http.StatusCreated},
		{
			name: "validation errors",
			serviceErr: validator.ValidationErrors{
				{Field: "email", Message: "Inserisci un indirizzo email valido", Rule: "email"},
			},
			wantStatus: http.StatusBadRequest,
			wantField:  "email",
		},
		{name: "duplicate email", serviceErr: services.ErrEmailAlreadyExists, wantStatus: http.StatusConflict},
		{
			name:       "identity provider down",
			serviceErr: services.NewBackendError("invite teacher", errors.New("connection refused")),
			wantStatus: http.StatusBadGateway,
		},
		{name: "unexpected", serviceErr: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			admin := s.signIn(models.RoleAdmin)

			var resp *services.CreateTeacherResponse
			if tt.serviceErr == nil {
				resp = &services.CreateTeacherResponse{
					Teacher:        &models.Teacher{ID: "t1", Email: "a@b.com", Name: "Jo", Status: models.StatusInvited},
					InvitationSent: true,
				}
			}
			s.sm.teacher.On("CreateFromInput", mock.Anything, mock.MatchedBy(func(in map[string]interface{}) bool {
				return in["email"] == "a@b.com" && in["name"] == "Jo"
			}), admin).Return(resp, tt.serviceErr)

			w := s.do(apiRequest(http.MethodPost, "/api/v1/teachers", `{"email":"a@b.com","name":"Jo"}`))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantField != "" {
				errResp := decodeError(t, w)
				assert.Len(t, errResp.ValidationErrors, 1)
				assert.Contains(t, errResp.ValidationErrors, tt.wantField)
			}
			s.sm.teacher.AssertExpectations(t)
		})
	}
}

func TestTeacherHandler_CreateTeacher_InvalidJSON(t *testing.T) {
	s := newTestServer(t)
	s.signIn(models.RoleAdmin)

	w := s.do(apiRequest(http.MethodPost, "/api/v1/teachers", `{"email":`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	s.sm.teacher.AssertNotCalled(t, "CreateFromInput", mock.Anything, mock.Anything, mock.Anything)
}

func TestTeacherHandler_UpdateTeacher(t *testing.T) {
	t.Run("status outside the update schema", func(t *testing.T) {
		s := newTestServer(t)
		s.signIn(models.RoleAdmin)

		w := s.do(apiRequest(http.MethodPut, "/api/v1/teachers/t1", `{"status":"invited"}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w).ValidationErrors, "status")
		s.sm.teacher.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("only supplied fields reach the service", func(t *testing.T) {
		s := newTestServer(t)
		admin := s.signIn(models.RoleAdmin)
		s.sm.teacher.On("Update", mock.Anything, "t1", mock.MatchedBy(func(req *services.UpdateTeacherRequest) bool {
			return req.Status != nil && *req.Status == models.StatusSuspended && req.Name == nil && req.Role == nil
		}), admin).Return(&models.Teacher{ID: "t1", Status: models.StatusSuspended}, nil)

		w := s.do(apiRequest(http.MethodPut, "/api/v1/teachers/t1", `{"status":"suspended"}`))

		assert.Equal(t, http.StatusOK, w.Code)
		s.sm.teacher.AssertExpectations(t)
	})

	t.Run("missing teacher", func(t *testing.T) {
		s := newTestServer(t)
		s.signIn(models.RoleAdmin)
		s.sm.teacher.On("Update", mock.Anything, "nope", mock.Anything, mock.Anything).Return(nil, services.ErrTeacherNotFound)

		w := s.do(apiRequest(http.MethodPut, "/api/v1/teachers/nope", `{"name":"Maria"}`))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTeacherHandler_ListTeachers(t *testing.T) {
	s := newTestServer(t)
	s.signIn(models.RoleAdmin)
	s.sm.teacher.On("List", mock.Anything, mock.MatchedBy(func(f *services.TeacherFiltersRequest) bool {
		return f.Page == 2 && f.Limit == 5 && f.Status == models.StatusActive
	})).Return(models.NewPaginatedResponse([]*models.Teacher{{ID: "t6"}}, 6, 2, 5), nil)

	w := s.do(apiRequest(http.MethodGet, "/api/v1/teachers?page=2&limit=5&status=active", ""))

	require.Equal(t, http.StatusOK, w.Code)
	var resp services.TeacherListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(6), resp.Total)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Len(t, resp.Data, 1)
}

func TestTeacherHandler_ExportTeachers(t *testing.T) {
	s := newTestServer(t)
	s.signIn(models.RoleAdmin)
	s.sm.teacher.On("Export", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	w := s.do(apiRequest(http.MethodGet, "/api/v1/teachers/export?status=active", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, "PK", w.Body.String())
}

func TestWorkHandler_ReviewWork(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		callsSvc   bool
		wantStatus int
	}{
		{name: "approved", body: `{"decision":"approved"}`, callsSvc: true, wantStatus: http.StatusOK},
		{name: "unknown decision", body: `{"decision":"maybe"}`, wantStatus: http.StatusBadRequest},
		{name: "rejection without comment", body: `{"decision":"rejected"}`, wantStatus: http.StatusBadRequest},
		{name: "already reviewed", body: `{"decision":"approved"}`, serviceErr: services.ErrWorkAlreadyReviewed, callsSvc: true, wantStatus: http.StatusConflict},
		{name: "other teacher's work", body: `{"decision":"approved"}`, serviceErr: services.ErrForbidden, callsSvc: true, wantStatus: http.StatusForbidden},
		{name: "missing work", body: `{"decision":"approved"}`, serviceErr: services.ErrWorkNotFound, callsSvc: true, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.signIn(models.RoleTeacher)
			if tt.callsSvc {
				var work *models.Work
				if tt.serviceErr == nil {
					work = &models.Work{ID: "w1", ReviewStatus: models.ReviewApproved}
				}
				s.sm.work.On("Review", mock.Anything, "w1", mock.Anything, mock.Anything).Return(work, tt.serviceErr)
			}

			w := s.do(apiRequest(http.MethodPost, "/api/v1/works/w1/review", tt.body))

			assert.Equal(t, tt.wantStatus, w.Code)
			if !tt.callsSvc {
				s.sm.work.AssertNotCalled(t, "Review", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestWorkHandler_ListPendingWorks(t *testing.T) {
	s := newTestServer(t)
	s.signIn(models.RoleTeacher)
	data := []*services.WorkResponse{{ID: "w1", Title: "Tema"}, {ID: "w2", Title: "Ricerca"}}
	s.sm.work.On("ListPending", mock.Anything, mock.Anything, 1, 20).Return(models.NewPaginatedResponse(data, 2, 1, 20), nil)

	w := s.do(apiRequest(http.MethodGet, "/api/v1/works/pending", ""))

	require.Equal(t, http.StatusOK, w.Code)
	var resp services.WorkListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
	assert.GreaterOrEqual(t, resp.Total, int64(len(resp.Data)))
}

func TestWorkHandler_SubmitWork(t *testing.T) {
	s := newTestServer(t)
	teacher := s.signIn(models.RoleTeacher)
	s.sm.work.On("Submit", mock.Anything, mock.Anything, teacher.ID).Return(&services.WorkResponse{ID: "w9", Title: "Tema"}, nil)

	w := s.do(apiRequest(http.MethodPost, "/api/v1/works", `{"student_name":"Giulia","title":"Tema"}`))

	assert.Equal(t, http.StatusCreated, w.Code)
	s.sm.work.AssertExpectations(t)
}

func TestAuthHandler(t *testing.T) {
	t.Run("reset request is public", func(t *testing.T) {
		s := newTestServer(t)
		s.sm.auth.On("RequestPasswordReset", mock.Anything, &services.RequestPasswordResetRequest{Email: "a@b.com"}).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/password-reset", strings.NewReader(`{"email":"a@b.com"}`))
		req.Header.Set("Content-Type", "application/json")
		w := s.do(req)

		assert.Equal(t, http.StatusAccepted, w.Code)
	})

	t.Run("password change needs a session", func(t *testing.T) {
		s := newTestServer(t)

		req := httptest.NewRequest(http.MethodPut, "/api/v1/auth/password", strings.NewReader(`{}`))
		w := s.do(req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("password change", func(t *testing.T) {
		s := newTestServer(t)
		user := s.signIn(models.RoleTeacher)
		s.sm.auth.On("ResetPassword", mock.Anything, user.ID, mock.Anything).Return(nil)

		w := s.do(apiRequest(http.MethodPut, "/api/v1/auth/password", `{"password":"nuova-password","confirm_password":"nuova-password"}`))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestDashboardHandler(t *testing.T) {
	s := newTestServer(t)
	s.signIn(models.RoleTeacher)
	s.sm.dashboard.On("GetActivityTrends", mock.Anything, 14).Return([]services.ActivityTrendResponse{{Period: "01/03", Submitted: 2}}, nil)

	w := s.do(apiRequest(http.MethodGet, "/api/v1/dashboard/activity-trends?days=14", ""))
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(apiRequest(http.MethodGet, "/api/v1/dashboard/activity-trends?days=abc", ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSystemHandler(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	s.sm.healthErr = errors.New("db down")
	w = s.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = s.do(httptest.NewRequest(http.MethodGet, "/locales/en", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var bundle map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bundle))
	assert.Equal(t, "No Works Pending Review", bundle["works.empty"])

	w = s.do(httptest.NewRequest(http.MethodGet, "/locales/fr", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
