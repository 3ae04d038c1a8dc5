package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/SAP-F-2025/school-admin-service/internal/i18n"
	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
	"github.com/SAP-F-2025/school-admin-service/internal/services"
	"github.com/SAP-F-2025/school-admin-service/internal/utils"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
	"github.com/SAP-F-2025/school-admin-service/internal/views"
)

const (
	contextLocale = "locale"
	contextBundle = "bundle"
	localeCookie  = "locale"
	// oauthStateCookie binds the authorization callback to the browser that started it
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 600

	pendingWorksPageSize = 20
	teachersPageSize     = 10
)

// PageConfig carries the browser flow settings.
type PageConfig struct {
	DefaultLocale string
	// RedirectURL is the callback registered at the identity provider
	RedirectURL   string
	SecureCookies bool
}

// PageHandler serves the server rendered pages.
type PageHandler struct {
	BaseHandler
	services  services.ServiceManager
	identity  repositories.IdentityRepository
	validator *validator.Validator
	config    PageConfig
}

func NewPageHandler(
	serviceManager services.ServiceManager,
	identity repositories.IdentityRepository,
	validator *validator.Validator,
	logger utils.Logger,
	config PageConfig,
) *PageHandler {
	if !i18n.IsSupported(config.DefaultLocale) {
		config.DefaultLocale = i18n.SupportedLocales[0]
	}
	return &PageHandler{
		BaseHandler: NewBaseHandler(logger),
		services:    serviceManager,
		identity:    identity,
		validator:   validator,
		config:      config,
	}
}

// LocaleMiddleware loads the bundle of the :locale path segment.
// Unknown locales get the not found page in the default locale.
func (h *PageHandler) LocaleMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := c.Param("locale")
		bundle, err := i18n.Load(locale)
		if err != nil {
			locale = h.config.DefaultLocale
			bundle, _ = i18n.Load(locale)
			c.Set(contextLocale, locale)
			c.Set(contextBundle, bundle)
			h.renderError(c, http.StatusNotFound, "error.not_found")
			c.Abort()
			return
		}

		c.Set(contextLocale, locale)
		c.Set(contextBundle, bundle)
		c.SetCookie(localeCookie, locale, 365*24*3600, "/", "", h.config.SecureCookies, true)
		c.Next()
	}
}

// RequireAdminPage renders the forbidden page for non administrators.
func (h *PageHandler) RequireAdminPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.currentIdentity(c).IsAdmin() {
			h.renderError(c, http.StatusForbidden, "error.forbidden")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ===== SESSION =====

// LoginRedirect sends /login to the login page of the preferred locale, keeping the query.
func (h *PageHandler) LoginRedirect(c *gin.Context) {
	locale := h.config.DefaultLocale
	if cookie, err := c.Cookie(localeCookie); err == nil && i18n.IsSupported(cookie) {
		locale = cookie
	}

	target := "/" + locale + "/login"
	if q := c.Request.URL.RawQuery; q != "" {
		target += "?" + q
	}
	c.Redirect(http.StatusFound, target)
}

func (h *PageHandler) Login(c *gin.Context) {
	bundle := h.bundle(c)

	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/", "", h.config.SecureCookies, true)

	page := views.LoginPage{
		Layout:    h.layout(c, "login.title"),
		SignInURL: h.identity.SignInURL(h.config.RedirectURL, state),
	}

	if code := c.Query("error"); code != "" {
		key := "login.error." + code
		if _, ok := bundle[key]; !ok {
			key = "login.error.auth_failed"
		}
		page.Error = bundle.T(key)
	}

	c.HTML(http.StatusOK, views.PageLogin, page)
}

// AuthCallback exchanges the authorization code and opens the browser session.
func (h *PageHandler) AuthCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	expected, _ := c.Cookie(oauthStateCookie)
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.config.SecureCookies, true)

	if code == "" || state == "" || state != expected {
		utils.GetLogger(c, h.logger).Warn("Rejected authorization callback", "has_code", code != "", "state_match", state != "" && state == expected)
		c.Redirect(http.StatusFound, "/login?error=auth_failed")
		return
	}

	token, err := h.identity.ExchangeCode(c.Request.Context(), code, state)
	if err != nil {
		h.LogError(c, err, "Authorization code exchange failed")
		c.Redirect(http.StatusFound, "/login?error=auth_failed")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, token, 0, "/", "", h.config.SecureCookies, true)

	locale := h.config.DefaultLocale
	if cookie, err := c.Cookie(localeCookie); err == nil && i18n.IsSupported(cookie) {
		locale = cookie
	}
	c.Redirect(http.StatusFound, "/"+locale+"/dashboard")
}

func (h *PageHandler) Logout(c *gin.Context) {
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", h.config.SecureCookies, true)
	c.Redirect(http.StatusSeeOther, "/login")
}

// ===== DASHBOARD =====

func (h *PageHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.services.Dashboard().GetDashboardStats(ctx)
	if err != nil {
		h.renderServiceError(c, err)
		return
	}

	activities, err := h.services.Dashboard().GetRecentActivities(ctx, 5)
	if err != nil {
		h.renderServiceError(c, err)
		return
	}

	locale, now := h.locale(c), time.Now()
	c.HTML(http.StatusOK, views.PageDashboard, views.DashboardPage{
		Layout:       h.layout(c, "dashboard.title"),
		Stats:        stats.Teachers,
		PendingWorks: stats.Works.Pending,
		RecentActivity: lo.Map(activities, func(a services.RecentActivityResponse, _ int) views.RecentActivity {
			return views.RecentActivity{
				Title:       a.Title,
				StudentName: a.StudentName,
				Action:      a.Action,
				TimeAgo:     i18n.TimeAgo(locale, a.CreatedAt, now),
			}
		}),
	})
}

// ===== TEACHERS =====

func (h *PageHandler) Teachers(c *gin.Context) {
	filters := validator.NewTeacherFiltersRequest()
	if err := c.ShouldBindQuery(filters); err != nil || filters.Page < 1 {
		filters.Page = 1
	}
	filters.Limit = teachersPageSize

	page := views.TeachersPage{
		Layout:   h.layout(c, "teachers.title"),
		Search:   filters.Search,
		Status:   string(filters.Status),
		Statuses: models.AllTeacherStatuses,
	}
	if c.Query("created") != "" {
		page.Flash = h.bundle(c).T("teacher_form.created")
	}

	resp, err := h.services.Teacher().List(c.Request.Context(), filters)
	if err != nil {
		status, msg := h.pageError(c, err)
		page.Error = msg
		c.HTML(status, views.PageTeachers, page)
		return
	}

	page.Teachers = lo.Map(resp.Data, func(t *models.Teacher, _ int) views.TeacherRow {
		return views.TeacherRow{
			ID:          t.ID,
			Name:        t.Name,
			Email:       t.Email,
			Role:        t.Role,
			Status:      t.Status,
			LastLoginAt: t.LastLoginAt,
		}
	})
	page.Pagination = views.PaginationProps{
		Page:       resp.Page,
		TotalPages: resp.TotalPages,
		Total:      resp.Total,
		BaseURL:    "/" + h.locale(c) + "/teachers",
		Query:      filterQuery(filters),
	}

	c.HTML(http.StatusOK, views.PageTeachers, page)
}

func (h *PageHandler) NewTeacher(c *gin.Context) {
	c.HTML(http.StatusOK, views.PageTeacherForm, h.teacherForm(c))
}

// CreateTeacher handles the new teacher form. Rejected input re-renders the
// form with one message per invalid field.
func (h *PageHandler) CreateTeacher(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		h.renderError(c, http.StatusBadRequest, "error.invalid_input")
		return
	}
	form := c.Request.PostForm

	input := map[string]interface{}{}
	for _, key := range []string{"email", "name", "role", "bio"} {
		if v := strings.TrimSpace(form.Get(key)); v != "" {
			input[key] = v
		}
	}
	if values, ok := form["send_invitation"]; ok {
		input["send_invitation"] = lo.Contains(values, "true")
	}

	page := h.teacherForm(c)
	page.Email = form.Get("email")
	page.Name = form.Get("name")
	if role := models.UserRole(form.Get("role")); role != "" {
		page.Role = role
	}
	page.Bio.Value = form.Get("bio")
	if v, ok := input["send_invitation"].(bool); ok {
		page.SendInvitation = v
	}

	h.LogRequest(c, "Creating teacher from form")

	_, err := h.services.Teacher().CreateFromInput(c.Request.Context(), input, h.currentIdentity(c))
	if err != nil {
		var verrs validator.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			page.Errors = verrs.Fields()
			page.Bio.Error = page.Errors["bio"]
			c.HTML(http.StatusBadRequest, views.PageTeacherForm, page)
		case errors.Is(err, services.ErrEmailAlreadyExists):
			page.Errors = map[string]string{"email": h.validator.Message("email", "unique")}
			c.HTML(http.StatusConflict, views.PageTeacherForm, page)
		default:
			status, msg := h.pageError(c, err)
			page.Error = msg
			c.HTML(status, views.PageTeacherForm, page)
		}
		return
	}

	c.Redirect(http.StatusSeeOther, "/"+h.locale(c)+"/teachers?created=1")
}

func (h *PageHandler) teacherForm(c *gin.Context) views.TeacherFormPage {
	bundle := h.bundle(c)
	return views.TeacherFormPage{
		Layout:         h.layout(c, "teacher_form.title"),
		Role:           models.RoleTeacher,
		Roles:          []models.UserRole{models.RoleTeacher, models.RoleAdmin},
		SendInvitation: true,
		Bio: views.TextareaProps{
			ID:        "bio",
			Name:      "bio",
			Label:     bundle.T("teacher_form.bio"),
			MaxLength: 500,
		},
		Errors: map[string]string{},
	}
}

// ===== WORKS =====

func (h *PageHandler) PendingWorks(c *gin.Context) {
	var flash string
	if c.Query("reviewed") != "" {
		flash = h.bundle(c).T("works.reviewed")
	}
	h.renderPendingWorks(c, http.StatusOK, flash, "")
}

// ReviewWork handles the approve and reject buttons of a work card.
func (h *PageHandler) ReviewWork(c *gin.Context) {
	input := map[string]interface{}{
		"decision": c.PostForm("decision"),
		"comment":  c.PostForm("comment"),
	}

	req, err := h.validator.ParseReviewWork(input)
	if err == nil {
		_, err = h.services.Work().Review(c.Request.Context(), c.Param("id"), req, h.currentIdentity(c))
	}
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			h.renderPendingWorks(c, http.StatusBadRequest, "", strings.Join(lo.Values(verrs.Fields()), ". "))
			return
		}
		status, msg := h.pageError(c, err)
		h.renderPendingWorks(c, status, "", msg)
		return
	}

	c.Redirect(http.StatusSeeOther, "/"+h.locale(c)+"/works/pending?reviewed=1")
}

func (h *PageHandler) renderPendingWorks(c *gin.Context, status int, flash, errMsg string) {
	bundle := h.bundle(c)
	locale := h.locale(c)

	pageNum, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	page := views.PendingWorksPage{
		Layout: h.layout(c, "works.title"),
		List: views.PendingWorksListProps{
			Heading:      bundle.T("works.heading"),
			EmptyMessage: bundle.T("works.empty"),
		},
		Error: errMsg,
	}
	page.Flash = flash

	resp, err := h.services.Work().ListPending(c.Request.Context(), h.currentIdentity(c), pageNum, pendingWorksPageSize)
	if err != nil {
		listStatus, msg := h.pageError(c, err)
		page.Error = msg
		c.HTML(listStatus, views.PagePendingWorks, page)
		return
	}

	labels := views.WorkCardLabels{
		SubmittedBy: bundle.T("works.submitted_by"),
		Teacher:     bundle.T("works.teacher"),
		Attachments: bundle.T("works.attachments"),
		Comment:     bundle.T("works.comment"),
		Approve:     bundle.T("works.approve"),
		Reject:      bundle.T("works.reject"),
	}
	page.List.Works = lo.Map(resp.Data, func(w *services.WorkResponse, _ int) views.WorkCardProps {
		card := views.WorkCardProps{
			ID:           w.ID,
			Title:        w.Title,
			Description:  w.Description,
			StudentName:  w.StudentName,
			TeacherName:  w.TeacherName,
			SubmittedAt:  w.SubmittedAt,
			Attachments:  w.Attachments,
			ReviewAction: "/" + locale + "/works/" + url.PathEscape(w.ID) + "/review",
			Labels:       labels,
		}
		if w.LinkURL != "" {
			card.Link = &views.LinkPreviewProps{URL: w.LinkURL, Title: bundle.T("works.open_link")}
		}
		return card
	})
	page.Pagination = views.PaginationProps{
		Page:       resp.Page,
		TotalPages: resp.TotalPages,
		Total:      resp.Total,
		BaseURL:    "/" + locale + "/works/pending",
	}

	c.HTML(status, views.PagePendingWorks, page)
}

// ===== PASSWORD =====

// ResetPassword shows the change form to signed-in users and the request form to everyone else.
func (h *PageHandler) ResetPassword(c *gin.Context) {
	c.HTML(http.StatusOK, views.PageResetPassword, views.ResetPasswordPage{
		Layout:        h.layout(c, "reset_password.title"),
		Authenticated: h.currentIdentity(c) != nil,
		Errors:        map[string]string{},
	})
}

func (h *PageHandler) SubmitResetPassword(c *gin.Context) {
	identity := h.currentIdentity(c)
	page := views.ResetPasswordPage{
		Layout:        h.layout(c, "reset_password.title"),
		Authenticated: identity != nil,
		Errors:        map[string]string{},
	}

	var err error
	if identity != nil {
		var req services.ResetPasswordRequest
		if bindErr := c.ShouldBind(&req); bindErr != nil {
			h.renderInvalidResetForm(c, page, bindErr)
			return
		}
		err = h.services.Auth().ResetPassword(c.Request.Context(), identity.ID, &req)
	} else {
		var req services.RequestPasswordResetRequest
		if bindErr := c.ShouldBind(&req); bindErr != nil {
			h.renderInvalidResetForm(c, page, bindErr)
			return
		}
		page.Email = req.Email
		err = h.services.Auth().RequestPasswordReset(c.Request.Context(), &req)
	}

	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			page.Errors = verrs.Fields()
			c.HTML(http.StatusBadRequest, views.PageResetPassword, page)
			return
		}
		status, msg := h.pageError(c, err)
		page.Error = msg
		c.HTML(status, views.PageResetPassword, page)
		return
	}

	page.Done = true
	c.HTML(http.StatusOK, views.PageResetPassword, page)
}

func (h *PageHandler) renderInvalidResetForm(c *gin.Context, page views.ResetPasswordPage, err error) {
	h.LogError(c, err, "Failed to bind reset password form")
	page.Error = h.bundle(c).T("error.invalid_input")
	c.HTML(http.StatusBadRequest, views.PageResetPassword, page)
}

// ===== HELPERS =====

func (h *PageHandler) layout(c *gin.Context, titleKey string) views.Layout {
	return views.NewLayout(h.locale(c), h.bundle(c), h.currentIdentity(c), titleKey)
}

func (h *PageHandler) locale(c *gin.Context) string {
	if locale := c.GetString(contextLocale); locale != "" {
		return locale
	}
	return h.config.DefaultLocale
}

func (h *PageHandler) bundle(c *gin.Context) i18n.Bundle {
	if v, ok := c.Get(contextBundle); ok {
		if b, ok := v.(i18n.Bundle); ok {
			return b
		}
	}
	b, _ := i18n.Load(h.locale(c))
	return b
}

// pageError turns a service error into a status and an inline message.
func (h *PageHandler) pageError(c *gin.Context, err error) (int, string) {
	bundle := h.bundle(c)
	switch {
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, bundle.T("error.forbidden")
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, bundle.T("error.not_found")
	case errors.Is(err, services.ErrWorkAlreadyReviewed):
		return http.StatusConflict, bundle.T("works.already_reviewed")
	case errors.Is(err, services.ErrValidationFailed):
		return http.StatusBadRequest, bundle.T("error.invalid_input")
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized, bundle.T("login.error.invalid_token")
	case services.IsBackendError(err):
		h.LogError(c, err, "Backend failure while rendering page")
		return http.StatusBadGateway, bundle.T("error.backend")
	default:
		h.LogError(c, err, "Unexpected error while rendering page")
		return http.StatusInternalServerError, bundle.T("error.backend")
	}
}

func (h *PageHandler) renderServiceError(c *gin.Context, err error) {
	status, msg := h.pageError(c, err)
	c.HTML(status, views.PageError, views.ErrorPage{
		Layout:  h.layout(c, "app.title"),
		Status:  status,
		Message: msg,
	})
}

func (h *PageHandler) renderError(c *gin.Context, status int, key string) {
	c.HTML(status, views.PageError, views.ErrorPage{
		Layout:  h.layout(c, "app.title"),
		Status:  status,
		Message: h.bundle(c).T(key),
	})
}

func filterQuery(filters *services.TeacherFiltersRequest) template.URL {
	q := url.Values{}
	if filters.Search != "" {
		q.Set("search", filters.Search)
	}
	if filters.Status != "" {
		q.Set("status", string(filters.Status))
	}
	return template.URL(q.Encode())
}
