package views

import (
	"html/template"
	"time"

	"github.com/SAP-F-2025/school-admin-service/internal/i18n"
	"github.com/SAP-F-2025/school-admin-service/internal/models"
)

// Layout is embedded by every page.
type Layout struct {
	Locale string
	Title  string
	Bundle i18n.Bundle
	User   *models.Identity
	// Flash is a one-line confirmation shown above the content
	Flash  string
	Footer FooterProps
}

// FooterProps renders the page footer.
type FooterProps struct {
	AppName string
	Year    int
	Text    string
}

func NewLayout(locale string, bundle i18n.Bundle, user *models.Identity, titleKey string) Layout {
	return Layout{
		Locale: locale,
		Title:  bundle.T(titleKey),
		Bundle: bundle,
		User:   user,
		Footer: FooterProps{
			AppName: bundle.T("app.title"),
			Year:    time.Now().Year(),
			Text:    bundle.T("footer.copyright"),
		},
	}
}

// ===== COMPONENTS =====

// TextareaProps renders a labelled textarea with its validation message.
type TextareaProps struct {
	ID          string
	Name        string
	Label       string
	Value       string
	Placeholder string
	Rows        int
	MaxLength   int
	Required    bool
	Error       string
}

// LinkPreviewProps renders an external link as a card.
type LinkPreviewProps struct {
	URL         string
	Title       string
	Description string
	ImageURL    string
}

// WorkCardProps renders one work of the review queue.
type WorkCardProps struct {
	ID          string
	Title       string
	Description string
	StudentName string
	TeacherName string
	SubmittedAt time.Time
	Attachments []string
	Link        *LinkPreviewProps
	// ReviewAction is the form target; no form is rendered when empty
	ReviewAction string
	Labels       WorkCardLabels
}

// WorkCardLabels are the card captions; empty ones fall back to English.
type WorkCardLabels struct {
	SubmittedBy string
	Teacher     string
	Attachments string
	Comment     string
	Approve     string
	Reject      string
}

// PendingWorksListProps renders the review queue.
type PendingWorksListProps struct {
	Works        []WorkCardProps
	Heading      string
	EmptyMessage string
}

// TeacherRow is one line of the teachers table.
type TeacherRow struct {
	ID          string
	Name        string
	Email       string
	Role        models.UserRole
	Status      models.TeacherStatus
	LastLoginAt *time.Time
}

// PaginationProps renders previous and next links.
type PaginationProps struct {
	Page       int
	TotalPages int
	Total      int64
	BaseURL    string
	// Query carries the active filters, already encoded
	Query template.URL
}

func (p PaginationProps) HasPrev() bool { return p.Page > 1 }
func (p PaginationProps) HasNext() bool { return p.Page < p.TotalPages }
func (p PaginationProps) Prev() int     { return p.Page - 1 }
func (p PaginationProps) Next() int     { return p.Page + 1 }

// ===== PAGES =====

type LoginPage struct {
	Layout
	SignInURL string
	Error     string
}

type DashboardPage struct {
	Layout
	Stats          models.TeacherStats
	PendingWorks   int64
	RecentActivity []RecentActivity
}

type RecentActivity struct {
	Title       string
	StudentName string
	Action      string
	TimeAgo     string
}

type TeachersPage struct {
	Layout
	Teachers   []TeacherRow
	Search     string
	Status     string
	Statuses   []models.TeacherStatus
	Pagination PaginationProps
	Error      string
}

type TeacherFormPage struct {
	Layout
	Email          string
	Name           string
	Role           models.UserRole
	Roles          []models.UserRole
	SendInvitation bool
	Bio            TextareaProps
	Errors         map[string]string
	Error          string
}

type PendingWorksPage struct {
	Layout
	List       PendingWorksListProps
	Pagination PaginationProps
	Error      string
}

type ResetPasswordPage struct {
	Layout
	// Authenticated pages change the password, anonymous ones request a link
	Authenticated bool
	Email         string
	Errors        map[string]string
	Error         string
	Done          bool
}

type ErrorPage struct {
	Layout
	Status  int
	Message string
}
