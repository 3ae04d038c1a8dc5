package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
	"github.com/SAP-F-2025/school-admin-service/internal/services"
	"github.com/SAP-F-2025/school-admin-service/internal/utils"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
	"github.com/SAP-F-2025/school-admin-service/internal/views"
)

type HandlerManager struct {
	teacherHandler   *TeacherHandler
	workHandler      *WorkHandler
	authHandler      *AuthHandler
	dashboardHandler *DashboardHandler
	pageHandler      *PageHandler
	systemHandler    *SystemHandler
	gate             *SessionGate
	renderer         *views.Renderer
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	repo repositories.Repository,
	validator *validator.Validator,
	renderer *views.Renderer,
	logger utils.Logger,
	pageConfig PageConfig,
) *HandlerManager {
	return &HandlerManager{
		teacherHandler:   NewTeacherHandler(serviceManager.Teacher(), validator, logger),
		workHandler:      NewWorkHandler(serviceManager.Work(), validator, logger),
		authHandler:      NewAuthHandler(serviceManager.Auth(), logger),
		dashboardHandler: NewDashboardHandler(serviceManager.Dashboard(), logger),
		pageHandler:      NewPageHandler(serviceManager, repo.Identity(), validator, logger, pageConfig),
		systemHandler:    NewSystemHandler(serviceManager, logger),
		gate:             NewSessionGate(repo.Identity(), repo.Teacher(), logger),
		renderer:         renderer,
	}
}

// SetupRoutes sets up the pages and the API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.HTMLRender = hm.renderer

	router.GET("/health", hm.systemHandler.Health)
	router.GET("/locales/:locale", hm.systemHandler.GetLocale)

	// Browser session
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/login")
	})
	router.GET("/login", hm.pageHandler.LoginRedirect)
	router.GET("/auth/callback", hm.pageHandler.AuthCallback)
	router.POST("/logout", hm.pageHandler.Logout)

	pages := router.Group("/:locale")
	pages.Use(hm.pageHandler.LocaleMiddleware())
	{
		pages.GET("/login", hm.pageHandler.Login)

		// Anonymous visitors request a link, signed-in users change the password
		pages.GET("/reset-password", hm.gate.Optional(), hm.pageHandler.ResetPassword)
		pages.POST("/reset-password", hm.gate.Optional(), hm.pageHandler.SubmitResetPassword)

		protected := pages.Group("")
		protected.Use(hm.gate.PageGate())
		{
			protected.GET("/dashboard", hm.pageHandler.Dashboard)
			protected.GET("/works/pending", hm.pageHandler.PendingWorks)
			protected.POST("/works/:id/review", hm.pageHandler.ReviewWork)

			// Teacher management - Admins only
			teachers := protected.Group("/teachers")
			teachers.Use(hm.pageHandler.RequireAdminPage())
			{
				teachers.GET("", hm.pageHandler.Teachers)
				teachers.GET("/new", hm.pageHandler.NewTeacher)
				teachers.POST("", hm.pageHandler.CreateTeacher)
			}
		}
	}

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/password-reset", hm.authHandler.RequestPasswordReset)

		authed := v1.Group("")
		authed.Use(hm.gate.APIAuth())
		{
			authed.PUT("/auth/password", hm.authHandler.ResetPassword)

			// Teacher routes - Admins only
			teachers := authed.Group("/teachers")
			teachers.Use(hm.gate.RequireRole(models.RoleAdmin))
			{
				teachers.POST("", hm.teacherHandler.CreateTeacher)
				teachers.GET("", hm.teacherHandler.ListTeachers)
				teachers.GET("/stats", hm.teacherHandler.GetTeacherStats)
				teachers.GET("/export", hm.teacherHandler.ExportTeachers)
				teachers.GET("/:id", hm.teacherHandler.GetTeacher)
				teachers.PUT("/:id", hm.teacherHandler.UpdateTeacher)
			}

			// Work routes - Teachers and Admins
			works := authed.Group("/works")
			works.Use(hm.gate.RequireRole(models.RoleTeacher))
			{
				works.POST("", hm.workHandler.SubmitWork)
				works.GET("/pending", hm.workHandler.ListPendingWorks)
				works.POST("/:id/review", hm.workHandler.ReviewWork)
			}

			// Dashboard routes - Teachers and Admins
			dashboard := authed.Group("/dashboard")
			dashboard.Use(hm.gate.RequireRole(models.RoleTeacher))
			{
				dashboard.GET("/stats", hm.dashboardHandler.GetDashboardStats)
				dashboard.GET("/activity-trends", hm.dashboardHandler.GetActivityTrends)
				dashboard.GET("/recent-activities", hm.dashboardHandler.GetRecentActivities)
			}
		}
	}
}
