// Package v1 exposes the HTTP surface of API version 1.
package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/spms-dev/spms/internal/auth"
	"github.com/spms-dev/spms/internal/core/domain"
	logicv1 "github.com/spms-dev/spms/internal/logic/v1"
	"github.com/spms-dev/spms/middleware"
)

// Handler groups the HTTP handlers for API v1.
// Dependencies are injected via the constructor, no global state.
type Handler struct {
	auth    *logicv1.AuthService
	student *logicv1.StudentService
	staff   *logicv1.StaffService
	catalog *logicv1.CatalogService
	session *auth.SessionCarrier
	codec   *auth.TokenCodec
}

// NewHandler creates a new Handler.
func NewHandler(
	authSvc *logicv1.AuthService,
	studentSvc *logicv1.StudentService,
	staffSvc *logicv1.StaffService,
	catalogSvc *logicv1.CatalogService,
	session *auth.SessionCarrier,
	codec *auth.TokenCodec,
) *Handler {
	return &Handler{
		auth:    authSvc,
		student: studentSvc,
		staff:   staffSvc,
		catalog: catalogSvc,
		session: session,
		codec:   codec,
	}
}

// RegisterRoutes registers all API v1 routes on the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
	rg.POST("/auth/signup", h.Signup)
	rg.POST("/auth/logout", h.Logout)

	protected := rg.Group("", middleware.AuthRequired(h.codec))
	protected.GET("/profile", h.Profile)
	protected.PATCH("/profile", h.ChangePassword)
	protected.GET("/meetings", h.Meetings)
	protected.GET("/meetings/:id", h.MeetingsByGuide)
	protected.GET("/project-groups", h.ProjectGroups)

	student := protected.Group("/student", middleware.RoleRequired(domain.RoleStudent))
	student.GET("/dashboard/stats", h.StudentDashboard)
	student.GET("/project", h.StudentProject)
	student.GET("/group-members", h.StudentGroupMembers)
	student.GET("/meetings", h.StudentMeetings)
	student.GET("/documents", h.StudentDocuments)
	student.POST("/documents", h.UploadDocument)
	student.DELETE("/documents/:id", h.DeleteDocument)

	staff := protected.Group("/staff", middleware.RoleRequired(domain.RoleStaff))
	staff.GET("/dashboard/stats", h.StaffDashboard)
	staff.GET("/project-groups", h.StaffProjectGroups)
	staff.GET("/approvals", h.StaffApprovals)
	staff.GET("/meetings", h.StaffMeetings)
	staff.POST("/meetings", h.CreateMeeting)
	staff.DELETE("/meetings/:id", h.DeleteMeeting)
	staff.GET("/evaluations", h.StaffEvaluations)
	staff.POST("/evaluations/grade", h.GradeGroup)
}

// Login handles POST /auth/login: verifies credentials for the claimed
// role, sets the session cookie and returns the principal summary.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required!"})
		return
	}

	result, err := h.auth.Login(ctx, req)
	if err != nil {
		span.RecordError(err)
		logger.Warn().Err(err).Msg("Login failed")

		switch {
		case errors.Is(err, domain.ErrUnknownRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		case errors.Is(err, logicv1.ErrStudentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found!"})
		case errors.Is(err, logicv1.ErrStaffNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Staff not found!"})
		case errors.Is(err, logicv1.ErrIncorrectPassword):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect password!"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while signing in!"})
		}
		return
	}

	h.session.Establish(c, result.Token)

	logger.Info().Int("user_id", result.Principal.ID).Str("role", string(result.Principal.Role)).
		Msg("Login successful")
	c.JSON(http.StatusOK, result.Principal)
}

// Signup handles POST /auth/signup: registers a principal of the claimed
// role, sets the session cookie and returns the principal summary.
func (h *Handler) Signup(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	var req domain.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required!"})
		return
	}

	result, err := h.auth.Signup(ctx, req)
	if err != nil {
		span.RecordError(err)
		logger.Warn().Err(err).Str("email", req.Email).Msg("Signup failed")

		switch {
		case errors.Is(err, domain.ErrUnknownRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		case errors.Is(err, logicv1.ErrStudentExists):
			c.JSON(http.StatusConflict, gin.H{"error": "Student with this email already exists!"})
		case errors.Is(err, logicv1.ErrStaffExists):
			c.JSON(http.StatusConflict, gin.H{"error": "Staff with this email already exists!"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating account!"})
		}
		return
	}

	h.session.Establish(c, result.Token)

	logger.Info().Int("user_id", result.Principal.ID).Str("role", string(result.Principal.Role)).
		Msg("Registration successful")
	c.JSON(http.StatusCreated, result.Principal)
}

// Logout handles POST /auth/logout: overwrites the session cookie with an
// immediately-expiring empty value. Stateless tokens have no server-side
// record to clear.
func (h *Handler) Logout(c *gin.Context) {
	h.session.Revoke(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful!"})
}

// Profile handles GET /profile for either role.
func (h *Handler) Profile(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	profile, err := h.auth.Profile(ctx, principal)
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("Profile fetch failed")

		if errors.Is(err, logicv1.ErrPrincipalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ChangePassword handles PATCH /profile.
func (h *Handler) ChangePassword(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req domain.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both current and new password are required"})
		return
	}

	if err := h.auth.ChangePassword(ctx, principal, req); err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Password change failed")

		switch {
		case errors.Is(err, logicv1.ErrWrongCurrentPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
		case errors.Is(err, logicv1.ErrPrincipalNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
