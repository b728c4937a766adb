package v1

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	logicv1 "github.com/spms-dev/spms/internal/logic/v1"
	"github.com/spms-dev/spms/middleware"
)

// StaffDashboard handles GET /staff/dashboard/stats.
func (h *Handler) StaffDashboard(c *gin.Context) {
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

	dashboard, err := h.staff.Dashboard(ctx, principal)
	if err != nil {
		h.renderStaffError(c, ctx, span, err, "Error fetching dashboard stats")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// StaffProjectGroups handles GET /staff/project-groups: only the groups
// the staff member guides, convenes or reviews.
func (h *Handler) StaffProjectGroups(c *gin.Context) {
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

	groups, err := h.staff.ProjectGroups(ctx, principal)
	if err != nil {
		h.renderStaffError(c, ctx, span, err, "Error fetching project groups")
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// StaffApprovals handles GET /staff/approvals.
func (h *Handler) StaffApprovals(c *gin.Context) {
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

	view, err := h.staff.Approvals(ctx, principal)
	if err != nil {
		h.renderStaffError(c, ctx, span, err, "Error fetching approvals")
		return
	}
	c.JSON(http.StatusOK, view)
}

// StaffMeetings handles GET /staff/meetings.
func (h *Handler) StaffMeetings(c *gin.Context) {
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

	meetings, err := h.staff.Meetings(ctx, principal)
	if err != nil {
		h.renderStaffError(c, ctx, span, err, "Error fetching meetings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"meetings": meetings})
}

// CreateMeeting handles POST /staff/meetings.
func (h *Handler) CreateMeeting(c *gin.Context) {
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

	var req logicv1.CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Group, date and purpose are required"})
		return
	}

	id, err := h.staff.CreateMeeting(ctx, principal, req)
	if err != nil {
		h.renderStaffError(c, ctx, span, err, "Error creating meeting")
		return
	}

	zerolog.Ctx(ctx).Info().Int("meeting_id", id).Int("group_id", req.GroupID).Msg("Meeting scheduled")
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "Meeting scheduled successfully"})
}

// DeleteMeeting handles DELETE /staff/meetings/:id.
func (h *Handler) DeleteMeeting(c *gin.Context) {
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

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid meeting id"})
		return
	}

	if err := h.staff.DeleteMeeting(ctx, principal, id); err != nil {
		h.renderStaffError(c, ctx, span, err, "Error deleting meeting")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Meeting deleted successfully"})
}

// StaffEvaluations handles GET /staff/evaluations.
func (h *Handler) StaffEvaluations(c *gin.Context) {
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

	view, err := h.staff.Evaluations(ctx, principal)
	if err != nil {
		h.renderStaffError(c, ctx, span, err, "Error fetching evaluations")
		return
	}
	c.JSON(http.StatusOK, view)
}

// GradeGroup handles POST /staff/evaluations/grade.
func (h *Handler) GradeGroup(c *gin.Context) {
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

	var req logicv1.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Group and grade are required"})
		return
	}

	group, err := h.staff.GradeGroup(ctx, principal, req)
	if err != nil {
		h.renderStaffError(c, ctx, span, err, "Error saving grade")
		return
	}

	zerolog.Ctx(ctx).Info().Int("group_id", req.GroupID).Str("grade", req.Grade).Msg("Group graded")
	c.JSON(http.StatusOK, gin.H{"group": group, "message": "Grade saved successfully"})
}

// renderStaffError maps staff service sentinels to HTTP responses.
func (h *Handler) renderStaffError(c *gin.Context, ctx context.Context, span trace.Span, err error, fallback string) {
	span.RecordError(err)
	zerolog.Ctx(ctx).Error().Err(err).Str("path", c.Request.URL.Path).Msg(fallback)

	switch {
	case errors.Is(err, logicv1.ErrStaffNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Staff not found!"})
	case errors.Is(err, logicv1.ErrGroupNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Project group not found"})
	case errors.Is(err, logicv1.ErrMeetingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Meeting not found"})
	case errors.Is(err, logicv1.ErrNotSupervising):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not supervise this group"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
