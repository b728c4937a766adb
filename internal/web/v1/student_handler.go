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

// StudentDashboard handles GET /student/dashboard/stats.
func (h *Handler) StudentDashboard(c *gin.Context) {
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

	dashboard, err := h.student.Dashboard(ctx, principal)
	if err != nil {
		h.renderStudentError(c, ctx, span, err, "Error fetching dashboard stats")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// StudentProject handles GET /student/project. A student without a group
// gets a null project rather than an error.
func (h *Handler) StudentProject(c *gin.Context) {
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

	project, err := h.student.Project(ctx, principal)
	if err != nil {
		h.renderStudentError(c, ctx, span, err, "Error fetching project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

// StudentGroupMembers handles GET /student/group-members.
func (h *Handler) StudentGroupMembers(c *gin.Context) {
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

	view, err := h.student.GroupMembers(ctx, principal)
	if err != nil {
		h.renderStudentError(c, ctx, span, err, "Error fetching group members")
		return
	}
	c.JSON(http.StatusOK, view)
}

// StudentMeetings handles GET /student/meetings.
func (h *Handler) StudentMeetings(c *gin.Context) {
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

	view, err := h.student.Meetings(ctx, principal)
	if err != nil {
		h.renderStudentError(c, ctx, span, err, "Error fetching meetings")
		return
	}
	c.JSON(http.StatusOK, view)
}

// StudentDocuments handles GET /student/documents.
func (h *Handler) StudentDocuments(c *gin.Context) {
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

	docs, err := h.student.Documents(ctx, principal)
	if err != nil {
		h.renderStudentError(c, ctx, span, err, "Error fetching documents")
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// UploadDocument handles POST /student/documents (multipart form, field
// name "file").
func (h *Handler) UploadDocument(c *gin.Context) {
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

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	doc, err := h.student.UploadDocument(ctx, principal, file)
	if err != nil {
		h.renderStudentError(c, ctx, span, err, "Error uploading document")
		return
	}

	zerolog.Ctx(ctx).Info().Str("file", doc.FileName).Msg("Document uploaded")
	c.JSON(http.StatusCreated, gin.H{"document": doc})
}

// DeleteDocument handles DELETE /student/documents/:id.
func (h *Handler) DeleteDocument(c *gin.Context) {
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
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document id"})
		return
	}

	if err := h.student.DeleteDocument(ctx, principal, id); err != nil {
		h.renderStudentError(c, ctx, span, err, "Error deleting document")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}

// renderStudentError maps student service sentinels to HTTP responses.
func (h *Handler) renderStudentError(c *gin.Context, ctx context.Context, span trace.Span, err error, fallback string) {
	span.RecordError(err)
	zerolog.Ctx(ctx).Error().Err(err).Str("path", c.Request.URL.Path).Msg(fallback)

	switch {
	case errors.Is(err, logicv1.ErrStudentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found!"})
	case errors.Is(err, logicv1.ErrNoProjectGroup):
		c.JSON(http.StatusBadRequest, gin.H{"error": "You are not part of a project group"})
	case errors.Is(err, logicv1.ErrDocumentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
	case errors.Is(err, logicv1.ErrNotGroupDocument):
		c.JSON(http.StatusForbidden, gin.H{"error": "Document belongs to another group"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
