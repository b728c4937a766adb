package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/spms-dev/spms/middleware"
)

// Meetings handles GET /meetings: every meeting, visible to both roles.
func (h *Handler) Meetings(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	meetings, err := h.catalog.Meetings(ctx)
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("Error fetching meetings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching meetings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"meetings": meetings})
}

// MeetingsByGuide handles GET /meetings/:id where :id is a staff id.
func (h *Handler) MeetingsByGuide(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	staffID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid staff id"})
		return
	}

	meetings, err := h.catalog.MeetingsByGuide(ctx, staffID)
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Int("staff_id", staffID).Msg("Error fetching meetings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching meetings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"meetings": meetings})
}

// ProjectGroups handles GET /project-groups: every group, visible to both
// roles.
func (h *Handler) ProjectGroups(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	groups, err := h.catalog.ProjectGroups(ctx)
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("Error fetching project groups")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching project groups"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}
