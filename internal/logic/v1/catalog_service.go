package v1

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/spms-dev/spms/internal/core/domain"
	"github.com/spms-dev/spms/middleware"
)

// CatalogService serves the listings shared by both roles: all meetings,
// meetings per guide, and all project groups.
type CatalogService struct {
	groups   domain.GroupRepository
	meetings domain.MeetingRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(groups domain.GroupRepository, meetings domain.MeetingRepository) *CatalogService {
	return &CatalogService{groups: groups, meetings: meetings}
}

// Meetings lists every meeting, newest first.
func (s *CatalogService) Meetings(ctx context.Context) ([]MeetingView, error) {
	ctx, span := middleware.StartSpan(ctx, "catalog.meetings", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	meetings, err := s.meetings.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("query meetings: %w", err)
	}
	return formatMeetings(meetings), nil
}

// MeetingsByGuide lists the meetings conducted by one staff member.
func (s *CatalogService) MeetingsByGuide(ctx context.Context, staffID int) ([]MeetingView, error) {
	ctx, span := middleware.StartSpan(ctx, "catalog.meetings_by_guide", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("staff.id", staffID),
	))
	defer span.End()

	meetings, err := s.meetings.ListByGuide(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("query meetings of staff %d: %w", staffID, err)
	}
	return formatMeetings(meetings), nil
}

// ProjectGroups lists every group, formatted, newest first.
func (s *CatalogService) ProjectGroups(ctx context.Context) ([]GroupView, error) {
	ctx, span := middleware.StartSpan(ctx, "catalog.project_groups", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	groups, err := s.groups.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("query groups: %w", err)
	}

	views := make([]GroupView, 0, len(groups))
	for i := range groups {
		members, err := s.groups.ListMembers(ctx, groups[i].ID)
		if err != nil {
			return nil, fmt.Errorf("query members of group %d: %w", groups[i].ID, err)
		}
		views = append(views, formatGroup(&groups[i], members))
	}
	return views, nil
}

func formatMeetings(meetings []domain.MeetingRow) []MeetingView {
	views := make([]MeetingView, 0, len(meetings))
	for _, m := range meetings {
		views = append(views, MeetingView{
			ID:        m.ID,
			GroupID:   m.GroupID,
			GroupName: strOr(m.GroupName, "Unknown Group"),
			Guide:     strOr(m.GuideName, "Not Assigned"),
			DateTime:  m.Time,
			Purpose:   strOr(m.Purpose, "Meeting"),
			Location:  strOr(m.Location, "TBD"),
			Notes:     m.Notes,
			Status:    m.Status,
		})
	}
	return views
}
