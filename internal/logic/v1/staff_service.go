package v1

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/spms-dev/spms/internal/core/domain"
	"github.com/spms-dev/spms/middleware"
)

// StaffService implements the staff-facing supervision operations:
// dashboard, group listings, approvals, meetings and evaluations.
type StaffService struct {
	staff    domain.StaffRepository
	groups   domain.GroupRepository
	meetings domain.MeetingRepository
}

// NewStaffService creates a new StaffService.
func NewStaffService(staff domain.StaffRepository, groups domain.GroupRepository, meetings domain.MeetingRepository) *StaffService {
	return &StaffService{staff: staff, groups: groups, meetings: meetings}
}

// resolve re-reads the staff row behind a verified session. The full row
// is needed because group supervision matches the guide by name.
func (s *StaffService) resolve(ctx context.Context, p domain.Principal) (*domain.StaffRow, error) {
	row, err := s.staff.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("query staff %d: %w", p.UserID, err)
	}
	if row == nil {
		return nil, fmt.Errorf("resolve staff %d: %w", p.UserID, ErrStaffNotFound)
	}
	return row, nil
}

// Dashboard assembles the staff dashboard counters.
func (s *StaffService) Dashboard(ctx context.Context, p domain.Principal) (*StaffDashboard, error) {
	ctx, span := middleware.StartSpan(ctx, "staff.dashboard", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	staff, err := s.resolve(ctx, p)
	if err != nil {
		return nil, err
	}

	groups, err := s.groups.ListSupervised(ctx, staff.ID, staff.FullName)
	if err != nil {
		return nil, fmt.Errorf("query supervised groups: %w", err)
	}

	// Distinct students across every supervised group.
	studentIDs := map[int]struct{}{}
	for _, g := range groups {
		members, err := s.groups.ListMembers(ctx, g.ID)
		if err != nil {
			return nil, fmt.Errorf("query members of group %d: %w", g.ID, err)
		}
		for _, m := range members {
			studentIDs[m.StudentID] = struct{}{}
		}
	}

	totalMeetings, err := s.meetings.CountByGuide(ctx, staff.ID)
	if err != nil {
		return nil, fmt.Errorf("count meetings: %w", err)
	}

	upcoming, err := s.meetings.CountByGuideAndStatus(ctx, staff.ID, domain.MeetingStatusScheduled)
	if err != nil {
		return nil, fmt.Errorf("count upcoming meetings: %w", err)
	}

	return &StaffDashboard{
		GroupsSupervised: len(groups),
		TotalMeetings:    totalMeetings,
		TotalStudents:    len(studentIDs),
		UpcomingMeetings: upcoming,
	}, nil
}

// ProjectGroups lists the staff member's supervised groups, formatted.
func (s *StaffService) ProjectGroups(ctx context.Context, p domain.Principal) ([]GroupView, error) {
	ctx, span := middleware.StartSpan(ctx, "staff.project_groups", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	staff, err := s.resolve(ctx, p)
	if err != nil {
		return nil, err
	}

	groups, err := s.groups.ListSupervised(ctx, staff.ID, staff.FullName)
	if err != nil {
		return nil, fmt.Errorf("query supervised groups: %w", err)
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

// Approvals partitions the staff member's groups into pending and active
// based on whether a project title was submitted.
func (s *StaffService) Approvals(ctx context.Context, p domain.Principal) (*ApprovalsView, error) {
	ctx, span := middleware.StartSpan(ctx, "staff.approvals", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	staff, err := s.resolve(ctx, p)
	if err != nil {
		return nil, err
	}

	groups, err := s.groups.ListSupervised(ctx, staff.ID, staff.FullName)
	if err != nil {
		return nil, fmt.Errorf("query supervised groups: %w", err)
	}

	view := &ApprovalsView{
		Groups:  make([]ApprovalGroup, 0, len(groups)),
		Pending: []ApprovalGroup{},
		Active:  []ApprovalGroup{},
	}

	for i := range groups {
		g := &groups[i]
		members, err := s.groups.ListMembers(ctx, g.ID)
		if err != nil {
			return nil, fmt.Errorf("query members of group %d: %w", g.ID, err)
		}

		ag := ApprovalGroup{
			ID:           g.ID,
			GroupName:    g.Name,
			ProjectTitle: strOr(g.ProjectTitle, "Not Submitted"),
			ProjectArea:  strOr(g.ProjectArea, "N/A"),
			Type:         strOr(g.TypeName, "N/A"),
			Status:       groupStatus(g, "Pending"),
			Guide:        strOr(g.GuideStaffName, "Not Assigned"),
			Convener:     strOr(g.ConvenerName, "Not Assigned"),
			Expert:       strOr(g.ExpertName, "Not Assigned"),
			TotalMembers: len(members),
			LeaderName:   "No Leader",
			Members:      make([]ApprovalMember, 0, len(members)),
			CreatedAt:    g.CreatedAt,
		}
		for _, m := range members {
			if m.IsLeader && ag.LeaderName == "No Leader" {
				ag.LeaderName = m.Name
				email := m.Email
				ag.LeaderEmail = &email
			}
			ag.Members = append(ag.Members, ApprovalMember{
				ID: m.StudentID, Name: m.Name, Email: m.Email, IsLeader: m.IsLeader,
			})
		}

		view.Groups = append(view.Groups, ag)
		if ag.Status == "Active" {
			view.Active = append(view.Active, ag)
		} else {
			view.Pending = append(view.Pending, ag)
		}
	}

	return view, nil
}

// Meetings lists the staff member's meetings with full attendance detail.
func (s *StaffService) Meetings(ctx context.Context, p domain.Principal) ([]StaffMeetingView, error) {
	ctx, span := middleware.StartSpan(ctx, "staff.meetings", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	meetings, err := s.meetings.ListByGuide(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("query meetings: %w", err)
	}

	views := make([]StaffMeetingView, 0, len(meetings))
	for _, m := range meetings {
		attendance, err := s.meetings.ListAttendance(ctx, m.ID)
		if err != nil {
			return nil, fmt.Errorf("query attendance of meeting %d: %w", m.ID, err)
		}

		attendees := make([]AttendeeView, 0, len(attendance))
		for _, a := range attendance {
			attendees = append(attendees, AttendeeView{
				StudentID:   a.StudentID,
				StudentName: a.StudentName,
				IsPresent:   a.IsPresent,
				Remarks:     a.Remarks,
			})
		}

		views = append(views, StaffMeetingView{
			ID:                m.ID,
			GroupName:         strOr(m.GroupName, "Unknown Group"),
			ProjectTitle:      strOr(m.ProjectTitle, "Untitled"),
			DateTime:          m.Time,
			Purpose:           m.Purpose,
			Location:          m.Location,
			Notes:             m.Notes,
			Status:            m.Status,
			StatusDescription: m.StatusDescription,
			Attendees:         attendees,
			CreatedAt:         m.CreatedAt,
		})
	}
	return views, nil
}

// CreateMeeting schedules a meeting for a supervised group, recording the
// initial attendance entries with it.
func (s *StaffService) CreateMeeting(ctx context.Context, p domain.Principal, req CreateMeetingRequest) (int, error) {
	ctx, span := middleware.StartSpan(ctx, "staff.create_meeting", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("group.id", req.GroupID),
	))
	defer span.End()

	staff, err := s.resolve(ctx, p)
	if err != nil {
		return 0, err
	}

	group, err := s.groups.GetByID(ctx, req.GroupID)
	if err != nil {
		return 0, fmt.Errorf("query group: %w", err)
	}
	if group == nil {
		return 0, fmt.Errorf("create meeting: %w", ErrGroupNotFound)
	}

	supervised, err := s.groups.GetSupervised(ctx, req.GroupID, staff.ID, staff.FullName)
	if err != nil {
		return 0, fmt.Errorf("check supervision: %w", err)
	}
	if supervised == nil {
		return 0, fmt.Errorf("create meeting for group %d: %w", req.GroupID, ErrNotSupervising)
	}

	meeting := domain.NewMeeting{
		GroupID:      req.GroupID,
		GuideStaffID: staff.ID,
		Time:         req.DateTime,
		Purpose:      req.Purpose,
		Location:     req.Location,
		Notes:        req.Notes,
		Status:       domain.MeetingStatusScheduled,
	}
	for _, a := range req.Attendance {
		meeting.Attendance = append(meeting.Attendance, domain.NewAttendance{
			StudentID: a.StudentID,
			IsPresent: a.IsPresent,
			Remarks:   a.Remarks,
		})
	}

	id, err := s.meetings.Create(ctx, meeting)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("insert meeting: %w", err)
	}

	span.SetAttributes(attribute.Int("meeting.id", id))
	return id, nil
}

// DeleteMeeting removes a meeting after checking that the staff member
// supervises the meeting's group.
func (s *StaffService) DeleteMeeting(ctx context.Context, p domain.Principal, meetingID int) error {
	ctx, span := middleware.StartSpan(ctx, "staff.delete_meeting", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("meeting.id", meetingID),
	))
	defer span.End()

	staff, err := s.resolve(ctx, p)
	if err != nil {
		return err
	}

	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return fmt.Errorf("query meeting: %w", err)
	}
	if meeting == nil {
		return fmt.Errorf("delete meeting %d: %w", meetingID, ErrMeetingNotFound)
	}

	if meeting.GroupID == nil {
		return fmt.Errorf("delete meeting %d: %w", meetingID, ErrNotSupervising)
	}
	supervised, err := s.groups.GetSupervised(ctx, *meeting.GroupID, staff.ID, staff.FullName)
	if err != nil {
		return fmt.Errorf("check supervision: %w", err)
	}
	if supervised == nil {
		return fmt.Errorf("delete meeting %d: %w", meetingID, ErrNotSupervising)
	}

	if err := s.meetings.Delete(ctx, meetingID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete meeting: %w", err)
	}
	return nil
}

// Evaluations assembles the per-meeting attendance rates and per-group
// member attendance summaries for the staff member's meetings.
func (s *StaffService) Evaluations(ctx context.Context, p domain.Principal) (*EvaluationsView, error) {
	ctx, span := middleware.StartSpan(ctx, "staff.evaluations", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	staff, err := s.resolve(ctx, p)
	if err != nil {
		return nil, err
	}

	meetings, err := s.meetings.ListByGuide(ctx, staff.ID)
	if err != nil {
		return nil, fmt.Errorf("query meetings: %w", err)
	}

	attendanceByMeeting := make(map[int][]domain.AttendanceRow, len(meetings))
	view := &EvaluationsView{
		Meetings: make([]EvaluationMeeting, 0, len(meetings)),
		Groups:   []GroupEvaluation{},
	}

	var groupOrder []int
	seenGroups := map[int]bool{}

	for _, m := range meetings {
		attendance, err := s.meetings.ListAttendance(ctx, m.ID)
		if err != nil {
			return nil, fmt.Errorf("query attendance of meeting %d: %w", m.ID, err)
		}
		attendanceByMeeting[m.ID] = attendance

		present := 0
		attendees := make([]AttendeeView, 0, len(attendance))
		for _, a := range attendance {
			if a.IsPresent {
				present++
			}
			attendees = append(attendees, AttendeeView{
				StudentID:   a.StudentID,
				StudentName: a.StudentName,
				Email:       a.Email,
				IsPresent:   a.IsPresent,
				Remarks:     a.Remarks,
			})
		}

		var rate *int
		if len(attendance) > 0 {
			r := percent(present, len(attendance))
			rate = &r
		}

		var projectType string
		if m.GroupID != nil {
			if g, err := s.groups.GetByID(ctx, *m.GroupID); err == nil && g != nil {
				projectType = strOr(g.TypeName, "N/A")
			}
			if !seenGroups[*m.GroupID] {
				seenGroups[*m.GroupID] = true
				groupOrder = append(groupOrder, *m.GroupID)
			}
		}

		view.Meetings = append(view.Meetings, EvaluationMeeting{
			ID:             m.ID,
			GroupName:      strOr(m.GroupName, "N/A"),
			ProjectTitle:   strOr(m.ProjectTitle, "N/A"),
			ProjectType:    projectType,
			Purpose:        strOr(m.Purpose, "Meeting"),
			Location:       strOr(m.Location, "N/A"),
			Notes:          m.Notes,
			Status:         m.Status,
			DateTime:       m.Time,
			AttendanceRate: rate,
			PresentCount:   present,
			TotalCount:     len(attendance),
			Attendance:     attendees,
		})
	}

	for _, groupID := range groupOrder {
		summary, err := s.groupEvaluation(ctx, groupID, meetings, attendanceByMeeting)
		if err != nil {
			return nil, err
		}
		if summary != nil {
			view.Groups = append(view.Groups, *summary)
		}
	}

	return view, nil
}

func (s *StaffService) groupEvaluation(
	ctx context.Context,
	groupID int,
	meetings []domain.MeetingRow,
	attendanceByMeeting map[int][]domain.AttendanceRow,
) (*GroupEvaluation, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("query group %d: %w", groupID, err)
	}
	if group == nil {
		return nil, nil
	}

	members, err := s.groups.ListMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("query members of group %d: %w", groupID, err)
	}

	var groupMeetings, completed []domain.MeetingRow
	for _, m := range meetings {
		if m.GroupID == nil || *m.GroupID != groupID {
			continue
		}
		groupMeetings = append(groupMeetings, m)
		if m.Status == domain.MeetingStatusCompleted {
			completed = append(completed, m)
		}
	}

	summary := &GroupEvaluation{
		GroupID:           groupID,
		GroupName:         group.Name,
		ProjectTitle:      strOr(group.ProjectTitle, "N/A"),
		Type:              strOr(group.TypeName, "N/A"),
		TotalMeetings:     len(groupMeetings),
		CompletedMeetings: len(completed),
		Grade:             group.ProjectGrade,
		MemberAttendance:  make([]MemberAttendance, 0, len(members)),
	}

	for _, member := range members {
		attended := 0
		for _, m := range completed {
			for _, a := range attendanceByMeeting[m.ID] {
				if a.StudentID == member.StudentID && a.IsPresent {
					attended++
					break
				}
			}
		}
		summary.MemberAttendance = append(summary.MemberAttendance, MemberAttendance{
			StudentID:   member.StudentID,
			StudentName: member.Name,
			Attended:    attended,
			Total:       len(completed),
			Percentage:  percent(attended, len(completed)),
		})
	}

	return summary, nil
}

// GradeGroup records a grade for a supervised group.
func (s *StaffService) GradeGroup(ctx context.Context, p domain.Principal, req GradeRequest) (*GroupView, error) {
	ctx, span := middleware.StartSpan(ctx, "staff.grade_group", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("group.id", req.GroupID),
	))
	defer span.End()

	staff, err := s.resolve(ctx, p)
	if err != nil {
		return nil, err
	}

	supervised, err := s.groups.GetSupervised(ctx, req.GroupID, staff.ID, staff.FullName)
	if err != nil {
		return nil, fmt.Errorf("check supervision: %w", err)
	}
	if supervised == nil {
		return nil, fmt.Errorf("grade group %d: %w", req.GroupID, ErrNotSupervising)
	}

	if err := s.groups.UpdateGrade(ctx, req.GroupID, req.Grade); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update grade: %w", err)
	}

	group, err := s.groups.GetByID(ctx, req.GroupID)
	if err != nil || group == nil {
		return nil, fmt.Errorf("reload group %d: %w", req.GroupID, err)
	}
	members, err := s.groups.ListMembers(ctx, req.GroupID)
	if err != nil {
		return nil, fmt.Errorf("query members of group %d: %w", req.GroupID, err)
	}

	view := formatGroup(group, members)
	return &view, nil
}
