package v1

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/spms-dev/spms/internal/core/domain"
	"github.com/spms-dev/spms/internal/docstore"
	"github.com/spms-dev/spms/middleware"
)

// upcomingMeetingsLimit caps the dashboard's upcoming meetings list.
const upcomingMeetingsLimit = 3

// StudentService implements the student-facing dashboard, project, group,
// meeting and document operations.
type StudentService struct {
	students  domain.StudentRepository
	groups    domain.GroupRepository
	meetings  domain.MeetingRepository
	documents domain.DocumentRepository
	store     *docstore.Store
}

// NewStudentService creates a new StudentService.
func NewStudentService(
	students domain.StudentRepository,
	groups domain.GroupRepository,
	meetings domain.MeetingRepository,
	documents domain.DocumentRepository,
	store *docstore.Store,
) *StudentService {
	return &StudentService{
		students:  students,
		groups:    groups,
		meetings:  meetings,
		documents: documents,
		store:     store,
	}
}

// resolve re-reads the student row behind a verified session.
func (s *StudentService) resolve(ctx context.Context, p domain.Principal) (*domain.StudentRow, error) {
	row, err := s.students.GetByEmail(ctx, p.Email)
	if err != nil {
		return nil, fmt.Errorf("query student %q: %w", p.Email, err)
	}
	if row == nil {
		return nil, fmt.Errorf("resolve student %q: %w", p.Email, ErrStudentNotFound)
	}
	return row, nil
}

// Dashboard assembles the student dashboard. A student without a group
// gets zero-valued stats and a nil project.
func (s *StudentService) Dashboard(ctx context.Context, p domain.Principal) (*StudentDashboard, error) {
	ctx, span := middleware.StartSpan(ctx, "student.dashboard", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	student, err := s.resolve(ctx, p)
	if err != nil {
		return nil, err
	}

	membership, err := s.groups.GetMembership(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("query membership: %w", err)
	}
	if membership == nil {
		return &StudentDashboard{
			UpcomingMeetings: []UpcomingMeetingView{},
			Members:          []DashboardMember{},
		}, nil
	}

	groupID := membership.GroupID

	meetingsDone, err := s.meetings.CountByGroupAndStatus(ctx, groupID, domain.MeetingStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("count completed meetings: %w", err)
	}

	// Attendance percentage over every record ever taken for this student.
	records, err := s.meetings.ListAttendanceByStudent(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("query attendance: %w", err)
	}
	present := 0
	for _, r := range records {
		if r.IsPresent {
			present++
		}
	}

	upcoming, err := s.meetings.ListUpcomingByGroup(ctx, groupID, upcomingMeetingsLimit)
	if err != nil {
		return nil, fmt.Errorf("query upcoming meetings: %w", err)
	}

	members, err := s.groups.ListMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}

	docs, err := s.documents.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	project, err := s.projectCard(ctx, groupID, membership.IsLeader)
	if err != nil {
		return nil, err
	}

	dashboard := &StudentDashboard{
		Stats: StudentStats{
			Attendance:   percent(present, len(records)),
			MeetingsDone: meetingsDone,
			Documents:    len(docs),
		},
		Project:          project,
		UpcomingMeetings: make([]UpcomingMeetingView, 0, len(upcoming)),
		Members:          make([]DashboardMember, 0, len(members)),
	}

	for _, m := range upcoming {
		dashboard.UpcomingMeetings = append(dashboard.UpcomingMeetings, UpcomingMeetingView{
			ID:       m.ID,
			Title:    strOr(m.Purpose, "Meeting"),
			Date:     m.Time,
			Status:   m.Status,
			Location: strOr(m.Location, "TBD"),
		})
	}
	for _, m := range members {
		role := "Member"
		if m.IsLeader {
			role = "Leader"
		}
		dashboard.Members = append(dashboard.Members, DashboardMember{ID: m.StudentID, Name: m.Name, Role: role})
	}

	return dashboard, nil
}

func (s *StudentService) projectCard(ctx context.Context, groupID int, isLeader bool) (*ProjectCard, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("query group: %w", err)
	}
	if group == nil {
		return nil, nil
	}

	return &ProjectCard{
		GroupID:     group.ID,
		GroupName:   group.Name,
		Title:       strOr(group.ProjectTitle, "Untitled Project"),
		Area:        group.ProjectArea,
		Description: group.ProjectDescription,
		Type:        strOr(group.TypeName, "N/A"),
		Guide:       strOr(group.GuideStaffName, "Not Assigned"),
		Convener:    strOr(group.ConvenerName, "Not Assigned"),
		Expert:      strOr(group.ExpertName, "Not Assigned"),
		AverageCPI:  group.AverageCPI,
		Status:      groupStatus(group, "Draft"),
		IsLeader:    isLeader,
	}, nil
}

// Project returns the student's project card, or nil when the student has
// no group.
func (s *StudentService) Project(ctx context.Context, p domain.Principal) (*ProjectCard, error) {
	ctx, span := middleware.StartSpan(ctx, "student.project", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	student, err := s.resolve(ctx, p)
	if err != nil {
		return nil, err
	}

	membership, err := s.groups.GetMembership(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("query membership: %w", err)
	}
	if membership == nil {
		return nil, nil
	}

	return s.projectCard(ctx, membership.GroupID, membership.IsLeader)
}

// GroupMembers returns the student's group roster.
func (s *StudentService) GroupMembers(ctx context.Context, p domain.Principal) (*GroupMembersView, error) {
	ctx, span := middleware.StartSpan(ctx, "student.group_members", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	student, err := s.resolve(ctx, p)
	if err != nil {
		return nil, err
	}

	membership, err := s.groups.GetMembership(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("query membership: %w", err)
	}
	if membership == nil {
		return &GroupMembersView{Members: []MemberView{}}, nil
	}

	group, err := s.groups.GetByID(ctx, membership.GroupID)
	if err != nil {
		return nil, fmt.Errorf("query group: %w", err)
	}

	members, err := s.groups.ListMembers(ctx, membership.GroupID)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}

	view := &GroupMembersView{Members: make([]MemberView, 0, len(members))}
	if group != nil {
		view.GroupName = &group.Name
		view.ProjectTitle = group.ProjectTitle
	}
	for _, m := range members {
		view.Members = append(view.Members, MemberView{
			ID:            m.StudentID,
			Name:          m.Name,
			Email:         m.Email,
			Phone:         m.Phone,
			IsLeader:      m.IsLeader,
			CGPA:          m.StudentCGPA,
			IsCurrentUser: m.StudentID == student.ID,
		})
	}

	return view, nil
}

// Meetings returns all of the group's meetings with the student's own
// attendance, plus the upcoming ones.
func (s *StudentService) Meetings(ctx context.Context, p domain.Principal) (*StudentMeetingsView, error) {
	ctx, span := middleware.StartSpan(ctx, "student.meetings", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	student, err := s.resolve(ctx, p)
	if err != nil {
		return nil, err
	}

	membership, err := s.groups.GetMembership(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("query membership: %w", err)
	}
	if membership == nil {
		return &StudentMeetingsView{
			AllMeetings:      []StudentMeetingView{},
			UpcomingMeetings: []StudentMeetingView{},
		}, nil
	}

	all, err := s.meetings.ListForStudent(ctx, membership.GroupID, student.ID)
	if err != nil {
		return nil, fmt.Errorf("query meetings: %w", err)
	}

	upcoming, err := s.meetings.ListUpcomingByGroup(ctx, membership.GroupID, upcomingMeetingsLimit)
	if err != nil {
		return nil, fmt.Errorf("query upcoming meetings: %w", err)
	}

	view := &StudentMeetingsView{
		AllMeetings:      make([]StudentMeetingView, 0, len(all)),
		UpcomingMeetings: make([]StudentMeetingView, 0, len(upcoming)),
	}

	for _, m := range all {
		attendance := "Not Recorded"
		if m.Attended != nil {
			if *m.Attended {
				attendance = "Present"
			} else {
				attendance = "Absent"
			}
		}
		view.AllMeetings = append(view.AllMeetings, StudentMeetingView{
			ID:                m.ID,
			Purpose:           strOr(m.Purpose, "Meeting"),
			Location:          strOr(m.Location, "TBD"),
			Notes:             m.Notes,
			Status:            m.Status,
			DateTime:          m.Time,
			Guide:             strOr(m.GuideName, "Not Assigned"),
			Attendance:        attendance,
			AttendanceRemarks: m.AttendanceRemarks,
		})
	}

	for _, m := range upcoming {
		view.UpcomingMeetings = append(view.UpcomingMeetings, StudentMeetingView{
			ID:       m.ID,
			Purpose:  strOr(m.Purpose, "Meeting"),
			Location: strOr(m.Location, "TBD"),
			Notes:    m.Notes,
			Status:   m.Status,
			DateTime: m.Time,
			Guide:    strOr(m.GuideName, "Not Assigned"),
		})
	}

	return view, nil
}

// Documents lists the group's uploaded documents, newest first.
func (s *StudentService) Documents(ctx context.Context, p domain.Principal) ([]DocumentView, error) {
	ctx, span := middleware.StartSpan(ctx, "student.documents", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	student, err := s.resolve(ctx, p)
	if err != nil {
		return nil, err
	}

	membership, err := s.groups.GetMembership(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("query membership: %w", err)
	}
	if membership == nil {
		return []DocumentView{}, nil
	}

	docs, err := s.documents.ListByGroup(ctx, membership.GroupID)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	views := make([]DocumentView, 0, len(docs))
	for _, d := range docs {
		views = append(views, DocumentView{
			ID:         d.ID,
			FileName:   d.FileName,
			FilePath:   d.FilePath,
			UploadedBy: d.UploaderName,
			UploadedAt: d.UploadedAt,
		})
	}
	return views, nil
}

// UploadDocument stores the file on disk and records it for the student's
// group. The row is only written after the file landed on disk; a failed
// write leaves no record.
func (s *StudentService) UploadDocument(ctx context.Context, p domain.Principal, file *multipart.FileHeader) (*DocumentView, error) {
	ctx, span := middleware.StartSpan(ctx, "student.upload_document", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	student, err := s.resolve(ctx, p)
	if err != nil {
		return nil, err
	}

	membership, err := s.groups.GetMembership(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("query membership: %w", err)
	}
	if membership == nil {
		return nil, fmt.Errorf("upload document: %w", ErrNoProjectGroup)
	}

	storedPath, err := s.store.Save(file)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("store document: %w", err)
	}

	doc, err := s.documents.Create(ctx, membership.GroupID, student.ID, file.Filename, storedPath)
	if err != nil {
		span.RecordError(err)
		// Roll back the file so a failed insert leaves nothing behind.
		if rmErr := s.store.Remove(storedPath); rmErr != nil {
			zerolog.Ctx(ctx).Error().Err(rmErr).Str("path", storedPath).Msg("Orphaned upload left on disk")
		}
		return nil, fmt.Errorf("insert document: %w", err)
	}

	return &DocumentView{
		ID:         doc.ID,
		FileName:   doc.FileName,
		FilePath:   doc.FilePath,
		UploadedBy: student.FullName,
		UploadedAt: doc.UploadedAt,
	}, nil
}

// DeleteDocument removes a document belonging to the student's group.
// The database row is authoritative; file removal is best effort.
func (s *StudentService) DeleteDocument(ctx context.Context, p domain.Principal, documentID int) error {
	ctx, span := middleware.StartSpan(ctx, "student.delete_document", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("document.id", documentID),
	))
	defer span.End()

	student, err := s.resolve(ctx, p)
	if err != nil {
		return err
	}

	membership, err := s.groups.GetMembership(ctx, student.ID)
	if err != nil {
		return fmt.Errorf("query membership: %w", err)
	}
	if membership == nil {
		return fmt.Errorf("delete document: %w", ErrNoProjectGroup)
	}

	doc, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("query document: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("delete document %d: %w", documentID, ErrDocumentNotFound)
	}
	if doc.GroupID != membership.GroupID {
		return fmt.Errorf("delete document %d: %w", documentID, ErrNotGroupDocument)
	}

	if err := s.documents.Delete(ctx, documentID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete document: %w", err)
	}

	if err := s.store.Remove(doc.FilePath); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("path", doc.FilePath).Msg("Failed to remove document file")
	}

	return nil
}
