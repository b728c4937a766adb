package v1

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spms-dev/spms/internal/core/domain"
)

type staffFixture struct {
	svc       *StaffService
	staff     *fakeStaffRepo
	groups    *fakeGroupRepo
	meetings  *fakeMeetingRepo
	principal domain.Principal
	staffID   int
}

func newStaffFixture(t *testing.T) *staffFixture {
	t.Helper()

	staff := &fakeStaffRepo{}
	id, err := staff.Create(context.Background(), "Dr. Rao", "555-0200", "rao@uni.edu", "$2a$10$fakefakefakefakefakefake")
	if err != nil {
		t.Fatalf("seed staff: %v", err)
	}

	groups := &fakeGroupRepo{
		members:     map[int][]domain.GroupMemberRow{},
		memberships: map[int]domain.MembershipRow{},
		supervised:  map[int]bool{},
	}
	meetings := &fakeMeetingRepo{attendance: map[int][]domain.AttendanceRow{}, nextID: 100}

	return &staffFixture{
		svc:       NewStaffService(staff, groups, meetings),
		staff:     staff,
		groups:    groups,
		meetings:  meetings,
		principal: domain.Principal{UserID: id, Email: "rao@uni.edu", Role: domain.RoleStaff},
		staffID:   id,
	}
}

func (f *staffFixture) addGroup(id int, supervised bool, title *string, members ...domain.GroupMemberRow) {
	f.groups.groups = append(f.groups.groups, domain.GroupRow{
		ID: id, Name: "Group", ProjectTitle: title, CreatedAt: time.Now(),
	})
	f.groups.supervised[id] = supervised
	f.groups.members[id] = members
}

func TestStaffDashboard_DistinctStudents(t *testing.T) {
	t.Parallel()

	f := newStaffFixture(t)
	// Student 2 belongs to both supervised groups and must count once.
	f.addGroup(1, true, strPtr("Title A"),
		domain.GroupMemberRow{StudentID: 1, Name: "S1"},
		domain.GroupMemberRow{StudentID: 2, Name: "S2"})
	f.addGroup(2, true, nil,
		domain.GroupMemberRow{StudentID: 2, Name: "S2"},
		domain.GroupMemberRow{StudentID: 3, Name: "S3"})
	f.addGroup(3, false, nil,
		domain.GroupMemberRow{StudentID: 4, Name: "S4"})

	g1 := 1
	f.meetings.meetings = []domain.MeetingRow{
		{ID: 10, GroupID: &g1, GuideStaffID: &f.staffID, Time: time.Now().Add(time.Hour), Status: domain.MeetingStatusScheduled},
		{ID: 11, GroupID: &g1, GuideStaffID: &f.staffID, Time: time.Now().Add(-time.Hour), Status: domain.MeetingStatusCompleted},
	}

	dashboard, err := f.svc.Dashboard(context.Background(), f.principal)
	if err != nil {
		t.Fatalf("Dashboard error: %v", err)
	}
	if dashboard.GroupsSupervised != 2 {
		t.Fatalf("groups supervised: got %d want 2", dashboard.GroupsSupervised)
	}
	if dashboard.TotalStudents != 3 {
		t.Fatalf("distinct students: got %d want 3", dashboard.TotalStudents)
	}
	if dashboard.TotalMeetings != 2 || dashboard.UpcomingMeetings != 1 {
		t.Fatalf("meeting counts: got %d total, %d upcoming", dashboard.TotalMeetings, dashboard.UpcomingMeetings)
	}
}

func TestStaffApprovals_Partition(t *testing.T) {
	t.Parallel()

	f := newStaffFixture(t)
	f.addGroup(1, true, strPtr("Submitted Title"),
		domain.GroupMemberRow{StudentID: 1, Name: "Lead", Email: "lead@uni.edu", IsLeader: true})
	f.addGroup(2, true, nil)

	view, err := f.svc.Approvals(context.Background(), f.principal)
	if err != nil {
		t.Fatalf("Approvals error: %v", err)
	}
	if len(view.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(view.Groups))
	}
	if len(view.Active) != 1 || view.Active[0].ID != 1 {
		t.Fatalf("unexpected active partition: %+v", view.Active)
	}
	if len(view.Pending) != 1 || view.Pending[0].ID != 2 {
		t.Fatalf("unexpected pending partition: %+v", view.Pending)
	}
	if view.Active[0].LeaderName != "Lead" {
		t.Fatalf("leader not extracted: %+v", view.Active[0])
	}
}

func TestCreateMeeting(t *testing.T) {
	t.Parallel()

	f := newStaffFixture(t)
	f.addGroup(1, true, strPtr("Title"))

	id, err := f.svc.CreateMeeting(context.Background(), f.principal, CreateMeetingRequest{
		GroupID:  1,
		DateTime: time.Now().Add(48 * time.Hour),
		Purpose:  "Design review",
		Attendance: []AttendanceRecord{
			{StudentID: 1, IsPresent: true},
			{StudentID: 2, IsPresent: false, Remarks: "sick"},
		},
	})
	if err != nil {
		t.Fatalf("CreateMeeting error: %v", err)
	}
	if id == 0 {
		t.Fatal("no meeting id returned")
	}

	if len(f.meetings.created) != 1 {
		t.Fatalf("expected 1 created meeting, got %d", len(f.meetings.created))
	}
	created := f.meetings.created[0]
	if created.Status != domain.MeetingStatusScheduled {
		t.Fatalf("status: got %q want %q", created.Status, domain.MeetingStatusScheduled)
	}
	if created.GuideStaffID != f.staffID {
		t.Fatalf("guide: got %d want %d", created.GuideStaffID, f.staffID)
	}
	if len(created.Attendance) != 2 || created.Attendance[1].Remarks != "sick" {
		t.Fatalf("attendance not carried: %+v", created.Attendance)
	}
}

func TestCreateMeeting_UnknownGroup(t *testing.T) {
	t.Parallel()

	f := newStaffFixture(t)

	_, err := f.svc.CreateMeeting(context.Background(), f.principal, CreateMeetingRequest{
		GroupID: 99, DateTime: time.Now(), Purpose: "x",
	})
	if !errors.Is(err, ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
}

func TestCreateMeeting_NotSupervising(t *testing.T) {
	t.Parallel()

	f := newStaffFixture(t)
	f.addGroup(1, false, strPtr("Title"))

	_, err := f.svc.CreateMeeting(context.Background(), f.principal, CreateMeetingRequest{
		GroupID: 1, DateTime: time.Now(), Purpose: "x",
	})
	if !errors.Is(err, ErrNotSupervising) {
		t.Fatalf("expected ErrNotSupervising, got %v", err)
	}
	if len(f.meetings.created) != 0 {
		t.Fatal("meeting created despite failed supervision check")
	}
}

func TestDeleteMeeting(t *testing.T) {
	t.Parallel()

	f := newStaffFixture(t)
	f.addGroup(1, true, nil)
	g1 := 1
	f.meetings.meetings = []domain.MeetingRow{{ID: 10, GroupID: &g1, GuideStaffID: &f.staffID, Time: time.Now()}}

	if err := f.svc.DeleteMeeting(context.Background(), f.principal, 10); err != nil {
		t.Fatalf("DeleteMeeting error: %v", err)
	}
	if len(f.meetings.deleted) != 1 || f.meetings.deleted[0] != 10 {
		t.Fatalf("unexpected deletions: %v", f.meetings.deleted)
	}
}

func TestDeleteMeeting_Unknown(t *testing.T) {
	t.Parallel()

	f := newStaffFixture(t)

	err := f.svc.DeleteMeeting(context.Background(), f.principal, 404)
	if !errors.Is(err, ErrMeetingNotFound) {
		t.Fatalf("expected ErrMeetingNotFound, got %v", err)
	}
}

func TestDeleteMeeting_NotSupervising(t *testing.T) {
	t.Parallel()

	f := newStaffFixture(t)
	f.addGroup(1, false, nil)
	g1 := 1
	f.meetings.meetings = []domain.MeetingRow{{ID: 10, GroupID: &g1, GuideStaffID: &f.staffID, Time: time.Now()}}

	err := f.svc.DeleteMeeting(context.Background(), f.principal, 10)
	if !errors.Is(err, ErrNotSupervising) {
		t.Fatalf("expected ErrNotSupervising, got %v", err)
	}
	if len(f.meetings.deleted) != 0 {
		t.Fatal("meeting deleted despite failed supervision check")
	}
}

func TestEvaluations_AttendanceMath(t *testing.T) {
	t.Parallel()

	f := newStaffFixture(t)
	f.addGroup(1, true, strPtr("Title"),
		domain.GroupMemberRow{StudentID: 1, Name: "S1"},
		domain.GroupMemberRow{StudentID: 2, Name: "S2"})

	g1 := 1
	f.meetings.meetings = []domain.MeetingRow{
		{ID: 10, GroupID: &g1, GuideStaffID: &f.staffID, Time: time.Now().Add(-2 * time.Hour), Status: domain.MeetingStatusCompleted},
		{ID: 11, GroupID: &g1, GuideStaffID: &f.staffID, Time: time.Now().Add(-time.Hour), Status: domain.MeetingStatusCompleted},
	}
	f.meetings.attendance = map[int][]domain.AttendanceRow{
		10: {
			{MeetingID: 10, StudentID: 1, StudentName: "S1", IsPresent: true},
			{MeetingID: 10, StudentID: 2, StudentName: "S2", IsPresent: true},
		},
		11: {
			{MeetingID: 11, StudentID: 1, StudentName: "S1", IsPresent: true},
			{MeetingID: 11, StudentID: 2, StudentName: "S2", IsPresent: false},
		},
	}

	view, err := f.svc.Evaluations(context.Background(), f.principal)
	if err != nil {
		t.Fatalf("Evaluations error: %v", err)
	}

	if len(view.Meetings) != 2 {
		t.Fatalf("expected 2 meetings, got %d", len(view.Meetings))
	}
	if view.Meetings[1].AttendanceRate == nil || *view.Meetings[1].AttendanceRate != 50 {
		t.Fatalf("meeting 11 rate: got %v want 50", view.Meetings[1].AttendanceRate)
	}

	if len(view.Groups) != 1 {
		t.Fatalf("expected 1 group summary, got %d", len(view.Groups))
	}
	summary := view.Groups[0]
	if summary.CompletedMeetings != 2 {
		t.Fatalf("completed meetings: got %d want 2", summary.CompletedMeetings)
	}
	rates := map[int]int{}
	for _, m := range summary.MemberAttendance {
		rates[m.StudentID] = m.Percentage
	}
	if rates[1] != 100 || rates[2] != 50 {
		t.Fatalf("member attendance: got %v", rates)
	}
}

func TestGradeGroup(t *testing.T) {
	t.Parallel()

	f := newStaffFixture(t)
	f.addGroup(1, true, strPtr("Title"))

	group, err := f.svc.GradeGroup(context.Background(), f.principal, GradeRequest{GroupID: 1, Grade: "A"})
	if err != nil {
		t.Fatalf("GradeGroup error: %v", err)
	}
	if group.ProjectGrade == nil || *group.ProjectGrade != "A" {
		t.Fatalf("grade not applied: %+v", group.ProjectGrade)
	}
}

func TestGradeGroup_NotSupervising(t *testing.T) {
	t.Parallel()

	f := newStaffFixture(t)
	f.addGroup(1, false, strPtr("Title"))

	_, err := f.svc.GradeGroup(context.Background(), f.principal, GradeRequest{GroupID: 1, Grade: "A"})
	if !errors.Is(err, ErrNotSupervising) {
		t.Fatalf("expected ErrNotSupervising, got %v", err)
	}
	if _, ok := f.groups.grades[1]; ok {
		t.Fatal("grade written despite failed supervision check")
	}
}

func TestGroupStatusAndPercent(t *testing.T) {
	t.Parallel()

	if percent(0, 0) != 0 {
		t.Fatal("percent(0,0) must be 0")
	}
	if percent(1, 3) != 33 {
		t.Fatalf("percent(1,3): got %d want 33", percent(1, 3))
	}
	if percent(2, 3) != 67 {
		t.Fatalf("percent(2,3): got %d want 67", percent(2, 3))
	}

	g := &domain.GroupRow{}
	if groupStatus(g, "Pending") != "Pending" {
		t.Fatal("untitled group must carry the fallback status")
	}
	g.ProjectTitle = strPtr("Title")
	if groupStatus(g, "Pending") != "Active" {
		t.Fatal("titled group must be Active")
	}
}
