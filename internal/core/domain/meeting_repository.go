package domain

import (
	"context"
	"time"
)

// Meeting statuses as stored in the project_meetings table.
const (
	MeetingStatusScheduled = "Scheduled"
	MeetingStatusCompleted = "Completed"
)

// MeetingRow is a project meeting joined with its group and guide names.
type MeetingRow struct {
	ID                int
	GroupID           *int
	GuideStaffID      *int
	GroupName         *string
	ProjectTitle      *string
	GuideName         *string
	Time              time.Time
	Purpose           *string
	Location          *string
	Notes             *string
	Status            string
	StatusDescription *string
	CreatedAt         time.Time
}

// AttendanceRow is one attendance record joined with the student.
type AttendanceRow struct {
	MeetingID   int
	StudentID   int
	StudentName string
	Email       string
	IsPresent   bool
	Remarks     *string
}

// StudentMeetingRow is a meeting joined with one particular student's
// attendance record. Attended is nil when attendance was never recorded.
type StudentMeetingRow struct {
	MeetingRow
	Attended          *bool
	AttendanceRemarks *string
}

// NewAttendance is one attendance entry recorded at meeting creation.
type NewAttendance struct {
	StudentID int
	IsPresent bool
	Remarks   string
}

// NewMeeting carries all fields for inserting a meeting with its initial
// attendance records.
type NewMeeting struct {
	GroupID           int
	GuideStaffID      int
	Time              time.Time
	Purpose           string
	Location          string
	Notes             string
	Status            string
	StatusDescription string
	Attendance        []NewAttendance
}

// MeetingRepository defines the data-access contract for project meetings
// and their attendance records.
type MeetingRepository interface {
	// ListAll returns every meeting, newest first.
	ListAll(ctx context.Context) ([]MeetingRow, error)

	// ListByGuide returns meetings conducted by the given staff member,
	// newest first.
	ListByGuide(ctx context.Context, staffID int) ([]MeetingRow, error)

	// ListForStudent returns all meetings of a group joined with the given
	// student's own attendance, newest first.
	ListForStudent(ctx context.Context, groupID, studentID int) ([]StudentMeetingRow, error)

	// ListUpcomingByGroup returns future scheduled meetings of a group,
	// soonest first, capped at limit.
	ListUpcomingByGroup(ctx context.Context, groupID, limit int) ([]MeetingRow, error)

	// ListAttendance returns the attendance records of one meeting.
	ListAttendance(ctx context.Context, meetingID int) ([]AttendanceRow, error)

	// ListAttendanceByStudent returns every attendance record of a student.
	ListAttendanceByStudent(ctx context.Context, studentID int) ([]AttendanceRow, error)

	// CountByGroupAndStatus counts a group's meetings with the given status.
	CountByGroupAndStatus(ctx context.Context, groupID int, status string) (int, error)

	// CountByGuide counts meetings conducted by the given staff member.
	CountByGuide(ctx context.Context, staffID int) (int, error)

	// CountByGuideAndStatus counts the staff member's meetings with the
	// given status.
	CountByGuideAndStatus(ctx context.Context, staffID int, status string) (int, error)

	// GetByID returns the meeting with the given id.
	// Returns (nil, nil) when none is found.
	GetByID(ctx context.Context, meetingID int) (*MeetingRow, error)

	// Create inserts a meeting together with its attendance records and
	// returns the generated meeting id.
	Create(ctx context.Context, m NewMeeting) (int, error)

	// Delete removes a meeting and its attendance records.
	Delete(ctx context.Context, meetingID int) error
}
