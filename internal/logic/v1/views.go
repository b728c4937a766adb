package v1

import (
	"time"

	"github.com/spms-dev/spms/internal/core/domain"
)

// View types returned by the dashboard and listing operations. They shape
// repository rows into the JSON the frontend consumes.

// GroupView is the formatted project group used by the group listings.
type GroupView struct {
	ID           int       `json:"id"`
	GroupName    string    `json:"groupName"`
	ProjectTitle string    `json:"projectTitle"`
	ProjectArea  string    `json:"projectArea"`
	Type         string    `json:"type"`
	Guide        string    `json:"guide"`
	Convener     string    `json:"convener"`
	Expert       string    `json:"expert"`
	AverageCPI   *float64  `json:"averageCPI"`
	ProjectGrade *string   `json:"projectGrade,omitempty"`
	LeaderName   string    `json:"leaderName"`
	LeaderEmail  string    `json:"leaderEmail"`
	TotalMembers int       `json:"totalMembers"`
	MemberNames  []string  `json:"memberNames"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// MeetingView is a meeting row for the shared meeting listings.
type MeetingView struct {
	ID        int       `json:"id"`
	GroupID   *int      `json:"groupId"`
	GroupName string    `json:"groupName"`
	Guide     string    `json:"guide"`
	DateTime  time.Time `json:"dateTime"`
	Purpose   string    `json:"purpose"`
	Location  string    `json:"location"`
	Notes     *string   `json:"notes"`
	Status    string    `json:"status"`
}

// AttendeeView is one attendance record in staff-facing meeting views.
type AttendeeView struct {
	StudentID   int     `json:"studentId"`
	StudentName string  `json:"studentName"`
	Email       string  `json:"email,omitempty"`
	IsPresent   bool    `json:"isPresent"`
	Remarks     *string `json:"remarks"`
}

// StaffMeetingView is a meeting with full attendance detail.
type StaffMeetingView struct {
	ID                int            `json:"id"`
	GroupName         string         `json:"groupName"`
	ProjectTitle      string         `json:"projectTitle"`
	DateTime          time.Time      `json:"dateTime"`
	Purpose           *string        `json:"purpose"`
	Location          *string        `json:"location"`
	Notes             *string        `json:"notes"`
	Status            string         `json:"status"`
	StatusDescription *string        `json:"statusDescription"`
	Attendees         []AttendeeView `json:"attendees"`
	CreatedAt         time.Time      `json:"createdAt"`
}

// ProjectCard is the student-facing summary of their group's project.
type ProjectCard struct {
	GroupID     int      `json:"groupId"`
	GroupName   string   `json:"groupName"`
	Title       string   `json:"title"`
	Area        *string  `json:"area"`
	Description *string  `json:"description"`
	Type        string   `json:"type"`
	Guide       string   `json:"guide"`
	Convener    string   `json:"convener"`
	Expert      string   `json:"expert"`
	AverageCPI  *float64 `json:"averageCPI"`
	Status      string   `json:"status"`
	IsLeader    bool     `json:"isLeader"`
}

// StudentStats is the counters block of the student dashboard.
type StudentStats struct {
	Attendance   int `json:"attendance"`
	TasksPending int `json:"tasksPending"`
	MeetingsDone int `json:"meetingsDone"`
	Documents    int `json:"documents"`
}

// UpcomingMeetingView is one upcoming meeting on the student dashboard.
type UpcomingMeetingView struct {
	ID       int       `json:"id"`
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	Status   string    `json:"status"`
	Location string    `json:"location"`
}

// DashboardMember is one group member on the student dashboard.
type DashboardMember struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// StudentDashboard is the full student dashboard payload.
type StudentDashboard struct {
	Stats            StudentStats          `json:"stats"`
	Project          *ProjectCard          `json:"project"`
	UpcomingMeetings []UpcomingMeetingView `json:"upcomingMeetings"`
	Members          []DashboardMember     `json:"members"`
}

// MemberView is one entry of the student group roster.
type MemberView struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	IsLeader      bool     `json:"isLeader"`
	CGPA          *float64 `json:"cgpa"`
	IsCurrentUser bool     `json:"isCurrentUser"`
}

// GroupMembersView is the student group roster payload.
type GroupMembersView struct {
	GroupName    *string      `json:"groupName"`
	ProjectTitle *string      `json:"projectTitle"`
	Members      []MemberView `json:"members"`
}

// StudentMeetingView is one meeting in the student meetings listing,
// including the student's own attendance when recorded.
type StudentMeetingView struct {
	ID                int       `json:"id"`
	Purpose           string    `json:"purpose"`
	Location          string    `json:"location"`
	Notes             *string   `json:"notes"`
	Status            string    `json:"status"`
	DateTime          time.Time `json:"dateTime"`
	Guide             string    `json:"guide"`
	Attendance        string    `json:"attendance,omitempty"`
	AttendanceRemarks *string   `json:"attendanceRemarks,omitempty"`
}

// StudentMeetingsView is the student meetings payload.
type StudentMeetingsView struct {
	AllMeetings      []StudentMeetingView `json:"allMeetings"`
	UpcomingMeetings []StudentMeetingView `json:"upcomingMeetings"`
}

// DocumentView is one uploaded document.
type DocumentView struct {
	ID         int       `json:"id"`
	FileName   string    `json:"fileName"`
	FilePath   string    `json:"filePath"`
	UploadedBy string    `json:"uploadedBy"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// StaffDashboard is the staff dashboard payload.
type StaffDashboard struct {
	GroupsSupervised int `json:"groupsSupervised"`
	TotalMeetings    int `json:"totalMeetings"`
	TotalStudents    int `json:"totalStudents"`
	UpcomingMeetings int `json:"upcomingMeetings"`
}

// ApprovalMember is one member in the approvals listing.
type ApprovalMember struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsLeader bool   `json:"isLeader"`
}

// ApprovalGroup is one group in the approvals listing.
type ApprovalGroup struct {
	ID           int              `json:"id"`
	GroupName    string           `json:"groupName"`
	ProjectTitle string           `json:"projectTitle"`
	ProjectArea  string           `json:"projectArea"`
	Type         string           `json:"type"`
	Status       string           `json:"status"`
	Guide        string           `json:"guide"`
	Convener     string           `json:"convener"`
	Expert       string           `json:"expert"`
	TotalMembers int              `json:"totalMembers"`
	LeaderName   string           `json:"leaderName"`
	LeaderEmail  *string          `json:"leaderEmail"`
	Members      []ApprovalMember `json:"members"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// ApprovalsView partitions a staff member's groups by project submission.
type ApprovalsView struct {
	Groups  []ApprovalGroup `json:"groups"`
	Pending []ApprovalGroup `json:"pending"`
	Active  []ApprovalGroup `json:"active"`
}

// EvaluationMeeting is one meeting with its attendance rate.
type EvaluationMeeting struct {
	ID             int            `json:"id"`
	GroupName      string         `json:"groupName"`
	ProjectTitle   string         `json:"projectTitle"`
	ProjectType    string         `json:"projectType"`
	Purpose        string         `json:"purpose"`
	Location       string         `json:"location"`
	Notes          *string        `json:"notes"`
	Status         string         `json:"status"`
	DateTime       time.Time      `json:"dateTime"`
	AttendanceRate *int           `json:"attendanceRate"`
	PresentCount   int            `json:"presentCount"`
	TotalCount     int            `json:"totalCount"`
	Attendance     []AttendeeView `json:"attendance"`
}

// MemberAttendance summarizes one member's presence across completed meetings.
type MemberAttendance struct {
	StudentID   int    `json:"studentId"`
	StudentName string `json:"studentName"`
	Attended    int    `json:"attended"`
	Total       int    `json:"total"`
	Percentage  int    `json:"percentage"`
}

// GroupEvaluation summarizes one group for the evaluations page.
type GroupEvaluation struct {
	GroupID           int                `json:"groupId"`
	GroupName         string             `json:"groupName"`
	ProjectTitle      string             `json:"projectTitle"`
	Type              string             `json:"type"`
	TotalMeetings     int                `json:"totalMeetings"`
	CompletedMeetings int                `json:"completedMeetings"`
	Grade             *string            `json:"grade"`
	MemberAttendance  []MemberAttendance `json:"memberAttendance"`
}

// EvaluationsView is the staff evaluations payload.
type EvaluationsView struct {
	Meetings []EvaluationMeeting `json:"meetings"`
	Groups   []GroupEvaluation   `json:"groups"`
}

// CreateMeetingRequest is the body of POST /staff/meetings.
type CreateMeetingRequest struct {
	GroupID    int                `json:"groupId" binding:"required"`
	DateTime   time.Time          `json:"dateTime" binding:"required"`
	Purpose    string             `json:"purpose" binding:"required"`
	Location   string             `json:"location"`
	Notes      string             `json:"notes"`
	Attendance []AttendanceRecord `json:"attendance"`
}

// AttendanceRecord is one attendance entry in CreateMeetingRequest.
type AttendanceRecord struct {
	StudentID int    `json:"studentId" binding:"required"`
	IsPresent bool   `json:"isPresent"`
	Remarks   string `json:"remarks"`
}

// GradeRequest is the body of POST /staff/evaluations/grade.
type GradeRequest struct {
	GroupID int    `json:"groupId" binding:"required"`
	Grade   string `json:"grade" binding:"required"`
}

// strOr dereferences a nullable column with a fallback for display.
func strOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

// groupStatus derives the display status: a group becomes Active once a
// project title is submitted.
func groupStatus(g *domain.GroupRow, emptyStatus string) string {
	if g.ProjectTitle != nil && *g.ProjectTitle != "" {
		return "Active"
	}
	return emptyStatus
}

// percent computes a rounded percentage, zero when the total is zero.
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(float64(part)/float64(total)*100 + 0.5)
}

// formatGroup shapes a group row and its members into a GroupView.
func formatGroup(g *domain.GroupRow, members []domain.GroupMemberRow) GroupView {
	view := GroupView{
		ID:           g.ID,
		GroupName:    g.Name,
		ProjectTitle: strOr(g.ProjectTitle, ""),
		ProjectArea:  strOr(g.ProjectArea, ""),
		Type:         strOr(g.TypeName, "Unassigned"),
		Guide:        strOr(g.GuideStaffName, "Not Assigned"),
		Convener:     strOr(g.ConvenerName, "Not Assigned"),
		Expert:       strOr(g.ExpertName, "Not Assigned"),
		AverageCPI:   g.AverageCPI,
		ProjectGrade: g.ProjectGrade,
		TotalMembers: len(members),
		LeaderName:   "No Leader",
		MemberNames:  []string{},
		Status:       groupStatus(g, "Draft"),
		CreatedAt:    g.CreatedAt,
	}

	for _, m := range members {
		if m.IsLeader && view.LeaderName == "No Leader" {
			view.LeaderName = m.Name
			view.LeaderEmail = m.Email
			continue
		}
		view.MemberNames = append(view.MemberNames, m.Name)
	}

	return view
}
