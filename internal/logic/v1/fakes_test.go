package v1

// In-memory repository fakes backing the service tests. They honor the
// repository contracts: (nil, nil) on no-rows and ErrDuplicateEmail on
// email conflicts.

import (
	"context"
	"sort"
	"time"

	"github.com/spms-dev/spms/internal/core/domain"
)

type fakeStudentRepo struct {
	rows   []domain.StudentRow
	nextID int
}

func (f *fakeStudentRepo) GetByEmail(_ context.Context, email string) (*domain.StudentRow, error) {
	for i := range f.rows {
		if f.rows[i].Email == email {
			row := f.rows[i]
			return &row, nil
		}
	}
	return nil, nil
}

func (f *fakeStudentRepo) GetByID(_ context.Context, id int) (*domain.StudentRow, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			row := f.rows[i]
			return &row, nil
		}
	}
	return nil, nil
}

func (f *fakeStudentRepo) Create(_ context.Context, fullName, phone, email, passwordHash string) (int, error) {
	for i := range f.rows {
		if f.rows[i].Email == email {
			return 0, domain.ErrDuplicateEmail
		}
	}
	f.nextID++
	f.rows = append(f.rows, domain.StudentRow{
		ID: f.nextID, FullName: fullName, Phone: phone, Email: email, PasswordHash: passwordHash,
	})
	return f.nextID, nil
}

func (f *fakeStudentRepo) UpdatePassword(_ context.Context, id int, passwordHash string) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].PasswordHash = passwordHash
		}
	}
	return nil
}

type fakeStaffRepo struct {
	rows   []domain.StaffRow
	nextID int
}

func (f *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*domain.StaffRow, error) {
	for i := range f.rows {
		if f.rows[i].Email == email {
			row := f.rows[i]
			return &row, nil
		}
	}
	return nil, nil
}

func (f *fakeStaffRepo) GetByID(_ context.Context, id int) (*domain.StaffRow, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			row := f.rows[i]
			return &row, nil
		}
	}
	return nil, nil
}

func (f *fakeStaffRepo) Create(_ context.Context, fullName, phone, email, passwordHash string) (int, error) {
	for i := range f.rows {
		if f.rows[i].Email == email {
			return 0, domain.ErrDuplicateEmail
		}
	}
	f.nextID++
	f.rows = append(f.rows, domain.StaffRow{
		ID: f.nextID, FullName: fullName, Phone: phone, Email: email, PasswordHash: passwordHash,
	})
	return f.nextID, nil
}

func (f *fakeStaffRepo) UpdatePassword(_ context.Context, id int, passwordHash string) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].PasswordHash = passwordHash
		}
	}
	return nil
}

type fakeGroupRepo struct {
	groups      []domain.GroupRow
	members     map[int][]domain.GroupMemberRow
	memberships map[int]domain.MembershipRow
	// supervised marks the groups the test's staff member supervises.
	supervised map[int]bool
	grades     map[int]string
}

func (f *fakeGroupRepo) ListAll(_ context.Context) ([]domain.GroupRow, error) {
	return append([]domain.GroupRow(nil), f.groups...), nil
}

func (f *fakeGroupRepo) ListSupervised(_ context.Context, _ int, _ string) ([]domain.GroupRow, error) {
	var out []domain.GroupRow
	for _, g := range f.groups {
		if f.supervised[g.ID] {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGroupRepo) GetSupervised(ctx context.Context, groupID, staffID int, staffName string) (*domain.GroupRow, error) {
	if !f.supervised[groupID] {
		return nil, nil
	}
	return f.GetByID(ctx, groupID)
}

func (f *fakeGroupRepo) GetByID(_ context.Context, groupID int) (*domain.GroupRow, error) {
	for i := range f.groups {
		if f.groups[i].ID == groupID {
			g := f.groups[i]
			if grade, ok := f.grades[groupID]; ok {
				g.ProjectGrade = &grade
			}
			return &g, nil
		}
	}
	return nil, nil
}

func (f *fakeGroupRepo) ListMembers(_ context.Context, groupID int) ([]domain.GroupMemberRow, error) {
	return f.members[groupID], nil
}

func (f *fakeGroupRepo) GetMembership(_ context.Context, studentID int) (*domain.MembershipRow, error) {
	m, ok := f.memberships[studentID]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (f *fakeGroupRepo) UpdateGrade(_ context.Context, groupID int, grade string) error {
	if f.grades == nil {
		f.grades = map[int]string{}
	}
	f.grades[groupID] = grade
	return nil
}

type fakeMeetingRepo struct {
	meetings   []domain.MeetingRow
	attendance map[int][]domain.AttendanceRow
	nextID     int
	created    []domain.NewMeeting
	deleted    []int
}

func (f *fakeMeetingRepo) ListAll(_ context.Context) ([]domain.MeetingRow, error) {
	return append([]domain.MeetingRow(nil), f.meetings...), nil
}

func (f *fakeMeetingRepo) ListByGuide(_ context.Context, staffID int) ([]domain.MeetingRow, error) {
	var out []domain.MeetingRow
	for _, m := range f.meetings {
		if m.GuideStaffID != nil && *m.GuideStaffID == staffID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMeetingRepo) ListForStudent(_ context.Context, groupID, studentID int) ([]domain.StudentMeetingRow, error) {
	var out []domain.StudentMeetingRow
	for _, m := range f.meetings {
		if m.GroupID == nil || *m.GroupID != groupID {
			continue
		}
		row := domain.StudentMeetingRow{MeetingRow: m}
		for _, a := range f.attendance[m.ID] {
			if a.StudentID == studentID {
				present := a.IsPresent
				row.Attended = &present
				row.AttendanceRemarks = a.Remarks
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeMeetingRepo) ListUpcomingByGroup(_ context.Context, groupID, limit int) ([]domain.MeetingRow, error) {
	var out []domain.MeetingRow
	now := time.Now()
	for _, m := range f.meetings {
		if m.GroupID != nil && *m.GroupID == groupID &&
			m.Status == domain.MeetingStatusScheduled && m.Time.After(now) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeMeetingRepo) ListAttendance(_ context.Context, meetingID int) ([]domain.AttendanceRow, error) {
	return f.attendance[meetingID], nil
}

func (f *fakeMeetingRepo) ListAttendanceByStudent(_ context.Context, studentID int) ([]domain.AttendanceRow, error) {
	var out []domain.AttendanceRow
	for _, records := range f.attendance {
		for _, a := range records {
			if a.StudentID == studentID {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

func (f *fakeMeetingRepo) CountByGroupAndStatus(_ context.Context, groupID int, status string) (int, error) {
	n := 0
	for _, m := range f.meetings {
		if m.GroupID != nil && *m.GroupID == groupID && m.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeMeetingRepo) CountByGuide(_ context.Context, staffID int) (int, error) {
	n := 0
	for _, m := range f.meetings {
		if m.GuideStaffID != nil && *m.GuideStaffID == staffID {
			n++
		}
	}
	return n, nil
}

func (f *fakeMeetingRepo) CountByGuideAndStatus(_ context.Context, staffID int, status string) (int, error) {
	n := 0
	for _, m := range f.meetings {
		if m.GuideStaffID != nil && *m.GuideStaffID == staffID && m.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeMeetingRepo) GetByID(_ context.Context, meetingID int) (*domain.MeetingRow, error) {
	for i := range f.meetings {
		if f.meetings[i].ID == meetingID {
			m := f.meetings[i]
			return &m, nil
		}
	}
	return nil, nil
}

func (f *fakeMeetingRepo) Create(_ context.Context, m domain.NewMeeting) (int, error) {
	f.nextID++
	f.created = append(f.created, m)
	groupID := m.GroupID
	guideID := m.GuideStaffID
	purpose := m.Purpose
	f.meetings = append(f.meetings, domain.MeetingRow{
		ID:           f.nextID,
		GroupID:      &groupID,
		GuideStaffID: &guideID,
		Time:         m.Time,
		Purpose:      &purpose,
		Status:       m.Status,
	})
	return f.nextID, nil
}

func (f *fakeMeetingRepo) Delete(_ context.Context, meetingID int) error {
	f.deleted = append(f.deleted, meetingID)
	for i := range f.meetings {
		if f.meetings[i].ID == meetingID {
			f.meetings = append(f.meetings[:i], f.meetings[i+1:]...)
			break
		}
	}
	return nil
}

type fakeDocumentRepo struct {
	docs   []domain.DocumentRow
	nextID int
}

func (f *fakeDocumentRepo) ListByGroup(_ context.Context, groupID int) ([]domain.DocumentRow, error) {
	var out []domain.DocumentRow
	for _, d := range f.docs {
		if d.GroupID == groupID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDocumentRepo) GetByID(_ context.Context, id int) (*domain.DocumentRow, error) {
	for i := range f.docs {
		if f.docs[i].ID == id {
			d := f.docs[i]
			return &d, nil
		}
	}
	return nil, nil
}

func (f *fakeDocumentRepo) Create(_ context.Context, groupID, studentID int, fileName, filePath string) (*domain.DocumentRow, error) {
	f.nextID++
	doc := domain.DocumentRow{
		ID: f.nextID, GroupID: groupID, StudentID: studentID,
		FileName: fileName, FilePath: filePath, UploadedAt: time.Now(),
	}
	f.docs = append(f.docs, doc)
	return &doc, nil
}

func (f *fakeDocumentRepo) Delete(_ context.Context, id int) error {
	for i := range f.docs {
		if f.docs[i].ID == id {
			f.docs = append(f.docs[:i], f.docs[i+1:]...)
			break
		}
	}
	return nil
}

func strPtr(s string) *string { return &s }
