package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spms-dev/spms/internal/core/domain"
)

// PgxMeetingRepository implements domain.MeetingRepository using pgxpool.
type PgxMeetingRepository struct {
	pool *pgxpool.Pool
}

// NewMeetingRepository creates a new PgxMeetingRepository.
func NewMeetingRepository(pool *pgxpool.Pool) *PgxMeetingRepository {
	return &PgxMeetingRepository{pool: pool}
}

const meetingSelect = `
	SELECT m.id, m.group_id, m.guide_staff_id, g.name, g.project_title, st.full_name,
	       m.meeting_time, m.purpose, m.location, m.notes, m.status,
	       m.status_description, m.created_at
	FROM project_meetings m
	LEFT JOIN project_groups g ON m.group_id = g.id
	LEFT JOIN staff st ON m.guide_staff_id = st.id
`

func scanMeeting(row pgx.Row, m *domain.MeetingRow) error {
	return row.Scan(
		&m.ID, &m.GroupID, &m.GuideStaffID, &m.GroupName, &m.ProjectTitle, &m.GuideName,
		&m.Time, &m.Purpose, &m.Location, &m.Notes, &m.Status,
		&m.StatusDescription, &m.CreatedAt,
	)
}

func collectMeetings(rows pgx.Rows) ([]domain.MeetingRow, error) {
	defer rows.Close()

	var meetings []domain.MeetingRow
	for rows.Next() {
		var m domain.MeetingRow
		if err := scanMeeting(rows, &m); err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

// ListAll returns every meeting, newest first.
func (r *PgxMeetingRepository) ListAll(ctx context.Context) ([]domain.MeetingRow, error) {
	rows, err := r.pool.Query(ctx, meetingSelect+` ORDER BY m.meeting_time DESC`)
	if err != nil {
		return nil, err
	}
	return collectMeetings(rows)
}

// ListByGuide returns meetings conducted by the given staff member, newest first.
func (r *PgxMeetingRepository) ListByGuide(ctx context.Context, staffID int) ([]domain.MeetingRow, error) {
	query := meetingSelect + ` WHERE m.guide_staff_id = $1 ORDER BY m.meeting_time DESC`
	rows, err := r.pool.Query(ctx, query, staffID)
	if err != nil {
		return nil, err
	}
	return collectMeetings(rows)
}

// ListForStudent returns all meetings of a group joined with the given
// student's own attendance, newest first.
func (r *PgxMeetingRepository) ListForStudent(ctx context.Context, groupID, studentID int) ([]domain.StudentMeetingRow, error) {
	query := `
		SELECT m.id, m.group_id, m.guide_staff_id, g.name, g.project_title, st.full_name,
		       m.meeting_time, m.purpose, m.location, m.notes, m.status,
		       m.status_description, m.created_at, a.is_present, a.remarks
		FROM project_meetings m
		LEFT JOIN project_groups g ON m.group_id = g.id
		LEFT JOIN staff st ON m.guide_staff_id = st.id
		LEFT JOIN meeting_attendance a ON a.meeting_id = m.id AND a.student_id = $2
		WHERE m.group_id = $1
		ORDER BY m.meeting_time DESC
	`

	rows, err := r.pool.Query(ctx, query, groupID, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetings []domain.StudentMeetingRow
	for rows.Next() {
		var m domain.StudentMeetingRow
		err := rows.Scan(
			&m.ID, &m.GroupID, &m.GuideStaffID, &m.GroupName, &m.ProjectTitle, &m.GuideName,
			&m.Time, &m.Purpose, &m.Location, &m.Notes, &m.Status,
			&m.StatusDescription, &m.CreatedAt, &m.Attended, &m.AttendanceRemarks,
		)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

// ListUpcomingByGroup returns future scheduled meetings of a group,
// soonest first, capped at limit.
func (r *PgxMeetingRepository) ListUpcomingByGroup(ctx context.Context, groupID, limit int) ([]domain.MeetingRow, error) {
	query := meetingSelect + `
		WHERE m.group_id = $1 AND m.status = $2 AND m.meeting_time > now()
		ORDER BY m.meeting_time ASC
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, groupID, domain.MeetingStatusScheduled, limit)
	if err != nil {
		return nil, err
	}
	return collectMeetings(rows)
}

const attendanceSelect = `
	SELECT a.meeting_id, a.student_id, s.full_name, s.email, a.is_present, a.remarks
	FROM meeting_attendance a
	JOIN students s ON a.student_id = s.id
`

func collectAttendance(rows pgx.Rows) ([]domain.AttendanceRow, error) {
	defer rows.Close()

	var records []domain.AttendanceRow
	for rows.Next() {
		var a domain.AttendanceRow
		if err := rows.Scan(&a.MeetingID, &a.StudentID, &a.StudentName, &a.Email, &a.IsPresent, &a.Remarks); err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// ListAttendance returns the attendance records of one meeting.
func (r *PgxMeetingRepository) ListAttendance(ctx context.Context, meetingID int) ([]domain.AttendanceRow, error) {
	rows, err := r.pool.Query(ctx, attendanceSelect+` WHERE a.meeting_id = $1 ORDER BY s.full_name`, meetingID)
	if err != nil {
		return nil, err
	}
	return collectAttendance(rows)
}

// ListAttendanceByStudent returns every attendance record of a student.
func (r *PgxMeetingRepository) ListAttendanceByStudent(ctx context.Context, studentID int) ([]domain.AttendanceRow, error) {
	rows, err := r.pool.Query(ctx, attendanceSelect+` WHERE a.student_id = $1`, studentID)
	if err != nil {
		return nil, err
	}
	return collectAttendance(rows)
}

// CountByGroupAndStatus counts a group's meetings with the given status.
func (r *PgxMeetingRepository) CountByGroupAndStatus(ctx context.Context, groupID int, status string) (int, error) {
	query := `SELECT count(*) FROM project_meetings WHERE group_id = $1 AND status = $2`
	var n int
	err := r.pool.QueryRow(ctx, query, groupID, status).Scan(&n)
	return n, err
}

// CountByGuide counts meetings conducted by the given staff member.
func (r *PgxMeetingRepository) CountByGuide(ctx context.Context, staffID int) (int, error) {
	query := `SELECT count(*) FROM project_meetings WHERE guide_staff_id = $1`
	var n int
	err := r.pool.QueryRow(ctx, query, staffID).Scan(&n)
	return n, err
}

// CountByGuideAndStatus counts the staff member's meetings with the given status.
func (r *PgxMeetingRepository) CountByGuideAndStatus(ctx context.Context, staffID int, status string) (int, error) {
	query := `SELECT count(*) FROM project_meetings WHERE guide_staff_id = $1 AND status = $2`
	var n int
	err := r.pool.QueryRow(ctx, query, staffID, status).Scan(&n)
	return n, err
}

// GetByID returns the meeting with the given id.
// Returns (nil, nil) when none is found.
func (r *PgxMeetingRepository) GetByID(ctx context.Context, meetingID int) (*domain.MeetingRow, error) {
	var m domain.MeetingRow
	err := scanMeeting(r.pool.QueryRow(ctx, meetingSelect+` WHERE m.id = $1`, meetingID), &m)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// Create inserts a meeting together with its attendance records in one
// transaction and returns the generated meeting id.
func (r *PgxMeetingRepository) Create(ctx context.Context, m domain.NewMeeting) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var meetingID int
	err = tx.QueryRow(ctx, `
		INSERT INTO project_meetings
			(group_id, guide_staff_id, meeting_time, purpose, location, notes, status, status_description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, m.GroupID, m.GuideStaffID, m.Time, m.Purpose, m.Location, m.Notes, m.Status, m.StatusDescription).Scan(&meetingID)
	if err != nil {
		return 0, err
	}

	for _, a := range m.Attendance {
		_, err = tx.Exec(ctx, `
			INSERT INTO meeting_attendance (meeting_id, student_id, is_present, remarks)
			VALUES ($1, $2, $3, $4)
		`, meetingID, a.StudentID, a.IsPresent, a.Remarks)
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return meetingID, nil
}

// Delete removes a meeting. Attendance rows go with it via ON DELETE CASCADE.
func (r *PgxMeetingRepository) Delete(ctx context.Context, meetingID int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM project_meetings WHERE id = $1`, meetingID)
	return err
}
