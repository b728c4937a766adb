package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spms-dev/spms/internal/core/domain"
)

// PgxGroupRepository implements domain.GroupRepository using pgxpool.
type PgxGroupRepository struct {
	pool *pgxpool.Pool
}

// NewGroupRepository creates a new PgxGroupRepository.
func NewGroupRepository(pool *pgxpool.Pool) *PgxGroupRepository {
	return &PgxGroupRepository{pool: pool}
}

// groupSelect joins each group with its type name and the names of the
// convener and expert staff. The guide is stored by name in the schema.
const groupSelect = `
	SELECT g.id, g.name, g.project_title, g.project_area, g.project_description,
	       t.name, g.guide_staff_name, cs.full_name, es.full_name,
	       g.average_cpi, g.project_grade, g.created_at
	FROM project_groups g
	LEFT JOIN project_types t ON g.project_type_id = t.id
	LEFT JOIN staff cs ON g.convener_staff_id = cs.id
	LEFT JOIN staff es ON g.expert_staff_id = es.id
`

const supervisedFilter = `(g.guide_staff_name = $2 OR g.convener_staff_id = $1 OR g.expert_staff_id = $1)`

func scanGroup(row pgx.Row) (*domain.GroupRow, error) {
	var g domain.GroupRow
	err := row.Scan(
		&g.ID, &g.Name, &g.ProjectTitle, &g.ProjectArea, &g.ProjectDescription,
		&g.TypeName, &g.GuideStaffName, &g.ConvenerName, &g.ExpertName,
		&g.AverageCPI, &g.ProjectGrade, &g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func collectGroups(rows pgx.Rows) ([]domain.GroupRow, error) {
	defer rows.Close()

	var groups []domain.GroupRow
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *g)
	}
	return groups, rows.Err()
}

// ListAll returns every group, newest first.
func (r *PgxGroupRepository) ListAll(ctx context.Context) ([]domain.GroupRow, error) {
	rows, err := r.pool.Query(ctx, groupSelect+` ORDER BY g.created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectGroups(rows)
}

// ListSupervised returns the groups supervised by the given staff member.
func (r *PgxGroupRepository) ListSupervised(ctx context.Context, staffID int, staffName string) ([]domain.GroupRow, error) {
	query := groupSelect + ` WHERE ` + supervisedFilter + ` ORDER BY g.created_at DESC`
	rows, err := r.pool.Query(ctx, query, staffID, staffName)
	if err != nil {
		return nil, err
	}
	return collectGroups(rows)
}

// GetSupervised returns the group only when the given staff member
// supervises it. Returns (nil, nil) otherwise.
func (r *PgxGroupRepository) GetSupervised(ctx context.Context, groupID, staffID int, staffName string) (*domain.GroupRow, error) {
	query := groupSelect + ` WHERE g.id = $3 AND ` + supervisedFilter
	g, err := scanGroup(r.pool.QueryRow(ctx, query, staffID, staffName, groupID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return g, nil
}

// GetByID returns the group with the given id.
// Returns (nil, nil) when none is found.
func (r *PgxGroupRepository) GetByID(ctx context.Context, groupID int) (*domain.GroupRow, error) {
	query := groupSelect + ` WHERE g.id = $1`
	g, err := scanGroup(r.pool.QueryRow(ctx, query, groupID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return g, nil
}

// ListMembers returns all members of a group, leader first.
func (r *PgxGroupRepository) ListMembers(ctx context.Context, groupID int) ([]domain.GroupMemberRow, error) {
	query := `
		SELECT m.student_id, s.full_name, s.email, s.phone, m.is_leader, m.student_cgpa
		FROM project_group_members m
		JOIN students s ON m.student_id = s.id
		WHERE m.group_id = $1
		ORDER BY m.is_leader DESC, s.full_name
	`

	rows, err := r.pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.GroupMemberRow
	for rows.Next() {
		var m domain.GroupMemberRow
		if err := rows.Scan(&m.StudentID, &m.Name, &m.Email, &m.Phone, &m.IsLeader, &m.StudentCGPA); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// GetMembership returns the group membership of a student.
// Returns (nil, nil) when the student belongs to no group.
func (r *PgxGroupRepository) GetMembership(ctx context.Context, studentID int) (*domain.MembershipRow, error) {
	query := `SELECT group_id, is_leader FROM project_group_members WHERE student_id = $1 LIMIT 1`

	var m domain.MembershipRow
	err := r.pool.QueryRow(ctx, query, studentID).Scan(&m.GroupID, &m.IsLeader)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// UpdateGrade sets the project grade for a group.
func (r *PgxGroupRepository) UpdateGrade(ctx context.Context, groupID int, grade string) error {
	query := `UPDATE project_groups SET project_grade = $2 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, groupID, grade)
	return err
}
