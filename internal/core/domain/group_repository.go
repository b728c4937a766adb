package domain

import (
	"context"
	"time"
)

// GroupRow is a project group joined with its type name and the names of
// its convener and expert staff. Nullable columns map to pointers.
type GroupRow struct {
	ID                 int
	Name               string
	ProjectTitle       *string
	ProjectArea        *string
	ProjectDescription *string
	TypeName           *string
	GuideStaffName     *string
	ConvenerName       *string
	ExpertName         *string
	AverageCPI         *float64
	ProjectGrade       *string
	CreatedAt          time.Time
}

// GroupMemberRow is one member of a group joined with the student record.
type GroupMemberRow struct {
	StudentID   int
	Name        string
	Email       string
	Phone       string
	IsLeader    bool
	StudentCGPA *float64
}

// MembershipRow is a single student's group membership.
type MembershipRow struct {
	GroupID  int
	IsLeader bool
}

// GroupRepository defines the data-access contract for project groups.
// A staff member supervises a group when listed as its guide (matched by
// name, as the schema stores the guide by name), convener, or expert.
type GroupRepository interface {
	// ListAll returns every group, newest first.
	ListAll(ctx context.Context) ([]GroupRow, error)

	// ListSupervised returns the groups supervised by the given staff
	// member, newest first.
	ListSupervised(ctx context.Context, staffID int, staffName string) ([]GroupRow, error)

	// GetSupervised returns the group only when the given staff member
	// supervises it. Returns (nil, nil) otherwise.
	GetSupervised(ctx context.Context, groupID, staffID int, staffName string) (*GroupRow, error)

	// GetByID returns the group with the given id.
	// Returns (nil, nil) when none is found.
	GetByID(ctx context.Context, groupID int) (*GroupRow, error)

	// ListMembers returns all members of a group.
	ListMembers(ctx context.Context, groupID int) ([]GroupMemberRow, error)

	// GetMembership returns the group membership of a student.
	// Returns (nil, nil) when the student belongs to no group.
	GetMembership(ctx context.Context, studentID int) (*MembershipRow, error)

	// UpdateGrade sets the project grade for a group.
	UpdateGrade(ctx context.Context, groupID int, grade string) error
}
