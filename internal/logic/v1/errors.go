// Package v1 provides the business logic for API version 1.
//
// Error Handling:
// This package defines sentinel errors for the expected negative outcomes
// of each operation. They are wrapped with context using fmt.Errorf("%w")
// and translated to HTTP statuses by the web layer via errors.Is switches.
// Only truly unexpected conditions (store unreachable) propagate as plain
// errors and map to 500.
package v1

import "errors"

// Sentinel errors for SPMS operations.
var (
	// ErrStudentNotFound indicates no student is registered under the
	// submitted email.
	// HTTP Status: 404 Not Found
	ErrStudentNotFound = errors.New("student not found")

	// ErrStaffNotFound indicates no staff member is registered under the
	// submitted email.
	// HTTP Status: 404 Not Found
	ErrStaffNotFound = errors.New("staff not found")

	// ErrIncorrectPassword indicates the password does not match the
	// stored hash.
	// HTTP Status: 401 Unauthorized
	ErrIncorrectPassword = errors.New("incorrect password")

	// ErrStudentExists indicates the email is already registered as a student.
	// HTTP Status: 409 Conflict
	ErrStudentExists = errors.New("student already exists")

	// ErrStaffExists indicates the email is already registered as staff.
	// HTTP Status: 409 Conflict
	ErrStaffExists = errors.New("staff already exists")

	// ErrWrongCurrentPassword indicates a password change submitted with a
	// current password that does not match.
	// HTTP Status: 400 Bad Request
	ErrWrongCurrentPassword = errors.New("current password is incorrect")

	// ErrPrincipalNotFound indicates the authenticated principal's row no
	// longer exists in the store.
	// HTTP Status: 404 Not Found
	ErrPrincipalNotFound = errors.New("principal not found")

	// ErrNoProjectGroup indicates the student does not belong to a project
	// group and the operation requires one.
	// HTTP Status: 400 Bad Request
	ErrNoProjectGroup = errors.New("project group not found")

	// ErrGroupNotFound indicates the referenced project group does not exist.
	// HTTP Status: 404 Not Found
	ErrGroupNotFound = errors.New("group not found")

	// ErrMeetingNotFound indicates the referenced meeting does not exist.
	// HTTP Status: 404 Not Found
	ErrMeetingNotFound = errors.New("meeting not found")

	// ErrDocumentNotFound indicates the referenced document does not exist.
	// HTTP Status: 404 Not Found
	ErrDocumentNotFound = errors.New("document not found")

	// ErrNotSupervising indicates the staff member is neither guide,
	// convener nor expert of the group the operation targets.
	// HTTP Status: 403 Forbidden
	ErrNotSupervising = errors.New("not supervising this group")

	// ErrNotGroupDocument indicates the document belongs to another group.
	// HTTP Status: 403 Forbidden
	ErrNotGroupDocument = errors.New("document belongs to another group")
)
