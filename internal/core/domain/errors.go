package domain

import "errors"

// ErrDuplicateEmail is returned by repository Create methods when the
// store's per-table email uniqueness constraint rejects the insert.
// The application-level existence pre-check is best effort only; the
// constraint is authoritative under concurrent signups.
var ErrDuplicateEmail = errors.New("email already registered")
