package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRoleNotFound = errors.New("role not found")
	ErrUserNotFound = errors.New("user not found")

	// Unique-constraint violations. The error names the field that collided.
	ErrDuplicateName     = errors.New("name already exists")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")

	// ErrRoleAssigned blocks role deletion while users still reference it.
	ErrRoleAssigned = errors.New("cannot delete the role because there are active users still assigned to it")

	// ErrInvalidRole is returned when a user mutation references a role that
	// is absent or inactive.
	ErrInvalidRole = errors.New("invalid role id")
	ErrInvalidUser = errors.New("invalid user id")

	ErrDuplicateModules = errors.New("access modules contain duplicate entries")
	ErrModuleExists     = errors.New("access module already exists")
	ErrModuleNotFound   = errors.New("access module does not exist")

	// ErrInvalidCredentials is returned for both an unknown email and a wrong
	// password so callers cannot tell which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// BulkValidationError reports every unknown user id in a bulk request at once
// instead of failing on the first.
type BulkValidationError struct {
	IncorrectUserIDs []string
}

func (e *BulkValidationError) Error() string {
	return fmt.Sprintf("some users not found: %v", e.IncorrectUserIDs)
}
