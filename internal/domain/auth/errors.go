package auth

import "errors"

var (
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrEmployeeClaimMissing   = errors.New("token has no employee_id claim")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
)
