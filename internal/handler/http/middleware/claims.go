package middleware

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/auth"
	"github.com/go-chi/jwtauth/v5"
)

// EmployeeID returns the employee_id claim of the verified token.
func EmployeeID(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", auth.ErrInvalidToken
	}
	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", auth.ErrEmployeeClaimMissing
	}
	return employeeID, nil
}
