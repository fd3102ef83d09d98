package main

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/config"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/jwt"
	"github.com/spf13/cobra"
)

var tokenOpts struct {
	employeeID string
	role       string
}

// tokenCmd mints an access token with the configured secret. Useful for
// local testing since login lives in another service.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an access token for an employee",
	RunE: func(cmd *cobra.Command, args []string) error {
		role := employee.Role(tokenOpts.role)
		if role != employee.RoleAdmin && role != employee.RoleEmployee {
			return fmt.Errorf("--role must be %s or %s", employee.RoleAdmin, employee.RoleEmployee)
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).GenerateAccessToken(tokenOpts.employeeID, role)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenOpts.employeeID, "employee", "", "employee id to put in the token")
	tokenCmd.Flags().StringVar(&tokenOpts.role, "role", string(employee.RoleEmployee), "admin or employee")
	_ = tokenCmd.MarkFlagRequired("employee")
}
