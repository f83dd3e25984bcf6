package cli

import (
	"context"
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/cesworks/fieldcheck/internal/client/models"
	"github.com/cesworks/fieldcheck/internal/client/workflow"
)

var employeeRef = regexp.MustCompile(`^(\d{3,}|[^@\s]+@[^@\s]+\.[^@\s]+)$`)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <employee-id-or-email>",
		Short: "Verify the inspecting employee against the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *App) error {
				if _, err := a.EnterPage(ctx, workflow.PageVerify, flagToken); err != nil {
					return err
				}

				ref := args[0]
				if !employeeRef.MatchString(ref) {
					return fmt.Errorf("enter an employee number (3+ digits) or a work email")
				}

				emp, token, err := a.client.VerifyEmployee(ctx, ref)
				if err != nil {
					return fmt.Errorf("verify employee: %w", err)
				}

				_, err = a.store.Write(ctx, models.Patch{
					"employeeId":       emp.ID,
					"employeeName":     emp.Name,
					"preferredName":    emp.PreferredName,
					"email":            emp.Email,
					"phone":            emp.Phone,
					"employeeVerified": true,
				})
				if err != nil && !isDegraded(err) {
					return err
				}

				name := emp.PreferredName
				if name == "" {
					name = emp.Name
				}
				printf(cmd, "verified: %s (%s)", name, emp.ID)
				if token != "" {
					printf(cmd, "handoff token: %s", token)
				}
				printf(cmd, "next: %s", commandFor(workflow.PageMode))
				return nil
			})
		},
	}
}
