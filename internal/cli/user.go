package cli

import (
	"fmt"

	appidentity "github.com/paragon/backend/internal/application/identity"
	"github.com/paragon/backend/internal/domain/identity"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/spf13/cobra"
)

func newUserCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage staff accounts",
	}
	cmd.AddCommand(newUserCreateCommand(app), newUserListCommand(app))
	return cmd
}

func newUserCreateCommand(app *App) *cobra.Command {
	var req appidentity.CreateUserRequest
	var location string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a staff account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc, err := app.location(cmd.Context(), location)
			if err != nil {
				return err
			}
			req.LocationID = loc
			user, err := app.Container.Users.CreateUser(cmd.Context(), identity.SystemScope(), req)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Created user %d %s (%s)\n", user.ID, user.Username, user.Role)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Username, "username", "", "Login name")
	f.StringVar(&req.Password, "password", "", "Initial password, six or more characters with a letter and a digit")
	f.StringVar(&req.Role, "role", string(identity.RoleFrontDesk), "Role: manager, admin, finance, frontdesk, maintenance or guest")
	f.StringVar(&location, "location", "", "City the account is pinned to, empty for none")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newUserListCommand(app *App) *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List staff accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := app.Container.Users.ListUsers(cmd.Context(), identity.SystemScope(), appidentity.UserFilter{
				Filter: shared.Filter{PageSize: shared.Unpaged},
				Role:   role,
			})
			if err != nil {
				return err
			}
			tw := table(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tUSERNAME\tROLE\tLOCATION")
			for _, u := range page.Items {
				loc := "-"
				if u.LocationID != nil {
					loc = fmt.Sprint(*u.LocationID)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Role, loc)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "Only accounts with this role")
	return cmd
}
