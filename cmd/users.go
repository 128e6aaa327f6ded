package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"finadmin/internal/export"
	"finadmin/internal/logger"
	"finadmin/internal/screens"
	"finadmin/pkg/models"
)

var usersCmd = &cobra.Command{
	Use:     "users",
	Aliases: []string{"user"},
	Short:   "Manage user accounts",
	Long: `Manage the accounts that can sign in to the finance administration API.

New and edited accounts can be given the admin or accountant role. Listing
shows every account, including roles from other parts of the system.`,
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users; --search is applied by the server",
	Args:  cobra.NoArgs,
	RunE:  runUsersList,
}

var usersCreateCmd = &cobra.Command{
	Use:     "create",
	Short:   "Create a user account",
	Example: `  finadmin users create --email ann@example.com --name "Ann Smith" --role accountant`,
	Args:    cobra.NoArgs,
	RunE:    runUsersCreate,
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update the given fields of a user account",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersUpdate,
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user account",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersDelete,
}

var usersResetPasswordCmd = &cobra.Command{
	Use:   "reset-password <email>",
	Short: "Send a password reset email",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersResetPassword,
}

var usersExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the filtered users to users.csv, users.xlsx or a Google Sheet",
	Args:  cobra.NoArgs,
	RunE:  runUsersExport,
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersListCmd, usersCreateCmd, usersUpdateCmd, usersDeleteCmd, usersResetPasswordCmd, usersExportCmd)

	addFilterFlags(usersListCmd, "role", "Role filter")
	addFilterFlags(usersExportCmd, "role", "Role filter")
	addExportFlags(usersExportCmd)

	f := usersCreateCmd.Flags()
	f.String("email", "", "Email address (required)")
	f.String("name", "", "Display name (required)")
	f.String("role", "", "admin or accountant (required)")
	f.String("password", "", "Initial password (optional; a reset email can be sent instead)")

	f = usersUpdateCmd.Flags()
	f.String("email", "", "Email address")
	f.String("name", "", "Display name")
	f.String("role", "", "admin or accountant")
	f.String("status", "", "Account status")
}

func newUsersScreen(cmd *cobra.Command) (*screens.Users, error) {
	client, err := newAPIClient()
	if err != nil {
		return nil, err
	}
	return screens.NewUsers(client, newConsoleNotifier(cmd)), nil
}

func runUsersList(cmd *cobra.Command, _ []string) error {
	log := logger.WithComponent("users")
	ctx, cancel := createCommandContext(log)
	defer cancel()

	screen, err := newUsersScreen(cmd)
	if err != nil {
		return err
	}
	if err := loadFiltered(ctx, screen.Store, filterQuery(cmd, "role")); err != nil {
		return err
	}

	visible := screen.Visible()
	summary := screen.Summary()

	out := cmd.OutOrStdout()
	if jsonOutput(cmd) {
		return printJSON(out, map[string]any{"users": visible, "summary": summary})
	}

	if len(visible) == 0 {
		fmt.Fprintln(out, "No users match the filters.")
		return nil
	}
	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tROLE\tSTATUS\tCREATED")
	for _, u := range visible {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Name, u.Role, u.Status, formatDate(u.CreatedAt))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d users\n", summary.Count)
	for _, s := range summary.ByRole {
		fmt.Fprintf(out, "  %-12s %.0f\n", s.Label, s.Value)
	}
	return nil
}

func runUsersCreate(cmd *cobra.Command, _ []string) error {
	log := logger.WithComponent("users")
	ctx, cancel := createCommandContext(log)
	defer cancel()

	screen, err := newUsersScreen(cmd)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	var form screens.UserForm
	form.Email, _ = f.GetString("email")
	form.Name, _ = f.GetString("name")
	form.Role, _ = f.GetString("role")
	form.Password, _ = f.GetString("password")

	return screen.Create(ctx, form)
}

func runUsersUpdate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("users")
	ctx, cancel := createCommandContext(log)
	defer cancel()

	screen, err := newUsersScreen(cmd)
	if err != nil {
		return err
	}

	patch := models.UserPatch{
		Email:  changedString(cmd, "email"),
		Name:   changedString(cmd, "name"),
		Role:   changedString(cmd, "role"),
		Status: changedString(cmd, "status"),
	}
	if patch == (models.UserPatch{}) {
		return fmt.Errorf("nothing to update: pass at least one field flag")
	}
	return screen.Update(ctx, args[0], patch)
}

func runUsersDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("users")
	ctx, cancel := createCommandContext(log)
	defer cancel()

	screen, err := newUsersScreen(cmd)
	if err != nil {
		return err
	}
	return screen.Delete(ctx, args[0])
}

func runUsersResetPassword(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("users")
	ctx, cancel := createCommandContext(log)
	defer cancel()

	screen, err := newUsersScreen(cmd)
	if err != nil {
		return err
	}
	return screen.ResetPassword(ctx, args[0])
}

func runUsersExport(cmd *cobra.Command, _ []string) error {
	log := logger.WithComponent("users")
	ctx, cancel := createCommandContext(log)
	defer cancel()

	screen, err := newUsersScreen(cmd)
	if err != nil {
		return err
	}
	if err := loadFiltered(ctx, screen.Store, filterQuery(cmd, "role")); err != nil {
		return err
	}
	return exportRows(ctx, cmd, export.Users, screen.Visible(), log)
}
