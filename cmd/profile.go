package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/careerpilot/careerpilot/internal/career"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your profile",
}

var profileNameCmd = &cobra.Command{
	Use:   "name <display-name>",
	Short: "Change your display name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(strings.Join(args, " "))
		if name == "" {
			return errors.New("display name cannot be empty")
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.Session.UpdateUser(cmd.Context(), career.AccountUpdate{DisplayName: &name}); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Name updated successfully!")
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileNameCmd)
}
