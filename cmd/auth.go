package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/careerpilot/careerpilot/internal/account"
	"github.com/careerpilot/careerpilot/internal/session"
)

var errPasswordMismatch = errors.New("passwords do not match")

var signupCmd = &cobra.Command{
	Use:   "signup <email>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := args[0]
		if err := account.ValidateEmail(email); err != nil {
			return err
		}

		p := newPrompter(cmd)
		password, err := p.secret("Password: ")
		if err != nil {
			return err
		}
		confirm, err := p.secret("Confirm password: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return errPasswordMismatch
		}
		if err := account.CheckStrength(password); err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Session.Signup(cmd.Context(), email, password); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Account created successfully! Please log in.")
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := args[0]
		if err := account.ValidateEmail(email); err != nil {
			return err
		}
		password, err := newPrompter(cmd).secret("Password: ")
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sess, err := a.Session.Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s!\n", sess.DisplayName)
		if sess.CareerPlan == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Run `careerpilot onboard` to get your career plan.")
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Session.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sess, ok := a.Session.Current()
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
			return nil
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Name:   %s\n", sess.DisplayName)
		fmt.Fprintf(out, "Email:  %s\n", sess.Email)
		if sess.CareerPlan == nil {
			fmt.Fprintln(out, "Plan:   (none yet)")
			return nil
		}
		fmt.Fprintf(out, "Plan:   %d suggested roles\n", len(sess.CareerPlan.Suggestions))
		return nil
	},
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change your password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if _, ok := a.Session.Current(); !ok {
			return session.ErrNoActiveSession
		}

		p := newPrompter(cmd)
		current, err := p.secret("Current password: ")
		if err != nil {
			return err
		}
		next, err := p.secret("New password: ")
		if err != nil {
			return err
		}
		confirm, err := p.secret("Confirm new password: ")
		if err != nil {
			return err
		}
		if next != confirm {
			return errPasswordMismatch
		}

		if err := a.Session.ChangePassword(cmd.Context(), current, next); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Password updated successfully!")
		return nil
	},
}
