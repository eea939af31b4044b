// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-utilizer/internal/secrets"
	"github.com/pdiddy/pdf-utilizer/pkg/types"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and keep the session for later commands",
	Long: `Login exchanges a username and password for an access token and stores
both in the configured session store. Flags take precedence; missing values
are read from the username and password files in the secrets directory.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := services()
	if err != nil {
		return err
	}

	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")
	if username == "" || password == "" {
		dir, _ := cmd.Flags().GetString("secrets-dir")
		fileUser, filePass, err := secrets.Credentials(dir, a.logger)
		if err != nil {
			return err
		}
		if username == "" {
			username = fileUser
		}
		if password == "" {
			password = filePass
		}
	}

	id, err := a.auth.Login(cmd.Context(), username, password)
	if err != nil {
		return a.printer.Fail(err)
	}
	sess, err := a.gate.SignIn(id)
	if err != nil {
		return err
	}
	a.printer.Render(types.Success("Login successful"))
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", sess.DisplayName)
	return nil
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account on the processing service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := services()
		if err != nil {
			return err
		}
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		msg, err := a.auth.Register(cmd.Context(), username, email, password)
		if err != nil {
			return a.printer.Fail(err)
		}
		a.printer.Render(types.Success(msg))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := services()
		if err != nil {
			return err
		}
		// The service may not know about the session; the local copy goes
		// either way.
		_ = a.auth.Logout(cmd.Context())
		if err := a.gate.SignOut(); err != nil {
			return err
		}
		a.printer.Render(types.Success("Signed out"))
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := services()
		if err != nil {
			return err
		}
		sess, err := requireSession(a, "whoami")
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s!\n", sess.DisplayName)
		return nil
	},
}

func init() {
	loginCmd.Flags().String("username", "", "account name")
	loginCmd.Flags().String("password", "", "account password")
	loginCmd.Flags().String("secrets-dir", secrets.DefaultDir, "directory holding username and password files")

	registerCmd.Flags().String("username", "", "account name")
	registerCmd.Flags().String("email", "", "contact email")
	registerCmd.Flags().String("password", "", "account password")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
