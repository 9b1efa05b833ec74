package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/api"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/auth"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/logging"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to Code to You",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := logging.Console()

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		sessions := st.SessionRepo()
		client := api.New(api.BaseURL(), auth.NewTokens(sessions), log)
		manager := auth.NewManager(client, sessions, log)

		if sess, err := manager.Current(ctx); err == nil && sess != nil {
			fmt.Printf("Already signed in as @%s.\n", sess.Nickname)
			return nil
		}

		dc, err := manager.BeginLogin(ctx)
		if err != nil {
			return fmt.Errorf("begin login: %w", err)
		}

		fmt.Println("To sign in, open")
		fmt.Println()
		fmt.Printf("    %s\n", dc.VerificationURI)
		fmt.Println()
		fmt.Printf("and enter the code %s\n", dc.UserCode)
		fmt.Println()
		fmt.Println("Waiting for approval...")

		sess, err := manager.WaitForLogin(ctx, dc)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		fmt.Printf("Signed in as @%s.\n", sess.Nickname)
		return nil
	},
}
