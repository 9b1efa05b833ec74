package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/api"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/auth"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/logging"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the stored session",
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

		sess, err := manager.Current(ctx)
		if err != nil {
			return fmt.Errorf("read session: %w", err)
		}
		if sess == nil {
			fmt.Println("Not signed in.")
			return nil
		}

		if err := manager.Logout(ctx); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
		fmt.Printf("Signed out @%s.\n", sess.Nickname)
		return nil
	},
}
