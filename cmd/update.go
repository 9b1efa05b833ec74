package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/selfupdate"
)

var (
	updateCheckOnly     bool
	updateTargetVersion string
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update codetoyou to the latest version",
	RunE: func(cmd *cobra.Command, args []string) error {
		checker := selfupdate.NewChecker(selfupdate.WithTimeout(2 * time.Minute))

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		if updateCheckOnly {
			return runUpdateCheck(ctx, checker)
		}

		err := checker.Update(ctx, &selfupdate.UpdateInput{
			CurrentVersion: version,
			TargetVersion:  updateTargetVersion,
		}, func(p selfupdate.UpdateProgress) {
			fmt.Println(p.Message)
		})

		switch {
		case err == nil:
			return nil
		case errors.Is(err, selfupdate.ErrDevBuild):
			fmt.Println("Cannot update a development build. Install a release build first.")
			return nil
		case errors.Is(err, selfupdate.ErrAlreadyLatest):
			fmt.Println("Already running the latest version.")
			return nil
		case os.IsPermission(err):
			return fmt.Errorf("%w\n\nTry running: sudo codetoyou update", err)
		}
		return err
	},
}

// runUpdateCheck reports whether a newer release exists without touching
// the installed binary.
func runUpdateCheck(ctx context.Context, checker *selfupdate.Checker) error {
	res, err := checker.Check(ctx, &selfupdate.CheckInput{Version: version})
	if err != nil {
		return fmt.Errorf("check for updates: %w", err)
	}
	if !res.UpdateAvailable {
		fmt.Println("Already running the latest version.")
		return nil
	}
	fmt.Printf("New version available: %s (running %s)\n", res.LatestVersion, res.CurrentVersion)
	if res.ReleaseURL != "" {
		fmt.Println(res.ReleaseURL)
	}
	return nil
}

func init() {
	updateCmd.Flags().BoolVar(&updateCheckOnly, "check", false, "check for a newer release without installing it")
	updateCmd.Flags().StringVar(&updateTargetVersion, "version", "", "install a specific release tag instead of the latest")
}
