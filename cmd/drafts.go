package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"
)

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "Inspect locally stored solution drafts",
}

var draftsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List local drafts",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ds, err := st.DraftRepo().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list drafts: %w", err)
		}
		if len(ds) == 0 {
			fmt.Println("No local drafts.")
			return nil
		}

		fmt.Printf("%-28s  %-10s  %7s  %s\n", "Problem", "Language", "Bytes", "Updated")
		fmt.Println(strings.Repeat("─", 68))
		for _, d := range ds {
			fmt.Printf("%-28s  %-10s  %7d  %s\n",
				truncate(d.ProblemID, 28),
				d.Draft.Language,
				len(d.Draft.Code),
				d.UpdatedAt.Local().Format("2006-01-02 15:04"),
			)
		}
		return nil
	},
}

// draftArchive is the export file layout: one JSON document, zstd-compressed.
type draftArchive struct {
	ExportedAt time.Time           `json:"exported_at"`
	Drafts     []draftArchiveEntry `json:"drafts"`
}

type draftArchiveEntry struct {
	ProblemID string    `json:"problem_id"`
	Language  string    `json:"language"`
	Code      string    `json:"code"`
	UpdatedAt time.Time `json:"updated_at"`
}

var draftsExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export all drafts as zstd-compressed JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := "codetoyou-drafts.json.zst"
		if len(args) == 1 {
			out = args[0]
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ds, err := st.DraftRepo().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list drafts: %w", err)
		}

		archive := draftArchive{ExportedAt: time.Now().UTC()}
		for _, d := range ds {
			archive.Drafts = append(archive.Drafts, draftArchiveEntry{
				ProblemID: d.ProblemID,
				Language:  d.Draft.Language,
				Code:      d.Draft.Code,
				UpdatedAt: d.UpdatedAt,
			})
		}

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}

		zw, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return err
		}
		if err := json.NewEncoder(zw).Encode(archive); err != nil {
			zw.Close()
			f.Close()
			return fmt.Errorf("encode drafts: %w", err)
		}
		if err := zw.Close(); err != nil {
			f.Close()
			return fmt.Errorf("flush archive: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}

		fmt.Printf("Exported %d drafts to %s.\n", len(archive.Drafts), out)
		return nil
	},
}

var draftsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all local drafts",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DraftRepo().DeleteAll(cmd.Context()); err != nil {
			return fmt.Errorf("clear drafts: %w", err)
		}
		fmt.Println("Local drafts cleared.")
		return nil
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func init() {
	draftsCmd.AddCommand(draftsListCmd)
	draftsCmd.AddCommand(draftsExportCmd)
	draftsCmd.AddCommand(draftsClearCmd)
}
