package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Synchronise the materials folder into course libraries",
	Long: `Scans the materials folder and rebuilds the library collection of every
course whose files were added, changed or removed. Each first-level
subdirectory is one course.`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cmd.Println("Synchronising course materials...")

	if err := registry.Sync(cmd.Context()); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	cmd.Println("Course materials synchronised.")
	return nil
}
