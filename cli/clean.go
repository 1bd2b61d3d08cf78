package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yuezhaodesign/Inkspire/perusall"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [file]",
	Short: "Clean a Perusall transcript export",
	Long: `Extracts the annotation text from a raw Perusall widget dump and writes
a readable transcript next to the input file.`,
	Args: cobra.ExactArgs(1),
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading transcript: %w", err)
	}

	out := perusall.OutputPath(args[0])
	if err := os.WriteFile(out, []byte(perusall.Clean(string(raw))), 0o644); err != nil {
		return fmt.Errorf("writing cleaned transcript: %w", err)
	}

	cmd.Printf("Cleaned transcript written to %s\n", out)
	return nil
}
