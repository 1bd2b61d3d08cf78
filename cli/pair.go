package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yuezhaodesign/Inkspire/workflow"
)

// ragContextPreview caps how much retrieved context the pair command prints.
const ragContextPreview = 1500

var (
	pairReadingA   string
	pairReadingB   string
	pairObjectives string
	pairTitleA     string
	pairAuthorA    string
	pairAuthorB    string
)

var pairCmd = &cobra.Command{
	Use:   "pair",
	Short: "Annotate a primary reading against secondary sources",
	Long: `Extracts keywords and key sentences from Reading A, retrieves matching
passages from the Reading B folder and generates sentence-anchored
annotations plus a quality review. Reading A itself is never chunked.`,
	RunE: runPair,
}

func init() {
	pairCmd.Flags().StringVar(&pairReadingA, "reading-a", "", "path to the Reading A file (.pdf/.txt/.docx)")
	pairCmd.Flags().StringVar(&pairReadingB, "reading-b-dir", "", "directory containing Reading B files")
	pairCmd.Flags().StringVar(&pairObjectives, "objectives-file", "", "optional file with one learning objective per line")
	pairCmd.Flags().StringVar(&pairTitleA, "reading-a-title", "", "optional title override for Reading A")
	pairCmd.Flags().StringVar(&pairAuthorA, "reading-a-author", workflow.UnknownAuthor, "optional author for Reading A")
	pairCmd.Flags().StringVar(&pairAuthorB, "reading-b-author", workflow.UnknownAuthor, "optional author label for Reading B items")
	_ = pairCmd.MarkFlagRequired("reading-a")
	_ = pairCmd.MarkFlagRequired("reading-b-dir")
	rootCmd.AddCommand(pairCmd)
}

func runPair(cmd *cobra.Command, args []string) error {
	wf, err := newPairWorkflow()
	if err != nil {
		return err
	}

	readingA, err := workflow.ReadingFromFile(loader, pairReadingA, pairTitleA, pairAuthorA)
	if err != nil {
		return fmt.Errorf("loading Reading A: %w", err)
	}

	readingB := workflow.LoadSecondaryFolder(loader, pairReadingB, pairAuthorB, logger)
	if len(readingB) == 0 {
		logger.Warn("no Reading B files loaded, retrieved context may be empty", "dir", pairReadingB)
	}

	objectives, err := workflow.LoadObjectives(pairObjectives)
	if err != nil {
		return fmt.Errorf("loading objectives: %w", err)
	}
	if len(objectives) == 0 {
		logger.Warn("no objectives provided, generation will proceed but alignment may be generic")
	}

	state, err := wf.Run(cmd.Context(), workflow.PairInput{
		ReadingA:   readingA,
		ReadingB:   readingB,
		Objectives: objectives,
	})
	if err != nil {
		return err
	}

	printSection(cmd, "KEYWORDS (A)", state.Keywords)
	printSection(cmd, "KEY SENTENCES (A)", state.KeySentences)
	printSection(cmd, "RAG CONTEXT (B only)", clip(state.RelevantContext, ragContextPreview)+" ...")
	printSection(cmd, "ANNOTATIONS", state.Annotations)
	printSection(cmd, "QUALITY REVIEW", state.Evaluation)

	return nil
}
