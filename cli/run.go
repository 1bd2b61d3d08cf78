package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/yuezhaodesign/Inkspire/workflow"
)

var (
	runFile   string
	runCourse string
)

var runCmd = &cobra.Command{
	Use:   "run [input]",
	Short: "Generate RA questions and prompts for a reading",
	Long: `Runs the scaffolding workflow over an uploaded reading or a free-form
description, grounds it in the course library and prints the generated
questions, teacher prompts and quality evaluation.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runFile, "file", "f", "", "reading file to process (.pdf/.docx/.txt/...)")
	runCmd.Flags().StringVarP(&runCourse, "course", "c", "", "course library to ground the scaffolding in")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	in := workflow.CourseInput{
		CourseID: runCourse,
		FilePath: runFile,
	}
	if len(args) > 0 {
		in.Input = args[0]
	}
	if in.Input == "" && in.FilePath == "" {
		return errors.New("provide an input description or --file")
	}

	wf, err := newCourseWorkflow()
	if err != nil {
		return err
	}

	state, err := wf.Run(cmd.Context(), in)
	if err != nil {
		return err
	}

	printSection(cmd, "EXTRACTED INFO", state.ExtractedInfo)
	printSection(cmd, "RELEVANT CONTEXT", state.RelevantContext)
	printSection(cmd, "QUESTIONS", state.Questions)
	printSection(cmd, "PROMPTS", state.Prompts)
	printSection(cmd, "EVALUATION", state.Evaluation)

	return nil
}
