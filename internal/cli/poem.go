package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/quill/internal/core/contract"
	"github.com/example/quill/internal/ports/primary"
	"github.com/example/quill/internal/wire"
)

var poemCmd = &cobra.Command{
	Use:   "poem",
	Short: "Submit and manage weekly poems",
	Long:  "Submit, draft, revise, and inspect the weekly poems of the active contract",
}

var poemSubmitCmd = &cobra.Command{
	Use:   "submit [file]",
	Short: "Submit the current week's poem",
	Long: `Submit the poem for the current contract week. Reads the poem from the
given file, or from stdin when the file is "-" or omitted. The four
self-assessment answers are required.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		content, err := readContent(args)
		if err != nil {
			return err
		}

		lazy, _ := cmd.Flags().GetString("lazy")
		abstraction, _ := cmd.Flags().GetString("abstraction")
		weakest, _ := cmd.Flags().GetString("weakest")
		risk, _ := cmd.Flags().GetString("risk")
		version, _ := cmd.Flags().GetInt("version")
		notes, _ := cmd.Flags().GetString("notes")

		resp, err := wire.SubmissionService().SubmitPoem(ctx, primary.SubmitPoemRequest{
			ProfileID: currentProfileID(),
			Content:   content,
			Assessment: contract.SelfAssessment{
				LazyWhere:        lazy,
				AbstractionWhere: abstraction,
				WeakestLine:      weakest,
				RiskAvoided:      risk,
			},
			VersionNumber: version,
			RevisionNotes: notes,
		})
		if err != nil {
			return err
		}

		if !resp.Success {
			fmt.Printf("%s %s\n", color.New(color.FgRed).Sprint("✗"), resp.Message)
			printViolations(resp.Violations)
			return fmt.Errorf("submission rejected (%s)", resp.ReasonCode)
		}

		timing := color.New(color.FgHiGreen).Sprint("on time")
		if !resp.OnTime {
			timing = color.New(color.FgYellow).Sprint("in recovery")
		}
		fmt.Printf("✓ Week %d poem accepted (%s, constraint: %s)\n",
			resp.WeekNumber, timing, resp.Constraint)
		fmt.Printf("  archived: %s\n", resp.ArchivePath)
		printViolations(resp.Violations)
		if resp.Critique != nil {
			printCritique(resp.Critique)
		}
		return nil
	},
}

var poemDraftCmd = &cobra.Command{
	Use:   "draft [file]",
	Short: "Archive a draft without submitting",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		content, err := readContent(args)
		if err != nil {
			return err
		}

		resp, err := wire.SubmissionService().SaveDraft(ctx, primary.SaveDraftRequest{
			ProfileID: currentProfileID(),
			Content:   content,
		})
		if err != nil {
			return err
		}
		fmt.Printf("✓ Draft %d archived for week %d: %s\n",
			resp.DraftNumber, resp.WeekNumber, resp.ArchivePath)
		return nil
	},
}

var poemReviseCmd = &cobra.Command{
	Use:   "revise [poem-id] [file]",
	Short: "Record a revision of a submitted poem",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		content, err := readContent(args[1:])
		if err != nil {
			return err
		}
		note, _ := cmd.Flags().GetString("note")

		resp, err := wire.SubmissionService().SaveRevision(ctx, primary.SaveRevisionRequest{
			PoemID:      args[0],
			Content:     content,
			ChangesNote: note,
		})
		if err != nil {
			return err
		}
		fmt.Printf("✓ Revision v%d archived: %s\n", resp.VersionNumber, resp.ArchivePath)
		return nil
	},
}

var poemReflectCmd = &cobra.Command{
	Use:   "reflect [week] [file]",
	Short: "Write the weekly reflection",
	Long: `Write the reflection for a contract week. The reflection for week N is
required before the week N+1 poem can be submitted.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		var week int
		if _, err := fmt.Sscanf(args[0], "%d", &week); err != nil {
			return fmt.Errorf("invalid week number %q", args[0])
		}
		content, err := readContent(args[1:])
		if err != nil {
			return err
		}
		replace, _ := cmd.Flags().GetBool("replace")

		if err := wire.SubmissionService().SaveReflection(ctx, primary.SaveReflectionRequest{
			ProfileID:    currentProfileID(),
			WeekNumber:   week,
			Content:      content,
			AllowReplace: replace,
		}); err != nil {
			return err
		}
		fmt.Printf("✓ Week %d reflection saved\n", week)
		return nil
	},
}

var poemShowCmd = &cobra.Command{
	Use:   "show [poem-id]",
	Short: "Show a poem with its critique",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		poem, err := wire.SubmissionService().GetPoem(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("\nPoem %s (week %d, %s, %s)\n",
			poem.ID, poem.WeekNumber, poem.ConstraintType, poem.Status)
		fmt.Printf("Lines: %d  Revisions: %d\n", poem.LineCount, poem.RevisionCount)
		if !poem.SubmittedAt.IsZero() {
			timing := "on time"
			if !poem.OnTime {
				timing = "late"
			}
			fmt.Printf("Submitted: %s (%s)\n", poem.SubmittedAt.Format("2006-01-02 15:04"), timing)
		}
		if poem.PublicURL != "" {
			fmt.Printf("Published: %s (%s)\n", poem.PublicURL, poem.Platform)
		}
		fmt.Println()
		fmt.Println(poem.Content)
		fmt.Println()
		printViolations(poem.Violations)
		if poem.Critique != nil {
			printCritique(poem.Critique)
		}
		return nil
	},
}

// PoemCmd returns the poem command group.
func PoemCmd() *cobra.Command {
	poemSubmitCmd.Flags().String("lazy", "", "Where were you lazy this week?")
	poemSubmitCmd.Flags().String("abstraction", "", "Where did you hide behind abstraction?")
	poemSubmitCmd.Flags().String("weakest", "", "Which line is weakest, and why?")
	poemSubmitCmd.Flags().String("risk", "", "What risk did you avoid?")
	poemSubmitCmd.Flags().Int("version", 1, "Version of the poem being submitted")
	poemSubmitCmd.Flags().String("notes", "", "What changed since the last version")
	poemReviseCmd.Flags().StringP("note", "n", "", "What changed in this revision")
	poemReflectCmd.Flags().Bool("replace", false, "Overwrite an existing reflection")

	poemCmd.AddCommand(poemSubmitCmd)
	poemCmd.AddCommand(poemDraftCmd)
	poemCmd.AddCommand(poemReviseCmd)
	poemCmd.AddCommand(poemReflectCmd)
	poemCmd.AddCommand(poemShowCmd)
	return poemCmd
}
