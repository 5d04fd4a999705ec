package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/quill/internal/wire"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Review emotional-pattern reports",
	Long:  "List and acknowledge the pattern reports that block submission until reviewed",
}

var patternsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List unacknowledged pattern reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		reports, err := wire.PatternService().ListUnacknowledged(ctx, currentProfileID())
		if err != nil {
			return err
		}
		if len(reports) == 0 {
			fmt.Println("No unacknowledged pattern reports.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPATTERN\tSUMMARY")
		fmt.Fprintln(w, "--\t-------\t-------")
		for _, r := range reports {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.PatternType, r.Summary)
		}
		w.Flush()
		fmt.Println("\nAcknowledge with: quill patterns ack [report-id]")
		return nil
	},
}

var patternsAckCmd = &cobra.Command{
	Use:   "ack [report-id]",
	Short: "Acknowledge a pattern report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		if err := wire.PatternService().Acknowledge(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Report %s acknowledged\n", args[0])
		return nil
	},
}

// PatternsCmd returns the patterns command group.
func PatternsCmd() *cobra.Command {
	patternsCmd.AddCommand(patternsListCmd)
	patternsCmd.AddCommand(patternsAckCmd)
	return patternsCmd
}
