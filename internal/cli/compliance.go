package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/quill/internal/wire"
)

var complianceCmd = &cobra.Command{
	Use:   "compliance",
	Short: "Inspect and sweep weekly compliance",
}

var complianceShowCmd = &cobra.Command{
	Use:   "show [contract-id]",
	Short: "Show the week-by-week compliance log",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()

		contractID := ""
		if len(args) == 1 {
			contractID = args[0]
		} else {
			active, err := wire.ContractService().GetActiveContract(ctx, currentProfileID())
			if err != nil {
				return err
			}
			if active == nil {
				fmt.Println("No active contract.")
				return nil
			}
			contractID = active.ID
		}

		entries, err := wire.ComplianceService().GetComplianceLog(ctx, contractID)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WEEK\tSTATUS\tDEADLINE\tON TIME\tCONSTRAINT\tREVISED\tREFLECTED\tPENALTY")
		for _, e := range entries {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				e.WeekNumber,
				statusColor(e.Status),
				e.DeadlineAt.Format("Mon Jan 2 15:04"),
				mark(e.OnTime),
				mark(e.ConstraintFollowed),
				mark(e.RevisionDone),
				mark(e.ReflectionDone),
				mark(e.PenaltyTriggered))
		}
		w.Flush()
		return nil
	},
}

var complianceSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Evaluate deadlines and roll weeks forward",
	Long: `Evaluate every active contract against the clock: open recovery windows
for weeks past their deadline and mark weeks missed once the window closes.
Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		report, err := wire.ComplianceService().Sweep(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Checked %d contract(s): %d recovery window(s) opened, %d week(s) missed\n",
			report.ContractsChecked, report.RecoveriesOpened, report.WeeksMissed)
		for _, c := range report.Changes {
			fmt.Printf("  %s week %d → %s\n", c.ContractID, c.WeekNumber, statusColor(c.NewStatus))
		}
		return nil
	},
}

func mark(b bool) string {
	if b {
		return "✓"
	}
	return "-"
}

// ComplianceCmd returns the compliance command group.
func ComplianceCmd() *cobra.Command {
	complianceCmd.AddCommand(complianceShowCmd)
	complianceCmd.AddCommand(complianceSweepCmd)
	return complianceCmd
}
