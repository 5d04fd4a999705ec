package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/quill/internal/ports/primary"
	"github.com/example/quill/internal/wire"
)

var contractCmd = &cobra.Command{
	Use:   "contract",
	Short: "Manage discipline contracts",
	Long:  "Start, inspect, and close ten-week discipline contracts",
}

var contractInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Start a new ten-week contract",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		tz, _ := cmd.Flags().GetString("timezone")
		startStr, _ := cmd.Flags().GetString("start")

		req := primary.CreateContractRequest{
			ProfileID: currentProfileID(),
			Timezone:  tz,
		}
		if startStr != "" {
			start, err := time.Parse("2006-01-02", startStr)
			if err != nil {
				return fmt.Errorf("invalid start date %q (want YYYY-MM-DD): %w", startStr, err)
			}
			req.StartDate = start
		}

		resp, err := wire.ContractService().CreateContract(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to create contract: %w", err)
		}

		c := resp.Contract
		fmt.Printf("✓ Contract %s started\n", color.New(color.FgHiGreen).Sprint(resp.ContractID))
		fmt.Printf("  %s → %s (%s)\n",
			c.StartDate.Format("2006-01-02"), c.EndDate.Format("2006-01-02"), c.Timezone)
		fmt.Println("  Weekly deadline: day 6 of each week, 20:00 local")
		fmt.Println()
		printCycles(c.Cycles)
		return nil
	},
}

var contractShowCmd = &cobra.Command{
	Use:   "show [contract-id]",
	Short: "Show contract details",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()

		var c *primary.Contract
		var err error
		if len(args) == 1 {
			c, err = wire.ContractService().GetContract(ctx, args[0])
		} else {
			c, err = wire.ContractService().GetActiveContract(ctx, currentProfileID())
		}
		if err != nil {
			return err
		}
		if c == nil {
			fmt.Println("No active contract. Start one with: quill contract init")
			return nil
		}

		fmt.Printf("\nContract: %s [%s]\n", c.ID, statusColor(c.Status))
		fmt.Printf("Period:   %s → %s (%s)\n",
			c.StartDate.Format("2006-01-02"), c.EndDate.Format("2006-01-02"), c.Timezone)
		fmt.Printf("Poems:    %d submitted, %d missed", c.PoemsSubmitted, c.PoemsMissed)
		if len(c.MissedWeeks) > 0 {
			fmt.Printf(" (weeks %v)", c.MissedWeeks)
		}
		fmt.Println()
		fmt.Printf("Releases: %d published, %d missed\n", c.MonthlyReleases, c.MonthlyReleasesMissed)
		if !c.LastSubmission.IsZero() {
			fmt.Printf("Last submission: %s\n", c.LastSubmission.Format("2006-01-02 15:04"))
		}
		fmt.Println()
		printCycles(c.Cycles)
		return nil
	},
}

var contractListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contracts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		status, _ := cmd.Flags().GetString("status")

		contracts, err := wire.ContractService().ListContracts(ctx, primary.ContractFilters{
			ProfileID: currentProfileID(),
			Status:    status,
		})
		if err != nil {
			return fmt.Errorf("failed to list contracts: %w", err)
		}
		if len(contracts) == 0 {
			fmt.Println("No contracts found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tSTART\tEND\tSUBMITTED\tMISSED")
		fmt.Fprintln(w, "--\t------\t-----\t---\t---------\t------")
		for _, c := range contracts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
				c.ID, c.Status,
				c.StartDate.Format("2006-01-02"), c.EndDate.Format("2006-01-02"),
				c.PoemsSubmitted, c.PoemsMissed)
		}
		w.Flush()
		return nil
	},
}

var contractAbandonCmd = &cobra.Command{
	Use:   "abandon [contract-id]",
	Short: "Abandon an active contract (one-way)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		if err := wire.ContractService().AbandonContract(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Contract %s abandoned.\n", args[0])
		return nil
	},
}

var contractFinalizeCmd = &cobra.Command{
	Use:   "finalize",
	Short: "Finalize contracts whose end date has passed",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		results, err := wire.ContractService().FinalizeExpired(ctx)
		if err != nil {
			return fmt.Errorf("failed to finalize: %w", err)
		}
		if len(results) == 0 {
			fmt.Println("No expired contracts to finalize.")
			return nil
		}
		for _, r := range results {
			fmt.Printf("%s → %s (%.0f%% submitted, %d on time, %d late)\n",
				r.ContractID, statusColor(r.FinalStatus),
				r.SubmissionRate*100, r.OnTimeCount, r.LateCount)
			if r.ReportPath != "" {
				fmt.Printf("  report: %s\n", r.ReportPath)
			}
		}
		return nil
	},
}

func printCycles(cycles []primary.ConstraintCycle) {
	if len(cycles) == 0 {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WEEK\tCONSTRAINT\tSTATUS")
	for _, cy := range cycles {
		fmt.Fprintf(w, "%d\t%s\t%s\n", cy.WeekNumber, cy.ConstraintType, cy.Status)
	}
	w.Flush()
}

func statusColor(status string) string {
	switch status {
	case "active":
		return color.New(color.FgHiGreen).Sprint(status)
	case "completed":
		return color.New(color.FgHiBlue).Sprint(status)
	case "violated":
		return color.New(color.FgRed).Sprint(status)
	case "abandoned", "missed":
		return color.New(color.FgYellow).Sprint(status)
	default:
		return status
	}
}

// ContractCmd returns the contract command group.
func ContractCmd() *cobra.Command {
	contractInitCmd.Flags().StringP("timezone", "z", "", "IANA timezone for deadlines (default: profile timezone)")
	contractInitCmd.Flags().String("start", "", "Start date YYYY-MM-DD (default: today)")
	contractListCmd.Flags().StringP("status", "s", "", "Filter by status (active, completed, violated, abandoned)")

	contractCmd.AddCommand(contractInitCmd)
	contractCmd.AddCommand(contractShowCmd)
	contractCmd.AddCommand(contractListCmd)
	contractCmd.AddCommand(contractAbandonCmd)
	contractCmd.AddCommand(contractFinalizeCmd)
	return contractCmd
}
