package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/quill/internal/wire"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the contract, week, and release position at a glance",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		profileID := currentProfileID()

		contract, err := wire.ContractService().GetActiveContract(ctx, profileID)
		if err != nil {
			return err
		}
		if contract == nil {
			fmt.Println("No active contract. Start one with: quill contract init")
			return nil
		}

		fmt.Printf("\nContract %s [%s]  %s → %s\n",
			contract.ID, statusColor(contract.Status),
			contract.StartDate.Format("2006-01-02"), contract.EndDate.Format("2006-01-02"))
		fmt.Printf("Poems: %d submitted, %d missed", contract.PoemsSubmitted, contract.PoemsMissed)
		if len(contract.MissedWeeks) > 0 {
			fmt.Printf(" (weeks %v)", contract.MissedWeeks)
		}
		fmt.Println()

		entries, err := wire.ComplianceService().GetComplianceLog(ctx, contract.ID)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.Status == "pending" || e.Status == "in_recovery" {
				fmt.Printf("Week %d [%s] due %s\n",
					e.WeekNumber, statusColor(e.Status), e.DeadlineAt.Format("Mon Jan 2 15:04"))
				break
			}
		}

		release, err := wire.ReleaseService().ReleaseStatus(ctx, profileID)
		if err != nil {
			return err
		}
		if release.DueThisMonth {
			fmt.Printf("Monthly release due: %d day(s) left in the month\n", release.DaysRemaining)
		}

		alerts, err := wire.NotificationService().PendingAlerts(ctx, profileID)
		if err != nil {
			return err
		}
		if len(alerts) > 0 {
			fmt.Printf("\n%d alert(s) pending - see: quill notify\n", len(alerts))
		}
		fmt.Println()
		return nil
	},
}

// StatusCmd returns the status command.
func StatusCmd() *cobra.Command {
	return statusCmd
}
