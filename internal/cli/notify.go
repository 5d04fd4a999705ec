package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/quill/internal/core/notify"
	"github.com/example/quill/internal/wire"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Show the alerts that apply right now",
	Long: `Compute the current alerts for the active contract: approaching
deadlines, open recovery windows, fresh misses, penalty escalations, and the
monthly release window.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		alerts, err := wire.NotificationService().PendingAlerts(ctx, currentProfileID())
		if err != nil {
			return err
		}
		if len(alerts) == 0 {
			fmt.Println("Nothing pending. Keep writing.")
			return nil
		}

		for _, a := range alerts {
			fmt.Printf("%s %s\n", severityBadge(a.Severity), a.Title)
			fmt.Printf("   %s\n", a.Message)
		}
		return nil
	},
}

func severityBadge(severity string) string {
	switch severity {
	case notify.SeverityCritical:
		return color.New(color.FgRed).Sprintf("[%s]", severity)
	case notify.SeverityHigh:
		return color.New(color.FgHiYellow).Sprintf("[%s]", severity)
	case notify.SeverityWarning:
		return color.New(color.FgYellow).Sprintf("[%s]", severity)
	default:
		return fmt.Sprintf("[%s]", severity)
	}
}

// NotifyCmd returns the notify command.
func NotifyCmd() *cobra.Command {
	return notifyCmd
}
