package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/quill/internal/core/release"
	"github.com/example/quill/internal/ports/primary"
	"github.com/example/quill/internal/wire"
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Publish and track monthly public releases",
}

var releasePublishCmd = &cobra.Command{
	Use:   "publish [poem-id]",
	Short: "Publish a poem as the monthly release",
	Long: `Publish a submitted poem as this month's public release. Requires a
recording file and a live public URL on the declared platform. The first
successful publish locks the platform for the profile.

Supported platforms: ` + strings.Join(release.Platforms(), ", "),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		platform, _ := cmd.Flags().GetString("platform")
		url, _ := cmd.Flags().GetString("url")
		recording, _ := cmd.Flags().GetString("recording")

		resp, err := wire.ReleaseService().PublishRelease(ctx, primary.PublishRequest{
			PoemID:        args[0],
			Platform:      platform,
			PublicURL:     url,
			RecordingPath: recording,
		})
		if err != nil {
			return err
		}
		if !resp.Success {
			fmt.Printf("%s %s\n", color.New(color.FgRed).Sprint("✗"), resp.Message)
			return fmt.Errorf("publish rejected (%s)", resp.ReasonCode)
		}

		fmt.Printf("✓ %s\n", resp.Message)
		fmt.Printf("  published at %s, URL verified\n", resp.PublishedAt.Format("2006-01-02 15:04"))
		return nil
	},
}

var releaseStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where this month's release stands",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		status, err := wire.ReleaseService().ReleaseStatus(ctx, currentProfileID())
		if err != nil {
			return err
		}

		if status.LastPublished.IsZero() {
			fmt.Println("No releases published yet.")
		} else {
			fmt.Printf("Last release: %s\n", status.LastPublished.Format("2006-01-02"))
		}
		if status.LockedPlatform != "" {
			fmt.Printf("Platform:     %s (locked)\n", status.LockedPlatform)
		}
		fmt.Printf("Published:    %d  Missed: %d\n", status.ReleaseCount, status.MissedReleases)
		if status.DueThisMonth {
			fmt.Println(color.New(color.FgYellow).Sprintf(
				"A release is due: the month ends in %d day(s).", status.DaysRemaining))
		} else {
			fmt.Printf("%d day(s) left in the month.\n", status.DaysRemaining)
		}
		return nil
	},
}

// ReleaseCmd returns the release command group.
func ReleaseCmd() *cobra.Command {
	releasePublishCmd.Flags().StringP("platform", "p", "", "Publishing platform")
	releasePublishCmd.Flags().StringP("url", "u", "", "Public URL of the release")
	releasePublishCmd.Flags().StringP("recording", "r", "", "Path to the recording file")

	releaseCmd.AddCommand(releasePublishCmd)
	releaseCmd.AddCommand(releaseStatusCmd)
	return releaseCmd
}
