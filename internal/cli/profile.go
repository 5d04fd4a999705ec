package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/quill/internal/ports/primary"
	"github.com/example/quill/internal/wire"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage writer profiles",
}

var profileCreateCmd = &cobra.Command{
	Use:   "create [profile-id]",
	Short: "Create a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		name, _ := cmd.Flags().GetString("name")
		tz, _ := cmd.Flags().GetString("timezone")

		profile, err := wire.ProfileService().CreateProfile(ctx, primary.CreateProfileRequest{
			ID:       args[0],
			Name:     name,
			Timezone: tz,
		})
		if err != nil {
			return err
		}
		fmt.Printf("✓ Profile %s created (%s)\n", profile.ID, profile.Timezone)
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show [profile-id]",
	Short: "Show a profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		id := currentProfileID()
		if len(args) == 1 {
			id = args[0]
		}

		profile, err := wire.ProfileService().GetProfile(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("\nProfile:  %s\n", profile.ID)
		if profile.Name != "" {
			fmt.Printf("Name:     %s\n", profile.Name)
		}
		fmt.Printf("Timezone: %s\n", profile.Timezone)
		if profile.DeclaredPlatform != "" {
			fmt.Printf("Platform: %s (locked)\n", profile.DeclaredPlatform)
		}
		fmt.Println()
		return nil
	},
}

// ProfileCmd returns the profile command group.
func ProfileCmd() *cobra.Command {
	profileCreateCmd.Flags().StringP("name", "n", "", "Display name")
	profileCreateCmd.Flags().StringP("timezone", "z", "", "IANA timezone (default: UTC)")

	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileShowCmd)
	return profileCmd
}
