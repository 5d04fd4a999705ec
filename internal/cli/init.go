package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/quill/internal/config"
	"github.com/example/quill/internal/db"
)

// InitCmd returns the init command.
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the quill database and config",
		Long:  `Initialize the quill database at ~/.quill/quill.db and write the default config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}

			fmt.Printf("Initializing quill database at %s\n", dbPath)
			if err := db.InitSchema(); err != nil {
				return fmt.Errorf("failed to initialize schema: %w", err)
			}
			fmt.Println("✓ Database initialized")

			if err := writeDefaultConfig(); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Println("✓ Config at ~/.quill/config.yaml")
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  quill profile create writer --timezone America/New_York")
			fmt.Println("  quill contract init")
			return nil
		},
	}
}

// writeDefaultConfig creates ~/.quill/config.yaml unless one already exists.
func writeDefaultConfig() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	path := filepath.Join(home, ".quill", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return nil // keep the existing config
	}
	return config.SaveConfig("", config.Default())
}
