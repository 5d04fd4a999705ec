package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/quill/internal/cli"
	"github.com/example/quill/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "quill",
		Short:   "quill - discipline contract enforcement for poets",
		Version: version.String(),
		Long: `quill enforces ten-week poetry discipline contracts: one poem a week
under a rotating constraint, hard deadlines with a 24-hour recovery window,
escalating minimums after misses, and a public release every month.`,
	}

	cli.RegisterGlobalFlags(rootCmd)

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.ProfileCmd())
	rootCmd.AddCommand(cli.ContractCmd())
	rootCmd.AddCommand(cli.PoemCmd())
	rootCmd.AddCommand(cli.ComplianceCmd())
	rootCmd.AddCommand(cli.ReleaseCmd())
	rootCmd.AddCommand(cli.PatternsCmd())
	rootCmd.AddCommand(cli.NotifyCmd())
	rootCmd.AddCommand(cli.StatusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
