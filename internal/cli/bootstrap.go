// Package cli provides CLI commands for the quill application.
package cli

import (
	gocontext "context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/quill/internal/ctxutil"
	"github.com/example/quill/internal/wire"
)

// NewContext creates a context.Background() with the acting profile embedded
// so audit log entries carry the actor. CLI commands should use this instead
// of context.Background() directly.
func NewContext() gocontext.Context {
	ctx := gocontext.Background()
	if profile := currentProfileID(); profile != "" {
		return ctxutil.WithActorID(ctx, profile)
	}
	return ctx
}

// currentProfileID resolves the acting profile: the --profile flag when set,
// otherwise the configured default.
func currentProfileID() string {
	if profileFlag != "" {
		return profileFlag
	}
	return wire.Config().DefaultProfile
}

// profileFlag holds the value of the persistent --profile flag.
var profileFlag string

// RegisterGlobalFlags attaches the persistent flags shared by every command.
func RegisterGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&profileFlag, "profile", "", "Acting profile ID (default from config)")
}

// readContent reads poem text from a file argument, or stdin when the
// argument is "-" or absent.
func readContent(args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}
