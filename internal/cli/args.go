package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RequireURL validates that exactly one url argument is provided.
// Returns a helpful error message with usage and examples if missing or too many.
func RequireURL(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <url>

Usage: %s

Example:
  %s https://example.com -o example.png`, cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 1 {
		return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
	}
	return nil
}
