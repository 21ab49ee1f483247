package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vvka-141/webshot/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "webshot <url>",
	Short: "Take a screenshot of a web page",
	Long: `webshot opens a URL in headless Chrome and saves a PNG or JPEG screenshot.

Transient failures (DNS, refused connections, timeouts) can be retried with
--retry. Defaults can be kept in a webshot.yaml next to where you run it.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or option values
  11 - Network error
  12 - Page load timed out
  13 - Screenshot could not be taken or saved`,
	Example: `  # Full-page PNG with a generated file name
  webshot https://example.com

  # Viewport-only JPEG at phone size
  webshot https://example.com --no-full-page --viewport mobile -f jpeg -q 70

  # Retry flaky pages up to 5 times with linear backoff
  webshot https://example.com --retry --retry-attempts 5 --retry-backoff linear`,
	Args:          RequireURL,
	RunE:          runCapture,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and prints any failure to stderr.
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, tui.ErrorPrefix(), err.Error())
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for webshot")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
