package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vvka-141/webshot/internal/viewport"
	"github.com/vvka-141/webshot/pkg/webshot"
)

func matchPrefix(values []string, toComplete string) []string {
	var matches []string
	for _, v := range values {
		if strings.HasPrefix(v, toComplete) {
			matches = append(matches, v)
		}
	}
	return matches
}

// completeFormats provides shell completion for --format.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	names := make([]string, len(webshot.Formats))
	for i, f := range webshot.Formats {
		names[i] = string(f)
	}
	return matchPrefix(names, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeBackoffStrategies provides shell completion for --retry-backoff.
func completeBackoffStrategies(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	names := make([]string, len(webshot.BackoffStrategies))
	for i, s := range webshot.BackoffStrategies {
		names[i] = string(s)
	}
	return matchPrefix(names, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeWaitStrategies provides shell completion for --wait-until.
func completeWaitStrategies(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	names := make([]string, len(webshot.WaitStrategies))
	for i, s := range webshot.WaitStrategies {
		names[i] = string(s)
	}
	return matchPrefix(names, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeViewports offers the named presets; WIDTHxHEIGHT is typed freely.
func completeViewports(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return matchPrefix(viewport.PresetNames(), toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeConfigFiles restricts --config completion to YAML files.
func completeConfigFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
}
