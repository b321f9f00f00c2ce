package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voicejournal/promptlab/internal/validation"
)

func newValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file...>",
		Short: "Check dataset, result and prompt files against their schemas",
		Long: `Check dataset, result and prompt files against their JSON Schemas.

The kind of each file is detected from its extension and top-level keys.
Every problem is listed; the command fails if any file is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: validateE,
	}
}

func validateE(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	invalid := 0
	for _, path := range args {
		kind, errs, err := validation.ValidateFile(path)
		if err != nil {
			return err
		}
		if len(errs) == 0 {
			fmt.Fprintf(out, "✓ %s (%s)\n", path, kind)
			continue
		}
		invalid++
		fmt.Fprintf(out, "✗ %s (%s)\n", path, kind)
		for _, e := range errs {
			fmt.Fprintf(out, "    %s\n", e)
		}
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d file(s) failed validation", invalid, len(args))
	}
	return nil
}
