package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate/pkg/orchestrator"
	"github.com/goliatone/go-formstate/pkg/render"
)

var validateCmd = &cobra.Command{
	Use:   "validate [values-file]",
	Short: "Check a values document against a form",
	Long:  `Mounts the form, applies the values and submits it. Field errors are listed in discovery order and the command fails when the submission is rejected.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	req, err := sourceRequest(cmd)
	if err != nil {
		return err
	}
	opts, err := baseOptions(cmd, logger)
	if err != nil {
		return err
	}

	var values map[string]any
	if len(args) > 0 {
		if values, err = readValues(args[0]); err != nil {
			return err
		}
	}

	f, _, err := orchestrator.New(opts...).Build(cmd.Context(), req)
	if err != nil {
		return err
	}
	render.RenderOptions{Values: values}.Apply(f)

	result, err := f.Submit()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if result.Accepted() {
		fmt.Fprintln(out, "Form is valid.")
		return nil
	}
	for _, name := range f.Order() {
		if fieldErr := result.Errors[name]; fieldErr != nil {
			fmt.Fprintf(out, "%s: %s (%s)\n", name, fieldErr.Error(), fieldErr.Code)
		}
	}
	return fmt.Errorf("validation failed: %d field(s) invalid", len(result.Errors))
}
