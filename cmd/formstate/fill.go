package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate/pkg/orchestrator"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
)

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill a form interactively in the terminal",
	Long:  `Prompts for every field, validates on blur, and re-prompts the first invalid field until the form is accepted. The accepted values are written to stdout.`,
	RunE:  runFill,
}

func init() {
	flags := fillCmd.Flags()
	flags.String("values", "", "YAML/JSON file with prefill values")
	flags.String("errors", "", "YAML/JSON file with a server error payload")
	flags.String("format", string(tui.OutputFormatJSON), "Output format (json, form, pretty)")
	flags.Int("max-attempts", 5, "Submission attempts before giving up")
	rootCmd.AddCommand(fillCmd)
}

func runFill(cmd *cobra.Command, _ []string) error {
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
	renderOpts, err := renderOptions(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	format, _ := flags.GetString("format")
	attempts, _ := flags.GetInt("max-attempts")

	registry := render.NewRegistry()
	registry.MustRegister(tui.New(
		tui.WithOutputFormat(tui.OutputFormat(format)),
		tui.WithMaxAttempts(attempts),
		tui.WithLogger(logger),
	))
	opts = append(opts, orchestrator.WithRegistry(registry), orchestrator.WithDefaultRenderer("tui"))

	req.RenderOptions = renderOpts
	out, err := orchestrator.New(opts...).Generate(cmd.Context(), req)
	if errors.Is(err, tui.ErrAborted) {
		return fmt.Errorf("aborted")
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
