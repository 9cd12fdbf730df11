package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate/pkg/orchestrator"
	"github.com/goliatone/go-formstate/pkg/render"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a form as HTML",
	Long:  `Mounts the form, applies prefill values and server errors, and writes the HTML markup.`,
	RunE:  runRender,
}

func init() {
	flags := renderCmd.Flags()
	flags.String("values", "", "YAML/JSON file with prefill values")
	flags.String("errors", "", "YAML/JSON file with a server error payload")
	flags.String("action", "", "Form action URL")
	flags.String("method", "post", "Form method")
	flags.String("csrf", "", "CSRF token emitted as a hidden _csrf field")
	flags.StringP("output", "o", "", "Output file (stdout if empty)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
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
	renderOpts.Action, _ = flags.GetString("action")
	renderOpts.Method, _ = flags.GetString("method")
	if token, _ := flags.GetString("csrf"); token != "" {
		renderOpts.Hidden = render.MergeHiddenFields(nil, render.CSRFToken("_csrf", token))
	}
	req.Renderer = "vanilla"
	req.RenderOptions = renderOpts

	out, err := orchestrator.New(opts...).Generate(cmd.Context(), req)
	if err != nil {
		return err
	}

	output, _ := flags.GetString("output")
	if output == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(output, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info("form written", "path", output)
	return nil
}
