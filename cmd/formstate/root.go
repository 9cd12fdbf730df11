package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/orchestrator"
	"github.com/goliatone/go-formstate/pkg/render"
)

var rootCmd = &cobra.Command{
	Use:           "formstate",
	Short:         "Fill, render and validate declarative forms",
	Long:          `formstate mounts a form tree from a form document or an OpenAPI operation and drives it in the terminal, renders it as HTML, or checks a set of values against it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flags.String("forms", "", "Form document (YAML or JSON)")
	flags.String("form", "", "Form id inside the form document")
	flags.String("openapi", "", "OpenAPI document")
	flags.String("operation", "", "OperationId inside the OpenAPI document")
	flags.String("preset", "", "Preset document patching the tree before mounting")
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	raw, _ := cmd.Flags().GetString("log-level")
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", raw)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// sourceRequest maps the shared source flags onto an orchestrator request.
func sourceRequest(cmd *cobra.Command) (orchestrator.Request, error) {
	flags := cmd.Flags()
	formsPath, _ := flags.GetString("forms")
	formID, _ := flags.GetString("form")
	openapiPath, _ := flags.GetString("openapi")
	operation, _ := flags.GetString("operation")

	switch {
	case openapiPath != "" && formsPath != "":
		return orchestrator.Request{}, fmt.Errorf("--forms and --openapi are mutually exclusive")
	case openapiPath != "":
		return orchestrator.Request{OpenAPIPath: openapiPath, OperationID: operation}, nil
	case formsPath != "":
		return orchestrator.Request{FormsPath: formsPath, FormID: formID}, nil
	default:
		return orchestrator.Request{}, fmt.Errorf("one of --forms or --openapi is required")
	}
}

// baseOptions returns the orchestrator options shared by every command.
func baseOptions(cmd *cobra.Command, logger *slog.Logger) ([]orchestrator.Option, error) {
	opts := []orchestrator.Option{orchestrator.WithLogger(logger)}
	presetPath, _ := cmd.Flags().GetString("preset")
	if presetPath == "" {
		return opts, nil
	}
	data, err := os.ReadFile(presetPath)
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}
	preset, err := orchestrator.NewPresetTransformer(data)
	if err != nil {
		return nil, err
	}
	return append(opts, orchestrator.WithTransformer(preset)), nil
}

// readValues loads a YAML or JSON mapping of field values.
func readValues(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse values %s: %w", path, err)
	}
	return values, nil
}

// readErrors loads a server error payload ({path: [messages]}).
func readErrors(path string) (map[string][]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read errors: %w", err)
	}
	var payload map[string][]string
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse errors %s: %w", path, err)
	}
	return payload, nil
}

// renderOptions collects the render flags shared by fill and render.
func renderOptions(cmd *cobra.Command) (render.RenderOptions, error) {
	flags := cmd.Flags()
	valuesPath, _ := flags.GetString("values")
	errorsPath, _ := flags.GetString("errors")

	values, err := readValues(valuesPath)
	if err != nil {
		return render.RenderOptions{}, err
	}
	payload, err := readErrors(errorsPath)
	if err != nil {
		return render.RenderOptions{}, err
	}
	return render.RenderOptions{Values: values, Errors: payload}, nil
}
