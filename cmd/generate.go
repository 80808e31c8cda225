/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/moamenhredeen/fastapi-codegen/internal/codegen"
	"github.com/moamenhredeen/fastapi-codegen/internal/generator"
	"github.com/moamenhredeen/fastapi-codegen/internal/output"
	"github.com/moamenhredeen/fastapi-codegen/internal/parser"
	"github.com/moamenhredeen/fastapi-codegen/internal/render"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a FastAPI application from an OpenAPI document",
	Long: `Generate router modules, a main module and pydantic models from an
OpenAPI 3 document.

Operations are grouped by the first segment of their path; each group
becomes routers/<group>.py. Existing files in the output directory are
overwritten.

Examples:
  # Generate into ./app
  fastapi-codegen generate -i api.yaml -o app

  # Use custom templates and skip the models module
  fastapi-codegen generate -i api.yaml -o app -t templates --no-models

  # Write a JSON report of the run
  fastapi-codegen generate -i api.yaml -o app --report json --report-file report.json`,
	Args: cobra.NoArgs,
	Run:  runGenerate,
}

// generateConfig is the resolved configuration of one run
type generateConfig struct {
	Input       string
	Output      string
	TemplateDir string
	ModelFile   string
	NoModels    bool
	Aliases     map[string]string
	Report      string
	ReportFile  string
}

func loadGenerateConfig() (generateConfig, error) {
	cfg := generateConfig{
		Input:       viper.GetString("input"),
		Output:      viper.GetString("output"),
		TemplateDir: viper.GetString("template-dir"),
		ModelFile:   viper.GetString("model-file"),
		NoModels:    viper.GetBool("no-models"),
		Aliases:     viper.GetStringMapString("alias"),
		Report:      viper.GetString("report"),
		ReportFile:  viper.GetString("report-file"),
	}
	if cfg.Input == "" {
		return cfg, errors.New("an input document is required (--input)")
	}
	if cfg.Output == "" {
		return cfg, errors.New("an output directory is required (--output)")
	}
	if cfg.ModelFile == "" {
		cfg.ModelFile = codegen.DefaultModelFile
	}
	if len(cfg.Aliases) == 0 {
		cfg.Aliases = generator.DefaultAliases
	}
	return cfg, nil
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runGenerate(cmd *cobra.Command, args []string) {
	cfg, err := loadGenerateConfig()
	if err != nil {
		fail(err)
	}

	var format output.Format
	if cfg.Report != "" {
		format, err = output.ParseFormat(cfg.Report)
		if err != nil {
			fail(err)
		}
	}

	text, err := os.ReadFile(cfg.Input)
	if err != nil {
		fail(fmt.Errorf("failed to read input document: %w", err))
	}

	var s *spinner.Spinner
	if isTTY {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Suffix = fmt.Sprintf(" Generating from %s...", cfg.Input)
		s.Start()
	}

	onEvent := func(event codegen.Event) {
		switch event.Type {
		case codegen.EventParsed:
			if s != nil {
				s.Suffix = fmt.Sprintf(" Parsed %d operations", event.Operations)
			}
		case codegen.EventGroupRendered:
			if s != nil {
				s.Suffix = fmt.Sprintf(" [%d/%d] Rendering %s", event.Index+1, event.Total, event.Group)
			}
		case codegen.EventFileWritten, codegen.EventModelsGenerated:
			if s != nil {
				s.Suffix = " Writing " + event.Path
			} else if verbose {
				fmt.Printf("wrote %s\n", event.Path)
			}
		}
	}

	opts := []codegen.Option{
		codegen.WithLogger(newLogger()),
		codegen.WithEventHandler(onEvent),
		codegen.WithModelFile(cfg.ModelFile),
		codegen.WithAliases(cfg.Aliases),
	}
	if cfg.NoModels {
		opts = append(opts, codegen.WithoutModels())
	}

	result, err := codegen.New(opts...).Generate(codegen.Input{
		DocumentName: filepath.Base(cfg.Input),
		DocumentText: text,
		OutputDir:    cfg.Output,
		TemplateDir:  cfg.TemplateDir,
		Timestamp:    time.Now(),
	})
	if s != nil {
		s.Stop()
	}
	if err != nil {
		fail(err)
	}

	if cfg.Report != "" {
		if err := output.ExportResult(*result, format, cfg.ReportFile); err != nil {
			fail(fmt.Errorf("failed to export report: %w", err))
		}
		// Report on stdout replaces the summary
		if cfg.ReportFile == "" {
			return
		}
		fmt.Printf("Report exported to: %s\n", cfg.ReportFile)
	}

	displayResult(*result)
}

// fail prints err with its category and exits
func fail(err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", red(errorKind(err)), err)
	os.Exit(1)
}

func errorKind(err error) string {
	var (
		parseErr       *parser.SpecParseError
		unsupportedErr *parser.UnsupportedFeatureError
		renderErr      *render.RenderError
		fsErr          *codegen.FilesystemError
	)
	switch {
	case errors.As(err, &parseErr):
		return "Invalid document"
	case errors.As(err, &unsupportedErr):
		return "Unsupported feature"
	case errors.As(err, &renderErr):
		return "Template error"
	case errors.As(err, &fsErr):
		return "Filesystem error"
	default:
		return "Error"
	}
}

func displayResult(result codegen.Result) {
	fmt.Println()
	fmt.Printf("%s\n", white("=== Generation Summary ==="))
	fmt.Printf("Document:   %s\n", result.DocumentName)
	fmt.Printf("Operations: %d\n", result.Operations)
	fmt.Printf("Routers:    %d\n", len(result.Groups))
	fmt.Println()

	for _, g := range result.Groups {
		name := g.Name
		if name == "" {
			name = "/"
		}
		fmt.Printf("%s %-20s %s %d operations\n", green("✓"), name, cyan("→"), g.Operations)
	}

	if verbose {
		fmt.Println()
		fmt.Printf("%s\n", white("Files:"))
		for _, f := range result.Files {
			fmt.Printf("  %s\n", f)
		}
	}
	fmt.Println()
	fmt.Printf("Output written to %s\n", result.OutputDir)
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("input", "i", "", "OpenAPI document to generate from")
	generateCmd.Flags().StringP("output", "o", "", "Output directory")
	generateCmd.Flags().StringP("template-dir", "t", "", "Directory with controller.tmpl and main.tmpl (default: built-in)")
	generateCmd.Flags().String("model-file", codegen.DefaultModelFile, "Models module file name, relative to the output directory")
	generateCmd.Flags().Bool("no-models", false, "Skip generating the models module")
	generateCmd.Flags().StringToString("alias", generator.DefaultAliases, "Model field aliases as json=python pairs")
	generateCmd.Flags().String("report", "", "Report format: json, csv")
	generateCmd.Flags().String("report-file", "", "Write report to file (default: stdout)")

	for _, name := range []string{"input", "output", "template-dir", "model-file", "no-models", "alias", "report", "report-file"} {
		if err := viper.BindPFlag(name, generateCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}
