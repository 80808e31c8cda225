package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/moamenhredeen/fastapi-codegen/internal/codegen"
)

// Format represents the output format type
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ExportResult exports a generation report to the specified format
func ExportResult(result codegen.Result, format Format, filePath string) error {
	w, closer, err := getWriter(filePath)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	return writeResult(w, result, format)
}

func writeResult(w io.Writer, result codegen.Result, format Format) error {
	switch format {
	case FormatJSON:
		return exportJSON(w, result)
	case FormatCSV:
		return exportCSV(w, result)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// getWriter returns an io.Writer for output (stdout or file)
func getWriter(filePath string) (io.Writer, io.Closer, error) {
	if filePath == "" {
		return os.Stdout, nil, nil
	}

	f, err := os.Create(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f, nil
}

// exportJSON exports the report as JSON
func exportJSON(w io.Writer, result codegen.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// exportCSV exports one row per router module
func exportCSV(w io.Writer, result codegen.Result) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"document", "timestamp", "group", "module", "operations", "file",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, g := range result.Groups {
		row := []string{
			result.DocumentName,
			result.Timestamp.UTC().Format(time.RFC3339),
			g.Name,
			g.Module,
			strconv.Itoa(g.Operations),
			filepath.Join(result.OutputDir, codegen.ControllersDir, g.Module+codegen.FileExtension),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ParseFormat parses a string into a Format, returning error if invalid
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("invalid format '%s': must be 'json' or 'csv'", s)
	}
}
