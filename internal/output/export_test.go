package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moamenhredeen/fastapi-codegen/internal/codegen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() codegen.Result {
	return codegen.Result{
		DocumentName: "api.yaml",
		OutputDir:    "out",
		Timestamp:    time.Date(2024, 3, 9, 16, 4, 5, 0, time.UTC),
		Operations:   3,
		Groups: []codegen.GroupSummary{
			{Name: "users", Module: "users", Operations: 2},
			{Name: "", Module: "_root", Operations: 1},
		},
		Files: []string{"out/routers/__init__.py", "out/routers/users.py", "out/routers/_root.py", "out/main.py"},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("xml")
	assert.EqualError(t, err, "invalid format 'xml': must be 'json' or 'csv'")
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, sampleResult(), FormatJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "api.yaml", decoded["document"])
	assert.Equal(t, "2024-03-09T16:04:05Z", decoded["timestamp"])
	assert.Equal(t, float64(3), decoded["operations"])
	assert.Len(t, decoded["groups"], 2)
	assert.Len(t, decoded["files"], 4)
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, sampleResult(), FormatCSV))

	want := "document,timestamp,group,module,operations,file\n" +
		"api.yaml,2024-03-09T16:04:05Z,users,users,2," + filepath.Join("out", "routers", "users.py") + "\n" +
		"api.yaml,2024-03-09T16:04:05Z,,_root,1," + filepath.Join("out", "routers", "_root.py") + "\n"
	assert.Equal(t, want, buf.String())
}

func TestExportUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := writeResult(&buf, sampleResult(), Format("yaml"))
	assert.EqualError(t, err, "unsupported format: yaml")
}

func TestExportResultToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, ExportResult(sampleResult(), FormatJSON, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"module": "_root"`)
}

func TestExportResultBadPath(t *testing.T) {
	err := ExportResult(sampleResult(), FormatJSON, filepath.Join(t.TempDir(), "missing", "report.json"))
	assert.ErrorContains(t, err, "failed to create output file")
}
