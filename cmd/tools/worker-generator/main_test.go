package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"recruit-screening/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoName(t *testing.T) {
	assert.Equal(t, "JobID", goName("jobId"))
	assert.Equal(t, "ApplicationIDs", goName("applicationIds"))
	assert.Equal(t, "SortBy", goName("sortBy"))
	assert.Equal(t, "ComputeJobStatistics", goName("compute-job-statistics"))
}

func TestSchemaFields(t *testing.T) {
	fields, err := schemaFields(json.RawMessage(`{
		"type": "object",
		"required": ["status"],
		"properties": {
			"status": {"type": "string", "description": "Target status"},
			"applicationIds": {"type": "array", "items": {"type": "string"}},
			"limit": {"type": ["integer", "null"]},
			"filters": {"type": ["null", "object"]},
			"anything": {}
		}
	}`))
	require.NoError(t, err)

	require.Len(t, fields, 5)
	assert.Equal(t, Field{Name: "Anything", Type: "interface{}", JSON: "anything,omitempty"}, fields[0])
	assert.Equal(t, Field{Name: "ApplicationIDs", Type: "[]string", JSON: "applicationIds,omitempty"}, fields[1])
	assert.Equal(t, "map[string]interface{}", fields[2].Type)
	assert.Equal(t, "int", fields[3].Type)
	assert.Equal(t, Field{Name: "Status", Type: "string", JSON: "status", Required: true, Comment: "Target status"}, fields[4])

	fields, err = schemaFields(nil)
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestGenerate_FromCatalog(t *testing.T) {
	reg, err := registry.LoadRegistry("../../../configs/activity-registry.json")
	require.NoError(t, err)
	activity, ok := reg.Find("bulk-update-status")
	require.True(t, ok)

	data, err := newWorkerData(activity)
	require.NoError(t, err)
	assert.Equal(t, "bulkupdatestatus", data.PackageName)

	out := t.TempDir()
	dir, err := generate(data, out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "applications", "bulk-update-status"), dir)

	for _, name := range []string{"config.go", "models.go", "handler.go", "handler_test.go"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	models, err := os.ReadFile(filepath.Join(dir, "models.go"))
	require.NoError(t, err)
	assert.Contains(t, string(models), "package bulkupdatestatus")
	assert.Contains(t, string(models), "ApplicationIDs []string `json:\"applicationIds\"`")

	handler, err := os.ReadFile(filepath.Join(dir, "handler.go"))
	require.NoError(t, err)
	assert.Contains(t, string(handler), `TaskType = "bulk-update-status"`)

	_, err = generate(data, out)
	assert.ErrorContains(t, err, "already exists")
}
