// cmd/tools/worker-generator/main.go
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"recruit-screening/pkg/registry"
)

// WorkerData holds data for templates
type WorkerData struct {
	Name        string
	PackageName string
	TaskType    string
	Category    string
	Description string
	Timeout     string
	Retries     int
	ErrorCodes  []string
	Input       []Field
	Output      []Field
}

// Field is one struct field derived from a schema property.
type Field struct {
	Name     string
	Type     string
	JSON     string
	Required bool
	Comment  string
}

// schemaFields extracts sorted struct fields from a JSON schema object.
func schemaFields(raw json.RawMessage) ([]Field, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var schema struct {
		Properties map[string]map[string]interface{} `json:"properties"`
		Required   []string                          `json:"required"`
	}
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	required := make(map[string]bool, len(schema.Required))
	for _, r := range schema.Required {
		required[r] = true
	}

	fields := make([]Field, 0, len(schema.Properties))
	for prop, details := range schema.Properties {
		f := Field{
			Name:     goName(prop),
			Type:     goType(details),
			JSON:     prop,
			Required: required[prop],
		}
		if d, ok := details["description"].(string); ok {
			f.Comment = d
		}
		if !f.Required {
			f.JSON += ",omitempty"
		}
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].JSON < fields[j].JSON })
	return fields, nil
}

// jsonType returns the first non-null type of a property.
func jsonType(details map[string]interface{}) string {
	switch t := details["type"].(type) {
	case string:
		return t
	case []interface{}:
		for _, v := range t {
			if s, ok := v.(string); ok && s != "null" {
				return s
			}
		}
	}
	return ""
}

// goType maps JSON schema types to Go types
func goType(details map[string]interface{}) string {
	switch jsonType(details) {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		if items, ok := details["items"].(map[string]interface{}); ok {
			if elem := goType(items); elem != "interface{}" {
				return "[]" + elem
			}
		}
		return "[]interface{}"
	default:
		return "interface{}"
	}
}

// goName turns a JSON property or task type into an exported identifier.
func goName(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if r == '-' || r == '_' || r == '.' || r == ' ' {
			upper = true
			continue
		}
		if upper {
			b.WriteString(strings.ToUpper(string(r)))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()
	for _, suffix := range []string{"Id", "Ids"} {
		if strings.HasSuffix(out, suffix) {
			out = strings.TrimSuffix(out, suffix) + strings.ToUpper(suffix[:2]) + suffix[2:]
			break
		}
	}
	return out
}

const configTemplate = `// internal/workers/{{ .Category }}/{{ .TaskType }}/config.go
package {{ .PackageName }}

import "time"

type Config struct {
	Timeout time.Duration
}
`

const modelsTemplate = `// internal/workers/{{ .Category }}/{{ .TaskType }}/models.go
package {{ .PackageName }}

type Input struct {
{{- range .Input }}
{{- if .Comment }}
	// {{ .Comment }}
{{- end }}
	{{ .Name }} {{ .Type }} ` + "`json:\"{{ .JSON }}\"`" + `
{{- end }}
}

type Output struct {
{{- range .Output }}
	{{ .Name }} {{ .Type }} ` + "`json:\"{{ .JSON }}\"`" + `
{{- end }}
}
`

const handlerTemplate = `// internal/workers/{{ .Category }}/{{ .TaskType }}/handler.go
package {{ .PackageName }}

import (
	"context"
	"encoding/json"

	"recruit-screening/internal/common/errors"
	"recruit-screening/internal/common/logger"
	"recruit-screening/internal/common/metrics"
	"recruit-screening/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "{{ .TaskType }}"
)

// Handler runs the {{ .Name }} task.
type Handler struct {
	config       *Config
	obs          *observability.Observability
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		obs:          obs,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, errors.NewValidationError("invalid job variables", err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, span := h.obs.StartSpan(ctx, TaskType)
	defer span.End()

	// Fill in the {{ .Name }} logic; input variables were checked against the registry schema.
	return &Output{}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.obs.RecordJobProcessed(context.Background(), TaskType, "completed")

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.AsStandard(err).Code)).Inc()
	h.obs.RecordJobProcessed(context.Background(), TaskType, "failed")
	h.errorHandler.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
`

const testTemplate = `package {{ .PackageName }}

import (
	"context"
	"testing"
	"time"

	"recruit-screening/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Execute(t *testing.T) {
	h := NewHandler(&Config{Timeout: 5 * time.Second}, nil, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	assert.NotNil(t, output)
}
`

const registrationTemplate = `
	{
		taskType := {{ .PackageName }}.TaskType
		wcfg := config.GetWorkerConfig(cfg, taskType)
		handler := {{ .PackageName }}.NewHandler(&{{ .PackageName }}.Config{
			Timeout: config.GetDuration(wcfg.Timeout),
		}, d.obs, d.log)
		m.Register(taskType, wcfg, handler.Handle)
	}
`

var goTemplates = map[string]string{
	"config.go":       configTemplate,
	"models.go":       modelsTemplate,
	"handler.go":      handlerTemplate,
	"handler_test.go": testTemplate,
}

func newWorkerData(a *registry.Activity) (*WorkerData, error) {
	input, err := schemaFields(a.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("%s input schema: %w", a.ID, err)
	}
	output, err := schemaFields(a.OutputSchema)
	if err != nil {
		return nil, fmt.Errorf("%s output schema: %w", a.ID, err)
	}
	return &WorkerData{
		Name:        a.DisplayName,
		PackageName: strings.ReplaceAll(a.TaskType, "-", ""),
		TaskType:    a.TaskType,
		Category:    strings.ToLower(a.Category),
		Description: a.Description,
		Timeout:     a.Timeout,
		Retries:     a.Retries,
		ErrorCodes:  a.ErrorCodes,
		Input:       input,
		Output:      output,
	}, nil
}

// render executes one template and gofmts the result.
func render(name, tmpl string, data *WorkerData) ([]byte, error) {
	t, err := template.New(name).Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", name, err)
	}
	return src, nil
}

// generate writes the worker package under outputDir and returns its directory.
// Existing files are never overwritten.
func generate(data *WorkerData, outputDir string) (string, error) {
	workerDir := filepath.Join(outputDir, data.Category, data.TaskType)
	if err := os.MkdirAll(workerDir, 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}

	names := make([]string, 0, len(goTemplates))
	for name := range goTemplates {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(workerDir, name)
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%s already exists", path)
		}
		src, err := render(name, goTemplates[name], data)
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(path, src, 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Printf("Generated %s\n", path)
	}
	return workerDir, nil
}

func main() {
	taskType := flag.String("task", "", "Task type from the registry (e.g., compute-job-statistics)")
	outputDir := flag.String("output", "./internal/workers/", "Root directory for generated workers")
	registryPath := flag.String("registry", "configs/activity-registry.json", "Path to the activity registry JSON file")
	flag.Parse()

	if *taskType == "" {
		fmt.Println("Usage: worker-generator -task <taskType> [-output <dir>] [-registry <path>]")
		os.Exit(1)
	}

	reg, err := registry.LoadRegistry(*registryPath)
	if err != nil {
		fmt.Printf("Error loading registry from %s: %v\n", *registryPath, err)
		os.Exit(1)
	}
	activity, ok := reg.Find(*taskType)
	if !ok {
		fmt.Printf("Task type '%s' not found in registry %s\n", *taskType, *registryPath)
		os.Exit(1)
	}

	data, err := newWorkerData(activity)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	workerDir, err := generate(data, *outputDir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	snippet, err := template.New("register").Parse(registrationTemplate)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nWorker scaffold generated at %s\n", workerDir)
	fmt.Printf("\nAdd to registerWorkers in cmd/screening-manager/workers.go:\n")
	snippet.Execute(os.Stdout, data)
	fmt.Printf("\nand a workers.%s entry to configs/config.yaml.\n", data.TaskType)
}
