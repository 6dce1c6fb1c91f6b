// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"recruit-screening/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// Registry wraps a loaded catalog with compiled input schemas.
type Registry struct {
	*ActivityRegistry

	mu      sync.Mutex
	schemas map[string]*gojsonschema.Schema
}

func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a registry document.
func Parse(data []byte) (*Registry, error) {
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}
	return New(&reg), nil
}

func New(reg *ActivityRegistry) *Registry {
	return &Registry{ActivityRegistry: reg, schemas: map[string]*gojsonschema.Schema{}}
}

// Find returns the activity for taskType.
func (r *Registry) Find(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// Missing lists the task types that have no activity.
func (r *Registry) Missing(taskTypes []string) []string {
	var out []string
	for _, tt := range taskTypes {
		if _, ok := r.Find(tt); !ok {
			out = append(out, tt)
		}
	}
	return out
}

// Validate checks required fields, duplicates, statuses and that every input schema compiles.
func (r *Registry) Validate() error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, a := range r.Activities {
		switch {
		case a.ID == "":
			return fmt.Errorf("activity missing required field: id")
		case a.DisplayName == "":
			return fmt.Errorf("activity %s missing required field: displayName", a.ID)
		case a.TaskType == "":
			return fmt.Errorf("activity %s missing required field: taskType", a.ID)
		case a.Category == "":
			return fmt.Errorf("activity %s missing required field: category", a.ID)
		}
		if ids[a.ID] {
			return fmt.Errorf("duplicate activity id: %s", a.ID)
		}
		ids[a.ID] = true
		if taskTypes[a.TaskType] {
			return fmt.Errorf("duplicate task type: %s", a.TaskType)
		}
		taskTypes[a.TaskType] = true

		switch a.ImplementationStatus {
		case StatusPlanned, StatusInProgress, StatusCompleted, StatusVerified:
		default:
			return fmt.Errorf("activity %s has unknown status %q", a.ID, a.ImplementationStatus)
		}
		if a.Timeout != "" {
			if _, err := time.ParseDuration(a.Timeout); err != nil {
				return fmt.Errorf("activity %s timeout: %w", a.ID, err)
			}
		}
		if _, err := r.schema(a); err != nil {
			return err
		}
	}
	return nil
}

// ValidateInput checks job variables against the task type's input schema.
// Task types without an activity or a schema pass.
func (r *Registry) ValidateInput(taskType string, variables []byte) error {
	a, ok := r.Find(taskType)
	if !ok {
		return nil
	}
	schema, err := r.schema(*a)
	if err != nil || schema == nil {
		return err
	}

	if len(strings.TrimSpace(string(variables))) == 0 {
		variables = []byte("{}")
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(variables))
	if err != nil {
		return errors.NewValidationError("job variables are not valid JSON", err.Error())
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return errors.NewValidationError(
		fmt.Sprintf("input does not match %s schema", taskType),
		strings.Join(msgs, "; "),
	)
}

func (r *Registry) schema(a Activity) (*gojsonschema.Schema, error) {
	if len(a.InputSchema) == 0 {
		return nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.schemas[a.TaskType]; ok {
		return s, nil
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(a.InputSchema))
	if err != nil {
		return nil, fmt.Errorf("activity %s input schema: %w", a.ID, err)
	}
	r.schemas[a.TaskType] = s
	return s, nil
}

// Save writes the registry with LastUpdated refreshed.
func (r *Registry) Save(path string) error {
	r.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(r.ActivityRegistry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}

	r.mu.Lock()
	r.schemas = map[string]*gojsonschema.Schema{}
	r.mu.Unlock()
	return nil
}
