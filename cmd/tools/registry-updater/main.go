// cmd/tools/registry-updater/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"recruit-screening/pkg/registry"
)

const defaultPath = "configs/activity-registry.json"

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "list":
		err = runList(os.Args[2:])
	case "add":
		err = runAdd(os.Args[2:])
	case "update":
		err = runUpdate(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	case "check":
		err = runCheck(os.Args[2:])
	case "help", "-h", "--help":
		help()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		help()
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	path := fs.String("path", defaultPath, "Path to registry file")
	category := fs.String("category", "", "Only list this category")
	fs.Parse(args)

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TASK TYPE\tCATEGORY\tSTATUS\tTIMEOUT\tRETRIES")
	for _, a := range reg.Activities {
		if *category != "" && a.Category != *category {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", a.TaskType, a.Category, a.ImplementationStatus, a.Timeout, a.Retries)
	}
	return w.Flush()
}

func runAdd(args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	path := fs.String("path", defaultPath, "Path to registry file")
	id := fs.String("id", "", "Activity ID (e.g., screening.score-application)")
	displayName := fs.String("displayName", "", "Display Name (e.g., Score Application)")
	description := fs.String("description", "", "Description")
	category := fs.String("category", "", "Category (screening, applications, reporting)")
	taskType := fs.String("taskType", "", "Zeebe Task Type (e.g., score-application)")
	version := fs.String("version", "1.0.0", "Version")
	status := fs.String("status", registry.StatusPlanned, "Implementation Status (planned, in-progress, completed, verified)")
	schemaFile := fs.String("schema", "", "JSON Schema file for the job variables")
	timeout := fs.String("timeout", "10s", "Job timeout")
	retries := fs.Int("retries", 3, "Job retries")
	fs.Parse(args)

	if *id == "" || *displayName == "" || *category == "" || *taskType == "" {
		fs.Usage()
		return fmt.Errorf("id, displayName, category, and taskType are required for add")
	}

	reg, err := registry.LoadRegistry(*path)
	if os.IsNotExist(err) {
		reg = registry.New(&registry.ActivityRegistry{Version: "1.0.0"})
	} else if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	activity := registry.Activity{
		ID:                   *id,
		DisplayName:          *displayName,
		Description:          *description,
		Category:             *category,
		Version:              *version,
		TaskType:             *taskType,
		ImplementationStatus: *status,
		ErrorCodes:           []string{},
		Timeout:              *timeout,
		Retries:              *retries,
		Tags:                 []string{},
	}
	if *schemaFile != "" {
		schema, err := readJSON(*schemaFile)
		if err != nil {
			return err
		}
		activity.InputSchema = schema
	}

	reg.Activities = append(reg.Activities, activity)
	if err := reg.Validate(); err != nil {
		return err
	}
	if err := reg.Save(*path); err != nil {
		return err
	}
	fmt.Printf("Added activity: %s\n", *id)
	return nil
}

func runUpdate(args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	path := fs.String("path", defaultPath, "Path to registry file")
	taskType := fs.String("task", "", "Task type of the activity to update")
	field := fs.String("field", "", "Field to update (status, version, timeout, retries, schema, ...)")
	value := fs.String("value", "", "New value for the field; a file path for schema")
	fs.Parse(args)

	if *taskType == "" || *field == "" || *value == "" {
		fs.Usage()
		return fmt.Errorf("task, field, and value are required for update")
	}

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	a, ok := reg.Find(*taskType)
	if !ok {
		return fmt.Errorf("activity with task type %s not found", *taskType)
	}

	switch *field {
	case "status":
		a.ImplementationStatus = *value
	case "version":
		a.Version = *value
	case "displayName":
		a.DisplayName = *value
	case "description":
		a.Description = *value
	case "category":
		a.Category = *value
	case "timeout":
		a.Timeout = *value
	case "retries":
		n, err := strconv.Atoi(*value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		a.Retries = n
	case "errorCodes":
		a.ErrorCodes = splitList(*value)
	case "tags":
		a.Tags = splitList(*value)
	case "schema":
		schema, err := readJSON(*value)
		if err != nil {
			return err
		}
		a.InputSchema = schema
	default:
		return fmt.Errorf("unknown field: %s", *field)
	}

	if err := reg.Validate(); err != nil {
		return err
	}
	if err := reg.Save(*path); err != nil {
		return err
	}
	fmt.Printf("Updated activity %s, field %s\n", *taskType, *field)
	return nil
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	path := fs.String("path", defaultPath, "Path to registry file")
	fs.Parse(args)

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("registry validation failed: %w", err)
	}
	fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))
	return nil
}

// runCheck validates a sample job payload the way the worker manager would.
func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	path := fs.String("path", defaultPath, "Path to registry file")
	taskType := fs.String("task", "", "Task type to check against")
	file := fs.String("file", "", "JSON file with job variables")
	fs.Parse(args)

	if *taskType == "" || *file == "" {
		fs.Usage()
		return fmt.Errorf("task and file are required for check")
	}

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if _, ok := reg.Find(*taskType); !ok {
		return fmt.Errorf("activity with task type %s not found", *taskType)
	}
	variables, err := os.ReadFile(*file)
	if err != nil {
		return err
	}
	if err := reg.ValidateInput(*taskType, variables); err != nil {
		return err
	}
	fmt.Printf("Input is valid for %s\n", *taskType)
	return nil
}

func readJSON(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%s is not valid JSON", path)
	}
	return json.RawMessage(data), nil
}

func splitList(value string) []string {
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func help() {
	fmt.Println(`
Usage: registry-updater <command> [flags]

Commands:
  list      List the activities in the registry
  add       Add a new activity to the registry
  update    Update an existing activity's field
  validate  Validate the registry file and its input schemas
  check     Validate a job payload against an activity's input schema
  help      Show this help message

Examples:
  registry-updater list -category screening
  registry-updater add -id reporting.export-shortlist -displayName "Export Shortlist" -category reporting -taskType export-shortlist -schema schema.json
  registry-updater update -task bulk-update-status -field status -value verified
  registry-updater validate -path configs/activity-registry.json
  registry-updater check -task bulk-update-status -file payload.json

Every command accepts -path (default configs/activity-registry.json).`)
}
