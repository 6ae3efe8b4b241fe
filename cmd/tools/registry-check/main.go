// cmd/tools/registry-check/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"idea-scoring/internal/common/validation"
	"idea-scoring/pkg/registry"
)

func main() {
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	checkCmd := flag.NewFlagSet("check", flag.ExitOnError)

	validatePath := validateCmd.String("path", "", "Registry file (defaults to the embedded registry)")
	checkPath := checkCmd.String("path", "", "Registry file (defaults to the embedded registry)")
	checkTask := checkCmd.String("task", "", "Task type whose input schema is applied")
	checkInput := checkCmd.String("input", "", "JSON file holding the job variables")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate":
		validateCmd.Parse(os.Args[2:])
		reg := load(*validatePath)
		if err := validateRegistry(reg); err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))

	case "check":
		checkCmd.Parse(os.Args[2:])
		if *checkTask == "" || *checkInput == "" {
			fmt.Println("Error: task and input are required for check.")
			checkCmd.Usage()
			os.Exit(1)
		}
		v, err := validation.NewValidator(load(*checkPath))
		if err != nil {
			fmt.Printf("Schema compilation failed: %v\n", err)
			os.Exit(1)
		}
		data, err := os.ReadFile(*checkInput)
		if err != nil {
			fmt.Printf("Error reading input: %v\n", err)
			os.Exit(1)
		}
		var doc interface{}
		if err := json.Unmarshal(data, &doc); err != nil {
			fmt.Printf("Input is not valid JSON: %v\n", err)
			os.Exit(1)
		}
		result := v.ValidateTask(*checkTask, doc)
		if !result.Valid {
			for _, msg := range result.GetErrorMessages() {
				fmt.Println("  " + msg)
			}
			os.Exit(1)
		}
		fmt.Printf("Input is valid for %s\n", *checkTask)

	case "help":
		fallthrough
	default:
		help()
	}
}

func load(path string) *registry.ActivityRegistry {
	var (
		reg *registry.ActivityRegistry
		err error
	)
	if path == "" {
		reg, err = registry.Default()
	} else {
		reg, err = registry.LoadRegistry(path)
	}
	if err != nil {
		fmt.Printf("Error loading registry: %v\n", err)
		os.Exit(1)
	}
	return reg
}

func validateRegistry(reg *registry.ActivityRegistry) error {
	if len(reg.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	for _, activity := range reg.Activities {
		if err := validation.ValidateActivityNaming(activity.ID); err != nil {
			return fmt.Errorf("activity %q: %w", activity.ID, err)
		}
		if ids[activity.ID] {
			return fmt.Errorf("duplicate activity ID: %s", activity.ID)
		}
		ids[activity.ID] = true

		if activity.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: TaskType", activity.ID)
		}
		if _, err := activity.TimeoutDuration(); err != nil {
			return err
		}
	}

	if _, err := validation.NewValidator(reg); err != nil {
		return err
	}
	return nil
}

func help() {
	fmt.Print(`
Usage: registry-check <command> [flags]

Commands:
  validate  Check activity ids, task types, timeouts and input schemas
  check     Validate a job payload against a task's input schema
  help      Show this help message

Examples:
  registry-check validate
  registry-check check -task assess-idea-maturity -input job.json
` + "\n")
}
